package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

type editorDoneMsg struct {
	err error
}

// editorArgv resolves $VISUAL, then $EDITOR, then vi into an argv.
func editorArgv(getenv func(string) string) []string {
	for _, k := range []string{"VISUAL", "EDITOR"} {
		if argv := shellFields(getenv(k)); len(argv) > 0 {
			return argv
		}
	}
	return []string{"vi"}
}

// shellFields splits a command line on unquoted whitespace. Single quotes are
// literal; double quotes group; a backslash outside single quotes escapes the next rune.
func shellFields(s string) []string {
	var (
		out     []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote, inWord = r, true
		case quote == 0 && unicode.IsSpace(r):
			if inWord {
				out = append(out, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		out = append(out, word.String())
	}
	return out
}

// openEditorForBody hands the modal's description to an external editor.
func (m *appModel) openEditorForBody() tea.Cmd {
	argv := editorArgv(os.Getenv)

	f, err := os.CreateTemp("", "ideapad-*.md")
	if err != nil {
		m.showMinibuffer("Editor failed: " + err.Error())
		return nil
	}
	path := f.Name()
	before := m.modal.body.Value()
	_, err = f.WriteString(before)
	_ = f.Close()
	if err != nil {
		_ = os.Remove(path)
		m.showMinibuffer("Editor failed: " + err.Error())
		return nil
	}
	m.modal.editorPath = path
	m.modal.editorBefore = before

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	})
}

func (m *appModel) applyEditorResult(msg editorDoneMsg) {
	path, before := m.modal.editorPath, m.modal.editorBefore
	m.modal.editorPath, m.modal.editorBefore = "", ""
	if path == "" {
		return
	}
	defer func() { _ = os.Remove(path) }()

	if msg.err != nil {
		m.showMinibuffer("Editor failed: " + msg.err.Error())
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		m.showMinibuffer("Editor read failed: " + err.Error())
		return
	}
	after := strings.TrimRight(string(b), "\n")
	if !m.modal.hasBody() {
		return
	}
	m.modal.body.SetValue(after)
	m.syncForm()

	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		m.showMinibuffer("No changes from editor")
		return
	}
	m.showMinibuffer(fmt.Sprintf("Description updated from %s (ctrl+s to save)", editorArgv(os.Getenv)[0]))
}
