package tui

import (
	"errors"
	"os/exec"
	"strings"

	"ideapad/internal/model"
)

type clipboardCmd struct {
	name string
	args []string
}

// clipboardCmds lists the copy commands to try for goos, in order.
func clipboardCmds(goos string) []clipboardCmd {
	switch goos {
	case "darwin":
		return []clipboardCmd{{name: "pbcopy"}}
	case "windows":
		return []clipboardCmd{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		return []clipboardCmd{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

func copyToClipboard(goos, s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var errs []error
	for _, c := range clipboardCmds(goos) {
		if _, err := exec.LookPath(c.name); err != nil {
			errs = append(errs, err)
			continue
		}
		cmd := exec.Command(c.name, c.args...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			errs = append(errs, errors.New(c.name+": "+err.Error()))
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}

// ideaClipboardText renders an idea as a small markdown document.
func ideaClipboardText(idea model.Idea) string {
	s := "# " + idea.Title
	if d := strings.TrimSpace(idea.Description); d != "" {
		s += "\n\n" + d
	}
	return s + "\n"
}
