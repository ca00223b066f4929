package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// useTempConfig points the config dir at a fresh temp dir and pins the sqlite backend.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("IDEAPAD_CONFIG_DIR", dir)
	t.Setenv("IDEAPAD_BACKEND", "sqlite")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("IDEAPAD_SQLITE_PATH", "")
	t.Setenv("IDEAPAD_FORMAT", "")
	return dir
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: ideapad %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return data
}

func mustFail(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err == nil {
		t.Fatalf("expected ideapad %v to fail; stdout:\n%s", args, string(stdout))
	}
	return string(stderr)
}

func obj(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %#v", v)
	}
	return m
}

func list(t *testing.T, v any) []any {
	t.Helper()
	xs, ok := v.([]any)
	if !ok {
		t.Fatalf("expected array, got %#v", v)
	}
	return xs
}

func titles(t *testing.T, v any) []string {
	t.Helper()
	var out []string
	for _, it := range list(t, v) {
		s, _ := obj(t, it)["title"].(string)
		out = append(out, s)
	}
	return out
}

func login(t *testing.T) string {
	t.Helper()
	u := obj(t, mustRun(t, "login", "--email", "Ada@Example.com"))
	id, _ := u["id"].(string)
	if id == "" {
		t.Fatalf("expected login to return a user id; got %#v", u)
	}
	return id
}

func TestLoginWhoamiLogout(t *testing.T) {
	useTempConfig(t)

	id := login(t)
	who := obj(t, mustRun(t, "whoami"))
	if who["id"] != id || who["email"] != "ada@example.com" || who["backend"] != "sqlite" {
		t.Fatalf("unexpected whoami: %#v", who)
	}

	mustRun(t, "logout")
	stderr := mustFail(t, "whoami")
	if !strings.Contains(stderr, "not signed in") {
		t.Fatalf("expected not signed in; stderr:\n%s", stderr)
	}
}

func TestLogin_InvalidEmail(t *testing.T) {
	useTempConfig(t)
	stderr := mustFail(t, "login", "--email", "nope")
	if !strings.Contains(stderr, "email and password are required") {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
}

func TestIdeas_RequireSignIn(t *testing.T) {
	useTempConfig(t)
	_, _, err := runCLI(t, []string{"ideas", "list"})
	if !errors.Is(err, errNotSignedIn) {
		t.Fatalf("expected errNotSignedIn, got %v", err)
	}
}

func TestIdeasLifecycle(t *testing.T) {
	useTempConfig(t)
	userID := login(t)

	folder := obj(t, mustRun(t, "folders", "add", "--name", "  Research  "))
	folderID, _ := folder["id"].(string)
	if folderID == "" || folder["name"] != "Research" || folder["user_id"] != userID {
		t.Fatalf("unexpected folder: %#v", folder)
	}

	a := obj(t, mustRun(t, "ideas", "add", "--title", "Rocket", "--description", "to the moon", "--folder", folderID))
	aID, _ := a["id"].(string)
	if aID == "" || a["folderId"] != folderID || a["folder"] != "Research" {
		t.Fatalf("unexpected idea: %#v", a)
	}
	b := obj(t, mustRun(t, "ideas", "add", "--title", "Tomatoes"))
	bID, _ := b["id"].(string)
	if b["createdAt"].(float64) < a["createdAt"].(float64) {
		t.Fatalf("expected non-decreasing createdAt: %v then %v", a["createdAt"], b["createdAt"])
	}

	if got := titles(t, mustRun(t, "ideas", "list")); strings.Join(got, ",") != "Tomatoes,Rocket" {
		t.Fatalf("expected newest first; got %v", got)
	}
	if got := titles(t, mustRun(t, "ideas", "list", "--search", "MOON")); strings.Join(got, ",") != "Rocket" {
		t.Fatalf("unexpected search result: %v", got)
	}
	if got := titles(t, mustRun(t, "ideas", "list", "--folder", folderID)); strings.Join(got, ",") != "Rocket" {
		t.Fatalf("unexpected folder filter: %v", got)
	}
	if got := titles(t, mustRun(t, "ideas", "list", "--unfoldered")); strings.Join(got, ",") != "Tomatoes" {
		t.Fatalf("unexpected unfoldered filter: %v", got)
	}

	folders := list(t, mustRun(t, "folders", "list"))
	if len(folders) != 1 || obj(t, folders[0])["ideas"].(float64) != 1 {
		t.Fatalf("unexpected folders: %#v", folders)
	}

	moved := obj(t, mustRun(t, "ideas", "move", aID, "--none"))
	if _, ok := moved["folderId"]; ok {
		t.Fatalf("expected folder cleared; got %#v", moved)
	}

	edited := obj(t, mustRun(t, "ideas", "edit", bID, "--title", "Heirloom tomatoes"))
	if edited["title"] != "Heirloom tomatoes" || edited["id"] != bID {
		t.Fatalf("unexpected edit: %#v", edited)
	}
	shown := obj(t, mustRun(t, "ideas", "show", bID))
	if shown["title"] != "Heirloom tomatoes" {
		t.Fatalf("expected edit persisted; got %#v", shown)
	}

	mustRun(t, "ideas", "rm", aID)
	stderr := mustFail(t, "ideas", "show", aID)
	if !strings.Contains(stderr, "idea not found: "+aID) {
		t.Fatalf("expected not found; stderr:\n%s", stderr)
	}
}

func TestIdeasAdd_BlankTitleIsUsageError(t *testing.T) {
	useTempConfig(t)
	login(t)

	_, stderr, err := runCLI(t, []string{"ideas", "add", "--title", "   "})
	var ue usageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected usage error, got %v\nstderr:\n%s", err, string(stderr))
	}
	if got := list(t, mustRun(t, "ideas", "list")); len(got) != 0 {
		t.Fatalf("expected no idea stored; got %#v", got)
	}
}

func TestIdeasMove_NewFolder(t *testing.T) {
	useTempConfig(t)
	login(t)

	idea := obj(t, mustRun(t, "ideas", "add", "--title", "Rocket"))
	id := idea["id"].(string)

	moved := obj(t, mustRun(t, "ideas", "move", id, "--new-folder", "Space"))
	if moved["folder"] != "Space" {
		t.Fatalf("expected idea filed into new folder; got %#v", moved)
	}
	folders := list(t, mustRun(t, "folders", "list"))
	if len(folders) != 1 || obj(t, folders[0])["name"] != "Space" {
		t.Fatalf("unexpected folders: %#v", folders)
	}
}

func TestIdeasMove_RequiresTarget(t *testing.T) {
	useTempConfig(t)
	login(t)
	idea := obj(t, mustRun(t, "ideas", "add", "--title", "Rocket"))
	mustFail(t, "ideas", "move", idea["id"].(string))
	mustFail(t, "ideas", "move", idea["id"].(string), "--none", "--folder", "x")
}

func TestFoldersRenameAndRm_KeepsIdeas(t *testing.T) {
	useTempConfig(t)
	login(t)

	f := obj(t, mustRun(t, "folders", "add", "--name", "Research"))
	fID := f["id"].(string)
	mustRun(t, "ideas", "add", "--title", "Rocket", "--folder", fID)
	mustRun(t, "ideas", "add", "--title", "Probe", "--folder", fID)

	renamed := obj(t, mustRun(t, "folders", "rename", fID, "--name", "Space"))
	if renamed["name"] != "Space" || renamed["ideas"].(float64) != 2 {
		t.Fatalf("unexpected rename: %#v", renamed)
	}
	mustFail(t, "folders", "rename", fID, "--name", " ")

	gone := obj(t, mustRun(t, "folders", "rm", fID))
	if gone["unfiled"].(float64) != 2 {
		t.Fatalf("unexpected rm result: %#v", gone)
	}
	if got := titles(t, mustRun(t, "ideas", "list", "--unfoldered")); len(got) != 2 {
		t.Fatalf("expected both ideas kept without a folder; got %v", got)
	}
	stderr := mustFail(t, "folders", "rm", fID)
	if !strings.Contains(stderr, "folder not found") {
		t.Fatalf("expected folder not found; stderr:\n%s", stderr)
	}
}

func TestView_PersistsTopLevelViews(t *testing.T) {
	useTempConfig(t)

	if got := obj(t, mustRun(t, "view"))["view"]; got != "home" {
		t.Fatalf("expected default view home; got %v", got)
	}
	mustRun(t, "view", "folders")
	if got := obj(t, mustRun(t, "view"))["view"]; got != "folders" {
		t.Fatalf("expected persisted view folders; got %v", got)
	}
	stderr := mustFail(t, "view", "idea-detail")
	if !strings.Contains(stderr, "view must be one of") {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
}

func TestOutputFormats(t *testing.T) {
	useTempConfig(t)
	login(t)
	mustRun(t, "ideas", "add", "--title", "Rocket")

	out, stderr, err := runCLI(t, []string{"--format", "yaml", "ideas", "list"})
	if err != nil {
		t.Fatalf("yaml list: %v\nstderr:\n%s", err, string(stderr))
	}
	if !strings.Contains(string(out), "title: Rocket") {
		t.Fatalf("expected yaml output; got:\n%s", string(out))
	}

	out, stderr, err = runCLI(t, []string{"--format", "edn", "ideas", "list"})
	if err != nil {
		t.Fatalf("edn list: %v\nstderr:\n%s", err, string(stderr))
	}
	if !strings.Contains(string(out), `:title "Rocket"`) {
		t.Fatalf("expected edn output; got:\n%s", string(out))
	}
}

func TestConfigSetAndShow(t *testing.T) {
	dir := useTempConfig(t)

	mustRun(t, "config", "set", "logLevel", "DEBUG")
	mustRun(t, "config", "set", "sqlitePath", filepath.Join(dir, "pad.db"))

	shown := obj(t, mustRun(t, "config", "show"))
	cfg := obj(t, shown["config"])
	if cfg["logLevel"] != "debug" || cfg["sqlitePath"] != filepath.Join(dir, "pad.db") {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if _, ok := cfg["logFile"]; ok {
		t.Fatalf("expected resolved defaults to stay out of config.json: %#v", cfg)
	}

	login(t)
	mustRun(t, "ideas", "add", "--title", "Rocket")
	if _, err := os.Stat(filepath.Join(dir, "pad.db")); err != nil {
		t.Fatalf("expected configured sqlite file to be used: %v", err)
	}

	mustRun(t, "config", "set", "logLevel", "")
	if _, ok := obj(t, obj(t, mustRun(t, "config", "show"))["config"])["logLevel"]; ok {
		t.Fatalf("expected empty value to clear logLevel")
	}
}

func TestConfigSet_RejectsInvalidValues(t *testing.T) {
	useTempConfig(t)

	if stderr := mustFail(t, "config", "set", "logLevel", "loud"); !strings.Contains(stderr, "usage:") {
		t.Fatalf("expected usage error, got %q", stderr)
	}
	if stderr := mustFail(t, "config", "set", "colour", "red"); !strings.Contains(stderr, "unknown config key") {
		t.Fatalf("expected unknown key error, got %q", stderr)
	}
	if cfg := obj(t, obj(t, mustRun(t, "config", "show"))["config"]); len(cfg) != 0 {
		t.Fatalf("expected nothing saved after rejected sets, got %#v", cfg)
	}
}
