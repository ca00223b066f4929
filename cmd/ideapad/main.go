package main

import (
	"os"
	"strings"

	"ideapad/internal/cli"

	"github.com/google/uuid"
)

func isIdeaID(s string) bool {
	// Both backends assign uuids.
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

func rewriteDirectIdeaLookupArgs(argv []string) []string {
	// Convenience: `ideapad <idea-id>` works like `ideapad ideas show <idea-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `ideapad --format yaml <idea-id>`), so we look for
	// the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--backend":   true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	showAt := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "ideas", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isIdeaID(argv[i+1]) {
				return showAt(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isIdeaID(a) {
			return showAt(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectIdeaLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
