package main

import (
	"os"
	"strings"

	"tasktree/internal/cli"
)

func isScriptPath(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasSuffix(s, ".json") && len(s) > len(".json")
}

func rewriteDirectScriptArgs(argv []string) []string {
	// Convenience: `tasktree cmds.json` works like `tasktree run cmds.json`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `tasktree --format outline cmds.json`), so we look
	// for the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--format":    true,
		"--log-level": true,
		"--log-file":  true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isScriptPath(argv[i+1]) {
				// Everything after "--" is positional, so run must come first.
				out := make([]string, 0, len(argv)+1)
				out = append(out, argv[:i]...)
				out = append(out, "run")
				out = append(out, argv[i:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isScriptPath(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "run")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectScriptArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
