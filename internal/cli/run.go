package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tasktree/internal/logging"
	"tasktree/internal/script"
	"tasktree/internal/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRunCmd(app *App) *cobra.Command {
	var strict bool
	var results bool

	cmd := &cobra.Command{
		Use:   "run [file|-]",
		Short: "Apply a JSON command script and print the resulting tree",
		Long: strings.TrimSpace(`
Apply a JSON command script to a fresh, empty task list and print the final tree.

The script is {"commands": [...]}; each command has an op (add, add-child, edit,
delete, toggle) plus path/text as the op needs. Rejected commands print a notice
on stderr and the run continues. "cancel": true dismisses an edit prompt and
"confirm": false declines a delete.
`),
		Example: strings.TrimSpace(`
tasktree run - --format outline <<'JSON'
{"commands": [
  {"op": "add", "text": "Buy milk"},
  {"op": "add-child", "path": "0", "text": "2%"},
  {"op": "edit", "path": "0-0", "text": "Whole milk"}
]}
JSON
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = strings.TrimSpace(args[0])
			}
			r, closeSrc, err := openScript(cmd, src)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = closeSrc() }()

			sc, err := script.Parse(r)
			if err != nil {
				return writeErr(cmd, err)
			}

			cfg := app.config()
			logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
			sess := session.New(session.WithLogger(logger))

			res, err := script.Run(cmd.Context(), sess, sc.Commands)
			if err != nil {
				return writeErr(cmd, err)
			}
			failed := printNotices(cmd.ErrOrStderr(), res)

			if results {
				err = writeOut(cmd, app, res)
			} else {
				err = writeOut(cmd, app, sess.Frame())
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if strict && failed > 0 {
				return writeErr(cmd, fmt.Errorf("%d of %d commands rejected", failed, len(res)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any command is rejected")
	cmd.Flags().BoolVar(&results, "results", false, "Print per-command results instead of the final tree")
	return cmd
}

func openScript(cmd *cobra.Command, src string) (io.Reader, func() error, error) {
	if src == "" || src == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("script not found: %s", src)
		}
		return nil, nil, err
	}
	return f, f.Close, nil
}

// printNotices writes one line per rejected command and returns how many there were.
func printNotices(w io.Writer, res []script.Result) int {
	warn := color.New(color.FgYellow)
	dim := color.New(color.Faint)
	failed := 0
	for _, r := range res {
		if !r.Failed() {
			continue
		}
		failed++
		where := r.Op
		if r.Path != "" {
			where += " " + r.Path
		}
		_, _ = dim.Fprintf(w, "#%d %s: ", r.Index, where)
		_, _ = warn.Fprintln(w, r.Notice)
	}
	return failed
}
