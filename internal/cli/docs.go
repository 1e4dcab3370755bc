package cli

import (
	"fmt"
	"strings"

	"tasktree/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Long:  "Show built-in documentation. Without a topic, lists the topics.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": docs.Topics()})
			}
			md, ok := docs.Get(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown topic: %s (expected %s)", args[0], strings.Join(docs.Topics(), "|")))
			}
			if color.NoColor {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			out, err := glamour.Render(md, "auto")
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
