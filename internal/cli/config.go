package cli

import (
	"path/filepath"

	"tasktree/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{
				"data": app.config(),
				"meta": map[string]any{
					"userConfig": filepath.Join(config.UserConfigDir(), "config.yaml"),
				},
			})
		},
	}
}
