package cli

import (
	"bytes"
	"fmt"
	"strings"

	"tasktree/internal/config"
	"tasktree/internal/format"
	"tasktree/internal/logging"
	"tasktree/internal/session"
	"tasktree/internal/tui"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Format     string
	PrettyJSON bool
	LogLevel   string
	LogFile    string

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasktree",
		Short:        "Hierarchical task list (TUI, web and scripts)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasktree

  # Serve the same list in a browser
  tasktree web --addr 127.0.0.1:8787

  # Apply a batch of commands and print the resulting tree
  tasktree run commands.json --format outline
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.loadConfig(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to a config file (YAML/TOML/JSON); merged over the user config")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "Output format ("+strings.Join(format.Formats, "|")+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Log file for the TUI (default: no log)")

	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newRunCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// loadConfig resolves configuration; flags set on the command line win over
// config files and environment.
func (app *App) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(app.Format))
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = app.PrettyJSON
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(app.LogLevel))
	}
	if flags.Changed("log-file") {
		cfg.Log.File = strings.TrimSpace(app.LogFile)
	}
	app.cfg = cfg
	return nil
}

func (app *App) config() *config.Config {
	if app.cfg == nil {
		app.cfg = config.Default()
	}
	return app.cfg
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg := app.config()
	logger, closeLog, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = closeLog() }()

	sess := session.New(session.WithLogger(logger))
	logger.Info("tui start")
	if err := tui.Run(sess, tui.Options{
		Logger:        logger,
		ConfirmDelete: cfg.UI.ConfirmDelete,
		PreviewWidth:  cfg.UI.PreviewWidth,
	}); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	cfg := app.config()
	if isMarkdownFormat(cfg.Output.Format) && !color.NoColor {
		return writeMarkdownStyled(cmd, v)
	}
	return format.Write(cmd.OutOrStdout(), v, cfg.Output.Format, cfg.Output.Pretty)
}

// writeMarkdownStyled renders markdown output for a terminal.
func writeMarkdownStyled(cmd *cobra.Command, v any) error {
	var buf bytes.Buffer
	if err := format.Write(&buf, v, "markdown", false); err != nil {
		return err
	}
	out, err := glamour.Render(buf.String(), "auto")
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func isMarkdownFormat(f string) bool {
	f = strings.ToLower(strings.TrimSpace(f))
	return f == "markdown" || f == "md"
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
