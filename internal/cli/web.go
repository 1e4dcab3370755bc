package cli

import (
	"errors"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tasktree/internal/logging"
	"tasktree/internal/session"
	"tasktree/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the task list in a browser",
		Long: strings.TrimSpace(`
Serve the task list from a local HTTP server.

The page is server-rendered and kept live over a datastar event stream: every
command re-renders the whole tree and pushes it to every open tab. State lives
in this process only and is gone when it exits.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address (web.addr, default 127.0.0.1:8787)
tasktree web

# Pick a port
tasktree web --addr 127.0.0.1:3335
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.config()
			listenAddr := strings.TrimSpace(cfg.Web.Addr)
			if cmd.Flags().Changed("addr") {
				listenAddr = strings.TrimSpace(addr)
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
			sess := session.New(session.WithLogger(logger))
			srv, err := web.NewServer(sess, web.ServerConfig{
				Addr:   listenAddr,
				Logger: logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"url": "http://" + ln.Addr().String() + "/",
				},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Serve(ctx, ln); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides web.addr)")
	return cmd
}
