package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ekisa-team/napcast/internal/config"
	httpserver "github.com/ekisa-team/napcast/internal/server/http"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fromFile, err := loadConfig(opts)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if fromFile {
				watcher, err := config.NewWatcher(opts.configPath, opts.schemaPath, func(cfg *config.Config, err error) {
					if err != nil {
						slog.Error("Failed to reload config", "error", err)
						return
					}
					a.reconfigure(cfg)
				})
				if err != nil {
					return err
				}
				defer watcher.Close()

				slog.Info("Config loaded successfully", "config", opts.configPath)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpserver.NewServer(cfg.Server.Addr(), version, a.voice)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host to listen on (overrides config)")
	cmd.Flags().IntVar(&port, "port", config.DefaultHTTPPort(), "HTTP port to listen on (overrides config)")

	return cmd
}
