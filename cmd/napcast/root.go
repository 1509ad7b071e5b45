package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ekisa-team/napcast/internal/config"
	"github.com/ekisa-team/napcast/internal/env"
	"github.com/ekisa-team/napcast/internal/envvar"
	"github.com/ekisa-team/napcast/internal/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configPath string
	schemaPath string
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "napcast",
		Short:         "Turn podcast text into audio",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(
				logger.New(env.FromEnv(),
					logger.WithLogToFile(opts.logFile != ""),
					logger.WithLogFile(opts.logFile),
				),
			)
		},
	}

	defaultConfig := os.Getenv(envvar.NapcastConfigPath)
	if defaultConfig == "" {
		defaultConfig = filepath.Join(config.DefaultConfigPath(), "config.yaml")
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "Path to config file")
	cmd.PersistentFlags().StringVar(&opts.schemaPath, "schema", "", "Path to schema file (defaults to the built-in schema)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this rotating file")

	cmd.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newVoicesCmd(),
	)

	return cmd
}
