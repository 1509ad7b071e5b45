package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ekisa-team/napcast/internal/artifact"
	"github.com/ekisa-team/napcast/internal/backend"
	"github.com/ekisa-team/napcast/internal/backend/voicegen"
	"github.com/ekisa-team/napcast/internal/config"
	"github.com/ekisa-team/napcast/internal/events"
	"github.com/ekisa-team/napcast/internal/job"
	"github.com/ekisa-team/napcast/internal/service"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg       *config.Config
	backends  *backend.Registry
	voicegen  *voicegen.Backend
	jobs      *job.Store
	publisher events.Publisher
	voice     *service.Voice
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func loadConfig(opts *rootOptions) (cfg *config.Config, fromFile bool, err error) {
	if _, statErr := os.Stat(opts.configPath); errors.Is(statErr, os.ErrNotExist) {
		slog.Info("Config file not found, using defaults", "config", opts.configPath)
		cfg, err = config.LoadDefaults()
		return cfg, false, err
	}

	cfg, err = config.LoadAndValidate(opts.configPath, opts.schemaPath)
	return cfg, err == nil, err
}

func newApp(cfg *config.Config) (*app, error) {
	store, err := artifact.NewStore(cfg.Storage.Dir, cfg.Storage.TextExt, cfg.Storage.AudioExt)
	if err != nil {
		return nil, err
	}

	b, err := voicegen.NewBackend(synthesisSettings(cfg.Synthesis))
	if err != nil {
		return nil, fmt.Errorf("failed to create voice generator: %w", err)
	}

	backends := backend.NewRegistry()
	backends.Register(b)

	jobs, err := job.Open(cfg.Jobs.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open job ledger: %w", err)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			jobs.Close()
			return nil, err
		}
		publisher = p
	}

	slog.Info("Voice generation ready",
		"storage", store.Root(),
		"backends", backends.Providers(),
		"command", cfg.Synthesis.Command,
		"timeout", cfg.Synthesis.Timeout,
		"jobs", cfg.Jobs.Database,
		"events", cfg.Events.NATSURL != "",
	)

	return &app{
		cfg:       cfg,
		backends:  backends,
		voicegen:  b,
		jobs:      jobs,
		publisher: publisher,
		voice:     service.NewVoice(store, b, jobs, publisher),
	}, nil
}

// reconfigure applies a reloaded config. Only synthesis settings change at runtime.
func (a *app) reconfigure(cfg *config.Config) {
	if err := a.voicegen.Reconfigure(synthesisSettings(cfg.Synthesis)); err != nil {
		slog.Error("Failed to apply synthesis settings", "error", err)
	}
}

func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		slog.Warn("Failed to close event publisher", "error", err)
	}
	if err := a.jobs.Close(); err != nil {
		slog.Warn("Failed to close job ledger", "error", err)
	}
	if err := a.backends.Close(); err != nil {
		slog.Warn("Failed to close backends", "error", err)
	}
}

func synthesisSettings(c config.SynthesisConfig) voicegen.Settings {
	return voicegen.Settings{
		Command: c.Command,
		Args:    c.Args,
		Timeout: c.Timeout,
		EnvFile: c.EnvFile,
	}
}
