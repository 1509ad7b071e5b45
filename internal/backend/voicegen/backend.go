package voicegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/ekisa-team/napcast/internal/backend"
	"github.com/joho/godotenv"
)

// Settings configures how the voice generator process is started.
type Settings struct {
	// Command is the program to run, resolved through PATH.
	Command string

	// Args are passed before the generation flags, typically the script path.
	Args []string

	// Timeout bounds a single run. Zero disables it.
	Timeout time.Duration

	// EnvFile is an optional dotenv file with credentials for the process.
	EnvFile string
}

// Backend implements backend.Backend by shelling out to a voice generator script.
type Backend struct {
	mu       sync.RWMutex
	executor *backend.Executor
	settings Settings
}

// NewBackend creates a new voice generator backend.
func NewBackend(settings Settings) (*Backend, error) {
	executor, err := backend.NewExecutor(settings.Command, settings.Timeout)
	if err != nil {
		return nil, err
	}

	return &Backend{
		executor: executor,
		settings: settings,
	}, nil
}

// NewBackendWithExecutor creates a backend around an existing executor.
func NewBackendWithExecutor(settings Settings, executor *backend.Executor) *Backend {
	return &Backend{
		executor: executor,
		settings: settings,
	}
}

// Provider returns the backend identifier.
func (b *Backend) Provider() string {
	return "voicegen"
}

// Settings returns the active settings.
func (b *Backend) Settings() Settings {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.settings
}

// Reconfigure swaps the settings used by subsequent runs. Runs already in
// progress keep the executor they started with.
func (b *Backend) Reconfigure(settings Settings) error {
	executor, err := backend.NewExecutor(settings.Command, settings.Timeout)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.executor = executor
	b.settings = settings
	b.mu.Unlock()

	slog.Info("Voice generator reconfigured", "command", executor.BinaryPath(), "timeout", settings.Timeout)
	return nil
}

// Invoke runs the voice generator for one artifact.
func (b *Backend) Invoke(ctx context.Context, inv *backend.Invocation) (*backend.Outcome, error) {
	b.mu.RLock()
	executor, settings := b.executor, b.settings
	b.mu.RUnlock()

	env, err := buildEnv(settings.EnvFile)
	if err != nil {
		return nil, err
	}

	args := buildArgs(settings.Args, inv)

	slog.Debug("Starting voice generator",
		"command", executor.BinaryPath(),
		"name", inv.Name,
		"voice_mode", inv.VoiceMode,
	)

	outcome := executor.Execute(ctx, args, env)
	outcome.AudioExists = fileExists(inv.OutputPath)

	slog.Info("Voice generator finished",
		"name", inv.Name,
		"status", outcome.Status,
		"exit_code", outcome.ExitCode,
		"duration", outcome.Duration,
		"audio_exists", outcome.AudioExists,
	)

	return outcome, nil
}

// Close cleans up resources. The voice generator holds none between runs.
func (b *Backend) Close() error {
	return nil
}

// buildArgs builds the voice generator command-line arguments.
func buildArgs(prefix []string, inv *backend.Invocation) []string {
	args := make([]string, 0, len(prefix)+8)
	args = append(args, prefix...)
	args = append(args,
		"--text-file", inv.InputPath,
		"--output", inv.OutputPath,
		"--voice-mode", strconv.Itoa(inv.VoiceMode),
		"--filename", inv.Name,
	)
	return args
}

// buildEnv returns the parent environment extended with the variables from envFile.
// Values are passed through untouched and never logged.
func buildEnv(envFile string) ([]string, error) {
	env := os.Environ()
	if envFile == "" {
		return env, nil
	}

	vars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrEnvFile, err)
	}

	for k, v := range vars {
		env = append(env, k+"="+v)
	}

	return env, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to stat audio output", "error", err)
		}
		return false
	}
	return info.Mode().IsRegular()
}
