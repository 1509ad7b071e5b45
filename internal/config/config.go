package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ekisa-team/napcast/internal/xfs"
)

// Config holds the main configuration for the application.
type Config struct {
	Version   string          `json:"version"             yaml:"version"`
	Server    ServerConfig    `json:"server,omitempty"    yaml:"server,omitempty"`
	Storage   StorageConfig   `json:"storage,omitempty"   yaml:"storage,omitempty"`
	Synthesis SynthesisConfig `json:"synthesis,omitempty" yaml:"synthesis,omitempty"`
	Jobs      JobsConfig      `json:"jobs,omitempty"      yaml:"jobs,omitempty"`
	Events    EventsConfig    `json:"events,omitempty"    yaml:"events,omitempty"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Host string `env:"NAPCAST_SERVER_HOST" json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `env:"NAPCAST_SERVER_PORT" json:"port,omitempty" yaml:"port,omitempty"`
}

// StorageConfig holds the artifact directory layout.
type StorageConfig struct {
	Dir      string `env:"NAPCAST_STORAGE_DIR"       json:"dir,omitempty"       yaml:"dir,omitempty"`
	TextExt  string `env:"NAPCAST_STORAGE_TEXT_EXT"  json:"text_ext,omitempty"  yaml:"text_ext,omitempty"`
	AudioExt string `env:"NAPCAST_STORAGE_AUDIO_EXT" json:"audio_ext,omitempty" yaml:"audio_ext,omitempty"`
}

// SynthesisConfig describes the external text-to-speech command.
type SynthesisConfig struct {
	Command string        `env:"NAPCAST_SYNTHESIS_COMMAND"  json:"command,omitempty"  yaml:"command,omitempty"`
	Args    []string      `env:"NAPCAST_SYNTHESIS_ARGS"     json:"args,omitempty"     yaml:"args,omitempty"`
	Timeout time.Duration `env:"NAPCAST_SYNTHESIS_TIMEOUT"  json:"timeout,omitempty"  yaml:"timeout,omitempty"`
	EnvFile string        `env:"NAPCAST_SYNTHESIS_ENV_FILE" json:"env_file,omitempty" yaml:"env_file,omitempty"` // dotenv file with provider credentials
}

// JobsConfig holds the job ledger configuration.
type JobsConfig struct {
	Database string `env:"NAPCAST_JOBS_DATABASE" json:"database,omitempty" yaml:"database,omitempty"`
}

// EventsConfig holds the NATS event publishing configuration.
// Publishing is disabled when NATSURL is empty.
type EventsConfig struct {
	NATSURL string `env:"NAPCAST_EVENTS_NATS_URL" json:"nats_url,omitempty" yaml:"nats_url,omitempty"`
	Subject string `env:"NAPCAST_EVENTS_SUBJECT"  json:"subject,omitempty"  yaml:"subject,omitempty"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// applyDefaults fills every unset field with its default value.
func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultHTTPPort()
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = filepath.Join(DefaultDataPath(), "audio")
	}
	c.Storage.Dir = xfs.ExpandTilde(c.Storage.Dir)
	if c.Storage.TextExt == "" {
		c.Storage.TextExt = "txt"
	}
	if c.Storage.AudioExt == "" {
		c.Storage.AudioExt = "mp3"
	}
	if c.Synthesis.Command == "" {
		c.Synthesis.Command = "python3"
		if len(c.Synthesis.Args) == 0 {
			c.Synthesis.Args = []string{"voice_generator.py"}
		}
	}
	if c.Synthesis.Timeout <= 0 {
		c.Synthesis.Timeout = DefaultSynthesisTimeout
	}
	c.Synthesis.EnvFile = xfs.ExpandTilde(c.Synthesis.EnvFile)
	if c.Jobs.Database == "" {
		c.Jobs.Database = filepath.Join(DefaultDataPath(), "jobs.db")
	}
	c.Jobs.Database = xfs.ExpandTilde(c.Jobs.Database)
	if c.Events.Subject == "" {
		c.Events.Subject = "napcast.audio.generated"
	}
}
