package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
version: "1"
server:
  port: 9090
storage:
  dir: `+filepath.Join(dir, "audio")+`
synthesis:
  command: /usr/bin/python3
  args: ["scripts/voice_generator.py"]
  timeout: 90s
`)

	cfg, err := LoadAndValidate(path, "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, "audio"), cfg.Storage.Dir)
	assert.Equal(t, "mp3", cfg.Storage.AudioExt)
	assert.Equal(t, "txt", cfg.Storage.TextExt)
	assert.Equal(t, "/usr/bin/python3", cfg.Synthesis.Command)
	assert.Equal(t, []string{"scripts/voice_generator.py"}, cfg.Synthesis.Args)
	assert.Equal(t, 90*time.Second, cfg.Synthesis.Timeout)
	assert.Equal(t, "napcast.audio.generated", cfg.Events.Subject)
	assert.Empty(t, cfg.Events.NATSURL)
}

func TestLoadAndValidate_SchemaViolation(t *testing.T) {
	tests := map[string]string{
		"missing version": `server: {port: 8080}`,
		"port out of range": `
version: "1"
server:
  port: 70000
`,
		"unknown section": `
version: "1"
database:
  url: mongodb://localhost
`,
		"bad timeout": `
version: "1"
synthesis:
  timeout: forever
`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), body)

			_, err := LoadAndValidate(path, "")
			assert.ErrorContains(t, err, "validation failed")
		})
	}
}

func TestLoadAndValidate_SchemaFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `version: "1"`)

	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(embeddedSchema), 0o644))

	cfg, err := LoadAndValidate(path, schemaPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPPort(), cfg.Server.Port)
}

func TestLoadAndValidate_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
version: "1"
server:
  port: 9090
events:
  subject: podcasts.ready
`)

	t.Setenv("NAPCAST_SERVER_PORT", "7070")
	t.Setenv("NAPCAST_SYNTHESIS_TIMEOUT", "2m")
	t.Setenv("NAPCAST_EVENTS_NATS_URL", "nats://127.0.0.1:4222")

	cfg, err := LoadAndValidate(path, "")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Synthesis.Timeout)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
	assert.Equal(t, "podcasts.ready", cfg.Events.Subject)
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NAPCAST_DATA_PATH", t.TempDir())

	cfg, err := LoadDefaults()
	require.NoError(t, err)

	assert.Equal(t, "python3", cfg.Synthesis.Command)
	assert.Equal(t, []string{"voice_generator.py"}, cfg.Synthesis.Args)
	assert.Equal(t, DefaultSynthesisTimeout, cfg.Synthesis.Timeout)
	assert.Equal(t, filepath.Join(DefaultDataPath(), "audio"), cfg.Storage.Dir)
	assert.Equal(t, filepath.Join(DefaultDataPath(), "jobs.db"), cfg.Jobs.Database)
	assert.Equal(t, "0.0.0.0:8080", (ServerConfig{Host: "0.0.0.0", Port: 8080}).Addr())
}
