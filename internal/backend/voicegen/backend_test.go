package voicegen

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/ekisa-team/napcast/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript writes a shell script that stands in for the voice generator.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "voice_generator.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func newShellBackend(t *testing.T, script, envFile string) *Backend {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	b, err := NewBackend(Settings{
		Command: "sh",
		Args:    []string{script},
		Timeout: 10 * time.Second,
		EnvFile: envFile,
	})
	require.NoError(t, err)
	return b
}

// echoArgsScript writes the input text, voice mode and name into the output file
// so tests can check which arguments the process received.
const echoArgsScript = `
while [ $# -gt 0 ]; do
  case "$1" in
    --text-file) in="$2"; shift 2 ;;
    --output) out="$2"; shift 2 ;;
    --voice-mode) mode="$2"; shift 2 ;;
    --filename) name="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf '%s|%s|%s' "$(cat "$in")" "$mode" "$name" > "$out"
`

func TestBackend_InvokeSuccess(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "t1_text.txt")
	out := filepath.Join(dir, "t1.mp3")
	require.NoError(t, os.WriteFile(in, []byte("hello world"), 0o644))

	b := newShellBackend(t, writeScript(t, echoArgsScript), "")

	outcome, err := b.Invoke(context.Background(), &backend.Invocation{
		InputPath:  in,
		OutputPath: out,
		Name:       "t1",
		VoiceMode:  4,
	})
	require.NoError(t, err)

	assert.Equal(t, backend.StatusSucceeded, outcome.Status)
	assert.True(t, outcome.AudioExists)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello world|4|t1", string(data))
}

func TestBackend_InvokeFailureKeepsStderr(t *testing.T) {
	b := newShellBackend(t, writeScript(t, "echo 'model unavailable' >&2\nexit 1\n"), "")

	outcome, err := b.Invoke(context.Background(), &backend.Invocation{
		InputPath:  filepath.Join(t.TempDir(), "x_text.txt"),
		OutputPath: filepath.Join(t.TempDir(), "x.mp3"),
		Name:       "x",
	})
	require.NoError(t, err)

	assert.Equal(t, backend.StatusFailed, outcome.Status)
	assert.Equal(t, 1, outcome.ExitCode)
	assert.Contains(t, outcome.Stderr, "model unavailable")
	assert.False(t, outcome.AudioExists)
}

func TestBackend_InvokeExitZeroWithoutOutput(t *testing.T) {
	b := newShellBackend(t, writeScript(t, "exit 0\n"), "")

	outcome, err := b.Invoke(context.Background(), &backend.Invocation{
		OutputPath: filepath.Join(t.TempDir(), "missing.mp3"),
		Name:       "missing",
	})
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded())
	assert.False(t, outcome.AudioExists)
}

func TestBackend_InvokePassesEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "voice.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEEPGRAM_API_KEY=dg-test-key\n"), 0o600))

	script := writeScript(t, `
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf '%s' "$DEEPGRAM_API_KEY" > "$out"
`)
	b := newShellBackend(t, script, envFile)

	out := filepath.Join(t.TempDir(), "env.mp3")
	outcome, err := b.Invoke(context.Background(), &backend.Invocation{OutputPath: out, Name: "env"})
	require.NoError(t, err)
	require.True(t, outcome.Succeeded())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "dg-test-key", string(data))
}

func TestBackend_InvokeMissingEnvFile(t *testing.T) {
	b := newShellBackend(t, writeScript(t, "exit 0\n"), filepath.Join(t.TempDir(), "absent.env"))

	_, err := b.Invoke(context.Background(), &backend.Invocation{Name: "x"})
	assert.ErrorIs(t, err, backend.ErrEnvFile)
}

func TestBackend_Reconfigure(t *testing.T) {
	b := newShellBackend(t, writeScript(t, "exit 0\n"), "")

	err := b.Reconfigure(Settings{Command: "napcast-no-such-binary"})
	assert.ErrorIs(t, err, backend.ErrBinaryNotFound)
	assert.Equal(t, 10*time.Second, b.Settings().Timeout)

	require.NoError(t, b.Reconfigure(Settings{Command: "sh", Timeout: time.Minute}))
	assert.Equal(t, time.Minute, b.Settings().Timeout)
	assert.Equal(t, "voicegen", b.Provider())
	assert.NoError(t, b.Close())
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs([]string{"voice_generator.py"}, &backend.Invocation{
		InputPath:  "/data/a_text.txt",
		OutputPath: "/data/a.mp3",
		Name:       "a",
		VoiceMode:  7,
	})

	assert.Equal(t, []string{
		"voice_generator.py",
		"--text-file", "/data/a_text.txt",
		"--output", "/data/a.mp3",
		"--voice-mode", "7",
		"--filename", "a",
	}, args)
}
