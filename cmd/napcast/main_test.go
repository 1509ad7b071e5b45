package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoicesCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newVoicesCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 9)
	assert.Contains(t, lines[0], "Sleepy Voice")
	assert.Contains(t, lines[8], "Deepgram Apollo")
}

func TestReadText(t *testing.T) {
	text, err := readText(strings.NewReader("from stdin"), "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	path := filepath.Join(t.TempDir(), "story.txt")
	require.NoError(t, os.WriteFile(path, []byte("once upon a time"), 0o644))

	text, err = readText(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "once upon a time", text)

	_, err = readText(nil, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("NAPCAST_DATA_PATH", t.TempDir())

	cfg, fromFile, err := loadConfig(&rootOptions{configPath: filepath.Join(t.TempDir(), "absent.yaml")})
	require.NoError(t, err)
	assert.False(t, fromFile)
	assert.Equal(t, "mp3", cfg.Storage.AudioExt)
}

func TestGenerateCmd(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "voice_generator.sh")
	require.NoError(t, os.WriteFile(script, []byte(`#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf 'audio' > "$out"
`), 0o755))

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`version: "1"
storage:
  dir: `+filepath.Join(dir, "audio")+`
synthesis:
  command: sh
  args: ["`+script+`"]
  timeout: 30s
jobs:
  database: `+filepath.Join(dir, "jobs.db")+`
`), 0o644))

	textPath := filepath.Join(dir, "story.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("a calm story"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--config", configPath, "--text-file", textPath, "--filename", "story", "--voice-mode", "2"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "story.mp3\n", out.String())

	data, err := os.ReadFile(filepath.Join(dir, "audio", "story.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))

	_, err = os.Stat(filepath.Join(dir, "audio", "story_text.txt"))
	assert.True(t, os.IsNotExist(err))
}
