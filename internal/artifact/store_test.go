package artifact

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "audio"), "txt", ".mp3")
	require.NoError(t, err)
	require.NoError(t, s.EnsureDir())
	return s
}

func TestStore_EnsureDirIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EnsureDir())
	info, err := os.Stat(s.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_Handle(t *testing.T) {
	s := newTestStore(t)

	h, err := s.Handle("t1")
	require.NoError(t, err)

	assert.Equal(t, "t1", h.BaseName)
	assert.Equal(t, filepath.Join(s.Root(), "t1_text.txt"), h.TextPath)
	assert.Equal(t, filepath.Join(s.Root(), "t1.mp3"), h.AudioPath)
	assert.Equal(t, "t1.mp3", h.AudioName())
}

func TestStore_HandleRejectsPathNames(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"../evil", "a/b", `a\b`, "..", "nul\x00"} {
		_, err := s.Handle(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestStore_WriteAndRemoveText(t *testing.T) {
	s := newTestStore(t)
	h, err := s.Handle("episode")
	require.NoError(t, err)

	require.NoError(t, s.WriteText(h.TextPath, "hello world"))
	assert.True(t, s.Exists(h.TextPath))

	data, err := os.ReadFile(h.TextPath)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	require.NoError(t, s.Remove(h.TextPath))
	assert.False(t, s.Exists(h.TextPath))

	// Removing twice is fine.
	require.NoError(t, s.Remove(h.TextPath))
}

func TestStore_Open(t *testing.T) {
	s := newTestStore(t)
	payload := []byte("ID3\x03fake-mp3-bytes")
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "t1.mp3"), payload, 0o644))

	a, err := s.Open("t1.mp3")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "t1.mp3", a.Name)
	assert.Equal(t, "audio/mpeg", a.ContentType)
	assert.Equal(t, int64(len(payload)), a.Size)

	got, err := io.ReadAll(a)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStore_OpenMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Open("missing.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_OpenDirectoryIsNotFound(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.Mkdir(filepath.Join(s.Root(), "folder.mp3"), 0o755))

	_, err := s.Open("folder.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_OpenConfinedToRoot(t *testing.T) {
	s := newTestStore(t)

	outside := filepath.Join(filepath.Dir(s.Root()), "secret.mp3")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))

	_, err := s.Open("../secret.mp3")
	assert.ErrorIs(t, err, ErrInvalidName)

	// A symlink planted in the root must not lead outside it.
	require.NoError(t, os.Symlink(outside, filepath.Join(s.Root(), "link.mp3")))
	_, err = s.Open("link.mp3")
	assert.Error(t, err)

	require.NoError(t, os.Symlink("../secret.mp3", filepath.Join(s.Root(), "relative.mp3")))
	_, err = s.Open("relative.mp3")
	assert.Error(t, err)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root(), "old.mp3")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, s.Delete("old.mp3"))
	assert.False(t, s.Exists(path))

	assert.ErrorIs(t, s.Delete("old.mp3"), ErrNotFound)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", ContentType("a.MP3"))
	assert.Equal(t, "audio/wav", ContentType("a.wav"))
	assert.Equal(t, "audio/ogg", ContentType("a.ogg"))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("a_text.txt"))
	assert.Equal(t, "application/octet-stream", ContentType("a.bin"))
}
