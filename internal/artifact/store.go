package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Handle locates the working files of one generation request.
type Handle struct {
	BaseName  string
	TextPath  string // transient input, removed after synthesis
	AudioPath string
}

// AudioName returns the logical file name of the audio artifact.
func (h *Handle) AudioName() string {
	return filepath.Base(h.AudioPath)
}

// Artifact is an opened audio artifact ready to be streamed.
type Artifact struct {
	io.ReadCloser
	ModTime     time.Time
	Name        string
	ContentType string
	Size        int64
}

// Store is a flat directory of generated artifacts keyed by name.
// Every path it hands out is confined to the root directory.
type Store struct {
	root     string
	textExt  string
	audioExt string
}

// NewStore creates a store rooted at dir.
func NewStore(dir, textExt, audioExt string) (*Store, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	return &Store{
		root:     root,
		textExt:  strings.TrimPrefix(textExt, "."),
		audioExt: strings.TrimPrefix(audioExt, "."),
	}, nil
}

// Root returns the absolute storage directory.
func (s *Store) Root() string {
	return s.root
}

// AudioExt returns the audio file extension without the leading dot.
func (s *Store) AudioExt() string {
	return s.audioExt
}

// EnsureDir creates the storage directory if it does not exist.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// Handle returns the text and audio paths for the given base name.
func (s *Store) Handle(name string) (*Handle, error) {
	textPath, err := s.resolve(fmt.Sprintf("%s_text.%s", name, s.textExt))
	if err != nil {
		return nil, err
	}

	audioPath, err := s.resolve(fmt.Sprintf("%s.%s", name, s.audioExt))
	if err != nil {
		return nil, err
	}

	return &Handle{
		BaseName:  name,
		TextPath:  textPath,
		AudioPath: audioPath,
	}, nil
}

// WriteText writes content verbatim to path.
func (s *Store) WriteText(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write text artifact: %w", err)
	}
	return nil
}

// Remove deletes path. A missing file is not an error.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove artifact: %w", err)
	}
	return nil
}

// Exists reports whether path is an existing regular file.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Open opens the artifact stored directly under the root as filename.
func (s *Store) Open(filename string) (*Artifact, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat artifact: %w", err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Artifact{
		ReadCloser:  f,
		ModTime:     info.ModTime(),
		Name:        filename,
		ContentType: ContentType(filename),
		Size:        info.Size(),
	}, nil
}

// Delete removes the artifact stored under filename.
func (s *Store) Delete(filename string) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}

	if !s.Exists(path) {
		return ErrNotFound
	}

	return s.Remove(path)
}

// resolve maps a caller-supplied file name to a path inside the root.
// Names must address a file directly under the root; symlinks are resolved
// within the root so they cannot point outside it.
func (s *Store) resolve(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}

	path, err := securejoin.SecureJoin(s.root, filename)
	if err != nil {
		return "", fmt.Errorf("failed to resolve artifact path: %w", err)
	}

	if filepath.Dir(path) != s.root {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}

	return path, nil
}

// ContentType returns the media type served for an artifact file name.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
