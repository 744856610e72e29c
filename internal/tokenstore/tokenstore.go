// ABOUTME: Single-slot bearer token storage behind a small interface
// ABOUTME: File-backed store for real use, in-memory store for tests and ephemeral sessions

package tokenstore

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// ErrEmptyToken is returned by Set when given an empty token.
var ErrEmptyToken = errors.New("token must not be empty")

// Store holds at most one credential. Implementations do not inspect the
// token; structure and expiry are the server's business.
type Store interface {
	// Get returns the current token and whether one is present.
	Get() (string, bool)
	// Set persists token, replacing any previous value.
	Set(token string) error
	// Clear removes the token. Clearing an empty store is not an error.
	Clear() error
	// CompareAndClear removes the token only if it still equals token, and
	// reports whether it did. A token written since by a newer login is kept.
	// An empty token matches an empty store.
	CompareAndClear(token string) (bool, error)
}

// MemoryStore keeps the token in process memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) CompareAndClear(token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return false, nil
	}
	s.token = ""
	return true, nil
}

// FileStore persists the token in a single file readable only by the owner.
// Writes go through a temp file and rename so a crash never leaves a torn token.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFile creates a store backed by path. The file is created lazily on Set.
func NewFile(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Cannot read token file", "path", s.path, "error", err)
		}
		return "", false
	}

	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (s *FileStore) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader([]byte(token))); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	// atomic.WriteFile carries over the mode of a pre-existing file
	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("restricting token file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

func (s *FileStore) CompareAndClear(token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading token file: %w", err)
	}
	if strings.TrimSpace(string(data)) != token {
		return false, nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("removing token file: %w", err)
	}
	return true, nil
}
