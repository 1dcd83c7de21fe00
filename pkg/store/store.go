package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is the local key-value storage a basket snapshots itself into.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the KV for the named backend rooted at root.
func Open(backend, root string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKV(root)
	case BackendSQLite:
		return NewSQLiteKV(root)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use file, sqlite or memory)", backend)
	}
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// CheckKey rejects keys that could escape the storage root or aren't portable file names.
func CheckKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// FileKV stores each key as <root>/<key>.json.
type FileKV struct {
	Root string // e.g., ~/.local/share/tandem

	mu        sync.Mutex
	lastWrite map[string]string // key -> fingerprint of the last Set
}

// NewFileKV creates a FileKV rooted at the given directory.
// It creates the directory if it doesn't exist.
func NewFileKV(root string) (*FileKV, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileKV{Root: root, lastWrite: make(map[string]string)}, nil
}

// Path returns the file backing key.
func (s *FileKV) Path(key string) string {
	return filepath.Join(s.Root, key+".json")
}

// Get reads the value stored under key.
func (s *FileKV) Get(key string) ([]byte, error) {
	if err := CheckKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key. The write goes to a temp file first and is
// renamed into place so readers never see a partial snapshot.
func (s *FileKV) Set(key string, value []byte) error {
	if err := CheckKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Root, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", key, err)
	}

	// Record before the rename so a watcher woken by it already sees the fingerprint.
	s.mu.Lock()
	s.lastWrite[key] = Fingerprint(value)
	s.mu.Unlock()

	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileKV) Delete(key string) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	s.mu.Lock()
	delete(s.lastWrite, key)
	s.mu.Unlock()
	return nil
}

// LastWrite returns the fingerprint of the last value this process wrote to key.
func (s *FileKV) LastWrite(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWrite[key]
}

// IsOwnWrite reports whether data is exactly what this process last wrote to key.
func (s *FileKV) IsOwnWrite(key string, data []byte) bool {
	last := s.LastWrite(key)
	return last != "" && last == Fingerprint(data)
}

// MemoryKV keeps values in a map. Useful for tests and throwaway sessions.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
