package autosave

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/pierrec/lz4"

	mterrors "github.com/matzehuels/mindtower/pkg/errors"
)

// Sentinel errors for autosave operations.
var (
	// ErrNotFound is returned when no snapshot exists for a key.
	ErrNotFound = errors.New("autosave not found")

	// ErrCorrupt is returned when a stored snapshot cannot be decoded.
	ErrCorrupt = errors.New("autosave corrupt")
)

// Store persists snapshots by session key.
type Store interface {
	// Save stores data under key, replacing any earlier snapshot.
	Save(ctx context.Context, key string, data []byte) error

	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// List returns the stored snapshots, newest first.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes the snapshot under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// Entry describes a stored snapshot.
type Entry struct {
	Key     string    `json:"key"`
	SavedAt time.Time `json:"saved_at"`
	Size    int       `json:"size"`
}

// record is the on-disk form of a snapshot before compression.
type record struct {
	Key     string    `json:"key"`
	SavedAt time.Time `json:"saved_at"`
	Data    []byte    `json:"data"`
}

const fileExt = ".lz4"

// FileStore keeps one lz4-compressed file per session key.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns $XDG_STATE_HOME/mindtower/autosave, falling back to
// ~/.local/state/mindtower/autosave.
func DefaultDir() (string, error) {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "mindtower", "autosave"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "mindtower", "autosave"), nil
}

// NewFileStore creates a store in dir, or in [DefaultDir] when dir is
// empty. The directory is created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create autosave dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the snapshots.
func (s *FileStore) Dir() string { return s.dir }

// Save stores data under key.
func (s *FileStore) Save(ctx context.Context, key string, data []byte) error {
	if err := mterrors.ValidateSessionKey(key); err != nil {
		return err
	}
	raw, err := json.Marshal(record{Key: key, SavedAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal autosave: %w", err)
	}
	compressed, err := compress(raw)
	if err != nil {
		return fmt.Errorf("compress autosave: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0600); err != nil {
		return fmt.Errorf("write autosave: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write autosave: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under key.
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := mterrors.ValidateSessionKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := readRecord(s.path(key))
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

// List returns all readable snapshots, newest first. Corrupt files are
// skipped.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read autosave dir: %w", err)
	}

	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != fileExt {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := readRecord(filepath.Join(s.dir, de.Name()))
		if err != nil {
			continue
		}
		out = append(out, Entry{Key: rec.Key, SavedAt: rec.SavedAt, Size: len(rec.Data)})
	}
	slices.SortFunc(out, func(a, b Entry) int { return b.SavedAt.Compare(a.SavedAt) })
	return out, nil
}

// Delete removes the snapshot under key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := mterrors.ValidateSessionKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove autosave: %w", err)
	}
	return nil
}

// path maps a key to a file name derived from its hash.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, Hash([]byte(key))[:32]+fileExt)
}

func readRecord(path string) (record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return record{}, ErrNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("read autosave: %w", err)
	}
	raw, err := decompress(data)
	if err != nil {
		return record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return rec, nil
}

// Hash computes a SHA-256 hash of the input data as a 64-character hex
// string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lz4.NewReader(bytes.NewReader(data))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
