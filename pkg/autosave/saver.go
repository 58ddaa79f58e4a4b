package autosave

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mindtower/pkg/document"
	"github.com/matzehuels/mindtower/pkg/observability"
)

// DefaultInterval is the time between autosave ticks.
const DefaultInterval = 30 * time.Second

// Source provides the snapshots to save. [editor.Editor] implements it.
type Source interface {
	Snapshot() *document.Document
}

// Options configures a [Saver].
type Options struct {
	// Key is the session key. Empty generates a random UUID.
	Key string

	// Interval is the tick period. Zero selects DefaultInterval.
	Interval time.Duration

	Logger *log.Logger
}

// Saver periodically writes snapshots of a Source to a Store. Ticks whose
// snapshot encodes to the same bytes as the last save are skipped.
type Saver struct {
	store    Store
	src      Source
	key      string
	interval time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	lastHash string
}

// NewSaver creates a saver for src.
func NewSaver(store Store, src Source, opts Options) *Saver {
	if opts.Key == "" {
		opts.Key = uuid.NewString()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Saver{
		store:    store,
		src:      src,
		key:      opts.Key,
		interval: opts.Interval,
		logger:   opts.Logger,
	}
}

// Key returns the session key snapshots are saved under.
func (s *Saver) Key() string { return s.key }

// Run saves on every tick until ctx is done, then flushes once more.
func (s *Saver) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if _, err := s.Flush(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("final autosave failed", "key", s.key, "error", err)
			}
			return
		case <-ticker.C:
			if _, err := s.Flush(ctx); err != nil {
				s.logger.Warn("autosave failed", "key", s.key, "error", err)
			}
		}
	}
}

// Flush saves the current snapshot unless it is unchanged since the last
// save. It reports whether anything was written.
func (s *Saver) Flush(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := document.Marshal(s.src.Snapshot(), document.FormatJSON)
	if err != nil {
		return false, err
	}
	hash := Hash(data)
	if hash == s.lastHash {
		observability.Autosave().OnSkip(ctx, s.key)
		return false, nil
	}

	start := time.Now()
	err = s.store.Save(ctx, s.key, data)
	observability.Autosave().OnSave(ctx, s.key, len(data), time.Since(start), err)
	if err != nil {
		return false, err
	}
	s.lastHash = hash
	s.logger.Debug("autosaved", "key", s.key, "bytes", len(data))
	return true, nil
}

// Restore loads the snapshot stored under key.
func Restore(ctx context.Context, store Store, key string) (*document.Document, error) {
	data, err := store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return document.Decode(bytes.NewReader(data), document.FormatJSON)
}
