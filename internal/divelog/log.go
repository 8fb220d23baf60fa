package divelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// ErrNotFound is returned when deleting an id the log does not hold.
var ErrNotFound = errors.New("dive log entry not found")

// Log is the in-memory dive log kept in step with its store. Every mutation
// writes the whole collection back under StorageKey.
type Log struct {
	kv  KV
	now func() time.Time

	mu      sync.Mutex
	entries []Entry // newest first
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// Open loads the log from kv. Malformed stored data is logged and treated as
// an empty log; only a failing store is an error.
func Open(ctx context.Context, kv KV, opts ...Option) (*Log, error) {
	l := &Log{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory entries with what the store holds.
func (l *Log) Reload(ctx context.Context) error {
	data, found, err := l.kv.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("load dive log: %w", err)
	}

	var entries []Entry
	if found && len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			slog.Error("failed to parse dive logs, starting empty", "key", StorageKey, "error", err)
			entries = nil
		}
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return nil
}

// Entries returns the entries newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Add validates f, puts the new entry first and persists the log.
func (l *Log) Add(ctx context.Context, f Form) (Entry, error) {
	entry, err := NewEntry(f, l.now())
	if err != nil {
		return Entry{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]Entry, 0, len(l.entries)+1)
	next = append(next, entry)
	next = append(next, l.entries...)
	if err := l.persistLocked(ctx, next); err != nil {
		return Entry{}, err
	}

	slog.Info("dive logged", "id", entry.ID, "location", entry.Location, "depth", entry.Depth)
	return entry, nil
}

// Delete removes the entry with id and persists the log.
func (l *Log) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := slices.Delete(slices.Clone(l.entries), i, i+1)
	if err := l.persistLocked(ctx, next); err != nil {
		return err
	}

	slog.Info("dive log deleted", "id", id)
	return nil
}

// persistLocked writes entries through and only then makes them current, so
// a failed write leaves memory and store agreeing.
func (l *Log) persistLocked(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode dive log: %w", err)
	}
	if err := l.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("save dive log: %w", err)
	}
	l.entries = entries
	return nil
}
