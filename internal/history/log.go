// Package history keeps the log of completed timer phases.
//
// The log is an ordered sequence, newest first, capped at
// model.HistoryCapacity entries. It is mirrored to the key-value store on
// every change. Storage problems never reach callers: an unreadable log
// loads as empty and a failed write only leaves the stored copy stale.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"myworld/backend/internal/model"
	"myworld/backend/internal/repository"
)

type Log struct {
	mu       sync.Mutex
	store    repository.Store
	key      string
	capacity int
	entries  []model.HistoryEntry
	logger   *slog.Logger
}

type Option func(*Log)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithCapacity(capacity int) Option {
	return func(l *Log) {
		if capacity > 0 {
			l.capacity = capacity
		}
	}
}

func New(store repository.Store, opts ...Option) *Log {
	l := &Log{
		store:    store,
		key:      model.KeyPomodoroHistory,
		capacity: model.HistoryCapacity,
		entries:  []model.HistoryEntry{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the in-memory sequence with the stored one. A missing key
// yields an empty log; so does any stored value that does not decode into
// well-formed entries, in which case nothing of it is kept.
func (l *Log) Load(ctx context.Context) []model.HistoryEntry {
	entries := l.read(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = entries
	return l.snapshot()
}

// Append puts entry at the front and drops whatever falls beyond capacity.
func (l *Log) Append(ctx context.Context, entry model.HistoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]model.HistoryEntry, 0, min(len(l.entries)+1, l.capacity))
	next = append(next, entry)
	for _, existing := range l.entries {
		if len(next) == l.capacity {
			break
		}
		next = append(next, existing)
	}
	l.entries = next
	l.persist(ctx)
}

func (l *Log) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = []model.HistoryEntry{}
	l.persist(ctx)
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []model.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Log) snapshot() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) read(ctx context.Context) []model.HistoryEntry {
	raw, err := l.store.Get(ctx, l.key)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.HistoryEntry{}
	}
	if err != nil {
		l.logger.WarnContext(ctx, "history unreadable, starting empty", "key", l.key, "error", err)
		return []model.HistoryEntry{}
	}

	entries, err := Decode(raw)
	if err != nil {
		l.logger.WarnContext(ctx, "history discarded", "key", l.key, "error", err)
		return []model.HistoryEntry{}
	}
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}
	return entries
}

// persist must be called with l.mu held.
func (l *Log) persist(ctx context.Context) {
	raw, err := json.Marshal(l.entries)
	if err != nil {
		l.logger.WarnContext(ctx, "history not saved", "key", l.key, "error", err)
		return
	}
	if err := l.store.Set(ctx, l.key, raw); err != nil {
		l.logger.WarnContext(ctx, "history not saved", "key", l.key, "error", err)
	}
}

// Decode parses a stored log. Any malformed entry fails the whole value.
func Decode(raw []byte) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	for i, entry := range entries {
		if err := validate(entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

func validate(entry model.HistoryEntry) error {
	switch {
	case entry.ID == "":
		return errors.New("missing id")
	case !entry.Phase.Valid():
		return fmt.Errorf("unknown phase %q", entry.Phase)
	case entry.DurationMinutes <= 0:
		return fmt.Errorf("invalid duration %d", entry.DurationMinutes)
	case entry.CompletedAt.IsZero():
		return errors.New("missing completion time")
	}
	return nil
}
