// Package panel stores the records of the simple list panels (notes, habits,
// goals, favourite quotes). Every panel is the same thing: a list of JSON
// objects held in memory and mirrored to one key of the store after every
// change. Records are addressed by their "id" field, or, for panels whose
// stored records carry none, by an id derived from a fixed set of fields.
package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"myworld/backend/internal/idgen"
	"myworld/backend/internal/repository"
)

var ErrRecordNotFound = errors.New("record not found")

var contentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("myworld:panel"))

// Record is one panel item. Its shape is up to the panel; only "id" is
// interpreted here.
type Record map[string]any

func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type Collection struct {
	mu      sync.Mutex
	key     string
	store   repository.Store
	newID   idgen.Generator
	records []Record
	logger  *slog.Logger

	// identity fields, when set, replace the stored "id".
	identity []string
}

type CollectionOption func(*Collection)

// WithContentIdentity makes a record's id a name-based UUID of the given
// fields. Such records are stored without an "id" and a record whose fields
// match an existing one is not added twice.
func WithContentIdentity(fields ...string) CollectionOption {
	return func(c *Collection) {
		c.identity = fields
	}
}

func NewCollection(key string, store repository.Store, newID idgen.Generator, logger *slog.Logger, opts ...CollectionOption) *Collection {
	if newID == nil {
		newID = idgen.UUID
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Collection{
		key:     key,
		store:   store,
		newID:   newID,
		records: []Record{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection) Key() string {
	return c.key
}

// Load replaces the in-memory list with the stored one. Anything unreadable
// loads as an empty list; records stored without an id get a fresh one,
// written back at once.
func (c *Collection) Load(ctx context.Context) []Record {
	records := c.read(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	if c.assignMissingIDs() > 0 {
		c.persist(ctx)
	}
	return c.snapshot()
}

func (c *Collection) List() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Create appends a record built from fields with a freshly generated id.
// An "id" in fields is ignored. On a content-identified panel, creating a
// record equal to an existing one returns the existing record.
func (c *Collection) Create(ctx context.Context, fields map[string]any) Record {
	record := make(Record, len(fields)+1)
	for k, v := range fields {
		if k != "id" {
			record[k] = v
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.contentIdentified() {
		if idx := c.indexOf(c.idOf(record)); idx >= 0 {
			return c.view(c.records[idx])
		}
	} else {
		record["id"] = c.newID()
	}
	c.records = append(c.records, record)
	c.persist(ctx)
	return c.view(record)
}

// Update merges fields into the record with the given id. The id itself
// cannot be changed.
func (c *Collection) Update(ctx context.Context, id string, fields map[string]any) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%s %q: %w", c.key, id, ErrRecordNotFound)
	}
	updated := c.records[idx].clone()
	for k, v := range fields {
		if k == "id" {
			continue
		}
		updated[k] = v
	}
	if other := c.indexOf(c.idOf(updated)); other >= 0 && other != idx {
		// The edit made it equal to another record: keep just that one.
		c.records = slices.Delete(c.records, idx, idx+1)
		c.persist(ctx)
		return c.view(updated), nil
	}
	c.records[idx] = updated
	c.persist(ctx)
	return c.view(updated), nil
}

// ToggleMember adds value to the string list held in field, or removes it if
// it is already there. A missing or non-list field counts as empty.
func (c *Collection) ToggleMember(ctx context.Context, id, field, value string) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%s %q: %w", c.key, id, ErrRecordNotFound)
	}
	members := cast.ToStringSlice(c.records[idx][field])
	if i := slices.Index(members, value); i >= 0 {
		members = slices.Delete(members, i, i+1)
	} else {
		members = append(members, value)
	}
	if members == nil {
		members = []string{}
	}

	updated := c.records[idx].clone()
	updated[field] = members
	c.records[idx] = updated
	c.persist(ctx)
	return c.view(updated), nil
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%s %q: %w", c.key, id, ErrRecordNotFound)
	}
	c.records = slices.Delete(c.records, idx, idx+1)
	c.persist(ctx)
	return nil
}

func (c *Collection) contentIdentified() bool {
	return len(c.identity) > 0
}

func (c *Collection) idOf(r Record) string {
	if !c.contentIdentified() {
		return r.ID()
	}
	parts := make([]string, len(c.identity))
	for i, field := range c.identity {
		parts[i] = cast.ToString(r[field])
	}
	return uuid.NewSHA1(contentNamespace, []byte(strings.Join(parts, "\x00"))).String()
}

func (c *Collection) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range c.records {
		if c.idOf(r) == id {
			return i
		}
	}
	return -1
}

// assignMissingIDs must be called with c.mu held.
func (c *Collection) assignMissingIDs() int {
	if c.contentIdentified() {
		return 0
	}
	assigned := 0
	for _, r := range c.records {
		if r.ID() == "" {
			r["id"] = c.newID()
			assigned++
		}
	}
	return assigned
}

// view is the copy handed to callers. It always carries an "id".
func (c *Collection) view(r Record) Record {
	out := r.clone()
	if c.contentIdentified() {
		out["id"] = c.idOf(r)
	}
	return out
}

func (c *Collection) snapshot() []Record {
	out := make([]Record, len(c.records))
	for i, r := range c.records {
		out[i] = c.view(r)
	}
	return out
}

func (c *Collection) read(ctx context.Context) []Record {
	raw, err := c.store.Get(ctx, c.key)
	if errors.Is(err, repository.ErrNotFound) {
		return []Record{}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "panel unreadable, starting empty", "key", c.key, "error", err)
		return []Record{}
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.WarnContext(ctx, "panel discarded", "key", c.key, "error", err)
		return []Record{}
	}
	out := make([]Record, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if c.contentIdentified() {
			delete(r, "id")
			id := c.idOf(r)
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		out = append(out, r)
	}
	return out
}

// persist must be called with c.mu held.
func (c *Collection) persist(ctx context.Context) {
	raw, err := json.Marshal(c.records)
	if err != nil {
		c.logger.WarnContext(ctx, "panel not saved", "key", c.key, "error", err)
		return
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		c.logger.WarnContext(ctx, "panel not saved", "key", c.key, "error", err)
	}
}
