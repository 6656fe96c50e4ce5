package panel

import (
	"context"
	"log/slog"
	"sort"

	"myworld/backend/internal/idgen"
	"myworld/backend/internal/model"
	"myworld/backend/internal/repository"
)

// Panel names as they appear in URLs and on the command line.
const (
	Notes           = "notes"
	Habits          = "habits"
	Goals           = "goals"
	QuotesFavorites = "quotes-fav"
)

// Favourite quotes are stored as bare {text, author} pairs.
var collectionOptions = map[string][]CollectionOption{
	QuotesFavorites: {WithContentIdentity("text", "author")},
}

var storageKeys = map[string]string{
	Notes:           model.KeyNotes,
	Habits:          model.KeyHabits,
	Goals:           model.KeyGoals,
	QuotesFavorites: model.KeyQuotesFavorites,
}

type Registry struct {
	collections map[string]*Collection
}

func NewRegistry(store repository.Store, newID idgen.Generator, logger *slog.Logger) *Registry {
	r := &Registry{collections: make(map[string]*Collection, len(storageKeys))}
	for name, key := range storageKeys {
		r.collections[name] = NewCollection(key, store, newID, logger, collectionOptions[name]...)
	}
	return r
}

// Load reads every panel from the store.
func (r *Registry) Load(ctx context.Context) {
	for _, c := range r.collections {
		c.Load(ctx)
	}
}

func (r *Registry) Get(name string) (*Collection, bool) {
	c, ok := r.collections[name]
	return c, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
