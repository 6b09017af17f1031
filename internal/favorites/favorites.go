// Package favorites holds the user-curated starred entities per style kind.
// Favorites are low-volume and user-intentional, so unlike the usage ledger
// they persist synchronously on every toggle. The suggestion engine only ever
// reads them.
package favorites

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/replyforge/replyforge/internal/store"
	"github.com/replyforge/replyforge/internal/style"
)

// favoritesKey is the persisted namespace key, versioned alongside the
// combination key format.
const favoritesKey = style.KeyVersion + ":favorites"

// Favorites is the starred-entity store. Safe for concurrent use.
type Favorites struct {
	st     store.Store
	logger *slog.Logger

	mu   sync.Mutex
	sets map[style.Kind]map[string]struct{}
}

// New creates an empty favorites store over st. Call Load before use.
func New(st store.Store, logger *slog.Logger) *Favorites {
	if logger == nil {
		logger = slog.Default()
	}
	return &Favorites{
		st:     st,
		logger: logger,
		sets:   make(map[style.Kind]map[string]struct{}),
	}
}

// Load reads the persisted sets. A read failure or malformed payload degrades
// to empty favorites with a warning; startup never fails on persisted state.
func (f *Favorites) Load(ctx context.Context) {
	values, err := f.st.Get(ctx, []string{favoritesKey})
	if err != nil {
		f.logger.Warn("favorites read failed, starting empty", "error", err)
		return
	}
	blob, ok := values[favoritesKey]
	if !ok {
		return
	}

	var raw map[string][]string
	if err := json.Unmarshal(blob, &raw); err != nil {
		f.logger.Warn("favorites corrupt, starting empty", "error", err)
		return
	}

	sets := make(map[style.Kind]map[string]struct{})
	for kindName, ids := range raw {
		kind, err := style.ParseKind(kindName)
		if err != nil {
			f.logger.Warn("favorites corrupt, starting empty", "error", err)
			return
		}
		set := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		sets[kind] = set
	}

	f.mu.Lock()
	f.sets = sets
	f.mu.Unlock()
}

// IsFavorite reports whether the entity is starred.
func (f *Favorites) IsFavorite(ref style.Ref) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sets[ref.Kind][ref.ID]
	return ok
}

// Toggle flips the starred state of one entity and persists immediately.
// The new state is returned; a persistence error leaves the in-memory flip in
// place (the next successful toggle rewrites the full set) and is reported to
// the caller for surfacing, never treated as fatal.
func (f *Favorites) Toggle(ctx context.Context, ref style.Ref) (bool, error) {
	f.mu.Lock()
	set := f.sets[ref.Kind]
	if set == nil {
		set = make(map[string]struct{})
		f.sets[ref.Kind] = set
	}
	_, was := set[ref.ID]
	if was {
		delete(set, ref.ID)
	} else {
		set[ref.ID] = struct{}{}
	}
	blob, encErr := f.encodeLocked()
	f.mu.Unlock()

	if encErr != nil {
		f.logger.Error("favorites encode failed", "error", encErr)
		return !was, encErr
	}
	if err := f.st.Set(ctx, map[string]json.RawMessage{favoritesKey: blob}); err != nil {
		f.logger.Warn("favorites write failed", "entity", ref.String(), "error", err)
		return !was, err
	}
	return !was, nil
}

// Of returns the starred ids of one kind, sorted for stable output.
func (f *Favorites) Of(kind style.Kind) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.sets[kind]))
	for id := range f.sets[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// encodeLocked marshals the sets; the caller holds f.mu.
func (f *Favorites) encodeLocked() (json.RawMessage, error) {
	raw := make(map[string][]string, len(f.sets))
	for kind, set := range f.sets {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		raw[kind.String()] = ids
	}
	return json.Marshal(raw)
}
