// Package ledger tracks how often each style entity and each full combination
// has been used. Counters live in memory and are flushed to the persistent
// store behind the caller's back: a RecordSelection is visible to the next
// ranking call immediately, while persistence happens on the flusher's
// schedule. Counts are an advisory heuristic, so a flush lost to process
// teardown is a bounded, accepted data-loss window.
package ledger

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/replyforge/replyforge/internal/store"
	"github.com/replyforge/replyforge/internal/style"
)

// Persisted namespace keys. The combination-key version prefix namespaces the
// store keys too, so a format change never misreads an old ledger.
const (
	entityUsageKey      = style.KeyVersion + ":usage_ledger"
	combinationUsageKey = style.KeyVersion + ":combination_usage"
)

// Selection provenance tags. Retained for observability only; scoring never
// reads them.
const (
	SourceManual       = "manual"
	SourceFavorite     = "favorite"
	SourceQuickGen     = "quick-generate"
	SourceSmartDefault = "smart-default"
)

// Usage is one counter: how many times and when last.
type Usage struct {
	Count      int   `json:"count"`
	LastUsedMs int64 `json:"last_used_ms"`
}

// TopCombination is one entry of a TopCombinations result.
type TopCombination struct {
	Candidate style.Candidate
	Count     int
}

// Options configures a Ledger.
type Options struct {
	// Logger is the structured logger (slog.Default when nil).
	Logger *slog.Logger

	// FlushInterval is how often dirty counters are persisted.
	// Defaults to DefaultFlushInterval.
	FlushInterval time.Duration

	// Clock supplies timestamps; injectable for tests. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultFlushInterval is the write-behind flush cadence.
const DefaultFlushInterval = 2 * time.Second

// Ledger is the durable usage counter set. All methods are safe for
// concurrent use; mutations never block on I/O and never fail the caller.
type Ledger struct {
	st     store.Store
	logger *slog.Logger
	clock  func() time.Time

	mu       sync.Mutex
	entities map[style.Ref]Usage
	combos   map[string]Usage
	dirty    bool
	// retryPending marks that the last flush failed; the next mutation
	// triggers one immediate retry, after which the attempt is dropped.
	retryPending bool

	flusher *flusher
}

// New creates a ledger over the given store. Call Load before use and Start
// to begin write-behind flushing.
func New(st store.Store, opts Options) *Ledger {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	interval := opts.FlushInterval
	if interval <= 0 {
		interval = DefaultFlushInterval
	}

	l := &Ledger{
		st:       st,
		logger:   logger,
		clock:    clock,
		entities: make(map[style.Ref]Usage),
		combos:   make(map[string]Usage),
	}
	l.flusher = newFlusher(l, interval)
	return l
}

// Load reads both namespaces from the store. Any failure, including corrupt
// or version-mismatched payloads, degrades to an empty ledger with a single
// warning; startup never fails on persisted state.
func (l *Ledger) Load(ctx context.Context) {
	values, err := l.st.Get(ctx, []string{entityUsageKey, combinationUsageKey})
	if err != nil {
		l.logger.Warn("usage ledger read failed, starting empty", "error", err)
		return
	}

	entities, combos, err := decodeSnapshot(values[entityUsageKey], values[combinationUsageKey])
	if err != nil {
		// Reset the whole namespace rather than part-parsing it; a half
		// ledger fabricates counts that were never recorded.
		l.logger.Warn("usage ledger corrupt, starting empty", "error", err)
		return
	}

	l.mu.Lock()
	l.entities = entities
	l.combos = combos
	l.mu.Unlock()
}

// Start begins the write-behind flush loop.
func (l *Ledger) Start() {
	l.flusher.start()
}

// Close flushes pending counters and stops the flush loop.
func (l *Ledger) Close() {
	l.flusher.stop()
}

// RecordSelection bumps the counter and last-used timestamp for every
// non-empty entity in the candidate and for the full combination. The source
// tag is provenance for the log line only. Persistence is scheduled, not
// awaited; this call never fails.
func (l *Ledger) RecordSelection(c style.Candidate, source string) {
	if c.IsEmpty() {
		return
	}
	now := l.clock().UnixMilli()

	l.mu.Lock()
	for _, ref := range c.Refs() {
		u := l.entities[ref]
		u.Count++
		u.LastUsedMs = now
		l.entities[ref] = u
	}
	key := c.Key()
	u := l.combos[key]
	u.Count++
	u.LastUsedMs = now
	l.combos[key] = u
	l.dirty = true
	retry := l.retryPending
	l.retryPending = false
	l.mu.Unlock()

	l.logger.Debug("selection recorded",
		"event_id", uuid.NewString(),
		"combination", key,
		"source", source,
	)

	if retry {
		// One immediate retry after a failed flush, then back to cadence.
		l.flusher.kick()
	}
}

// EntityUsage returns the use count for one entity, zero when never used.
func (l *Ledger) EntityUsage(ref style.Ref) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entities[ref].Count
}

// CombinationUsage returns the use count for the candidate's combination.
func (l *Ledger) CombinationUsage(c style.Candidate) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.combos[c.Key()].Count
}

// CombinationCount returns the number of distinct recorded combinations.
func (l *Ledger) CombinationCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.combos)
}

// Combinations returns every recorded combination, unordered. Keys that no
// longer parse are skipped.
func (l *Ledger) Combinations() []style.Candidate {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]style.Candidate, 0, len(l.combos))
	for key := range l.combos {
		c, err := style.ParseKey(key)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// TopCombinations returns up to n combinations ordered by count descending,
// then last-used descending, then key ascending. The ordering is total, so a
// fixed ledger snapshot always ranks identically.
func (l *Ledger) TopCombinations(n int) []TopCombination {
	l.mu.Lock()
	type row struct {
		key   string
		usage Usage
	}
	rows := make([]row, 0, len(l.combos))
	for key, u := range l.combos {
		rows = append(rows, row{key: key, usage: u})
	}
	l.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].usage.Count != rows[j].usage.Count {
			return rows[i].usage.Count > rows[j].usage.Count
		}
		if rows[i].usage.LastUsedMs != rows[j].usage.LastUsedMs {
			return rows[i].usage.LastUsedMs > rows[j].usage.LastUsedMs
		}
		return rows[i].key < rows[j].key
	})

	out := make([]TopCombination, 0, n)
	for _, r := range rows {
		if len(out) == n {
			break
		}
		c, err := style.ParseKey(r.key)
		if err != nil {
			continue
		}
		out = append(out, TopCombination{Candidate: c, Count: r.usage.Count})
	}
	return out
}

// Reset clears every counter. This backs the explicit user action only; the
// engine itself never resets.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.entities = make(map[style.Ref]Usage)
	l.combos = make(map[string]Usage)
	l.dirty = true
	l.mu.Unlock()
	l.flusher.kick()
}

// Flush synchronously persists the current counters if dirty. The CLI calls
// this before exiting; long-lived hosts rely on the flusher cadence instead.
func (l *Ledger) Flush(ctx context.Context) error {
	return l.flush(ctx)
}

// flush snapshots and persists the counters. On failure the dirty flag is
// restored and one retry is armed for the next mutation.
func (l *Ledger) flush(ctx context.Context) error {
	l.mu.Lock()
	if !l.dirty {
		l.mu.Unlock()
		return nil
	}
	entitiesBlob, combosBlob, err := encodeSnapshot(l.entities, l.combos)
	if err != nil {
		l.mu.Unlock()
		l.logger.Error("usage ledger encode failed", "error", err)
		return err
	}
	l.dirty = false
	l.mu.Unlock()

	err = l.st.Set(ctx, map[string]json.RawMessage{
		entityUsageKey:      entitiesBlob,
		combinationUsageKey: combosBlob,
	})
	if err != nil {
		l.mu.Lock()
		l.dirty = true
		l.retryPending = true
		l.mu.Unlock()
		l.logger.Warn("usage ledger flush failed", "error", err)
		return err
	}
	return nil
}

// Persisted payload shapes: entity map keys are Ref.String() ("kind/id"),
// combination map keys are combination keys including their version prefix.

func encodeSnapshot(entities map[style.Ref]Usage, combos map[string]Usage) (json.RawMessage, json.RawMessage, error) {
	entOut := make(map[string]Usage, len(entities))
	for ref, u := range entities {
		entOut[ref.String()] = u
	}
	entBlob, err := json.Marshal(entOut)
	if err != nil {
		return nil, nil, err
	}
	comboBlob, err := json.Marshal(combos)
	if err != nil {
		return nil, nil, err
	}
	return entBlob, comboBlob, nil
}

func decodeSnapshot(entBlob, comboBlob json.RawMessage) (map[style.Ref]Usage, map[string]Usage, error) {
	entities := make(map[style.Ref]Usage)
	combos := make(map[string]Usage)

	if len(entBlob) > 0 {
		var raw map[string]Usage
		if err := json.Unmarshal(entBlob, &raw); err != nil {
			return nil, nil, err
		}
		for key, u := range raw {
			ref, err := style.ParseRef(key)
			if err != nil {
				return nil, nil, err
			}
			if u.Count < 0 {
				return nil, nil, errNegativeCount(key)
			}
			entities[ref] = u
		}
	}

	if len(comboBlob) > 0 {
		var raw map[string]Usage
		if err := json.Unmarshal(comboBlob, &raw); err != nil {
			return nil, nil, err
		}
		for key, u := range raw {
			if _, err := style.ParseKey(key); err != nil {
				return nil, nil, err
			}
			if u.Count < 0 {
				return nil, nil, errNegativeCount(key)
			}
			combos[key] = u
		}
	}

	return entities, combos, nil
}

type errNegativeCount string

func (e errNegativeCount) Error() string {
	return "negative usage count for " + string(e)
}
