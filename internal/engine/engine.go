// Package engine wires the suggestion components together behind the four
// calls the rest of the extension is allowed to use: Rank, Resolve,
// RecordSelection, and ToggleFavorite. The engine loads its durable state
// once at construction, serves everything else from memory, and flushes
// usage counters behind the caller's back.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/replyforge/replyforge/internal/defaults"
	"github.com/replyforge/replyforge/internal/favorites"
	"github.com/replyforge/replyforge/internal/ledger"
	"github.com/replyforge/replyforge/internal/ranker"
	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/scorer"
	"github.com/replyforge/replyforge/internal/store"
	"github.com/replyforge/replyforge/internal/style"
)

// Options configures an Engine. Zero values fall back to production defaults.
type Options struct {
	// Catalog is the entity/persona catalog (style.Builtin when nil).
	Catalog *style.Catalog

	// Scoring tunes the feature scorer.
	Scoring scorer.Config

	// Logger is the structured logger (slog.Default when nil).
	Logger *slog.Logger

	// Rand feeds the cold-start randomized default. Defaults to a
	// time-seeded math/rand source.
	Rand defaults.RandomSource

	// FlushInterval is the usage-ledger write-behind cadence.
	FlushInterval time.Duration

	// Clock is the ledger timestamp source, injectable for tests.
	Clock func() time.Time
}

// Engine is the suggestion engine facade.
type Engine struct {
	catalog  *style.Catalog
	ledger   *ledger.Ledger
	favs     *favorites.Favorites
	ranker   *ranker.Ranker
	resolver *defaults.Resolver
	logger   *slog.Logger
}

// New builds an engine over the given store, loads the ledger and favorites,
// and starts the write-behind flusher. Construction never fails on persisted
// state: unreadable state degrades to empty with a warning.
func New(ctx context.Context, st store.Store, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = style.Builtin()
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = defaults.NewMathRand(time.Now().UnixNano())
	}

	led := ledger.New(st, ledger.Options{
		Logger:        logger,
		FlushInterval: opts.FlushInterval,
		Clock:         opts.Clock,
	})
	led.Load(ctx)
	led.Start()

	favs := favorites.New(st, logger)
	favs.Load(ctx)

	sc := scorer.New(catalog, led, favs, opts.Scoring)
	rk := ranker.New(sc, catalog, logger)
	res := defaults.New(rk, led, catalog, rnd, logger)

	return &Engine{
		catalog:  catalog,
		ledger:   led,
		favs:     favs,
		ranker:   rk,
		resolver: res,
		logger:   logger,
	}
}

// Catalog exposes the entity catalog for display layers.
func (e *Engine) Catalog() *style.Catalog { return e.catalog }

// Rank scores the known combinations (personas plus everything in the usage
// ledger) against the context and returns the top limit suggestions.
func (e *Engine) Rank(ctx reply.Context, limit int) []ranker.Suggestion {
	return e.ranker.Rank(e.candidates(), ctx, limit)
}

// RankCandidates ranks an explicit candidate list instead of the default
// enumeration.
func (e *Engine) RankCandidates(candidates []style.Candidate, ctx reply.Context, limit int) []ranker.Suggestion {
	return e.ranker.Rank(candidates, ctx, limit)
}

// Resolve returns the single best-guess combination for the context. It is
// read-only; commit a shown default by calling RecordSelection with the
// smart-default source tag.
func (e *Engine) Resolve(ctx reply.Context) defaults.SmartDefault {
	return e.resolver.Resolve(ctx)
}

// RecordSelection records a finalized user choice. Never fails the caller.
func (e *Engine) RecordSelection(c style.Candidate, source string) {
	e.ledger.RecordSelection(c, source)
}

// ToggleFavorite flips one entity's starred state, persisting immediately.
func (e *Engine) ToggleFavorite(ctx context.Context, ref style.Ref) (bool, error) {
	return e.favs.Toggle(ctx, ref)
}

// Favorites exposes the favorites store for display layers.
func (e *Engine) Favorites() *favorites.Favorites { return e.favs }

// Usage exposes the usage ledger for display layers and the reset action.
func (e *Engine) Usage() *ledger.Ledger { return e.ledger }

// Reset clears all usage counters. Explicit user action only.
func (e *Engine) Reset() {
	e.ledger.Reset()
}

// Close flushes pending usage counters and stops the flusher.
func (e *Engine) Close(ctx context.Context) error {
	err := e.ledger.Flush(ctx)
	e.ledger.Close()
	return err
}

// candidates enumerates the rankable combinations: pre-bundled personas
// first, then historical combinations. The ranker deduplicates by key.
func (e *Engine) candidates() []style.Candidate {
	personas := e.catalog.Candidates()
	out := make([]style.Candidate, 0, len(personas)+e.ledger.CombinationCount())
	out = append(out, personas...)
	out = append(out, e.ledger.Combinations()...)
	return out
}
