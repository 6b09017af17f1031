// Package defaults produces the one-click best-guess combination. With any
// recorded history it defers to the ranker; on a true cold start it falls
// back to a uniformly randomized pick through an injectable random source so
// tests can pin the outcome. Resolving is strictly read-only: committing a
// default is the caller's separate RecordSelection.
package defaults

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/replyforge/replyforge/internal/ranker"
	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/style"
)

// Cold-start constants. The reason string is part of the consumer contract;
// the UI shows it verbatim.
const (
	ColdStartConfidence = 0.1
	ColdStartReason     = "randomized — no history yet"
)

// maxReasonParts is how many ranker reasons feed the default's justification.
const maxReasonParts = 2

// SmartDefault is the engine's single best-guess candidate.
type SmartDefault struct {
	Candidate  style.Candidate
	Confidence float64
	Reason     string
}

// RandomSource supplies randomness for the cold-start fallback.
type RandomSource interface {
	// IntN returns a uniform int in [0, n). n must be positive.
	IntN(n int) int
}

// NewMathRand returns a seeded RandomSource over math/rand, reproducible for
// a fixed seed.
func NewMathRand(seed int64) RandomSource {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// HistorySource is the slice of the usage ledger the resolver reads.
type HistorySource interface {
	CombinationCount() int
	Combinations() []style.Candidate
}

// Resolver produces smart defaults.
type Resolver struct {
	ranker  *ranker.Ranker
	history HistorySource
	catalog *style.Catalog
	rand    RandomSource
	logger  *slog.Logger
}

// New creates a resolver. rand is required; pass NewMathRand for production
// use and a fixed stub in tests.
func New(rk *ranker.Ranker, history HistorySource, catalog *style.Catalog, rnd RandomSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		ranker:  rk,
		history: history,
		catalog: catalog,
		rand:    rnd,
		logger:  logger,
	}
}

// Resolve returns exactly one recommended combination with a justification
// and a confidence value. It mutates nothing: calling it twice without an
// intervening selection yields the same answer (modulo the cold-start random
// draw, which is the injected source's concern).
func (r *Resolver) Resolve(ctx reply.Context) SmartDefault {
	if r.history.CombinationCount() == 0 {
		return r.randomized()
	}

	candidates := append(r.catalog.Candidates(), r.history.Combinations()...)
	top := r.ranker.Rank(candidates, ctx, 1)
	if len(top) == 0 {
		// Every known combination failed scoring; treat as cold start.
		r.logger.Warn("no rankable combination, falling back to randomized default")
		return r.randomized()
	}

	best := top[0]
	return SmartDefault{
		Candidate:  best.Candidate,
		Confidence: best.Breakdown.Confidence,
		Reason:     buildReason(best.Breakdown.Reasons),
	}
}

// randomized picks one entity per slot uniformly from the catalog.
func (r *Resolver) randomized() SmartDefault {
	var c style.Candidate
	for _, kind := range style.Kinds {
		entities := r.catalog.OfKind(kind)
		if len(entities) == 0 {
			continue
		}
		c = c.WithSlot(kind, entities[r.rand.IntN(len(entities))].ID)
	}
	return SmartDefault{
		Candidate:  c,
		Confidence: ColdStartConfidence,
		Reason:     ColdStartReason,
	}
}

// buildReason joins the top reasons into one sentence-ish justification.
func buildReason(reasons []string) string {
	if len(reasons) == 0 {
		return "best match for this context"
	}
	if len(reasons) > maxReasonParts {
		reasons = reasons[:maxReasonParts]
	}
	return strings.Join(reasons, "; ")
}
