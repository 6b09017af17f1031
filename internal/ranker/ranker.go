// Package ranker turns a candidate list into an ordered, explained suggestion
// page. Every candidate is scored independently; one malformed candidate is
// excluded and logged, never allowed to abort the batch. When history cannot
// fill the requested page, the remainder is backfilled from the catalog so
// the UI always has something to show.
package ranker

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/scorer"
	"github.com/replyforge/replyforge/internal/style"
)

// BackfillReason is attached to catalog entries appended without usage
// evidence instead of fabricating a score for them.
const BackfillReason = "no usage data"

// Suggestion is one ranked entry.
type Suggestion struct {
	Candidate style.Candidate
	Breakdown scorer.Breakdown
}

// Ranker scores, sorts, and pages candidates.
type Ranker struct {
	scorer  *scorer.Scorer
	catalog *style.Catalog
	logger  *slog.Logger
}

// New creates a ranker.
func New(s *scorer.Scorer, catalog *style.Catalog, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{scorer: s, catalog: catalog, logger: logger}
}

// Rank scores every candidate against the context and returns at most limit
// suggestions, ordered by total descending with deterministic tie-breaks:
// usage score descending, then combination key ascending. Duplicate
// combinations are collapsed to their first occurrence.
func (r *Ranker) Rank(candidates []style.Candidate, ctx reply.Context, limit int) []Suggestion {
	if limit <= 0 {
		return nil
	}

	seen := make(map[string]bool, len(candidates))
	scored := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		breakdown, err := r.score(c, ctx)
		if err != nil {
			r.logger.Warn("candidate excluded from ranking", "combination", key, "error", err)
			continue
		}
		scored = append(scored, Suggestion{Candidate: c, Breakdown: breakdown})
	}

	sort.Slice(scored, func(i, j int) bool {
		bi, bj := scored[i].Breakdown, scored[j].Breakdown
		if bi.Total != bj.Total {
			return bi.Total > bj.Total
		}
		if bi.UsageScore != bj.UsageScore {
			return bi.UsageScore > bj.UsageScore
		}
		return scored[i].Candidate.Key() < scored[j].Candidate.Key()
	})

	if len(scored) > limit {
		return scored[:limit]
	}
	return r.backfill(scored, seen, limit)
}

// score wraps the scorer call so a panicking candidate degrades to an error.
func (r *Ranker) score(c style.Candidate, ctx reply.Context) (breakdown scorer.Breakdown, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("scorer panic: %v", rec)
		}
	}()
	return r.scorer.Score(c, ctx)
}

// backfill appends catalog candidates, in catalog order, until the page is
// full. Backfilled entries carry no fabricated score: sub-scores stay zero,
// the total sits at the scale floor, and the single reason says why.
func (r *Ranker) backfill(scored []Suggestion, seen map[string]bool, limit int) []Suggestion {
	for _, c := range r.catalog.Candidates() {
		if len(scored) >= limit {
			break
		}
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		scored = append(scored, Suggestion{
			Candidate: c,
			Breakdown: scorer.Breakdown{
				Total:   1,
				Reasons: []string{BackfillReason},
			},
		})
	}
	return scored
}
