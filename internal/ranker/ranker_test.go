package ranker

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/scorer"
	"github.com/replyforge/replyforge/internal/style"
)

type fakeUsage map[string]int

func (f fakeUsage) CombinationUsage(c style.Candidate) int { return f[c.Key()] }

type fakeFavs map[style.Ref]bool

func (f fakeFavs) IsFavorite(r style.Ref) bool { return f[r] }

type warnCounter struct {
	mu    sync.Mutex
	warns int
}

func (c *warnCounter) Enabled(context.Context, slog.Level) bool { return true }
func (c *warnCounter) WithAttrs([]slog.Attr) slog.Handler       { return c }
func (c *warnCounter) WithGroup(string) slog.Handler            { return c }
func (c *warnCounter) Handle(_ context.Context, r slog.Record) error {
	if r.Level == slog.LevelWarn {
		c.mu.Lock()
		c.warns++
		c.mu.Unlock()
	}
	return nil
}

func (c *warnCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warns
}

func newTestRanker(usage fakeUsage, logger *slog.Logger) *Ranker {
	catalog := style.Builtin()
	s := scorer.New(catalog, usage, fakeFavs{}, scorer.DefaultConfig())
	return New(s, catalog, logger)
}

func TestRank_SortedByTotalDescending(t *testing.T) {
	t.Parallel()

	catalog := style.Builtin()
	usage := fakeUsage{}
	for i, c := range catalog.Candidates() {
		usage[c.Key()] = i * 4
	}
	r := newTestRanker(usage, nil)

	out := r.Rank(catalog.Candidates(), reply.Context{TweetText: "quick question about the api"}, len(catalog.Candidates()))
	require.NotEmpty(t, out)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Breakdown.Total, out[i].Breakdown.Total,
			"position %d out of order", i)
	}
}

func TestRank_HeavierUsageRanksFirst(t *testing.T) {
	t.Parallel()

	a := style.Candidate{Personality: "friendly", Vocabulary: "plain", Rhetoric: "agree-build", LengthPacing: "punchy"}
	b := style.Candidate{Personality: "friendly", Vocabulary: "plain", Rhetoric: "agree-build", LengthPacing: "one-liner"}

	r := newTestRanker(fakeUsage{a.Key(): 12, b.Key(): 3}, nil)
	out := r.Rank([]style.Candidate{b, a}, reply.Context{TweetText: "hello there"}, 2)

	require.Len(t, out, 2)
	assert.Equal(t, a, out[0].Candidate)
	assert.Equal(t, b, out[1].Candidate)
}

func TestRank_TieBreaksAreDeterministic(t *testing.T) {
	t.Parallel()

	// Two entities that differ only by id, so every sub-score ties and the
	// ordering falls through to the combination key.
	catalog, err := style.NewCatalog([]style.Entity{
		{ID: "aaa", Kind: style.Personality, Name: "A"},
		{ID: "bbb", Kind: style.Personality, Name: "B"},
	}, nil)
	require.NoError(t, err)

	s := scorer.New(catalog, fakeUsage{}, fakeFavs{}, scorer.DefaultConfig())
	r := New(s, catalog, nil)

	first := style.Candidate{Personality: "aaa"}
	second := style.Candidate{Personality: "bbb"}
	ctx := reply.Context{TweetText: "same context for both"}

	for i := 0; i < 50; i++ {
		out := r.Rank([]style.Candidate{second, first}, ctx, 2)
		require.Len(t, out, 2)
		assert.Equal(t, first, out[0].Candidate)
		assert.Equal(t, second, out[1].Candidate)
	}
}

func TestRank_BackfillsFromCatalog(t *testing.T) {
	t.Parallel()

	r := newTestRanker(fakeUsage{}, nil)
	catalog := style.Builtin()

	out := r.Rank(nil, reply.Context{}, 3)
	require.Len(t, out, 3)
	for i, s := range out {
		// Catalog order, floor score, and an honest reason instead of a
		// fabricated breakdown.
		assert.Equal(t, catalog.Candidates()[i], s.Candidate)
		assert.Equal(t, 1, s.Breakdown.Total)
		assert.Equal(t, []string{BackfillReason}, s.Breakdown.Reasons)
		assert.Zero(t, s.Breakdown.UsageScore)
	}
}

func TestRank_BackfillSkipsAlreadyRankedCombinations(t *testing.T) {
	t.Parallel()

	catalog := style.Builtin()
	ranked := catalog.Candidates()[0]
	r := newTestRanker(fakeUsage{ranked.Key(): 5}, nil)

	out := r.Rank([]style.Candidate{ranked}, reply.Context{TweetText: "x"}, 3)
	require.Len(t, out, 3)

	seen := make(map[string]int)
	for _, s := range out {
		seen[s.Candidate.Key()]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "combination %s appears more than once", key)
	}
}

func TestRank_ExcludesBrokenCandidateWithoutAborting(t *testing.T) {
	t.Parallel()

	counter := &warnCounter{}
	r := newTestRanker(fakeUsage{}, slog.New(counter))

	good := style.Candidate{Personality: "friendly"}
	broken := style.Candidate{Personality: "no-such-entity"}

	out := r.Rank([]style.Candidate{broken, good}, reply.Context{TweetText: "x"}, 2)

	require.NotEmpty(t, out)
	assert.Equal(t, good, out[0].Candidate)
	for _, s := range out {
		assert.NotEqual(t, broken, s.Candidate)
	}
	assert.Equal(t, 1, counter.count(), "the broken candidate logs one warning")
}

func TestRank_CollapsesDuplicates(t *testing.T) {
	t.Parallel()

	r := newTestRanker(fakeUsage{}, nil)
	c := style.Candidate{Personality: "witty"}

	out := r.Rank([]style.Candidate{c, c, c}, reply.Context{TweetText: "x"}, 10)
	count := 0
	for _, s := range out {
		if s.Candidate == c {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRank_RespectsLimit(t *testing.T) {
	t.Parallel()

	catalog := style.Builtin()
	usage := fakeUsage{}
	for _, c := range catalog.Candidates() {
		usage[c.Key()] = 2
	}
	r := newTestRanker(usage, nil)

	assert.Len(t, r.Rank(catalog.Candidates(), reply.Context{TweetText: "x"}, 2), 2)
	assert.Nil(t, r.Rank(catalog.Candidates(), reply.Context{TweetText: "x"}, 0))
}
