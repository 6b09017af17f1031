// Package scorer computes the explained score breakdown for one candidate
// combination against the current reply context. Five sub-scores are computed
// independently (context match, usage, preference, time of day, confidence),
// blended through a named weight table, and mapped onto a 1-10 total. Every
// sub-score that rises meaningfully above its neutral baseline contributes a
// human-readable reason.
package scorer

import (
	"fmt"
	"math"
	"sort"

	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/style"
)

// UsageSource is the slice of the usage ledger scoring reads.
type UsageSource interface {
	CombinationUsage(c style.Candidate) int
}

// FavoriteSource is the slice of the favorites store scoring reads.
type FavoriteSource interface {
	IsFavorite(ref style.Ref) bool
}

// Weights is the blend table for the five sub-scores. Weights are relative;
// the scorer normalizes by their sum, so a table need not sum to exactly 1.
type Weights struct {
	ContextMatch float64 `yaml:"context_match"`
	Usage        float64 `yaml:"usage"`
	Preference   float64 `yaml:"preference"`
	Time         float64 `yaml:"time"`
	Confidence   float64 `yaml:"confidence"`
}

// DefaultWeights returns the shipped blend table.
func DefaultWeights() Weights {
	return Weights{
		ContextMatch: 0.30,
		Usage:        0.25,
		Preference:   0.20,
		Time:         0.10,
		Confidence:   0.15,
	}
}

// sum returns the weight mass used for normalization.
func (w Weights) sum() float64 {
	return w.ContextMatch + w.Usage + w.Preference + w.Time + w.Confidence
}

// Config tunes the scorer. Zero values fall back to the named defaults.
type Config struct {
	Weights Weights

	// UsageSaturation is the combination count at which usageScore
	// saturates to 1.0 (diminishing returns above it).
	UsageSaturation int

	// ColdStartMinUses is the combination count below which confidence is
	// dampened.
	ColdStartMinUses int

	// WorkStartHour and WorkEndHour bound the half-open [start, end) window
	// in which professional registers score high and casual ones low.
	WorkStartHour int
	WorkEndHour   int

	// LongThreadLen is the thread length from which a thread counts as
	// "long" for tag matching.
	LongThreadLen int

	// Taxonomy is the keyword-category table used to derive context
	// features. Defaults to reply.DefaultTaxonomy.
	Taxonomy reply.Taxonomy
}

// Defaults for Config fields.
const (
	DefaultUsageSaturation  = 10
	DefaultColdStartMinUses = 3
	DefaultWorkStartHour    = 9
	DefaultWorkEndHour      = 17
	DefaultLongThreadLen    = 4
)

// DefaultConfig returns the shipped scorer configuration.
func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		UsageSaturation:  DefaultUsageSaturation,
		ColdStartMinUses: DefaultColdStartMinUses,
		WorkStartHour:    DefaultWorkStartHour,
		WorkEndHour:      DefaultWorkEndHour,
		LongThreadLen:    DefaultLongThreadLen,
		Taxonomy:         reply.DefaultTaxonomy(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Weights.sum() <= 0 {
		c.Weights = d.Weights
	}
	if c.UsageSaturation <= 0 {
		c.UsageSaturation = d.UsageSaturation
	}
	if c.ColdStartMinUses <= 0 {
		c.ColdStartMinUses = d.ColdStartMinUses
	}
	if c.WorkStartHour == 0 && c.WorkEndHour == 0 {
		c.WorkStartHour = d.WorkStartHour
		c.WorkEndHour = d.WorkEndHour
	}
	if c.LongThreadLen <= 0 {
		c.LongThreadLen = d.LongThreadLen
	}
	if c.Taxonomy == nil {
		c.Taxonomy = d.Taxonomy
	}
	return c
}

// Breakdown is the scored result for one candidate. Sub-scores are each in
// [0,1]; Total is always in [1,10]. Reasons are ordered by contribution
// magnitude and capped at MaxReasons.
type Breakdown struct {
	ContextMatch    float64
	UsageScore      float64
	PreferenceScore float64
	TimeScore       float64
	Confidence      float64
	Reasons         []string
	Total           int
}

// MaxReasons caps the reason list per suggestion.
const MaxReasons = 5

// Neutral baselines per sub-score. A sub-score must exceed its baseline by
// more than reasonEpsilon to contribute reasons.
const (
	neutralContext    = 0.5
	neutralTime       = 0.5
	neutralUsage      = 0.0
	neutralPreference = 0.0
	reasonEpsilon     = 0.01
)

// Scorer scores candidates. It is stateless apart from its injected sources
// and safe for concurrent use.
type Scorer struct {
	catalog *style.Catalog
	usage   UsageSource
	favs    FavoriteSource
	cfg     Config
}

// New creates a scorer over the catalog, usage ledger slice, and favorites
// slice.
func New(catalog *style.Catalog, usage UsageSource, favs FavoriteSource, cfg Config) *Scorer {
	return &Scorer{
		catalog: catalog,
		usage:   usage,
		favs:    favs,
		cfg:     cfg.withDefaults(),
	}
}

// reasonEntry pairs a reason string with the weighted contribution of the
// sub-score that produced it, for ordering.
type reasonEntry struct {
	text         string
	contribution float64
}

// Score computes the breakdown for one candidate in one context. It is a pure
// function of its inputs and the injected sources. An empty candidate or one
// referencing an unknown entity is an error; the ranker excludes such
// candidates without aborting the batch.
func (s *Scorer) Score(c style.Candidate, ctx reply.Context) (Breakdown, error) {
	if c.IsEmpty() {
		return Breakdown{}, fmt.Errorf("score: empty candidate")
	}
	entities := make([]style.Entity, 0, 4)
	for _, ref := range c.Refs() {
		e, ok := s.catalog.Entity(ref)
		if !ok {
			return Breakdown{}, fmt.Errorf("score: unknown entity %s", ref)
		}
		entities = append(entities, e)
	}

	features := reply.DeriveFeatures(ctx, s.cfg.Taxonomy)
	comboCount := s.usage.CombinationUsage(c)

	var reasons []reasonEntry
	w := s.cfg.Weights
	norm := w.sum()

	contextMatch, ctxReasons := s.contextMatch(entities, features)
	for _, r := range ctxReasons {
		reasons = append(reasons, reasonEntry{r, (contextMatch - neutralContext) * w.ContextMatch / norm})
	}

	usageScore := s.usageScore(comboCount)
	if usageScore > neutralUsage+reasonEpsilon {
		reasons = append(reasons, reasonEntry{
			fmt.Sprintf("used together %d times", comboCount),
			(usageScore - neutralUsage) * w.Usage / norm,
		})
	}

	preferenceScore, prefReason := s.preferenceScore(c)
	if preferenceScore > neutralPreference+reasonEpsilon && prefReason != "" {
		reasons = append(reasons, reasonEntry{
			prefReason,
			(preferenceScore - neutralPreference) * w.Preference / norm,
		})
	}

	timeScore, timeReason := s.timeScore(entities, ctx.TimeOfDay)
	if timeScore > neutralTime+reasonEpsilon && timeReason != "" {
		reasons = append(reasons, reasonEntry{
			timeReason,
			(timeScore - neutralTime) * w.Time / norm,
		})
	}

	confidence := s.confidence(features, comboCount)

	avg := (contextMatch*w.ContextMatch +
		usageScore*w.Usage +
		preferenceScore*w.Preference +
		timeScore*w.Time +
		confidence*w.Confidence) / norm

	total := int(math.Round(clamp(1+9*avg, 1, 10)))
	if total < 1 {
		total = 1
	}
	if total > 10 {
		total = 10
	}

	return Breakdown{
		ContextMatch:    contextMatch,
		UsageScore:      usageScore,
		PreferenceScore: preferenceScore,
		TimeScore:       timeScore,
		Confidence:      confidence,
		Reasons:         orderReasons(reasons),
		Total:           total,
	}, nil
}

// usageScore maps the combination count onto [0,1] with saturation at K so a
// combination used 50 times cannot dwarf one used 12 times.
func (s *Scorer) usageScore(count int) float64 {
	return math.Min(float64(count)/float64(s.cfg.UsageSaturation), 1)
}

// preferenceScore is deliberately a three-step rule instead of an average: a
// single non-favorite slot must remain distinguishable from a fully starred
// combination.
func (s *Scorer) preferenceScore(c style.Candidate) (float64, string) {
	refs := c.Refs()
	favored := 0
	for _, ref := range refs {
		if s.favs.IsFavorite(ref) {
			favored++
		}
	}
	switch {
	case favored == len(refs) && favored > 0:
		return 1.0, "built entirely from favorites"
	case favored > 0:
		return 0.5, "includes a favorite pick"
	default:
		return 0.0, ""
	}
}

// confidence estimates how much weight the other scores deserve: lower when
// there is no tweet text to match against and during the combination's
// cold-start window.
func (s *Scorer) confidence(f reply.Features, comboCount int) float64 {
	conf := 0.9
	if !f.HasText {
		conf *= 0.5
	}
	if comboCount < s.cfg.ColdStartMinUses {
		conf *= 0.5 + 0.5*float64(comboCount)/float64(s.cfg.ColdStartMinUses)
	}
	return clamp(conf, 0, 1)
}

// orderReasons sorts by contribution magnitude descending (ties keep emission
// order) and caps the list.
func orderReasons(entries []reasonEntry) []string {
	sort.SliceStable(entries, func(i, j int) bool {
		return math.Abs(entries[i].contribution) > math.Abs(entries[j].contribution)
	})
	if len(entries) > MaxReasons {
		entries = entries[:MaxReasons]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.text
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
