package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateKey_IndependentOfSelectionOrder(t *testing.T) {
	t.Parallel()

	// Build the same slot assignment in two different orders; the key is a
	// function of slots, not of how the selection was made.
	c1 := Candidate{}
	c1 = c1.WithSlot(LengthPacing, "punchy")
	c1 = c1.WithSlot(Personality, "friendly")
	c1 = c1.WithSlot(Rhetoric, "agree-build")

	c2 := Candidate{}
	c2 = c2.WithSlot(Rhetoric, "agree-build")
	c2 = c2.WithSlot(LengthPacing, "punchy")
	c2 = c2.WithSlot(Personality, "friendly")

	assert.Equal(t, c1.Key(), c2.Key())
	assert.Equal(t, "v1:friendly||agree-build|punchy", c1.Key())
}

func TestCandidateKey_EmptySlotsAreStable(t *testing.T) {
	t.Parallel()

	simple := Candidate{Personality: "witty", Rhetoric: "hot-take"}
	assert.Equal(t, "v1:witty||hot-take|", simple.Key())

	full := Candidate{Personality: "witty", Vocabulary: "slangy", Rhetoric: "hot-take", LengthPacing: "one-liner"}
	assert.NotEqual(t, simple.Key(), full.Key())
}

func TestParseKey_RoundTrip(t *testing.T) {
	t.Parallel()

	orig := Candidate{Personality: "analytical", Vocabulary: "industry", Rhetoric: "data-point", LengthPacing: "measured"}
	parsed, err := ParseKey(orig.Key())
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
}

func TestParseKey_RejectsForeignVersionsAndMalformedKeys(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"friendly||agree-build|punchy",    // no version prefix
		"v2:friendly||agree-build|punchy", // foreign version
		"v1:friendly|agree-build",         // wrong slot count
		"v1:a|b|c|d|e",                    // too many slots
	}
	for _, key := range cases {
		_, err := ParseKey(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestValidID(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidID("friendly"))
	assert.True(t, ValidID("devils-advocate"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("a|b"))
	assert.False(t, ValidID("a:b"))
}

func TestParseKind_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("mood")
	assert.Error(t, err)
}

func TestParseRef(t *testing.T) {
	t.Parallel()

	ref, err := ParseRef("vocabulary/plain")
	require.NoError(t, err)
	assert.Equal(t, Ref{Kind: Vocabulary, ID: "plain"}, ref)

	_, err = ParseRef("vocabulary")
	assert.Error(t, err)
	_, err = ParseRef("mood/plain")
	assert.Error(t, err)
}

func TestCandidateRefs_SlotOrder(t *testing.T) {
	t.Parallel()

	c := Candidate{Personality: "friendly", Rhetoric: "ask-question"}
	refs := c.Refs()
	require.Len(t, refs, 2)
	assert.Equal(t, Ref{Kind: Personality, ID: "friendly"}, refs[0])
	assert.Equal(t, Ref{Kind: Rhetoric, ID: "ask-question"}, refs[1])
}

func TestBuiltinCatalog_Integrity(t *testing.T) {
	t.Parallel()

	c := Builtin()

	for _, kind := range Kinds {
		assert.NotEmpty(t, c.OfKind(kind), "kind %s has no entities", kind)
	}

	// Every persona fills all four slots with known entities.
	for _, p := range c.Personas() {
		refs := p.Candidate.Refs()
		assert.Len(t, refs, 4, "persona %s", p.ID)
		for _, ref := range refs {
			_, ok := c.Entity(ref)
			assert.True(t, ok, "persona %s references unknown %s", p.ID, ref)
		}
	}
}

func TestNewCatalog_RejectsBadDefinitions(t *testing.T) {
	t.Parallel()

	_, err := NewCatalog([]Entity{{ID: "a|b", Kind: Personality}}, nil)
	assert.Error(t, err)

	_, err = NewCatalog(
		[]Entity{{ID: "dup", Kind: Personality}, {ID: "dup", Kind: Personality}}, nil)
	assert.Error(t, err)

	_, err = NewCatalog(
		[]Entity{{ID: "real", Kind: Personality}},
		[]Persona{{ID: "p", Candidate: Candidate{Personality: "ghost"}}})
	assert.Error(t, err)
}
