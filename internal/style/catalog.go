package style

import "fmt"

// Persona is a pre-bundled candidate with all four slots fixed in advance.
type Persona struct {
	ID        string
	Name      string
	Candidate Candidate
}

// Catalog holds the known entities and pre-bundled personas. It is immutable
// after construction; lookups are safe for concurrent use.
type Catalog struct {
	byRef    map[Ref]Entity
	byKind   map[Kind][]Entity
	personas []Persona
}

// NewCatalog builds a catalog from entity and persona definitions. Entity ids
// must be valid and unique within their kind; persona slots must reference
// known entities.
func NewCatalog(entities []Entity, personas []Persona) (*Catalog, error) {
	c := &Catalog{
		byRef:  make(map[Ref]Entity, len(entities)),
		byKind: make(map[Kind][]Entity),
	}
	for _, e := range entities {
		if !e.Kind.Valid() {
			return nil, fmt.Errorf("entity %q: invalid kind", e.ID)
		}
		if !ValidID(e.ID) {
			return nil, fmt.Errorf("entity %q: invalid id", e.ID)
		}
		ref := e.Ref()
		if _, dup := c.byRef[ref]; dup {
			return nil, fmt.Errorf("duplicate entity %s", ref)
		}
		c.byRef[ref] = e
		c.byKind[e.Kind] = append(c.byKind[e.Kind], e)
	}
	for _, p := range personas {
		for _, ref := range p.Candidate.Refs() {
			if _, ok := c.byRef[ref]; !ok {
				return nil, fmt.Errorf("persona %q references unknown entity %s", p.ID, ref)
			}
		}
		c.personas = append(c.personas, p)
	}
	return c, nil
}

// Entity looks up one entity by reference.
func (c *Catalog) Entity(ref Ref) (Entity, bool) {
	e, ok := c.byRef[ref]
	return e, ok
}

// OfKind returns the entities of one kind in catalog order.
func (c *Catalog) OfKind(k Kind) []Entity {
	return c.byKind[k]
}

// Personas returns the pre-bundled personas in catalog order.
func (c *Catalog) Personas() []Persona {
	return c.personas
}

// Candidates returns the persona candidates in catalog order. This is the
// enumeration rankers backfill from when history alone cannot fill a page.
func (c *Catalog) Candidates() []Candidate {
	out := make([]Candidate, len(c.personas))
	for i, p := range c.personas {
		out[i] = p.Candidate
	}
	return out
}

// Builtin returns the catalog shipped with the extension. Tag and register
// values feed the feature scorer; the set itself is data, not behavior.
func Builtin() *Catalog {
	entities := []Entity{
		// Personalities.
		{ID: "friendly", Kind: Personality, Name: "Friendly", Register: RegisterCasual,
			Tags: []string{"good-for-replies", "good-for-humor"}},
		{ID: "witty", Kind: Personality, Name: "Witty", Register: RegisterCasual,
			Tags: []string{"good-for-humor", "good-for-replies"}},
		{ID: "analytical", Kind: Personality, Name: "Analytical", Register: RegisterProfessional,
			Tags: []string{"good-for-tech", "good-for-news", "good-for-long-threads"}},
		{ID: "supportive", Kind: Personality, Name: "Supportive", Register: RegisterNeutral,
			Tags: []string{"good-for-replies", "good-for-questions"}},
		{ID: "contrarian", Kind: Personality, Name: "Contrarian", Register: RegisterNeutral,
			Tags: []string{"good-for-debates", "good-for-long-threads"}},

		// Vocabulary registers.
		{ID: "plain", Kind: Vocabulary, Name: "Plain-spoken", Register: RegisterNeutral,
			Tags: []string{"good-for-replies"}},
		{ID: "industry", Kind: Vocabulary, Name: "Industry shorthand", Register: RegisterProfessional,
			Tags: []string{"good-for-tech", "good-for-news"}},
		{ID: "academic", Kind: Vocabulary, Name: "Academic", Register: RegisterProfessional,
			Tags: []string{"good-for-long-threads", "good-for-debates"}},
		{ID: "slangy", Kind: Vocabulary, Name: "Slangy", Register: RegisterCasual,
			Tags: []string{"good-for-humor"}},

		// Rhetorical moves.
		{ID: "agree-build", Kind: Rhetoric, Name: "Agree and build", Register: RegisterNeutral,
			Tags: []string{"good-for-replies"}},
		{ID: "devils-advocate", Kind: Rhetoric, Name: "Devil's advocate", Register: RegisterNeutral,
			Tags: []string{"good-for-debates", "good-for-long-threads"}},
		{ID: "ask-question", Kind: Rhetoric, Name: "Ask a question", Register: RegisterNeutral,
			Tags: []string{"good-for-questions", "good-for-replies"}},
		{ID: "hot-take", Kind: Rhetoric, Name: "Hot take", Register: RegisterCasual,
			Tags: []string{"good-for-humor", "good-for-debates"}},
		{ID: "data-point", Kind: Rhetoric, Name: "Bring a data point", Register: RegisterProfessional,
			Tags: []string{"good-for-tech", "good-for-news"}},

		// Length/pacing styles.
		{ID: "one-liner", Kind: LengthPacing, Name: "One-liner", Register: RegisterCasual,
			Tags: []string{"good-for-humor", "good-for-replies"}},
		{ID: "punchy", Kind: LengthPacing, Name: "Short and punchy", Register: RegisterNeutral,
			Tags: []string{"good-for-replies"}},
		{ID: "measured", Kind: LengthPacing, Name: "Measured statement", Register: RegisterProfessional,
			Tags: []string{"good-for-news", "good-for-tech"}},
		{ID: "unspooled", Kind: LengthPacing, Name: "Unspooled thread", Register: RegisterNeutral,
			Tags: []string{"good-for-long-threads", "good-for-debates"}},
	}

	personas := []Persona{
		{ID: "the-analyst", Name: "The Analyst", Candidate: Candidate{
			Personality: "analytical", Vocabulary: "industry", Rhetoric: "data-point", LengthPacing: "measured"}},
		{ID: "the-hype-friend", Name: "The Hype Friend", Candidate: Candidate{
			Personality: "friendly", Vocabulary: "slangy", Rhetoric: "agree-build", LengthPacing: "punchy"}},
		{ID: "the-debater", Name: "The Debater", Candidate: Candidate{
			Personality: "contrarian", Vocabulary: "academic", Rhetoric: "devils-advocate", LengthPacing: "unspooled"}},
		{ID: "the-mentor", Name: "The Mentor", Candidate: Candidate{
			Personality: "supportive", Vocabulary: "plain", Rhetoric: "ask-question", LengthPacing: "measured"}},
		{ID: "the-comedian", Name: "The Comedian", Candidate: Candidate{
			Personality: "witty", Vocabulary: "slangy", Rhetoric: "hot-take", LengthPacing: "one-liner"}},
		{ID: "the-straight-shooter", Name: "The Straight Shooter", Candidate: Candidate{
			Personality: "friendly", Vocabulary: "plain", Rhetoric: "agree-build", LengthPacing: "one-liner"}},
	}

	c, err := NewCatalog(entities, personas)
	if err != nil {
		// The builtin tables are compile-time data; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return c
}
