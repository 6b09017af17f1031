// Package style defines the selectable reply-style units (personalities,
// vocabulary registers, rhetorical moves, length/pacing styles), candidate
// combinations of them, and the canonical combination key format used by the
// usage ledger.
package style

import (
	"fmt"
	"strings"
)

// Kind identifies one of the four style slots.
type Kind int

const (
	Personality Kind = iota
	Vocabulary
	Rhetoric
	LengthPacing
)

// Kinds lists all slot kinds in canonical slot order.
var Kinds = [4]Kind{Personality, Vocabulary, Rhetoric, LengthPacing}

// String returns the stable wire name of the kind. These names appear in
// persisted payloads and must not change without a key version bump.
func (k Kind) String() string {
	switch k {
	case Personality:
		return "personality"
	case Vocabulary:
		return "vocabulary"
	case Rhetoric:
		return "rhetoric"
	case LengthPacing:
		return "length_pacing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the four defined kinds.
func (k Kind) Valid() bool {
	return k >= Personality && k <= LengthPacing
}

// ParseKind maps a wire name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "personality":
		return Personality, nil
	case "vocabulary":
		return Vocabulary, nil
	case "rhetoric":
		return Rhetoric, nil
	case "length_pacing", "pacing":
		return LengthPacing, nil
	default:
		return 0, fmt.Errorf("unknown style kind %q", s)
	}
}

// Ref identifies a single selectable style unit.
type Ref struct {
	Kind Kind
	ID   string
}

// IsZero reports whether the ref names no entity.
func (r Ref) IsZero() bool { return r.ID == "" }

func (r Ref) String() string {
	return r.Kind.String() + "/" + r.ID
}

// ParseRef parses the "kind/id" form produced by Ref.String.
func ParseRef(s string) (Ref, error) {
	kindName, id, ok := strings.Cut(s, "/")
	if !ok || id == "" {
		return Ref{}, fmt.Errorf("malformed entity ref %q", s)
	}
	kind, err := ParseKind(kindName)
	if err != nil {
		return Ref{}, err
	}
	if !ValidID(id) {
		return Ref{}, fmt.Errorf("invalid entity id %q", id)
	}
	return Ref{Kind: kind, ID: id}, nil
}

// ValidID reports whether id may be used as an entity id. Ids are embedded in
// combination keys, so the key separator and version delimiter are forbidden.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsAny(id, keySeparator+keyVersionDelim)
}

// Entity is one selectable style unit together with the metadata scoring
// works from.
type Entity struct {
	ID       string
	Kind     Kind
	Name     string
	Register string   // "professional", "casual", or "neutral"
	Tags     []string // situational tags, e.g. "good-for-replies"
}

// Ref returns the entity's reference.
func (e Entity) Ref() Ref { return Ref{Kind: e.Kind, ID: e.ID} }

// Registers understood by the time-of-day score. Any other value is treated
// as neutral.
const (
	RegisterProfessional = "professional"
	RegisterCasual       = "casual"
	RegisterNeutral      = "neutral"
)

// Candidate assigns at most one entity id to each of the four slots. A slot
// holds the bare id; the kind is implied by the field. A "simple" candidate
// may fill only the personality and rhetoric slots.
type Candidate struct {
	Personality  string
	Vocabulary   string
	Rhetoric     string
	LengthPacing string
}

// Slot returns the id assigned to the given slot kind, or "" when empty.
func (c Candidate) Slot(k Kind) string {
	switch k {
	case Personality:
		return c.Personality
	case Vocabulary:
		return c.Vocabulary
	case Rhetoric:
		return c.Rhetoric
	case LengthPacing:
		return c.LengthPacing
	default:
		return ""
	}
}

// WithSlot returns a copy of c with the given slot replaced.
func (c Candidate) WithSlot(k Kind, id string) Candidate {
	switch k {
	case Personality:
		c.Personality = id
	case Vocabulary:
		c.Vocabulary = id
	case Rhetoric:
		c.Rhetoric = id
	case LengthPacing:
		c.LengthPacing = id
	}
	return c
}

// Refs returns the non-empty slots in canonical slot order.
func (c Candidate) Refs() []Ref {
	refs := make([]Ref, 0, len(Kinds))
	for _, k := range Kinds {
		if id := c.Slot(k); id != "" {
			refs = append(refs, Ref{Kind: k, ID: id})
		}
	}
	return refs
}

// IsEmpty reports whether no slot is filled.
func (c Candidate) IsEmpty() bool {
	return c.Personality == "" && c.Vocabulary == "" && c.Rhetoric == "" && c.LengthPacing == ""
}

// Combination key format. The key is a pure function of the slot assignment:
// slot order is fixed by kind (personality, vocabulary, rhetoric,
// length/pacing), an empty slot is the empty string, slots are joined with
// "|", and the whole key carries a version prefix. Any change to slot order
// or separator must bump KeyVersion; persisted namespaces are keyed by the
// version so old ledgers are never silently misread.
const (
	KeyVersion      = "v1"
	keySeparator    = "|"
	keyVersionDelim = ":"
)

// Key returns the canonical combination key for the candidate.
func (c Candidate) Key() string {
	return KeyVersion + keyVersionDelim + strings.Join([]string{
		c.Personality, c.Vocabulary, c.Rhetoric, c.LengthPacing,
	}, keySeparator)
}

// ParseKey inverts Candidate.Key. A key with a foreign version prefix or the
// wrong slot count is rejected; callers treat that as a corrupt namespace.
func ParseKey(key string) (Candidate, error) {
	version, rest, ok := strings.Cut(key, keyVersionDelim)
	if !ok {
		return Candidate{}, fmt.Errorf("combination key %q has no version prefix", key)
	}
	if version != KeyVersion {
		return Candidate{}, fmt.Errorf("combination key version %q, want %q", version, KeyVersion)
	}
	parts := strings.Split(rest, keySeparator)
	if len(parts) != len(Kinds) {
		return Candidate{}, fmt.Errorf("combination key %q has %d slots, want %d", key, len(parts), len(Kinds))
	}
	return Candidate{
		Personality:  parts[0],
		Vocabulary:   parts[1],
		Rhetoric:     parts[2],
		LengthPacing: parts[3],
	}, nil
}
