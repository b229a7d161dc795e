// Package statement holds the ephemeral value objects an ingestion bot
// builds per record: qualifiers, references and proposed statements. They
// are compared structurally (qualifiers as a set) and keyed so they can be
// used in maps; the write layer reconciles them against live entity state.
package statement

import (
	"sort"
	"strings"

	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// Qualifier is a secondary property-value pair modifying a claim.
type Qualifier struct {
	Property wikibase.PropertyID
	Value    wikibase.Value
}

// NewQualifier validates and builds a qualifier.
func NewQualifier(property wikibase.PropertyID, value wikibase.Value) (Qualifier, error) {
	if !property.Valid() {
		return Qualifier{}, errors.NewValidationError("qualifier", property, "invalid property id")
	}
	if value == nil {
		return Qualifier{}, errors.NewValidationError("qualifier", property, "missing value")
	}
	return Qualifier{Property: property, Value: value}, nil
}

// Snak returns the qualifier as a value snak.
func (q Qualifier) Snak() wikibase.Snak {
	return wikibase.NewSnak(q.Property, q.Value)
}

// Key returns a stable representation; two qualifiers are equal iff their
// keys are equal.
func (q Qualifier) Key() string {
	return q.Snak().Key()
}

// Equal reports structural equality.
func (q Qualifier) Equal(other Qualifier) bool {
	return q.Key() == other.Key()
}

// Reference is one citation to be attached to a claim. Tested sources are
// consulted when deciding whether the reference is already present;
// untested sources are always written but never compared.
type Reference struct {
	tested   []wikibase.Snak
	untested []wikibase.Snak
}

// NewReference validates and builds a reference. A reference with no
// sources at all fails, as does any source that is not a plain value snak.
func NewReference(tested, untested []wikibase.Snak) (*Reference, error) {
	if len(tested)+len(untested) == 0 {
		return nil, errors.NewValidationError("reference", nil, "must have at least one source")
	}
	for _, s := range append(append([]wikibase.Snak(nil), tested...), untested...) {
		if s.Type != wikibase.SnakValue || s.Value == nil {
			return nil, errors.NewValidationError("reference", s.Property, "source must be a single property-value claim")
		}
	}
	return &Reference{
		tested:   append([]wikibase.Snak(nil), tested...),
		untested: append([]wikibase.Snak(nil), untested...),
	}, nil
}

// Well-known source properties used by the stock citation shape.
const (
	// StatedInProperty names the database or publication a claim was
	// stated in.
	StatedInProperty = wikibase.PropertyID("P248")

	// RetrievedProperty names the date the source was consulted.
	RetrievedProperty = wikibase.PropertyID("P813")
)

// NewStatedReference builds the stock citation: a tested stated-in source
// and an untested retrieval date. The retrieval date never blocks
// re-sourcing a claim that already cites the same database.
func NewStatedReference(statedIn wikibase.EntityID, retrieved wikibase.Time) (*Reference, error) {
	if !statedIn.Valid() {
		return nil, errors.NewValidationError("reference", statedIn, "invalid stated-in entity id")
	}
	return NewReference(
		[]wikibase.Snak{wikibase.NewSnak(StatedInProperty, wikibase.EntityValue{ID: statedIn})},
		[]wikibase.Snak{wikibase.NewSnak(RetrievedProperty, retrieved)})
}

// Tested returns the compared sources.
func (r *Reference) Tested() []wikibase.Snak {
	return append([]wikibase.Snak(nil), r.tested...)
}

// Untested returns the always-written, never-compared sources.
func (r *Reference) Untested() []wikibase.Snak {
	return append([]wikibase.Snak(nil), r.untested...)
}

// Block groups all sources, tested first, into one reference block.
func (r *Reference) Block() wikibase.ReferenceBlock {
	return wikibase.NewReferenceBlock(append(r.Tested(), r.untested...))
}

// Key returns a stable representation of the reference.
func (r *Reference) Key() string {
	keys := make([]string, 0, len(r.tested)+len(r.untested))
	for _, s := range r.tested {
		keys = append(keys, "t:"+s.Key())
	}
	for _, s := range r.untested {
		keys = append(keys, "u:"+s.Key())
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// Equal reports structural equality.
func (r *Reference) Equal(other *Reference) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Key() == other.Key()
}

// Statement is a proposed value for some property, together with the
// qualifiers and reference that should accompany it. Qualifiers keep their
// insertion order for iteration but compare as a set.
type Statement struct {
	value    wikibase.Value
	snakType wikibase.SnakType
	special  bool
	force    bool
	quals    []Qualifier
	ref      *Reference
}

// New builds a statement proposing the given value. A nil value builds a
// none statement (see IsNone).
func New(value wikibase.Value) *Statement {
	return &Statement{value: value, snakType: wikibase.SnakValue}
}

// NewSpecial builds a statement carrying one of the sentinel snak types.
// Anything but no-value or some-value fails.
func NewSpecial(t wikibase.SnakType) (*Statement, error) {
	if t != wikibase.SnakNoValue && t != wikibase.SnakSomeValue {
		return nil, errors.NewValidationError("statement", t, "special value must be novalue or somevalue")
	}
	return &Statement{snakType: t, special: true}, nil
}

// WithForce marks the statement as force: the matcher may then pick a
// sourced but unqualified claim as the target for qualifier back-filling.
func (s *Statement) WithForce() *Statement {
	s.force = true
	return s
}

// AddQualifier records a qualifier and returns the statement for chaining.
// A nil qualifier is a no-op.
func (s *Statement) AddQualifier(q *Qualifier) *Statement {
	if q == nil {
		return s
	}
	s.quals = append(s.quals, *q)
	return s
}

// AddReference attaches the reference. At most one reference per statement;
// a second attachment fails, as does a nil reference.
func (s *Statement) AddReference(r *Reference) error {
	if r == nil {
		return errors.NewValidationError("statement", nil, "reference must not be nil")
	}
	if s.ref != nil {
		return errors.NewValidationError("statement", nil, "reference already set")
	}
	s.ref = r
	return nil
}

// Value returns the proposed value, nil for none and special statements.
func (s *Statement) Value() wikibase.Value {
	return s.value
}

// SnakType returns the snak type the statement should be written with.
func (s *Statement) SnakType() wikibase.SnakType {
	return s.snakType
}

// Special reports whether the statement carries a sentinel snak type.
func (s *Statement) Special() bool {
	return s.special
}

// Forced reports whether force matching was requested.
func (s *Statement) Forced() bool {
	return s.force
}

// IsNone reports whether a value was never supplied.
func (s *Statement) IsNone() bool {
	return s.value == nil && !s.special
}

// Qualifiers returns the qualifiers in insertion order.
func (s *Statement) Qualifiers() []Qualifier {
	return append([]Qualifier(nil), s.quals...)
}

// Reference returns the attached reference, or nil.
func (s *Statement) Reference() *Reference {
	return s.ref
}

// MainSnak returns the main snak this statement proposes for a property.
func (s *Statement) MainSnak(property wikibase.PropertyID) wikibase.Snak {
	if s.special {
		return wikibase.NewSentinelSnak(property, s.snakType)
	}
	return wikibase.NewSnak(property, s.value)
}

// Key returns a stable representation of the statement. It is independent
// of the order in which qualifiers were added.
func (s *Statement) Key() string {
	var b strings.Builder
	if s.special {
		b.WriteString("special:" + string(s.snakType))
	} else if s.value != nil {
		b.WriteString(string(s.value.Kind()) + ":" + s.value.Key())
	} else {
		b.WriteString("none")
	}
	if s.force {
		b.WriteString("!force")
	}

	keys := qualifierKeySet(s.quals)
	if len(keys) > 0 {
		b.WriteString("[" + strings.Join(keys, ",") + "]")
	}
	if s.ref != nil {
		b.WriteString("{" + s.ref.Key() + "}")
	}
	return b.String()
}

// Equal reports whether two statements match on value, qualifier set,
// reference, special and force.
func (s *Statement) Equal(other *Statement) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Key() == other.Key()
}

// qualifierKeySet returns the sorted, deduplicated qualifier keys.
func qualifierKeySet(quals []Qualifier) []string {
	seen := make(map[string]struct{}, len(quals))
	keys := make([]string, 0, len(quals))
	for _, q := range quals {
		k := q.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
