package wikibase

import "sort"

// SnakType is the shape of a claim value: an ordinary value or one of the
// two sentinels.
type SnakType string

// Snak types.
const (
	SnakValue     SnakType = "value"
	SnakSomeValue SnakType = "somevalue"
	SnakNoValue   SnakType = "novalue"
)

// Snak is a single property-value assertion. Value is nil unless Type is
// SnakValue.
type Snak struct {
	Property PropertyID
	Type     SnakType
	Value    Value
}

// NewSnak returns an ordinary value snak.
func NewSnak(property PropertyID, value Value) Snak {
	return Snak{Property: property, Type: SnakValue, Value: value}
}

// NewSentinelSnak returns a no-value or some-value snak.
func NewSentinelSnak(property PropertyID, t SnakType) Snak {
	return Snak{Property: property, Type: t}
}

// Key returns a stable representation of the snak.
func (s Snak) Key() string {
	if s.Type != SnakValue {
		return string(s.Property) + "=" + string(s.Type)
	}
	if s.Value == nil {
		return string(s.Property) + "=?"
	}
	return string(s.Property) + "=" + string(s.Value.Kind()) + ":" + s.Value.Key()
}

// ReferenceBlock is one citation: a group of property-value sources attached
// to a claim together. Blocks are never mutated in place, only replaced or
// added.
type ReferenceBlock struct {
	Snaks map[PropertyID][]Snak
	Order []PropertyID
}

// NewReferenceBlock groups source snaks into a block, preserving first-seen
// property order.
func NewReferenceBlock(snaks []Snak) ReferenceBlock {
	block := ReferenceBlock{Snaks: make(map[PropertyID][]Snak)}
	for _, s := range snaks {
		if _, seen := block.Snaks[s.Property]; !seen {
			block.Order = append(block.Order, s.Property)
		}
		block.Snaks[s.Property] = append(block.Snaks[s.Property], s)
	}
	return block
}

// All returns the snaks of the block in property order.
func (b ReferenceBlock) All() []Snak {
	var out []Snak
	for _, p := range b.Order {
		out = append(out, b.Snaks[p]...)
	}
	return out
}

// Copy returns a deep copy of the block.
func (b ReferenceBlock) Copy() ReferenceBlock {
	out := ReferenceBlock{
		Snaks: make(map[PropertyID][]Snak, len(b.Snaks)),
		Order: append([]PropertyID(nil), b.Order...),
	}
	for p, snaks := range b.Snaks {
		out.Snaks[p] = append([]Snak(nil), snaks...)
	}
	return out
}

// Claim is a statement attached to an entity: a main snak, a qualifiers map
// and a list of reference blocks.
type Claim struct {
	ID              string
	MainSnak        Snak
	Qualifiers      map[PropertyID][]Snak
	QualifiersOrder []PropertyID
	References      []ReferenceBlock
}

// QualifierCount returns the total number of qualifier snaks on the claim.
func (c *Claim) QualifierCount() int {
	n := 0
	for _, snaks := range c.Qualifiers {
		n += len(snaks)
	}
	return n
}

// HasQualifiers reports whether the claim carries any qualifiers.
func (c *Claim) HasQualifiers() bool {
	return c.QualifierCount() > 0
}

// HasReferences reports whether the claim carries any reference blocks.
func (c *Claim) HasReferences() bool {
	return len(c.References) > 0
}

// AddQualifierSnak appends a qualifier snak, maintaining the order list.
func (c *Claim) AddQualifierSnak(s Snak) {
	if c.Qualifiers == nil {
		c.Qualifiers = make(map[PropertyID][]Snak)
	}
	if _, seen := c.Qualifiers[s.Property]; !seen {
		c.QualifiersOrder = append(c.QualifiersOrder, s.Property)
	}
	c.Qualifiers[s.Property] = append(c.Qualifiers[s.Property], s)
}

// Copy returns a deep copy of the claim.
func (c *Claim) Copy() *Claim {
	out := &Claim{
		ID:              c.ID,
		MainSnak:        c.MainSnak,
		QualifiersOrder: append([]PropertyID(nil), c.QualifiersOrder...),
	}
	if c.Qualifiers != nil {
		out.Qualifiers = make(map[PropertyID][]Snak, len(c.Qualifiers))
		for p, snaks := range c.Qualifiers {
			out.Qualifiers[p] = append([]Snak(nil), snaks...)
		}
	}
	for _, ref := range c.References {
		out.References = append(out.References, ref.Copy())
	}
	return out
}

// Entity is a graph node: language-keyed labels, descriptions and aliases,
// plus claims grouped by property. RedirectsTo is non-empty when the entity
// is a redirect.
type Entity struct {
	ID           EntityID
	Labels       map[string]string
	Descriptions map[string]string
	Aliases      map[string][]string
	Claims       map[PropertyID][]*Claim
	RedirectsTo  EntityID
}

// NewEntity returns an empty entity with the given id.
func NewEntity(id EntityID) *Entity {
	return &Entity{
		ID:           id,
		Labels:       make(map[string]string),
		Descriptions: make(map[string]string),
		Aliases:      make(map[string][]string),
		Claims:       make(map[PropertyID][]*Claim),
	}
}

// Copy returns a deep copy of the entity. Fetches hand out copies so a
// caller mutating its handle never leaks into stored state.
func (e *Entity) Copy() *Entity {
	out := NewEntity(e.ID)
	out.RedirectsTo = e.RedirectsTo
	for lang, label := range e.Labels {
		out.Labels[lang] = label
	}
	for lang, desc := range e.Descriptions {
		out.Descriptions[lang] = desc
	}
	for lang, aliases := range e.Aliases {
		out.Aliases[lang] = append([]string(nil), aliases...)
	}
	for prop, claims := range e.Claims {
		copied := make([]*Claim, 0, len(claims))
		for _, c := range claims {
			copied = append(copied, c.Copy())
		}
		out.Claims[prop] = copied
	}
	return out
}

// ClaimProperties returns the properties that carry claims, sorted for
// deterministic iteration.
func (e *Entity) ClaimProperties() []PropertyID {
	props := make([]PropertyID, 0, len(e.Claims))
	for p := range e.Claims {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool {
		if ni, nj := props[i].Numeric(), props[j].Numeric(); ni != nj {
			return ni < nj
		}
		return props[i] < props[j]
	})
	return props
}

// FindClaim returns the claim with the given id, or nil.
func (e *Entity) FindClaim(claimID string) *Claim {
	for _, claims := range e.Claims {
		for _, c := range claims {
			if c.ID == claimID {
				return c
			}
		}
	}
	return nil
}
