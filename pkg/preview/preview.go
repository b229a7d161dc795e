// Package preview renders a proposed-entity diff as human-readable
// structured text for dry-run review: names, descriptions, the matched
// entity (or an em-dash for a new one), the default reference, and a table
// of proposed claims with their qualifiers and references.
package preview

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/kulturarv/wikibasekit/pkg/statement"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// Item is one proposed entity to review: the first name per language is
// the label, the rest are aliases.
type Item struct {
	Labels       map[string][]string
	Descriptions map[string]string
	Statements   map[wikibase.PropertyID][]*statement.Statement
	Matched      wikibase.EntityID    // empty for a new entity
	DefaultRef   *statement.Reference // may be nil
}

// Render writes the preview block.
func (item *Item) Render(w io.Writer) error {
	fmt.Fprintln(w, "Labels and aliases:")
	for _, lang := range sortedKeys(item.Labels) {
		names := item.Labels[lang]
		if len(names) == 0 {
			continue
		}
		line := "*" + names[0] + "*"
		if len(names) > 1 {
			line += " | " + strings.Join(names[1:], " | ")
		}
		fmt.Fprintf(w, "  %s: %s\n", lang, line)
	}

	fmt.Fprintln(w, "Descriptions:")
	for _, lang := range sortedKeys(item.Descriptions) {
		fmt.Fprintf(w, "  %s: %s\n", lang, item.Descriptions[lang])
	}

	matched := "—" // em-dash for a new entity
	if item.Matched != "" {
		matched = string(item.Matched)
	}
	fmt.Fprintf(w, "Matched entity: %s\n", matched)

	if item.DefaultRef != nil {
		fmt.Fprintln(w, "Default reference:")
		fmt.Fprintf(w, "  %s\n", renderReference(item.DefaultRef))
	}

	return item.renderClaims(w)
}

// renderClaims writes the claims table. The references column appears only
// when at least one statement carries its own reference; rows without one
// then show "default reference" in italics iff a default was supplied.
func (item *Item) renderClaims(w io.Writer) error {
	withRefs := false
	for _, statements := range item.Statements {
		for _, st := range statements {
			if st.Reference() != nil {
				withRefs = true
			}
		}
	}

	table := tablewriter.NewTable(w)
	if withRefs {
		table.Header("property", "value", "qualifiers", "references")
	} else {
		table.Header("property", "value", "qualifiers")
	}

	for _, prop := range sortedProperties(item.Statements) {
		for _, st := range item.Statements[prop] {
			row := []any{string(prop), renderValue(st), renderQualifiers(st.Qualifiers())}
			if withRefs {
				row = append(row, item.renderStatementRef(st))
			}
			if err := table.Append(row...); err != nil {
				return err
			}
		}
	}
	return table.Render()
}

// renderStatementRef renders the references cell for one statement.
func (item *Item) renderStatementRef(st *statement.Statement) string {
	if ref := st.Reference(); ref != nil {
		return renderReference(ref)
	}
	if item.DefaultRef != nil {
		return "_default reference_"
	}
	return ""
}

// renderValue renders a statement's proposed value; the sentinel snak
// values go through their own template.
func renderValue(st *statement.Statement) string {
	if st.Special() {
		switch st.SnakType() {
		case wikibase.SnakNoValue:
			return "<no value>"
		case wikibase.SnakSomeValue:
			return "<some value>"
		}
	}
	if st.Value() == nil {
		return ""
	}
	return st.Value().String()
}

// renderQualifiers renders the qualifiers cell in insertion order.
func renderQualifiers(quals []statement.Qualifier) string {
	parts := make([]string, 0, len(quals))
	for _, q := range quals {
		parts = append(parts, string(q.Property)+": "+q.Value.String())
	}
	return strings.Join(parts, "; ")
}

// renderReference renders a reference's sources, tested first.
func renderReference(ref *statement.Reference) string {
	var parts []string
	for _, s := range ref.Tested() {
		parts = append(parts, string(s.Property)+": "+s.Value.String())
	}
	for _, s := range ref.Untested() {
		parts = append(parts, string(s.Property)+": "+s.Value.String())
	}
	return strings.Join(parts, "; ")
}

// sortedKeys returns the map's keys sorted.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedProperties sorts properties numerically for stable output.
func sortedProperties[V any](m map[wikibase.PropertyID]V) []wikibase.PropertyID {
	props := make([]wikibase.PropertyID, 0, len(m))
	for p := range m {
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
