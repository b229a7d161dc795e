package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kulturarv/wikibasekit/pkg/statement"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

func render(t *testing.T, item *Item) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, item.Render(&buf))
	return buf.String()
}

func testReference(t *testing.T) *statement.Reference {
	t.Helper()
	ref, err := statement.NewReference(
		[]wikibase.Snak{wikibase.NewSnak("P248", wikibase.EntityValue{ID: "Q5"})},
		[]wikibase.Snak{wikibase.NewSnak("P813", wikibase.StringValue("2020-01-01"))})
	require.NoError(t, err)
	return ref
}

func TestRenderNamesAndDescriptions(t *testing.T) {
	item := &Item{
		Labels: map[string][]string{
			"en": {"Ada Lovelace", "Ada King"},
			"sv": {"Ada Lovelace"},
		},
		Descriptions: map[string]string{"en": "mathematician"},
	}
	got := render(t, item)

	assert.Contains(t, got, "en: *Ada Lovelace* | Ada King")
	assert.Contains(t, got, "sv: *Ada Lovelace*")
	assert.Contains(t, got, "en: mathematician")
	assert.Contains(t, got, "Matched entity: —", "a new entity renders as an em-dash")
}

func TestRenderMatchedEntity(t *testing.T) {
	got := render(t, &Item{Matched: "Q7259"})
	assert.Contains(t, got, "Matched entity: Q7259")
}

func TestRenderDefaultReference(t *testing.T) {
	q, err := statement.NewQualifier("P580", wikibase.StringValue("1900"))
	require.NoError(t, err)

	own := statement.New(wikibase.EntityValue{ID: "Q34"})
	require.NoError(t, own.AddReference(testReference(t)))

	item := &Item{
		DefaultRef: testReference(t),
		Statements: map[wikibase.PropertyID][]*statement.Statement{
			"P17":  {own},
			"P106": {statement.New(wikibase.EntityValue{ID: "Q170790"}).AddQualifier(&q)},
		},
	}
	got := render(t, item)

	assert.Contains(t, got, "Default reference:")
	assert.Contains(t, got, "P248: Q5; P813: 2020-01-01")
	assert.Contains(t, got, "default reference", "rows without their own reference fall back")
	assert.Contains(t, got, "P580: 1900")
}

func TestRenderSpecialValues(t *testing.T) {
	noValue, err := statement.NewSpecial(wikibase.SnakNoValue)
	require.NoError(t, err)
	someValue, err := statement.NewSpecial(wikibase.SnakSomeValue)
	require.NoError(t, err)

	item := &Item{
		Statements: map[wikibase.PropertyID][]*statement.Statement{
			"P570": {noValue},
			"P569": {someValue},
		},
	}
	got := render(t, item)
	assert.Contains(t, got, "<no value>")
	assert.Contains(t, got, "<some value>")
}

func TestRenderOmitsReferenceColumnWithoutRefs(t *testing.T) {
	item := &Item{
		Statements: map[wikibase.PropertyID][]*statement.Statement{
			"P31": {statement.New(wikibase.EntityValue{ID: "Q5"})},
		},
	}
	got := strings.ToLower(render(t, item))
	assert.Contains(t, got, "property")
	assert.NotContains(t, got, "references")
}
