package termsearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kulturarv/wikibasekit/pkg/logging"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

func TestBuildQueryDefaults(t *testing.T) {
	q := &query{termTypes: []TermType{TermLabel, TermAlias}}
	stmt, args := buildQuery("Vasa", "sv", q)

	assert.Equal(t,
		"SELECT term_entity_id FROM wb_terms WHERE term_entity_type = 'item'"+
			" AND term_type IN (?, ?) AND term_language = ? AND term_text LIKE ? LIMIT 100",
		stmt)
	assert.Equal(t, []any{"label", "alias", "sv", "Vasa"}, args)
}

func TestBuildQueryWithCandidates(t *testing.T) {
	q := &query{
		termTypes:  []TermType{TermLabel},
		candidates: []wikibase.EntityID{"Q170", "Q901"},
	}
	stmt, args := buildQuery("Vasa%", "sv", q)

	assert.Contains(t, stmt, "term_entity_id IN (?, ?)")
	assert.Equal(t, []any{"label", "sv", "Vasa%", int64(170), int64(901)}, args)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

// validationBackend builds a backend with canned vocabularies and no
// database; validation rejects bad input before any query runs.
func validationBackend(t *testing.T) (*Backend, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger(t)
	return &Backend{
		log:       tl.Logger,
		languages: map[string]struct{}{"sv": {}, "en": {}},
		termTypes: map[string]struct{}{"label": {}, "alias": {}, "description": {}},
	}, tl
}

func TestSearchRejectsEmptyPattern(t *testing.T) {
	b, tl := validationBackend(t)

	assert.Nil(t, b.Search(context.Background(), "", "sv"))
	assert.Nil(t, b.Search(context.Background(), "   ", "sv"), "whitespace-only patterns are empty")
	assert.True(t, tl.Contains("Empty search text"))
}

func TestSearchRejectsUnknownLanguage(t *testing.T) {
	b, tl := validationBackend(t)

	assert.Nil(t, b.Search(context.Background(), "Vasa", "xx"))
	assert.True(t, tl.Contains("Unknown term language"))
	assert.True(t, tl.Contains("xx"))
}

func TestSearchRejectsUnknownTermType(t *testing.T) {
	b, tl := validationBackend(t)

	got := b.Search(context.Background(), "Vasa", "sv", WithTermTypes(TermType("comment")))
	assert.Nil(t, got)
	assert.True(t, tl.Contains("Unknown term type"))
	assert.True(t, tl.Contains("comment"))
}

func TestSearchRejectsInvalidCandidate(t *testing.T) {
	b, tl := validationBackend(t)

	got := b.Search(context.Background(), "Vasa", "sv", WithCandidates(wikibase.EntityID("P31")))
	assert.Nil(t, got)
	assert.True(t, tl.Contains("Invalid candidate entity id"))
	assert.True(t, tl.Contains("P31"))
}
