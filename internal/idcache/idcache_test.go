package idcache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kulturarv/wikibasekit/pkg/errors"
)

func TestFromPairs(t *testing.T) {
	cache := FromPairs(map[string]string{
		"ARKM.1922-103": "Q1",
		"ARKM.1950-17":  "q2",
		"numeric":       "3",
		"bogus":         "not-an-id",
	})

	assert.Equal(t, 3, cache.Len(), "invalid ids are dropped")

	id, ok := cache.Lookup("ARKM.1922-103")
	assert.True(t, ok)
	assert.Equal(t, "Q1", id.String())

	id, ok = cache.Lookup("ARKM.1950-17")
	assert.True(t, ok)
	assert.Equal(t, "Q2", id.String(), "lowercase prefixes canonicalise")

	id, ok = cache.Lookup("numeric")
	assert.True(t, ok)
	assert.Equal(t, "Q3", id.String())

	_, ok = cache.Lookup("bogus")
	assert.False(t, ok)
	_, ok = cache.Lookup("missing")
	assert.False(t, ok)
}

func TestFromSPARQLFillsCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query"), "wdt:P9999")
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, `{"results":{"bindings":[
			{"item":{"type":"uri","value":"http://www.wikidata.org/entity/Q1"},"value":{"type":"literal","value":"ARKM.1922-103"}},
			{"item":{"type":"uri","value":"http://www.wikidata.org/entity/Q2"},"value":{"type":"literal","value":""}},
			{"item":{"type":"literal","value":"stray"},"value":{"type":"literal","value":"ARKM.1950-17"}},
			{"item":{"type":"uri","value":"http://www.wikidata.org/entity/Q3"},"value":{"type":"literal","value":"ARKM.1922-103"}}
		]}}`)
	}))
	defer srv.Close()

	cache, err := FromSPARQL(srv.URL, "P9999")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len(), "empty values and non-entity rows are skipped")

	id, ok := cache.Lookup("ARKM.1922-103")
	require.True(t, ok)
	assert.Equal(t, "Q3", id.String(), "later rows win on duplicate external ids")
}

func TestFromSPARQLEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := FromSPARQL(srv.URL, "P9999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrQueryFailed))
}
