package wdq

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kulturarv/wikibasekit/pkg/errors"
)

func TestEntityTail(t *testing.T) {
	tests := []struct {
		uri  string
		want int64
		ok   bool
	}{
		{uri: "http://www.wikidata.org/entity/Q42", want: 42, ok: true},
		{uri: "http://www.wikidata.org/entity/Q7259", want: 7259, ok: true},
		{uri: "http://www.wikidata.org/entity/P31", ok: false},
		{uri: "http://www.wikidata.org/entity/Q", ok: false},
		{uri: "http://example.org/entity/Q42", ok: false},
		{uri: "Q42", ok: false},
		{uri: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := entityTail(tt.uri)
		assert.Equal(t, tt.ok, ok, "uri %q", tt.uri)
		if tt.ok {
			assert.Equal(t, tt.want, got, "uri %q", tt.uri)
		}
	}
}

func TestRunDecodesBindings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query"), "SELECT ?item")
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, `{"results":{"bindings":[
			{"item":{"type":"uri","value":"http://www.wikidata.org/entity/Q42"}},
			{"item":{"type":"uri","value":"http://www.wikidata.org/entity/Q7259"}},
			{"item":{"type":"literal","value":"stray"}}
		]}}`)
	}))
	defer srv.Close()

	svc := NewService(srv.URL)
	got, err := svc.Run(context.Background(), "CLAIM[31:5]")
	require.NoError(t, err)
	assert.Equal(t, []int64{42, 7259}, got, "non-entity bindings are skipped")
}

func TestRunEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService(srv.URL)
	_, err := svc.Run(context.Background(), "CLAIM[31:5]")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrQueryFailed))

	var qerr *errors.QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Contains(t, qerr.Query, "SELECT ?item", "the translated query rides along for diagnostics")
}

func TestCandidatesEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := NewService(srv.URL)
	_, err := svc.Candidates(context.Background(), "Vasa", "sv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrQueryFailed))
}
