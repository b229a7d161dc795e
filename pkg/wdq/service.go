package wdq

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ross-spencer/spargo/pkg/spargo"
	"github.com/rs/zerolog"

	"github.com/kulturarv/wikibasekit/pkg/constants"
	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/logging"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// Service translates legacy queries and executes them against the graph
// query service. Timeouts and retries are whatever the underlying client
// defaults to; a failed query aborts the current record only.
type Service struct {
	endpoint string
	log      *zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a query service bound to a SPARQL endpoint.
func NewService(endpoint string, opts ...Option) *Service {
	s := &Service{
		endpoint: endpoint,
		log:      logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run translates a legacy query, executes it, and returns the integer id
// tails of the ?item bindings, the same shape callers of the legacy
// language received.
func (s *Service) Run(_ context.Context, legacy string) ([]int64, error) {
	sparqlQuery, err := Translate(legacy)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("query", sparqlQuery).Msg("Running translated query")

	bindings, err := s.execute(sparqlQuery)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(bindings))
	for _, row := range bindings {
		tail, ok := entityTail(row["item"].Value)
		if !ok {
			s.log.Warn().Str("value", row["item"].Value).Msg("Skipping non-entity item binding")
			continue
		}
		out = append(out, tail)
	}
	return out, nil
}

// execute runs a SPARQL query and returns its bindings. A failed or
// timed-out request comes back as a QueryError so callers abort the
// current record only.
func (s *Service) execute(query string) ([]map[string]spargo.Item, error) {
	client := spargo.SPARQLClient{Client: &http.Client{Timeout: constants.QueryTimeout}}
	client.ClientInit(s.endpoint, query)
	res, err := client.SPARQLGo()
	if err != nil {
		return nil, queryFailure(query, err)
	}
	return res.Results.Bindings, nil
}

// queryFailure wraps an execution error as a QueryError; client timeouts
// additionally match ErrTimeout through the error chain.
func queryFailure(query string, err error) error {
	if isTimeout(err) {
		err = errors.ErrTimeout
	}
	return &errors.QueryError{Query: query, Position: -1, Message: err.Error(), Err: err}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// Candidates implements the search.Searcher capability via a label and
// alias lookup on the query service. It is the fallback used when no
// terms-table replica is reachable.
func (s *Service) Candidates(_ context.Context, pattern, language string) ([]wikibase.EntityID, error) {
	query := "PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>\n" +
		"PREFIX skos: <http://www.w3.org/2004/02/skos/core#>\n" +
		"SELECT ?item WHERE { ?item rdfs:label|skos:altLabel " +
		sparqlLiteral(pattern) + "@" + language + " . } LIMIT " +
		strconv.Itoa(constants.SearchResultWindow)

	bindings, err := s.execute(query)
	if err != nil {
		return nil, err
	}
	out := make([]wikibase.EntityID, 0, len(bindings))
	for _, row := range bindings {
		tail, ok := entityTail(row["item"].Value)
		if !ok {
			continue
		}
		id, err := wikibase.EntityIDFromInt(tail)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// entityTail strips the entity namespace and the Q prefix from a binding
// value, returning the integer tail.
func entityTail(uri string) (int64, bool) {
	rest, found := strings.CutPrefix(uri, constants.EntityNamespace)
	if !found || len(rest) < 2 || rest[0] != 'Q' {
		return 0, false
	}
	n, err := strconv.ParseInt(rest[1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
