// Package termsearch finds candidate entities by exact case-insensitive
// label or alias lookup against a replicated terms table. It is the SQL
// implementation of the search capability the reconciliation layer
// consumes when the entity id is unknown.
//
// Invalid input never errors into the caller: the search returns nil and
// logs a descriptive diagnostic instead.
package termsearch

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Driver for the terms-table replica.
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/kulturarv/wikibasekit/pkg/constants"
	"github.com/kulturarv/wikibasekit/pkg/logging"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// TermType selects which kind of term a search matches.
type TermType string

// Term types of the terms table.
const (
	TermLabel       TermType = "label"
	TermAlias       TermType = "alias"
	TermDescription TermType = "description"
)

// Backend holds one persistent database connection and the table's term
// vocabularies, fetched once at construction and cached for input
// validation.
type Backend struct {
	db        *sql.DB
	log       *zerolog.Logger
	languages map[string]struct{}
	termTypes map[string]struct{}
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(b *Backend) {
		b.log = log
	}
}

// New opens the backend eagerly and loads the term-type and language
// vocabularies used for input validation.
func New(ctx context.Context, dsn string, opts ...Option) (*Backend, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening terms database: %w", err)
	}
	db.SetMaxOpenConns(1)

	b := &Backend{
		db:  db,
		log: logging.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.termTypes, err = b.vocabulary(ctx, "term_type"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if b.languages, err = b.vocabulary(ctx, "term_language"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// Close releases the database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

// vocabulary loads the distinct values of a terms-table column.
func (b *Backend) vocabulary(ctx context.Context, column string) (map[string]struct{}, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT DISTINCT "+column+" FROM wb_terms")
	if err != nil {
		return nil, fmt.Errorf("loading %s vocabulary: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]struct{})
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s vocabulary: %w", column, err)
		}
		values[v] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s vocabulary: %w", column, err)
	}
	return values, nil
}

// query carries the validated parameters of one search.
type query struct {
	termTypes  []TermType
	candidates []wikibase.EntityID
}

// SearchOption restricts a search.
type SearchOption func(*query)

// WithTermTypes overrides the default label-and-alias term-type set.
func WithTermTypes(types ...TermType) SearchOption {
	return func(q *query) {
		q.termTypes = types
	}
}

// WithCandidates restricts matches to the given candidate entity ids.
func WithCandidates(ids ...wikibase.EntityID) SearchOption {
	return func(q *query) {
		q.candidates = ids
	}
}

// Search returns up to 100 entity ids whose term text matches the pattern
// (SQL LIKE semantics) in the given language. Results keep the backend's
// row order; duplicates within the window are preserved and left to the
// caller to deduplicate. Invalid input returns nil after logging.
func (b *Backend) Search(ctx context.Context, pattern, language string, opts ...SearchOption) []wikibase.EntityID {
	q := &query{termTypes: []TermType{TermLabel, TermAlias}}
	for _, opt := range opts {
		opt(q)
	}

	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		b.log.Warn().Msg("Empty search text, skipping search")
		return nil
	}
	if _, ok := b.languages[language]; !ok {
		b.log.Warn().Str("language", language).Msg("Unknown term language, skipping search")
		return nil
	}
	for _, t := range q.termTypes {
		if _, ok := b.termTypes[string(t)]; !ok {
			b.log.Warn().Str("term_type", string(t)).Msg("Unknown term type, skipping search")
			return nil
		}
	}
	for _, id := range q.candidates {
		if !id.Valid() {
			b.log.Warn().Str("candidate", string(id)).Msg("Invalid candidate entity id, skipping search")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.SearchTimeout)
	defer cancel()

	stmt, args := buildQuery(pattern, language, q)
	rows, err := b.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		b.log.Error().Err(err).Msg("Terms-table query failed")
		return nil
	}
	defer func() { _ = rows.Close() }()

	var out []wikibase.EntityID
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			b.log.Error().Err(err).Msg("Scanning terms-table row failed")
			return nil
		}
		id, err := wikibase.EntityIDFromInt(n)
		if err != nil {
			b.log.Error().Err(err).Int64("id", n).Msg("Terms table returned invalid entity id")
			continue
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		b.log.Error().Err(err).Msg("Reading terms-table rows failed")
		return nil
	}
	return out
}

// Candidates implements the search.Searcher capability over the default
// label-and-alias term-type set.
func (b *Backend) Candidates(ctx context.Context, pattern, language string) ([]wikibase.EntityID, error) {
	return b.Search(ctx, pattern, language), nil
}

// buildQuery assembles the parameterised LIKE query.
func buildQuery(pattern, language string, q *query) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, 3+len(q.termTypes)+len(q.candidates))

	sb.WriteString("SELECT term_entity_id FROM wb_terms WHERE term_entity_type = 'item'")

	sb.WriteString(" AND term_type IN (" + placeholders(len(q.termTypes)) + ")")
	for _, t := range q.termTypes {
		args = append(args, string(t))
	}

	sb.WriteString(" AND term_language = ?")
	args = append(args, language)

	sb.WriteString(" AND term_text LIKE ?")
	args = append(args, pattern)

	if len(q.candidates) > 0 {
		sb.WriteString(" AND term_entity_id IN (" + placeholders(len(q.candidates)) + ")")
		for _, id := range q.candidates {
			args = append(args, id.Numeric())
		}
	}

	fmt.Fprintf(&sb, " LIMIT %d", constants.SearchResultWindow)
	return sb.String(), args
}

// placeholders renders n comma-separated SQL placeholders.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
