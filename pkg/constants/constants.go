// Package constants provides shared constants used throughout the
// wikibasekit codebase: timeouts, result limits and namespace URIs that
// should be consistent across the toolkit.
package constants

import "time"

// Timeout constants define various timeout durations used in the toolkit
const (
	// QueryTimeout is the timeout for graph query execution; a timed-out
	// query aborts the current record only
	QueryTimeout = 60 * time.Second

	// SearchTimeout is the timeout for a terms-table lookup
	SearchTimeout = 10 * time.Second
)

// Limit constants
const (
	// SearchResultWindow is the maximum number of rows returned by a
	// terms-table search; duplicates within the window are preserved
	SearchResultWindow = 100
)

// Namespace URIs of the graph query service
const (
	// EntityNamespace is the URI prefix of entity identifiers in query results
	EntityNamespace = "http://www.wikidata.org/entity/"

	// DirectPredicateNamespace is the URI prefix of truthy direct claims
	DirectPredicateNamespace = "http://www.wikidata.org/prop/direct/"

	// PredicateNamespace is the URI prefix of statement-reification predicates
	PredicateNamespace = "http://www.wikidata.org/prop/"

	// StatementNamespace is the URI prefix of statement-value predicates
	StatementNamespace = "http://www.wikidata.org/prop/statement/"

	// QualifierNamespace is the URI prefix of qualifier predicates
	QualifierNamespace = "http://www.wikidata.org/prop/qualifier/"

	// ReferenceNamespace is the URI prefix of reference predicates
	ReferenceNamespace = "http://www.wikidata.org/prop/reference/"
)

// Well-known calendar model entities for time values
const (
	// GregorianCalendar is the default calendar model
	GregorianCalendar = "Q1985727"

	// JulianCalendar is the proleptic Julian calendar model
	JulianCalendar = "Q1985786"
)
