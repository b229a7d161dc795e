// Package matcher decides which existing claim, if any, should receive the
// qualifiers and references of a proposed statement instead of a new claim
// being created. It never guesses: any ambiguity is an error the caller is
// expected to log and skip.
package matcher

import (
	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/statement"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// HasAllQualifiers compares a proposed qualifier set against the qualifiers
// of a claim. contained is true when every proposed qualifier occurs on the
// claim; exact additionally requires the total qualifier counts to agree,
// so exact implies contained.
func HasAllQualifiers(quals []statement.Qualifier, c *wikibase.Claim) (exact, contained bool) {
	contained = true
	seen := make(map[string]struct{}, len(quals))
	for _, q := range quals {
		seen[q.Key()] = struct{}{}
		if !hasQualifier(q, c) {
			contained = false
		}
	}
	exact = contained && len(seen) == c.QualifierCount()
	return exact, contained
}

// hasQualifier reports whether the claim carries the qualifier.
func hasQualifier(q statement.Qualifier, c *wikibase.Claim) bool {
	want := q.Key()
	for _, s := range c.Qualifiers[q.Property] {
		if s.Key() == want {
			return true
		}
	}
	return false
}

// Match picks the existing claim a proposed statement should land on, or
// nil meaning a new claim must be created. The candidates are the claims
// already selected by value; property only names the edge type in errors.
//
// Selection order: a unique exact qualifier match wins, then a unique
// containing match. Multiple exact or multiple containing matches indicate
// duplicate claims in the store and fail. When exactly one candidate
// remains it is chosen only if it is bare (no sources, no qualifiers), or
// sourced but unqualified with force set; a claim qualified differently
// from the proposal is never touched.
func Match(property wikibase.PropertyID, candidates []*wikibase.Claim, quals []statement.Qualifier, force bool) (*wikibase.Claim, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var exact, containing []*wikibase.Claim
	for _, c := range candidates {
		ex, cont := HasAllQualifiers(quals, c)
		if ex {
			exact = append(exact, c)
		} else if cont {
			containing = append(containing, c)
		}
	}

	if len(exact) > 1 {
		return nil, errors.NewAmbiguousMatchError(string(property), "identical", len(exact))
	}
	if len(exact) == 1 {
		return exact[0], nil
	}

	if len(containing) > 1 {
		return nil, errors.NewAmbiguousMatchError(string(property), "semi-identical", len(containing))
	}
	if len(containing) == 1 {
		return containing[0], nil
	}

	if len(candidates) > 1 {
		return nil, nil
	}

	// A single leftover claim may be back-filled with qualifiers, but only
	// when it is unqualified, and only with force once it carries sources.
	last := candidates[0]
	switch {
	case !last.HasReferences() && !last.HasQualifiers():
		return last, nil
	case last.HasReferences() && !last.HasQualifiers() && force:
		return last, nil
	default:
		return nil, nil
	}
}
