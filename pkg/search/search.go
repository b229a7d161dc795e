// Package search defines the reconciliation search capability: a pattern
// and language in, candidate entity ids out. The terms-table backend and
// the graph-query label search are two implementations; the matching layer
// consumes the capability, not either implementation.
package search

import (
	"context"

	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// Searcher finds candidate entities whose name matches a pattern in a
// language. Implementations may return duplicates; callers deduplicate.
type Searcher interface {
	Candidates(ctx context.Context, pattern, language string) ([]wikibase.EntityID, error)
}

// Dedupe removes duplicate ids, keeping first-seen order.
func Dedupe(ids []wikibase.EntityID) []wikibase.EntityID {
	seen := make(map[wikibase.EntityID]struct{}, len(ids))
	out := make([]wikibase.EntityID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
