// Package idcache builds the external-id to entity-id map a bot fills once
// at start. The cache is read-only after fill: lookups are cheap and the
// map is never invalidated during a run.
package idcache

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/ross-spencer/spargo/pkg/spargo"
	tozderrors "gitlab.com/tozd/go/errors"
	"gitlab.com/tozd/go/mediawiki"

	"github.com/kulturarv/wikibasekit/pkg/constants"
	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// Cache is an immutable external-id to entity-id lookup.
type Cache struct {
	m map[string]wikibase.EntityID
}

// Lookup returns the entity carrying the external id.
func (c *Cache) Lookup(external string) (wikibase.EntityID, bool) {
	id, ok := c.m[external]
	return id, ok
}

// Len returns the number of cached mappings.
func (c *Cache) Len() int {
	return len(c.m)
}

// FromSPARQL fills a cache from the query service: every entity carrying
// the external-id property, keyed by its value. Later rows win on
// duplicate external ids, matching the row order of the service.
func FromSPARQL(endpoint string, property wikibase.PropertyID) (*Cache, error) {
	query := "PREFIX wdt: <" + constants.DirectPredicateNamespace + ">\n" +
		"SELECT ?item ?value WHERE { ?item wdt:" + string(property) + " ?value . }"

	client := spargo.SPARQLClient{Client: &http.Client{Timeout: constants.QueryTimeout}}
	client.ClientInit(endpoint, query)
	res, err := client.SPARQLGo()
	if err != nil {
		return nil, &errors.QueryError{Query: query, Position: -1, Message: "filling id cache", Err: err}
	}

	m := make(map[string]wikibase.EntityID, len(res.Results.Bindings))
	for _, row := range res.Results.Bindings {
		rest, found := strings.CutPrefix(row["item"].Value, constants.EntityNamespace)
		if !found {
			continue
		}
		external := row["value"].Value
		if external == "" {
			continue
		}
		m[external] = wikibase.EntityID(rest)
	}
	return &Cache{m: m}, nil
}

// FromDump fills a cache by scanning a JSON entity dump. The dump
// processor runs entity callbacks on multiple goroutines, so the fill is
// guarded; the finished cache needs no locking.
func FromDump(ctx context.Context, path string, property wikibase.PropertyID) (*Cache, error) {
	m := make(map[string]wikibase.EntityID)
	var mu sync.Mutex

	err := mediawiki.ProcessWikidataDump(ctx,
		&mediawiki.ProcessDumpConfig{Path: path},
		func(_ context.Context, e mediawiki.Entity) tozderrors.E {
			for _, claim := range e.Claims[string(property)] {
				snak := claim.MainSnak
				if snak.SnakType != mediawiki.Value || snak.DataValue == nil {
					continue
				}
				value, ok := snak.DataValue.Value.(mediawiki.StringValue)
				if !ok {
					continue
				}
				mu.Lock()
				m[string(value)] = wikibase.EntityID(e.ID)
				mu.Unlock()
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &Cache{m: m}, nil
}

// FromPairs builds a cache from already-known mappings. Numeric entity ids
// are canonicalised; invalid ids are dropped.
func FromPairs(pairs map[string]string) *Cache {
	m := make(map[string]wikibase.EntityID, len(pairs))
	for external, raw := range pairs {
		id, err := wikibase.ParseEntityID(raw)
		if err != nil {
			continue
		}
		m[external] = id
	}
	return &Cache{m: m}
}
