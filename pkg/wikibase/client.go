package wikibase

import (
	"context"
	"sync"

	"github.com/kulturarv/wikibasekit/pkg/errors"
)

// Client is the write surface of the knowledge-graph API consumed by the
// write layer. Every remote-touching call takes a context and a
// human-readable edit summary.
//
// Soft conflicts (duplicate identical claim, label/description collision,
// stale revision) surface as errors matching errors.ErrModificationFailed,
// errors.ErrDuplicateClaim or errors.ErrCollision so the write layer can
// decide between abandoning the call and propagating.
type Client interface {
	// FetchEntity loads the current state of an entity. The returned handle
	// is owned by the caller; mutating it does not change stored state.
	FetchEntity(ctx context.Context, id EntityID) (*Entity, error)

	// CreateEntity creates a new entity from the payload and returns its id.
	CreateEntity(ctx context.Context, e *Entity, summary string) (EntityID, error)

	// AddClaim appends a claim to the entity and returns the id assigned to
	// the stored claim.
	AddClaim(ctx context.Context, id EntityID, claim *Claim, summary string) (string, error)

	// AddQualifier appends a qualifier snak to the claim with the given id.
	AddQualifier(ctx context.Context, id EntityID, claimID string, qualifier Snak, summary string) error

	// AddReference appends a reference block to the claim with the given id.
	AddReference(ctx context.Context, id EntityID, claimID string, ref ReferenceBlock, summary string) error

	// EditLabels sets the given language-keyed labels in one edit.
	EditLabels(ctx context.Context, id EntityID, labels map[string]string, summary string) error

	// EditDescriptions sets the given language-keyed descriptions in one edit.
	EditDescriptions(ctx context.Context, id EntityID, descriptions map[string]string, summary string) error

	// EditAliases sets the given language-keyed alias lists in one edit.
	EditAliases(ctx context.Context, id EntityID, aliases map[string][]string, summary string) error
}

// Resolver adapts a Client into a RedirectResolver with memoisation. The
// memo is never invalidated; redirects are stable for the lifetime of a run.
type Resolver struct {
	client Client

	mu   sync.Mutex
	memo map[EntityID]EntityID
}

// NewResolver returns a redirect resolver backed by the client.
func NewResolver(client Client) *Resolver {
	return &Resolver{
		client: client,
		memo:   make(map[EntityID]EntityID),
	}
}

// ResolveRedirect returns the redirect target of id, or id itself when it is
// not a redirect. An id the store does not know resolves to itself; deleted
// targets should compare by raw id rather than fail the whole write.
func (r *Resolver) ResolveRedirect(ctx context.Context, id EntityID) (EntityID, error) {
	r.mu.Lock()
	target, ok := r.memo[id]
	r.mu.Unlock()
	if ok {
		return target, nil
	}

	target = id
	e, err := r.client.FetchEntity(ctx, id)
	switch {
	case errors.IsNotFound(err):
	case err != nil:
		return "", err
	case e.RedirectsTo != "":
		target = e.RedirectsTo
	}

	r.mu.Lock()
	r.memo[id] = target
	r.mu.Unlock()
	return target, nil
}
