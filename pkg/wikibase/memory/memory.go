// Package memory provides an in-memory wikibase.Client used by tests and
// dry runs. It honours the re-fetch contract: FetchEntity returns a deep
// copy of current state, so decisions made on a handle always reflect the
// writes issued before the fetch, never local mutation.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// Option is a function that configures a Client.
type Option func(*Client) error

// WithReadOnly configures the Client to reject writes.
func WithReadOnly(readOnly bool) Option {
	return func(c *Client) error {
		c.readOnly = readOnly
		return nil
	}
}

// WithEntities preloads entities into the store.
func WithEntities(entities ...*wikibase.Entity) Option {
	return func(c *Client) error {
		for _, e := range entities {
			if !e.ID.Valid() {
				return fmt.Errorf("preloading entity: invalid id %q", e.ID)
			}
			c.entities[e.ID] = e.Copy()
		}
		return nil
	}
}

// Client is an in-memory implementation of wikibase.Client.
type Client struct {
	mu       sync.Mutex
	entities map[wikibase.EntityID]*wikibase.Entity
	readOnly bool

	nextEntity int64
	nextClaim  int64

	// Writes counts remote-touching calls per operation name. Tests use it
	// to assert idempotency (a repeated call performs no writes).
	Writes map[string]int
}

// New creates an in-memory client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		entities:   make(map[wikibase.EntityID]*wikibase.Entity),
		nextEntity: 1000000,
		Writes:     make(map[string]int),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying memory option: %w", err)
		}
	}
	return c, nil
}

// WriteCount returns the total number of writes issued.
func (c *Client) WriteCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.Writes {
		n += v
	}
	return n
}

// FetchEntity implements wikibase.Client.
func (c *Client) FetchEntity(_ context.Context, id wikibase.EntityID) (*wikibase.Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", id, errors.ErrNotFound)
	}
	return e.Copy(), nil
}

// CreateEntity implements wikibase.Client. Label/description collisions with
// an existing entity fail with ErrCollision, like the remote store.
func (c *Client) CreateEntity(_ context.Context, e *wikibase.Entity, _ string) (wikibase.EntityID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readOnly {
		return "", errors.ErrReadOnly
	}

	for _, existing := range c.entities {
		for lang, label := range e.Labels {
			if existing.Labels[lang] == label && existing.Descriptions[lang] == e.Descriptions[lang] {
				return "", fmt.Errorf("entity with label %q (%s): %w", label, lang, errors.ErrCollision)
			}
		}
	}

	c.nextEntity++
	id := wikibase.EntityID("Q" + strconv.FormatInt(c.nextEntity, 10))
	stored := e.Copy()
	stored.ID = id
	c.entities[id] = stored
	c.Writes["create entity"]++
	return id, nil
}

// AddClaim implements wikibase.Client. A claim identical to an existing one
// (same main snak, no qualifiers on either) fails with ErrDuplicateClaim.
func (c *Client) AddClaim(_ context.Context, id wikibase.EntityID, claim *wikibase.Claim, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.get(id)
	if err != nil {
		return "", err
	}

	for _, existing := range e.Claims[claim.MainSnak.Property] {
		if existing.MainSnak.Key() == claim.MainSnak.Key() &&
			!existing.HasQualifiers() && !claim.HasQualifiers() &&
			!existing.HasReferences() && !claim.HasReferences() {
			return "", fmt.Errorf("claim on %s: %w", claim.MainSnak.Property, errors.ErrDuplicateClaim)
		}
	}

	stored := claim.Copy()
	c.nextClaim++
	stored.ID = fmt.Sprintf("%s$%d", id, c.nextClaim)
	e.Claims[claim.MainSnak.Property] = append(e.Claims[claim.MainSnak.Property], stored)
	c.Writes["add claim"]++
	return stored.ID, nil
}

// AddQualifier implements wikibase.Client.
func (c *Client) AddQualifier(_ context.Context, id wikibase.EntityID, claimID string, qualifier wikibase.Snak, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	claim, err := c.getClaim(id, claimID)
	if err != nil {
		return err
	}
	claim.AddQualifierSnak(qualifier)
	c.Writes["add qualifier"]++
	return nil
}

// AddReference implements wikibase.Client.
func (c *Client) AddReference(_ context.Context, id wikibase.EntityID, claimID string, ref wikibase.ReferenceBlock, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	claim, err := c.getClaim(id, claimID)
	if err != nil {
		return err
	}
	claim.References = append(claim.References, ref.Copy())
	c.Writes["add reference"]++
	return nil
}

// EditLabels implements wikibase.Client.
func (c *Client) EditLabels(_ context.Context, id wikibase.EntityID, labels map[string]string, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.get(id)
	if err != nil {
		return err
	}
	for lang, label := range labels {
		e.Labels[lang] = label
	}
	c.Writes["edit labels"]++
	return nil
}

// EditDescriptions implements wikibase.Client.
func (c *Client) EditDescriptions(_ context.Context, id wikibase.EntityID, descriptions map[string]string, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.get(id)
	if err != nil {
		return err
	}
	for lang, desc := range descriptions {
		e.Descriptions[lang] = desc
	}
	c.Writes["edit descriptions"]++
	return nil
}

// EditAliases implements wikibase.Client.
func (c *Client) EditAliases(_ context.Context, id wikibase.EntityID, aliases map[string][]string, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.get(id)
	if err != nil {
		return err
	}
	for lang, list := range aliases {
		e.Aliases[lang] = append([]string(nil), list...)
	}
	c.Writes["edit aliases"]++
	return nil
}

func (c *Client) get(id wikibase.EntityID) (*wikibase.Entity, error) {
	e, ok := c.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", id, errors.ErrNotFound)
	}
	if c.readOnly {
		return nil, errors.ErrReadOnly
	}
	return e, nil
}

func (c *Client) getClaim(id wikibase.EntityID, claimID string) (*wikibase.Claim, error) {
	e, err := c.get(id)
	if err != nil {
		return nil, err
	}
	claim := e.FindClaim(claimID)
	if claim == nil {
		return nil, fmt.Errorf("claim %s on %s: %w", claimID, id, errors.ErrNotFound)
	}
	return claim, nil
}
