// Package writer is the idempotent write layer on top of the knowledge
// graph client. It reconciles proposed statements against current entity
// state (via the matching engine), attaches missing qualifiers and
// references, promotes names to labels or aliases, and composes concise
// human-readable edit summaries.
//
// Every operation re-fetches the entity handle after a remote write so the
// next decision observes the write just made. Two statements sharing a
// property would otherwise each decide that no prior claim exists and
// create duplicates.
package writer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kulturarv/wikibasekit/pkg/logging"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// Writer applies proposed content to entities through a wikibase.Client.
type Writer struct {
	client   wikibase.Client
	resolver *wikibase.Resolver
	log      *zerolog.Logger
	summary  string
	dryRun   bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithSummary binds a process-wide default edit-summary suffix, used
// whenever a per-call summary is omitted.
func WithSummary(summary string) Option {
	return func(w *Writer) {
		w.summary = summary
	}
}

// WithLogger sets the logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(w *Writer) {
		w.log = log
	}
}

// WithDryRun suppresses all remote writes; each suppressed write is logged
// with the summary it would have carried.
func WithDryRun(dryRun bool) Option {
	return func(w *Writer) {
		w.dryRun = dryRun
	}
}

// New creates a write layer bound to a client.
func New(client wikibase.Client, opts ...Option) *Writer {
	w := &Writer{
		client:   client,
		resolver: wikibase.NewResolver(client),
		log:      logging.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// compose builds the final edit summary: the generated base, optionally
// suffixed with ", <caller summary>". The bound default is used when the
// per-call summary is empty.
func (w *Writer) compose(base, caller string) string {
	if caller == "" {
		caller = w.summary
	}
	if caller == "" {
		return base
	}
	return base + ", " + caller
}

// write runs one remote write unless dry-run is active, then refreshes the
// entity handle so subsequent decisions see current state.
func (w *Writer) write(ctx context.Context, e *wikibase.Entity, summary string, op func() error) error {
	if w.dryRun {
		w.log.Info().Str("summary", summary).Msg("Dry run, skipping write")
		return nil
	}
	if err := op(); err != nil {
		return err
	}
	return w.refresh(ctx, e)
}

// refresh reloads the entity into the caller's handle.
func (w *Writer) refresh(ctx context.Context, e *wikibase.Entity) error {
	fetched, err := w.client.FetchEntity(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("re-fetching %s: %w", e.ID, err)
	}
	*e = *fetched
	return nil
}

// CreateEntity creates a new entity from the payload and returns its id.
// Label/description collisions surface to the caller, which may retry with
// a disambiguated description.
func (w *Writer) CreateEntity(ctx context.Context, payload *wikibase.Entity, summary string) (wikibase.EntityID, error) {
	composed := w.compose("Created new entity", summary)
	if w.dryRun {
		w.log.Info().Str("summary", composed).Msg("Dry run, skipping entity creation")
		return "", nil
	}
	id, err := w.client.CreateEntity(ctx, payload, composed)
	if err != nil {
		return "", fmt.Errorf("creating entity: %w", err)
	}
	w.log.Info().Str("entity", string(id)).Msg("Created new entity")
	return id, nil
}

// sortedLanguages renders a sorted language list for summaries, e.g.
// "de, en, sv".
func sortedLanguages[V any](m map[string]V) string {
	langs := make([]string, 0, len(m))
	for lang := range m {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return strings.Join(langs, ", ")
}
