package writer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/logging"
	"github.com/kulturarv/wikibasekit/pkg/statement"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
	"github.com/kulturarv/wikibasekit/pkg/wikibase/memory"
)

func newWriter(t *testing.T, entities ...*wikibase.Entity) (*Writer, *memory.Client) {
	t.Helper()
	client, err := memory.New(memory.WithEntities(entities...))
	require.NoError(t, err)
	return New(client, WithLogger(logging.Nop())), client
}

func fetch(t *testing.T, client *memory.Client, id wikibase.EntityID) *wikibase.Entity {
	t.Helper()
	e, err := client.FetchEntity(context.Background(), id)
	require.NoError(t, err)
	return e
}

func entityWithLabel(id wikibase.EntityID, label string) *wikibase.Entity {
	e := wikibase.NewEntity(id)
	e.Labels["en"] = label
	return e
}

func mustQualifier(t *testing.T, property wikibase.PropertyID, value wikibase.Value) *statement.Qualifier {
	t.Helper()
	q, err := statement.NewQualifier(property, value)
	require.NoError(t, err)
	return &q
}

func mustReference(t *testing.T, tested ...wikibase.Snak) *statement.Reference {
	t.Helper()
	ref, err := statement.NewReference(tested, nil)
	require.NoError(t, err)
	return ref
}

func TestAddClaimCreatesQualifiedSourcedClaim(t *testing.T) {
	w, client := newWriter(t, entityWithLabel("Q1", "subject"))
	ctx := context.Background()
	e := fetch(t, client, "Q1")

	st := statement.New(wikibase.EntityValue{ID: "Q34"}).
		AddQualifier(mustQualifier(t, "P580", wikibase.StringValue("1900"))).
		AddQualifier(mustQualifier(t, "P582", wikibase.StringValue("1910")))
	ref := mustReference(t, wikibase.NewSnak("P248", wikibase.EntityValue{ID: "Q5"}))

	require.NoError(t, w.AddClaim(ctx, "P17", st, e, ref))

	claims := e.Claims["P17"]
	require.Len(t, claims, 1)
	assert.Equal(t, 2, claims[0].QualifierCount())
	require.Len(t, claims[0].References, 1)
	assert.Equal(t, 1, client.Writes["add claim"])
	assert.Equal(t, 2, client.Writes["add qualifier"])
	assert.Equal(t, 1, client.Writes["add reference"])
}

func TestAddClaimIsIdempotent(t *testing.T) {
	w, client := newWriter(t, entityWithLabel("Q1", "subject"))
	ctx := context.Background()
	e := fetch(t, client, "Q1")

	build := func() *statement.Statement {
		return statement.New(wikibase.EntityValue{ID: "Q34"}).
			AddQualifier(mustQualifier(t, "P580", wikibase.StringValue("1900")))
	}
	ref := mustReference(t, wikibase.NewSnak("P248", wikibase.EntityValue{ID: "Q5"}))

	require.NoError(t, w.AddClaim(ctx, "P17", build(), e, ref))
	writes := client.WriteCount()

	require.NoError(t, w.AddClaim(ctx, "P17", build(), e, ref))
	assert.Equal(t, writes, client.WriteCount(), "a repeated statement must perform no writes")
	assert.Len(t, e.Claims["P17"], 1)
}

func TestAddClaimSourcesExistingClaim(t *testing.T) {
	existing := entityWithLabel("Q1", "subject")
	existing.Claims["P17"] = []*wikibase.Claim{{
		ID:       "Q1$existing",
		MainSnak: wikibase.NewSnak("P17", wikibase.EntityValue{ID: "Q34"}),
	}}
	w, client := newWriter(t, existing)
	ctx := context.Background()
	e := fetch(t, client, "Q1")

	st := statement.New(wikibase.EntityValue{ID: "Q34"})
	ref := mustReference(t, wikibase.NewSnak("P248", wikibase.EntityValue{ID: "Q5"}))

	require.NoError(t, w.AddClaim(ctx, "P17", st, e, ref))

	require.Len(t, e.Claims["P17"], 1, "no second claim for the same value")
	assert.Len(t, e.Claims["P17"][0].References, 1)
	assert.Equal(t, 0, client.Writes["add claim"])
	assert.Equal(t, 1, client.Writes["add reference"])
}

func TestAddClaimDoesNotReSource(t *testing.T) {
	source := wikibase.NewSnak("P248", wikibase.EntityValue{ID: "Q5"})
	existing := entityWithLabel("Q1", "subject")
	existing.Claims["P17"] = []*wikibase.Claim{{
		ID:         "Q1$existing",
		MainSnak:   wikibase.NewSnak("P17", wikibase.EntityValue{ID: "Q34"}),
		References: []wikibase.ReferenceBlock{wikibase.NewReferenceBlock([]wikibase.Snak{source})},
	}}
	w, client := newWriter(t, existing)
	e := fetch(t, client, "Q1")

	st := statement.New(wikibase.EntityValue{ID: "Q34"})
	require.NoError(t, w.AddClaim(context.Background(), "P17", st, e, mustReference(t, source)))

	assert.Equal(t, 0, client.WriteCount(), "an already sourced claim must not be touched")
	assert.Len(t, e.Claims["P17"][0].References, 1)
}

func TestAddClaimAmbiguousDuplicates(t *testing.T) {
	q := wikibase.NewSnak("P580", wikibase.StringValue("1900"))
	existing := entityWithLabel("Q1", "subject")
	first := &wikibase.Claim{ID: "Q1$a", MainSnak: wikibase.NewSnak("P17", wikibase.EntityValue{ID: "Q34"})}
	first.AddQualifierSnak(q)
	second := &wikibase.Claim{ID: "Q1$b", MainSnak: wikibase.NewSnak("P17", wikibase.EntityValue{ID: "Q34"})}
	second.AddQualifierSnak(q)
	existing.Claims["P17"] = []*wikibase.Claim{first, second}

	w, client := newWriter(t, existing)
	e := fetch(t, client, "Q1")

	st := statement.New(wikibase.EntityValue{ID: "Q34"}).
		AddQualifier(mustQualifier(t, "P580", wikibase.StringValue("1900")))

	err := w.AddClaim(context.Background(), "P17", st, e, nil)
	require.Error(t, err)
	assert.True(t, errors.IsAmbiguousMatch(err))
	assert.Equal(t, 0, client.WriteCount())
}

func TestAddClaimMatchesThroughRedirect(t *testing.T) {
	redirect := wikibase.NewEntity("Q100")
	redirect.RedirectsTo = "Q34"

	existing := entityWithLabel("Q1", "subject")
	existing.Claims["P17"] = []*wikibase.Claim{{
		ID:       "Q1$existing",
		MainSnak: wikibase.NewSnak("P17", wikibase.EntityValue{ID: "Q100"}),
	}}
	w, client := newWriter(t, existing, redirect)
	e := fetch(t, client, "Q1")

	st := statement.New(wikibase.EntityValue{ID: "Q34"})
	require.NoError(t, w.AddClaim(context.Background(), "P17", st, e, nil))

	assert.Len(t, e.Claims["P17"], 1, "the redirected value is the same entity")
	assert.Equal(t, 0, client.Writes["add claim"])
}

func TestAddClaimMatchesTimeAtCoarserPrecision(t *testing.T) {
	existing := entityWithLabel("Q1", "subject")
	existing.Claims["P569"] = []*wikibase.Claim{{
		ID:       "Q1$existing",
		MainSnak: wikibase.NewSnak("P569", wikibase.NewTime(1900, 0, 0, wikibase.PrecisionYear)),
	}}
	w, client := newWriter(t, existing)
	e := fetch(t, client, "Q1")

	st := statement.New(wikibase.NewTime(1900, 3, 5, wikibase.PrecisionDay))
	require.NoError(t, w.AddClaim(context.Background(), "P569", st, e, nil))

	assert.Len(t, e.Claims["P569"], 1)
	assert.Equal(t, 0, client.Writes["add claim"])
}

func TestAddClaimNoneStatement(t *testing.T) {
	w, client := newWriter(t, entityWithLabel("Q1", "subject"))
	e := fetch(t, client, "Q1")

	require.NoError(t, w.AddClaim(context.Background(), "P17", statement.New(nil), e, nil))
	assert.Equal(t, 0, client.WriteCount())
}

func TestAddClaimSpecialValue(t *testing.T) {
	w, client := newWriter(t, entityWithLabel("Q1", "subject"))
	e := fetch(t, client, "Q1")

	st, err := statement.NewSpecial(wikibase.SnakNoValue)
	require.NoError(t, err)
	require.NoError(t, w.AddClaim(context.Background(), "P570", st, e, nil))
	require.Len(t, e.Claims["P570"], 1)
	assert.Equal(t, wikibase.SnakNoValue, e.Claims["P570"][0].MainSnak.Type)

	// A second no-value statement for the property matches the first.
	st2, err := statement.NewSpecial(wikibase.SnakNoValue)
	require.NoError(t, err)
	require.NoError(t, w.AddClaim(context.Background(), "P570", st2, e, nil))
	assert.Len(t, e.Claims["P570"], 1)
	assert.Equal(t, 1, client.Writes["add claim"])
}

func TestAddClaimForceBackfillsSourcedClaim(t *testing.T) {
	existing := entityWithLabel("Q1", "subject")
	existing.Claims["P17"] = []*wikibase.Claim{{
		ID:       "Q1$existing",
		MainSnak: wikibase.NewSnak("P17", wikibase.EntityValue{ID: "Q34"}),
		References: []wikibase.ReferenceBlock{wikibase.NewReferenceBlock([]wikibase.Snak{
			wikibase.NewSnak("P248", wikibase.EntityValue{ID: "Q5"}),
		})},
	}}
	w, client := newWriter(t, existing)
	e := fetch(t, client, "Q1")

	st := statement.New(wikibase.EntityValue{ID: "Q34"}).
		AddQualifier(mustQualifier(t, "P580", wikibase.StringValue("1900")))

	// Without force a second claim is created.
	require.NoError(t, w.AddClaim(context.Background(), "P17", st, e, nil))
	assert.Len(t, e.Claims["P17"], 2)

	// With force, on fresh state, the sourced claim is back-filled instead.
	w2, client2 := newWriter(t, existing)
	e2 := fetch(t, client2, "Q1")
	forced := statement.New(wikibase.EntityValue{ID: "Q34"}).
		AddQualifier(mustQualifier(t, "P580", wikibase.StringValue("1900"))).
		WithForce()
	require.NoError(t, w2.AddClaim(context.Background(), "P17", forced, e2, nil))
	assert.Len(t, e2.Claims["P17"], 1)
	assert.Equal(t, 1, e2.Claims["P17"][0].QualifierCount())
}

func TestAddQualifierSkipsExisting(t *testing.T) {
	existing := entityWithLabel("Q1", "subject")
	claim := &wikibase.Claim{ID: "Q1$c", MainSnak: wikibase.NewSnak("P17", wikibase.EntityValue{ID: "Q34"})}
	claim.AddQualifierSnak(wikibase.NewSnak("P580", wikibase.StringValue("1900")))
	existing.Claims["P17"] = []*wikibase.Claim{claim}

	w, client := newWriter(t, existing)
	e := fetch(t, client, "Q1")

	q := mustQualifier(t, "P580", wikibase.StringValue("1900"))
	require.NoError(t, w.AddQualifier(context.Background(), e, e.FindClaim("Q1$c"), *q))
	assert.Equal(t, 0, client.WriteCount())

	other := mustQualifier(t, "P580", wikibase.StringValue("1910"))
	require.NoError(t, w.AddQualifier(context.Background(), e, e.FindClaim("Q1$c"), *other))
	assert.Equal(t, 1, client.Writes["add qualifier"])
	assert.Equal(t, 2, e.Claims["P17"][0].QualifierCount())
}

func TestDryRunPerformsNoWrites(t *testing.T) {
	client, err := memory.New(memory.WithEntities(entityWithLabel("Q1", "subject")))
	require.NoError(t, err)
	tl := logging.NewTestLogger(t)
	w := New(client, WithLogger(tl.Logger), WithDryRun(true))
	e := fetch(t, client, "Q1")

	st := statement.New(wikibase.EntityValue{ID: "Q34"}).
		AddQualifier(mustQualifier(t, "P580", wikibase.StringValue("1900")))
	ref := mustReference(t, wikibase.NewSnak("P248", wikibase.EntityValue{ID: "Q5"}))

	require.NoError(t, w.AddClaim(context.Background(), "P17", st, e, ref))
	require.NoError(t, w.AddLabels(context.Background(), e, map[string]string{"sv": "ämne"}, false, ""))

	id, err := w.CreateEntity(context.Background(), entityWithLabel("", "fresh"), "")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, client.WriteCount())
	assert.True(t, tl.Contains("Dry run"), "each suppressed write is logged")
}

func TestCreateEntityCollisionSurfaces(t *testing.T) {
	existing := entityWithLabel("Q1", "duplicate")
	w, _ := newWriter(t, existing)

	_, err := w.CreateEntity(context.Background(), entityWithLabel("", "duplicate"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCollision))
}
