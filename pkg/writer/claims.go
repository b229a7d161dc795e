package writer

import (
	"context"
	"fmt"

	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/matcher"
	"github.com/kulturarv/wikibasekit/pkg/statement"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// AddClaim reconciles a proposed statement against the entity's existing
// claims for the property: it either creates a new claim or lands the
// statement's qualifiers and reference on the claim picked by the matching
// engine. Each call is idempotent with respect to current entity state.
//
// The effective reference is the statement's own reference when present,
// else defaultRef, which may be nil.
func (w *Writer) AddClaim(ctx context.Context, prop wikibase.PropertyID, st *statement.Statement, e *wikibase.Entity, defaultRef *statement.Reference) error {
	if st.IsNone() {
		w.log.Debug().Str("property", string(prop)).Str("entity", string(e.ID)).
			Msg("Statement without value, nothing to add")
		return nil
	}

	candidates, err := w.selectByValue(ctx, e.Claims[prop], st)
	if err != nil {
		return err
	}

	target, err := matcher.Match(prop, candidates, st.Qualifiers(), st.Forced())
	if err != nil {
		return err
	}

	ref := st.Reference()
	if ref == nil {
		ref = defaultRef
	}

	if target == nil {
		target, err = w.createClaim(ctx, prop, st, e)
		if err != nil || target == nil {
			return err
		}
	}

	claimID := target.ID
	for _, q := range st.Qualifiers() {
		if err := w.AddQualifier(ctx, e, e.FindClaim(claimID), q); err != nil {
			return err
		}
	}
	return w.AddReference(ctx, e, e.FindClaim(claimID), ref)
}

// selectByValue picks the existing claims whose main snak corresponds to
// the proposed statement: by sentinel snak type for special statements, by
// value equality (redirect bypass, precision-aware time comparison)
// otherwise.
func (w *Writer) selectByValue(ctx context.Context, claims []*wikibase.Claim, st *statement.Statement) ([]*wikibase.Claim, error) {
	var out []*wikibase.Claim
	for _, c := range claims {
		if st.Special() {
			if c.MainSnak.Type == st.SnakType() {
				out = append(out, c)
			}
			continue
		}
		if c.MainSnak.Type != wikibase.SnakValue {
			continue
		}
		equal, err := wikibase.ValuesEqual(ctx, c.MainSnak.Value, st.Value(), w.resolver)
		if err != nil {
			return nil, err
		}
		if equal {
			out = append(out, c)
		}
	}
	return out, nil
}

// createClaim writes a fresh claim and returns its handle from the
// refreshed entity. A duplicate-identical-claim rejection from the store is
// logged and swallowed; there is nothing to retry.
func (w *Writer) createClaim(ctx context.Context, prop wikibase.PropertyID, st *statement.Statement, e *wikibase.Entity) (*wikibase.Claim, error) {
	summary := w.compose(fmt.Sprintf("Added [%s] claim to [[%s]]", prop, e.ID), "")
	if w.dryRun {
		w.log.Info().Str("summary", summary).Msg("Dry run, skipping claim creation")
		return nil, nil
	}

	claim := &wikibase.Claim{MainSnak: st.MainSnak(prop)}
	claimID, err := w.client.AddClaim(ctx, e.ID, claim, summary)
	if err != nil {
		if errors.Is(err, errors.ErrDuplicateClaim) {
			w.log.Warn().Str("property", string(prop)).Str("entity", string(e.ID)).
				Msg("Store rejected claim as duplicate identical")
			return nil, nil
		}
		return nil, errors.NewAPIError("add claim", string(e.ID), "write failed", err)
	}

	if err := w.refresh(ctx, e); err != nil {
		return nil, err
	}
	claim = e.FindClaim(claimID)
	if claim == nil {
		return nil, fmt.Errorf("created claim %s not present after re-fetch: %w", claimID, errors.ErrNotFound)
	}
	return claim, nil
}

// AddQualifier attaches a qualifier to a claim unless an equal qualifier
// (property match, value equality with redirect bypass) is already present.
func (w *Writer) AddQualifier(ctx context.Context, e *wikibase.Entity, claim *wikibase.Claim, q statement.Qualifier) error {
	if q.Value == nil {
		return errors.NewValidationError("qualifier", q.Property, "missing value")
	}
	if claim == nil {
		return errors.NewValidationError("qualifier", q.Property, "no claim to qualify")
	}

	for _, s := range claim.Qualifiers[q.Property] {
		equal, err := wikibase.ValuesEqual(ctx, s.Value, q.Value, w.resolver)
		if err != nil {
			return err
		}
		if equal {
			return nil
		}
	}

	summary := w.compose(fmt.Sprintf("Added [%s] qualifier to claim on [[%s]]", q.Property, e.ID), "")
	claimID := claim.ID
	return w.write(ctx, e, summary, func() error {
		if err := w.client.AddQualifier(ctx, e.ID, claimID, q.Snak(), summary); err != nil {
			return errors.NewAPIError("add qualifier", string(e.ID), "write failed", err)
		}
		return nil
	})
}

// AddReference attaches a reference to a claim as one new block carrying
// all of the reference's sources. It is a no-op when ref is nil or when any
// tested source already occurs on any existing reference block of the
// claim. A modification-failed rejection is logged and swallowed; other
// errors propagate.
func (w *Writer) AddReference(ctx context.Context, e *wikibase.Entity, claim *wikibase.Claim, ref *statement.Reference) error {
	if ref == nil {
		return nil
	}
	if claim == nil {
		return errors.NewValidationError("reference", nil, "no claim to source")
	}

	present, err := w.referencePresent(ctx, claim, ref)
	if err != nil {
		return err
	}
	if present {
		return nil
	}

	summary := w.compose(fmt.Sprintf("Added reference to claim on [[%s]]", e.ID), "")
	claimID := claim.ID
	return w.write(ctx, e, summary, func() error {
		if err := w.client.AddReference(ctx, e.ID, claimID, ref.Block(), summary); err != nil {
			if errors.IsModificationFailed(err) {
				w.log.Warn().Err(err).Str("entity", string(e.ID)).
					Msg("Store rejected reference, abandoning write")
				return nil
			}
			return errors.NewAPIError("add reference", string(e.ID), "write failed", err)
		}
		return nil
	})
}

// referencePresent checks the tested-source overlap rule: the reference is
// already attached if any tested source matches any snak of the same
// property on any existing reference block.
func (w *Writer) referencePresent(ctx context.Context, claim *wikibase.Claim, ref *statement.Reference) (bool, error) {
	for _, src := range ref.Tested() {
		for _, block := range claim.References {
			for _, existing := range block.Snaks[src.Property] {
				equal, err := wikibase.ValuesEqual(ctx, existing.Value, src.Value, w.resolver)
				if err != nil {
					return false, err
				}
				if equal {
					return true, nil
				}
			}
		}
	}
	return false, nil
}
