package wikibase

import (
	"context"
	"strconv"
)

// ValueKind discriminates the variants of the claim value union.
type ValueKind string

// Value kinds, named after the datavalue types of the wire format.
const (
	KindEntity      ValueKind = "wikibase-entityid"
	KindString      ValueKind = "string"
	KindMonolingual ValueKind = "monolingualtext"
	KindQuantity    ValueKind = "quantity"
	KindTime        ValueKind = "time"
)

// Value is a claim target value. Implementations are the tagged variants of
// the value union; Key returns a stable representation such that two values
// of the same kind are structurally equal iff their keys are equal.
type Value interface {
	Kind() ValueKind
	Key() string
	String() string
}

// EntityValue is a reference to another entity.
type EntityValue struct {
	ID EntityID
}

// Kind implements Value.
func (v EntityValue) Kind() ValueKind { return KindEntity }

// Key implements Value.
func (v EntityValue) Key() string { return "wd:" + string(v.ID) }

// String implements Value.
func (v EntityValue) String() string { return string(v.ID) }

// StringValue is a plain string value (external identifiers, URLs).
type StringValue string

// Kind implements Value.
func (v StringValue) Kind() ValueKind { return KindString }

// Key implements Value.
func (v StringValue) Key() string { return strconv.Quote(string(v)) }

// String implements Value.
func (v StringValue) String() string { return string(v) }

// MonolingualText is a string tagged with the language it is written in.
type MonolingualText struct {
	Language string
	Text     string
}

// Kind implements Value.
func (v MonolingualText) Kind() ValueKind { return KindMonolingual }

// Key implements Value.
func (v MonolingualText) Key() string {
	return v.Language + ":" + strconv.Quote(v.Text)
}

// String implements Value.
func (v MonolingualText) String() string {
	return v.Text + " (" + v.Language + ")"
}

// Quantity is an amount with an optional unit entity. The amount is kept as
// the decimal string of the wire format so no precision is lost.
type Quantity struct {
	Amount string
	Unit   EntityID // empty when dimensionless
}

// Kind implements Value.
func (v Quantity) Kind() ValueKind { return KindQuantity }

// Key implements Value.
func (v Quantity) Key() string { return v.Amount + "@" + string(v.Unit) }

// String renders the quantity as "<amount> <unit>", eliding the unit when
// absent.
func (v Quantity) String() string {
	if v.Unit == "" {
		return v.Amount
	}
	return v.Amount + " " + string(v.Unit)
}

// RedirectResolver resolves a possibly redirected entity id to its target.
// Implementations return the input id unchanged when it is not a redirect.
type RedirectResolver interface {
	ResolveRedirect(ctx context.Context, id EntityID) (EntityID, error)
}

// ValuesEqual reports whether two values are equal, dispatching per variant:
// time points compare at the coarser of their precisions (which can fail
// with ErrIncomparablePrecision), entity references are resolved through the
// redirect resolver first when one is supplied, everything else compares
// structurally. Values of different kinds are never equal.
func ValuesEqual(ctx context.Context, a, b Value, resolver RedirectResolver) (bool, error) {
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}
	if a.Kind() != b.Kind() {
		return false, nil
	}

	switch av := a.(type) {
	case Time:
		return av.EqualAt(b.(Time))
	case EntityValue:
		bv := b.(EntityValue)
		if resolver == nil {
			return av.ID == bv.ID, nil
		}
		aid, err := resolver.ResolveRedirect(ctx, av.ID)
		if err != nil {
			return false, err
		}
		bid, err := resolver.ResolveRedirect(ctx, bv.ID)
		if err != nil {
			return false, err
		}
		return aid == bid, nil
	default:
		return a.Key() == b.Key(), nil
	}
}
