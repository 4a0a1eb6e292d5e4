package enums

import (
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
)

// MutationOutcome is the result signal of a local cart or catalog intent.
// Anything other than MutationApplied means nothing changed.
type MutationOutcome string

const (
	MutationApplied     MutationOutcome = "applied"
	MutationUnavailable MutationOutcome = "unavailable"
	MutationNotFound    MutationOutcome = "not_found"
	MutationNotInCart   MutationOutcome = "not_in_cart"
)

// String implements fmt.Stringer.
func (m MutationOutcome) String() string {
	return string(m)
}

// Applied reports whether the intent changed state.
func (m MutationOutcome) Applied() bool {
	return m == MutationApplied
}

// Err maps a no-op outcome to its typed error for callers that surface it.
func (m MutationOutcome) Err() error {
	switch m {
	case MutationApplied:
		return nil
	case MutationUnavailable:
		return pkgerrors.New(pkgerrors.CodeUnavailable, "item is unavailable")
	case MutationNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	case MutationNotInCart:
		return pkgerrors.New(pkgerrors.CodeNotInCart, "item is not in the cart")
	default:
		return pkgerrors.New(pkgerrors.CodeInternal, "unknown mutation outcome")
	}
}
