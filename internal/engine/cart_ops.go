package engine

import (
	"context"

	"github.com/angelmondragon/foodcart-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
)

// AddToCart moves one unit of the item into the cart.
func (e *Engine) AddToCart(ctx context.Context, itemID string) (Result, error) {
	ctx = e.logg.WithItemID(ctx, itemID)
	return e.mutate(ctx, "add_to_cart", mutateOpts{freezesCart: true}, func() (enums.MutationOutcome, []string, error) {
		return e.ledger.Add(e.catalog, itemID), nil, nil
	})
}

// RemoveFromCart moves one unit back into the catalog.
func (e *Engine) RemoveFromCart(ctx context.Context, itemID string) (Result, error) {
	ctx = e.logg.WithItemID(ctx, itemID)
	return e.mutate(ctx, "remove_from_cart", mutateOpts{freezesCart: true}, func() (enums.MutationOutcome, []string, error) {
		return e.ledger.Remove(e.catalog, itemID), nil, nil
	})
}

// ClearCart restores every line into the catalog and resets promo, cutlery
// and totals. Lines whose item is gone are reported as dropped.
func (e *Engine) ClearCart(ctx context.Context) (Result, error) {
	return e.mutate(ctx, "clear_cart", mutateOpts{freezesCart: true}, func() (enums.MutationOutcome, []string, error) {
		report := e.ledger.Clear(e.catalog, true)
		e.promo.Clear()
		e.cutlery = 0
		e.clearEpoch++
		return enums.MutationApplied, report.Dropped, nil
	})
}

// UpdateSpecialRequest edits a line's free-text request.
func (e *Engine) UpdateSpecialRequest(ctx context.Context, itemID, text string) (Result, error) {
	ctx = e.logg.WithItemID(ctx, itemID)
	return e.mutate(ctx, "update_special_request", mutateOpts{freezesCart: true}, func() (enums.MutationOutcome, []string, error) {
		return e.ledger.UpdateSpecialRequest(itemID, text), nil, nil
	})
}

// SelectItem points the viewing cursor at an item. An unknown item clears the
// cursor and reports not_found.
func (e *Engine) SelectItem(ctx context.Context, itemID string) (Result, error) {
	return e.mutate(ctx, "select_item", mutateOpts{}, func() (enums.MutationOutcome, []string, error) {
		if itemID == "" || e.catalog.Has(itemID) {
			e.selectedID = itemID
			return enums.MutationApplied, nil, nil
		}
		if e.selectedID != "" {
			e.selectedID = ""
			e.touched = true
		}
		return enums.MutationNotFound, nil, nil
	})
}

// ClearSelection drops the viewing cursor.
func (e *Engine) ClearSelection(ctx context.Context) (Result, error) {
	return e.SelectItem(ctx, "")
}

// SetCutleryCount records how many cutlery sets to send.
func (e *Engine) SetCutleryCount(ctx context.Context, count int) (Result, error) {
	return e.mutate(ctx, "set_cutlery", mutateOpts{freezesCart: true}, func() (enums.MutationOutcome, []string, error) {
		if count < 0 {
			return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "cutlery count must be non-negative").
				WithDetails(map[string]string{"count": "must be at least 0"})
		}
		e.cutlery = count
		return enums.MutationApplied, nil, nil
	})
}
