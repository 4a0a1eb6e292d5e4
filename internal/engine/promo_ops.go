package engine

import (
	"context"

	"github.com/angelmondragon/foodcart-engine/internal/promo"
	"github.com/angelmondragon/foodcart-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
)

// ApplyPromoCode validates a code against the current subtotal and stores the
// resulting discount. The lock is released during validation; if the cart was
// cleared or emptied meanwhile the late result is discarded.
func (e *Engine) ApplyPromoCode(ctx context.Context, code string) (Result, error) {
	ctx = e.logg.WithField(ctx, "promo_code", promo.Normalize(code))

	e.mu.Lock()
	if e.submitting {
		state := e.viewLocked()
		e.mu.Unlock()
		err := pkgerrors.New(pkgerrors.CodeStateConflict, "cart is locked while an order is being submitted")
		e.record(ctx, "apply_promo", "", err)
		return Result{State: state}, err
	}
	subtotal := e.totalsLocked().Subtotal
	epoch := e.clearEpoch
	e.mu.Unlock()

	app, err := e.promos.Evaluate(ctx, code, subtotal)
	if err != nil {
		e.metrics.IncPromo(promoOutcome(err))
		e.record(ctx, "apply_promo", "", err)
		return Result{State: e.Snapshot()}, err
	}

	result, err := e.mutate(ctx, "apply_promo", mutateOpts{freezesCart: true}, func() (enums.MutationOutcome, []string, error) {
		if e.clearEpoch != epoch || e.ledger.IsEmpty() {
			return "", nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed while the promo code was being validated")
		}
		e.promo.Set(app)
		return enums.MutationApplied, nil, nil
	})
	if err != nil {
		e.metrics.IncPromo("discarded")
		return result, err
	}
	e.metrics.IncPromo("accepted")
	return result, nil
}

// RemovePromoCode clears the active promo.
func (e *Engine) RemovePromoCode(ctx context.Context) (Result, error) {
	return e.mutate(ctx, "remove_promo", mutateOpts{freezesCart: true}, func() (enums.MutationOutcome, []string, error) {
		e.promo.Clear()
		return enums.MutationApplied, nil, nil
	})
}

// ActivePromoCodes lists the codes the backend currently offers.
func (e *Engine) ActivePromoCodes(ctx context.Context) ([]promo.ActiveCode, error) {
	codes, err := e.promos.ActiveCodes(ctx)
	if err != nil {
		e.logg.Error(ctx, "list active promo codes failed", err)
		return nil, err
	}
	return codes, nil
}

func promoOutcome(err error) string {
	switch codeOf(err) {
	case pkgerrors.CodeInvalidPromo:
		return "invalid"
	case pkgerrors.CodePromoServiceUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}
