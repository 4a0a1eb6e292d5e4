package engine

import (
	"context"

	"github.com/angelmondragon/foodcart-engine/internal/orders"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
)

// BuildOrderPayload assembles an order from the current cart and the caller's
// delivery details. It does not change state.
func (e *Engine) BuildOrderPayload(ctx context.Context, input orders.Input) (orders.Payload, error) {
	e.mu.Lock()
	state := orders.CartState{
		Lines:        e.ledger.Lines(),
		PromoCode:    e.promo.Code(),
		Totals:       e.totalsLocked(),
		CutleryCount: e.cutlery,
	}
	now := e.now()
	e.mu.Unlock()

	payload, err := orders.BuildPayload(state, input, now)
	if err != nil {
		e.logg.Warn(ctx, "order payload rejected")
		return orders.Payload{}, err
	}
	return payload, nil
}

// SubmitOrder sends the payload. The cart is frozen while the call is in
// flight. On success the cart is cleared without restoring stock; on failure
// nothing changes and the cause is wrapped as SubmissionFailed.
func (e *Engine) SubmitOrder(ctx context.Context, payload orders.Payload) (orders.Confirmation, Snapshot, error) {
	ctx = e.logg.WithOrderRef(ctx, payload.ClientReference.String())

	e.mu.Lock()
	if err := e.checkSubmittableLocked(payload); err != nil {
		state := e.viewLocked()
		e.mu.Unlock()
		e.metrics.IncSubmission("rejected")
		e.record(ctx, "submit_order", "", err)
		return orders.Confirmation{}, state, err
	}
	e.submitting = true
	e.mu.Unlock()

	confirmation, submitErr := e.submitter.Submit(ctx, payload)

	e.mu.Lock()
	e.submitting = false
	if submitErr != nil {
		state := e.viewLocked()
		e.mu.Unlock()
		err := pkgerrors.Wrap(pkgerrors.CodeSubmissionFailed, submitErr, "order submission failed")
		e.metrics.IncSubmission("failure")
		e.record(ctx, "submit_order", "", err)
		return orders.Confirmation{}, state, err
	}
	e.ledger.Clear(e.catalog, false)
	e.promo.Clear()
	e.cutlery = 0
	e.clearEpoch++
	pending := e.persistableLocked()
	state := e.viewLocked()
	e.mu.Unlock()

	e.save(ctx, pending)
	e.metrics.IncSubmission("success")
	e.metrics.IncMutation("submit_order", "applied")
	e.logg.Info(e.logg.WithField(ctx, "order_id", confirmation.OrderID), "order submitted")
	return confirmation, state, nil
}

// PlaceOrder builds and submits in one call.
func (e *Engine) PlaceOrder(ctx context.Context, input orders.Input) (orders.Confirmation, Snapshot, error) {
	payload, err := e.BuildOrderPayload(ctx, input)
	if err != nil {
		return orders.Confirmation{}, e.Snapshot(), err
	}
	return e.SubmitOrder(ctx, payload)
}

// checkSubmittableLocked refuses a second in-flight submission and payloads
// that no longer describe the cart, its promo or its total.
func (e *Engine) checkSubmittableLocked(payload orders.Payload) error {
	if e.submitting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "an order is already being submitted")
	}
	if e.ledger.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	lines := e.ledger.Lines()
	if len(lines) != len(payload.Lines) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed since the order was assembled")
	}
	for _, pl := range payload.Lines {
		line, ok := e.ledger.Line(pl.ItemID)
		if !ok || line.Quantity != pl.Quantity {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed since the order was assembled").
				WithDetails(map[string]any{"item_id": pl.ItemID})
		}
	}
	if payload.PromoCode != e.promo.Code() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "promo code changed since the order was assembled").
			WithDetails(map[string]any{"promo_code": e.promo.Code()})
	}
	if total := e.totalsLocked().Total; !payload.Totals.Total.Equal(total) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order total changed since the order was assembled").
			WithDetails(map[string]any{"total": total.StringFixed(2)})
	}
	return nil
}
