package engine

import (
	"context"
	"fmt"

	"github.com/angelmondragon/foodcart-engine/internal/cart"
	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	"github.com/angelmondragon/foodcart-engine/internal/promo"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"go.uber.org/multierr"
)

// Restore loads the persisted snapshot into the engine. Invalid items and
// lines are dropped and totals are recomputed from the surviving lines. A
// missing snapshot leaves the engine empty. When the payload cannot be
// loaded the engine still adopts the stored version so its later saves are
// accepted.
func (e *Engine) Restore(ctx context.Context) (Snapshot, error) {
	ctx = e.logg.WithField(ctx, "storage_key", e.key)
	snap, err := e.store.Load(ctx, e.key)
	if err != nil {
		e.logg.Error(ctx, "snapshot load failed", err)
		e.adoptStoredVersion(ctx)
		return e.Snapshot(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snapshot")
	}
	if snap == nil {
		e.logg.Info(ctx, "no snapshot to restore")
		return e.Snapshot(), nil
	}

	var problems error
	items := make([]catalog.Item, 0, len(snap.Items))
	for _, item := range snap.Items {
		if verr := catalog.Validate(item); verr != nil {
			problems = multierr.Append(problems, fmt.Errorf("item %q: %w", item.ID, verr))
			continue
		}
		items = append(items, item)
	}
	restoredCatalog := catalog.New(items...)

	lines := make([]cart.Line, 0, len(snap.CartLines))
	for _, line := range snap.CartLines {
		switch {
		case line.Quantity <= 0:
			problems = multierr.Append(problems, fmt.Errorf("line %q: non-positive quantity %d", line.ItemID, line.Quantity))
		case !restoredCatalog.Has(line.ItemID):
			problems = multierr.Append(problems, fmt.Errorf("line %q: unknown item", line.ItemID))
		default:
			lines = append(lines, line)
		}
	}
	ledger := cart.NewLedger(lines...)

	e.mu.Lock()
	e.catalog = restoredCatalog
	e.ledger = ledger
	e.promo.Clear()
	if !ledger.IsEmpty() && snap.PromoCode != "" {
		app := promo.Application{Code: snap.PromoCode, DiscountAmount: snap.Discount, AppliedAt: snap.SavedAt}
		if snap.PromoAppliedAt != nil {
			app.AppliedAt = *snap.PromoAppliedAt
		}
		e.promo.Set(app)
	}
	e.selectedID = ""
	if restoredCatalog.Has(snap.SelectedItemID) {
		e.selectedID = snap.SelectedItemID
	}
	e.cutlery = max(0, snap.CutleryCount)
	e.clearEpoch++
	e.version = snap.Version
	state := e.viewLocked()
	e.mu.Unlock()

	fields := map[string]any{
		"version": snap.Version,
		"items":   len(state.Items),
		"lines":   len(state.CartLines),
	}
	if problems != nil {
		fields["dropped"] = len(multierr.Errors(problems))
		e.logg.Warn(e.logg.WithFields(ctx, fields), "snapshot restored with dropped entries: "+problems.Error())
		return state, nil
	}
	e.logg.Info(e.logg.WithFields(ctx, fields), "snapshot restored")
	return state, nil
}

func (e *Engine) adoptStoredVersion(ctx context.Context) {
	version, err := e.store.LoadVersion(ctx, e.key)
	if err != nil {
		e.logg.Error(ctx, "snapshot version load failed", err)
		return
	}
	e.mu.Lock()
	e.version = max(e.version, version)
	e.mu.Unlock()
	e.logg.Warn(e.logg.WithField(ctx, "version", version), "starting empty on top of the stored snapshot version")
}
