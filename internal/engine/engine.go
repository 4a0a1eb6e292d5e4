package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/foodcart-engine/internal/cart"
	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	"github.com/angelmondragon/foodcart-engine/internal/orders"
	"github.com/angelmondragon/foodcart-engine/internal/promo"
	"github.com/angelmondragon/foodcart-engine/internal/snapshots"
	"github.com/angelmondragon/foodcart-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
	"github.com/angelmondragon/foodcart-engine/pkg/metrics"
	"github.com/shopspring/decimal"
)

const defaultStorageKey = "food-store"

type promoEvaluator interface {
	Evaluate(ctx context.Context, code string, subtotal decimal.Decimal) (promo.Application, error)
	ActiveCodes(ctx context.Context) ([]promo.ActiveCode, error)
}

// Params wires the engine collaborators.
type Params struct {
	Logger      *logger.Logger
	Store       snapshots.Store
	Promos      promoEvaluator
	Submitter   orders.Submitter
	Metrics     *metrics.EngineMetrics
	StorageKey  string
	DeliveryFee decimal.Decimal
	Clock       func() time.Time
}

// Engine owns the catalog, the cart and the active promo. Every mutation runs
// under mu; collaborator calls run outside it and apply their result in one
// locked step.
type Engine struct {
	logg      *logger.Logger
	store     snapshots.Store
	promos    promoEvaluator
	submitter orders.Submitter
	metrics   *metrics.EngineMetrics
	key       string
	fee       decimal.Decimal
	now       func() time.Time

	mu         sync.Mutex
	catalog    *catalog.Catalog
	ledger     *cart.Ledger
	promo      promo.Slot
	selectedID string
	cutlery    int
	// clearEpoch changes whenever the cart is cleared, emptied or submitted.
	clearEpoch uint64
	version    int64
	submitting bool
	// touched marks a state change made by a mutation that did not apply.
	touched bool
}

// New builds an engine with an empty catalog and cart.
func New(params Params) (*Engine, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if params.Promos == nil {
		return nil, fmt.Errorf("promo service required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if params.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee must be non-negative")
	}
	key := strings.TrimSpace(params.StorageKey)
	if key == "" {
		key = defaultStorageKey
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &Engine{
		logg:      params.Logger,
		store:     params.Store,
		promos:    params.Promos,
		submitter: params.Submitter,
		metrics:   params.Metrics,
		key:       key,
		fee:       params.DeliveryFee,
		now:       now,
		catalog:   catalog.New(),
		ledger:    cart.NewLedger(),
	}, nil
}

// Snapshot is the read-only view handed to callers. It shares no memory with
// the engine.
type Snapshot struct {
	Items        []catalog.Item     `json:"items"`
	CartLines    []cart.Line        `json:"cartLines"`
	Totals       cart.Totals        `json:"totals"`
	SelectedItem *catalog.Item      `json:"selectedItem"`
	CutleryCount int                `json:"cutleryCount"`
	Promo        *promo.Application `json:"promo"`
	Submitting   bool               `json:"submitting"`
	Version      int64              `json:"version"`
}

// Result pairs an intent outcome with the state after it.
type Result struct {
	Outcome enums.MutationOutcome `json:"outcome"`
	Dropped []string              `json:"dropped,omitempty"`
	State   Snapshot              `json:"state"`
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Engine) totalsLocked() cart.Totals {
	return cart.ComputeTotals(e.ledger.Lines(), e.promo.Amount(), e.fee)
}

func (e *Engine) viewLocked() Snapshot {
	view := Snapshot{
		Items:        e.catalog.List(),
		CartLines:    e.ledger.Lines(),
		Totals:       e.totalsLocked(),
		CutleryCount: e.cutlery,
		Submitting:   e.submitting,
		Version:      e.version,
	}
	if e.selectedID != "" {
		if item, err := e.catalog.Get(e.selectedID); err == nil {
			view.SelectedItem = &item
		}
	}
	if app, ok := e.promo.Active(); ok {
		view.Promo = &app
	}
	return view
}

// mutation is one locked state change. It reports its outcome; a returned
// error means nothing changed.
type mutation func() (enums.MutationOutcome, []string, error)

type mutateOpts struct {
	// freezesCart marks intents refused while an order submission is in flight.
	freezesCart bool
}

// mutate is the single write path: it runs fn under the lock, keeps the
// empty-cart rule, bumps the version and persists the new state outside the
// lock.
func (e *Engine) mutate(ctx context.Context, op string, opts mutateOpts, fn mutation) (Result, error) {
	e.mu.Lock()
	if opts.freezesCart && e.submitting {
		state := e.viewLocked()
		e.mu.Unlock()
		err := pkgerrors.New(pkgerrors.CodeStateConflict, "cart is locked while an order is being submitted")
		e.record(ctx, op, "", err)
		return Result{State: state}, err
	}

	wasEmpty := e.ledger.IsEmpty()
	e.touched = false
	outcome, dropped, err := fn()
	var pending *snapshots.Snapshot
	if err == nil && (outcome.Applied() || e.touched) {
		if !wasEmpty && e.ledger.IsEmpty() {
			e.cartEmptiedLocked()
		}
		pending = e.persistableLocked()
	}
	state := e.viewLocked()
	e.mu.Unlock()

	if pending != nil {
		e.save(ctx, pending)
	}
	e.record(ctx, op, outcome, err)
	return Result{Outcome: outcome, Dropped: dropped, State: state}, err
}

// cartEmptiedLocked destroys the promo and invalidates in-flight promo
// validations.
func (e *Engine) cartEmptiedLocked() {
	e.promo.Clear()
	e.clearEpoch++
}

func (e *Engine) persistableLocked() *snapshots.Snapshot {
	e.version++
	lines := e.ledger.Lines()
	totals := cart.ComputeTotals(lines, e.promo.Amount(), e.fee)
	snap := &snapshots.Snapshot{
		Version:        e.version,
		SavedAt:        e.now().UTC(),
		Items:          e.catalog.List(),
		CartLines:      lines,
		TotalLineCount: totals.TotalLineCount,
		Subtotal:       totals.Subtotal,
		Total:          totals.Total,
		SelectedItemID: e.selectedID,
		CutleryCount:   e.cutlery,
		Discount:       decimal.Zero,
		DeliveryFee:    e.fee,
	}
	if app, ok := e.promo.Active(); ok {
		snap.PromoCode = app.Code
		snap.Discount = app.DiscountAmount
		appliedAt := app.AppliedAt
		snap.PromoAppliedAt = &appliedAt
	}
	return snap
}

// save writes a snapshot. Failures are logged and counted; the intent that
// produced the state has already succeeded. A stale rejection caused by
// another writer's newer version is retried once on top of that version.
func (e *Engine) save(ctx context.Context, snap *snapshots.Snapshot) {
	err := e.store.Save(ctx, e.key, snap)
	if errors.Is(err, snapshots.ErrStale) {
		if rebased := e.rebase(ctx); rebased != nil {
			e.metrics.IncSave("rebased")
			e.logg.Warn(e.logg.WithFields(ctx, map[string]any{
				"rejected_version": snap.Version,
				"version":          rebased.Version,
			}), "stored snapshot is newer; adopting its version")
			snap = rebased
			err = e.store.Save(ctx, e.key, snap)
		}
	}
	switch {
	case err == nil:
		e.metrics.IncSave("success")
	case errors.Is(err, snapshots.ErrStale):
		e.metrics.IncSave("stale")
		e.logg.Warn(e.logg.WithField(ctx, "version", snap.Version), "skipped stale snapshot write")
	default:
		e.metrics.IncSave("failure")
		e.logg.Error(e.logg.WithFields(ctx, map[string]any{
			"version":     snap.Version,
			"storage_key": e.key,
			"error_dump":  pkgerrors.Dump(err).Fields(),
		}), "snapshot save failed", err)
	}
}

// rebase reads the stored version and, when it is not behind the engine,
// moves the engine past it and returns a snapshot of the current state. It
// returns nil when the stored version is older, meaning a newer local write
// already landed.
func (e *Engine) rebase(ctx context.Context) *snapshots.Snapshot {
	stored, err := e.store.LoadVersion(ctx, e.key)
	if err != nil {
		e.logg.Error(e.logg.WithField(ctx, "storage_key", e.key), "read stored snapshot version failed", err)
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if stored < e.version {
		return nil
	}
	e.version = stored
	return e.persistableLocked()
}

func (e *Engine) record(ctx context.Context, op string, outcome enums.MutationOutcome, err error) {
	label := outcome.String()
	if err != nil {
		label = strings.ToLower(string(codeOf(err)))
	}
	e.metrics.IncMutation(op, label)

	logCtx := e.logg.WithFields(ctx, map[string]any{"op": op, "outcome": label})
	if err != nil && !isExpected(err) {
		e.logg.Error(logCtx, "intent failed", err)
		return
	}
	e.logg.Info(logCtx, "intent handled")
}

func codeOf(err error) pkgerrors.Code {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return pkgerrors.CodeInternal
}

// isExpected reports errors that are normal user-facing results.
func isExpected(err error) bool {
	switch codeOf(err) {
	case pkgerrors.CodeValidation, pkgerrors.CodeReferential, pkgerrors.CodeStateConflict,
		pkgerrors.CodeInvalidPromo, pkgerrors.CodeNotFound:
		return true
	}
	return false
}
