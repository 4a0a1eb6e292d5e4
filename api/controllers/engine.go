package controllers

import (
	"context"

	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	"github.com/angelmondragon/foodcart-engine/internal/engine"
	"github.com/angelmondragon/foodcart-engine/internal/orders"
	"github.com/angelmondragon/foodcart-engine/internal/promo"
)

// Engine is the intent surface the controllers drive.
type Engine interface {
	Snapshot() engine.Snapshot

	AddToCart(ctx context.Context, itemID string) (engine.Result, error)
	RemoveFromCart(ctx context.Context, itemID string) (engine.Result, error)
	ClearCart(ctx context.Context) (engine.Result, error)
	UpdateSpecialRequest(ctx context.Context, itemID, text string) (engine.Result, error)
	SetCutleryCount(ctx context.Context, count int) (engine.Result, error)
	SelectItem(ctx context.Context, itemID string) (engine.Result, error)
	ClearSelection(ctx context.Context) (engine.Result, error)

	UpsertItem(ctx context.Context, item catalog.Item) (engine.Result, error)
	UpdateMenuItem(ctx context.Context, itemID string, patch engine.ItemPatch) (engine.Result, error)
	DeleteItem(ctx context.Context, itemID string, cascade bool) (engine.Result, error)

	ApplyPromoCode(ctx context.Context, code string) (engine.Result, error)
	RemovePromoCode(ctx context.Context) (engine.Result, error)
	ActivePromoCodes(ctx context.Context) ([]promo.ActiveCode, error)

	PlaceOrder(ctx context.Context, input orders.Input) (orders.Confirmation, engine.Snapshot, error)
}

// CatalogRefresher triggers an out-of-schedule catalog sync.
type CatalogRefresher interface {
	RunOnce(ctx context.Context, trigger string) (catalog.ReconcileReport, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
