package engine

import (
	"context"
	"strings"

	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	"github.com/angelmondragon/foodcart-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemPatch carries the fields of a partial menu update. Nil fields are left
// unchanged.
type ItemPatch struct {
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	AvailableQuantity *int             `json:"availableQuantity,omitempty"`
	ServerAvailable   *bool            `json:"serverAvailable,omitempty"`
	ImageURL          *string          `json:"imageUrl,omitempty"`
	DeliveryTime      *string          `json:"deliveryTime,omitempty"`
	Category          *string          `json:"category,omitempty"`
	Restaurant        *string          `json:"restaurant,omitempty"`
}

func (p ItemPatch) apply(item catalog.Item) catalog.Item {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.AvailableQuantity != nil {
		item.AvailableQuantity = *p.AvailableQuantity
	}
	if p.ServerAvailable != nil {
		item.ServerAvailable = *p.ServerAvailable
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.DeliveryTime != nil {
		item.DeliveryTime = *p.DeliveryTime
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Restaurant != nil {
		item.Restaurant = *p.Restaurant
	}
	return item
}

// UpsertItem creates or replaces a menu item. An empty ID gets a generated
// one. Cart lines keep their frozen price.
func (e *Engine) UpsertItem(ctx context.Context, item catalog.Item) (Result, error) {
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Name = strings.TrimSpace(item.Name)
	ctx = e.logg.WithItemID(ctx, item.ID)
	return e.mutate(ctx, "upsert_item", mutateOpts{}, func() (enums.MutationOutcome, []string, error) {
		if err := e.catalog.Upsert(item); err != nil {
			return "", nil, err
		}
		return enums.MutationApplied, nil, nil
	})
}

// UpdateMenuItem patches an existing item.
func (e *Engine) UpdateMenuItem(ctx context.Context, itemID string, patch ItemPatch) (Result, error) {
	ctx = e.logg.WithItemID(ctx, itemID)
	return e.mutate(ctx, "update_item", mutateOpts{}, func() (enums.MutationOutcome, []string, error) {
		item, err := e.catalog.Get(itemID)
		if err != nil {
			return "", nil, err
		}
		if err := e.catalog.Upsert(patch.apply(item)); err != nil {
			return "", nil, err
		}
		return enums.MutationApplied, nil, nil
	})
}

// DeleteItem removes a menu item. An item held by the cart is only removed
// with cascade, which drops its line without restoring stock.
func (e *Engine) DeleteItem(ctx context.Context, itemID string, cascade bool) (Result, error) {
	ctx = e.logg.WithItemID(ctx, itemID)
	return e.mutate(ctx, "delete_item", mutateOpts{freezesCart: true}, func() (enums.MutationOutcome, []string, error) {
		if !e.catalog.Has(itemID) {
			return "", nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found").
				WithDetails(map[string]any{"item_id": itemID})
		}
		var dropped []string
		if line, held := e.ledger.Line(itemID); held {
			if !cascade {
				return "", nil, pkgerrors.New(pkgerrors.CodeReferential, "item is in the cart").
					WithDetails(map[string]any{"item_id": itemID, "quantity": line.Quantity})
			}
			e.ledger.Drop(itemID)
			dropped = append(dropped, itemID)
		}
		if err := e.catalog.Remove(itemID); err != nil {
			return "", nil, err
		}
		if e.selectedID == itemID {
			e.selectedID = ""
		}
		return enums.MutationApplied, dropped, nil
	})
}

// ReplaceCatalog swaps in a freshly fetched item set, keeping stock committed
// to cart lines out of the available quantity.
func (e *Engine) ReplaceCatalog(ctx context.Context, items []catalog.Item) (catalog.ReconcileReport, error) {
	var report catalog.ReconcileReport
	_, err := e.mutate(ctx, "replace_catalog", mutateOpts{}, func() (enums.MutationOutcome, []string, error) {
		report = e.catalog.ReplaceAll(items, e.ledger.Held())
		if e.selectedID != "" && !e.catalog.Has(e.selectedID) {
			e.selectedID = ""
		}
		return enums.MutationApplied, nil, nil
	})
	if err != nil {
		return catalog.ReconcileReport{}, err
	}
	e.logg.Info(e.logg.WithFields(ctx, map[string]any{
		"added":    len(report.Added),
		"updated":  len(report.Updated),
		"removed":  len(report.Removed),
		"retained": len(report.Retained),
		"invalid":  len(report.Invalid),
	}), "catalog replaced")
	return report, nil
}
