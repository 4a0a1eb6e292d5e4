package catalog

import (
	"sort"

	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
)

// Catalog is the in-memory item set. It is not safe for concurrent use; the
// engine serializes access.
type Catalog struct {
	items map[string]Item
	order []string
}

// New builds a catalog from the provided items, skipping invalid ones.
func New(items ...Item) *Catalog {
	c := &Catalog{items: map[string]Item{}}
	for _, item := range items {
		if Validate(item) != nil {
			continue
		}
		c.put(item)
	}
	return c
}

// Get returns the item or a NotFound error.
func (c *Catalog) Get(id string) (Item, error) {
	item, ok := c.items[id]
	if !ok {
		return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found").WithDetails(map[string]any{"item_id": id})
	}
	return item, nil
}

// Has reports whether id is present.
func (c *Catalog) Has(id string) bool {
	_, ok := c.items[id]
	return ok
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.order)
}

// List returns the items in insertion order.
func (c *Catalog) List() []Item {
	out := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Upsert creates or replaces an item. Replacing keeps the item's position.
func (c *Catalog) Upsert(item Item) error {
	if err := Validate(item); err != nil {
		return err
	}
	c.put(item)
	return nil
}

// Remove deletes an item. Cart cascades are the caller's responsibility.
func (c *Catalog) Remove(id string) error {
	if _, ok := c.items[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found").WithDetails(map[string]any{"item_id": id})
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Adjust moves delta units into (positive) or out of (negative) the item's
// available quantity. It refuses to go below zero.
func (c *Catalog) Adjust(id string, delta int) bool {
	item, ok := c.items[id]
	if !ok {
		return false
	}
	if item.AvailableQuantity+delta < 0 {
		return false
	}
	item.AvailableQuantity += delta
	c.items[id] = item
	return true
}

// ReconcileReport lists what a ReplaceAll changed.
type ReconcileReport struct {
	Added    []string `json:"added,omitempty"`
	Updated  []string `json:"updated,omitempty"`
	Removed  []string `json:"removed,omitempty"`
	Retained []string `json:"retained,omitempty"`
	Invalid  []string `json:"invalid,omitempty"`
}

// ReplaceAll swaps the whole item set for a freshly fetched one. held maps
// item IDs to the quantity currently committed to cart lines:
//   - a held item present remotely gets AvailableQuantity = max(remote-held, 0)
//   - a held item missing remotely is kept, marked server-unavailable
//   - anything else missing remotely is dropped
func (c *Catalog) ReplaceAll(incoming []Item, held map[string]int) ReconcileReport {
	var report ReconcileReport
	next := &Catalog{items: map[string]Item{}}

	for _, item := range incoming {
		if err := Validate(item); err != nil || next.Has(item.ID) {
			report.Invalid = append(report.Invalid, item.ID)
			continue
		}
		if qty := held[item.ID]; qty > 0 {
			item.AvailableQuantity -= qty
			if item.AvailableQuantity < 0 {
				item.AvailableQuantity = 0
			}
		}
		if _, existed := c.items[item.ID]; existed {
			report.Updated = append(report.Updated, item.ID)
		} else {
			report.Added = append(report.Added, item.ID)
		}
		next.put(item)
	}

	for _, id := range c.order {
		if next.Has(id) {
			continue
		}
		if held[id] > 0 {
			kept := c.items[id]
			kept.ServerAvailable = false
			next.put(kept)
			report.Retained = append(report.Retained, id)
			continue
		}
		report.Removed = append(report.Removed, id)
	}

	sort.Strings(report.Retained)
	sort.Strings(report.Removed)

	c.items = next.items
	c.order = next.order
	return report
}

// Clone returns a deep copy.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{items: make(map[string]Item, len(c.items)), order: make([]string, len(c.order))}
	copy(out.order, c.order)
	for id, item := range c.items {
		out.items[id] = item
	}
	return out
}

func (c *Catalog) put(item Item) {
	if _, exists := c.items[item.ID]; !exists {
		c.order = append(c.order, item.ID)
	}
	c.items[item.ID] = item
}
