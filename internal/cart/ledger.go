package cart

import (
	"strings"

	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	"github.com/angelmondragon/foodcart-engine/pkg/enums"
)

// Ledger holds the cart lines. Every quantity it holds was taken from a
// catalog item, so for each item AvailableQuantity + line quantity stays
// constant across Add and Remove. Not safe for concurrent use.
type Ledger struct {
	lines map[string]Line
	order []string
}

// NewLedger rebuilds a ledger from stored lines, skipping non-positive rows
// and duplicates.
func NewLedger(lines ...Line) *Ledger {
	l := &Ledger{lines: map[string]Line{}}
	for _, line := range lines {
		if line.Quantity <= 0 || strings.TrimSpace(line.ItemID) == "" {
			continue
		}
		if _, dup := l.lines[line.ItemID]; dup {
			continue
		}
		l.lines[line.ItemID] = line
		l.order = append(l.order, line.ItemID)
	}
	return l
}

// Add moves one unit of the item from the catalog into the cart.
func (l *Ledger) Add(c *catalog.Catalog, itemID string) enums.MutationOutcome {
	item, err := c.Get(itemID)
	if err != nil {
		return enums.MutationNotFound
	}
	if !item.IsAvailable() {
		return enums.MutationUnavailable
	}
	if !c.Adjust(itemID, -1) {
		return enums.MutationUnavailable
	}

	line, exists := l.lines[itemID]
	if !exists {
		line = Line{
			ItemID:            item.ID,
			Name:              item.Name,
			ImageURL:          item.ImageURL,
			UnitPriceSnapshot: item.Price,
		}
		l.order = append(l.order, itemID)
	}
	line.Quantity++
	l.lines[itemID] = line
	return enums.MutationApplied
}

// Remove moves one unit back from the cart into the catalog, deleting the
// line when it reaches zero. If the item has left the catalog the unit is
// dropped.
func (l *Ledger) Remove(c *catalog.Catalog, itemID string) enums.MutationOutcome {
	line, exists := l.lines[itemID]
	if !exists {
		return enums.MutationNotInCart
	}
	line.Quantity--
	if line.Quantity <= 0 {
		l.delete(itemID)
	} else {
		l.lines[itemID] = line
	}
	c.Adjust(itemID, 1)
	return enums.MutationApplied
}

// ClearReport lists which lines returned stock and which were dropped.
type ClearReport struct {
	Restored []string `json:"restored,omitempty"`
	Dropped  []string `json:"dropped,omitempty"`
}

// Clear empties the cart. With restore set every line's quantity goes back to
// its item; lines whose item is gone are dropped. Without restore the stock is
// considered consumed.
func (l *Ledger) Clear(c *catalog.Catalog, restore bool) ClearReport {
	var report ClearReport
	for _, id := range l.order {
		line := l.lines[id]
		if !restore {
			continue
		}
		if c.Adjust(id, line.Quantity) {
			report.Restored = append(report.Restored, id)
		} else {
			report.Dropped = append(report.Dropped, id)
		}
	}
	l.lines = map[string]Line{}
	l.order = nil
	return report
}

// UpdateSpecialRequest changes line metadata only.
func (l *Ledger) UpdateSpecialRequest(itemID, text string) enums.MutationOutcome {
	line, exists := l.lines[itemID]
	if !exists {
		return enums.MutationNotInCart
	}
	line.SpecialRequest = strings.TrimSpace(text)
	l.lines[itemID] = line
	return enums.MutationApplied
}

// Drop removes a line without touching the catalog. Used when the item itself
// is deleted.
func (l *Ledger) Drop(itemID string) (Line, bool) {
	line, exists := l.lines[itemID]
	if !exists {
		return Line{}, false
	}
	l.delete(itemID)
	return line, true
}

// Line returns the line for an item.
func (l *Ledger) Line(itemID string) (Line, bool) {
	line, ok := l.lines[itemID]
	return line, ok
}

// Lines returns the lines in the order they were first added.
func (l *Ledger) Lines() []Line {
	out := make([]Line, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.lines[id])
	}
	return out
}

// Held maps item IDs to the quantity committed to the cart.
func (l *Ledger) Held() map[string]int {
	held := make(map[string]int, len(l.lines))
	for id, line := range l.lines {
		held[id] = line.Quantity
	}
	return held
}

// IsEmpty reports whether the cart has no lines.
func (l *Ledger) IsEmpty() bool {
	return len(l.order) == 0
}

func (l *Ledger) delete(itemID string) {
	delete(l.lines, itemID)
	for i, id := range l.order {
		if id == itemID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}
