package catalog

import (
	"strings"

	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/shopspring/decimal"
)

// Item is one purchasable menu entry.
type Item struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"availableQuantity"`
	ServerAvailable   bool            `json:"serverAvailable"`
	ImageURL          string          `json:"imageUrl,omitempty"`
	DeliveryTime      string          `json:"deliveryTime,omitempty"`
	Category          string          `json:"category,omitempty"`
	Restaurant        string          `json:"restaurant,omitempty"`
}

// IsAvailable reports whether the item can be added to a cart right now.
func (i Item) IsAvailable() bool {
	return i.ServerAvailable && i.AvailableQuantity > 0
}

// Validate checks the invariants every catalog item must satisfy.
func Validate(item Item) error {
	details := map[string]string{}
	if strings.TrimSpace(item.ID) == "" {
		details["id"] = "is required"
	}
	if strings.TrimSpace(item.Name) == "" {
		details["name"] = "is required"
	}
	if item.Price.IsNegative() {
		details["price"] = "must be non-negative"
	}
	if item.AvailableQuantity < 0 {
		details["availableQuantity"] = "must be non-negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid catalog item").WithDetails(details)
	}
	return nil
}
