package foodapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	"github.com/shopspring/decimal"
)

// food is the backend item shape. Older deployments send _id, isAvailable
// and image instead of id, availability and imageUrl.
type food struct {
	ID           string          `json:"id"`
	MongoID      string          `json:"_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Image        string          `json:"image"`
	ImageURL     string          `json:"imageUrl"`
	Availability *bool           `json:"availability"`
	IsAvailable  *bool           `json:"isAvailable"`
	Quantity     *int            `json:"quantity"`
	DeliveryTime string          `json:"deliveryTime"`
	Restaurant   string          `json:"restaurant"`
}

func (f food) toItem() catalog.Item {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		id = strings.TrimSpace(f.MongoID)
	}
	available := false
	switch {
	case f.Availability != nil:
		available = *f.Availability
	case f.IsAvailable != nil:
		available = *f.IsAvailable
	}
	qty := 0
	if f.Quantity != nil && *f.Quantity > 0 {
		qty = *f.Quantity
	}
	image := f.ImageURL
	if image == "" {
		image = f.Image
	}
	return catalog.Item{
		ID:                id,
		Name:              strings.TrimSpace(f.Name),
		Description:       f.Description,
		Price:             f.Price,
		AvailableQuantity: qty,
		ServerAvailable:   available,
		ImageURL:          image,
		DeliveryTime:      f.DeliveryTime,
		Category:          f.Category,
		Restaurant:        f.Restaurant,
	}
}

// FetchAll returns every backend food mapped into catalog items. Unavailable
// and zero-stock items are kept.
func (c *Client) FetchAll(ctx context.Context) ([]catalog.Item, error) {
	var foods []food
	if err := c.do(ctx, http.MethodGet, foodsPath, nil, &foods); err != nil {
		return nil, err
	}
	items := make([]catalog.Item, 0, len(foods))
	for _, f := range foods {
		items = append(items, f.toItem())
	}
	return items, nil
}
