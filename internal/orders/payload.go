package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/foodcart-engine/internal/cart"
	"github.com/angelmondragon/foodcart-engine/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coordinates pin a delivery address.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// DeliveryAddress is where the order is delivered.
type DeliveryAddress struct {
	Street      string       `json:"street" validate:"required,max=200"`
	City        string       `json:"city" validate:"required,max=100"`
	State       string       `json:"state" validate:"required,max=100"`
	ZipCode     string       `json:"zipCode" validate:"required,max=20"`
	Coordinates *Coordinates `json:"coordinates,omitempty" validate:"omitempty"`
}

// CustomerInfo identifies who placed the order.
type CustomerInfo struct {
	Name  string `json:"name" validate:"required,max=120"`
	Phone string `json:"phone" validate:"required,min=5,max=32"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// Instructions carries the optional order-level extras.
type Instructions struct {
	SpecialInstructions string `json:"specialInstructions,omitempty" validate:"max=500"`
}

// PayloadLine is one frozen cart line.
type PayloadLine struct {
	ItemID            string          `json:"itemId"`
	Name              string          `json:"name,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `json:"unitPriceSnapshot"`
	SpecialRequest    string          `json:"specialRequest,omitempty"`
}

// Payload is the order request assembled from the cart. Pricing is frozen at
// assembly time.
type Payload struct {
	ClientReference     uuid.UUID           `json:"clientReference"`
	Lines               []PayloadLine       `json:"lines"`
	PromoCode           string              `json:"promoCode,omitempty"`
	Totals              cart.Totals         `json:"totals"`
	CutleryCount        int                 `json:"cutleryCount"`
	DeliveryAddress     DeliveryAddress     `json:"deliveryAddress"`
	CustomerInfo        CustomerInfo        `json:"customerInfo"`
	PaymentMethod       enums.PaymentMethod `json:"paymentMethod"`
	SpecialInstructions string              `json:"specialInstructions,omitempty"`
	AssembledAt         time.Time           `json:"assembledAt"`
}

// Confirmation is the order service acknowledgement.
type Confirmation struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

// Submitter sends an assembled payload to the order service.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (Confirmation, error)
}
