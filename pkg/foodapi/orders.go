package foodapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/foodcart-engine/internal/orders"
	"github.com/angelmondragon/foodcart-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
)

type orderItem struct {
	FoodID              string      `json:"foodId"`
	Quantity            int         `json:"quantity"`
	Price               json.Number `json:"price"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
}

type createOrderRequest struct {
	Items               []orderItem            `json:"items"`
	DeliveryAddress     orders.DeliveryAddress `json:"deliveryAddress"`
	CustomerInfo        orders.CustomerInfo    `json:"customerInfo"`
	PaymentMethod       enums.PaymentMethod    `json:"paymentMethod"`
	PromoCode           string                 `json:"promoCode,omitempty"`
	SpecialInstructions string                 `json:"specialInstructions,omitempty"`
	CutleryCount        int                    `json:"cutleryCount"`
	ClientReference     string                 `json:"clientReference"`
}

type createOrderResponse struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
	Success *bool  `json:"success"`
}

func newCreateOrderRequest(payload orders.Payload) createOrderRequest {
	items := make([]orderItem, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		items = append(items, orderItem{
			FoodID:              line.ItemID,
			Quantity:            line.Quantity,
			Price:               json.Number(line.UnitPriceSnapshot.String()),
			SpecialInstructions: line.SpecialRequest,
		})
	}
	return createOrderRequest{
		Items:               items,
		DeliveryAddress:     payload.DeliveryAddress,
		CustomerInfo:        payload.CustomerInfo,
		PaymentMethod:       payload.PaymentMethod,
		PromoCode:           payload.PromoCode,
		SpecialInstructions: payload.SpecialInstructions,
		CutleryCount:        payload.CutleryCount,
		ClientReference:     payload.ClientReference.String(),
	}
}

// Submit implements orders.Submitter.
func (c *Client) Submit(ctx context.Context, payload orders.Payload) (orders.Confirmation, error) {
	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, ordersPath, newCreateOrderRequest(payload), &resp); err != nil {
		return orders.Confirmation{}, err
	}
	if resp.Success != nil && !*resp.Success {
		return orders.Confirmation{}, pkgerrors.New(pkgerrors.CodeDependency, "order service reported failure")
	}
	id := strings.TrimSpace(resp.ID)
	if id == "" {
		id = strings.TrimSpace(resp.MongoID)
	}
	if id == "" {
		return orders.Confirmation{}, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("missing order id"), "decode orders response")
	}
	return orders.Confirmation{Success: true, OrderID: id}, nil
}
