package controllers

import (
	"net/http"

	"github.com/angelmondragon/foodcart-engine/api/responses"
	"github.com/angelmondragon/foodcart-engine/api/validators"
	"github.com/angelmondragon/foodcart-engine/internal/engine"
	"github.com/angelmondragon/foodcart-engine/internal/orders"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
)

type placeOrderResponse struct {
	Order orders.Confirmation `json:"order"`
	State engine.Snapshot     `json:"state"`
}

// OrdersPlace assembles the order from the cart and submits it.
func OrdersPlace(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input orders.Input
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		confirmation, state, err := eng.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, placeOrderResponse{Order: confirmation, State: state})
	}
}
