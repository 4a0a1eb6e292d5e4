package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/foodcart-engine/api/responses"
	"github.com/angelmondragon/foodcart-engine/api/validators"
	"github.com/angelmondragon/foodcart-engine/internal/engine"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
)

type specialRequestRequest struct {
	SpecialRequest string `json:"specialRequest" validate:"max=500"`
}

type cutleryRequest struct {
	Count *int `json:"count" validate:"required,gte=0"`
}

func CartAdd(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return itemIntent(logg, eng.AddToCart)
}

func CartRemove(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return itemIntent(logg, eng.RemoveFromCart)
}

func CartClear(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := eng.ClearCart(r.Context())
		writeResult(w, r, logg, "", result, err)
	}
}

func CartSpecialRequest(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ItemID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload specialRequestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := eng.UpdateSpecialRequest(r.Context(), itemID, payload.SpecialRequest)
		writeResult(w, r, logg, itemID, result, err)
	}
}

func CartCutlery(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cutleryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := eng.SetCutleryCount(r.Context(), *payload.Count)
		writeResult(w, r, logg, "", result, err)
	}
}

func SelectionSet(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return itemIntent(logg, eng.SelectItem)
}

func SelectionClear(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := eng.ClearSelection(r.Context())
		writeResult(w, r, logg, "", result, err)
	}
}

func itemIntent(logg *logger.Logger, intent func(ctx context.Context, itemID string) (engine.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ItemID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := intent(r.Context(), itemID)
		writeResult(w, r, logg, itemID, result, err)
	}
}

func writeResult(w http.ResponseWriter, r *http.Request, logg *logger.Logger, itemID string, result engine.Result, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteOutcome(r.Context(), logg, w, result.Outcome, itemID, result)
}
