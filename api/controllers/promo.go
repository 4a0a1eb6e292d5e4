package controllers

import (
	"net/http"

	"github.com/angelmondragon/foodcart-engine/api/responses"
	"github.com/angelmondragon/foodcart-engine/api/validators"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
)

type applyPromoRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

func PromoApply(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload applyPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := eng.ApplyPromoCode(r.Context(), payload.Code)
		writeResult(w, r, logg, "", result, err)
	}
}

func PromoRemove(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := eng.RemovePromoCode(r.Context())
		writeResult(w, r, logg, "", result, err)
	}
}

func PromoActive(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes, err := eng.ActivePromoCodes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, codes)
	}
}
