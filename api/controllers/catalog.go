package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodcart-engine/api/responses"
	"github.com/angelmondragon/foodcart-engine/api/validators"
	"github.com/angelmondragon/foodcart-engine/internal/catalog"
	"github.com/angelmondragon/foodcart-engine/internal/catalogsync"
	"github.com/angelmondragon/foodcart-engine/internal/engine"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/angelmondragon/foodcart-engine/pkg/logger"
)

type itemRequest struct {
	Name              string           `json:"name" validate:"required,max=200"`
	Description       string           `json:"description" validate:"max=2000"`
	Price             *decimal.Decimal `json:"price" validate:"required"`
	AvailableQuantity *int             `json:"availableQuantity" validate:"required,gte=0"`
	ServerAvailable   *bool            `json:"serverAvailable"`
	ImageURL          string           `json:"imageUrl" validate:"omitempty,url"`
	DeliveryTime      string           `json:"deliveryTime" validate:"max=64"`
	Category          string           `json:"category" validate:"max=64"`
	Restaurant        string           `json:"restaurant" validate:"max=200"`
}

func (r itemRequest) toItem(id string) catalog.Item {
	available := true
	if r.ServerAvailable != nil {
		available = *r.ServerAvailable
	}
	return catalog.Item{
		ID:                id,
		Name:              r.Name,
		Description:       r.Description,
		Price:             *r.Price,
		AvailableQuantity: *r.AvailableQuantity,
		ServerAvailable:   available,
		ImageURL:          r.ImageURL,
		DeliveryTime:      r.DeliveryTime,
		Category:          r.Category,
		Restaurant:        r.Restaurant,
	}
}

type itemPatchRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description" validate:"omitempty,max=2000"`
	Price             *decimal.Decimal `json:"price"`
	AvailableQuantity *int             `json:"availableQuantity" validate:"omitempty,gte=0"`
	ServerAvailable   *bool            `json:"serverAvailable"`
	ImageURL          *string          `json:"imageUrl" validate:"omitempty,url"`
	DeliveryTime      *string          `json:"deliveryTime" validate:"omitempty,max=64"`
	Category          *string          `json:"category" validate:"omitempty,max=64"`
	Restaurant        *string          `json:"restaurant" validate:"omitempty,max=200"`
}

func (r itemPatchRequest) toPatch() engine.ItemPatch {
	return engine.ItemPatch{
		Name:              r.Name,
		Description:       r.Description,
		Price:             r.Price,
		AvailableQuantity: r.AvailableQuantity,
		ServerAvailable:   r.ServerAvailable,
		ImageURL:          r.ImageURL,
		DeliveryTime:      r.DeliveryTime,
		Category:          r.Category,
		Restaurant:        r.Restaurant,
	}
}

func CatalogList(eng Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, eng.Snapshot().Items)
	}
}

// CatalogCreate adds an item under a generated ID.
func CatalogCreate(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := eng.UpsertItem(r.Context(), payload.toItem(""))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func CatalogUpsert(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ItemID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := eng.UpsertItem(r.Context(), payload.toItem(itemID))
		writeResult(w, r, logg, itemID, result, err)
	}
}

func CatalogPatch(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ItemID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload itemPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := eng.UpdateMenuItem(r.Context(), itemID, payload.toPatch())
		writeResult(w, r, logg, itemID, result, err)
	}
}

func CatalogDelete(eng Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ItemID(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cascade, err := validators.ParseQueryBool(r, "cascade", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := eng.DeleteItem(r.Context(), itemID, cascade)
		writeResult(w, r, logg, itemID, result, err)
	}
}

// CatalogRefresh pulls the remote catalog now.
func CatalogRefresh(refresher CatalogRefresher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if refresher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "catalog sync is disabled"))
			return
		}
		report, err := refresher.RunOnce(r.Context(), catalogsync.TriggerManual)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
