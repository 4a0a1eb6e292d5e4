package foodapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/angelmondragon/foodcart-engine/internal/promo"
	"github.com/shopspring/decimal"
)

type validatePromoRequest struct {
	Code       string      `json:"code"`
	OrderValue json.Number `json:"orderValue"`
}

type validatePromoResponse struct {
	IsValid  bool            `json:"isValid"`
	Discount decimal.Decimal `json:"discount"`
	Message  string          `json:"message"`
}

// Validate implements promo.Validator. A business rejection (400, 404, 422)
// is an invalid code; any other failure is returned as an error.
func (c *Client) Validate(ctx context.Context, code string, orderValue decimal.Decimal) (promo.Validation, error) {
	var resp validatePromoResponse
	err := c.do(ctx, http.MethodPost, validatePromoPath, validatePromoRequest{
		Code:       code,
		OrderValue: json.Number(orderValue.String()),
	}, &resp)
	if err != nil {
		if isPromoRejection(StatusCode(err)) {
			return promo.Validation{IsValid: false, Message: clientErrorMessage(err)}, nil
		}
		return promo.Validation{}, err
	}
	return promo.Validation{
		IsValid:  resp.IsValid,
		Discount: resp.Discount,
		Message:  resp.Message,
	}, nil
}

type activePromo struct {
	Code              string           `json:"code"`
	Description       string           `json:"description"`
	Type              string           `json:"type"`
	Value             decimal.Decimal  `json:"value"`
	MinimumOrderValue decimal.Decimal  `json:"minimumOrderValue"`
	ValidUntil        *time.Time       `json:"validUntil"`
	IsActive          *bool            `json:"isActive"`
	MaximumDiscount   *decimal.Decimal `json:"maximumDiscount"`
}

// ActiveCodes implements promo.Lister.
func (c *Client) ActiveCodes(ctx context.Context) ([]promo.ActiveCode, error) {
	var promos []activePromo
	if err := c.do(ctx, http.MethodGet, activePromosPath, nil, &promos); err != nil {
		return nil, err
	}
	out := make([]promo.ActiveCode, 0, len(promos))
	for _, p := range promos {
		if p.IsActive != nil && !*p.IsActive {
			continue
		}
		out = append(out, promo.ActiveCode{
			Code:          promo.Normalize(p.Code),
			Description:   p.Description,
			DiscountType:  p.Type,
			DiscountValue: p.Value,
			MinOrderValue: p.MinimumOrderValue,
			ExpiresAt:     p.ValidUntil,
		})
	}
	return out, nil
}

// isPromoRejection reports statuses the backend uses to refuse a code. Auth
// failures, timeouts and rate limits are service problems.
func isPromoRejection(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

func clientErrorMessage(err error) string {
	var se *statusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return "promo code is not valid"
}
