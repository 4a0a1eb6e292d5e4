package promo

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation is the promo service verdict for a code against an order value.
type Validation struct {
	IsValid  bool
	Discount decimal.Decimal
	Message  string
}

// Validator checks a code with the backend promo service. A returned error
// means the service could not be reached, not that the code is invalid.
type Validator interface {
	Validate(ctx context.Context, code string, orderValue decimal.Decimal) (Validation, error)
}

// ActiveCode is a promo advertised by the backend for display.
type ActiveCode struct {
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  string          `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
	ExpiresAt     *time.Time      `json:"expiresAt,omitempty"`
}

// Lister lists the currently active promo codes.
type Lister interface {
	ActiveCodes(ctx context.Context) ([]ActiveCode, error)
}

// Application is the accepted promo held by the cart.
type Application struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	AppliedAt      time.Time       `json:"appliedAt"`
}

// Normalize trims and upper-cases a promo code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Slot holds at most one active application. Not safe for concurrent use.
type Slot struct {
	active *Application
}

// Set replaces the active application.
func (s *Slot) Set(app Application) {
	s.active = &app
}

// Clear drops the active application, if any.
func (s *Slot) Clear() {
	s.active = nil
}

// Active returns the current application.
func (s *Slot) Active() (Application, bool) {
	if s.active == nil {
		return Application{}, false
	}
	return *s.active, true
}

// Code returns the active code or an empty string.
func (s *Slot) Code() string {
	if s.active == nil {
		return ""
	}
	return s.active.Code
}

// Amount returns the stored discount, unclamped. Totals apply the clamp.
func (s *Slot) Amount() decimal.Decimal {
	if s.active == nil {
		return decimal.Zero
	}
	return s.active.DiscountAmount
}
