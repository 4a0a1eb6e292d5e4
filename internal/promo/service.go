package promo

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service evaluates promo codes through the backend validator. It holds no
// cart state; callers apply the resulting Application themselves.
type Service struct {
	validator Validator
	lister    Lister
	now       func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLister enables ActiveCodes.
func WithLister(lister Lister) Option {
	return func(s *Service) {
		s.lister = lister
	}
}

// WithClock overrides the time source used for AppliedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a promo service around the provided validator.
func NewService(validator Validator, opts ...Option) (*Service, error) {
	if validator == nil {
		return nil, fmt.Errorf("promo validator required")
	}
	s := &Service{
		validator: validator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Evaluate validates code against subtotal and returns the application to
// store. The accepted discount is clamped to the subtotal.
func (s *Service) Evaluate(ctx context.Context, code string, subtotal decimal.Decimal) (Application, error) {
	normalized := Normalize(code)
	if normalized == "" {
		return Application{}, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo code is required")
	}
	if !subtotal.IsPositive() {
		return Application{}, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo codes require a non-empty cart").
			WithDetails(map[string]any{"code": normalized})
	}

	verdict, err := s.validator.Validate(ctx, normalized, subtotal)
	if err != nil {
		return Application{}, pkgerrors.Wrap(pkgerrors.CodePromoServiceUnavailable, err, "validate promo code")
	}
	if !verdict.IsValid {
		msg := verdict.Message
		if msg == "" {
			msg = "promo code is not valid"
		}
		return Application{}, pkgerrors.New(pkgerrors.CodeInvalidPromo, msg).
			WithDetails(map[string]any{"code": normalized})
	}
	if verdict.Discount.IsNegative() {
		return Application{}, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo service returned a negative discount").
			WithDetails(map[string]any{"code": normalized, "discount": verdict.Discount.String()})
	}

	return Application{
		Code:           normalized,
		DiscountAmount: decimal.Min(verdict.Discount, subtotal),
		AppliedAt:      s.now().UTC(),
	}, nil
}

// ActiveCodes lists the backend's active promos. Without a lister the list is
// empty.
func (s *Service) ActiveCodes(ctx context.Context) ([]ActiveCode, error) {
	if s.lister == nil {
		return []ActiveCode{}, nil
	}
	codes, err := s.lister.ActiveCodes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePromoServiceUnavailable, err, "list active promo codes")
	}
	if codes == nil {
		codes = []ActiveCode{}
	}
	return codes, nil
}
