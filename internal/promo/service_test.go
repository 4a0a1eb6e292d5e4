package promo

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatorFunc func(ctx context.Context, code string, orderValue decimal.Decimal) (Validation, error)

func (fn validatorFunc) Validate(ctx context.Context, code string, orderValue decimal.Decimal) (Validation, error) {
	return fn(ctx, code, orderValue)
}

type listerFunc func(ctx context.Context) ([]ActiveCode, error)

func (fn listerFunc) ActiveCodes(ctx context.Context) ([]ActiveCode, error) {
	return fn(ctx)
}

func fixedDiscount(amount string) validatorFunc {
	return func(ctx context.Context, code string, orderValue decimal.Decimal) (Validation, error) {
		return Validation{IsValid: true, Discount: decimal.RequireFromString(amount)}, nil
	}
}

func TestNewServiceRequiresValidator(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil)
	require.Error(t, err)
}

func TestEvaluateAcceptsAndNormalizes(t *testing.T) {
	t.Parallel()

	appliedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var seenCode string
	var seenValue decimal.Decimal
	svc, err := NewService(validatorFunc(func(ctx context.Context, code string, orderValue decimal.Decimal) (Validation, error) {
		seenCode = code
		seenValue = orderValue
		return Validation{IsValid: true, Discount: decimal.NewFromInt(50)}, nil
	}), WithClock(func() time.Time { return appliedAt }))
	require.NoError(t, err)

	app, err := svc.Evaluate(context.Background(), "  save50 ", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "SAVE50", app.Code)
	assert.Equal(t, "SAVE50", seenCode)
	assert.True(t, seenValue.Equal(decimal.NewFromInt(100)))
	assert.True(t, app.DiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, appliedAt, app.AppliedAt)
}

func TestEvaluateClampsDiscountToSubtotal(t *testing.T) {
	t.Parallel()

	svc, err := NewService(fixedDiscount("80"))
	require.NoError(t, err)

	app, err := svc.Evaluate(context.Background(), "BIG", decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, app.DiscountAmount.Equal(decimal.NewFromInt(30)))
}

func TestEvaluateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		code      string
		subtotal  decimal.Decimal
		validator validatorFunc
		want      pkgerrors.Code
	}{
		{
			name:      "empty code",
			code:      "   ",
			subtotal:  decimal.NewFromInt(10),
			validator: fixedDiscount("1"),
			want:      pkgerrors.CodeInvalidPromo,
		},
		{
			name:      "empty cart",
			code:      "SAVE",
			subtotal:  decimal.Zero,
			validator: fixedDiscount("1"),
			want:      pkgerrors.CodeInvalidPromo,
		},
		{
			name:     "service says invalid",
			code:     "OLD",
			subtotal: decimal.NewFromInt(10),
			validator: func(ctx context.Context, code string, orderValue decimal.Decimal) (Validation, error) {
				return Validation{IsValid: false, Message: "expired"}, nil
			},
			want: pkgerrors.CodeInvalidPromo,
		},
		{
			name:      "negative discount",
			code:      "NEG",
			subtotal:  decimal.NewFromInt(10),
			validator: fixedDiscount("-3"),
			want:      pkgerrors.CodeInvalidPromo,
		},
		{
			name:     "service down",
			code:     "SAVE",
			subtotal: decimal.NewFromInt(10),
			validator: func(ctx context.Context, code string, orderValue decimal.Decimal) (Validation, error) {
				return Validation{}, errors.New("connection refused")
			},
			want: pkgerrors.CodePromoServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(tt.validator)
			require.NoError(t, err)

			_, err = svc.Evaluate(context.Background(), tt.code, tt.subtotal)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, tt.want), "got %v", err)
		})
	}
}

func TestEvaluateKeepsServiceMessage(t *testing.T) {
	t.Parallel()

	svc, err := NewService(validatorFunc(func(ctx context.Context, code string, orderValue decimal.Decimal) (Validation, error) {
		return Validation{Message: "minimum order not met"}, nil
	}))
	require.NoError(t, err)

	_, err = svc.Evaluate(context.Background(), "MIN", decimal.NewFromInt(5))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "minimum order not met", typed.Message())
}

func TestActiveCodes(t *testing.T) {
	t.Parallel()

	withoutLister, err := NewService(fixedDiscount("1"))
	require.NoError(t, err)
	codes, err := withoutLister.ActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, codes)

	withLister, err := NewService(fixedDiscount("1"), WithLister(listerFunc(func(ctx context.Context) ([]ActiveCode, error) {
		return []ActiveCode{{Code: "WELCOME10", DiscountValue: decimal.NewFromInt(10)}}, nil
	})))
	require.NoError(t, err)
	codes, err = withLister.ActiveCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "WELCOME10", codes[0].Code)

	failing, err := NewService(fixedDiscount("1"), WithLister(listerFunc(func(ctx context.Context) ([]ActiveCode, error) {
		return nil, errors.New("boom")
	})))
	require.NoError(t, err)
	_, err = failing.ActiveCodes(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodePromoServiceUnavailable))
}

func TestSlot(t *testing.T) {
	t.Parallel()

	var slot Slot
	_, ok := slot.Active()
	assert.False(t, ok)
	assert.Empty(t, slot.Code())
	assert.True(t, slot.Amount().IsZero())

	slot.Set(Application{Code: "SAVE50", DiscountAmount: decimal.NewFromInt(50)})
	app, ok := slot.Active()
	require.True(t, ok)
	assert.Equal(t, "SAVE50", app.Code)
	assert.True(t, slot.Amount().Equal(decimal.NewFromInt(50)))

	slot.Clear()
	_, ok = slot.Active()
	assert.False(t, ok)
}
