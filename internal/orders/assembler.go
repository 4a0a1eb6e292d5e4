package orders

import (
	"reflect"
	"strings"
	"time"

	"github.com/angelmondragon/foodcart-engine/internal/cart"
	"github.com/angelmondragon/foodcart-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Input is everything the cart does not know about the order.
type Input struct {
	DeliveryAddress DeliveryAddress     `json:"deliveryAddress"`
	CustomerInfo    CustomerInfo        `json:"customerInfo"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod" validate:"required"`
	Instructions    Instructions        `json:"instructions"`
}

// CartState is the cart projection an order is assembled from.
type CartState struct {
	Lines        []cart.Line
	PromoCode    string
	Totals       cart.Totals
	CutleryCount int
}

// BuildPayload assembles the order request. An empty cart or invalid input
// yields a validation error.
func BuildPayload(state CartState, input Input, now time.Time) (Payload, error) {
	if len(state.Lines) == 0 {
		return Payload{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := ValidateInput(input); err != nil {
		return Payload{}, err
	}

	lines := make([]PayloadLine, 0, len(state.Lines))
	for _, line := range state.Lines {
		lines = append(lines, PayloadLine{
			ItemID:            line.ItemID,
			Name:              line.Name,
			Quantity:          line.Quantity,
			UnitPriceSnapshot: line.UnitPriceSnapshot,
			SpecialRequest:    line.SpecialRequest,
		})
	}

	return Payload{
		ClientReference:     uuid.New(),
		Lines:               lines,
		PromoCode:           state.PromoCode,
		Totals:              state.Totals,
		CutleryCount:        state.CutleryCount,
		DeliveryAddress:     trimAddress(input.DeliveryAddress),
		CustomerInfo:        trimCustomer(input.CustomerInfo),
		PaymentMethod:       input.PaymentMethod,
		SpecialInstructions: strings.TrimSpace(input.Instructions.SpecialInstructions),
		AssembledAt:         now.UTC(),
	}, nil
}

// ValidateInput checks the address, customer and payment method.
func ValidateInput(input Input) error {
	details := map[string]string{}
	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range errs {
				details[fieldPath(fieldErr)] = validationMessage(fieldErr)
			}
		} else {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
		}
	}
	if input.PaymentMethod != "" && !input.PaymentMethod.IsValid() {
		details["paymentMethod"] = "must be one of cash, card, digital_wallet"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order details").WithDetails(details)
	}
	return nil
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email"
	case "gte", "lte":
		return "is out of range"
	}
	return "is invalid"
}

func trimAddress(a DeliveryAddress) DeliveryAddress {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	return a
}

func trimCustomer(c CustomerInfo) CustomerInfo {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	return c
}
