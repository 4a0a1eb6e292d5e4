package cart

import (
	"github.com/shopspring/decimal"
)

// Line is one aggregated cart row per item.
type Line struct {
	ItemID            string          `json:"itemId"`
	Name              string          `json:"name"`
	ImageURL          string          `json:"imageUrl,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `json:"unitPriceSnapshot"`
	SpecialRequest    string          `json:"specialRequest,omitempty"`
}

// LineTotal is the frozen unit price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPriceSnapshot.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are derived from the lines; they are never patched incrementally.
type Totals struct {
	TotalLineCount int             `json:"totalLineCount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals derives totals from scratch. The discount actually applied is
// clamped to [0, subtotal] so the total never drops below the delivery fee.
// An empty cart carries no delivery fee, so all of its totals are zero.
func ComputeTotals(lines []Line, discount, deliveryFee decimal.Decimal) Totals {
	totals := Totals{
		Subtotal:    decimal.Zero,
		DeliveryFee: decimal.Zero,
	}
	for _, line := range lines {
		totals.TotalLineCount += line.Quantity
		totals.Subtotal = totals.Subtotal.Add(line.LineTotal())
	}
	if totals.TotalLineCount > 0 {
		totals.DeliveryFee = deliveryFee
	}
	totals.Discount = EffectiveDiscount(discount, totals.Subtotal)
	totals.Total = totals.Subtotal.Sub(totals.Discount).Add(totals.DeliveryFee)
	return totals
}

// EffectiveDiscount clamps a stored promo amount against the current subtotal.
func EffectiveDiscount(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}
