// Package pricing computes order totals. All amounts are rounded to whole
// currency units with halves rounded away from zero; fractional currency is
// never retained on an order. This is a business rule, not a precision
// compromise.
package pricing

import (
	"fmt"
	"math"
)

// TaxRate is the VAT rate applied to every order subtotal.
const TaxRate = 0.16

// LineItem is one (unit price, quantity) pair of an order.
type LineItem struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the computed pricing breakdown for an order.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"tax_amount"`
	TotalAmount float64 `json:"total_amount"`
}

// RoundHalfUp rounds v to the nearest whole unit, with exact halves rounded
// away from zero. Note this is not math.RoundToEven: 0.5 rounds to 1.
func RoundHalfUp(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v + 0.5)
	}
	return math.Floor(v + 0.5)
}

// Compute derives the totals for an order from its line items and shipping
// cost:
//
//	subtotal = round(sum(unit_price * quantity))
//	tax      = round(subtotal * 0.16)
//	total    = round(subtotal + tax + shipping)
//
// Compute is a pure function: recomputing from the same inputs always yields
// the same totals, so an order can be re-priced on every save without
// accumulating error.
func Compute(items []LineItem, shippingCost float64) (Totals, error) {
	if shippingCost < 0 {
		return Totals{}, fmt.Errorf("shipping cost must not be negative, got %.2f", shippingCost)
	}

	var sum float64
	for i, item := range items {
		if item.UnitPrice < 0 {
			return Totals{}, fmt.Errorf("item %d: unit price must not be negative, got %.2f", i, item.UnitPrice)
		}
		if item.Quantity < 1 {
			return Totals{}, fmt.Errorf("item %d: quantity must be at least 1, got %d", i, item.Quantity)
		}
		sum += item.UnitPrice * float64(item.Quantity)
	}

	subtotal := RoundHalfUp(sum)
	tax := RoundHalfUp(subtotal * TaxRate)
	total := RoundHalfUp(subtotal + tax + shippingCost)

	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: total,
	}, nil
}
