// Package pricing turns cart lines into order totals. Everything here is pure:
// callers resolve products and coupons first and pass them in.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// Rates are the flat store-wide pricing knobs.
type Rates struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	StandardShipping      decimal.Decimal
	ExpressShipping       decimal.Decimal
}

func RatesFromConfig(cfg config.PricingConfig) Rates {
	return Rates{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		StandardShipping:      cfg.StandardShippingRate,
		ExpressShipping:       cfg.ExpressShippingRate,
	}
}

// Line is a requested product quantity.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// PricedLine is a line whose product resolved, priced at the live unit price.
type PricedLine struct {
	Product   models.Product
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Warning struct {
	ProductID uuid.UUID
	Type      enums.CartItemWarningType
}

// Totals is the full price breakdown for a cart.
// Total == Subtotal + Shipping + Tax - Discount always holds.
type Totals struct {
	Lines         []PricedLine
	Subtotal      decimal.Decimal
	Shipping      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	CouponApplied bool
	Warnings      []Warning
}

// Price computes Totals for lines. Lines whose product is missing from
// products are left out of every amount and reported as warnings.
// The coupon, when non-nil, is assumed already validated for date and usage.
func Price(lines []Line, products map[uuid.UUID]models.Product, coupon *models.Coupon, rates Rates) Totals {
	totals := Totals{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
	}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			totals.Warnings = append(totals.Warnings, Warning{
				ProductID: line.ProductID,
				Type:      enums.CartItemWarningTypeProductUnavailable,
			})
			continue
		}
		if line.Quantity > product.Stock {
			totals.Warnings = append(totals.Warnings, Warning{
				ProductID: line.ProductID,
				Type:      enums.CartItemWarningTypeQuantityExceedsStock,
			})
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		totals.Lines = append(totals.Lines, PricedLine{
			Product:   product,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
		totals.Subtotal = totals.Subtotal.Add(lineTotal)
	}

	totals.Shipping = ShippingFor(totals.Subtotal, rates)

	if coupon != nil && totals.Subtotal.GreaterThanOrEqual(coupon.MinCartValue) {
		totals.CouponApplied = true
		switch coupon.Type {
		case enums.CouponTypePercent:
			totals.Discount = decimal.Min(totals.Subtotal.Mul(coupon.Value).Div(hundred), totals.Subtotal)
		case enums.CouponTypeFixed:
			totals.Discount = decimal.Min(coupon.Value, totals.Subtotal)
		case enums.CouponTypeFreeShipping:
			totals.Shipping = decimal.Zero
		default:
			totals.CouponApplied = false
		}
	}

	totals.Tax = totals.Subtotal.Sub(totals.Discount).Mul(rates.TaxRate)
	totals.Total = totals.Subtotal.Add(totals.Shipping).Add(totals.Tax).Sub(totals.Discount)
	return totals
}

// ShippingFor returns the standard rate, or zero once subtotal reaches the
// free-shipping threshold.
func ShippingFor(subtotal decimal.Decimal, rates Rates) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(rates.FreeShippingThreshold) {
		return decimal.Zero
	}
	return rates.StandardShipping
}

// ItemCount sums quantities over the priced lines.
func (t Totals) ItemCount() int {
	n := 0
	for _, line := range t.Lines {
		n += line.Quantity
	}
	return n
}

// Money renders an amount for presentation. Amounts are kept exact until here.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
