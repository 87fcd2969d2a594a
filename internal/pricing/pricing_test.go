package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

func testRates() Rates {
	return Rates{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.RequireFromString("50"),
		StandardShipping:      decimal.RequireFromString("5"),
		ExpressShipping:       decimal.RequireFromString("15"),
	}
}

func catalogOf(prices ...string) ([]models.Product, map[uuid.UUID]models.Product) {
	list := make([]models.Product, 0, len(prices))
	byID := make(map[uuid.UUID]models.Product, len(prices))
	for _, price := range prices {
		p := models.Product{ID: uuid.New(), Price: decimal.RequireFromString(price), Stock: 100, Status: enums.ProductStatusActive}
		list = append(list, p)
		byID[p.ID] = p
	}
	return list, byID
}

func coupon(kind enums.CouponType, value, min string) *models.Coupon {
	return &models.Coupon{
		Code:         "CODE",
		Type:         kind,
		Value:        decimal.RequireFromString(value),
		MinCartValue: decimal.RequireFromString(min),
		MaxUses:      5,
	}
}

func TestTotalsAlwaysBalance(t *testing.T) {
	list, byID := catalogOf("9.99", "0.33", "17.50")
	coupons := []*models.Coupon{
		nil,
		coupon(enums.CouponTypePercent, "15", "0"),
		coupon(enums.CouponTypePercent, "33.3", "0"),
		coupon(enums.CouponTypeFixed, "7.77", "5"),
		coupon(enums.CouponTypeFreeShipping, "0", "0"),
	}
	for qty := 1; qty <= 7; qty++ {
		lines := []Line{
			{ProductID: list[0].ID, Quantity: qty},
			{ProductID: list[1].ID, Quantity: qty * 3},
			{ProductID: list[2].ID, Quantity: 1},
		}
		for _, c := range coupons {
			totals := Price(lines, byID, c, testRates())
			want := totals.Subtotal.Add(totals.Shipping).Add(totals.Tax).Sub(totals.Discount)
			if !totals.Total.Equal(want) {
				t.Fatalf("qty=%d coupon=%v: total %s != %s", qty, c, totals.Total, want)
			}
			wantTax := totals.Subtotal.Sub(totals.Discount).Mul(decimal.RequireFromString("0.08"))
			if !totals.Tax.Equal(wantTax) {
				t.Fatalf("tax %s != %s", totals.Tax, wantTax)
			}
			if totals.Discount.GreaterThan(totals.Subtotal) {
				t.Fatalf("discount %s exceeds subtotal %s", totals.Discount, totals.Subtotal)
			}
		}
	}
}

func TestRemovingCouponMatchesNoCoupon(t *testing.T) {
	list, byID := catalogOf("12.00")
	lines := []Line{{ProductID: list[0].ID, Quantity: 3}}
	without := Price(lines, byID, nil, testRates())
	with := Price(lines, byID, coupon(enums.CouponTypePercent, "20", "0"), testRates())
	if with.Total.Equal(without.Total) {
		t.Fatal("coupon should change the total")
	}
	again := Price(lines, byID, nil, testRates())
	if !again.Total.Equal(without.Total) || !again.Discount.IsZero() || again.CouponApplied {
		t.Fatalf("expected no-coupon totals, got %+v", again)
	}
}

func TestPercentDiscountScalesLinearly(t *testing.T) {
	list, byID := catalogOf("4.00")
	c := coupon(enums.CouponTypePercent, "10", "0")
	one := Price([]Line{{ProductID: list[0].ID, Quantity: 2}}, byID, c, testRates())
	two := Price([]Line{{ProductID: list[0].ID, Quantity: 4}}, byID, c, testRates())
	if !two.Discount.Equal(one.Discount.Mul(decimal.NewFromInt(2))) {
		t.Fatalf("discount %s should be double %s", two.Discount, one.Discount)
	}
}

func TestFixedDiscountClampedToSubtotal(t *testing.T) {
	list, byID := catalogOf("3.00")
	totals := Price([]Line{{ProductID: list[0].ID, Quantity: 1}}, byID, coupon(enums.CouponTypeFixed, "50", "0"), testRates())
	if !totals.Discount.Equal(totals.Subtotal) {
		t.Fatalf("expected discount clamped to %s, got %s", totals.Subtotal, totals.Discount)
	}
	if totals.Total.IsNegative() {
		t.Fatalf("total must not go negative: %s", totals.Total)
	}
}

func TestShippingIndependentOfNonShippingCoupons(t *testing.T) {
	list, byID := catalogOf("25.00")
	rates := testRates()
	cases := []struct {
		qty  int
		want string
	}{
		{1, "5.00"},
		{2, "0.00"},
		{3, "0.00"},
	}
	for _, tc := range cases {
		lines := []Line{{ProductID: list[0].ID, Quantity: tc.qty}}
		for _, c := range []*models.Coupon{nil, coupon(enums.CouponTypeFixed, "5", "0"), coupon(enums.CouponTypePercent, "50", "0")} {
			if got := Money(Price(lines, byID, c, rates).Shipping); got != tc.want {
				t.Fatalf("qty=%d: shipping %s, want %s", tc.qty, got, tc.want)
			}
		}
	}
}

func TestEmptyCartPricesToStandardShippingOnly(t *testing.T) {
	totals := Price(nil, nil, nil, testRates())
	if !totals.Subtotal.IsZero() || Money(totals.Total) != "5.00" {
		t.Fatalf("unexpected totals %+v", totals)
	}
	if totals.ItemCount() != 0 {
		t.Fatalf("expected no items")
	}
}

func TestPricedLinesKeepOrderAndUnitPrice(t *testing.T) {
	list, byID := catalogOf("1.50", "2.25")
	totals := Price([]Line{
		{ProductID: list[1].ID, Quantity: 2},
		{ProductID: uuid.New(), Quantity: 1},
		{ProductID: list[0].ID, Quantity: 4},
	}, byID, nil, testRates())

	if len(totals.Lines) != 2 {
		t.Fatalf("expected 2 priced lines, got %d", len(totals.Lines))
	}
	if totals.Lines[0].Product.ID != list[1].ID || Money(totals.Lines[0].LineTotal) != "4.50" {
		t.Fatalf("unexpected first line %+v", totals.Lines[0])
	}
	if totals.ItemCount() != 6 {
		t.Fatalf("expected 6 items, got %d", totals.ItemCount())
	}
	if len(totals.Warnings) != 1 || totals.Warnings[0].Type != enums.CartItemWarningTypeProductUnavailable {
		t.Fatalf("expected one unavailable warning, got %+v", totals.Warnings)
	}
}

func TestRatesFromConfig(t *testing.T) {
	rates := RatesFromConfig(config.PricingConfig{
		TaxRate:               decimal.RequireFromString("0.1"),
		FreeShippingThreshold: decimal.RequireFromString("75"),
		StandardShippingRate:  decimal.RequireFromString("6"),
		ExpressShippingRate:   decimal.RequireFromString("20"),
	})
	if Money(rates.StandardShipping) != "6.00" || Money(rates.ExpressShipping) != "20.00" {
		t.Fatalf("unexpected rates %+v", rates)
	}
	if !ShippingFor(decimal.RequireFromString("75"), rates).IsZero() {
		t.Fatal("threshold is inclusive")
	}
}
