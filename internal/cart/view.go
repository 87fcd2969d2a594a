package cart

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// View is the cart as returned to shoppers. Amounts are rendered with two
// decimals.
type View struct {
	Lines      []LineView    `json:"lines"`
	ItemCount  int           `json:"item_count"`
	CouponCode string        `json:"coupon_code,omitempty"`
	Totals     TotalsView    `json:"totals"`
	Warnings   []WarningView `json:"warnings"`
}

type LineView struct {
	ProductID uuid.UUID           `json:"product_id"`
	Slug      string              `json:"slug"`
	Title     string              `json:"title"`
	ImageURL  string              `json:"image_url,omitempty"`
	Status    enums.ProductStatus `json:"status"`
	Stock     int                 `json:"stock"`
	Quantity  int                 `json:"quantity"`
	UnitPrice string              `json:"unit_price"`
	Subtotal  string              `json:"subtotal"`
}

type TotalsView struct {
	Subtotal              string `json:"subtotal"`
	Shipping              string `json:"shipping"`
	Discount              string `json:"discount"`
	Tax                   string `json:"tax"`
	Total                 string `json:"total"`
	CouponApplied         bool   `json:"coupon_applied"`
	FreeShippingThreshold string `json:"free_shipping_threshold"`
	ExpressShipping       string `json:"express_shipping"`
}

type WarningView struct {
	ProductID uuid.UUID                 `json:"product_id"`
	Type      enums.CartItemWarningType `json:"type"`
}

// IsEmpty reports whether no line could be priced.
func (v *View) IsEmpty() bool {
	return v == nil || len(v.Lines) == 0
}

// NewView renders a quote for the shopper. The coupon code is only echoed
// while it still resolves to a valid coupon.
func NewView(state session.State, quote *Quote, rates pricing.Rates) *View {
	totals := quote.Totals
	view := &View{
		Lines:     make([]LineView, 0, len(totals.Lines)),
		ItemCount: state.ItemCount(),
		Totals:    NewTotalsView(totals, rates),
		Warnings:  make([]WarningView, 0, len(totals.Warnings)),
	}
	if quote.Coupon != nil {
		view.CouponCode = quote.Coupon.Code
	}
	for _, line := range totals.Lines {
		view.Lines = append(view.Lines, LineView{
			ProductID: line.Product.ID,
			Slug:      line.Product.Slug,
			Title:     line.Product.Title,
			ImageURL:  line.Product.ImageURL,
			Status:    line.Product.Status,
			Stock:     line.Product.Stock,
			Quantity:  line.Quantity,
			UnitPrice: pricing.Money(line.UnitPrice),
			Subtotal:  pricing.Money(line.LineTotal),
		})
	}
	for _, w := range totals.Warnings {
		view.Warnings = append(view.Warnings, WarningView{ProductID: w.ProductID, Type: w.Type})
	}
	return view
}

func NewTotalsView(totals pricing.Totals, rates pricing.Rates) TotalsView {
	return TotalsView{
		Subtotal:              pricing.Money(totals.Subtotal),
		Shipping:              pricing.Money(totals.Shipping),
		Discount:              pricing.Money(totals.Discount),
		Tax:                   pricing.Money(totals.Tax),
		Total:                 pricing.Money(totals.Total),
		CouponApplied:         totals.CouponApplied,
		FreeShippingThreshold: pricing.Money(rates.FreeShippingThreshold),
		ExpressShipping:       pricing.Money(rates.ExpressShipping),
	}
}
