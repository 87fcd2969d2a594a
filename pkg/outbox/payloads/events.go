package payloads

import (
	"time"

	"github.com/google/uuid"
)

// OrderPlacedEvent is published once an order commits. Money fields are
// decimal strings with two places.
type OrderPlacedEvent struct {
	OrderID       uuid.UUID         `json:"order_id"`
	UserID        string            `json:"user_id"`
	Items         []OrderPlacedItem `json:"items"`
	Subtotal      string            `json:"subtotal"`
	Shipping      string            `json:"shipping"`
	Discount      string            `json:"discount"`
	Tax           string            `json:"tax"`
	Total         string            `json:"total"`
	CouponCode    string            `json:"coupon_code,omitempty"`
	PaymentMethod string            `json:"payment_method"`
	Email         string            `json:"email,omitempty"`
	PlacedAt      time.Time         `json:"placed_at"`
}

type OrderPlacedItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
}

// CouponRedeemedEvent reports a coupon use counted against its cap.
type CouponRedeemedEvent struct {
	CouponID uuid.UUID `json:"coupon_id"`
	Code     string    `json:"code"`
	OrderID  uuid.UUID `json:"order_id"`
	Uses     int       `json:"uses"`
	MaxUses  int       `json:"max_uses"`
}
