package coupons

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Rejection reasons are only used for metrics; shoppers always see one
// generic message.
const (
	ReasonUnknown   = "unknown_code"
	ReasonNotActive = "outside_window"
	ReasonExhausted = "exhausted"
)

// NormalizeCode trims and upper-cases a shopper-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindValid returns the first coupon whose code matches case-insensitively,
// whose inclusive date window contains today and which still has uses left.
// A nil result covers wrong, expired and exhausted codes alike.
func FindValid(code string, today time.Time, coupons []models.Coupon) *models.Coupon {
	want := NormalizeCode(code)
	if want == "" {
		return nil
	}
	for i := range coupons {
		c := coupons[i]
		if NormalizeCode(c.Code) != want {
			continue
		}
		if isActiveOn(c, today) && c.Uses < c.MaxUses {
			return &c
		}
	}
	return nil
}

// RejectionReason explains why FindValid returned nil for code.
func RejectionReason(code string, today time.Time, coupons []models.Coupon) string {
	want := NormalizeCode(code)
	reason := ReasonUnknown
	for _, c := range coupons {
		if NormalizeCode(c.Code) != want {
			continue
		}
		if !isActiveOn(c, today) {
			reason = ReasonNotActive
			continue
		}
		if c.Uses >= c.MaxUses {
			reason = ReasonExhausted
		}
	}
	return reason
}

func isActiveOn(c models.Coupon, today time.Time) bool {
	day := dateOnly(today)
	return !day.Before(dateOnly(c.ValidFrom)) && !day.After(dateOnly(c.ValidTo))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks a coupon record before it is written.
func Validate(c models.Coupon) error {
	if NormalizeCode(c.Code) == "" {
		return fmt.Errorf("coupon code is required")
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("coupon %s: invalid type %q", c.Code, c.Type)
	}
	if c.Value.IsNegative() {
		return fmt.Errorf("coupon %s: value must not be negative", c.Code)
	}
	if c.Type == enums.CouponTypePercent && c.Value.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("coupon %s: percent value must be at most 100", c.Code)
	}
	if c.MinCartValue.IsNegative() {
		return fmt.Errorf("coupon %s: min_cart_value must not be negative", c.Code)
	}
	if dateOnly(c.ValidTo).Before(dateOnly(c.ValidFrom)) {
		return fmt.Errorf("coupon %s: valid_to precedes valid_from", c.Code)
	}
	if c.Uses < 0 || c.MaxUses < 0 {
		return fmt.Errorf("coupon %s: usage counters must not be negative", c.Code)
	}
	return nil
}
