package enums

import "fmt"

// StockBadge labels a product card with its availability.
type StockBadge string

const (
	StockBadgeNone       StockBadge = ""
	StockBadgeLowStock   StockBadge = "low_stock"
	StockBadgeOutOfStock StockBadge = "out_of_stock"
	StockBadgeComingSoon StockBadge = "coming_soon"
)

var validStockBadges = []StockBadge{
	StockBadgeNone,
	StockBadgeLowStock,
	StockBadgeOutOfStock,
	StockBadgeComingSoon,
}

// String implements fmt.Stringer.
func (s StockBadge) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockBadge.
func (s StockBadge) IsValid() bool {
	for _, candidate := range validStockBadges {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockBadge converts raw input into a StockBadge.
func ParseStockBadge(value string) (StockBadge, error) {
	for _, candidate := range validStockBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock badge %q", value)
}
