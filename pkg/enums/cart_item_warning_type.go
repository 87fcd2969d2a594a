package enums

import "fmt"

// CartItemWarningType enumerates warnings attached to priced cart lines.
type CartItemWarningType string

const (
	CartItemWarningTypeProductUnavailable   CartItemWarningType = "product_unavailable"
	CartItemWarningTypeQuantityExceedsStock CartItemWarningType = "quantity_exceeds_stock"
)

var validCartItemWarningTypes = []CartItemWarningType{
	CartItemWarningTypeProductUnavailable,
	CartItemWarningTypeQuantityExceedsStock,
}

// String implements fmt.Stringer.
func (c CartItemWarningType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartItemWarningType.
func (c CartItemWarningType) IsValid() bool {
	for _, candidate := range validCartItemWarningTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartItemWarningType converts raw input into a CartItemWarningType.
func ParseCartItemWarningType(value string) (CartItemWarningType, error) {
	for _, candidate := range validCartItemWarningTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart item warning type %q", value)
}
