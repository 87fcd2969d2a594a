package enums

import "fmt"

// PaymentMethod records how the shopper intends to pay.
type PaymentMethod string

const (
	PaymentMethodPending PaymentMethod = "pending"
	PaymentMethodPayPal  PaymentMethod = "paypal"
	PaymentMethodCard    PaymentMethod = "card"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPending,
	PaymentMethodPayPal,
	PaymentMethodCard,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// IsSelectable reports whether the method can be chosen during checkout.
// PaymentMethodPending only marks orders placed before a method was chosen.
func (p PaymentMethod) IsSelectable() bool {
	return p == PaymentMethodPayPal || p == PaymentMethodCard
}

// ParseSelectablePaymentMethod accepts only the methods offered at checkout.
func ParseSelectablePaymentMethod(value string) (PaymentMethod, error) {
	method, err := ParsePaymentMethod(value)
	if err != nil || !method.IsSelectable() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}
	return method, nil
}
