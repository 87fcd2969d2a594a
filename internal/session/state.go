package session

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// CartLine is one product in the shopper's cart. Quantity is always positive;
// lines reaching zero are removed.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Draft holds checkout input collected before the order is placed.
type Draft struct {
	Shipping      *types.ShippingAddress `json:"shipping,omitempty"`
	PaymentMethod enums.PaymentMethod    `json:"payment_method,omitempty"`
}

// State is everything the storefront remembers about one anonymous or
// signed-in shopper between requests.
type State struct {
	Cart       []CartLine `json:"cart"`
	CouponCode string     `json:"coupon_code,omitempty"`
	Draft      Draft      `json:"draft"`
}

// Line returns the cart line for productID.
func (s *State) Line(productID uuid.UUID) (CartLine, bool) {
	for _, line := range s.Cart {
		if line.ProductID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}

// SetQuantity replaces the quantity of productID, appending a new line when
// absent. Quantities below one remove the line.
func (s *State) SetQuantity(productID uuid.UUID, qty int) {
	for i := range s.Cart {
		if s.Cart[i].ProductID != productID {
			continue
		}
		if qty < 1 {
			s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
			return
		}
		s.Cart[i].Quantity = qty
		return
	}
	if qty >= 1 {
		s.Cart = append(s.Cart, CartLine{ProductID: productID, Quantity: qty})
	}
}

// RemoveLine drops productID from the cart if present.
func (s *State) RemoveLine(productID uuid.UUID) {
	s.SetQuantity(productID, 0)
}

// ItemCount is the total quantity across all lines.
func (s *State) ItemCount() int {
	total := 0
	for _, line := range s.Cart {
		total += line.Quantity
	}
	return total
}

func (s *State) CartEmpty() bool {
	return len(s.Cart) == 0
}

// ResetCheckout clears the cart, coupon and draft after an order is placed.
func (s *State) ResetCheckout() {
	s.Cart = nil
	s.CouponCode = ""
	s.Draft = Draft{}
}
