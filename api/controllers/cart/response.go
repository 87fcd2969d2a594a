package cart

import (
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/coupons"
)

type countResponse struct {
	Count int `json:"count"`
}

type couponResponse struct {
	Coupon *coupons.AppliedCoupon `json:"coupon,omitempty"`
	Cart   *cartsvc.View          `json:"cart"`
}
