package cart

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=0,max=1000"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=1000"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}
