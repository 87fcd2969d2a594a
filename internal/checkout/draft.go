package checkout

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

var validate = validator.New()

// ShippingInput is the raw shipping form.
type ShippingInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type shippingFields struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Address string `validate:"required"`
	City    string `validate:"required"`
	Zip     string `validate:"required"`
}

// normalizeShipping sanitizes every field and checks the ones an order
// cannot ship without.
func normalizeShipping(in ShippingInput, maxLen int, defaultCountry string) (*types.ShippingAddress, error) {
	addr := &types.ShippingAddress{
		Name:    validators.SanitizeString(in.Name, maxLen),
		Email:   strings.ToLower(validators.SanitizeString(in.Email, maxLen)),
		Phone:   validators.SanitizeString(in.Phone, maxLen),
		Address: validators.SanitizeString(in.Address, maxLen),
		City:    validators.SanitizeString(in.City, maxLen),
		State:   validators.SanitizeString(in.State, maxLen),
		Zip:     validators.SanitizeString(in.Zip, maxLen),
		Country: validators.SanitizeString(in.Country, maxLen),
	}
	if addr.Country == "" {
		addr.Country = defaultCountry
	}

	err := validate.Struct(shippingFields{
		Name:    addr.Name,
		Email:   addr.Email,
		Address: addr.Address,
		City:    addr.City,
		Zip:     addr.Zip,
	})
	if err == nil {
		return addr, nil
	}
	details := map[string]string{}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			field := strings.ToLower(fe.Field())
			if fe.Tag() == "email" {
				details[field] = "must be a valid email"
			} else {
				details[field] = "is required"
			}
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping details").WithDetails(details)
}

func parsePaymentMethod(raw string) (enums.PaymentMethod, error) {
	method, err := enums.ParseSelectablePaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment method must be paypal or card").
			WithDetails(map[string]any{"payment_method": raw})
	}
	return method, nil
}
