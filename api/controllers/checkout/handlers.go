package checkout

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const (
	cartPath  = "/api/v1/cart"
	homePath  = "/"
	orderPath = "/api/v1/orders/%s"
	stepPath  = "/api/v1/checkout?step=%d"
)

type stepResponse struct {
	NextStep int    `json:"next_step"`
	Next     string `json:"next"`
}

type paymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,max=32"`
}

// CheckoutView renders the requested step. An empty cart sends the shopper
// back to the cart.
func CheckoutView(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		step := checkoutsvc.ClampStep(r.URL.Query().Get("step"))
		view, err := svc.View(r.Context(), sessionID, step)
		if err != nil {
			writeCheckoutError(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CheckoutShipping(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		var payload checkoutsvc.ShippingInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next, err := svc.SaveShipping(r.Context(), sessionID, payload)
		if err != nil {
			writeCheckoutError(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, newStepResponse(next))
	}
}

func CheckoutPayment(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next, err := svc.SavePayment(r.Context(), sessionID, payload.PaymentMethod)
		if err != nil {
			writeCheckoutError(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, newStepResponse(next))
	}
}

// PlaceOrder converts the session cart into an order and points the client at
// the confirmation resource.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		placed, err := svc.PlaceOrder(r.Context(), sessionID, middleware.UserIDFromContext(r.Context()))
		if err != nil {
			writeCheckoutError(w, r, logg, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf(orderPath, placed.OrderID))
		responses.WriteSuccessStatus(w, http.StatusCreated, placed)
	}
}

// OrderConfirmation shows a placed order. Unknown ids redirect home.
func OrderConfirmation(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			http.Redirect(w, r, homePath, http.StatusSeeOther)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			http.Redirect(w, r, homePath, http.StatusSeeOther)
			return
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func newStepResponse(step checkoutsvc.Step) stepResponse {
	return stepResponse{NextStep: int(step), Next: fmt.Sprintf(stepPath, int(step))}
}

func requireSession(w http.ResponseWriter, r *http.Request, svc checkoutsvc.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
		return "", false
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
		return "", false
	}
	return sessionID, true
}

// writeCheckoutError sends shoppers with an empty cart back to the cart on
// every step; anything else is rendered as an error envelope.
func writeCheckoutError(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error) {
	if errors.Is(err, checkoutsvc.ErrEmptyCart) {
		http.Redirect(w, r, cartPath, http.StatusSeeOther)
		return
	}
	responses.WriteError(r.Context(), logg, w, err)
}
