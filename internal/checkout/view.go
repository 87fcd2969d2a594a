package checkout

import (
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// View is one rendered checkout step.
type View struct {
	Step           int                   `json:"step"`
	StepName       string                `json:"step_name"`
	Steps          []StepView            `json:"steps"`
	Cart           *cart.View            `json:"cart"`
	Draft          DraftView             `json:"draft"`
	PaymentMethods []enums.PaymentMethod `json:"payment_methods"`
}

// StepView describes the progress indicator entry for a step.
type StepView struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Completed bool   `json:"completed"`
}

type DraftView struct {
	Shipping      *types.ShippingAddress `json:"shipping,omitempty"`
	PaymentMethod enums.PaymentMethod    `json:"payment_method,omitempty"`
}

func newView(step Step, state session.State, quote *cart.Quote, rates pricing.Rates) *View {
	view := &View{
		Step:     int(step),
		StepName: step.String(),
		Steps:    make([]StepView, 0, len(Steps)),
		Cart:     cart.NewView(state, quote, rates),
		Draft: DraftView{
			Shipping:      state.Draft.Shipping,
			PaymentMethod: state.Draft.PaymentMethod,
		},
		PaymentMethods: []enums.PaymentMethod{enums.PaymentMethodPayPal, enums.PaymentMethodCard},
	}
	for _, s := range Steps {
		view.Steps = append(view.Steps, StepView{
			Number:    int(s),
			Name:      s.String(),
			Active:    step >= s,
			Completed: step > s,
		})
	}
	return view
}
