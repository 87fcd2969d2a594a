package checkout

import (
	"strconv"
	"strings"
)

//go:generate stringer -type=Step -trimprefix=Step

// Step is a position in the checkout wizard.
type Step int

const (
	StepReviewCart Step = iota + 1
	StepShipping
	StepPayment
	StepReviewOrder
)

// Steps lists the wizard in order.
var Steps = []Step{StepReviewCart, StepShipping, StepPayment, StepReviewOrder}

// ClampStep reads a step from a query value. Leading digits are honored the
// way form inputs usually arrive ("3", " 2 ", "4th"); anything else is the
// first step. The result is always within the wizard.
func ClampStep(raw string) Step {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return StepReviewCart
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		// out of int range
		if raw[0] == '-' {
			return StepReviewCart
		}
		return StepReviewOrder
	}
	return ClampStepInt(n)
}

// ClampStepInt bounds n to the wizard steps.
func ClampStepInt(n int) Step {
	if n < int(StepReviewCart) {
		return StepReviewCart
	}
	if n > int(StepReviewOrder) {
		return StepReviewOrder
	}
	return Step(n)
}
