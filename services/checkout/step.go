package checkout

import (
	"fmt"
)

// Step identifies the position in the checkout wizard. Confirmed is
// terminal: a confirmed session accepts no further transitions.
type Step int

const (
	StepDelivery Step = iota + 1
	StepPayment
	StepReview
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// StepFromName resolves a step by its wire name. Confirmed is not
// addressable, it can only be reached through order confirmation.
func StepFromName(name string) (Step, bool) {
	switch name {
	case "delivery":
		return StepDelivery, true
	case "payment":
		return StepPayment, true
	case "review":
		return StepReview, true
	default:
		return 0, false
	}
}

func (s Step) next() (Step, bool) {
	switch s {
	case StepDelivery:
		return StepPayment, true
	case StepPayment:
		return StepReview, true
	default:
		return s, false
	}
}

func (s Step) previous() (Step, bool) {
	switch s {
	case StepPayment:
		return StepDelivery, true
	case StepReview:
		return StepPayment, true
	default:
		return s, false
	}
}

// canJumpTo reports whether direct navigation to the step is allowed.
// Any wizard step can be reached directly, the terminal step cannot.
func (s Step) canJumpTo(target Step) bool {
	if s == StepConfirmed {
		return false
	}
	return target >= StepDelivery && target <= StepReview
}
