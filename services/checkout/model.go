package checkout

import (
	"time"
)

type SessionStatus string

const (
	SessionStatusOpen       SessionStatus = "open"
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusConfirmed  SessionStatus = "confirmed"
)

// CheckoutForm holds everything the wizard collects. Fields arrive one at a
// time and are persisted on every change so that an interrupted checkout
// resumes where it left off.
type CheckoutForm struct {
	FullName      string `form:"fullName"`
	Phone         string `form:"phone"`
	Email         string `form:"email"`
	Address       string `form:"address"`
	City          string `form:"city"`
	State         string `form:"state"`
	ZipCode       string `form:"zipCode"`
	Instructions  string `form:"instructions"`
	PaymentMethod string `form:"paymentMethod"`
	CardNumber    string `form:"cardNumber"`
	ExpiryDate    string `form:"expiryDate"`
	CVV           string `form:"cvv"`
	CardName      string `form:"cardName"`
	SaveCard      bool   `form:"saveCard"`
	TermsAccepted bool   `form:"termsAccepted"`
}

func newCheckoutForm() CheckoutForm {
	return CheckoutForm{
		State:         "TX",
		PaymentMethod: "card",
		TermsAccepted: true,
	}
}

type FieldError struct {
	Field   string
	Message string
}

// CheckoutSession is keyed by the cart it checks out. It carries the wizard
// position, the form entered so far and the validation errors of the last
// rejected step transition.
type CheckoutSession struct {
	UID          string
	CreatedAt    time.Time
	LastModified *time.Time
	Status       SessionStatus
	Step         Step
	Form         CheckoutForm
	FieldErrors  []FieldError
}

func (s CheckoutSession) fieldError(field string) (string, bool) {
	for _, fe := range s.FieldErrors {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

func (s *CheckoutSession) clearFieldError(field string) {
	for i, fe := range s.FieldErrors {
		if fe.Field == field {
			s.FieldErrors = append(s.FieldErrors[:i], s.FieldErrors[i+1:]...)
			return
		}
	}
}
