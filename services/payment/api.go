package payment

import (
	"context"
	"time"
)

// Gateway abstracts the payment-provider round trip that finalizes a checkout.
//
//go:generate mockgen -source=api.go -package payment -destination gateway_mock.go Gateway
type Gateway interface {
	Name() string
	Charge(c context.Context, request ChargeRequest) (Receipt, error)
}

type ChargeRequest struct {
	CheckoutUID    string
	OrderNumber    string
	AmountInCents  int64
	Currency       string
	Method         string // card | paypal | apple | google
	CardNumber     string
	ExpiryDate     string // MM/YY
	CVV            string
	CardholderName string
	Description    string
	ReturnURL      string
}

type Receipt struct {
	Reference   string
	ProcessedAt time.Time
	RedirectURL string // only set by hosted-checkout providers
}

// DeclinedError indicates the provider refused the charge. The checkout can
// be retried with the same form data.
type DeclinedError struct {
	Reason string
}

func (e DeclinedError) Error() string {
	return "payment declined: " + e.Reason
}
