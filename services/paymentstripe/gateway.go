package paymentstripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/services/payment"
)

// gateway implements payment.Gateway on top of a hosted Stripe checkout
// session: the shopper completes the payment on the URL in the receipt.
type gateway struct {
	nower mytime.Nower
}

func NewGateway(apiKey string, nower mytime.Nower) payment.Gateway {
	stripe.Key = apiKey
	return &gateway{
		nower: nower,
	}
}

func (g *gateway) Name() string {
	return "stripe"
}

func (g *gateway) Charge(c context.Context, request payment.ChargeRequest) (payment.Receipt, error) {
	params := stripe.CheckoutSessionParams{
		ClientReferenceID: stripe.String(request.CheckoutUID),
		SuccessURL:        stripe.String(request.ReturnURL),
		CancelURL:         stripe.String(request.ReturnURL),
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(request.Currency)),
					UnitAmount: stripe.Int64(request.AmountInCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(request.Description),
					},
				},
			},
		},
	}

	sess, err := session.New(&params)
	if err != nil {
		return payment.Receipt{}, myerrors.NewUnavailableError(fmt.Errorf("error creating stripe session: %s", err))
	}

	return payment.Receipt{
		Reference:   sess.ID,
		ProcessedAt: g.nower.Now(),
		RedirectURL: sess.URL,
	}, nil
}
