package paymentmollie

import (
	"context"
	"fmt"

	"github.com/VictorAvelar/mollie-api-go/v3/mollie"

	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/services/payment"
)

// gateway implements payment.Gateway on top of a Mollie hosted payment: the
// shopper completes the payment on the URL in the receipt.
type gateway struct {
	client *mollie.Client
	nower  mytime.Nower
}

func NewGateway(apiKey string, nower mytime.Nower) (payment.Gateway, error) {
	config := mollie.NewAPITestingConfig(true)

	client, err := mollie.NewClient(nil, config)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error creating mollie client: %s", err))
	}
	err = client.WithAuthenticationValue(apiKey)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error authenticating mollie client: %s", err))
	}

	return &gateway{
		client: client,
		nower:  nower,
	}, nil
}

func (g *gateway) Name() string {
	return "mollie"
}

func (g *gateway) Charge(c context.Context, request payment.ChargeRequest) (payment.Receipt, error) {
	_, pay, err := g.client.Payments.Create(c, mollie.Payment{
		Description: request.Description,
		RedirectURL: request.ReturnURL,
		Amount: &mollie.Amount{
			Currency: request.Currency,
			Value:    centsToDecimal(request.AmountInCents),
		},
	}, nil)
	if err != nil {
		return payment.Receipt{}, myerrors.NewUnavailableError(fmt.Errorf("error creating mollie payment: %s", err))
	}

	receipt := payment.Receipt{
		Reference:   pay.ID,
		ProcessedAt: g.nower.Now(),
	}
	if pay.Links.Checkout != nil {
		receipt.RedirectURL = pay.Links.Checkout.Href
	}

	return receipt, nil
}

func centsToDecimal(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
