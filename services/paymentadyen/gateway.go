package paymentadyen

import (
	"context"
	"fmt"
	"strings"

	"github.com/adyen/adyen-go-api-library/v6/src/adyen"
	"github.com/adyen/adyen-go-api-library/v6/src/checkout"
	"github.com/adyen/adyen-go-api-library/v6/src/common"

	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/services/payment"
)

// gateway implements payment.Gateway on top of an Adyen checkout session.
type gateway struct {
	client          *adyen.APIClient
	merchantAccount string
	nower           mytime.Nower
}

func NewGateway(environment string, apiKey string, merchantAccount string, nower mytime.Nower) payment.Gateway {
	return &gateway{
		client: adyen.NewClient(&common.Config{
			ApiKey:      apiKey,
			Environment: common.Environment(strings.ToUpper(environment)),
			Debug:       false,
		}),
		merchantAccount: merchantAccount,
		nower:           nower,
	}
}

func (g *gateway) Name() string {
	return "adyen"
}

func (g *gateway) Charge(c context.Context, request payment.ChargeRequest) (payment.Receipt, error) {
	resp, _, err := g.client.Checkout.Sessions(&checkout.CreateCheckoutSessionRequest{
		MerchantAccount: g.merchantAccount,
		Reference:       request.OrderNumber,
		ReturnUrl:       request.ReturnURL,
		Channel:         "Web",
		Amount: checkout.Amount{
			Currency: request.Currency,
			Value:    request.AmountInCents,
		},
	}, c)
	if err != nil {
		return payment.Receipt{}, myerrors.NewUnavailableError(fmt.Errorf("error creating adyen session: %s", err))
	}

	return payment.Receipt{
		Reference:   resp.Id,
		ProcessedAt: g.nower.Now(),
	}, nil
}
