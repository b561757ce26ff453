package payment

import (
	"context"
	"strings"
	"time"

	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/lib/myuuid"
)

// declineSuffix marks the magic test-card that is always refused, so that the
// failure branch can be exercised without a real provider.
const declineSuffix = "0002"

type simulatedGateway struct {
	processingDelay time.Duration
	nower           mytime.Nower
	uuider          myuuid.UUIDer
}

// NewSimulated returns a gateway that mimics a provider round trip: it waits
// for the configured processing delay and then approves the charge, unless
// the magic decline-card is used.
func NewSimulated(processingDelay time.Duration, nower mytime.Nower, uuider myuuid.UUIDer) Gateway {
	return &simulatedGateway{
		processingDelay: processingDelay,
		nower:           nower,
		uuider:          uuider,
	}
}

func (g *simulatedGateway) Name() string {
	return "simulated"
}

func (g *simulatedGateway) Charge(c context.Context, request ChargeRequest) (Receipt, error) {
	select {
	case <-time.After(g.processingDelay):
	case <-c.Done():
		return Receipt{}, c.Err()
	}

	if request.Method == "card" && strings.HasSuffix(strippedDigits(request.CardNumber), declineSuffix) {
		return Receipt{}, DeclinedError{Reason: "card refused by issuer"}
	}

	return Receipt{
		Reference:   "SIM-" + g.uuider.Create(),
		ProcessedAt: g.nower.Now(),
	}, nil
}

func strippedDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
