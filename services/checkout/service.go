package checkout

import (
	"context"
	"fmt"

	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/lib/mypublisher"
	"github.com/chidotaco/tacoshop/lib/mystore"
	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/lib/myuuid"
	"github.com/chidotaco/tacoshop/services/cart"
	"github.com/chidotaco/tacoshop/services/checkoutevents"
	"github.com/chidotaco/tacoshop/services/orders"
	"github.com/chidotaco/tacoshop/services/payment"
)

// Order totals. Tax applies to the sub-total only and is rounded half up.
const (
	deliveryFeeInCents = 299
	taxRateBasisPoints = 825
	currency           = "USD"
)

func taxInCents(subTotalInCents int64) int64 {
	return (subTotalInCents*taxRateBasisPoints + 5000) / 10000
}

type service struct {
	sessionStore mystore.Store[CheckoutSession]
	cartStore    mystore.Store[cart.Cart]
	orderStore   mystore.Store[orders.Order]
	gateway      payment.Gateway
	publisher    mypublisher.Publisher
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(sessionStore mystore.Store[CheckoutSession], cartStore mystore.Store[cart.Cart], orderStore mystore.Store[orders.Order], gateway payment.Gateway, publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		sessionStore: sessionStore,
		cartStore:    cartStore,
		orderStore:   orderStore,
		gateway:      gateway,
		publisher:    publisher,
		nower:        nower,
		uuider:       uuider,
		logger:       logger,
	}
}

func (s *service) Subscribe(c context.Context) error {
	err := s.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}
