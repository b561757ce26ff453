package cart

import (
	"context"
	"fmt"

	"github.com/chidotaco/tacoshop/lib/myhttp"
	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/lib/mypublisher"
	"github.com/chidotaco/tacoshop/lib/mypubsub"
	"github.com/chidotaco/tacoshop/lib/mystore"
	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/lib/myuuid"
	"github.com/chidotaco/tacoshop/services/cartevents"
	"github.com/chidotaco/tacoshop/services/checkoutevents"
)

type service struct {
	cartStore  mystore.Store[Cart]
	countStore mystore.Store[Count]
	publisher  mypublisher.Publisher
	subscriber mypubsub.PubSub
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

func newService(cartStore mystore.Store[Cart], countStore mystore.Store[Count], publisher mypublisher.Publisher, subscriber mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		cartStore:  cartStore,
		countStore: countStore,
		publisher:  publisher,
		subscriber: subscriber,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
	}
}

// Subscribe creates the topic this service publishes on and registers the
// push subscriptions for the events it wants to observe.
func (s *service) Subscribe(c context.Context) error {
	err := s.publisher.CreateTopic(c, cartevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", cartevents.TopicName, err)
	}

	err = s.subscriber.Subscribe(c, cartevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/cart/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", cartevents.TopicName, err)
	}

	err = s.subscriber.Subscribe(c, checkoutevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/cart/checkout/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}
