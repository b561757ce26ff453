package cart

import (
	"context"

	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/services/cartevents"
	"github.com/chidotaco/tacoshop/services/checkoutevents"
)

func (s *service) OnCartUpdated(c context.Context, topic string, event cartevents.CartUpdated) error {
	s.logger.Log(c, event.CartUID, mylog.SeverityInfo, "Webhook: cart %s updated to %d items", event.CartUID, event.Count)

	err := s.countStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		if event.Count == 0 {
			err := s.countStore.Delete(c, event.CartUID)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
			return nil
		}

		err := s.countStore.Put(c, event.CartUID, Count{
			CartUID: event.CartUID,
			Count:   event.Count,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	return nil
}

// OnCheckoutCompleted drops the cart once an order has been placed for it.
// The checkout service already removes the cart synchronously, so this
// handler only acts as a safety net and must tolerate an absent cart.
func (s *service) OnCheckoutCompleted(c context.Context, topic string, event checkoutevents.CheckoutCompleted) error {
	s.logger.Log(c, event.CheckoutUID, mylog.SeverityInfo, "Webhook: checkout on cart %s completed with status %s", event.CheckoutUID, event.CheckoutStatus)

	if event.CheckoutStatus != checkoutevents.CheckoutStatusSuccess {
		return nil
	}

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		_, found, err := s.cartStore.Get(c, event.CheckoutUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return nil
		}

		err = s.cartStore.Delete(c, event.CheckoutUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}
