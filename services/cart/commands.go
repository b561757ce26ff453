package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/services/cartevents"
)

func (s *service) listCarts(c context.Context) ([]Cart, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all carts")

	carts, err := s.cartStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(carts, func(i, j int) bool {
		return carts[i].CreatedAt.After(carts[j].CreatedAt)
	})
	return carts, nil
}

func (s *service) getCart(c context.Context, cartUID string) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Fetch details of cart uid %s", cartUID)

	crt, found, err := s.cartStore.Get(c, cartUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Cart{}, myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
	}

	return crt, nil
}

func (s *service) getCartCount(c context.Context, cartUID string) (int, error) {
	count, found, err := s.countStore.Get(c, cartUID)
	if err != nil {
		return 0, myerrors.NewInternalError(err)
	}
	if !found {
		return 0, nil
	}
	return count.Count, nil
}

func (s *service) addItem(c context.Context, cartUID string, item Item) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Add %dx %s to cart %s", item.Quantity, item.Name, cartUID)

	if item.Quantity <= 0 {
		return Cart{}, myerrors.NewInvalidInputError(fmt.Errorf("quantity must be positive"))
	}
	if item.PriceInCents < 0 {
		return Cart{}, myerrors.NewInvalidInputError(fmt.Errorf("price must not be negative"))
	}

	now := s.nower.Now()
	if item.UID == "" {
		item.UID = s.uuider.Create()
	}

	var crt Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		crt, found, err = s.cartStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			crt = Cart{
				UID:       cartUID,
				CreatedAt: now,
			}
		}

		crt.Items = append(crt.Items, item)
		crt.LastModified = &now

		err = s.cartStore.Put(c, cartUID, crt)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartUpdated{
			CartUID:    cartUID,
			Count:      crt.ItemCount(),
			ProductUID: item.UID,
			Quantity:   item.Quantity,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return crt, nil
}

func (s *service) adjustQuantity(c context.Context, cartUID string, itemUID string, quantity int) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Set quantity of item %s in cart %s to %d", itemUID, cartUID, quantity)

	if quantity < 0 {
		return Cart{}, myerrors.NewInvalidInputError(fmt.Errorf("quantity must not be negative"))
	}

	now := s.nower.Now()

	var crt Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		crt, found, err = s.cartStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
		}

		idx := -1
		for i, item := range crt.Items {
			if item.UID == itemUID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return myerrors.NewNotFoundError(fmt.Errorf("item with uid %s not found in cart %s", itemUID, cartUID))
		}

		if quantity == 0 {
			crt.Items = append(crt.Items[:idx], crt.Items[idx+1:]...)
		} else {
			crt.Items[idx].Quantity = quantity
		}
		crt.LastModified = &now

		err = s.cartStore.Put(c, cartUID, crt)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartUpdated{
			CartUID:    cartUID,
			Count:      crt.ItemCount(),
			ProductUID: itemUID,
			Quantity:   quantity,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return crt, nil
}

func (s *service) removeItem(c context.Context, cartUID string, itemUID string) (Cart, error) {
	return s.adjustQuantity(c, cartUID, itemUID, 0)
}

func (s *service) applyPromoCode(c context.Context, cartUID string, code string) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Apply promo code %s to cart %s", code, cartUID)

	promo, found := LookupPromo(code)
	if !found {
		return Cart{}, myerrors.NewInvalidInputError(fmt.Errorf("promo code %s is not valid", code))
	}

	now := s.nower.Now()

	var crt Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var exists bool
		var err error
		crt, exists, err = s.cartStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !exists {
			return myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
		}

		crt.PromoCode = promo.Code
		crt.LastModified = &now

		err = s.cartStore.Put(c, cartUID, crt)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return crt, nil
}

func (s *service) removePromoCode(c context.Context, cartUID string) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Remove promo code from cart %s", cartUID)

	now := s.nower.Now()

	var crt Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		crt, found, err = s.cartStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("cart with uid %s not found", cartUID))
		}

		crt.PromoCode = ""
		crt.LastModified = &now

		err = s.cartStore.Put(c, cartUID, crt)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return crt, nil
}
