package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/lib/mystore"
)

type service struct {
	orderStore mystore.Store[Order]
	logger     mylog.Logger
}

func newService(orderStore mystore.Store[Order], logger mylog.Logger) *service {
	return &service{
		orderStore: orderStore,
		logger:     logger,
	}
}

func (s *service) listOrders(c context.Context) ([]Order, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all orders")

	ords, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(ords, func(i, j int) bool {
		return ords[i].CreatedAt.After(ords[j].CreatedAt)
	})
	return ords, nil
}

func (s *service) getOrder(c context.Context, orderNumber string) (Order, error) {
	s.logger.Log(c, orderNumber, mylog.SeverityInfo, "Fetch details of order %s", orderNumber)

	ord, found, err := s.orderStore.Get(c, orderNumber)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order %s not found", orderNumber))
	}

	return ord, nil
}
