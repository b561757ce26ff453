package orders

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chidotaco/tacoshop/lib/mycontext"
	"github.com/chidotaco/tacoshop/lib/myhttp"
	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/lib/mystore"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

func NewService(orderStore mystore.Store[Order], logger mylog.Logger) *webService {
	return &webService{
		service: newService(orderStore, logger),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/order", s.orderListPage()).Methods("GET")
	router.HandleFunc("/order/{orderNumber}", s.orderDetailsPage()).Methods("GET")
}

func (s *webService) orderListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		ords, err := s.service.listOrders(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, ords)
	}
}

func (s *webService) orderDetailsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		orderNumber := mux.Vars(r)["orderNumber"]

		ord, err := s.service.getOrder(c, orderNumber)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, ord)
	}
}
