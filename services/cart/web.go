package cart

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/chidotaco/tacoshop/lib/mycontext"
	"github.com/chidotaco/tacoshop/lib/myerrors"
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

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(cartStore mystore.Store[Cart], countStore mystore.Store[Count], publisher mypublisher.Publisher, subscriber mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *webService {
	return &webService{
		service: newService(cartStore, countStore, publisher, subscriber, nower, uuider, logger),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/cart", s.cartListPage()).Methods("GET")
	router.HandleFunc("/cart/{cartUID}", s.cartDetailsPage()).Methods("GET")
	router.HandleFunc("/cart/{cartUID}/count", s.cartCountPage()).Methods("GET")
	router.HandleFunc("/cart/{cartUID}/item", s.addItemPage()).Methods("POST")
	router.HandleFunc("/cart/{cartUID}/item/{itemUID}/quantity/{quantity}", s.adjustQuantityPage()).Methods("PUT")
	router.HandleFunc("/cart/{cartUID}/item/{itemUID}", s.removeItemPage()).Methods("DELETE")
	router.HandleFunc("/cart/{cartUID}/promo", s.applyPromoCodePage()).Methods("POST")
	router.HandleFunc("/cart/{cartUID}/promo", s.removePromoCodePage()).Methods("DELETE")

	// Receives the events that this service subscribed to
	router.HandleFunc("/api/cart/event", s.cartEventCallback()).Methods("POST")
	router.HandleFunc("/api/cart/checkout/event", s.checkoutEventCallback()).Methods("POST")

	err := s.service.Subscribe(c)
	if err != nil {
		return fmt.Errorf("error subscribing cart service: %s", err)
	}

	return nil
}

// CartView is the wire representation of a cart with its derived totals.
type CartView struct {
	Cart             Cart
	ItemCount        int
	SubTotalInCents  int64
	DiscountInCents  int64
	FreeDelivery     bool
	PromoDescription string `json:",omitempty"`
}

func newCartView(crt Cart) CartView {
	view := CartView{
		Cart:            crt,
		ItemCount:       crt.ItemCount(),
		SubTotalInCents: crt.SubTotalInCents(),
		DiscountInCents: crt.DiscountInCents(),
		FreeDelivery:    crt.WaivesDeliveryFee(),
	}
	if promo, found := LookupPromo(crt.PromoCode); found {
		view.PromoDescription = promo.Description
	}
	return view
}

type itemForm struct {
	UID            string   `form:"uid"`
	Name           string   `form:"name"`
	PriceInCents   int64    `form:"priceInCents"`
	Quantity       int      `form:"quantity"`
	ImageURL       string   `form:"imageUrl"`
	Customizations []string `form:"customizations"`
}

func itemFromRequest(r *http.Request) (Item, error) {
	err := r.ParseForm()
	if err != nil {
		return Item{}, myerrors.NewInvalidInputError(err)
	}
	form := itemForm{}
	err = formcodec.NewDecoder().Decode(&form, r.Form)
	if err != nil {
		return Item{}, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}
	return Item{
		UID:            form.UID,
		Name:           form.Name,
		PriceInCents:   form.PriceInCents,
		Quantity:       form.Quantity,
		ImageURL:       form.ImageURL,
		Customizations: form.Customizations,
	}, nil
}

func (s *webService) cartListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		carts, err := s.service.listCarts(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, carts)
	}
}

func (s *webService) cartDetailsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		crt, err := s.service.getCart(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartView(crt))
	}
}

func (s *webService) cartCountPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		count, err := s.service.getCartCount(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, Count{
			CartUID: cartUID,
			Count:   count,
		})
	}
}

func (s *webService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		item, err := itemFromRequest(r)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		crt, err := s.service.addItem(c, cartUID, item)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartView(crt))
	}
}

func (s *webService) adjustQuantityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]
		itemUID := mux.Vars(r)["itemUID"]
		quantity, err := strconv.Atoi(mux.Vars(r)["quantity"])
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("invalid quantity: %s", err)))
			return
		}

		crt, err := s.service.adjustQuantity(c, cartUID, itemUID, quantity)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartView(crt))
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]
		itemUID := mux.Vars(r)["itemUID"]

		crt, err := s.service.removeItem(c, cartUID, itemUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartView(crt))
	}
}

func (s *webService) applyPromoCodePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		err := r.ParseForm()
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		crt, err := s.service.applyPromoCode(c, cartUID, r.Form.Get("code"))
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartView(crt))
	}
}

func (s *webService) removePromoCodePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		crt, err := s.service.removePromoCode(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartView(crt))
	}
}

func (s *webService) cartEventCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		err := cartevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.EmptyResponse{})
	}
}

func (s *webService) checkoutEventCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.EmptyResponse{})
	}
}
