package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chidotaco/tacoshop/lib/mycontext"
	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/myhttp"
	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/lib/mypublisher"
	"github.com/chidotaco/tacoshop/lib/mystore"
	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/lib/myuuid"
	"github.com/chidotaco/tacoshop/services/cart"
	"github.com/chidotaco/tacoshop/services/orders"
	"github.com/chidotaco/tacoshop/services/payment"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(sessionStore mystore.Store[CheckoutSession], cartStore mystore.Store[cart.Cart], orderStore mystore.Store[orders.Order], gateway payment.Gateway, publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *webService {
	return &webService{
		service: newService(sessionStore, cartStore, orderStore, gateway, publisher, nower, uuider, logger),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/checkout/{cartUID}", s.enterCheckoutPage()).Methods("GET")
	router.HandleFunc("/checkout/{cartUID}/field/{field}", s.updateFieldPage()).Methods("PUT")
	router.HandleFunc("/checkout/{cartUID}/step/next", s.nextStepPage()).Methods("PUT")
	router.HandleFunc("/checkout/{cartUID}/step/previous", s.previousStepPage()).Methods("PUT")
	router.HandleFunc("/checkout/{cartUID}/step/{step}", s.gotoStepPage()).Methods("PUT")
	router.HandleFunc("/checkout/{cartUID}/confirm", s.confirmOrderPage()).Methods("POST")

	err := s.service.Subscribe(c)
	if err != nil {
		return fmt.Errorf("error subscribing checkout service: %s", err)
	}

	return nil
}

// CheckoutView combines the session with the order summary shown next to
// the wizard.
type CheckoutView struct {
	Session            CheckoutSession
	SubTotalInCents    int64
	DeliveryFeeInCents int64
	TaxInCents         int64
	TotalInCents       int64
}

func newCheckoutView(session CheckoutSession, crt cart.Cart) CheckoutView {
	subTotal := crt.SubTotalInCents()
	return CheckoutView{
		Session:            session,
		SubTotalInCents:    subTotal,
		DeliveryFeeInCents: deliveryFeeInCents,
		TaxInCents:         taxInCents(subTotal),
		TotalInCents:       totalInCents(crt),
	}
}

// ConfirmationView is returned once, when the order is placed.
type ConfirmationView struct {
	Session CheckoutSession
	Order   orders.Order
}

func (s *webService) enterCheckoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		session, crt, err := s.service.enterCheckout(c, cartUID)
		if err != nil {
			if errors.Is(err, errCartEmpty) {
				// Nothing to check out, back to the cart
				http.Redirect(w, r, fmt.Sprintf("%s/cart/%s", myhttp.HostnameWithScheme(r), cartUID), http.StatusSeeOther)
				return
			}
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCheckoutView(session, crt))
	}
}

func (s *webService) updateFieldPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]
		field := mux.Vars(r)["field"]

		err := r.ParseForm()
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		session, err := s.service.updateField(c, cartUID, field, r.Form.Get("value"))
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) nextStepPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		session, err := s.service.nextStep(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) previousStepPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		session, err := s.service.previousStep(c, cartUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) gotoStepPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]
		stepName := mux.Vars(r)["step"]

		step, ok := StepFromName(stepName)
		if !ok {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("unknown step %q", stepName)))
			return
		}

		session, err := s.service.gotoStep(c, cartUID, step)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) confirmOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cartUID := mux.Vars(r)["cartUID"]

		session, order, err := s.service.confirmOrder(c, cartUID)
		if err != nil {
			if errors.Is(err, errCartEmpty) {
				http.Redirect(w, r, fmt.Sprintf("%s/cart/%s", myhttp.HostnameWithScheme(r), cartUID), http.StatusSeeOther)
				return
			}
			declined := payment.DeclinedError{}
			if errors.As(err, &declined) {
				responseWriter.WriteError(c, w, 2, err)
				return
			}
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, ConfirmationView{
			Session: session,
			Order:   order,
		})
	}
}
