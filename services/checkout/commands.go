package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chidotaco/tacoshop/lib/myerrors"
	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/services/cart"
	"github.com/chidotaco/tacoshop/services/cartevents"
	"github.com/chidotaco/tacoshop/services/checkoutevents"
	"github.com/chidotaco/tacoshop/services/orders"
	"github.com/chidotaco/tacoshop/services/payment"
)

// errCartEmpty signals that checkout cannot start because there is nothing
// to check out. The web layer turns this into a redirect back to the cart.
var errCartEmpty = errors.New("cart is empty")

func (s *service) loadCart(c context.Context, cartUID string) (cart.Cart, error) {
	crt, found, err := s.cartStore.Get(c, cartUID)
	if err != nil {
		return cart.Cart{}, myerrors.NewInternalError(err)
	}
	if !found || crt.IsEmpty() {
		return cart.Cart{}, errCartEmpty
	}
	return crt, nil
}

// enterCheckout resumes an existing checkout session for the cart or starts
// a fresh one. A fresh session opens on the payment step: the delivery step
// is presented inline on the cart page before the wizard is entered.
func (s *service) enterCheckout(c context.Context, cartUID string) (CheckoutSession, cart.Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Enter checkout for cart %s", cartUID)

	crt, err := s.loadCart(c, cartUID)
	if err != nil {
		return CheckoutSession{}, cart.Cart{}, err
	}

	var session CheckoutSession
	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		session, found, err = s.sessionStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if found {
			return nil
		}

		session = CheckoutSession{
			UID:       cartUID,
			CreatedAt: s.nower.Now(),
			Status:    SessionStatusOpen,
			Step:      StepPayment,
			Form:      newCheckoutForm(),
		}

		err = s.sessionStore.Put(c, cartUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			CheckoutUID:   cartUID,
			ProviderName:  s.gateway.Name(),
			AmountInCents: totalInCents(crt),
			Currency:      currency,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return CheckoutSession{}, cart.Cart{}, err
	}

	return session, crt, nil
}

func (s *service) getSession(c context.Context, cartUID string) (CheckoutSession, error) {
	session, found, err := s.sessionStore.Get(c, cartUID)
	if err != nil {
		return CheckoutSession{}, myerrors.NewInternalError(err)
	}
	if !found {
		return CheckoutSession{}, myerrors.NewNotFoundError(fmt.Errorf("checkout session for cart %s not found", cartUID))
	}
	return session, nil
}

func (s *service) openSession(c context.Context, cartUID string) (CheckoutSession, error) {
	session, err := s.getSession(c, cartUID)
	if err != nil {
		return CheckoutSession{}, err
	}
	if session.Status != SessionStatusOpen {
		return CheckoutSession{}, myerrors.NewConflictError(fmt.Errorf("checkout session for cart %s is %s", cartUID, session.Status))
	}
	return session, nil
}

// updateField formats and stores a single form field. Input that the
// field's mask rejects is dropped and the stored value stays untouched.
// A stale validation error on the field is cleared as soon as the user
// edits it again.
func (s *service) updateField(c context.Context, cartUID string, field string, value string) (CheckoutSession, error) {
	s.logger.Log(c, cartUID, mylog.SeverityDebug, "Update field %s of checkout session for cart %s", field, cartUID)

	var session CheckoutSession
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.openSession(c, cartUID)
		if err != nil {
			return err
		}

		formatted, ok := FormatField(field, value)
		if !ok {
			return nil
		}

		err = setFormField(&session.Form, field, formatted)
		if err != nil {
			return err
		}

		session.clearFieldError(field)
		now := s.nower.Now()
		session.LastModified = &now

		err = s.sessionStore.Put(c, cartUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return CheckoutSession{}, err
	}

	return session, nil
}

// nextStep advances the wizard by one step. The current step must validate
// first: on failure the session keeps its step and records the field errors
// so that a reloaded page can show them again.
func (s *service) nextStep(c context.Context, cartUID string) (CheckoutSession, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Advance checkout for cart %s to next step", cartUID)

	var session CheckoutSession
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.openSession(c, cartUID)
		if err != nil {
			return err
		}

		now := s.nower.Now()

		fieldErrors := validateStep(session.Step, session.Form)
		if len(fieldErrors) > 0 {
			session.FieldErrors = fieldErrors
			session.LastModified = &now
			return s.sessionStore.Put(c, cartUID, session)
		}

		next, ok := session.Step.next()
		if !ok {
			return myerrors.NewInvalidInputError(fmt.Errorf("no step after %s", session.Step))
		}

		session.Step = next
		session.FieldErrors = nil
		session.LastModified = &now

		err = s.sessionStore.Put(c, cartUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return CheckoutSession{}, err
	}

	return session, nil
}

func (s *service) previousStep(c context.Context, cartUID string) (CheckoutSession, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Move checkout for cart %s to previous step", cartUID)

	var session CheckoutSession
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.openSession(c, cartUID)
		if err != nil {
			return err
		}

		previous, ok := session.Step.previous()
		if !ok {
			return myerrors.NewInvalidInputError(fmt.Errorf("no step before %s", session.Step))
		}

		now := s.nower.Now()
		session.Step = previous
		session.LastModified = &now

		err = s.sessionStore.Put(c, cartUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return CheckoutSession{}, err
	}

	return session, nil
}

// gotoStep jumps straight to a wizard step without validating, mirroring
// the progress indicator that lets the user revisit any earlier step.
func (s *service) gotoStep(c context.Context, cartUID string, target Step) (CheckoutSession, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Move checkout for cart %s to step %s", cartUID, target)

	var session CheckoutSession
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.openSession(c, cartUID)
		if err != nil {
			return err
		}

		if !session.Step.canJumpTo(target) {
			return myerrors.NewInvalidInputError(fmt.Errorf("cannot move from step %s to step %s", session.Step, target))
		}

		now := s.nower.Now()
		session.Step = target
		session.LastModified = &now

		err = s.sessionStore.Put(c, cartUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return CheckoutSession{}, err
	}

	return session, nil
}

// confirmOrder finalizes the checkout: it charges the payment, writes the
// order and clears the cart and the session. The session is marked as
// processing before the charge so that a double submit cannot pay twice.
func (s *service) confirmOrder(c context.Context, cartUID string) (CheckoutSession, orders.Order, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Confirm order for cart %s", cartUID)

	crt, err := s.loadCart(c, cartUID)
	if err != nil {
		return CheckoutSession{}, orders.Order{}, err
	}

	var session CheckoutSession
	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		session, err = s.openSession(c, cartUID)
		if err != nil {
			return err
		}

		if session.Step != StepReview {
			return myerrors.NewInvalidInputError(fmt.Errorf("order can only be confirmed from the review step, not from %s", session.Step))
		}

		if !session.Form.TermsAccepted {
			return myerrors.NewInvalidInputError(fmt.Errorf("terms of service must be accepted before confirming the order"))
		}

		now := s.nower.Now()
		session.Status = SessionStatusProcessing
		session.LastModified = &now

		err = s.sessionStore.Put(c, cartUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return CheckoutSession{}, orders.Order{}, err
	}

	orderNumber := newOrderNumber(s.uuider.Create())
	subTotal := crt.SubTotalInCents()
	total := totalInCents(crt)

	// The charge happens outside the transaction: it can take seconds and
	// must not keep the session store locked.
	receipt, err := s.gateway.Charge(c, payment.ChargeRequest{
		CheckoutUID:    cartUID,
		OrderNumber:    orderNumber,
		AmountInCents:  total,
		Currency:       currency,
		Method:         session.Form.PaymentMethod,
		CardNumber:     session.Form.CardNumber,
		ExpiryDate:     session.Form.ExpiryDate,
		CVV:            session.Form.CVV,
		CardholderName: session.Form.CardName,
		Description:    fmt.Sprintf("Taco order %s", orderNumber),
	})
	if err != nil {
		reopenErr := s.reopenSession(c, cartUID)
		if reopenErr != nil {
			return CheckoutSession{}, orders.Order{}, reopenErr
		}

		declined := payment.DeclinedError{}
		if errors.As(err, &declined) {
			return CheckoutSession{}, orders.Order{}, myerrors.NewInvalidInputError(err)
		}
		return CheckoutSession{}, orders.Order{}, myerrors.NewUnavailableError(err)
	}

	now := s.nower.Now()
	order := orders.Order{
		OrderNumber:   orderNumber,
		CartUID:       cartUID,
		CreatedAt:     now,
		CustomerName:  session.Form.FullName,
		CustomerPhone: session.Form.Phone,
		CustomerEmail: session.Form.Email,
		DeliveryAddress: orders.Address{
			Street:       session.Form.Address,
			City:         session.Form.City,
			State:        session.Form.State,
			ZipCode:      session.Form.ZipCode,
			Instructions: session.Form.Instructions,
		},
		Items:              orderItems(crt),
		SubTotalInCents:    subTotal,
		DeliveryFeeInCents: deliveryFeeInCents,
		TaxInCents:         taxInCents(subTotal),
		TotalInCents:       total,
		PaymentMethod:      session.Form.PaymentMethod,
		PaymentReference:   receipt.Reference,
		EstimatedDelivery:  orders.EstimatedDelivery,
	}

	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		err := s.orderStore.Put(c, orderNumber, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.cartStore.Delete(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.sessionStore.Delete(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartUpdated{
			CartUID: cartUID,
			Count:   0,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID:    cartUID,
			OrderNumber:    orderNumber,
			ProviderName:   s.gateway.Name(),
			PaymentMethod:  session.Form.PaymentMethod,
			CheckoutStatus: checkoutevents.CheckoutStatusSuccess,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return CheckoutSession{}, orders.Order{}, err
	}

	session.Status = SessionStatusConfirmed
	session.Step = StepConfirmed
	session.LastModified = &now

	return session, order, nil
}

// reopenSession puts a session that failed to charge back in the open
// state so that the user can retry with other payment details.
func (s *service) reopenSession(c context.Context, cartUID string) error {
	return s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		session, found, err := s.sessionStore.Get(c, cartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("checkout session for cart %s not found", cartUID))
		}

		now := s.nower.Now()
		session.Status = SessionStatusOpen
		session.LastModified = &now

		err = s.sessionStore.Put(c, cartUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}

func totalInCents(crt cart.Cart) int64 {
	subTotal := crt.SubTotalInCents()
	return subTotal + deliveryFeeInCents + taxInCents(subTotal)
}

func orderItems(crt cart.Cart) []orders.OrderItem {
	items := make([]orders.OrderItem, 0, len(crt.Items))
	for _, item := range crt.Items {
		items = append(items, orders.OrderItem{
			UID:            item.UID,
			Name:           item.Name,
			PriceInCents:   item.PriceInCents,
			Quantity:       item.Quantity,
			Customizations: item.Customizations,
		})
	}
	return items
}

func newOrderNumber(uid string) string {
	compact := strings.ToUpper(strings.ReplaceAll(uid, "-", ""))
	if len(compact) > 9 {
		compact = compact[:9]
	}
	return "CHT-" + compact
}

func setFormField(form *CheckoutForm, field string, value string) error {
	switch field {
	case "fullName":
		form.FullName = value
	case "phone":
		form.Phone = value
	case "email":
		form.Email = value
	case "address":
		form.Address = value
	case "city":
		form.City = value
	case "state":
		form.State = value
	case "zipCode":
		form.ZipCode = value
	case "instructions":
		form.Instructions = value
	case "paymentMethod":
		form.PaymentMethod = value
	case "cardNumber":
		form.CardNumber = value
	case "expiryDate":
		form.ExpiryDate = value
	case "cvv":
		form.CVV = value
	case "cardName":
		form.CardName = value
	case "saveCard":
		saveCard, err := strconv.ParseBool(value)
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("invalid value %q for field saveCard", value))
		}
		form.SaveCard = saveCard
	case "termsAccepted":
		accepted, err := strconv.ParseBool(value)
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("invalid value %q for field termsAccepted", value))
		}
		form.TermsAccepted = accepted
	default:
		return myerrors.NewInvalidInputError(fmt.Errorf("unknown form field %q", field))
	}
	return nil
}
