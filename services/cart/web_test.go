package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/chidotaco/tacoshop/lib/myevents"
	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/lib/mypublisher"
	"github.com/chidotaco/tacoshop/lib/mypubsub"
	"github.com/chidotaco/tacoshop/lib/mystore"
	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/lib/myuuid"
	"github.com/chidotaco/tacoshop/services/cartevents"
	"github.com/chidotaco/tacoshop/services/checkoutevents"
)

var (
	cart1 = Cart{UID: "cart-123", CreatedAt: time.Now(), Items: []Item{
		{UID: "item-1", Name: "Carnitas taco", PriceInCents: 350, Quantity: 2},
		{UID: "item-2", Name: "Horchata", PriceInCents: 400, Quantity: 1},
	}}
)

func TestCartService(t *testing.T) {

	t.Run("Get cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, cartStore, _, _, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart1.UID, cart1)

		// when
		request, err := http.NewRequest(http.MethodGet, "/cart/cart-123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "\"SubTotalInCents\": 1100")
		assert.Contains(t, got, "\"ItemCount\": 3")
	})

	t.Run("Get cart not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/cart/unknown", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Add item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, cartStore, _, nower, _, publisher := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartUpdated{
			CartUID:    "cart-456",
			Count:      2,
			ProductUID: "item-9",
			Quantity:   2,
		}).Return(nil)

		// when
		form := url.Values{}
		form.Set("uid", "item-9")
		form.Set("name", "Al pastor taco")
		form.Set("priceInCents", "375")
		form.Set("quantity", "2")
		request, err := http.NewRequest(http.MethodPost, "/cart/cart-456/item", strings.NewReader(form.Encode()))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		crt, exists, _ := cartStore.Get(ctx, "cart-456")
		assert.True(t, exists)
		assert.Equal(t, int64(750), crt.SubTotalInCents())
		assert.Equal(t, mytime.ExampleTime, crt.CreatedAt)
	})

	t.Run("Add item with invalid quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _, _ := setup(t, ctrl)

		// when
		form := url.Values{}
		form.Set("name", "Al pastor taco")
		form.Set("priceInCents", "375")
		form.Set("quantity", "0")
		request, err := http.NewRequest(http.MethodPost, "/cart/cart-456/item", strings.NewReader(form.Encode()))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Adjust quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, cartStore, _, nower, _, publisher := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart1.UID, cart1)
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartUpdated{
			CartUID:    "cart-123",
			Count:      4,
			ProductUID: "item-1",
			Quantity:   3,
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPut, "/cart/cart-123/item/item-1/quantity/3", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		crt, _, _ := cartStore.Get(ctx, "cart-123")
		assert.Equal(t, 3, crt.Items[0].Quantity)
	})

	t.Run("Remove item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, cartStore, _, nower, _, publisher := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart1.UID, cart1)
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartUpdated{
			CartUID:    "cart-123",
			Count:      1,
			ProductUID: "item-1",
			Quantity:   0,
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodDelete, "/cart/cart-123/item/item-1", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		crt, _, _ := cartStore.Get(ctx, "cart-123")
		assert.Len(t, crt.Items, 1)
		assert.Equal(t, "item-2", crt.Items[0].UID)
	})

	t.Run("Apply promo code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, cartStore, _, nower, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart1.UID, cart1)
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		form := url.Values{}
		form.Set("code", "taco10")
		request, err := http.NewRequest(http.MethodPost, "/cart/cart-123/promo", strings.NewReader(form.Encode()))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "\"DiscountInCents\": 110")
		crt, _, _ := cartStore.Get(ctx, "cart-123")
		assert.Equal(t, "TACO10", crt.PromoCode)
	})

	t.Run("Apply unknown promo code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, cartStore, _, _, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart1.UID, cart1)

		// when
		form := url.Values{}
		form.Set("code", "BOGUS")
		request, err := http.NewRequest(http.MethodPost, "/cart/cart-123/promo", strings.NewReader(form.Encode()))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Handle cart updated event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, _, countStore, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/cart/event", strings.NewReader(createCartPubsubMessage(
			cartevents.CartUpdated{
				CartUID: "cart-123",
				Count:   3,
			})))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		count, exists, _ := countStore.Get(ctx, "cart-123")
		assert.True(t, exists)
		assert.Equal(t, 3, count.Count)
	})

	t.Run("Handle cart emptied event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, _, countStore, _, _, _ := setup(t, ctrl)

		// given
		countStore.Put(ctx, "cart-123", Count{CartUID: "cart-123", Count: 3})

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/cart/event", strings.NewReader(createCartPubsubMessage(
			cartevents.CartUpdated{
				CartUID: "cart-123",
				Count:   0,
			})))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		_, exists, _ := countStore.Get(ctx, "cart-123")
		assert.False(t, exists)
	})

	t.Run("Handle checkout completed event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, cartStore, _, _, _, _ := setup(t, ctrl)

		// given
		cartStore.Put(ctx, cart1.UID, cart1)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/cart/checkout/event", strings.NewReader(createCheckoutPubsubMessage(
			checkoutevents.CheckoutCompleted{
				CheckoutUID:    "cart-123",
				OrderNumber:    "CHT-ABC123",
				PaymentMethod:  "card",
				CheckoutStatus: checkoutevents.CheckoutStatusSuccess,
			})))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		_, exists, _ := cartStore.Get(ctx, "cart-123")
		assert.False(t, exists)

		// again, must be idempotent
		request, err = http.NewRequest(http.MethodPost, "/api/cart/checkout/event", strings.NewReader(createCheckoutPubsubMessage(
			checkoutevents.CheckoutCompleted{
				CheckoutUID:    "cart-123",
				OrderNumber:    "CHT-ABC123",
				PaymentMethod:  "card",
				CheckoutStatus: checkoutevents.CheckoutStatusSuccess,
			})))
		assert.NoError(t, err)
		response = httptest.NewRecorder()
		router.ServeHTTP(response, request)
		assert.Equal(t, 200, response.Code)
	})
}

func createCartPubsubMessage(event cartevents.CartUpdated) string {
	eventBytes, _ := json.Marshal(event)
	envelope := myevents.EventEnvelope{
		UID:           "123",
		CreatedAt:     mytime.ExampleTime,
		Topic:         cartevents.TopicName,
		AggregateUID:  event.CartUID,
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	}
	envelopeBytes, _ := json.Marshal(envelope)

	req := myevents.PushRequest{
		Message: myevents.PushMessage{
			Data: envelopeBytes,
		},
		Subscription: cartevents.TopicName,
	}

	reqBytes, _ := json.Marshal(req)

	return string(reqBytes)
}

func createCheckoutPubsubMessage(event checkoutevents.CheckoutCompleted) string {
	eventBytes, _ := json.Marshal(event)
	envelope := myevents.EventEnvelope{
		UID:           "456",
		CreatedAt:     mytime.ExampleTime,
		Topic:         checkoutevents.TopicName,
		AggregateUID:  event.CheckoutUID,
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	}
	envelopeBytes, _ := json.Marshal(envelope)

	req := myevents.PushRequest{
		Message: myevents.PushMessage{
			Data: envelopeBytes,
		},
		Subscription: checkoutevents.TopicName,
	}

	reqBytes, _ := json.Marshal(req)

	return string(reqBytes)
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[Cart], mystore.Store[Count], *mytime.MockNower, *myuuid.MockUUIDer, *mypublisher.MockPublisher) {
	c := context.TODO()
	cartStore, _, _ := mystore.New[Cart](c)
	countStore, _, _ := mystore.New[Count](c)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	subscriber := mypubsub.NewMockPubSub(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)
	logger := mylog.New("cart")

	sut := NewService(cartStore, countStore, publisher, subscriber, nower, uuider, logger)
	router := mux.NewRouter()

	// These are called by the following call to RegisterEndpoints()
	publisher.EXPECT().CreateTopic(c, cartevents.TopicName).Return(nil)
	subscriber.EXPECT().Subscribe(c, cartevents.TopicName, "http://localhost:8080/api/cart/event").Return(nil)
	subscriber.EXPECT().Subscribe(c, checkoutevents.TopicName, "http://localhost:8080/api/cart/checkout/event").Return(nil)

	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, cartStore, countStore, nower, uuider, publisher
}
