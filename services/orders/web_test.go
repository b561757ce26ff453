package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/lib/mystore"
	"github.com/chidotaco/tacoshop/lib/mytime"
)

var (
	order1 = Order{
		OrderNumber:        "CHT-ABC123",
		CartUID:            "cart-123",
		CreatedAt:          mytime.ExampleTime,
		CustomerName:       "Maria Lopez",
		CustomerPhone:      "(512) 555-0182",
		SubTotalInCents:    1100,
		DeliveryFeeInCents: 299,
		TaxInCents:         91,
		TotalInCents:       1490,
		PaymentMethod:      "card",
		EstimatedDelivery:  EstimatedDelivery,
	}
)

func TestOrderService(t *testing.T) {

	t.Run("List orders", func(t *testing.T) {
		// setup
		ctx, router, orderStore := setup(t)

		// given
		orderStore.Put(ctx, order1.OrderNumber, order1)

		// when
		request, err := http.NewRequest(http.MethodGet, "/order", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "CHT-ABC123")
	})

	t.Run("Get order", func(t *testing.T) {
		// setup
		ctx, router, orderStore := setup(t)

		// given
		orderStore.Put(ctx, order1.OrderNumber, order1)

		// when
		request, err := http.NewRequest(http.MethodGet, "/order/CHT-ABC123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "\"TotalInCents\": 1490")
		assert.Contains(t, got, "25-35 minutes")
	})

	t.Run("Get order not exists", func(t *testing.T) {
		// setup
		_, router, _ := setup(t)

		// when
		request, err := http.NewRequest(http.MethodGet, "/order/CHT-NOPE", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})
}

func setup(t *testing.T) (context.Context, *mux.Router, mystore.Store[Order]) {
	c := context.TODO()
	orderStore, _, _ := mystore.New[Order](c)
	logger := mylog.New("orders")

	sut := NewService(orderStore, logger)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, router, orderStore
}
