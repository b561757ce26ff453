package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/chidotaco/tacoshop/lib/mylog"
	"github.com/chidotaco/tacoshop/lib/mypublisher"
	"github.com/chidotaco/tacoshop/lib/mypubsub"
	"github.com/chidotaco/tacoshop/lib/myqueue"
	"github.com/chidotaco/tacoshop/lib/mystore"
	"github.com/chidotaco/tacoshop/lib/mytime"
	"github.com/chidotaco/tacoshop/lib/myuuid"
	"github.com/chidotaco/tacoshop/services/cart"
	"github.com/chidotaco/tacoshop/services/checkout"
	"github.com/chidotaco/tacoshop/services/orders"
	"github.com/chidotaco/tacoshop/services/payment"
	"github.com/chidotaco/tacoshop/services/paymentadyen"
	"github.com/chidotaco/tacoshop/services/paymentmollie"
	"github.com/chidotaco/tacoshop/services/paymentstripe"
)

func main() {
	c := context.Background()

	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file found, relying on the environment")
	}

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	router := mux.NewRouter()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	cartStore, cartStoreCleanup, err := mystore.New[cart.Cart](c)
	if err != nil {
		log.Fatalf("Error creating cart store: %s", err)
	}
	defer cartStoreCleanup()

	countStore, countStoreCleanup, err := mystore.New[cart.Count](c)
	if err != nil {
		log.Fatalf("Error creating cart-count store: %s", err)
	}
	defer countStoreCleanup()

	sessionStore, sessionStoreCleanup, err := mystore.New[checkout.CheckoutSession](c)
	if err != nil {
		log.Fatalf("Error creating checkout-session store: %s", err)
	}
	defer sessionStoreCleanup()

	orderStore, orderStoreCleanup, err := mystore.New[orders.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()

	gateway, err := newGateway(nower, uuider)
	if err != nil {
		log.Fatalf("Error creating payment gateway: %s", err)
	}

	cartService := cart.NewService(cartStore, countStore, publisher, pubsub, nower, uuider, mylog.New("cart"))
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart service: %s", err)
	}

	orderService := orders.NewService(orderStore, mylog.New("orders"))
	orderService.RegisterEndpoints(c, router)

	checkoutService := checkout.NewService(sessionStore, cartStore, orderStore, gateway, publisher, nower, uuider, mylog.New("checkout"))
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering checkout service: %s", err)
	}

	startWebServerBlocking(router)
}

// newGateway selects the payment provider. The simulated gateway is the
// default so that the shop works out of the box without provider accounts.
func newGateway(nower mytime.Nower, uuider myuuid.UUIDer) (payment.Gateway, error) {
	switch os.Getenv("PAYMENT_PROVIDER") {
	case "", "simulated":
		return payment.NewSimulated(2*time.Second, nower, uuider), nil
	case "stripe":
		return paymentstripe.NewGateway(os.Getenv("STRIPE_API_KEY"), nower), nil
	case "mollie":
		return paymentmollie.NewGateway(os.Getenv("MOLLIE_API_KEY"), nower)
	case "adyen":
		return paymentadyen.NewGateway(os.Getenv("ADYEN_ENVIRONMENT"), os.Getenv("ADYEN_API_KEY"), os.Getenv("ADYEN_MERCHANT_ACCOUNT"), nower), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", os.Getenv("PAYMENT_PROVIDER"))
	}
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
