package orders

import (
	"time"
)

// EstimatedDelivery is the pickup window communicated on the confirmation
// page. The kitchen does not yet feed real preparation times back.
const EstimatedDelivery = "25-35 minutes"

type Order struct {
	OrderNumber        string
	CartUID            string
	CreatedAt          time.Time
	CustomerName       string
	CustomerPhone      string
	CustomerEmail      string
	DeliveryAddress    Address
	Items              []OrderItem
	SubTotalInCents    int64
	DeliveryFeeInCents int64
	TaxInCents         int64
	TotalInCents       int64
	PaymentMethod      string
	PaymentReference   string
	EstimatedDelivery  string
}

type Address struct {
	Street       string
	City         string
	State        string
	ZipCode      string
	Instructions string
}

type OrderItem struct {
	UID            string
	Name           string
	PriceInCents   int64
	Quantity       int
	Customizations []string
}
