package cart

import (
	"time"
)

type Cart struct {
	UID          string
	CreatedAt    time.Time
	LastModified *time.Time
	Items        []Item
	PromoCode    string
}

type Item struct {
	UID            string
	Name           string
	PriceInCents   int64
	Quantity       int
	ImageURL       string
	Customizations []string
}

func (i Item) TotalPriceInCents() int64 {
	return i.PriceInCents * int64(i.Quantity)
}

func (c Cart) SubTotalInCents() int64 {
	var subTotal int64
	for _, item := range c.Items {
		subTotal += item.TotalPriceInCents()
	}
	return subTotal
}

func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count is the cached per-cart item count that backs the header cart-badge.
// It is maintained by the cart.updated event subscription.
type Count struct {
	CartUID string
	Count   int
}
