package cart

import (
	"strings"
)

type PromoType string

const (
	PromoTypePercentage PromoType = "percentage"
	PromoTypeFixed      PromoType = "fixed"
	PromoTypeShipping   PromoType = "shipping"
)

type Promo struct {
	Code             string
	Type             PromoType
	PercentageOff    int64
	AmountOffInCents int64
	Description      string
}

var promos = map[string]Promo{
	"TACO10": {
		Code:          "TACO10",
		Type:          PromoTypePercentage,
		PercentageOff: 10,
		Description:   "10% off your order",
	},
	"SAVE5": {
		Code:             "SAVE5",
		Type:             PromoTypeFixed,
		AmountOffInCents: 500,
		Description:      "$5 off your order",
	},
	"WELCOME15": {
		Code:          "WELCOME15",
		Type:          PromoTypePercentage,
		PercentageOff: 15,
		Description:   "15% off your first order",
	},
	"FREESHIP": {
		Code:        "FREESHIP",
		Type:        PromoTypeShipping,
		Description: "Free delivery",
	},
}

// LookupPromo resolves a promo code case-insensitively.
func LookupPromo(code string) (Promo, bool) {
	promo, found := promos[strings.ToUpper(strings.TrimSpace(code))]
	return promo, found
}

// DiscountInCents returns the value of the cart's promo code against its
// current sub-total. Shipping promos do not reduce the sub-total, they
// waive the delivery fee at checkout.
func (c Cart) DiscountInCents() int64 {
	promo, found := LookupPromo(c.PromoCode)
	if !found {
		return 0
	}
	switch promo.Type {
	case PromoTypePercentage:
		return c.SubTotalInCents() * promo.PercentageOff / 100
	case PromoTypeFixed:
		discount := promo.AmountOffInCents
		if subTotal := c.SubTotalInCents(); discount > subTotal {
			discount = subTotal
		}
		return discount
	default:
		return 0
	}
}

// WaivesDeliveryFee indicates the cart carries a free-delivery promo.
func (c Cart) WaivesDeliveryFee() bool {
	promo, found := LookupPromo(c.PromoCode)
	return found && promo.Type == PromoTypeShipping
}
