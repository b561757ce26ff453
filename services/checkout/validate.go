package checkout

import (
	"regexp"
	"strings"
)

var (
	phonePattern   = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)
	zipCodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	expiryPattern  = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern     = regexp.MustCompile(`^\d{3,4}$`)
)

// validateStep checks the form against the rules of a single wizard step.
// The review step has no rules of its own, it only displays what the
// earlier steps collected.
func validateStep(step Step, form CheckoutForm) []FieldError {
	switch step {
	case StepDelivery:
		return validateDelivery(form)
	case StepPayment:
		return validatePayment(form)
	default:
		return nil
	}
}

func validateDelivery(form CheckoutForm) []FieldError {
	errs := []FieldError{}

	if strings.TrimSpace(form.FullName) == "" {
		errs = append(errs, FieldError{Field: "fullName", Message: "Full name is required"})
	}

	if strings.TrimSpace(form.Phone) == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "Phone number is required"})
	} else if !phonePattern.MatchString(form.Phone) {
		errs = append(errs, FieldError{Field: "phone", Message: "Please enter a valid phone number"})
	}

	if strings.TrimSpace(form.Address) == "" {
		errs = append(errs, FieldError{Field: "address", Message: "Address is required"})
	}

	if strings.TrimSpace(form.City) == "" {
		errs = append(errs, FieldError{Field: "city", Message: "City is required"})
	}

	if strings.TrimSpace(form.ZipCode) == "" {
		errs = append(errs, FieldError{Field: "zipCode", Message: "ZIP code is required"})
	} else if !zipCodePattern.MatchString(form.ZipCode) {
		errs = append(errs, FieldError{Field: "zipCode", Message: "Please enter a valid ZIP code"})
	}

	return errs
}

// validatePayment only applies rules when paying by card. Wallet based
// methods authenticate with the provider and carry no card details here.
func validatePayment(form CheckoutForm) []FieldError {
	if form.PaymentMethod != "card" {
		return nil
	}

	errs := []FieldError{}

	cardDigits := strings.ReplaceAll(form.CardNumber, " ", "")
	if cardDigits == "" {
		errs = append(errs, FieldError{Field: "cardNumber", Message: "Card number is required"})
	} else if len(cardDigits) != 16 {
		errs = append(errs, FieldError{Field: "cardNumber", Message: "Please enter a valid 16-digit card number"})
	}

	if form.ExpiryDate == "" {
		errs = append(errs, FieldError{Field: "expiryDate", Message: "Expiry date is required"})
	} else if !expiryPattern.MatchString(form.ExpiryDate) {
		errs = append(errs, FieldError{Field: "expiryDate", Message: "Please enter a valid expiry date (MM/YY)"})
	}

	if form.CVV == "" {
		errs = append(errs, FieldError{Field: "cvv", Message: "CVV is required"})
	} else if !cvvPattern.MatchString(form.CVV) {
		errs = append(errs, FieldError{Field: "cvv", Message: "Please enter a valid CVV"})
	}

	if strings.TrimSpace(form.CardName) == "" {
		errs = append(errs, FieldError{Field: "cardName", Message: "Cardholder name is required"})
	}

	return errs
}
