package checkout

import (
	"strings"
)

// FormatField normalizes the value of a masked field as the user types.
// The second return value is false when the raw input holds more digits
// than the field accepts. Rejected input leaves the stored value as is.
func FormatField(field string, value string) (string, bool) {
	switch field {
	case "phone":
		return formatPhone(value)
	case "zipCode":
		return formatZipCode(value)
	case "cardNumber":
		return formatCardNumber(value)
	case "expiryDate":
		return formatExpiryDate(value)
	case "cvv":
		return formatCVV(value)
	default:
		return value, true
	}
}

func formatPhone(value string) (string, bool) {
	digits := stripNonDigits(value)
	if len(digits) > 10 {
		return "", false
	}
	switch {
	case len(digits) >= 6:
		return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:], true
	case len(digits) >= 3:
		return "(" + digits[0:3] + ") " + digits[3:], true
	default:
		return digits, true
	}
}

func formatZipCode(value string) (string, bool) {
	digits := stripNonDigits(value)
	if len(digits) > 9 {
		return "", false
	}
	if len(digits) > 5 {
		return digits[0:5] + "-" + digits[5:], true
	}
	return digits, true
}

func formatCardNumber(value string) (string, bool) {
	digits := stripNonDigits(value)
	if len(digits) > 16 {
		return "", false
	}
	buf := strings.Builder{}
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			buf.WriteRune(' ')
		}
		buf.WriteRune(r)
	}
	return buf.String(), true
}

func formatExpiryDate(value string) (string, bool) {
	digits := stripNonDigits(value)
	if len(digits) > 4 {
		return "", false
	}
	if len(digits) >= 2 {
		return digits[0:2] + "/" + digits[2:], true
	}
	return digits, true
}

func formatCVV(value string) (string, bool) {
	digits := stripNonDigits(value)
	if len(digits) > 4 {
		return "", false
	}
	return digits, true
}

func stripNonDigits(value string) string {
	buf := strings.Builder{}
	for _, r := range value {
		if r >= '0' && r <= '9' {
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
