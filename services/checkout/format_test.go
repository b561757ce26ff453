package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "", expected: "", ok: true},
		{input: "51", expected: "51", ok: true},
		{input: "512", expected: "(512) ", ok: true},
		{input: "51255", expected: "(512) 55", ok: true},
		{input: "512555", expected: "(512) 555-", ok: true},
		{input: "5125550182", expected: "(512) 555-0182", ok: true},
		{input: "512-555-0182", expected: "(512) 555-0182", ok: true},
		{input: "(512) 555-0182", expected: "(512) 555-0182", ok: true},
		{input: "51255501823", ok: false},
	}
	for _, tc := range tests {
		got, ok := FormatField("phone", tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		if tc.ok {
			assert.Equal(t, tc.expected, got, tc.input)
		}
	}
}

func TestFormatZipCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "", expected: "", ok: true},
		{input: "787", expected: "787", ok: true},
		{input: "78701", expected: "78701", ok: true},
		{input: "787011234", expected: "78701-1234", ok: true},
		{input: "78701-1234", expected: "78701-1234", ok: true},
		{input: "7870112345", ok: false},
	}
	for _, tc := range tests {
		got, ok := FormatField("zipCode", tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		if tc.ok {
			assert.Equal(t, tc.expected, got, tc.input)
		}
	}
}

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "", expected: "", ok: true},
		{input: "4111", expected: "4111", ok: true},
		{input: "41111", expected: "4111 1", ok: true},
		{input: "4111111111111111", expected: "4111 1111 1111 1111", ok: true},
		{input: "4111 1111 1111 1111", expected: "4111 1111 1111 1111", ok: true},
		{input: "41111111111111111", ok: false},
	}
	for _, tc := range tests {
		got, ok := FormatField("cardNumber", tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		if tc.ok {
			assert.Equal(t, tc.expected, got, tc.input)
		}
	}
}

func TestFormatExpiryDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "", expected: "", ok: true},
		{input: "1", expected: "1", ok: true},
		{input: "12", expected: "12/", ok: true},
		{input: "1227", expected: "12/27", ok: true},
		{input: "12/27", expected: "12/27", ok: true},
		{input: "12271", ok: false},
	}
	for _, tc := range tests {
		got, ok := FormatField("expiryDate", tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		if tc.ok {
			assert.Equal(t, tc.expected, got, tc.input)
		}
	}
}

func TestFormatCVV(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "", expected: "", ok: true},
		{input: "12a3", expected: "123", ok: true},
		{input: "1234", expected: "1234", ok: true},
		{input: "12345", ok: false},
	}
	for _, tc := range tests {
		got, ok := FormatField("cvv", tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		if tc.ok {
			assert.Equal(t, tc.expected, got, tc.input)
		}
	}
}

func TestFormatPlainField(t *testing.T) {
	got, ok := FormatField("fullName", "Maria Lopez")
	assert.True(t, ok)
	assert.Equal(t, "Maria Lopez", got)
}
