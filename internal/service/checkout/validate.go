package checkout

import (
	"regexp"
	"strings"
	"unicode"

	"capibara-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a form field name to its message. Empty means valid.
type FieldErrors map[string]string

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9}$`)
)

// Validate checks every field of form and returns all problems at once.
func Validate(form domain.CheckoutFormData) FieldErrors {
	errs := FieldErrors{}
	required := func(field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = msg
		}
	}

	required("firstName", form.FirstName, "first name is required")
	required("lastName", form.LastName, "last name is required")

	switch {
	case strings.TrimSpace(form.Email) == "":
		errs["email"] = "email is required"
	case !emailPattern.MatchString(form.Email):
		errs["email"] = "invalid email"
	}

	switch phone := stripSpace(form.Phone); {
	case strings.TrimSpace(form.Phone) == "":
		errs["phone"] = "phone is required"
	case !phonePattern.MatchString(phone):
		errs["phone"] = "phone must have 9 digits"
	}

	required("address", form.Address, "address is required")
	required("city", form.City, "city is required")
	required("zipCode", form.ZipCode, "zip code is required")

	switch {
	case strings.TrimSpace(form.Region) == "":
		errs["region"] = "region is required"
	case !domain.ValidRegion(form.Region):
		errs["region"] = "invalid region"
	}
	switch {
	case strings.TrimSpace(string(form.PaymentMethod)) == "":
		errs["paymentMethod"] = "payment method is required"
	case !form.PaymentMethod.Valid():
		errs["paymentMethod"] = "invalid payment method"
	}
	return errs
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

var (
	ShippingFee           = decimal.NewFromInt(5000)
	FreeShippingThreshold = decimal.NewFromInt(50000)
)

// ComputeShipping is free strictly above FreeShippingThreshold.
func ComputeShipping(cartTotal decimal.Decimal) decimal.Decimal {
	if cartTotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}
