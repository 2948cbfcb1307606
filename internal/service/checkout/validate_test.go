package checkout

import (
	"testing"

	"capibara-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validForm() domain.CheckoutFormData {
	return domain.CheckoutFormData{
		FirstName:     "Ana",
		LastName:      "Rojas",
		Email:         "ana@example.com",
		Phone:         "9 1234 5678",
		Address:       "Av. Providencia 123",
		City:          "Santiago",
		Region:        domain.DefaultRegion,
		ZipCode:       "7500000",
		PaymentMethod: domain.PaymentDebit,
	}
}

func TestValidate_ValidForm(t *testing.T) {
	assert.Empty(t, Validate(validForm()))
}

func TestValidate_EmptyFormReportsEveryField(t *testing.T) {
	errs := Validate(domain.NewCheckoutForm())

	assert.Equal(t, FieldErrors{
		"firstName": "first name is required",
		"lastName":  "last name is required",
		"email":     "email is required",
		"phone":     "phone is required",
		"address":   "address is required",
		"city":      "city is required",
		"zipCode":   "zip code is required",
	}, errs)
}

func TestValidate_Email(t *testing.T) {
	for _, email := range []string{"ana", "ana@", "ana@example", "a na@example.com", "@example.com"} {
		form := validForm()
		form.Email = email
		assert.Equal(t, "invalid email", Validate(form)["email"], email)
	}
}

func TestValidate_Phone(t *testing.T) {
	cases := map[string]string{
		"912345678":     "",
		" 912 345 678 ": "",
		"91234567":      "phone must have 9 digits",
		"9123456789":    "phone must have 9 digits",
		"+56912345678":  "phone must have 9 digits",
		"91234567a":     "phone must have 9 digits",
		"   ":           "phone is required",
	}
	for phone, want := range cases {
		form := validForm()
		form.Phone = phone
		assert.Equal(t, want, Validate(form)["phone"], "phone %q", phone)
	}
}

func TestValidate_Enums(t *testing.T) {
	form := validForm()
	form.Region = "Nowhere"
	form.PaymentMethod = "cash"

	errs := Validate(form)

	assert.Equal(t, "invalid region", errs["region"])
	assert.Equal(t, "invalid payment method", errs["paymentMethod"])
}

func TestValidate_BlankEnumsAreRequired(t *testing.T) {
	form := validForm()
	form.Region = "  "
	form.PaymentMethod = ""

	errs := Validate(form)

	assert.Equal(t, "region is required", errs["region"])
	assert.Equal(t, "payment method is required", errs["paymentMethod"])
}

func TestComputeShipping(t *testing.T) {
	assert.True(t, ComputeShipping(decimal.NewFromInt(40000)).Equal(decimal.NewFromInt(5000)))
	assert.True(t, ComputeShipping(decimal.NewFromInt(50000)).Equal(decimal.NewFromInt(5000)))
	assert.True(t, ComputeShipping(decimal.RequireFromString("50000.01")).IsZero())
	assert.True(t, ComputeShipping(decimal.NewFromInt(600000)).IsZero())
	assert.True(t, ComputeShipping(decimal.Zero).Equal(ShippingFee))
}
