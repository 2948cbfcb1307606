package checkout

import (
	"fmt"

	"capibara-storefront/internal/domain"
)

var fieldNames = []string{
	"firstName", "lastName", "email", "phone", "address",
	"city", "region", "zipCode", "paymentMethod",
}

func setField(form *domain.CheckoutFormData, name, value string) error {
	switch name {
	case "firstName":
		form.FirstName = value
	case "lastName":
		form.LastName = value
	case "email":
		form.Email = value
	case "phone":
		form.Phone = value
	case "address":
		form.Address = value
	case "city":
		form.City = value
	case "region":
		form.Region = value
	case "zipCode":
		form.ZipCode = value
	case "paymentMethod":
		form.PaymentMethod = domain.PaymentMethod(value)
	default:
		return fmt.Errorf("%w: unknown field %q", domain.ErrInvalidInput, name)
	}
	return nil
}

func fieldValue(form domain.CheckoutFormData, name string) string {
	switch name {
	case "firstName":
		return form.FirstName
	case "lastName":
		return form.LastName
	case "email":
		return form.Email
	case "phone":
		return form.Phone
	case "address":
		return form.Address
	case "city":
		return form.City
	case "region":
		return form.Region
	case "zipCode":
		return form.ZipCode
	case "paymentMethod":
		return string(form.PaymentMethod)
	}
	return ""
}
