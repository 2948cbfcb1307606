package domain

type PaymentMethod string

const (
	PaymentCredit   PaymentMethod = "credit"
	PaymentDebit    PaymentMethod = "debit"
	PaymentTransfer PaymentMethod = "transfer"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCredit, PaymentDebit, PaymentTransfer:
		return true
	}
	return false
}

// Label is the human-readable name used in order notes.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCredit:
		return "Credit card"
	case PaymentDebit:
		return "Debit card"
	case PaymentTransfer:
		return "Bank transfer"
	}
	return string(p)
}

// Regions lists the fixed shipping regions offered at checkout.
var Regions = []string{
	"Metropolitana", "Valparaíso", "Biobío", "Araucanía", "Los Lagos",
	"Maule", "Antofagasta", "Coquimbo", "O'Higgins", "Ñuble",
	"Tarapacá", "Los Ríos", "Arica y Parinacota", "Atacama", "Aysén", "Magallanes",
}

const DefaultRegion = "Metropolitana"

func ValidRegion(r string) bool {
	for _, v := range Regions {
		if v == r {
			return true
		}
	}
	return false
}

// CheckoutFormData is the transient shipping/payment form; it is never persisted.
type CheckoutFormData struct {
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	Region        string        `json:"region"`
	ZipCode       string        `json:"zipCode"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// NewCheckoutForm returns an empty form with the default region and payment method.
func NewCheckoutForm() CheckoutFormData {
	return CheckoutFormData{
		Region:        DefaultRegion,
		PaymentMethod: PaymentCredit,
	}
}
