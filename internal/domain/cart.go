package domain

import "github.com/shopspring/decimal"

// MaxLineQuantity bounds a single quantity accepted from a shopper or an import.
const MaxLineQuantity = 9999

// CartLine is one distinct product held in the cart.
type CartLine struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"qty"`
}

// Subtotal is UnitPrice * Quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartState is the ordered set of lines, at most one per ID.
type CartState struct {
	Items []CartLine `json:"items"`
}

// TotalItems sums line quantities.
func (s CartState) TotalItems() int {
	total := 0
	for _, l := range s.Items {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums line subtotals.
func (s CartState) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Find returns the index of the line with id, or -1.
func (s CartState) Find(id int64) int {
	for i, l := range s.Items {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to hand to callers.
func (s CartState) Clone() CartState {
	if s.Items == nil {
		return CartState{Items: []CartLine{}}
	}
	items := make([]CartLine, len(s.Items))
	copy(items, s.Items)
	return CartState{Items: items}
}
