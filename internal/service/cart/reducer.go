package cart

import (
	"math"

	"capibara-storefront/internal/domain"
)

// Action is one cart state transition. The concrete types are Add, Remove,
// SetQuantity, Clear and Load.
type Action interface {
	isAction()
}

// Add merges Line into the cart, summing quantities when the id is already present.
type Add struct {
	Line domain.CartLine
}

// Remove drops the line with ID; absent ids are ignored.
type Remove struct {
	ID int64
}

// SetQuantity overwrites the quantity of line ID, floored at 1.
type SetQuantity struct {
	ID       int64
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

// Load replaces the whole state, used when restoring a snapshot.
type Load struct {
	State domain.CartState
}

func (Add) isAction()         {}
func (Remove) isAction()      {}
func (SetQuantity) isAction() {}
func (Clear) isAction()       {}
func (Load) isAction()        {}

// Reduce returns the state that results from applying action to state.
// The input state is never modified.
func Reduce(state domain.CartState, action Action) domain.CartState {
	next := state.Clone()
	switch a := action.(type) {
	case Add:
		add := max(1, a.Line.Quantity)
		if idx := next.Find(a.Line.ID); idx >= 0 {
			next.Items[idx].Quantity = saturatingAdd(next.Items[idx].Quantity, add)
			return next
		}
		l := a.Line
		l.Quantity = add
		next.Items = append(next.Items, l)
	case Remove:
		idx := next.Find(a.ID)
		if idx < 0 {
			return next
		}
		next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	case SetQuantity:
		if idx := next.Find(a.ID); idx >= 0 {
			next.Items[idx].Quantity = max(1, a.Quantity)
		}
	case Clear:
		return domain.CartState{Items: []domain.CartLine{}}
	case Load:
		return a.State.Clone()
	}
	return next
}

// saturatingAdd sums two positive quantities, pinning at math.MaxInt.
func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
