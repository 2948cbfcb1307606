package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"capibara-storefront/internal/apiclient"
	"capibara-storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type State string

const (
	StateForm         State = "form"
	StateSubmitting   State = "submitting"
	StateConfirmation State = "confirmation"
)

type OutcomeKind string

const (
	OutcomeConfirmed     OutcomeKind = "confirmed"
	OutcomeInvalid       OutcomeKind = "invalid"
	OutcomeLoginRequired OutcomeKind = "login_required"
	OutcomeEmptyCart     OutcomeKind = "empty_cart"
	OutcomeFailed        OutcomeKind = "failed"
	OutcomeBusy          OutcomeKind = "busy"
)

// Outcome is the single result of a submit attempt. Submit never returns an error.
type Outcome struct {
	Kind         OutcomeKind   `json:"kind"`
	Message      string        `json:"message,omitempty"`
	Errors       FieldErrors   `json:"errors,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

type Confirmation struct {
	OrderID     int64              `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Status      domain.OrderStatus `json:"status"`
	Total       decimal.Decimal    `json:"total"`
	CreatedAt   domain.Timestamp   `json:"createdAt"`
}

// View is a read-only picture of the workflow and the cart it will order.
type View struct {
	State        State                   `json:"state"`
	Form         domain.CheckoutFormData `json:"form"`
	Errors       FieldErrors             `json:"errors"`
	Notice       string                  `json:"notice,omitempty"`
	Lines        []domain.CartLine       `json:"lines"`
	TotalItems   int                     `json:"totalItems"`
	Subtotal     decimal.Decimal         `json:"subtotal"`
	Shipping     decimal.Decimal         `json:"shipping"`
	Total        decimal.Decimal         `json:"total"`
	CanSubmit    bool                    `json:"canSubmit"`
	Confirmation *Confirmation           `json:"confirmation,omitempty"`
}

const (
	msgLoginRequired  = "you must log in to place an order"
	msgEmptyCart      = "your cart is empty"
	msgSessionExpired = "your session has expired, please log in again"
	msgForbidden      = "you do not have permission to place this order"
	msgInvalidOrder   = "invalid order data"
	msgUnreachable    = "cannot reach server"
	msgGeneric        = "could not process the order, please check your details and try again"
)

type cartStore interface {
	Snapshot() domain.CartState
	Clear(ctx context.Context)
}

type authChecker interface {
	IsAuthenticated() bool
}

type orderPlacer interface {
	Place(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
}

// Workflow drives one shopper from the checkout form to an order confirmation.
type Workflow struct {
	mu           sync.Mutex
	state        State
	form         domain.CheckoutFormData
	errors       FieldErrors
	notice       string
	confirmation *Confirmation
	generation   uint64
	// inFlight stays set from the order call until it returns, even across Reset.
	inFlight bool

	cart   cartStore
	auth   authChecker
	orders orderPlacer
	logger zerolog.Logger
	now    func() time.Time
}

func New(cart cartStore, auth authChecker, orders orderPlacer, logger zerolog.Logger) *Workflow {
	return &Workflow{
		state:  StateForm,
		form:   domain.NewCheckoutForm(),
		errors: FieldErrors{},
		cart:   cart,
		auth:   auth,
		orders: orders,
		logger: logger,
		now:    time.Now,
	}
}

// SetField edits one form field and clears any error reported for it.
func (w *Workflow) SetField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateConfirmation {
		return fmt.Errorf("%w: order already placed, reset to start again", domain.ErrInvalidInput)
	}
	if err := setField(&w.form, name, value); err != nil {
		return err
	}
	delete(w.errors, name)
	return nil
}

// SetForm replaces the form, clearing errors of fields whose value changed.
func (w *Workflow) SetForm(form domain.CheckoutFormData) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateConfirmation {
		return fmt.Errorf("%w: order already placed, reset to start again", domain.ErrInvalidInput)
	}
	for _, name := range fieldNames {
		if fieldValue(w.form, name) != fieldValue(form, name) {
			delete(w.errors, name)
		}
	}
	w.form = form
	return nil
}

// Reset discards the form and any confirmation. An in-flight submission is
// abandoned: its result no longer changes the workflow state, but no new order
// can be submitted until it returns.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.state = StateForm
	w.form = domain.NewCheckoutForm()
	w.errors = FieldErrors{}
	w.notice = ""
	w.confirmation = nil
}

// Submit validates the form and places at most one order per call. A call made
// while another is in flight returns OutcomeBusy without contacting the backend.
func (w *Workflow) Submit(ctx context.Context) Outcome {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return Outcome{Kind: OutcomeBusy}
	}
	switch w.state {
	case StateConfirmation:
		conf := *w.confirmation
		w.mu.Unlock()
		return Outcome{Kind: OutcomeConfirmed, Confirmation: &conf}
	}

	w.notice = ""
	w.errors = Validate(w.form)
	if len(w.errors) > 0 {
		out := Outcome{Kind: OutcomeInvalid, Errors: copyErrors(w.errors)}
		w.mu.Unlock()
		return out
	}
	if w.auth == nil || !w.auth.IsAuthenticated() {
		w.notice = msgLoginRequired
		w.mu.Unlock()
		return Outcome{Kind: OutcomeLoginRequired, Message: msgLoginRequired}
	}
	snapshot := w.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		w.notice = msgEmptyCart
		w.mu.Unlock()
		return Outcome{Kind: OutcomeEmptyCart, Message: msgEmptyCart}
	}

	req := buildRequest(w.form, snapshot)
	w.state = StateSubmitting
	w.inFlight = true
	gen := w.generation
	w.mu.Unlock()

	// The caller going away abandons interest in the result; it must not
	// cancel an order the backend may already be committing.
	ctx = context.WithoutCancel(ctx)
	order, err := w.orders.Place(ctx, req)

	if err == nil {
		w.cart.Clear(ctx)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	abandoned := gen != w.generation

	if err != nil {
		out := classify(err)
		w.logger.Warn().Err(err).Str("outcome", string(out.Kind)).Bool("abandoned", abandoned).Msg("order submission failed")
		if !abandoned {
			w.state = StateForm
			w.notice = out.Message
		}
		return out
	}

	conf := &Confirmation{
		OrderID:     order.ID,
		OrderNumber: fmt.Sprintf("ORD-%d-%d", order.ID, w.now().UnixMilli()),
		Status:      order.Status,
		Total:       order.Total,
		CreatedAt:   order.CreatedAt,
	}
	w.logger.Info().Int64("order_id", order.ID).Str("order_number", conf.OrderNumber).Bool("abandoned", abandoned).Msg("order placed")
	if !abandoned {
		w.state = StateConfirmation
		w.form = domain.NewCheckoutForm()
		w.confirmation = conf
	}
	out := *conf
	return Outcome{Kind: OutcomeConfirmed, Confirmation: &out}
}

func (w *Workflow) View() View {
	snapshot := w.cart.Snapshot()
	subtotal := snapshot.TotalPrice()
	shipping := ComputeShipping(subtotal)

	w.mu.Lock()
	defer w.mu.Unlock()
	v := View{
		State:      w.state,
		Form:       w.form,
		Errors:     copyErrors(w.errors),
		Notice:     w.notice,
		Lines:      snapshot.Items,
		TotalItems: snapshot.TotalItems(),
		Subtotal:   subtotal,
		Shipping:   shipping,
		Total:      subtotal.Add(shipping),
		CanSubmit:  w.state == StateForm && !w.inFlight && len(snapshot.Items) > 0,
	}
	if w.confirmation != nil {
		conf := *w.confirmation
		v.Confirmation = &conf
	}
	return v
}

func buildRequest(form domain.CheckoutFormData, cart domain.CartState) domain.OrderRequest {
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, l := range cart.Items {
		items = append(items, domain.OrderItem{ProductID: l.ID, Quantity: l.Quantity})
	}
	notes := strings.Join([]string{
		"Name: " + strings.TrimSpace(form.FirstName+" "+form.LastName),
		"Email: " + form.Email,
		"Phone: " + form.Phone,
		"Payment method: " + form.PaymentMethod.Label(),
	}, "\n")
	return domain.OrderRequest{
		Items:           items,
		ShippingAddress: fmt.Sprintf("%s, %s, %s", form.Address, form.City, form.Region),
		Notes:           notes,
	}
}

func classify(err error) Outcome {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			return Outcome{Kind: OutcomeLoginRequired, Message: msgSessionExpired}
		case apiErr.Status == http.StatusForbidden:
			return Outcome{Kind: OutcomeFailed, Message: msgForbidden}
		case strings.Contains(strings.ToLower(apiErr.Message), "stock"):
			return Outcome{Kind: OutcomeFailed, Message: apiErr.Message}
		case apiErr.Status == http.StatusBadRequest:
			if apiErr.Message != "" {
				return Outcome{Kind: OutcomeFailed, Message: apiErr.Message}
			}
			return Outcome{Kind: OutcomeFailed, Message: msgInvalidOrder}
		}
	}
	if errors.Is(err, apiclient.ErrUnreachable) {
		return Outcome{Kind: OutcomeFailed, Message: msgUnreachable}
	}
	return Outcome{Kind: OutcomeFailed, Message: msgGeneric}
}

func copyErrors(in FieldErrors) FieldErrors {
	out := make(FieldErrors, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
