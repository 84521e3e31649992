package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/customer"
	"github.com/angelmondragon/storefront/internal/payment"
	"github.com/angelmondragon/storefront/internal/view"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	DefaultConfirmationURL = "verifed.html"

	NoticeEmptyCart      = "Your cart is empty. Please add items before checking out."
	NoticeInvalidAmount  = "Your cart is empty or total amount is invalid."
	NoticePaymentPending = "Payment pending. Please complete the payment."
	NoticePaymentFailed  = "Payment failed. Please try again."

	noticeProcessingPrefix = "Error processing payment: "
	itemIDPrefix           = "ITEM"
)

// TransactionCreator exchanges an order for a payment token.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, req payment.TransactionRequest) (*payment.TransactionResponse, error)
}

// Metrics records finished attempts.
type Metrics interface {
	ObserveAttempt(state string, elapsed time.Duration)
}

// Params wires an Orchestrator. Widget may be nil; attempts then fail the
// way they do when the payment widget failed to load.
type Params struct {
	Cart            *cart.Store
	Form            *customer.Form
	Transactions    TransactionCreator
	Widget          payment.Widget
	View            view.View
	OrderIDs        *OrderIDs
	Metrics         Metrics
	Logger          *logger.Logger
	Clock           func() time.Time
	ConfirmationURL string
}

// Orchestrator drives the checkout surface and the payment attempt lifecycle
// for one shopper.
type Orchestrator struct {
	cart            *cart.Store
	form            *customer.Form
	transactions    TransactionCreator
	widget          payment.Widget
	view            view.View
	orderIDs        *OrderIDs
	metrics         Metrics
	logg            *logger.Logger
	clock           func() time.Time
	confirmationURL string

	// gateMu orders confirm-control renders so the view always ends on the
	// latest gate.
	gateMu sync.Mutex

	mu      sync.Mutex
	state   enums.CheckoutState
	attempt *Attempt
}

// NewOrchestrator validates p, subscribes to cart and form changes and
// renders the initial confirm gate.
func NewOrchestrator(p Params) (*Orchestrator, error) {
	if p.Cart == nil {
		return nil, errors.New("cart store required")
	}
	if p.Form == nil {
		return nil, errors.New("customer form required")
	}
	if p.Transactions == nil {
		return nil, errors.New("transaction client required")
	}
	o := &Orchestrator{
		cart:            p.Cart,
		form:            p.Form,
		transactions:    p.Transactions,
		widget:          p.Widget,
		view:            p.View,
		orderIDs:        p.OrderIDs,
		metrics:         p.Metrics,
		logg:            p.Logger,
		clock:           p.Clock,
		confirmationURL: strings.TrimSpace(p.ConfirmationURL),
		state:           enums.CheckoutStateIdle,
	}
	if o.view == nil {
		o.view = view.Nop{}
	}
	if o.logg == nil {
		o.logg = logger.Nop()
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	if o.orderIDs == nil {
		o.orderIDs = NewOrderIDs(o.clock)
	}
	if o.confirmationURL == "" {
		o.confirmationURL = DefaultConfirmationURL
	}

	o.cart.Subscribe(func(cart.Totals, []cart.LineItem) { o.refreshGate() })
	o.form.Subscribe(func(bool) { o.refreshGate() })
	o.refreshGate()
	return o, nil
}

// State returns the current checkout state.
func (o *Orchestrator) State() enums.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastAttempt returns the most recent attempt, or nil before the first confirm.
func (o *Orchestrator) LastAttempt() *Attempt {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempt
}

// ConfirmEnabled reports the confirm gate: valid form, non-empty cart and no
// attempt in flight.
func (o *Orchestrator) ConfirmEnabled() bool {
	return o.gate()
}

// Open shows the checkout surface with the itemized list and its total. An
// empty cart is rejected with a notice and the state is left unchanged.
func (o *Orchestrator) Open(ctx context.Context) error {
	items, totals := o.cart.Snapshot()

	o.mu.Lock()
	if o.state == enums.CheckoutStateSubmitting {
		o.mu.Unlock()
		return errSubmitting()
	}
	if len(items) == 0 {
		o.mu.Unlock()
		o.view.NotifyUser(NoticeEmptyCart)
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	o.state = enums.CheckoutStateListReview
	o.mu.Unlock()

	o.view.RenderCheckoutList(items, totals.TotalPrice)
	o.refreshGate()
	o.logg.Debug(ctx, "checkout opened")
	return nil
}

// Close dismisses the checkout surface. It has no effect while an attempt is
// in flight.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.state == enums.CheckoutStateSubmitting {
		o.mu.Unlock()
		return errSubmitting()
	}
	o.state = enums.CheckoutStateIdle
	o.mu.Unlock()

	o.view.CloseCheckout()
	return nil
}

// Confirm starts a payment attempt. It requests a token for the current cart
// and hands it to the widget; the returned Attempt resolves when the widget
// reports an outcome. Failures before the widget takes over end the attempt
// as FAILED and are also returned.
func (o *Orchestrator) Confirm(ctx context.Context) (*Attempt, error) {
	o.mu.Lock()
	if o.state == enums.CheckoutStateSubmitting {
		o.mu.Unlock()
		return nil, errSubmitting()
	}
	if state := o.state; !surfaceOpen(state) {
		o.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not open").WithDetails(map[string]any{"state": state})
	}
	items, totals := o.cart.Snapshot()
	info, formValid := o.form.Snapshot()
	if len(items) == 0 {
		o.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !formValid {
		o.mu.Unlock()
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, o.form.Validate(), "customer details are invalid")
	}
	if totals.TotalPrice <= 0 {
		o.state = enums.CheckoutStateListReview
		o.mu.Unlock()
		o.view.NotifyUser(NoticeInvalidAmount)
		o.refreshGate()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount must be positive").WithDetails(map[string]any{
			"gross_amount": totals.TotalPrice,
		})
	}

	attempt := newAttempt(o.orderIDs.Next(), totals.TotalPrice, o.clock())
	o.state = enums.CheckoutStateSubmitting
	o.attempt = attempt
	o.mu.Unlock()

	o.view.SetControlBusy(enums.ControlConfirmPayment, true)
	o.refreshGate()

	ctx = o.logg.WithOrderID(ctx, attempt.OrderID)
	req := buildRequest(attempt, info, items)

	resp, outcomes, err := o.submit(ctx, req)
	if err != nil {
		o.view.NotifyUser(noticeProcessingPrefix + noticeMessage(err))
		o.logg.Error(ctx, "checkout attempt failed", err)
		o.finish(attempt, enums.CheckoutStateFailed, err)
		return attempt, err
	}
	attempt.Token = resp.Token
	attempt.RedirectURL = resp.RedirectURL

	confirmation := Confirmation{
		ExternalID: info.ExternalID,
		Phone:      info.Phone,
		Name:       info.Name,
		OrderID:    attempt.OrderID,
		Amount:     attempt.Amount,
	}
	go o.await(context.WithoutCancel(ctx), attempt, confirmation, outcomes)

	o.logg.Info(ctx, "payment widget invoked")
	return attempt, nil
}

// submit runs the network phase. A panic is converted into an error so the
// attempt still ends as FAILED.
func (o *Orchestrator) submit(ctx context.Context, req payment.TransactionRequest) (resp *payment.TransactionResponse, outcomes <-chan payment.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, outcomes = nil, nil
			err = pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprint(r))
		}
	}()

	resp, err = o.transactions.CreateTransaction(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if resp == nil || strings.TrimSpace(resp.Token) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeIntegration, "Token not received from server")
	}
	if o.widget == nil {
		return nil, nil, errWidgetMissing()
	}
	outcomes, err = o.widget.Pay(ctx, resp.Token)
	if err != nil {
		return nil, nil, err
	}
	if outcomes == nil {
		return nil, nil, errWidgetMissing()
	}
	return resp, outcomes, nil
}

// await resolves the attempt from the single widget outcome. A channel closed
// without an outcome counts as the shopper dismissing the widget.
func (o *Orchestrator) await(ctx context.Context, attempt *Attempt, confirmation Confirmation, outcomes <-chan payment.Outcome) {
	outcome, ok := <-outcomes
	if !ok {
		outcome = payment.Outcome{Kind: enums.PaymentOutcomeClosed}
	}

	switch outcome.Kind {
	case enums.PaymentOutcomeSuccess:
		o.cart.Clear()
		o.view.CloseCheckout()
		o.view.Navigate(confirmation.URL(o.confirmationURL))
		o.logg.Info(ctx, "payment succeeded")
		o.finish(attempt, enums.CheckoutStateSuccess, nil)
	case enums.PaymentOutcomePending:
		o.view.NotifyUser(NoticePaymentPending)
		o.logg.Info(ctx, "payment pending")
		o.finish(attempt, enums.CheckoutStatePending, pkgerrors.New(pkgerrors.CodePaymentOutcome, "payment pending"))
	case enums.PaymentOutcomeError:
		err := pkgerrors.New(pkgerrors.CodePaymentOutcome, "payment failed").WithDetails(outcome.Result)
		o.view.NotifyUser(NoticePaymentFailed)
		o.logg.Error(ctx, "payment failed", err)
		o.finish(attempt, enums.CheckoutStateFailed, err)
	default:
		o.logg.Info(ctx, "payment widget closed")
		o.finish(attempt, enums.CheckoutStateCancelled, nil)
	}
}

func (o *Orchestrator) finish(attempt *Attempt, state enums.CheckoutState, err error) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()

	o.view.SetControlBusy(enums.ControlConfirmPayment, false)
	o.refreshGate()
	if o.metrics != nil {
		o.metrics.ObserveAttempt(state.String(), o.clock().Sub(attempt.started))
	}
	attempt.resolve(state, err)
}

func (o *Orchestrator) gate() bool {
	if !o.form.IsValid() || o.cart.Len() == 0 {
		return false
	}
	return o.State() != enums.CheckoutStateSubmitting
}

func (o *Orchestrator) refreshGate() {
	o.gateMu.Lock()
	defer o.gateMu.Unlock()
	o.view.SetControlEnabled(enums.ControlConfirmPayment, o.gate())
}

// surfaceOpen reports whether the checkout surface is showing in state. It
// stays open after every non-success outcome so the shopper can retry.
func surfaceOpen(state enums.CheckoutState) bool {
	switch state {
	case enums.CheckoutStateListReview, enums.CheckoutStatePending, enums.CheckoutStateFailed, enums.CheckoutStateCancelled:
		return true
	}
	return false
}

func buildRequest(attempt *Attempt, info customer.Info, items []cart.LineItem) payment.TransactionRequest {
	details := make([]payment.ItemDetail, 0, len(items))
	for i, item := range items {
		details = append(details, payment.ItemDetail{
			ID:       itemIDPrefix + strconv.Itoa(i+1),
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
			Name:     item.Name,
		})
	}
	return payment.TransactionRequest{
		OrderID:     attempt.OrderID,
		GrossAmount: attempt.Amount,
		CustomerDetails: payment.CustomerDetails{
			FirstName: info.Name,
			Email:     info.Email,
			Phone:     info.Phone,
		},
		ItemDetails: details,
	}
}

func noticeMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}

func errSubmitting() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress")
}

func errWidgetMissing() error {
	return pkgerrors.New(pkgerrors.CodeIntegration, "Payment widget is not loaded")
}
