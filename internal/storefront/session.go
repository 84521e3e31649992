package storefront

import (
	"sync"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/customer"
	"github.com/angelmondragon/storefront/internal/stock"
	"github.com/angelmondragon/storefront/internal/view"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Session is one shopper's storefront: cart, customer form, checkout and the
// view they render into.
type Session struct {
	ID       string
	Cart     *cart.Store
	Form     *customer.Form
	Checkout *checkout.Orchestrator
	View     *view.Snapshot

	products *stock.Registry

	mu       sync.Mutex
	lastSeen time.Time
}

// AttemptState summarizes the latest checkout attempt.
type AttemptState struct {
	OrderID     string              `json:"order_id"`
	Amount      int64               `json:"amount"`
	Token       string              `json:"token,omitempty"`
	RedirectURL string              `json:"redirect_url,omitempty"`
	State       enums.CheckoutState `json:"state"`
	Finished    bool                `json:"finished"`
}

// State is the JSON-ready picture of a session.
type State struct {
	ID             string                                      `json:"id"`
	CheckoutState  enums.CheckoutState                         `json:"checkout_state"`
	ConfirmEnabled bool                                        `json:"confirm_enabled"`
	Customer       map[enums.CustomerField]customer.FieldState `json:"customer"`
	LastAttempt    *AttemptState                               `json:"last_attempt,omitempty"`
	View           view.State                                  `json:"view"`
}

func newSession(id string, deps Deps, now time.Time) (*Session, error) {
	snap := view.NewSnapshot()
	store := cart.NewStore()
	store.Subscribe(func(totals cart.Totals, items []cart.LineItem) {
		snap.RenderCartSummary(totals)
		snap.RenderCartList(items)
	})
	form := customer.NewForm(customer.WithRenderer(snap))

	orch, err := checkout.NewOrchestrator(checkout.Params{
		Cart:            store,
		Form:            form,
		Transactions:    deps.Transactions,
		Widget:          deps.Widget,
		View:            snap,
		OrderIDs:        deps.OrderIDs,
		Metrics:         deps.Metrics,
		Logger:          deps.Logger,
		Clock:           deps.Clock,
		ConfirmationURL: deps.ConfirmationURL,
	})
	if err != nil {
		return nil, err
	}

	items, totals := store.Snapshot()
	snap.RenderCartSummary(totals)
	snap.RenderCartList(items)
	for _, name := range deps.Products.SoldOut() {
		snap.DisableProductControl(name)
	}

	return &Session{
		ID:       id,
		Cart:     store,
		Form:     form,
		Checkout: orch,
		View:     snap,
		products: deps.Products,
		lastSeen: now,
	}, nil
}

// AddToCart adds quantity units of the named catalog product at its catalog
// price. Sold-out products are refused the way their disabled button would.
func (s *Session) AddToCart(name string, quantity int) error {
	product, ok := s.products.Lookup(name)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"name": name})
	}
	if !s.products.Available(name) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "product is sold out").WithDetails(map[string]any{"name": name})
	}
	return s.Cart.Add(product.Name, product.UnitPrice, quantity)
}

// State returns the session snapshot. Pending notices are consumed.
func (s *Session) State() State {
	out := State{
		ID:             s.ID,
		CheckoutState:  s.Checkout.State(),
		ConfirmEnabled: s.Checkout.ConfirmEnabled(),
		Customer:       s.Form.Fields(),
		View:           s.View.State(),
	}
	if attempt := s.Checkout.LastAttempt(); attempt != nil {
		state := attempt.State()
		out.LastAttempt = &AttemptState{
			OrderID:     attempt.OrderID,
			Amount:      attempt.Amount,
			Token:       attempt.Token,
			RedirectURL: attempt.RedirectURL,
			State:       state,
			Finished:    state.IsTerminal(),
		}
	}
	return out
}

// inFlight reports whether the latest attempt is still waiting on payment.
func (s *Session) inFlight() bool {
	attempt := s.Checkout.LastAttempt()
	return attempt != nil && !attempt.State().IsTerminal()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
