package view

import (
	"sort"
	"sync"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/money"
)

// LineState is a rendered cart line.
type LineState struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
	UnitPriceLabel string `json:"unit_price_label"`
	Subtotal       int64  `json:"subtotal"`
	SubtotalLabel  string `json:"subtotal_label"`
}

// CartState mirrors the cart badge, summary and dropdown.
type CartState struct {
	Items           []LineState `json:"items"`
	TotalItems      int         `json:"total_items"`
	TotalPrice      int64       `json:"total_price"`
	TotalPriceLabel string      `json:"total_price_label"`
}

// CheckoutState mirrors the checkout surface.
type CheckoutState struct {
	Open       bool        `json:"open"`
	Items      []LineState `json:"items"`
	Total      int64       `json:"total"`
	TotalLabel string      `json:"total_label"`
}

// ControlState mirrors one interactive control.
type ControlState struct {
	Enabled bool `json:"enabled"`
	Busy    bool `json:"busy"`
}

// State is a point-in-time copy of everything rendered so far.
type State struct {
	Cart             CartState                      `json:"cart"`
	Checkout         CheckoutState                  `json:"checkout"`
	FieldErrors      map[enums.CustomerField]bool   `json:"field_errors"`
	Controls         map[enums.Control]ControlState `json:"controls"`
	DisabledProducts []string                       `json:"disabled_products"`
	Notices          []string                       `json:"notices"`
	NavigateTo       string                         `json:"navigate_to,omitempty"`
}

// Snapshot records callbacks into an in-memory State that can be served to a
// browser. It is safe for concurrent use.
type Snapshot struct {
	mu       sync.Mutex
	cart     CartState
	checkout CheckoutState
	fields   map[enums.CustomerField]bool
	controls map[enums.Control]ControlState
	disabled map[string]struct{}
	notices  []string
	navigate string
}

// NewSnapshot returns an empty recorder.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		cart:     CartState{Items: []LineState{}, TotalPriceLabel: money.Format(0)},
		checkout: CheckoutState{Items: []LineState{}, TotalLabel: money.Format(0)},
		fields:   make(map[enums.CustomerField]bool),
		controls: make(map[enums.Control]ControlState),
		disabled: make(map[string]struct{}),
	}
}

var _ View = (*Snapshot)(nil)

// RenderCartSummary records the badge count and formatted cart total.
func (s *Snapshot) RenderCartSummary(totals cart.Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.TotalItems = totals.TotalItems
	s.cart.TotalPrice = totals.TotalPrice
	s.cart.TotalPriceLabel = money.Format(totals.TotalPrice)
}

// RenderCartList replaces the dropdown lines with items.
func (s *Snapshot) RenderCartList(items []cart.LineItem) {
	lines := renderLines(items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Items = lines
}

// RenderFieldError records whether field shows its error styling.
func (s *Snapshot) RenderFieldError(field enums.CustomerField, invalid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[field] = invalid
}

// SetControlEnabled records whether control accepts clicks.
func (s *Snapshot) SetControlEnabled(control enums.Control, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.controls[control]
	state.Enabled = enabled
	s.controls[control] = state
}

// SetControlBusy records whether control shows its processing label.
func (s *Snapshot) SetControlBusy(control enums.Control, busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.controls[control]
	state.Busy = busy
	s.controls[control] = state
}

// DisableProductControl marks the add-to-cart button of name as sold out.
// Disabled products stay disabled for the life of the snapshot.
func (s *Snapshot) DisableProductControl(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled[name] = struct{}{}
}

// NotifyUser queues message until the next State call.
func (s *Snapshot) NotifyUser(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, message)
}

// RenderCheckoutList opens the checkout surface with items and total.
func (s *Snapshot) RenderCheckoutList(items []cart.LineItem, total int64) {
	lines := renderLines(items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout = CheckoutState{
		Open:       true,
		Items:      lines,
		Total:      total,
		TotalLabel: money.Format(total),
	}
}

// CloseCheckout hides the checkout surface. Its last lines are kept.
func (s *Snapshot) CloseCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.Open = false
}

// Navigate records the page the shopper should be sent to.
func (s *Snapshot) Navigate(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigate = url
}

// State returns a copy of the recorded view. Pending notices are handed out
// once and cleared.
func (s *Snapshot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := State{
		Cart:        s.cart,
		Checkout:    s.checkout,
		FieldErrors: make(map[enums.CustomerField]bool, len(s.fields)),
		Controls:    make(map[enums.Control]ControlState, len(s.controls)),
		Notices:     s.notices,
		NavigateTo:  s.navigate,
	}
	out.Cart.Items = append([]LineState(nil), s.cart.Items...)
	out.Checkout.Items = append([]LineState(nil), s.checkout.Items...)
	for field, invalid := range s.fields {
		out.FieldErrors[field] = invalid
	}
	for control, state := range s.controls {
		out.Controls[control] = state
	}
	out.DisabledProducts = make([]string, 0, len(s.disabled))
	for name := range s.disabled {
		out.DisabledProducts = append(out.DisabledProducts, name)
	}
	sort.Strings(out.DisabledProducts)
	if out.Notices == nil {
		out.Notices = []string{}
	}
	s.notices = nil
	return out
}

func renderLines(items []cart.LineItem) []LineState {
	lines := make([]LineState, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineState{
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			UnitPriceLabel: money.Format(item.UnitPrice),
			Subtotal:       item.Subtotal(),
			SubtotalLabel:  money.Format(item.Subtotal()),
		})
	}
	return lines
}
