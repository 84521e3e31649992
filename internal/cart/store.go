package cart

import (
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// LineItem is one product entry in the cart.
type LineItem struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns UnitPrice * Quantity.
func (i LineItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Totals are derived from the line items on every read; they are never stored.
type Totals struct {
	TotalItems int   `json:"total_items"`
	TotalPrice int64 `json:"total_price"`
}

// Listener receives the totals and items produced by a single mutation.
type Listener func(Totals, []LineItem)

// Store owns the cart's line items. All mutations are serialized and each one
// notifies listeners exactly once, in mutation order. Listeners run outside the
// item lock so they may read the store, but they must not mutate it.
type Store struct {
	notifyMu  sync.Mutex
	mu        sync.Mutex
	items     []LineItem
	listeners []Listener
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn for change notifications.
func (s *Store) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Add appends a new line item or increments the quantity of the item sharing name.
func (s *Store) Add(name string, unitPrice int64, quantity int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").WithDetails(map[string]any{
			"name":     name,
			"quantity": quantity,
		})
	}
	if unitPrice < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative").WithDetails(map[string]any{
			"name":       name,
			"unit_price": unitPrice,
		})
	}

	s.mutate(func() bool {
		for i := range s.items {
			if s.items[i].Name == name {
				s.items[i].Quantity += quantity
				return true
			}
		}
		s.items = append(s.items, LineItem{Name: name, UnitPrice: unitPrice, Quantity: quantity})
		return true
	})
	return nil
}

// Remove drops the line item at index. Out-of-range indexes are ignored.
func (s *Store) Remove(index int) {
	s.mutate(func() bool {
		if index < 0 || index >= len(s.items) {
			return false
		}
		s.items = append(s.items[:index], s.items[index+1:]...)
		return true
	})
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mutate(func() bool {
		s.items = nil
		return true
	})
}

// Totals sums quantities and prices over the current items.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeTotals(s.items)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Len reports the number of distinct line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Snapshot returns items and their totals read under one lock.
func (s *Store) Snapshot() ([]LineItem, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items), computeTotals(s.items)
}

// mutate applies fn under the item lock and, when fn reports a change,
// notifies listeners with the resulting state.
func (s *Store) mutate(fn func() bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	totals := computeTotals(s.items)
	items := cloneItems(s.items)
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(totals, items)
	}
}

func computeTotals(items []LineItem) Totals {
	var totals Totals
	for _, item := range items {
		totals.TotalItems += item.Quantity
		totals.TotalPrice += item.Subtotal()
	}
	return totals
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
