// Package view defines the rendering callbacks the storefront core drives.
// The core only writes to a View; it never reads presentation state back.
package view

import (
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/enums"
)

// View receives every presentation change the cart, customer form and
// checkout make. Implementations must be safe for concurrent use because
// payment outcomes arrive on their own goroutine.
type View interface {
	RenderCartSummary(totals cart.Totals)
	RenderCartList(items []cart.LineItem)
	RenderFieldError(field enums.CustomerField, invalid bool)
	SetControlEnabled(control enums.Control, enabled bool)
	SetControlBusy(control enums.Control, busy bool)
	DisableProductControl(name string)
	NotifyUser(message string)
	RenderCheckoutList(items []cart.LineItem, total int64)
	CloseCheckout()
	Navigate(url string)
}

// Nop discards every callback.
type Nop struct{}

func (Nop) RenderCartSummary(cart.Totals) {}
func (Nop) RenderCartList([]cart.LineItem) {}
func (Nop) RenderFieldError(enums.CustomerField, bool) {}
func (Nop) SetControlEnabled(enums.Control, bool) {}
func (Nop) SetControlBusy(enums.Control, bool) {}
func (Nop) DisableProductControl(string) {}
func (Nop) NotifyUser(string) {}
func (Nop) RenderCheckoutList([]cart.LineItem, int64) {}
func (Nop) CloseCheckout() {}
func (Nop) Navigate(string) {}

var _ View = Nop{}
