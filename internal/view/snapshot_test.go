package view

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/enums"
)

func TestSnapshotRecordsCartAndCheckout(t *testing.T) {
	snap := NewSnapshot()
	items := []cart.LineItem{{Name: "Firefly", UnitPrice: 50000, Quantity: 3}}

	snap.RenderCartList(items)
	snap.RenderCartSummary(cart.Totals{TotalItems: 3, TotalPrice: 150000})
	snap.RenderCheckoutList(items, 150000)

	state := snap.State()
	require.Len(t, state.Cart.Items, 1)
	line := state.Cart.Items[0]
	assert.Equal(t, "Firefly", line.Name)
	assert.Equal(t, "Rp\u00a050.000", line.UnitPriceLabel)
	assert.Equal(t, int64(150000), line.Subtotal)
	assert.Equal(t, "Rp\u00a0150.000", line.SubtotalLabel)
	assert.Equal(t, 3, state.Cart.TotalItems)
	assert.Equal(t, "Rp\u00a0150.000", state.Cart.TotalPriceLabel)
	assert.True(t, state.Checkout.Open)
	assert.Equal(t, "Rp\u00a0150.000", state.Checkout.TotalLabel)

	snap.CloseCheckout()
	assert.False(t, snap.State().Checkout.Open)
}

func TestSnapshotControlsAndFields(t *testing.T) {
	snap := NewSnapshot()
	snap.SetControlEnabled(enums.ControlConfirmPayment, true)
	snap.SetControlBusy(enums.ControlConfirmPayment, true)
	snap.SetControlEnabled(enums.ControlConfirmPayment, false)
	snap.RenderFieldError(enums.CustomerFieldEmail, true)
	snap.DisableProductControl("Google Ultra")
	snap.DisableProductControl("Google Ultra")
	snap.Navigate("verifed.html?orderId=ORDER-1")

	state := snap.State()
	assert.Equal(t, ControlState{Enabled: false, Busy: true}, state.Controls[enums.ControlConfirmPayment])
	assert.True(t, state.FieldErrors[enums.CustomerFieldEmail])
	assert.Equal(t, []string{"Google Ultra"}, state.DisabledProducts)
	assert.Equal(t, "verifed.html?orderId=ORDER-1", state.NavigateTo)
}

func TestSnapshotDrainsNotices(t *testing.T) {
	snap := NewSnapshot()
	snap.NotifyUser("first")
	snap.NotifyUser("second")

	assert.Equal(t, []string{"first", "second"}, snap.State().Notices)
	assert.Empty(t, snap.State().Notices)
}

func TestSnapshotStateIsACopy(t *testing.T) {
	snap := NewSnapshot()
	snap.RenderCartList([]cart.LineItem{{Name: "A", UnitPrice: 1, Quantity: 1}})
	snap.RenderFieldError(enums.CustomerFieldName, true)

	state := snap.State()
	state.Cart.Items[0].Name = "mutated"
	state.FieldErrors[enums.CustomerFieldName] = false

	again := snap.State()
	assert.Equal(t, "A", again.Cart.Items[0].Name)
	assert.True(t, again.FieldErrors[enums.CustomerFieldName])
}

func TestSnapshotConcurrentUse(t *testing.T) {
	snap := NewSnapshot()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			snap.NotifyUser("n")
			snap.SetControlBusy(enums.ControlConfirmPayment, true)
		}()
		go func() {
			defer wg.Done()
			_ = snap.State()
		}()
	}
	wg.Wait()
}

func TestNopSatisfiesView(t *testing.T) {
	var v View = Nop{}
	v.NotifyUser("ignored")
	v.Navigate("ignored")
}
