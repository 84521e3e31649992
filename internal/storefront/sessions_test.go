package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/internal/payment"
	"github.com/angelmondragon/storefront/internal/stock"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type stubTransactions struct{}

func (stubTransactions) CreateTransaction(_ context.Context, req payment.TransactionRequest) (*payment.TransactionResponse, error) {
	return &payment.TransactionResponse{Token: "tok-" + req.OrderID}, nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newSessions(t *testing.T) (*Sessions, *stock.Registry, *clock, *payment.Bridge) {
	t.Helper()
	products, err := stock.NewRegistry(config.Catalog{
		{Name: "Google Ultra", StockKey: "googleUltra", UnitPrice: 150000},
		{Name: "Firefly", StockKey: "firefly", UnitPrice: 50000},
	})
	require.NoError(t, err)
	clk := &clock{now: time.UnixMilli(1700000000000)}
	bridge := payment.NewBridge()
	sessions, err := NewSessions(Deps{
		Products:     products,
		Transactions: stubTransactions{},
		Widget:       bridge,
		Clock:        clk.Now,
	})
	require.NoError(t, err)
	return sessions, products, clk, bridge
}

func TestResolveCreatesAndReusesSessions(t *testing.T) {
	sessions, _, _, _ := newSessions(t)

	first, created, err := sessions.Resolve("")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)

	again, created, err := sessions.Resolve(first.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, first, again)

	other, created, err := sessions.Resolve("unknown")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "unknown", other.ID)
	assert.Equal(t, 2, sessions.Len())
}

func TestAddToCartUsesCatalogPriceAndRefusesSoldOut(t *testing.T) {
	sessions, products, _, _ := newSessions(t)
	session, err := sessions.Create()
	require.NoError(t, err)

	require.NoError(t, session.AddToCart("Firefly", 2))
	require.NoError(t, session.AddToCart("Firefly", 3))
	items := session.Cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, int64(50000), items[0].UnitPrice)

	assert.True(t, pkgerrors.Is(session.AddToCart("Nope", 1), pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.Is(session.AddToCart("Firefly", 0), pkgerrors.CodeValidation))

	products.MarkSoldOut("googleUltra")
	assert.True(t, pkgerrors.Is(session.AddToCart("Google Ultra", 1), pkgerrors.CodeStateConflict))

	state := session.State()
	assert.Equal(t, 5, state.View.Cart.TotalItems)
	assert.Equal(t, int64(250000), state.View.Cart.TotalPrice)
}

func TestSoldOutReachesNewAndExistingSessions(t *testing.T) {
	sessions, products, _, _ := newSessions(t)
	existing, err := sessions.Create()
	require.NoError(t, err)

	products.MarkSoldOut("googleUltra")
	sessions.DisableProductControl("Google Ultra")

	fresh, err := sessions.Create()
	require.NoError(t, err)

	assert.Equal(t, []string{"Google Ultra"}, existing.State().View.DisabledProducts)
	assert.Equal(t, []string{"Google Ultra"}, fresh.State().View.DisabledProducts)
}

func TestSessionStateReportsCheckoutAndAttempt(t *testing.T) {
	sessions, _, _, bridge := newSessions(t)
	session, err := sessions.Create()
	require.NoError(t, err)

	state := session.State()
	assert.Equal(t, enums.CheckoutStateIdle, state.CheckoutState)
	assert.False(t, state.ConfirmEnabled)
	assert.Nil(t, state.LastAttempt)
	assert.Len(t, state.Customer, len(enums.CustomerFields))

	require.NoError(t, session.AddToCart("Firefly", 1))
	for field, value := range map[enums.CustomerField]string{
		enums.CustomerFieldName:       "Ana",
		enums.CustomerFieldPhone:      "0812",
		enums.CustomerFieldEmail:      "ana@gmail.com",
		enums.CustomerFieldExternalID: "X1",
	} {
		require.NoError(t, session.Form.Set(field, value))
	}
	require.NoError(t, session.Checkout.Open(context.Background()))
	attempt, err := session.Checkout.Confirm(context.Background())
	require.NoError(t, err)

	state = session.State()
	require.NotNil(t, state.LastAttempt)
	assert.Equal(t, enums.CheckoutStateSubmitting, state.LastAttempt.State)
	assert.False(t, state.LastAttempt.Finished)
	assert.Equal(t, "tok-ORDER-1700000000000", state.LastAttempt.Token)
	assert.Equal(t, []string{"tok-ORDER-1700000000000"}, bridge.Pending())

	require.NoError(t, bridge.Resolve(attempt.Token, enums.PaymentOutcomeSuccess, nil))
	<-attempt.Done()
	state = session.State()
	assert.Equal(t, enums.CheckoutStateSuccess, state.CheckoutState)
	assert.True(t, state.LastAttempt.Finished)
	assert.Zero(t, state.View.Cart.TotalItems)
	assert.Contains(t, state.View.NavigateTo, "orderId=ORDER-1700000000000")
}

func TestSweepDropsIdleSessionsButKeepsInFlight(t *testing.T) {
	sessions, _, clk, bridge := newSessions(t)
	idle, err := sessions.Create()
	require.NoError(t, err)
	busy, err := sessions.Create()
	require.NoError(t, err)

	require.NoError(t, busy.AddToCart("Firefly", 1))
	for field, value := range map[enums.CustomerField]string{
		enums.CustomerFieldName:       "Ana",
		enums.CustomerFieldPhone:      "0812",
		enums.CustomerFieldEmail:      "ana@gmail.com",
		enums.CustomerFieldExternalID: "X1",
	} {
		require.NoError(t, busy.Form.Set(field, value))
	}
	require.NoError(t, busy.Checkout.Open(context.Background()))
	attempt, err := busy.Checkout.Confirm(context.Background())
	require.NoError(t, err)

	clk.now = clk.now.Add(time.Hour)
	fresh, err := sessions.Create()
	require.NoError(t, err)

	assert.Equal(t, 1, sessions.Sweep(context.Background(), 30*time.Minute))
	_, ok := sessions.Get(idle.ID)
	assert.False(t, ok)
	_, ok = sessions.Get(busy.ID)
	assert.True(t, ok)
	_, ok = sessions.Get(fresh.ID)
	assert.True(t, ok)

	require.NoError(t, bridge.Resolve(attempt.Token, enums.PaymentOutcomeError, nil))
	<-attempt.Done()
	clk.now = clk.now.Add(time.Hour)
	assert.Equal(t, 2, sessions.Sweep(context.Background(), 30*time.Minute))
	_, ok = sessions.Get(busy.ID)
	assert.False(t, ok)
}

func TestNewSessionsRequiresDependencies(t *testing.T) {
	_, err := NewSessions(Deps{})
	assert.Error(t, err)
}

func TestRunSweeperStopsWithContext(t *testing.T) {
	sessions, _, _, _ := newSessions(t)

	assert.NoError(t, sessions.RunSweeper(context.Background(), 0, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sessions.RunSweeper(ctx, time.Millisecond, time.Minute) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
