package payment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func TestBridgeDeliversOutcomeOnce(t *testing.T) {
	bridge := NewBridge()
	ch, err := bridge.Pay(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1"}, bridge.Pending())

	result := json.RawMessage(`{"transaction_status":"settlement"}`)
	require.NoError(t, bridge.Resolve("tok-1", enums.PaymentOutcomeSuccess, result))

	outcome, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, enums.PaymentOutcomeSuccess, outcome.Kind)
	assert.JSONEq(t, string(result), string(outcome.Result))

	_, ok = <-ch
	assert.False(t, ok, "channel should be closed after one outcome")
	assert.Empty(t, bridge.Pending())

	err = bridge.Resolve("tok-1", enums.PaymentOutcomeError, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestBridgeRejectsUnknownTokenAndOutcome(t *testing.T) {
	bridge := NewBridge()
	assert.True(t, pkgerrors.Is(bridge.Resolve("missing", enums.PaymentOutcomeClosed, nil), pkgerrors.CodeNotFound))

	_, err := bridge.Pay(context.Background(), "tok-2")
	require.NoError(t, err)
	assert.True(t, pkgerrors.Is(bridge.Resolve("tok-2", "refund", nil), pkgerrors.CodeValidation))
	assert.Equal(t, []string{"tok-2"}, bridge.Pending())
}

func TestBridgePayValidation(t *testing.T) {
	bridge := NewBridge()
	_, err := bridge.Pay(context.Background(), " ")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeIntegration))

	_, err = bridge.Pay(context.Background(), "dup")
	require.NoError(t, err)
	_, err = bridge.Pay(context.Background(), "dup")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))
}

func TestResolvedAndWidgetFunc(t *testing.T) {
	widget := WidgetFunc(func(context.Context, string) (<-chan Outcome, error) {
		return Resolved(Outcome{Kind: enums.PaymentOutcomePending}), nil
	})
	ch, err := widget.Pay(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentOutcomePending, (<-ch).Kind)
}
