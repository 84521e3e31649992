package payment

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// Outcome is the single result a payment widget delivers for one token.
type Outcome struct {
	Kind   enums.PaymentOutcome `json:"kind"`
	Result json.RawMessage      `json:"result,omitempty"`
}

// Widget presents the payment UI for a token. The returned channel yields
// exactly one Outcome and is then closed. Pay fails when the widget is not
// available.
type Widget interface {
	Pay(ctx context.Context, token string) (<-chan Outcome, error)
}

// WidgetFunc adapts a function to the Widget interface.
type WidgetFunc func(ctx context.Context, token string) (<-chan Outcome, error)

// Pay calls f.
func (f WidgetFunc) Pay(ctx context.Context, token string) (<-chan Outcome, error) {
	return f(ctx, token)
}

// Resolved returns a closed channel already holding o.
func Resolved(o Outcome) <-chan Outcome {
	ch := make(chan Outcome, 1)
	ch <- o
	close(ch)
	return ch
}
