package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// Attempt is one run of the checkout state machine from confirm to a
// terminal state.
type Attempt struct {
	OrderID string
	Amount  int64
	Token   string

	// RedirectURL is the hosted payment page for clients that cannot run
	// the widget. Empty when the backend did not issue one.
	RedirectURL string

	started time.Time

	mu    sync.Mutex
	state enums.CheckoutState
	err   error
	done  chan struct{}
}

func newAttempt(orderID string, amount int64, started time.Time) *Attempt {
	return &Attempt{
		OrderID: orderID,
		Amount:  amount,
		started: started,
		state:   enums.CheckoutStateSubmitting,
		done:    make(chan struct{}),
	}
}

// Done is closed once the attempt reaches a terminal state.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// State returns SUBMITTING until the attempt resolves, then its terminal state.
func (a *Attempt) State() enums.CheckoutState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Err returns the error that ended a failed attempt.
func (a *Attempt) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Wait blocks until the attempt resolves or ctx ends.
func (a *Attempt) Wait(ctx context.Context) (enums.CheckoutState, error) {
	select {
	case <-a.done:
		return a.State(), nil
	case <-ctx.Done():
		return a.State(), ctx.Err()
	}
}

func (a *Attempt) resolve(state enums.CheckoutState, err error) {
	a.mu.Lock()
	a.state = state
	a.err = err
	a.mu.Unlock()
	close(a.done)
}
