package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/payment"
	"github.com/angelmondragon/storefront/internal/stock"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Deps are shared by every session.
type Deps struct {
	Products        *stock.Registry
	Transactions    checkout.TransactionCreator
	Widget          payment.Widget
	OrderIDs        *checkout.OrderIDs
	Metrics         checkout.Metrics
	Logger          *logger.Logger
	Clock           func() time.Time
	ConfirmationURL string
}

// Sessions creates and tracks shopper sessions by id.
type Sessions struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions validates deps and returns an empty session set.
func NewSessions(deps Deps) (*Sessions, error) {
	if deps.Products == nil {
		return nil, errors.New("product registry required")
	}
	if deps.Transactions == nil {
		return nil, errors.New("transaction client required")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.OrderIDs == nil {
		deps.OrderIDs = checkout.NewOrderIDs(deps.Clock)
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Sessions{
		deps:     deps,
		sessions: make(map[string]*Session),
	}, nil
}

// Get returns the session with the given id.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		session.touch(r.deps.Clock())
	}
	return session, ok
}

// Resolve returns the session for id, creating a fresh one when id is empty
// or unknown. created reports whether a new session was made.
func (r *Sessions) Resolve(id string) (session *Session, created bool, err error) {
	if id != "" {
		if session, ok := r.Get(id); ok {
			return session, false, nil
		}
	}
	session, err = r.Create()
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// Create starts a new session under a random id. The session is built under
// the write lock so a concurrent sold-out fan-out either reaches it or is
// already visible in the product registry.
func (r *Sessions) Create() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, err := newSession(uuid.NewString(), r.deps, r.deps.Clock())
	if err != nil {
		return nil, err
	}
	r.sessions[session.ID] = session
	return session, nil
}

// Len reports the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// DisableProductControl marks the product sold out in every live session.
func (r *Sessions) DisableProductControl(name string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, session := range r.sessions {
		session.View.DisableProductControl(name)
	}
}

// Sweep drops sessions idle for longer than maxIdle. Sessions with an attempt
// in flight are kept. It returns the number removed.
func (r *Sessions) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := r.deps.Clock().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, session := range r.sessions {
		if session.inFlight() {
			continue
		}
		if session.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.deps.Logger.Info(r.deps.Logger.WithField(ctx, "removed", removed), "idle sessions swept")
	}
	return removed
}

// RunSweeper sweeps every interval until ctx ends.
func (r *Sessions) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) error {
	if interval <= 0 || maxIdle <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(ctx, maxIdle)
		}
	}
}
