package payment

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Bridge is a Widget for hosts where the real widget runs in a browser. Pay
// parks a channel under the token and the browser later reports the outcome
// through Resolve.
type Bridge struct {
	mu      sync.Mutex
	pending map[string]chan Outcome
}

// NewBridge returns an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{pending: make(map[string]chan Outcome)}
}

// Pay registers token and returns the channel its outcome will arrive on.
func (b *Bridge) Pay(_ context.Context, token string) (<-chan Outcome, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeIntegration, "Token not received from server")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.pending[token]; ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already in progress for token")
	}
	ch := make(chan Outcome, 1)
	b.pending[token] = ch
	return ch, nil
}

// Resolve delivers the outcome for token. A token resolves at most once;
// unknown or already resolved tokens return NOT_FOUND.
func (b *Bridge) Resolve(token string, kind enums.PaymentOutcome, result json.RawMessage) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment outcome").WithDetails(map[string]any{"outcome": kind})
	}
	b.mu.Lock()
	ch, ok := b.pending[token]
	if ok {
		delete(b.pending, token)
	}
	b.mu.Unlock()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no payment pending for token")
	}
	ch <- Outcome{Kind: kind, Result: result}
	close(ch)
	return nil
}

// Pending lists the tokens still awaiting an outcome, sorted.
func (b *Bridge) Pending() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	tokens := make([]string, 0, len(b.pending))
	for token := range b.pending {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
