package checkout

import (
	"net/url"
	"strconv"
	"sync"
	"time"
)

const orderIDPrefix = "ORDER-"

// OrderIDs issues time-based order ids that strictly increase. One generator
// may be shared by many orchestrators so ids stay unique across sessions.
type OrderIDs struct {
	mu    sync.Mutex
	clock func() time.Time
	last  int64
}

// NewOrderIDs returns a generator reading the given clock, or time.Now when nil.
func NewOrderIDs(clock func() time.Time) *OrderIDs {
	if clock == nil {
		clock = time.Now
	}
	return &OrderIDs{clock: clock}
}

// Next returns ORDER-<unix millis>, bumped past the previous id when the clock
// has not advanced.
func (g *OrderIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.clock().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return orderIDPrefix + strconv.FormatInt(ms, 10)
}

// Confirmation is the state handed to the post-payment destination.
type Confirmation struct {
	ExternalID string `json:"feedio_id"`
	Phone      string `json:"phone"`
	Name       string `json:"name"`
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
}

// URL appends the confirmation as query parameters to base, keeping any query
// base already carries.
func (c Confirmation) URL(base string) string {
	target, err := url.Parse(base)
	if err != nil {
		target = &url.URL{Path: base}
	}
	query := target.Query()
	query.Set("feedioId", c.ExternalID)
	query.Set("phone", c.Phone)
	query.Set("name", c.Name)
	query.Set("orderId", c.OrderID)
	query.Set("amount", strconv.FormatInt(c.Amount, 10))
	target.RawQuery = query.Encode()
	return target.String()
}
