package enums

// CheckoutState tracks where a checkout attempt sits in its lifecycle.
type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "IDLE"
	CheckoutStateListReview CheckoutState = "LIST_REVIEW"
	CheckoutStateSubmitting CheckoutState = "SUBMITTING"
	CheckoutStateSuccess    CheckoutState = "SUCCESS"
	CheckoutStatePending    CheckoutState = "PENDING"
	CheckoutStateFailed     CheckoutState = "FAILED"
	CheckoutStateCancelled  CheckoutState = "CANCELLED"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateListReview,
	CheckoutStateSubmitting,
	CheckoutStateSuccess,
	CheckoutStatePending,
	CheckoutStateFailed,
	CheckoutStateCancelled,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an attempt in this state has finished.
func (c CheckoutState) IsTerminal() bool {
	switch c {
	case CheckoutStateSuccess, CheckoutStatePending, CheckoutStateFailed, CheckoutStateCancelled:
		return true
	}
	return false
}
