package enums

import "testing"

func TestCheckoutStateIsTerminal(t *testing.T) {
	terminal := map[CheckoutState]bool{
		CheckoutStateIdle:       false,
		CheckoutStateListReview: false,
		CheckoutStateSubmitting: false,
		CheckoutStateSuccess:    true,
		CheckoutStatePending:    true,
		CheckoutStateFailed:     true,
		CheckoutStateCancelled:  true,
	}
	for state, want := range terminal {
		if state.IsTerminal() != want {
			t.Fatalf("%s terminal=%v want %v", state, state.IsTerminal(), want)
		}
	}
}

func TestParseReportedStockStatus(t *testing.T) {
	cases := map[string]StockStatus{
		"Sold Out":  StockStatusSoldOut,
		"SOLD OUT":  StockStatusSoldOut,
		"sold out":  StockStatusSoldOut,
		"Available": StockStatusAvailable,
		"":          StockStatusAvailable,
		"sold-out":  StockStatusAvailable,
	}
	for label, want := range cases {
		if got := ParseReportedStockStatus(label); got != want {
			t.Fatalf("label %q: expected %s got %s", label, want, got)
		}
	}
}

func TestParsePaymentOutcome(t *testing.T) {
	if got, err := ParsePaymentOutcome("pending"); err != nil || got != PaymentOutcomePending {
		t.Fatalf("unexpected parse result %s err=%v", got, err)
	}
	if _, err := ParsePaymentOutcome("refund"); err == nil {
		t.Fatalf("expected error for unknown outcome")
	}
}

func TestParseCustomerField(t *testing.T) {
	if got, err := ParseCustomerField("external_id"); err != nil || got != CustomerFieldExternalID {
		t.Fatalf("unexpected parse result %s err=%v", got, err)
	}
	if CustomerField("address").IsValid() {
		t.Fatalf("address is not a form field")
	}
}
