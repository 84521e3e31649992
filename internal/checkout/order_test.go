package checkout

import (
	"net/url"
	"sync"
	"testing"
	"time"
)

func TestOrderIDsStrictlyIncrease(t *testing.T) {
	now := time.UnixMilli(1000)
	ids := NewOrderIDs(func() time.Time { return now })

	first := ids.Next()
	second := ids.Next()
	now = time.UnixMilli(5000)
	third := ids.Next()
	now = time.UnixMilli(10)
	fourth := ids.Next()

	want := []string{"ORDER-1000", "ORDER-1001", "ORDER-5000", "ORDER-5001"}
	for i, got := range []string{first, second, third, fourth} {
		if got != want[i] {
			t.Fatalf("id %d: expected %s got %s", i, want[i], got)
		}
	}
}

func TestOrderIDsUniqueUnderConcurrency(t *testing.T) {
	ids := NewOrderIDs(func() time.Time { return time.UnixMilli(42) })
	var mu sync.Mutex
	seen := map[string]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := ids.Next()
			mu.Lock()
			defer mu.Unlock()
			if seen[id] {
				t.Errorf("duplicate id %s", id)
			}
			seen[id] = true
		}()
	}
	wg.Wait()
}

func TestConfirmationURLCarriesAllFields(t *testing.T) {
	c := Confirmation{ExternalID: "X1", Phone: "0812", Name: "Ana Maria", OrderID: "ORDER-1", Amount: 350000}

	for _, base := range []string{"verifed.html", "https://shop.test/verifed.html?ref=ads"} {
		parsed, err := url.Parse(c.URL(base))
		if err != nil {
			t.Fatalf("parse %s: %v", base, err)
		}
		query := parsed.Query()
		expected := map[string]string{
			"feedioId": "X1",
			"phone":    "0812",
			"name":     "Ana Maria",
			"orderId":  "ORDER-1",
			"amount":   "350000",
		}
		for key, value := range expected {
			if got := query.Get(key); got != value {
				t.Fatalf("%s: expected %s=%q got %q", base, key, value, got)
			}
		}
		if base != "verifed.html" && query.Get("ref") != "ads" {
			t.Fatalf("existing query parameters should be kept")
		}
	}
}
