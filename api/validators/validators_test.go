package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type addItemBody struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Outcome  string `json:"outcome,omitempty" validate:"omitempty,oneof=success pending"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Firefly","quantity":2}`))
	var body addItemBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Name != "Firefly" || body.Quantity != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"","quantity":0,"outcome":"refund"}`))
	var body addItemBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	want := map[string]string{
		"name":     "is required",
		"quantity": "must be greater than or equal to 1",
		"outcome":  "must be one of [success pending]",
	}
	for field, msg := range want {
		if details[field] != msg {
			t.Fatalf("%s: expected %q got %q", field, msg, details[field])
		}
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Firefly","quantity":1,"price":1}`))
	var body addItemBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Ana  ", 0); got != "Ana" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("expected truncated value, got %q", got)
	}
}

func TestSanitizeStringIsRuneSafe(t *testing.T) {
	if got := SanitizeString("Añá", 2); got != "Añ" {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
	if got := SanitizeString("An\x00a\n", 0); got != "Ana" {
		t.Fatalf("expected control characters removed, got %q", got)
	}
}
