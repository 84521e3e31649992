// Package types holds the JSON envelopes every storefront endpoint answers
// with.
package types

// SuccessEnvelope wraps a payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public part of a failure. Code is one of the pkg/errors
// codes; Details is only filled for codes whose metadata allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps a failure as {"error": {...}}. RequestID echoes the
// X-Request-Id of the failed call so a shopper's report can be matched to
// server logs.
type ErrorEnvelope struct {
	Error     APIError `json:"error"`
	RequestID string   `json:"request_id,omitempty"`
}
