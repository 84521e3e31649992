package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// OutcomeResolver delivers a payment widget callback to the waiting attempt.
type OutcomeResolver interface {
	Resolve(token string, kind enums.PaymentOutcome, result json.RawMessage) error
}

type confirmResponse struct {
	OrderID     string              `json:"order_id"`
	Token       string              `json:"token"`
	RedirectURL string              `json:"redirect_url,omitempty"`
	Amount      int64               `json:"amount"`
	State       enums.CheckoutState `json:"state"`
}

type outcomeRequest struct {
	Token   string          `json:"token" validate:"required"`
	Outcome string          `json:"outcome" validate:"required,oneof=success pending error close"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// CheckoutOpen shows the checkout surface for the session cart.
func CheckoutOpen(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		if err := session.Checkout.Open(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.State())
	}
}

// CheckoutClose dismisses the checkout surface without touching the cart.
func CheckoutClose(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		if err := session.Checkout.Close(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.State())
	}
}

// CheckoutConfirm submits the order and returns the payment token the widget
// should be opened with. The outcome arrives later through CheckoutOutcome.
func CheckoutConfirm(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r, logg)
		if !ok {
			return
		}

		attempt, err := session.Checkout.Confirm(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, confirmResponse{
			OrderID:     attempt.OrderID,
			Token:       attempt.Token,
			RedirectURL: attempt.RedirectURL,
			Amount:      attempt.Amount,
			State:       attempt.State(),
		})
	}
}

// CheckoutOutcome is called by the payment page when the widget reports.
func CheckoutOutcome(resolver OutcomeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment widget unavailable"))
			return
		}

		var payload outcomeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind := enums.PaymentOutcome(payload.Outcome)
		if err := resolver.Resolve(payload.Token, kind, payload.Result); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"token": payload.Token, "outcome": kind.String()})
	}
}
