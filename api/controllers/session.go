package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// SessionState returns the shopper's cart, form, checkout and view state.
// Notices queued for the shopper are delivered once.
func SessionState(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, session.State())
	}
}

func currentSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*storefront.Session, bool) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
		return nil, false
	}
	return session, true
}
