package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// SessionHeader carries the shopper session id in both directions.
const SessionHeader = "X-Session-Id"

// SessionResolver finds or creates the session for an id.
type SessionResolver interface {
	Resolve(id string) (*storefront.Session, bool, error)
}

// Session resolves the shopper session from SessionHeader, creating one when
// the header is missing or unknown, and echoes the effective id back.
func Session(resolver SessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
				return
			}

			session, created, err := resolver.Resolve(strings.TrimSpace(r.Header.Get(SessionHeader)))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve session"))
				return
			}

			w.Header().Set(SessionHeader, session.ID)

			ctx := WithSession(r.Context(), session)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, session.ID)
				if created {
					logg.Info(ctx, "session.created")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
