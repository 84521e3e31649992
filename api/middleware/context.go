package middleware

import (
	"context"

	"github.com/angelmondragon/storefront/internal/storefront"
)

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxSession   contextKey = "session"
)

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// SessionFromContext returns the shopper session resolved for the request.
func SessionFromContext(ctx context.Context) *storefront.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*storefront.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the shopper session and its id into the context.
func WithSession(ctx context.Context, session *storefront.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if session == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxSessionID, session.ID)
	return context.WithValue(ctx, ctxSession, session)
}
