package testutil

import (
	"context"
	"net/http"

	"sportsreg/internal/platform/middleware"
)

// WithSession returns a copy of req carrying an authenticated session for the
// given email and role, as RequireSession would have set it.
func WithSession(req *http.Request, email, role string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyEmail, email)
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, role)
	return req.WithContext(ctx)
}

// WithRequestID returns a copy of req carrying a request ID in its context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyRequestID, requestID)
	return req.WithContext(ctx)
}
