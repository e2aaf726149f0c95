// Package server exposes the HTTP API: auth, room management, message
// history, the websocket upgrade, and the operational endpoints.
package server

import (
	"context"
	"net/http"
	"strings"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
)

type ctxKey int

const identityKey ctxKey = iota

// WithIdentity stores the verified caller identity on the context.
func WithIdentity(ctx context.Context, id domain.UserIdentity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom retrieves the verified caller identity, if any.
func IdentityFrom(ctx context.Context) (domain.UserIdentity, bool) {
	id, ok := ctx.Value(identityKey).(domain.UserIdentity)
	return id, ok
}

// RequireAuth verifies the bearer token and passes the identity downstream.
func RequireAuth(verifier contract.IVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, errors.ErrUnauthenticated)
			return
		}
		identity, err := verifier.Verify(r.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, errors.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}
