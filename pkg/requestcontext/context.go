// Package requestcontext carries per-request values that cross layer
// boundaries: the authenticated principal and the request timestamp.
package requestcontext

import (
	"context"
	"time"

	id "credvault/pkg/domain"
)

type principalKey struct{}
type requestTimeKey struct{}
type requestIDKey struct{}

// WithPrincipal records the authenticated caller. The authentication layer is
// the only writer; services read it via Principal.
func WithPrincipal(ctx context.Context, principal id.PrincipalID) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// Principal returns the authenticated caller, or the zero PrincipalID when the
// request was not authenticated.
func Principal(ctx context.Context) id.PrincipalID {
	if p, ok := ctx.Value(principalKey{}).(id.PrincipalID); ok {
		return p
	}
	return ""
}

// WithRequestTime pins the wall-clock time observed at request ingress so all
// layers agree on "now" for a single request.
func WithRequestTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned request time, falling back to the real clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithRequestID stores the correlation ID assigned at ingress.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the correlation ID, or empty when unset.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
