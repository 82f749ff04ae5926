// Package utils provides small helpers shared across the client: context
// keys, the preconfigured HTTP client, access-token claim decoding, id
// generation and JSON response writing.
package utils

import (
	"context"
)

// contextKey is a private type for context keys so that they never collide
// with string keys of other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// RequestIDCtxKey stores the correlation id sent as X-Request-Id.
var RequestIDCtxKey = contextKey("requestID")

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDCtxKey, id)
}

// GetRequestIDFromContext returns the request id stored in ctx.
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDCtxKey).(string)
	return id, ok && id != ""
}
