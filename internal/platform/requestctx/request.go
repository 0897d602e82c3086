// Package requestctx carries request correlation identifiers through context
// so transport handlers and ceremony logs can stitch activity together without
// touching domain payloads.
package requestctx

import "context"

// RequestIDHeader is the HTTP header for request correlation IDs. Inbound
// values are accepted when printable ASCII; the daemon echoes the final ID
// back on every response.
const RequestIDHeader = "X-Request-ID"

// requestIDContextKey is the context key for the request correlation ID.
type requestIDContextKey struct{}

// WithRequestID stores a request correlation ID in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request correlation ID stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}

// IsPrintableASCII reports whether a string contains only printable ASCII
// characters. Control characters are rejected so inherited IDs stay safe for
// log lines and response headers.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}
