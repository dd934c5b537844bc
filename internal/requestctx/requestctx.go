package requestctx

import "context"

type contextKey int

const requestIDKey contextKey = iota

// WithRequestID returns a context carrying the correlation ID for one request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
