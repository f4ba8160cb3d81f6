package httpx

import "context"

type ctxKey string

// CtxKeyCaller holds the fingerprint of the API key that authenticated the request.
const CtxKeyCaller ctxKey = "caller"

// CallerFromContext returns the caller fingerprint set by APIKeyMiddleware.
func CallerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyCaller).(string); ok {
		return v
	}
	return ""
}

func contextWithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, CtxKeyCaller, caller)
}
