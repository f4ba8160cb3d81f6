package httpx

import (
	"net/http"
	"strings"
	"sync"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/slogx"
)

// callerPrefixLen is how much of the key fingerprint identifies a caller in
// logs and rate-limit keys.
const callerPrefixLen = 12

// APIKeyMiddleware requires "Authorization: Bearer <key>" where key matches
// the argon2id hash produced by cryptox.HashAPIKey.
//
// Hashing is deliberately slow, so keys that verified once are remembered by
// fingerprint for the lifetime of the middleware.
func APIKeyMiddleware(encodedHash string) Middleware {
	var verified sync.Map // fingerprint -> struct{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			key, ok := bearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			fp := cryptox.Fingerprint([]byte(key))
			if _, hit := verified.Load(fp); !hit {
				if err := cryptox.VerifyAPIKey(key, encodedHash); err != nil {
					log.Warn("api key rejected", "err", err)
					writeBearerError(w, "invalid api key")
					return
				}
				verified.Store(fp, struct{}{})
			}

			caller := fp[:callerPrefixLen]
			ctx = contextWithCaller(ctx, caller)
			ctx = slogx.With(ctx, "caller", caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
