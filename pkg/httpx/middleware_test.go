package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func hashKey(t testing.TB, key string) string {
	t.Helper()
	hash, err := cryptox.HashAPIKey(key)
	require.NoError(t, err)
	return hash
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestAPIKeyMiddleware(t *testing.T) {
	const key = "tk_correct_horse"
	hash := hashKey(t, key)

	var caller string
	h := httpx.APIKeyMiddleware(hash)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller = httpx.CallerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid key", header: "Bearer " + key, want: http.StatusNoContent},
		{name: "scheme is case insensitive", header: "bearer " + key, want: http.StatusNoContent},
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + key, want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer   ", want: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer tk_wrong", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller = ""
			req := httptest.NewRequest(http.MethodPost, "/v1/tokens", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(h, req)
			require.Equal(t, tt.want, rec.Code)

			if tt.want == http.StatusUnauthorized {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
				require.Contains(t, rec.Body.String(), "unauthorized")
				require.Empty(t, caller)
				return
			}
			require.Len(t, caller, 12)
			require.Equal(t, cryptox.Fingerprint([]byte(key))[:12], caller)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "object", payload: `{"name":"alice"}`},
		{name: "unknown field", payload: `{"name":"alice","admin":true}`, wantErr: true},
		{name: "trailing data", payload: `{"name":"alice"}{}`, wantErr: true},
		{name: "not json", payload: `name=alice`, wantErr: true},
		{name: "empty", payload: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var got body
			err := httpx.DecodeJSON(httptest.NewRecorder(), req, &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "alice", got.Name)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, http.StatusBadRequest, "invalid_request", "client_id is required")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"error":"invalid_request","error_description":"client_id is required"}`, rec.Body.String())
}
