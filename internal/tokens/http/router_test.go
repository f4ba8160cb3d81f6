package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	tokenshttp "github.com/aussiebroadwan/tokensmith/internal/tokens/http"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/service"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/store/drivers/sqlite"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/strategy"
	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
	"github.com/aussiebroadwan/tokensmith/pkg/tokensdk"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, secret string) *cryptox.Envelope {
	t.Helper()
	env, err := cryptox.NewEnvelope([]byte(secret), []byte("tokensmith-test-salt"))
	require.NoError(t, err)
	return env
}

func newRouter(t *testing.T, apiKeyHash string) *tokenshttp.Router {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	registry, err := strategy.NewDefaultRegistry(envelope(t, "strategy-envelope-secret"))
	require.NoError(t, err)

	clients := &service.ClientService{
		Store:    st,
		Envelope: envelope(t, "storage-master-key"),
		Registry: registry,
	}
	cache := service.NewConfigCache(clients, time.Minute)
	clients.OnChange = cache.Invalidate

	r := tokenshttp.NewRouter(apiKeyHash, "test", st, registry, slog.New(slog.DiscardHandler))
	r.ClientService = clients
	r.TokenService = &service.TokenService{Registry: registry, Configs: cache}
	r.ApplyRoutes()
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createClient(t *testing.T, h http.Handler, req tokensdk.CreateClientRequest) tokensdk.ClientResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/clients", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[tokensdk.ClientResponse](t, rec)
}

func TestTokenLifecycle(t *testing.T) {
	r := newRouter(t, "")

	cases := []struct {
		req  tokensdk.CreateClientRequest
		kind string
	}{
		{tokensdk.CreateClientRequest{Name: "signed", TokenType: "JWS", SignatureAlgorithm: "HS256"}, "jws"},
		{tokensdk.CreateClientRequest{
			Name: "nested", TokenType: "JWE", SignatureAlgorithm: "HS384",
			EncryptionAlgorithm: "dir", EncryptionMethod: "A192CBC-HS384",
		}, "jwe"},
		{tokensdk.CreateClientRequest{Name: "sealed", TokenType: "ENCRYPTED_JWS", SignatureAlgorithm: "HS512"}, "none"},
		{tokensdk.CreateClientRequest{
			Name: "sealed-nested", TokenType: "ENCRYPTED_JWE", SignatureAlgorithm: "HS256",
			EncryptionAlgorithm: "ECDH-1PU+A256KW", EncryptionMethod: "A256CBC-HS512",
		}, "none"},
	}

	for _, tc := range cases {
		t.Run(tc.req.TokenType, func(t *testing.T) {
			created := createClient(t, r, tc.req)
			require.NotEmpty(t, created.SignatureSecret)
			require.Equal(t, tc.req.TokenType, created.Client.TokenType)

			rec := do(t, r, http.MethodPost, "/v1/tokens", tokensdk.GenerateTokenRequest{
				ClientID:   created.Client.ID,
				Claims:     map[string]any{"username": "alice"},
				TTLSeconds: 120,
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			issued := decode[tokensdk.GenerateTokenResponse](t, rec)
			require.Equal(t, tc.kind, issued.Kind)
			require.EqualValues(t, 120, issued.ExpiresIn)

			rec = do(t, r, http.MethodPost, "/v1/tokens/payload", tokensdk.PayloadRequest{
				ClientID: created.Client.ID,
				Token:    issued.Token,
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			payload := decode[tokensdk.PayloadResponse](t, rec)
			require.Equal(t, "alice", payload.Claims["username"])
			require.Contains(t, payload.Claims, "exp")

			rec = do(t, r, http.MethodPost, "/v1/tokens/classify", tokensdk.ClassifyRequest{Token: issued.Token})
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tc.kind, decode[tokensdk.ClassifyResponse](t, rec).Kind)
		})
	}
}

func TestTokenErrors(t *testing.T) {
	r := newRouter(t, "")

	signed := createClient(t, r, tokensdk.CreateClientRequest{Name: "a", TokenType: "JWS", SignatureAlgorithm: "HS256"})
	other := createClient(t, r, tokensdk.CreateClientRequest{Name: "b", TokenType: "JWS", SignatureAlgorithm: "HS256"})

	rec := do(t, r, http.MethodPost, "/v1/tokens", tokensdk.GenerateTokenRequest{ClientID: signed.Client.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[tokensdk.GenerateTokenResponse](t, rec).Token

	cases := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown client", "/v1/tokens", tokensdk.GenerateTokenRequest{ClientID: "nope"}, http.StatusNotFound, tokensdk.ErrorCodeNotFound},
		{"missing client id", "/v1/tokens", tokensdk.GenerateTokenRequest{}, http.StatusBadRequest, tokensdk.ErrorCodeInvalidRequest},
		{"negative ttl", "/v1/tokens", tokensdk.GenerateTokenRequest{ClientID: signed.Client.ID, TTLSeconds: -1}, http.StatusBadRequest, tokensdk.ErrorCodeInvalidRequest},
		{"unknown field", "/v1/tokens", map[string]any{"client_id": signed.Client.ID, "scope": "x"}, http.StatusBadRequest, tokensdk.ErrorCodeInvalidRequest},
		{"garbage token", "/v1/tokens/payload", tokensdk.PayloadRequest{ClientID: signed.Client.ID, Token: "garbage"}, http.StatusUnauthorized, tokensdk.ErrorCodeInvalidToken},
		{"another client's token", "/v1/tokens/payload", tokensdk.PayloadRequest{ClientID: other.Client.ID, Token: token}, http.StatusUnauthorized, tokensdk.ErrorCodeInvalidToken},
		{"empty token", "/v1/tokens/payload", tokensdk.PayloadRequest{ClientID: signed.Client.ID}, http.StatusBadRequest, tokensdk.ErrorCodeInvalidRequest},
		{"key wrap with gcm", "/v1/clients", tokensdk.CreateClientRequest{
			Name: "wrap-gcm", TokenType: "ENCRYPTED_JWE", SignatureAlgorithm: "HS256",
			EncryptionAlgorithm: "ECDH-1PU+A256KW", EncryptionMethod: "A256GCM",
		}, http.StatusBadRequest, tokensdk.ErrorCodeInvalidRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			require.Equal(t, tc.code, decode[tokensdk.ErrorResponse](t, rec).Error)
		})
	}
}

func TestTokenTTLIsCapped(t *testing.T) {
	r := newRouter(t, "")
	signed := createClient(t, r, tokensdk.CreateClientRequest{Name: "ttl", TokenType: "JWS", SignatureAlgorithm: "HS256"})

	for _, ttl := range []int64{86401, 9223372037, 18446744104, math.MaxInt64} {
		t.Run(strconv.FormatInt(ttl, 10), func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/v1/tokens", tokensdk.GenerateTokenRequest{
				ClientID:   signed.Client.ID,
				TTLSeconds: ttl,
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			issued := decode[tokensdk.GenerateTokenResponse](t, rec)
			require.EqualValues(t, int64(jwtx.MaxTokenTTL/time.Second), issued.ExpiresIn)

			rec = do(t, r, http.MethodPost, "/v1/tokens/payload", tokensdk.PayloadRequest{
				ClientID: signed.Client.ID,
				Token:    issued.Token,
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			claims := decode[tokensdk.PayloadResponse](t, rec).Claims
			exp, iat := claims["exp"].(float64), claims["iat"].(float64)
			require.InDelta(t, jwtx.MaxTokenTTL.Seconds(), exp-iat, 1)
		})
	}
}

func TestClientEndpoints(t *testing.T) {
	r := newRouter(t, "")

	rsa := createClient(t, r, tokensdk.CreateClientRequest{Name: "rsa", TokenType: "JWS", SignatureAlgorithm: "RS256"})
	require.Contains(t, rsa.SignatureSecret, "PRIVATE KEY")
	require.Empty(t, rsa.Client.EncryptionAlgorithm)

	rec := do(t, r, http.MethodPost, "/v1/clients", tokensdk.CreateClientRequest{Name: "rsa", TokenType: "JWS", SignatureAlgorithm: "HS256"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, "/v1/clients", tokensdk.CreateClientRequest{Name: "bad", TokenType: "JWT", SignatureAlgorithm: "HS256"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/v1/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[tokensdk.ListClientsResponse](t, rec)
	require.Len(t, list.Clients, 1)

	rec = do(t, r, http.MethodGet, "/v1/clients/"+rsa.Client.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "RS256", decode[tokensdk.ClientInfo](t, rec).SignatureAlgorithm)

	rec = do(t, r, http.MethodPut, "/v1/clients/"+rsa.Client.ID+"/secrets", tokensdk.RotateSecretsRequest{SignatureSecret: "not a pem"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, tokensdk.ErrorCodeCryptoFailure, decode[tokensdk.ErrorResponse](t, rec).Error)

	rec = do(t, r, http.MethodPut, "/v1/clients/"+rsa.Client.ID+"/secrets", tokensdk.RotateSecretsRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decode[tokensdk.ClientResponse](t, rec)
	require.NotEqual(t, rsa.Client.SignatureFingerprint, rotated.Client.SignatureFingerprint)

	rec = do(t, r, http.MethodDelete, "/v1/clients/"+rsa.Client.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/v1/clients/"+rsa.Client.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	key, err := cryptox.GenerateAPIKey()
	require.NoError(t, err)
	hash, err := cryptox.HashAPIKey(key)
	require.NoError(t, err)

	r := newRouter(t, hash)

	rec := do(t, r, http.MethodGet, "/v1/clients", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	ok := httptest.NewRecorder()
	r.ServeHTTP(ok, req)
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())

	// health probes stay open
	rec = do(t, r, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	r := newRouter(t, "")

	rec := do(t, r, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[tokensdk.HealthResponse](t, rec).Status)

	rec = do(t, r, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[tokensdk.HealthResponse](t, rec)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "JWS,JWE,ENCRYPTED_JWS,ENCRYPTED_JWE", health.Checks.Registry)
}
