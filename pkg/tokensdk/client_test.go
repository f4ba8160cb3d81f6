package tokensdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tokensmith/pkg/tokensdk"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *tokensdk.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return tokensdk.NewClient(srv.URL+"/", "test-key")
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/tokens", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req tokensdk.GenerateTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "client-1", req.ClientID)
		require.Equal(t, "alice", req.Claims["sub"])
		require.EqualValues(t, 60, req.TTLSeconds)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokensdk.GenerateTokenResponse{
			Token: "a.b.c", TokenType: "JWS", Kind: "jws", ExpiresIn: 60,
		})
	})

	got, err := c.GenerateToken(context.Background(), tokensdk.GenerateTokenRequest{
		ClientID:   "client-1",
		Claims:     map[string]any{"sub": "alice"},
		TTLSeconds: 60,
	})
	require.NoError(t, err)
	require.Equal(t, "a.b.c", got.Token)
	require.Equal(t, "jws", got.Kind)
}

func TestAPIErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"expired", http.StatusUnauthorized, `{"error":"token_expired","error_description":"token has expired"}`, tokensdk.ErrTokenExpired},
		{"invalid", http.StatusUnauthorized, `{"error":"invalid_token"}`, tokensdk.ErrInvalidToken},
		{"not found", http.StatusNotFound, `{"error":"not_found"}`, tokensdk.ErrNotFound},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, tokensdk.ErrServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.GetPayload(context.Background(), "client-1", "a.b.c")
			require.ErrorIs(t, err, tc.want)

			var apiErr *tokensdk.APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tc.status, apiErr.StatusCode)
		})
	}
}

func TestClientOperations(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /v1/clients":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(tokensdk.ClientResponse{
				Client:          tokensdk.ClientInfo{ID: "c1", Name: "billing", TokenType: "JWS"},
				SignatureSecret: "generated",
			})
		case "GET /v1/clients/c1":
			_ = json.NewEncoder(w).Encode(tokensdk.ClientInfo{ID: "c1", Name: "billing"})
		case "PUT /v1/clients/c1/secrets":
			_ = json.NewEncoder(w).Encode(tokensdk.ClientResponse{Client: tokensdk.ClientInfo{ID: "c1"}})
		case "DELETE /v1/clients/c1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not_found"}`))
		}
	})
	ctx := context.Background()

	created, err := c.CreateClient(ctx, tokensdk.CreateClientRequest{Name: "billing", TokenType: "JWS", SignatureAlgorithm: "HS256"})
	require.NoError(t, err)
	require.Equal(t, "generated", created.SignatureSecret)

	info, err := c.GetClient(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "billing", info.Name)

	_, err = c.RotateSecrets(ctx, "c1", tokensdk.RotateSecretsRequest{})
	require.NoError(t, err)

	require.NoError(t, c.DeleteClient(ctx, "c1"))
	require.ErrorIs(t, c.DeleteClient(ctx, "c2"), tokensdk.ErrNotFound)
}
