package tokens_test

import (
	"testing"

	"github.com/aussiebroadwan/tokensmith/pkg/tokensdk"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRequired(t *testing.T) {
	svc := setupService(t)

	for name, key := range map[string]string{
		"missing": "",
		"wrong":   "not-the-api-key",
	} {
		t.Run(name, func(t *testing.T) {
			client := tokensdk.NewClient(svc.BaseURL, key)

			_, err := client.ListClients(t.Context())
			require.ErrorIs(t, err, tokensdk.ErrUnauthorized)

			_, err = client.GenerateToken(t.Context(), tokensdk.GenerateTokenRequest{ClientID: "anything"})
			require.ErrorIs(t, err, tokensdk.ErrUnauthorized)
		})
	}
}

// TestTokensAreBoundToTheirClient checks a token from one client never
// validates under another client's policy, even with the same token type.
func TestTokensAreBoundToTheirClient(t *testing.T) {
	svc := setupService(t)
	client := svc.Client()
	ctx := t.Context()

	for _, tokenType := range []string{"JWS", "ENCRYPTED_JWS"} {
		t.Run(tokenType, func(t *testing.T) {
			a := createClient(t, client, tokensdk.CreateClientRequest{Name: "a-" + tokenType, TokenType: tokenType, SignatureAlgorithm: "HS256"})
			b := createClient(t, client, tokensdk.CreateClientRequest{Name: "b-" + tokenType, TokenType: tokenType, SignatureAlgorithm: "HS256"})

			issued, err := client.GenerateToken(ctx, tokensdk.GenerateTokenRequest{ClientID: a.Client.ID})
			require.NoError(t, err)

			_, err = client.GetPayload(ctx, b.Client.ID, issued.Token)
			require.ErrorIs(t, err, tokensdk.ErrInvalidToken)
		})
	}
}

func TestInvalidRequests(t *testing.T) {
	svc := setupService(t)
	client := svc.Client()
	ctx := t.Context()

	tests := []struct {
		name string
		req  tokensdk.CreateClientRequest
		want error
	}{
		{"unknown token type", tokensdk.CreateClientRequest{Name: "x", TokenType: "PASETO", SignatureAlgorithm: "HS256"}, tokensdk.ErrInvalidRequest},
		{"unsupported algorithm", tokensdk.CreateClientRequest{Name: "x", TokenType: "JWS", SignatureAlgorithm: "ES256"}, tokensdk.ErrInvalidRequest},
		{"missing encryption method", tokensdk.CreateClientRequest{Name: "x", TokenType: "JWE", SignatureAlgorithm: "HS256", EncryptionAlgorithm: "dir"}, tokensdk.ErrInvalidRequest},
		{"bad rsa key", tokensdk.CreateClientRequest{Name: "x", TokenType: "JWS", SignatureAlgorithm: "RS256", SignatureSecret: "not a pem"}, tokensdk.ErrCryptoFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateClient(ctx, tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		c := createClient(t, client, tokensdk.CreateClientRequest{Name: "garbage", TokenType: "JWE", SignatureAlgorithm: "HS256", EncryptionAlgorithm: "dir", EncryptionMethod: "A128GCM"})

		_, err := client.GetPayload(ctx, c.Client.ID, "not.a.token")
		require.ErrorIs(t, err, tokensdk.ErrInvalidToken)

		kind, err := client.Classify(ctx, "not.a.token")
		require.NoError(t, err)
		require.Equal(t, "none", kind)
	})
}
