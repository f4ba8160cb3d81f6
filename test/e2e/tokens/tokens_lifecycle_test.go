package tokens_test

import (
	"testing"

	"github.com/aussiebroadwan/tokensmith/pkg/tokensdk"
	"github.com/stretchr/testify/require"
)

// TestTokenLifecycle issues and reads back a token for every token type.
func TestTokenLifecycle(t *testing.T) {
	svc := setupService(t)
	client := svc.Client()

	tests := []struct {
		name string
		req  tokensdk.CreateClientRequest
		kind string
	}{
		{
			name: "signed",
			req:  tokensdk.CreateClientRequest{Name: "signed", TokenType: "JWS", SignatureAlgorithm: "HS256"},
			kind: "jws",
		},
		{
			name: "nested with rsa keys",
			req: tokensdk.CreateClientRequest{
				Name: "nested", TokenType: "JWE", SignatureAlgorithm: "RS256",
				EncryptionAlgorithm: "RSA-OAEP-256", EncryptionMethod: "A256GCM",
			},
			kind: "jwe",
		},
		{
			name: "enveloped signed",
			req:  tokensdk.CreateClientRequest{Name: "enveloped-signed", TokenType: "ENCRYPTED_JWS", SignatureAlgorithm: "HS512"},
			kind: "none",
		},
		{
			name: "enveloped nested with ecdh",
			req: tokensdk.CreateClientRequest{
				Name: "enveloped-nested", TokenType: "ENCRYPTED_JWE", SignatureAlgorithm: "HS384",
				EncryptionAlgorithm: "ECDH-1PU+A128KW", EncryptionMethod: "A128CBC-HS256",
			},
			kind: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			created := createClient(t, client, tt.req)

			issued, err := client.GenerateToken(ctx, tokensdk.GenerateTokenRequest{
				ClientID:   created.Client.ID,
				Claims:     map[string]any{"sub": "user-1", "role": "admin"},
				TTLSeconds: 120,
			})
			require.NoError(t, err)
			require.NotEmpty(t, issued.Token)
			require.Equal(t, tt.req.TokenType, issued.TokenType)
			require.Equal(t, tt.kind, issued.Kind)
			require.EqualValues(t, 120, issued.ExpiresIn)

			kind, err := client.Classify(ctx, issued.Token)
			require.NoError(t, err)
			require.Equal(t, tt.kind, kind)

			claims, err := client.GetPayload(ctx, created.Client.ID, issued.Token)
			require.NoError(t, err)
			require.Equal(t, "user-1", claims["sub"])
			require.Equal(t, "admin", claims["role"])
			require.Contains(t, claims, "iat")
			require.Contains(t, claims, "exp")
		})
	}
}

// TestRotateSecrets checks tokens issued before a rotation stop validating.
func TestRotateSecrets(t *testing.T) {
	svc := setupService(t)
	client := svc.Client()
	ctx := t.Context()

	created := createClient(t, client, tokensdk.CreateClientRequest{
		Name: "rotating", TokenType: "JWE", SignatureAlgorithm: "HS256",
		EncryptionAlgorithm: "dir", EncryptionMethod: "A256GCM",
	})

	before, err := client.GenerateToken(ctx, tokensdk.GenerateTokenRequest{ClientID: created.Client.ID})
	require.NoError(t, err)

	rotated, err := client.RotateSecrets(ctx, created.Client.ID, tokensdk.RotateSecretsRequest{})
	require.NoError(t, err)
	require.NotEqual(t, created.Client.SignatureFingerprint, rotated.Client.SignatureFingerprint)
	require.NotEqual(t, created.Client.EncryptionFingerprint, rotated.Client.EncryptionFingerprint)

	_, err = client.GetPayload(ctx, created.Client.ID, before.Token)
	require.ErrorIs(t, err, tokensdk.ErrInvalidToken)

	after, err := client.GenerateToken(ctx, tokensdk.GenerateTokenRequest{ClientID: created.Client.ID})
	require.NoError(t, err)
	_, err = client.GetPayload(ctx, created.Client.ID, after.Token)
	require.NoError(t, err)
}

// TestClientManagement covers listing, fetching and deleting clients.
func TestClientManagement(t *testing.T) {
	svc := setupService(t)
	client := svc.Client()
	ctx := t.Context()

	a := createClient(t, client, tokensdk.CreateClientRequest{Name: "alpha", TokenType: "JWS", SignatureAlgorithm: "HS256"})
	createClient(t, client, tokensdk.CreateClientRequest{Name: "beta", TokenType: "ENCRYPTED_JWS", SignatureAlgorithm: "RS512"})

	list, err := client.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list.Clients, 2)

	info, err := client.GetClient(ctx, a.Client.ID)
	require.NoError(t, err)
	require.Equal(t, "alpha", info.Name)
	require.Equal(t, a.Client.SignatureFingerprint, info.SignatureFingerprint)

	_, err = client.CreateClient(ctx, tokensdk.CreateClientRequest{Name: "alpha", TokenType: "JWS", SignatureAlgorithm: "HS256"})
	require.ErrorIs(t, err, tokensdk.ErrConflict)

	require.NoError(t, client.DeleteClient(ctx, a.Client.ID))

	_, err = client.GetClient(ctx, a.Client.ID)
	require.ErrorIs(t, err, tokensdk.ErrNotFound)

	_, err = client.GenerateToken(ctx, tokensdk.GenerateTokenRequest{ClientID: a.Client.ID})
	require.ErrorIs(t, err, tokensdk.ErrNotFound)
}
