package domain_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenTypeText(t *testing.T) {
	for _, tt := range domain.TokenTypes() {
		t.Run(tt.String(), func(t *testing.T) {
			b, err := tt.MarshalText()
			require.NoError(t, err)

			var back domain.TokenType
			require.NoError(t, back.UnmarshalText(b))
			require.Equal(t, tt, back)
		})
	}

	_, err := domain.ParseTokenType("jws")
	require.ErrorIs(t, err, domain.ErrUnknownTokenType)

	_, err = domain.TokenType(0).MarshalText()
	require.ErrorIs(t, err, domain.ErrUnknownTokenType)
}

func TestTokenTypeShape(t *testing.T) {
	tests := []struct {
		tt        domain.TokenType
		nested    bool
		enveloped bool
	}{
		{domain.TokenTypeJWS, false, false},
		{domain.TokenTypeJWE, true, false},
		{domain.TokenTypeEncryptedJWS, false, true},
		{domain.TokenTypeEncryptedJWE, true, true},
	}
	for _, tc := range tests {
		require.Equal(t, tc.nested, tc.tt.Nested(), tc.tt.String())
		require.Equal(t, tc.enveloped, tc.tt.Enveloped(), tc.tt.String())
	}
	require.Len(t, domain.TokenTypes(), 4)
}

func TestClientCryptoConfigValidate(t *testing.T) {
	signed := domain.ClientCryptoConfig{
		TokenType:          domain.TokenTypeJWS,
		SignatureAlgorithm: jwtx.HS256,
		SignatureSecret:    []byte("s3cr3t"),
	}
	nested := signed
	nested.TokenType = domain.TokenTypeJWE
	nested.EncryptionAlgorithm = jwex.Dir
	nested.EncryptionMethod = jwex.A128CBCHS256
	nested.EncryptionSecret = bytes.Repeat([]byte("k"), 32)

	tests := []struct {
		name    string
		mutate  func(c *domain.ClientCryptoConfig)
		base    domain.ClientCryptoConfig
		wantErr error
	}{
		{name: "signed ok", base: signed},
		{name: "nested ok", base: nested},
		{
			name: "signed ignores encryption fields",
			base: signed,
			mutate: func(c *domain.ClientCryptoConfig) {
				c.EncryptionAlgorithm = jwex.Dir
			},
		},
		{
			name:    "missing token type",
			base:    signed,
			mutate:  func(c *domain.ClientCryptoConfig) { c.TokenType = 0 },
			wantErr: errx.ErrInvalidArgument,
		},
		{
			name:    "missing signature algorithm",
			base:    signed,
			mutate:  func(c *domain.ClientCryptoConfig) { c.SignatureAlgorithm = 0 },
			wantErr: errx.ErrInvalidArgument,
		},
		{
			name:    "missing signature secret",
			base:    signed,
			mutate:  func(c *domain.ClientCryptoConfig) { c.SignatureSecret = nil },
			wantErr: errx.ErrInvalidArgument,
		},
		{
			name:    "missing encryption algorithm",
			base:    nested,
			mutate:  func(c *domain.ClientCryptoConfig) { c.EncryptionAlgorithm = 0 },
			wantErr: jwex.ErrAlgorithmAbsent,
		},
		{
			name:    "missing method",
			base:    nested,
			mutate:  func(c *domain.ClientCryptoConfig) { c.EncryptionMethod = 0 },
			wantErr: jwex.ErrMethodAbsent,
		},
		{
			name: "ecdh-1pu with gcm",
			base: nested,
			mutate: func(c *domain.ClientCryptoConfig) {
				c.EncryptionAlgorithm = jwex.ECDH1PUA128KW
				c.EncryptionMethod = jwex.A128GCM
			},
			wantErr: jwex.ErrIncompatible,
		},
		{
			name:    "missing encryption secret",
			base:    nested,
			mutate:  func(c *domain.ClientCryptoConfig) { c.EncryptionSecret = nil },
			wantErr: errx.ErrInvalidArgument,
		},
		{
			name:    "dir key of the wrong size",
			base:    nested,
			mutate:  func(c *domain.ClientCryptoConfig) { c.EncryptionSecret = []byte("0123456789abcdef") },
			wantErr: jwex.ErrKeySize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.base
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			err := c.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, errx.ErrInvalidArgument)
		})
	}
}

func TestClientCryptoConfigLogValue(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	log.Info("client", "config", domain.ClientCryptoConfig{
		TokenType:           domain.TokenTypeEncryptedJWE,
		SignatureAlgorithm:  jwtx.HS512,
		SignatureSecret:     []byte("super-secret-signing-key"),
		EncryptionAlgorithm: jwex.Dir,
		EncryptionMethod:    jwex.A256GCM,
		EncryptionSecret:    []byte("super-secret-encryption-key-0001"),
	})

	require.NotContains(t, buf.String(), "super-secret")

	var line struct {
		Config map[string]string `json:"config"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, map[string]string{
		"token_type": "ENCRYPTED_JWE",
		"sig_alg":    "HS512",
		"enc_alg":    "dir",
		"enc":        "A256GCM",
	}, line.Config)
}
