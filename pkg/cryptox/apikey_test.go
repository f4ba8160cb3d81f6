package cryptox_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAPIKey(t *testing.T) {
	key, err := cryptox.GenerateAPIKey()
	require.NoError(t, err)
	require.Len(t, key, 43)

	hash, err := cryptox.HashAPIKey(key)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6, "PHC hash should have 6 parts")
	require.Equal(t, "m=19456,t=2,p=1", parts[3])

	require.NoError(t, cryptox.VerifyAPIKey(key, hash))

	// unique salts
	hash2, err := cryptox.HashAPIKey(key)
	require.NoError(t, err)
	require.NotEqual(t, hash, hash2)
	require.NoError(t, cryptox.VerifyAPIKey(key, hash2))

	_, err = cryptox.HashAPIKey("")
	require.Error(t, err)
}

func TestVerifyAPIKey_WrongKey(t *testing.T) {
	hash, err := cryptox.HashAPIKey("correct-key")
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-key", "Correct-Key", "correct-key ", "", strings.Repeat("x", 10000)} {
		err := cryptox.VerifyAPIKey(wrong, hash)
		require.ErrorIs(t, err, cryptox.ErrAPIKeyMismatch, wrong)
	}
}

func TestVerifyAPIKey_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"zero parallelism", "$argon2id$v=19$m=19456,t=2,p=0$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cryptox.VerifyAPIKey("test-key", tt.invalidHash)
			require.Error(t, err)
			require.NotErrorIs(t, err, cryptox.ErrAPIKeyMismatch)
		})
	}
}
