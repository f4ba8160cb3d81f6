package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/store/drivers/sqlite"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/strategy"
	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	clients *ClientService
	cache   *ConfigCache
	tokens  *TokenService
}

func envelope(t *testing.T, secret string) *cryptox.Envelope {
	t.Helper()
	env, err := cryptox.NewEnvelope([]byte(secret), []byte("tokensmith-test-salt"))
	require.NoError(t, err)
	return env
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	registry, err := strategy.NewDefaultRegistry(envelope(t, "strategy-envelope-secret"))
	require.NoError(t, err)

	clients := &ClientService{
		Store:    newStore(t),
		Envelope: envelope(t, "storage-master-key"),
		Registry: registry,
	}
	cache := NewConfigCache(clients, time.Minute)
	clients.OnChange = cache.Invalidate

	return fixture{
		clients: clients,
		cache:   cache,
		tokens:  &TokenService{Registry: registry, Configs: cache},
	}
}

var ctx = context.Background()
