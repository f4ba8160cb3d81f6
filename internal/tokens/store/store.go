package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it
// and expose sub-repositories, which keeps transactions from nesting.
type Store interface {
	Clients() Clients

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Clients interface {
	// CreateClient inserts a new client. Names are unique; a clash returns
	// ErrAlreadyExists.
	CreateClient(ctx context.Context, c domain.Client) error

	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// ListClients returns all clients ordered by creation date (newest first).
	ListClients(ctx context.Context) ([]domain.Client, error)

	// UpdateClientSecrets replaces the sealed secrets and bumps updated_at.
	UpdateClientSecrets(ctx context.Context, id string, secrets domain.SealedSecrets) error

	DeleteClient(ctx context.Context, id string) error

	// IsEmpty returns true if there are no clients.
	IsEmpty(ctx context.Context) (bool, error)
}
