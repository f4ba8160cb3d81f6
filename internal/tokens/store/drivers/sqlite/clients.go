package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
)

const clientColumns = `id, name, token_type, sig_alg, sig_secret, sig_fingerprint,
	enc_alg, enc_method, enc_secret, enc_fingerprint, created_at, updated_at`

type clientsRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c                    domain.Client
		tokenType, sigAlg    string
		encAlg, encMethod    string
		sigSecret, encSecret []byte
		sigFP, encFP         string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(
		&c.ID, &c.Name, &tokenType, &sigAlg, &sigSecret, &sigFP,
		&encAlg, &encMethod, &encSecret, &encFP, &createdAt, &updatedAt,
	); err != nil {
		return domain.Client{}, err
	}

	if err := c.TokenType.UnmarshalText([]byte(tokenType)); err != nil {
		return domain.Client{}, fmt.Errorf("client %s: %w", c.ID, err)
	}
	if err := c.SignatureAlgorithm.UnmarshalText([]byte(sigAlg)); err != nil {
		return domain.Client{}, fmt.Errorf("client %s: %w", c.ID, err)
	}
	if err := c.EncryptionAlgorithm.UnmarshalText([]byte(encAlg)); err != nil {
		return domain.Client{}, fmt.Errorf("client %s: %w", c.ID, err)
	}
	if err := c.EncryptionMethod.UnmarshalText([]byte(encMethod)); err != nil {
		return domain.Client{}, fmt.Errorf("client %s: %w", c.ID, err)
	}

	c.Secrets = domain.SealedSecrets{
		Signature:             sigSecret,
		SignatureFingerprint:  sigFP,
		Encryption:            encSecret,
		EncryptionFingerprint: encFP,
	}
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	return c, nil
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	tokenType, err := c.TokenType.MarshalText()
	if err != nil {
		return err
	}
	sigAlg, err := c.SignatureAlgorithm.MarshalText()
	if err != nil {
		return err
	}
	encAlg, err := c.EncryptionAlgorithm.MarshalText()
	if err != nil {
		return err
	}
	encMethod, err := c.EncryptionMethod.MarshalText()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	created, updated := c.CreatedAt, c.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(tokenType), string(sigAlg),
		c.Secrets.Signature, c.Secrets.SignatureFingerprint,
		string(encAlg), string(encMethod),
		nullBytes(c.Secrets.Encryption), c.Secrets.EncryptionFingerprint,
		created.UTC(), updated.UTC(),
	)
	return mapConstraint(err)
}

func (r *clientsRepo) UpdateClientSecrets(ctx context.Context, id string, s domain.SealedSecrets) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE clients
		SET sig_secret = ?, sig_fingerprint = ?, enc_secret = ?, enc_fingerprint = ?, updated_at = ?
		WHERE id = ?`,
		s.Signature, s.SignatureFingerprint,
		nullBytes(s.Encryption), s.EncryptionFingerprint,
		time.Now().UTC(), id,
	))
}

func (r *clientsRepo) DeleteClient(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id))
}

func (r *clientsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return sql.Null[[]byte]{}
	}
	return b
}
