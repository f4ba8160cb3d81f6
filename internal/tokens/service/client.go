package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/store"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/strategy"
	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/idx"
	"github.com/aussiebroadwan/tokensmith/pkg/josex"
	"github.com/aussiebroadwan/tokensmith/pkg/slogx"
)

const maxClientName = 128

var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientExists   = errors.New("client name already in use")
	ErrSecretsSealed  = errors.New("client secrets cannot be opened")

	errSelfTestTiming = errors.New("self-test token came back without a valid iat/exp")
)

// GeneratedSecrets holds secret material the service created on the
// caller's behalf. It is returned once and never stored in plaintext.
type GeneratedSecrets struct {
	Signature  []byte
	Encryption []byte
}

// ClientService manages client records. Secrets are sealed with Envelope
// before they reach the store.
type ClientService struct {
	Store    store.Store
	Envelope *cryptox.Envelope
	Registry *strategy.Registry

	// OnChange, when set, is told about every client whose policy changed
	// or disappeared, so caches can drop it.
	OnChange func(clientID string)
}

// CreateClient stores a new client with the crypto policy cfg. Secrets left
// empty in cfg are generated and returned. The policy is exercised with a
// throwaway token before anything is written, so unusable key material is
// rejected here rather than on first use.
func (s *ClientService) CreateClient(
	ctx context.Context,
	name string,
	cfg domain.ClientCryptoConfig,
) (domain.Client, GeneratedSecrets, error) {
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxClientName {
		return domain.Client{}, GeneratedSecrets{}, errx.Invalid("client.create", fmt.Sprintf("name must be 1 to %d characters", maxClientName))
	}

	cfg, generated, err := s.prepare(cfg)
	if err != nil {
		l.Info("client policy rejected", "name", name, "config", cfg, "error", err)
		return domain.Client{}, GeneratedSecrets{}, err
	}

	secrets, err := s.seal(cfg)
	if err != nil {
		l.Error("failed to seal client secrets", "error", err)
		return domain.Client{}, GeneratedSecrets{}, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:                  idx.NewAt(now).String(),
		Name:                name,
		TokenType:           cfg.TokenType,
		SignatureAlgorithm:  cfg.SignatureAlgorithm,
		EncryptionAlgorithm: cfg.EncryptionAlgorithm,
		EncryptionMethod:    cfg.EncryptionMethod,
		Secrets:             secrets,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.Store.Clients().CreateClient(ctx, client); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Client{}, GeneratedSecrets{}, ErrClientExists
		}
		l.Error("failed to create client", "error", err)
		return domain.Client{}, GeneratedSecrets{}, err
	}

	l.Info("client created", "client_id", client.ID, "name", name, "config", cfg)
	return client, generated, nil
}

// ListClients returns all clients, newest first.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.Store.Clients().ListClients(ctx)
}

// GetClient returns one client record. Secrets stay sealed.
func (s *ClientService) GetClient(ctx context.Context, clientID string) (domain.Client, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}
	return client, nil
}

// DeleteClient removes a client. Tokens it issued can no longer be read.
func (s *ClientService) DeleteClient(ctx context.Context, clientID string) error {
	l := slogx.FromContext(ctx)

	if err := s.Store.Clients().DeleteClient(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		l.Error("failed to delete client", "error", err, "client_id", clientID)
		return err
	}
	s.changed(clientID)

	l.Info("client deleted", "client_id", clientID)
	return nil
}

// RotateSecrets replaces a client's secrets, keeping its algorithms. Empty
// inputs are generated. Tokens issued under the old secrets stop verifying.
func (s *ClientService) RotateSecrets(
	ctx context.Context,
	clientID string,
	signatureSecret, encryptionSecret []byte,
) (domain.Client, GeneratedSecrets, error) {
	l := slogx.FromContext(ctx)

	var (
		client    domain.Client
		generated GeneratedSecrets
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Clients().GetClientByID(ctx, clientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrClientNotFound
			}
			return err
		}

		cfg := policy(current)
		cfg.SignatureSecret = signatureSecret
		cfg.EncryptionSecret = encryptionSecret

		cfg, generated, err = s.prepare(cfg)
		if err != nil {
			return err
		}
		secrets, err := s.seal(cfg)
		if err != nil {
			return err
		}
		if err := tx.Clients().UpdateClientSecrets(ctx, clientID, secrets); err != nil {
			return err
		}

		client = current
		client.Secrets = secrets
		client.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrClientNotFound) && errx.KindOf(err) == nil {
			l.Error("failed to rotate client secrets", "error", err, "client_id", clientID)
		}
		return domain.Client{}, GeneratedSecrets{}, err
	}
	s.changed(clientID)

	l.Info("client secrets rotated", "client_id", clientID,
		"sig_fingerprint", client.Secrets.SignatureFingerprint,
		"enc_fingerprint", client.Secrets.EncryptionFingerprint,
	)
	return client, generated, nil
}

// LoadConfig opens the stored policy of a client for use by the engine.
func (s *ClientService) LoadConfig(ctx context.Context, clientID string) (domain.ClientCryptoConfig, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return domain.ClientCryptoConfig{}, err
	}

	cfg := policy(client)
	if cfg.SignatureSecret, err = s.Envelope.OpenBytes(client.Secrets.Signature); err != nil {
		return domain.ClientCryptoConfig{}, fmt.Errorf("%w: %s: %w", ErrSecretsSealed, clientID, err)
	}
	if len(client.Secrets.Encryption) > 0 {
		if cfg.EncryptionSecret, err = s.Envelope.OpenBytes(client.Secrets.Encryption); err != nil {
			return domain.ClientCryptoConfig{}, fmt.Errorf("%w: %s: %w", ErrSecretsSealed, clientID, err)
		}
	}
	return cfg, nil
}

// prepare fills in missing secrets, validates cfg and proves it works.
func (s *ClientService) prepare(cfg domain.ClientCryptoConfig) (domain.ClientCryptoConfig, GeneratedSecrets, error) {
	var generated GeneratedSecrets

	if !cfg.TokenType.Nested() {
		cfg.EncryptionAlgorithm = 0
		cfg.EncryptionMethod = 0
		cfg.EncryptionSecret = nil
	}

	if len(cfg.SignatureSecret) == 0 && cfg.SignatureAlgorithm.Valid() {
		secret, err := josex.GenerateSignatureSecret(cfg.SignatureAlgorithm)
		if err != nil {
			return cfg, generated, errx.New(errx.ErrCryptoFailed, "client.generate", cfg.SignatureAlgorithm.String(), err)
		}
		cfg.SignatureSecret = secret
		generated.Signature = secret
	}

	if cfg.TokenType.Nested() && len(cfg.EncryptionSecret) == 0 && cfg.EncryptionAlgorithm.Valid() {
		secret, err := josex.GenerateEncryptionSecret(cfg.EncryptionAlgorithm, cfg.EncryptionMethod)
		if err == nil {
			cfg.EncryptionSecret = secret
			generated.Encryption = secret
		}
		// an unusable pair is reported by Validate below
	}

	if err := cfg.Validate(); err != nil {
		return cfg, GeneratedSecrets{}, err
	}
	if err := s.selfTest(cfg); err != nil {
		return cfg, GeneratedSecrets{}, err
	}
	return cfg, generated, nil
}

// selfTest issues and reads back a short-lived token under cfg.
func (s *ClientService) selfTest(cfg domain.ClientCryptoConfig) error {
	if s.Registry == nil {
		return nil
	}
	st, ok := s.Registry.Lookup(cfg.TokenType)
	if !ok {
		return errx.Invalid("client.self_test", "no strategy for token type "+cfg.TokenType.String())
	}

	token, err := st.Generate(cfg, map[string]any{"self_test": true}, time.Minute)
	if err != nil {
		return err
	}
	claims, err := st.GetPayload(cfg, token)
	if err != nil {
		return err
	}

	iat, ok := claims.IssuedAt()
	if !ok {
		return errx.New(errx.ErrTokenInvalid, "client.self_test", "", errSelfTestTiming)
	}
	exp, ok := claims.ExpiresAt()
	if !ok || !exp.After(iat) {
		return errx.New(errx.ErrTokenInvalid, "client.self_test", "", errSelfTestTiming)
	}
	return nil
}

func (s *ClientService) seal(cfg domain.ClientCryptoConfig) (domain.SealedSecrets, error) {
	var out domain.SealedSecrets

	sig, err := s.Envelope.SealBytes(cfg.SignatureSecret)
	if err != nil {
		return out, err
	}
	out.Signature = sig
	out.SignatureFingerprint = cryptox.Fingerprint(cfg.SignatureSecret)

	if len(cfg.EncryptionSecret) > 0 {
		enc, err := s.Envelope.SealBytes(cfg.EncryptionSecret)
		if err != nil {
			return out, err
		}
		out.Encryption = enc
		out.EncryptionFingerprint = cryptox.Fingerprint(cfg.EncryptionSecret)
	}
	return out, nil
}

func (s *ClientService) changed(clientID string) {
	if s.OnChange != nil {
		s.OnChange(clientID)
	}
}

// policy copies the algorithm choices of a stored client. Secrets are left
// for the caller to fill in.
func policy(c domain.Client) domain.ClientCryptoConfig {
	return domain.ClientCryptoConfig{
		TokenType:           c.TokenType,
		SignatureAlgorithm:  c.SignatureAlgorithm,
		EncryptionAlgorithm: c.EncryptionAlgorithm,
		EncryptionMethod:    c.EncryptionMethod,
	}
}
