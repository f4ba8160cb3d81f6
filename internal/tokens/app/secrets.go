package app

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
)

const (
	// storageSalt keeps the storage key apart from the token envelope key.
	storageSalt = "tokensmith-storage"

	devSecretSize = 32
)

// loadSecret resolves a process secret from its inline value or, failing
// that, from a file. Outside dev a missing secret is fatal; in dev it is
// replaced with random material that dies with the process.
func loadSecret(cfg Config, name, inline, path string, logger *slog.Logger) ([]byte, error) {
	switch {
	case inline != "":
		return []byte(inline), nil
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from %s: %w", name, path, err)
		}
		b = bytes.TrimSpace(b)
		if len(b) == 0 {
			return nil, fmt.Errorf("%s file %s is empty", name, path)
		}
		logger.Info("secret loaded from file", "secret", name, "path", path)
		return b, nil
	}

	if !cfg.IsDev() {
		return nil, fmt.Errorf("%s is required outside dev", name)
	}

	secret, err := cryptox.GenerateSecret(devSecretSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", name, err)
	}
	logger.Warn("secret not configured, using ephemeral value; data sealed with it will not survive a restart",
		"secret", name)
	return secret, nil
}

// initEnvelopes builds the token envelope and the storage envelope.
func initEnvelopes(cfg Config, logger *slog.Logger) (token, storage *cryptox.Envelope, err error) {
	envelopeSecret, err := loadSecret(cfg, "TOKENS_ENVELOPE_SECRET", cfg.EnvelopeSecret, cfg.EnvelopeSecretPath, logger)
	if err != nil {
		return nil, nil, err
	}
	masterKey, err := loadSecret(cfg, "TOKENS_MASTER_KEY", cfg.MasterKey, cfg.MasterKeyPath, logger)
	if err != nil {
		return nil, nil, err
	}

	token, err = cryptox.NewEnvelope(envelopeSecret, []byte(cfg.EnvelopeSalt))
	if err != nil {
		return nil, nil, fmt.Errorf("token envelope: %w", err)
	}
	storage, err = cryptox.NewEnvelope(masterKey, []byte(storageSalt))
	if err != nil {
		return nil, nil, fmt.Errorf("storage envelope: %w", err)
	}
	return token, storage, nil
}
