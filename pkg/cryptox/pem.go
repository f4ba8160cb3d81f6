package cryptox

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

var (
	ErrNoRSAKey      = errors.New("cryptox: no RSA key in PEM")
	ErrNoECKey       = errors.New("cryptox: no EC key in PEM")
	ErrECKeyMismatch = errors.New("cryptox: EC public and private key are not a pair")
	errNotRSAPrivate = errors.New("cryptox: not an RSA private key")
	errNotRSAPublic  = errors.New("cryptox: not an RSA public key")
	errNotECKey      = errors.New("cryptox: not an EC key")
)

// pemBlocks decodes every PEM block in data, ignoring trailing garbage.
func pemBlocks(data []byte) []*pem.Block {
	var blocks []*pem.Block
	for {
		var b *pem.Block
		b, data = pem.Decode(data)
		if b == nil {
			return blocks
		}
		blocks = append(blocks, b)
	}
}

// ParseRSAPrivateKey returns the first RSA private key in data, PKCS1 or
// PKCS8.
func ParseRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	for _, b := range pemBlocks(data) {
		switch b.Type {
		case "RSA PRIVATE KEY":
			key, err := x509.ParsePKCS1PrivateKey(b.Bytes)
			if err != nil {
				return nil, fmt.Errorf("cryptox: parse PKCS1: %w", err)
			}
			return key, nil
		case "PRIVATE KEY":
			k, err := x509.ParsePKCS8PrivateKey(b.Bytes)
			if err != nil {
				return nil, fmt.Errorf("cryptox: parse PKCS8: %w", err)
			}
			key, ok := k.(*rsa.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("%w: %w", ErrNoRSAKey, errNotRSAPrivate)
			}
			return key, nil
		}
	}
	return nil, ErrNoRSAKey
}

// ParseRSAPublicKey prefers an explicit public key block (PKIX or PKCS1)
// and falls back to the public half of a private key, so one PEM per client
// serves both directions.
func ParseRSAPublicKey(data []byte) (*rsa.PublicKey, error) {
	for _, b := range pemBlocks(data) {
		switch b.Type {
		case "PUBLIC KEY":
			k, err := x509.ParsePKIXPublicKey(b.Bytes)
			if err != nil {
				return nil, fmt.Errorf("cryptox: parse PKIX: %w", err)
			}
			key, ok := k.(*rsa.PublicKey)
			if !ok {
				return nil, fmt.Errorf("%w: %w", ErrNoRSAKey, errNotRSAPublic)
			}
			return key, nil
		case "RSA PUBLIC KEY":
			key, err := x509.ParsePKCS1PublicKey(b.Bytes)
			if err != nil {
				return nil, fmt.Errorf("cryptox: parse PKCS1 public: %w", err)
			}
			return key, nil
		}
	}

	priv, err := ParseRSAPrivateKey(data)
	if err != nil {
		return nil, err
	}
	return &priv.PublicKey, nil
}

// ParseECKeyPair reads an EC private key (SEC1 or PKCS8) and optionally a
// PKIX public key from one PEM bundle. When both are present they must
// match.
func ParseECKeyPair(data []byte) (*ecdsa.PrivateKey, error) {
	var (
		priv *ecdsa.PrivateKey
		pub  *ecdsa.PublicKey
	)
	for _, b := range pemBlocks(data) {
		switch b.Type {
		case "EC PRIVATE KEY":
			k, err := x509.ParseECPrivateKey(b.Bytes)
			if err != nil {
				return nil, fmt.Errorf("cryptox: parse SEC1: %w", err)
			}
			priv = k
		case "PRIVATE KEY":
			k, err := x509.ParsePKCS8PrivateKey(b.Bytes)
			if err != nil {
				return nil, fmt.Errorf("cryptox: parse PKCS8: %w", err)
			}
			ek, ok := k.(*ecdsa.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("%w: %w", ErrNoECKey, errNotECKey)
			}
			priv = ek
		case "PUBLIC KEY":
			k, err := x509.ParsePKIXPublicKey(b.Bytes)
			if err != nil {
				return nil, fmt.Errorf("cryptox: parse PKIX: %w", err)
			}
			ek, ok := k.(*ecdsa.PublicKey)
			if !ok {
				return nil, fmt.Errorf("%w: %w", ErrNoECKey, errNotECKey)
			}
			pub = ek
		}
	}
	if priv == nil {
		return nil, ErrNoECKey
	}
	if pub != nil && !priv.PublicKey.Equal(pub) {
		return nil, ErrECKeyMismatch
	}
	return priv, nil
}
