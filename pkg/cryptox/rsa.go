package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// MinRSABits is the smallest RSA modulus the generators produce.
const MinRSABits = 2048

func newRSAKey(bits int) (*rsa.PrivateKey, error) {
	if bits < MinRSABits {
		return nil, fmt.Errorf("cryptox: RSA key size must be at least %d bits", MinRSABits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate RSA key: %w", err)
	}
	return key, nil
}

// GenerateRSAKey generates a new RSA private key with the specified bit size
// and returns it PEM encoded (PKCS1). The same PEM serves RS* signing and
// RSA-OAEP decryption; the public half is derived from it when needed.
func GenerateRSAKey(bits int) ([]byte, error) {
	key, err := newRSAKey(bits)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), nil
}

// GenerateRSAKeyPKCS8 is GenerateRSAKey with PKCS8 encoding.
func GenerateRSAKeyPKCS8(bits int) ([]byte, error) {
	key, err := newRSAKey(bits)
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// RSAPublicKeyPEM extracts the PKIX public key from a PEM private key, for
// handing to a party that only verifies or encrypts.
func RSAPublicKeyPEM(privatePEM []byte) ([]byte, error) {
	key, err := ParseRSAPrivateKey(privatePEM)
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("cryptox: marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
