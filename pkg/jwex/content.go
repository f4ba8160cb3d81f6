package jwex

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	josecipher "github.com/go-jose/go-jose/v4/cipher"
)

// newAEAD returns the content cipher for m keyed with cek.
func newAEAD(m Method, cek []byte) (cipher.AEAD, error) {
	if len(cek) != m.KeySize() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrKeySize, m, m.KeySize(), len(cek))
	}
	if m.isCBCHMAC() {
		return josecipher.NewCBCHMAC(cek, aes.NewCipher)
	}
	block, err := aes.NewCipher(cek)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// sealContent encrypts plaintext under cek and fills the iv, ciphertext and
// tag of c. aad is the encoded protected header.
func sealContent(c *compact, m Method, cek, plaintext []byte) error {
	aead, err := newAEAD(m, cek)
	if err != nil {
		return err
	}

	iv := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return fmt.Errorf("jwex: generate iv: %w", err)
	}

	out := aead.Seal(nil, iv, plaintext, []byte(c.rawHeader))
	split := len(out) - m.TagSize()

	c.iv = iv
	c.ciphertext = out[:split]
	c.tag = out[split:]
	return nil
}

// openContent is the inverse of sealContent. A tag that does not verify
// yields ErrAuthentication.
func openContent(c compact, m Method, cek []byte) ([]byte, error) {
	aead, err := newAEAD(m, cek)
	if err != nil {
		return nil, err
	}
	if len(c.iv) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: iv has %d bytes", ErrAuthentication, len(c.iv))
	}
	if len(c.tag) != m.TagSize() {
		return nil, fmt.Errorf("%w: tag has %d bytes", ErrAuthentication, len(c.tag))
	}

	sealed := make([]byte, 0, len(c.ciphertext)+len(c.tag))
	sealed = append(sealed, c.ciphertext...)
	sealed = append(sealed, c.tag...)

	plaintext, err := aead.Open(nil, c.iv, sealed, []byte(c.rawHeader))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return plaintext, nil
}
