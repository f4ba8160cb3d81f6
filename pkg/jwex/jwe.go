// Package jwex produces and consumes compact JWE tokens.
//
// Three key management families are supported: direct encryption with a
// shared key ("dir"), RSAES-OAEP with SHA-256/384/512, and ECDH-1PU with AES
// key wrapping. Content is encrypted with AES-CBC-HMAC-SHA2 or AES-GCM.
//
// Secrets are byte slices whose meaning depends on the family:
//
//	dir       raw key, exactly Method.KeySize() bytes
//	RSA-OAEP  PEM; a public key to encrypt, a private key to decrypt
//	ECDH-1PU  PEM bundle with an EC private key and optionally its public key
package jwex

import (
	"errors"
	"strings"

	"github.com/aussiebroadwan/tokensmith/pkg/errx"
)

const (
	opEncrypt = "jwe.encrypt"
	opDecrypt = "jwe.decrypt"
)

// EncryptOption tweaks the protected header of Encrypt.
type EncryptOption func(*Header)

// WithContentType overrides the "cty" header, which defaults to
// ContentTypeJWT. An empty cty drops the field.
func WithContentType(cty string) EncryptOption {
	return func(h *Header) { h.Cty = cty }
}

// Encrypt seals plaintext into a compact JWE.
func Encrypt(plaintext []byte, alg Algorithm, enc Method, secret []byte, opts ...EncryptOption) (string, error) {
	if len(plaintext) == 0 {
		return "", errx.Invalid(opEncrypt, "plaintext is required")
	}
	if len(secret) == 0 {
		return "", errx.Invalid(opEncrypt, "encryption secret is required")
	}
	if err := CheckPair(alg, enc); err != nil {
		return "", pairError(opEncrypt, alg, err)
	}

	fail := func(err error) (string, error) {
		return "", errx.New(errx.ErrCryptoFailed, opEncrypt, alg.String(), err)
	}

	ke, err := newKeyEncrypter(alg, enc, secret)
	if err != nil {
		return fail(err)
	}

	h := Header{Alg: alg.String(), Enc: enc.String(), Cty: ContentTypeJWT}
	for _, opt := range opts {
		opt(&h)
	}

	cek, err := ke.cek(&h)
	if err != nil {
		return fail(err)
	}

	raw, err := h.encode()
	if err != nil {
		return fail(err)
	}

	c := compact{header: h, rawHeader: raw}
	if err := sealContent(&c, enc, cek, plaintext); err != nil {
		return fail(err)
	}
	if c.encryptedKey, err = ke.wrap(cek, c.tag); err != nil {
		return fail(err)
	}
	return c.serialize(), nil
}

// DecryptOption constrains what Decrypt accepts.
type DecryptOption func(*decryptOptions)

type decryptOptions struct {
	alg Algorithm
	enc Method
}

// WithExpected rejects tokens whose header names another alg or enc.
// Zero values leave the respective field unchecked.
func WithExpected(alg Algorithm, enc Method) DecryptOption {
	return func(o *decryptOptions) {
		o.alg = alg
		o.enc = enc
	}
}

// Decrypt opens a compact JWE and returns its header and plaintext.
//
// A token that is not a JWE, names an unknown alg/enc, or fails an
// integrity check fails with errx.ErrTokenInvalid. Key material that cannot
// be used for the token's algorithm fails with errx.ErrCryptoFailed.
func Decrypt(token string, secret []byte, opts ...DecryptOption) (Header, []byte, error) {
	var o decryptOptions
	for _, opt := range opts {
		opt(&o)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return Header{}, nil, errx.Invalid(opDecrypt, "token is required")
	}
	if len(secret) == 0 {
		return Header{}, nil, errx.Invalid(opDecrypt, "encryption secret is required")
	}

	c, err := parseCompact(token)
	if err != nil {
		return Header{}, nil, errx.New(errx.ErrTokenInvalid, opDecrypt, "", err)
	}

	invalid := func(err error) (Header, []byte, error) {
		return Header{}, nil, errx.New(errx.ErrTokenInvalid, opDecrypt, c.header.Alg, err)
	}

	alg, err := c.header.Algorithm()
	if err != nil {
		return invalid(err)
	}
	enc, err := c.header.Method()
	if err != nil {
		return invalid(err)
	}
	if err := CheckPair(alg, enc); err != nil {
		return invalid(err)
	}
	if (o.alg != 0 && o.alg != alg) || (o.enc != 0 && o.enc != enc) {
		return invalid(ErrIncompatible)
	}

	kd, err := newKeyDecrypter(alg, enc, secret)
	if err != nil {
		return Header{}, nil, errx.New(errx.ErrCryptoFailed, opDecrypt, alg.String(), err)
	}

	cek, err := kd.unwrap(c)
	if err != nil {
		return Header{}, nil, decryptError(alg, err)
	}

	plaintext, err := openContent(c, enc, cek)
	if err != nil {
		return Header{}, nil, decryptError(alg, err)
	}
	return c.header, plaintext, nil
}

func decryptError(alg Algorithm, err error) error {
	if errors.Is(err, ErrMalformed) || errors.Is(err, ErrAuthentication) {
		return errx.New(errx.ErrTokenInvalid, opDecrypt, alg.String(), err)
	}
	return errx.New(errx.ErrCryptoFailed, opDecrypt, alg.String(), err)
}

// pairError keeps "not configured" apart from "not supported".
func pairError(op string, alg Algorithm, err error) error {
	if errors.Is(err, ErrAlgorithmAbsent) || errors.Is(err, ErrMethodAbsent) {
		return errx.New(errx.ErrInvalidArgument, op, "", err)
	}
	return errx.New(errx.ErrCryptoFailed, op, alg.String(), err)
}
