package jwex

import (
	"crypto"
	"crypto/aes"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/go-jose/go-jose/v4"
	josecipher "github.com/go-jose/go-jose/v4/cipher"
)

// keyEncrypter produces the content encryption key of one token and the
// encrypted key segment that carries it.
type keyEncrypter interface {
	// cek returns the content key. It may add fields to h, which has not
	// been encoded yet.
	cek(h *Header) ([]byte, error)
	// wrap returns the encrypted key segment. tag is the content
	// authentication tag, already computed.
	wrap(cek, tag []byte) ([]byte, error)
}

// keyDecrypter recovers the content encryption key of a parsed token.
type keyDecrypter interface {
	unwrap(c compact) ([]byte, error)
}

func newKeyEncrypter(alg Algorithm, enc Method, secret []byte) (keyEncrypter, error) {
	fam, err := alg.Family()
	if err != nil {
		return nil, err
	}
	switch fam {
	case FamilyDirect:
		return direct{key: secret, enc: enc}, nil
	case FamilyRSAOAEP:
		pub, err := cryptox.ParseRSAPublicKey(secret)
		if err != nil {
			return nil, err
		}
		return &rsaOAEP{alg: alg, enc: enc, pub: pub}, nil
	case FamilyECDH1PU:
		pair, err := ecKeys(secret)
		if err != nil {
			return nil, err
		}
		return &ecdh1PU{alg: alg, enc: enc, pair: pair}, nil
	}
	return nil, ErrUnsupportedAlgorithm
}

func newKeyDecrypter(alg Algorithm, enc Method, secret []byte) (keyDecrypter, error) {
	fam, err := alg.Family()
	if err != nil {
		return nil, err
	}
	switch fam {
	case FamilyDirect:
		return direct{key: secret, enc: enc}, nil
	case FamilyRSAOAEP:
		priv, err := cryptox.ParseRSAPrivateKey(secret)
		if err != nil {
			return nil, err
		}
		return &rsaOAEP{alg: alg, enc: enc, priv: priv}, nil
	case FamilyECDH1PU:
		pair, err := ecKeys(secret)
		if err != nil {
			return nil, err
		}
		return &ecdh1PU{alg: alg, enc: enc, pair: pair}, nil
	}
	return nil, ErrUnsupportedAlgorithm
}

func randomKey(n int) ([]byte, error) {
	k := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		return nil, fmt.Errorf("jwex: generate key: %w", err)
	}
	return k, nil
}

// direct uses the shared secret as the content key. The encrypted key
// segment stays empty.
type direct struct {
	key []byte
	enc Method
}

func (d direct) cek(*Header) ([]byte, error) {
	if len(d.key) != d.enc.KeySize() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrKeySize, d.enc, d.enc.KeySize(), len(d.key))
	}
	return d.key, nil
}

func (direct) wrap(_, _ []byte) ([]byte, error) { return nil, nil }

func (d direct) unwrap(c compact) ([]byte, error) {
	if len(c.encryptedKey) != 0 {
		return nil, fmt.Errorf("%w: dir token carries an encrypted key", ErrMalformed)
	}
	return d.cek(nil)
}

// rsaOAEP wraps a random content key with RSAES-OAEP using the SHA-2 hash
// named by the algorithm (MGF1 uses the same hash).
type rsaOAEP struct {
	alg  Algorithm
	enc  Method
	pub  *rsa.PublicKey
	priv *rsa.PrivateKey
}

func (r *rsaOAEP) hash() hash.Hash {
	switch r.alg {
	case RSAOAEP384:
		return sha512.New384()
	case RSAOAEP512:
		return sha512.New()
	}
	return sha256.New()
}

func (r *rsaOAEP) cek(*Header) ([]byte, error) { return randomKey(r.enc.KeySize()) }

func (r *rsaOAEP) wrap(cek, _ []byte) ([]byte, error) {
	out, err := rsa.EncryptOAEP(r.hash(), rand.Reader, r.pub, cek, nil)
	if err != nil {
		return nil, fmt.Errorf("jwex: rsa-oaep encrypt: %w", err)
	}
	return out, nil
}

func (r *rsaOAEP) unwrap(c compact) ([]byte, error) {
	cek, err := rsa.DecryptOAEP(r.hash(), nil, r.priv, c.encryptedKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyUnwrap, err)
	}
	return cek, nil
}

// ecdh1PU implements ECDH-1PU in key agreement with key wrapping mode
// (draft-madden-jose-ecdh-1pu-04). Z = Ze || Zs where Ze comes from the
// ephemeral key and Zs from the static sender key. The key wrapping key is
// derived with Concat KDF over Z, and because the tag is part of the KDF
// input the content has to be encrypted before the key can be wrapped.
type ecdh1PU struct {
	alg  Algorithm
	enc  Method
	pair ecKeyPair

	z []byte
}

func (e *ecdh1PU) cek(h *Header) ([]byte, error) {
	eph, err := ecdsa.GenerateKey(e.pair.curve, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwex: generate ephemeral key: %w", err)
	}
	ephECDH, err := eph.ECDH()
	if err != nil {
		return nil, fmt.Errorf("jwex: ephemeral key: %w", err)
	}

	ze, err := ephECDH.ECDH(e.pair.pub)
	if err != nil {
		return nil, fmt.Errorf("jwex: ephemeral agreement: %w", err)
	}
	zs, err := e.pair.priv.ECDH(e.pair.pub)
	if err != nil {
		return nil, fmt.Errorf("jwex: static agreement: %w", err)
	}

	e.z = append(ze, zs...)
	h.Epk = &jose.JSONWebKey{Key: &eph.PublicKey}

	// fresh content key, wrapped once the tag is known
	return randomKey(e.enc.KeySize())
}

func (e *ecdh1PU) wrap(cek, tag []byte) ([]byte, error) {
	if e.z == nil {
		return nil, errors.New("jwex: wrap before key agreement")
	}
	kek := deriveKEK(e.z, e.alg, nil, nil, tag)
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}
	return josecipher.KeyWrap(block, cek)
}

func (e *ecdh1PU) unwrap(c compact) ([]byte, error) {
	h := c.header
	if h.Epk == nil {
		return nil, fmt.Errorf("%w: missing epk", ErrMalformed)
	}
	// KeyUnwrap expects at least the IV block plus two key blocks
	if n := len(c.encryptedKey); n < 24 || n%8 != 0 {
		return nil, fmt.Errorf("%w: wrapped key has %d bytes", ErrMalformed, n)
	}
	epk, ok := h.Epk.Key.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: epk is not an EC public key", ErrMalformed)
	}
	if epk.Curve != e.pair.curve {
		return nil, fmt.Errorf("%w: epk curve does not match key", ErrMalformed)
	}
	epkECDH, err := epk.ECDH()
	if err != nil {
		return nil, fmt.Errorf("%w: epk: %w", ErrMalformed, err)
	}

	apu, err := b64.DecodeString(h.Apu)
	if err != nil {
		return nil, fmt.Errorf("%w: apu: %w", ErrMalformed, err)
	}
	apv, err := b64.DecodeString(h.Apv)
	if err != nil {
		return nil, fmt.Errorf("%w: apv: %w", ErrMalformed, err)
	}

	ze, err := e.pair.priv.ECDH(epkECDH)
	if err != nil {
		return nil, fmt.Errorf("jwex: ephemeral agreement: %w", err)
	}
	zs, err := e.pair.priv.ECDH(e.pair.pub)
	if err != nil {
		return nil, fmt.Errorf("jwex: static agreement: %w", err)
	}

	kek := deriveKEK(append(ze, zs...), e.alg, apu, apv, c.tag)
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	// The tag feeds the KDF, so a tampered tag or a foreign key both
	// show up here as an integrity failure of the wrapped key.
	cek, err := josecipher.KeyUnwrap(block, c.encryptedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrAuthentication, ErrKeyUnwrap, err)
	}
	return cek, nil
}

// deriveKEK runs Concat KDF (SHA-256) the way ECDH-1PU key wrapping
// specifies: the algorithm id is the alg header, and SuppPubInfo is the
// key length in bits followed by the length prefixed tag.
func deriveKEK(z []byte, alg Algorithm, apu, apv, tag []byte) []byte {
	size := alg.wrapKeySize()

	supPubInfo := make([]byte, 4, 4+4+len(tag))
	binary.BigEndian.PutUint32(supPubInfo, uint32(size)*8)
	supPubInfo = append(supPubInfo, lengthPrefixed(tag)...)

	kdf := josecipher.NewConcatKDF(crypto.SHA256, z,
		lengthPrefixed([]byte(alg.String())),
		lengthPrefixed(apu),
		lengthPrefixed(apv),
		supPubInfo,
		[]byte{},
	)

	key := make([]byte, size)
	_, _ = kdf.Read(key)
	return key
}

func lengthPrefixed(data []byte) []byte {
	out := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[4:], data)
	return out
}
