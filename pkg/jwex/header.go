package jwex

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v4"
)

var (
	ErrMalformed            = errors.New("jwex: malformed token")
	ErrAlgorithmAbsent      = errors.New("jwex: algorithm not set")
	ErrUnsupportedAlgorithm = errors.New("jwex: unsupported algorithm")
	ErrMethodAbsent         = errors.New("jwex: encryption method not set")
	ErrUnsupportedMethod    = errors.New("jwex: unsupported encryption method")
	ErrIncompatible         = errors.New("jwex: encryption method not allowed with algorithm")
	ErrKeySize              = errors.New("jwex: key has wrong size")
	ErrAuthentication       = errors.New("jwex: authentication failed")
	ErrKeyUnwrap            = errors.New("jwex: key unwrap failed")
)

// ContentTypeJWT marks a JWE whose plaintext is itself a compact JWT.
const ContentTypeJWT = "JWT"

var b64 = base64.RawURLEncoding.Strict()

// Header is the JWE protected header.
type Header struct {
	Alg string `json:"alg"`
	Enc string `json:"enc"`
	Cty string `json:"cty,omitempty"`

	// ECDH-1PU only.
	Epk *jose.JSONWebKey `json:"epk,omitempty"`
	Apu string           `json:"apu,omitempty"`
	Apv string           `json:"apv,omitempty"`
}

// Algorithm parses h.Alg.
func (h Header) Algorithm() (Algorithm, error) { return ParseAlgorithm(h.Alg) }

// Method parses h.Enc.
func (h Header) Method() (Method, error) { return ParseMethod(h.Enc) }

func (h Header) encode() (string, error) {
	raw, err := json.Marshal(h)
	if err != nil {
		return "", err
	}
	return b64.EncodeToString(raw), nil
}

// compact is a JWE split into its five segments. Everything but the header
// is base64url decoded; header keeps its encoded form because it is the
// additional authenticated data.
type compact struct {
	header       Header
	rawHeader    string
	encryptedKey []byte
	iv           []byte
	ciphertext   []byte
	tag          []byte
}

func (c compact) serialize() string {
	return strings.Join([]string{
		c.rawHeader,
		b64.EncodeToString(c.encryptedKey),
		b64.EncodeToString(c.iv),
		b64.EncodeToString(c.ciphertext),
		b64.EncodeToString(c.tag),
	}, ".")
}

func parseCompact(token string) (compact, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 5 {
		return compact{}, fmt.Errorf("%w: expected 5 segments, got %d", ErrMalformed, len(parts))
	}

	h, err := parseHeader(parts[0])
	if err != nil {
		return compact{}, err
	}

	c := compact{header: h, rawHeader: parts[0]}
	names := [...]string{"encrypted key", "iv", "ciphertext", "tag"}
	dst := [...]*[]byte{&c.encryptedKey, &c.iv, &c.ciphertext, &c.tag}
	for i, seg := range parts[1:] {
		b, err := b64.DecodeString(seg)
		if err != nil {
			return compact{}, fmt.Errorf("%w: %s: %w", ErrMalformed, names[i], err)
		}
		*dst[i] = b
	}
	return c, nil
}

func parseHeader(seg string) (Header, error) {
	raw, err := b64.DecodeString(seg)
	if err != nil {
		return Header{}, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	var h Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return Header{}, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	if h.Alg == "" || h.Enc == "" {
		return Header{}, fmt.Errorf("%w: header needs alg and enc", ErrMalformed)
	}
	return h, nil
}

// IsJWE reports whether token looks like a compact JWE with a supported
// alg/enc pair. It never panics and never decrypts anything.
func IsJWE(token string) bool {
	h, err := ReadHeader(token)
	if err != nil {
		return false
	}
	alg, err := h.Algorithm()
	if err != nil {
		return false
	}
	enc, err := h.Method()
	if err != nil {
		return false
	}
	return CheckPair(alg, enc) == nil
}

// ReadHeader decodes the protected header without decrypting.
func ReadHeader(token string) (Header, error) {
	c, err := parseCompact(strings.TrimSpace(token))
	if err != nil {
		return Header{}, err
	}
	return c.header, nil
}
