package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/golang-jwt/jwt/v5"
)

const opVerify = "jws.verify"

var (
	ErrMalformed            = errors.New("jwtx: malformed token")
	ErrAlgorithmAbsent      = errors.New("jwtx: algorithm not set")
	ErrUnsupportedAlgorithm = errors.New("jwtx: unsupported algorithm")
	ErrAlgMismatch          = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig           = errors.New("jwtx: invalid signature")
	ErrExpired              = errors.New("jwtx: token expired")
	ErrInvalidClaim         = errors.New("jwtx: invalid claims")
)

// VerifyOptions captures the knobs Verify understands.
type VerifyOptions struct {
	// Now is the clock exp is compared against. Defaults to time.Now.
	Now func() time.Time

	// Leeway allows small clock skew when validating exp/nbf. Zero means
	// exp must be strictly in the future.
	Leeway time.Duration

	// Algorithm, when set, is the only alg the token header may carry.
	// Pinning it stops an RSA public key being replayed as an HMAC secret.
	Algorithm SignatureAlgorithm
}

// VerifyOption mutates VerifyOptions.
type VerifyOption func(*VerifyOptions)

// WithClock overrides the time source used for the expiry check.
func WithClock(now func() time.Time) VerifyOption {
	return func(o *VerifyOptions) {
		if now != nil {
			o.Now = now
		}
	}
}

// WithLeeway tolerates clock skew of d.
func WithLeeway(d time.Duration) VerifyOption {
	return func(o *VerifyOptions) { o.Leeway = d }
}

// WithAlgorithm pins the header alg to a.
func WithAlgorithm(a SignatureAlgorithm) VerifyOption {
	return func(o *VerifyOptions) { o.Algorithm = a }
}

type header struct {
	Alg string `json:"alg"`
	Enc string `json:"enc,omitempty"`
}

// Verify checks a compact JWS against secret and returns its claims. The
// verifier is derived from the alg in the token header: HMAC needs the
// shared secret, RSA needs a PEM public key (or a private key to take it
// from). Expiry is only checked once the signature is known to be good.
func Verify(token string, secret []byte, opts ...VerifyOption) (ClaimSet, error) {
	o := VerifyOptions{Now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errx.Invalid(opVerify, "token is required")
	}
	if len(secret) == 0 {
		return nil, errx.Invalid(opVerify, "signature secret is required")
	}

	h, err := parseHeader(token)
	if err != nil {
		return nil, errx.New(errx.ErrTokenInvalid, opVerify, "", err)
	}

	alg, err := ParseSignatureAlgorithm(h.Alg)
	if err != nil {
		return nil, errx.New(errx.ErrTokenInvalid, opVerify, h.Alg, err)
	}
	if o.Algorithm != 0 && o.Algorithm != alg {
		return nil, errx.New(errx.ErrTokenInvalid, opVerify, alg.String(), ErrAlgMismatch)
	}

	key, err := verificationKey(alg, secret)
	if err != nil {
		return nil, errx.New(errx.ErrCryptoFailed, opVerify, alg.String(), err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{alg.String()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(o.Now),
		jwt.WithLeeway(o.Leeway),
	)

	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		return nil, classifyParseError(alg, err)
	}

	return ClaimSet(ReadClaims(ClaimSet(claims))), nil
}

// classifyParseError maps golang-jwt errors onto error kinds. Order
// matters: key problems surface wrapped in ErrTokenSignatureInvalid too.
func classifyParseError(alg SignatureAlgorithm, err error) error {
	switch {
	case errors.Is(err, jwt.ErrInvalidKey), errors.Is(err, jwt.ErrInvalidKeyType):
		return errx.New(errx.ErrCryptoFailed, opVerify, alg.String(), err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errx.New(errx.ErrTokenInvalid, opVerify, alg.String(), ErrInvalidSig)
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return errx.New(errx.ErrTokenExpired, opVerify, alg.String(), ErrExpired)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errx.New(errx.ErrTokenInvalid, opVerify, alg.String(), errors.Join(ErrMalformed, err))
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return errx.New(errx.ErrTokenInvalid, opVerify, alg.String(), errors.Join(ErrInvalidClaim, err))
	}
	return errx.New(errx.ErrCryptoFailed, opVerify, alg.String(), err)
}

// IsJWS reports whether token looks like a compact JWS with a supported
// signature algorithm. It never panics and never verifies anything.
func IsJWS(token string) bool {
	h, err := parseHeader(strings.TrimSpace(token))
	if err != nil {
		return false
	}
	if h.Enc != "" {
		return false
	}
	_, err = ParseSignatureAlgorithm(h.Alg)
	return err == nil
}

// parseHeader decodes the protected header of a three segment token.
func parseHeader(token string) (header, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return header{}, ErrMalformed
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return header{}, errors.Join(ErrMalformed, err)
	}

	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return header{}, errors.Join(ErrMalformed, err)
	}
	return h, nil
}
