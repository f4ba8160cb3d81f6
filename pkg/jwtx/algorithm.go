package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SignatureAlgorithm enumerates the JWS algorithms a client may be
// configured with. The zero value means "not configured".
type SignatureAlgorithm uint8

const (
	HS256 SignatureAlgorithm = iota + 1
	HS384
	HS512
	RS256
	RS384
	RS512
)

// Family groups algorithms by the kind of secret they consume.
type Family uint8

const (
	// FamilySymmetric algorithms take the shared secret as raw bytes.
	FamilySymmetric Family = iota + 1
	// FamilyAsymmetric algorithms take PEM encoded RSA key material.
	FamilyAsymmetric
)

// SignatureAlgorithms lists every supported algorithm.
func SignatureAlgorithms() []SignatureAlgorithm {
	return []SignatureAlgorithm{HS256, HS384, HS512, RS256, RS384, RS512}
}

// String returns the JOSE "alg" identifier.
func (a SignatureAlgorithm) String() string {
	switch a {
	case HS256:
		return jwt.SigningMethodHS256.Alg()
	case HS384:
		return jwt.SigningMethodHS384.Alg()
	case HS512:
		return jwt.SigningMethodHS512.Alg()
	case RS256:
		return jwt.SigningMethodRS256.Alg()
	case RS384:
		return jwt.SigningMethodRS384.Alg()
	case RS512:
		return jwt.SigningMethodRS512.Alg()
	}
	return fmt.Sprintf("SignatureAlgorithm(%d)", uint8(a))
}

// Valid reports whether a is one of the supported algorithms.
func (a SignatureAlgorithm) Valid() bool {
	return a >= HS256 && a <= RS512
}

// Family returns the secret family of a. It fails for the zero value and
// unknown values.
func (a SignatureAlgorithm) Family() (Family, error) {
	switch a {
	case HS256, HS384, HS512:
		return FamilySymmetric, nil
	case RS256, RS384, RS512:
		return FamilyAsymmetric, nil
	case 0:
		return 0, ErrAlgorithmAbsent
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
}

// method maps a to its golang-jwt signing method.
func (a SignatureAlgorithm) method() (jwt.SigningMethod, error) {
	switch a {
	case HS256:
		return jwt.SigningMethodHS256, nil
	case HS384:
		return jwt.SigningMethodHS384, nil
	case HS512:
		return jwt.SigningMethodHS512, nil
	case RS256:
		return jwt.SigningMethodRS256, nil
	case RS384:
		return jwt.SigningMethodRS384, nil
	case RS512:
		return jwt.SigningMethodRS512, nil
	case 0:
		return nil, ErrAlgorithmAbsent
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
}

// ParseSignatureAlgorithm maps a JOSE "alg" identifier back to its enum.
func ParseSignatureAlgorithm(s string) (SignatureAlgorithm, error) {
	if s == "" {
		return 0, ErrAlgorithmAbsent
	}
	for _, a := range SignatureAlgorithms() {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

func (a SignatureAlgorithm) MarshalText() ([]byte, error) {
	if a == 0 {
		return []byte{}, nil
	}
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *SignatureAlgorithm) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*a = 0
		return nil
	}
	parsed, err := ParseSignatureAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
