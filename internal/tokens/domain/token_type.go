package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownTokenType is returned when parsing an unrecognised token type name.
var ErrUnknownTokenType = errors.New("domain: unknown token type")

// TokenType is the logical kind of token a client issues.
type TokenType uint8

const (
	// TokenTypeJWS is a signed token.
	TokenTypeJWS TokenType = iota + 1
	// TokenTypeJWE is a signed token nested inside a JWE.
	TokenTypeJWE
	// TokenTypeEncryptedJWS is a signed token sealed by the process envelope.
	TokenTypeEncryptedJWS
	// TokenTypeEncryptedJWE is a nested JWE sealed by the process envelope.
	TokenTypeEncryptedJWE
)

// TokenTypes lists every token type. A strategy registry must cover exactly
// this set.
func TokenTypes() []TokenType {
	return []TokenType{TokenTypeJWS, TokenTypeJWE, TokenTypeEncryptedJWS, TokenTypeEncryptedJWE}
}

func (t TokenType) String() string {
	switch t {
	case TokenTypeJWS:
		return "JWS"
	case TokenTypeJWE:
		return "JWE"
	case TokenTypeEncryptedJWS:
		return "ENCRYPTED_JWS"
	case TokenTypeEncryptedJWE:
		return "ENCRYPTED_JWE"
	}
	return fmt.Sprintf("TokenType(%d)", uint8(t))
}

// Valid reports whether t is one of TokenTypes.
func (t TokenType) Valid() bool {
	return t >= TokenTypeJWS && t <= TokenTypeEncryptedJWE
}

// Nested reports whether tokens of this type carry a JWS inside a JWE and
// therefore need encryption settings.
func (t TokenType) Nested() bool {
	return t == TokenTypeJWE || t == TokenTypeEncryptedJWE
}

// Enveloped reports whether the compact token is sealed a second time with
// the process-wide envelope.
func (t TokenType) Enveloped() bool {
	return t == TokenTypeEncryptedJWS || t == TokenTypeEncryptedJWE
}

// ParseTokenType maps a name such as "ENCRYPTED_JWE" back to its TokenType.
func ParseTokenType(s string) (TokenType, error) {
	for _, t := range TokenTypes() {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTokenType, s)
}

func (t TokenType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTokenType, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *TokenType) UnmarshalText(b []byte) error {
	parsed, err := ParseTokenType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
