package jwex

import (
	"fmt"

	"github.com/go-jose/go-jose/v4"
)

// Algorithm enumerates the JWE key management algorithms ("alg"). The zero
// value means "not configured".
type Algorithm uint8

const (
	Dir Algorithm = iota + 1
	RSAOAEP256
	RSAOAEP384
	RSAOAEP512
	ECDH1PUA128KW
	ECDH1PUA192KW
	ECDH1PUA256KW
)

// Family groups algorithms by how the content encryption key is obtained.
type Family uint8

const (
	// FamilyDirect uses the raw secret as the content encryption key.
	FamilyDirect Family = iota + 1
	// FamilyRSAOAEP wraps a fresh key with an RSA public key.
	FamilyRSAOAEP
	// FamilyECDH1PU wraps a fresh key with a key agreed by ECDH-1PU.
	FamilyECDH1PU
)

// Algorithms lists every supported key management algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{Dir, RSAOAEP256, RSAOAEP384, RSAOAEP512, ECDH1PUA128KW, ECDH1PUA192KW, ECDH1PUA256KW}
}

func (a Algorithm) String() string {
	switch a {
	case Dir:
		return string(jose.DIRECT)
	case RSAOAEP256:
		return string(jose.RSA_OAEP_256)
	case RSAOAEP384:
		return "RSA-OAEP-384"
	case RSAOAEP512:
		return "RSA-OAEP-512"
	case ECDH1PUA128KW:
		return "ECDH-1PU+A128KW"
	case ECDH1PUA192KW:
		return "ECDH-1PU+A192KW"
	case ECDH1PUA256KW:
		return "ECDH-1PU+A256KW"
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// Valid reports whether a is supported.
func (a Algorithm) Valid() bool {
	return a >= Dir && a <= ECDH1PUA256KW
}

// Family returns the key management family of a.
func (a Algorithm) Family() (Family, error) {
	switch a {
	case Dir:
		return FamilyDirect, nil
	case RSAOAEP256, RSAOAEP384, RSAOAEP512:
		return FamilyRSAOAEP, nil
	case ECDH1PUA128KW, ECDH1PUA192KW, ECDH1PUA256KW:
		return FamilyECDH1PU, nil
	case 0:
		return 0, ErrAlgorithmAbsent
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
}

// wrapKeySize is the AES key wrap key length in bytes for the ECDH-1PU
// variants, zero for everything else.
func (a Algorithm) wrapKeySize() int {
	switch a {
	case ECDH1PUA128KW:
		return 16
	case ECDH1PUA192KW:
		return 24
	case ECDH1PUA256KW:
		return 32
	case Dir, RSAOAEP256, RSAOAEP384, RSAOAEP512:
		return 0
	}
	return 0
}

// ParseAlgorithm maps an "alg" header value to its enum.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return 0, ErrAlgorithmAbsent
	}
	for _, a := range Algorithms() {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

func (a Algorithm) MarshalText() ([]byte, error) {
	if a == 0 {
		return []byte{}, nil
	}
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*a = 0
		return nil
	}
	parsed, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Method enumerates the content encryption methods ("enc").
type Method uint8

const (
	A128CBCHS256 Method = iota + 1
	A192CBCHS384
	A256CBCHS512
	A128GCM
	A192GCM
	A256GCM
)

// Methods lists every supported content encryption method.
func Methods() []Method {
	return []Method{A128CBCHS256, A192CBCHS384, A256CBCHS512, A128GCM, A192GCM, A256GCM}
}

func (m Method) String() string {
	switch m {
	case A128CBCHS256:
		return string(jose.A128CBC_HS256)
	case A192CBCHS384:
		return string(jose.A192CBC_HS384)
	case A256CBCHS512:
		return string(jose.A256CBC_HS512)
	case A128GCM:
		return string(jose.A128GCM)
	case A192GCM:
		return string(jose.A192GCM)
	case A256GCM:
		return string(jose.A256GCM)
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// Valid reports whether m is supported.
func (m Method) Valid() bool {
	return m >= A128CBCHS256 && m <= A256GCM
}

// KeySize is the content encryption key length in bytes. For the CBC-HMAC
// methods it covers both the MAC and the AES halves.
func (m Method) KeySize() int {
	switch m {
	case A128CBCHS256:
		return 32
	case A192CBCHS384:
		return 48
	case A256CBCHS512:
		return 64
	case A128GCM:
		return 16
	case A192GCM:
		return 24
	case A256GCM:
		return 32
	}
	return 0
}

// TagSize is the authentication tag length in bytes.
func (m Method) TagSize() int {
	switch m {
	case A128CBCHS256:
		return 16
	case A192CBCHS384:
		return 24
	case A256CBCHS512:
		return 32
	case A128GCM, A192GCM, A256GCM:
		return 16
	}
	return 0
}

// isCBCHMAC reports whether m is one of the AES_CBC_HMAC_SHA2 methods.
func (m Method) isCBCHMAC() bool {
	switch m {
	case A128CBCHS256, A192CBCHS384, A256CBCHS512:
		return true
	case A128GCM, A192GCM, A256GCM:
		return false
	}
	return false
}

// ParseMethod maps an "enc" header value to its enum.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return 0, ErrMethodAbsent
	}
	for _, m := range Methods() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

func (m Method) MarshalText() ([]byte, error) {
	if m == 0 {
		return []byte{}, nil
	}
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMethod, uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = 0
		return nil
	}
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// CheckPair rejects algorithm/method combinations Encrypt cannot honour.
// ECDH-1PU in key wrapping mode feeds the tag into the KDF, which the
// draft only defines for the CBC-HMAC methods.
func CheckPair(a Algorithm, m Method) error {
	fam, err := a.Family()
	if err != nil {
		return err
	}
	if m == 0 {
		return ErrMethodAbsent
	}
	if !m.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, m)
	}
	if fam == FamilyECDH1PU && !m.isCBCHMAC() {
		return fmt.Errorf("%w: %s with %s", ErrIncompatible, a, m)
	}
	return nil
}
