package josex

import (
	"fmt"

	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

// Kind is the structural class of a compact token.
type Kind uint8

const (
	KindNone Kind = iota
	KindJWS
	KindJWE
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindJWS:
		return "jws"
	case KindJWE:
		return "jwe"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Classify looks at the shape and header of token. It never verifies or
// decrypts, and never panics on arbitrary input. Enveloped tokens have no
// dots and classify as KindNone.
func Classify(token string) Kind {
	switch {
	case jwtx.IsJWS(token):
		return KindJWS
	case jwex.IsJWE(token):
		return KindJWE
	}
	return KindNone
}
