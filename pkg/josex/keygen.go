package josex

import (
	"crypto/elliptic"
	"fmt"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

// GenerateSignatureSecret returns fresh secret material in the format alg
// expects: a printable shared secret as long as the hash output for HMAC,
// a PKCS1 PEM private key for RSA.
func GenerateSignatureSecret(alg jwtx.SignatureAlgorithm) ([]byte, error) {
	switch alg {
	case jwtx.HS256:
		return cryptox.GenerateSecret(32)
	case jwtx.HS384:
		return cryptox.GenerateSecret(48)
	case jwtx.HS512:
		return cryptox.GenerateSecret(64)
	case jwtx.RS256, jwtx.RS384, jwtx.RS512:
		return cryptox.GenerateRSAKey(cryptox.MinRSABits)
	}
	if alg == 0 {
		return nil, jwtx.ErrAlgorithmAbsent
	}
	return nil, fmt.Errorf("%w: %s", jwtx.ErrUnsupportedAlgorithm, alg)
}

// GenerateEncryptionSecret returns fresh secret material for alg and enc:
// a printable content key of enc's key size for dir, a PKCS1 PEM private
// key for RSA-OAEP, and an EC bundle for ECDH-1PU on the curve matching the
// key-wrap strength.
func GenerateEncryptionSecret(alg jwex.Algorithm, enc jwex.Method) ([]byte, error) {
	if err := jwex.CheckPair(alg, enc); err != nil {
		return nil, err
	}

	switch alg {
	case jwex.Dir:
		return cryptox.GenerateSecret(enc.KeySize())
	case jwex.RSAOAEP256, jwex.RSAOAEP384, jwex.RSAOAEP512:
		return cryptox.GenerateRSAKey(cryptox.MinRSABits)
	case jwex.ECDH1PUA128KW:
		return cryptox.GenerateECBundle(elliptic.P256())
	case jwex.ECDH1PUA192KW:
		return cryptox.GenerateECBundle(elliptic.P384())
	case jwex.ECDH1PUA256KW:
		return cryptox.GenerateECBundle(elliptic.P521())
	}
	return nil, fmt.Errorf("%w: %s", jwex.ErrUnsupportedAlgorithm, alg)
}
