package jwex

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"fmt"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
)

// ecKeyPair is the static key material of one ECDH-1PU party. The same
// pair serves as sender key when encrypting and as recipient key when
// decrypting.
type ecKeyPair struct {
	curve elliptic.Curve
	priv  *ecdh.PrivateKey
	pub   *ecdh.PublicKey
}

func ecKeys(data []byte) (ecKeyPair, error) {
	priv, err := cryptox.ParseECKeyPair(data)
	if err != nil {
		return ecKeyPair{}, err
	}
	p, err := priv.ECDH()
	if err != nil {
		return ecKeyPair{}, fmt.Errorf("jwex: convert private key: %w", err)
	}
	return ecKeyPair{curve: priv.Curve, priv: p, pub: p.PublicKey()}, nil
}
