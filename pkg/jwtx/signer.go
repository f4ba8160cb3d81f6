package jwtx

import (
	"errors"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/golang-jwt/jwt/v5"
)

const opSign = "jws.sign"

// Sign serialises claims into a compact JWS using alg. For the HMAC
// algorithms secret is the raw shared secret; for the RSA algorithms it is a
// PEM encoded private key (PKCS1 or PKCS8).
func Sign(claims ClaimSet, alg SignatureAlgorithm, secret []byte) (string, error) {
	if claims == nil {
		return "", errx.Invalid(opSign, "claims are required")
	}
	if len(secret) == 0 {
		return "", errx.Invalid(opSign, "signature secret is required")
	}

	method, err := alg.method()
	if err != nil {
		return "", algorithmError(opSign, err)
	}

	key, err := signingKey(alg, secret)
	if err != nil {
		return "", errx.New(errx.ErrCryptoFailed, opSign, alg.String(), err)
	}

	t := jwt.NewWithClaims(method, jwt.MapClaims(claims))
	s, err := t.SignedString(key)
	if err != nil {
		return "", errx.New(errx.ErrCryptoFailed, opSign, alg.String(), err)
	}
	return s, nil
}

// signingKey turns secret into the key type golang-jwt expects for alg.
func signingKey(alg SignatureAlgorithm, secret []byte) (any, error) {
	family, err := alg.Family()
	if err != nil {
		return nil, err
	}

	switch family {
	case FamilySymmetric:
		return secret, nil
	case FamilyAsymmetric:
		return cryptox.ParseRSAPrivateKey(secret)
	}
	return nil, ErrUnsupportedAlgorithm
}

// verificationKey is the verifying counterpart of signingKey.
func verificationKey(alg SignatureAlgorithm, secret []byte) (any, error) {
	family, err := alg.Family()
	if err != nil {
		return nil, err
	}

	switch family {
	case FamilySymmetric:
		return secret, nil
	case FamilyAsymmetric:
		return cryptox.ParseRSAPublicKey(secret)
	}
	return nil, ErrUnsupportedAlgorithm
}

// algorithmError keeps "not configured" apart from "not supported".
func algorithmError(op string, err error) error {
	if errors.Is(err, ErrAlgorithmAbsent) {
		return errx.New(errx.ErrInvalidArgument, op, "", err)
	}
	return errx.New(errx.ErrCryptoFailed, op, "", err)
}
