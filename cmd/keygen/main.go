// Command keygen prints secret material in the format a client policy
// expects, and API keys with their hashes for TOKENS_API_KEY_HASH.
//
//	keygen -sig HS256
//	keygen -sig RS256 -pkcs8 -public
//	keygen -alg RSA-OAEP-256 -enc A256GCM
//	keygen -alg ECDH-1PU+A128KW -enc A128CBC-HS256 -curve P-384
//	keygen -secret 48
//	keygen -api-key
//	keygen -hash <key>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/josex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

type options struct {
	sig    string
	alg    string
	enc    string
	secret int
	apiKey bool
	hash   string

	pkcs8  bool
	public bool
	curve  string
}

func main() {
	var o options
	flag.StringVar(&o.sig, "sig", "", "signature algorithm to generate a secret for (HS256, RS512, ...)")
	flag.StringVar(&o.alg, "alg", "", "key management algorithm to generate a secret for (dir, RSA-OAEP-256, ECDH-1PU+A128KW, ...)")
	flag.StringVar(&o.enc, "enc", "", "content encryption method paired with -alg (A128CBC-HS256, A256GCM, ...)")
	flag.IntVar(&o.secret, "secret", 0, "print a printable random secret of this many bytes")
	flag.BoolVar(&o.apiKey, "api-key", false, "generate an API key and print it with its argon2id hash")
	flag.StringVar(&o.hash, "hash", "", "print the argon2id hash of an existing API key")
	flag.BoolVar(&o.pkcs8, "pkcs8", false, "encode generated RSA private keys as PKCS8 instead of PKCS1")
	flag.BoolVar(&o.public, "public", false, "also print the PKIX public key of a generated RSA key")
	flag.StringVar(&o.curve, "curve", "", "curve for ECDH-1PU bundles (P-256, P-384, P-521); defaults to the key wrap strength")
	flag.Parse()

	if err := run(os.Stdout, o); err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
}

func run(w io.Writer, o options) error {
	switch {
	case o.sig != "":
		alg, err := jwtx.ParseSignatureAlgorithm(o.sig)
		if err != nil {
			return err
		}
		family, err := alg.Family()
		if err != nil {
			return err
		}
		if family == jwtx.FamilyAsymmetric {
			return writeRSAKey(w, o)
		}
		if o.pkcs8 || o.public {
			return fmt.Errorf("-pkcs8 and -public need an RSA algorithm, not %s", alg)
		}
		secret, err := josex.GenerateSignatureSecret(alg)
		if err != nil {
			return err
		}
		return writeSecret(w, secret)

	case o.alg != "":
		alg, err := jwex.ParseAlgorithm(o.alg)
		if err != nil {
			return err
		}
		enc, err := jwex.ParseMethod(o.enc)
		if err != nil {
			return fmt.Errorf("-enc: %w", err)
		}
		if err := jwex.CheckPair(alg, enc); err != nil {
			return err
		}
		family, err := alg.Family()
		if err != nil {
			return err
		}
		if o.curve != "" && family != jwex.FamilyECDH1PU {
			return fmt.Errorf("-curve needs an ECDH-1PU algorithm, not %s", alg)
		}
		if (o.pkcs8 || o.public) && family != jwex.FamilyRSAOAEP {
			return fmt.Errorf("-pkcs8 and -public need an RSA algorithm, not %s", alg)
		}

		switch {
		case family == jwex.FamilyRSAOAEP:
			return writeRSAKey(w, o)
		case o.curve != "":
			curve, err := cryptox.CurveByName(o.curve)
			if err != nil {
				return err
			}
			bundle, err := cryptox.GenerateECBundle(curve)
			if err != nil {
				return err
			}
			return writeSecret(w, bundle)
		}
		secret, err := josex.GenerateEncryptionSecret(alg, enc)
		if err != nil {
			return err
		}
		return writeSecret(w, secret)

	case o.secret > 0:
		secret, err := cryptox.GenerateSecret(o.secret)
		if err != nil {
			return err
		}
		return writeSecret(w, secret)

	case o.apiKey:
		key, err := cryptox.GenerateAPIKey()
		if err != nil {
			return err
		}
		hash, err := cryptox.HashAPIKey(key)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "API key: %s\nTOKENS_API_KEY_HASH=%s\n", key, hash)
		return err

	case o.hash != "":
		hash, err := cryptox.HashAPIKey(o.hash)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, hash)
		return err
	}
	return errors.New("nothing to do")
}

// writeRSAKey prints a fresh private key, followed by its public half when
// asked for.
func writeRSAKey(w io.Writer, o options) error {
	generate := cryptox.GenerateRSAKey
	if o.pkcs8 {
		generate = cryptox.GenerateRSAKeyPKCS8
	}
	key, err := generate(cryptox.MinRSABits)
	if err != nil {
		return err
	}
	if err := writeSecret(w, key); err != nil {
		return err
	}
	if !o.public {
		return nil
	}
	pub, err := cryptox.RSAPublicKeyPEM(key)
	if err != nil {
		return err
	}
	return writeSecret(w, pub)
}

// writeSecret prints PEM material as is and terminates printable secrets
// with a newline.
func writeSecret(w io.Writer, secret []byte) error {
	if _, err := w.Write(secret); err != nil {
		return err
	}
	if len(secret) > 0 && secret[len(secret)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
