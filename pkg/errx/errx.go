// Package errx holds the error kinds shared by the token engine packages.
//
// Every engine operation fails with exactly one kind. The kind is reachable
// with errors.Is, and so is the detail error it wraps, e.g.
//
//	errors.Is(err, errx.ErrTokenInvalid) // kind
//	errors.Is(err, jwtx.ErrInvalidSig)   // detail
package errx

import (
	"errors"
	"strings"
)

// Error kinds.
var (
	// ErrInvalidArgument is a missing or out-of-range input, rejected
	// before any cryptographic work.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTokenInvalid is a token of the wrong shape for the operation, a
	// signature or authentication tag that does not verify, or a nested
	// payload of the wrong type.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired is a cryptographically valid token whose exp claim
	// is missing or has elapsed.
	ErrTokenExpired = errors.New("token expired")

	// ErrCryptoFailed is any other primitive failure: unusable key
	// material, unsupported algorithm combination, library errors.
	ErrCryptoFailed = errors.New("crypto operation failed")

	// ErrRegistryMisconfigured means the strategy registry could not be
	// built. The process must not start serving.
	ErrRegistryMisconfigured = errors.New("registry misconfigured")
)

var kinds = []error{
	ErrInvalidArgument,
	ErrTokenInvalid,
	ErrTokenExpired,
	ErrCryptoFailed,
	ErrRegistryMisconfigured,
}

// Error carries a kind plus the operation and algorithm it happened in.
type Error struct {
	Kind error
	Op   string
	Alg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		if e.Alg != "" {
			b.WriteString("[" + e.Alg + "]")
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the detail error to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New builds an *Error of the given kind.
func New(kind error, op, alg string, err error) error {
	return &Error{Kind: kind, Op: op, Alg: alg, Err: err}
}

// Wrap tags err with kind unless err already carries one, in which case it
// is returned untouched. A nil err yields nil.
func Wrap(kind error, op, alg string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil {
		return err
	}
	return New(kind, op, alg, err)
}

// Invalid is shorthand for an ErrInvalidArgument with a message.
func Invalid(op, msg string) error {
	return New(ErrInvalidArgument, op, "", errors.New(msg))
}

// KindOf returns the kind carried by err, or nil when err has none.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
