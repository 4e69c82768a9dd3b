// Package signature defines the contract shared by every signature
// construction in this module.
//
// A construction is obtained from a family-specific setup function, which
// validates and freezes its parameters. After that it exposes the uniform
// surface of Scheme, so callers can treat schemes alike regardless of the
// algorithm behind them.
package signature

import "errors"

var (
	// ErrInvalidParameters is returned by setup functions for inconsistent
	// configurations. It is never returned after setup.
	ErrInvalidParameters = errors.New("signature: invalid parameters")
	// ErrSamplingExhausted is returned by Sign when the bounded retry loop
	// runs out of attempts. It points at a mismatched PSF/hash pairing, not
	// at bad luck.
	ErrSamplingExhausted = errors.New("signature: preimage sampling exhausted")
)

// Scheme is a signature scheme with public keys PK, secret keys SK and
// signatures Sig.
type Scheme[PK, SK, Sig any] interface {
	// KeyGen generates a fresh key pair. It fails only if the entropy
	// source fails.
	KeyGen() (PK, SK, error)
	// Sign signs m under sk. pk is the public key matching sk.
	Sign(m string, sk SK, pk PK) (Sig, error)
	// Verify reports whether sig is a valid signature of m under pk.
	// Malformed signatures are reported as invalid.
	Verify(m string, sig Sig, pk PK) bool
}
