// Package psf defines preimage sampleable functions (PSFs) and implements
// two gadget-trapdoor families: GPV over Z_q^{n×m} and its ring analogue
// over R_q = Z_q[X]/(X^N+1).
//
// A PSF is a public function f_A with a trapdoor T_A that allows sampling a
// short preimage x with f_A(x) = u for any target u in the range.
package psf

import (
	"errors"
	"io"
)

var (
	// ErrRejected signals that a preimage sample failed the domain check.
	// It is not fatal: callers retry with a fresh target.
	ErrRejected = errors.New("psf: preimage sample rejected")
	// ErrParameters reports an inconsistent PSF configuration.
	ErrParameters = errors.New("psf: invalid parameters")
	// ErrMalformed reports keys or vectors whose shape does not match the
	// configured family.
	ErrMalformed = errors.New("psf: malformed input")
)

// PSF is a preimage sampleable function with public description PF,
// trapdoor TD, domain D and range R. Randomised methods draw only from the
// supplied reader.
type PSF[PF, TD, D, R any] interface {
	// TrapGen samples a public function together with its trapdoor.
	TrapGen(rng io.Reader) (PF, TD, error)
	// SampleDomain samples a domain point from the family's input distribution.
	SampleDomain(rng io.Reader) (D, error)
	// SamplePreimage samples x with Eval(pf, x) = u. It returns ErrRejected
	// when the sample falls outside the domain.
	SamplePreimage(rng io.Reader, pf PF, td TD, u R) (D, error)
	// Eval computes f_A(x).
	Eval(pf PF, x D) (R, error)
	// CheckDomain reports whether x is a valid short domain point.
	CheckDomain(pf PF, x D) bool
}

// AttemptBounder is implemented by PSFs that can state how many independent
// SamplePreimage calls suffice to succeed except with negligible probability.
type AttemptBounder interface {
	MaxAttempts() int
}
