package pfdh

import (
	"fmt"

	"lattice-schemes/hash"
	"lattice-schemes/psf"
	"lattice-schemes/signature"
	"lattice-schemes/zq"
)

// VectorSignature is the signature type of the lattice instantiations.
type VectorSignature = Signature[zq.IntVec]

// GPV is PFDH over the matrix GPV family with a SHA-256 hash into Z_q^n.
type GPV = PFDH[*psf.GPVPublicKey, *psf.GPVTrapdoor, zq.IntVec, zq.Vector]

// RingGPV is PFDH over the ring GPV family with a SHAKE256 hash into R_q.
type RingGPV = PFDH[*psf.RingPublicKey, *psf.RingTrapdoor, zq.IntVec, zq.Vector]

var (
	_ signature.Scheme[*psf.GPVPublicKey, *psf.GPVTrapdoor, VectorSignature]   = (*GPV)(nil)
	_ signature.Scheme[*psf.RingPublicKey, *psf.RingTrapdoor, VectorSignature] = (*RingGPV)(nil)
)

// SetupGPV returns PFDH over GPV(n, q, s) with saltBits-bit salts, e.g.
// SetupGPV(4, 113, 17, 128).
func SetupGPV(n int, q int64, s float64, saltBits int, opts ...Option) (*GPV, error) {
	f, err := psf.NewGPV(n, q, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrInvalidParameters, err)
	}
	h, err := hash.NewSHA256(n, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrInvalidParameters, err)
	}
	return New[*psf.GPVPublicKey, *psf.GPVTrapdoor, zq.IntVec, zq.Vector](f, h, saltBits, opts...)
}

// SetupRingGPV returns PFDH over the ring family of degree N with modulus q
// and width s.
func SetupRingGPV(N int, q int64, s float64, saltBits int, opts ...Option) (*RingGPV, error) {
	f, err := psf.NewRingGPV(N, q, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrInvalidParameters, err)
	}
	h, err := hash.NewShake(N, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrInvalidParameters, err)
	}
	return New[*psf.RingPublicKey, *psf.RingTrapdoor, zq.IntVec, zq.Vector](f, h, saltBits, opts...)
}
