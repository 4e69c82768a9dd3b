// Package pfdh implements the probabilistic Full-Domain-Hash signature
// construction on top of any preimage sampleable function.
//
// A signature on m is a pair (salt, x) with f(x) = H(m ∥ salt) and x in the
// PSF domain. Signing draws a fresh salt for every attempt, so a rejected
// preimage sample never reuses a target.
package pfdh

import (
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/tuneinsight/lattigo/v4/utils"

	"lattice-schemes/hash"
	"lattice-schemes/psf"
	"lattice-schemes/signature"
)

// DefaultMaxAttempts bounds the signing loop for PSFs that do not implement
// psf.AttemptBounder.
const DefaultMaxAttempts = 1024

// MaxSaltBits caps the salt length accepted at setup.
const MaxSaltBits = 1 << 16

// Signature is a salted preimage.
type Signature[D any] struct {
	Salt     []byte
	Preimage D
}

// Metrics receives one event per Sign and Verify call.
type Metrics interface {
	ObserveSign(attempts int, err error)
	ObserveVerify(valid bool)
}

type options struct {
	maxAttempts int
	entropy     func() (io.Reader, error)
	metrics     Metrics
}

// Option configures a PFDH scheme at setup.
type Option func(*options)

// WithMaxAttempts overrides the signing attempt bound.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithEntropy replaces the randomness factory. It is called once per KeyGen
// and Sign; each call must return an independent stream.
func WithEntropy(f func() (io.Reader, error)) Option {
	return func(o *options) { o.entropy = f }
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// freshPRNG seeds a lattigo KeyedPRNG from crypto/rand.
func freshPRNG() (io.Reader, error) {
	prng, err := utils.NewPRNG()
	if err != nil {
		return nil, err
	}
	return prng, nil
}

// PFDH composes a PSF with public functions PF, trapdoors TD, domain D and
// range R with a hash into R. It is immutable after New and safe for
// concurrent use.
type PFDH[PF, TD, D any, R interface{ Equal(R) bool }] struct {
	psf         psf.PSF[PF, TD, D, R]
	hash        hash.HashInto[R]
	saltBits    int
	maxAttempts int
	entropy     func() (io.Reader, error)
	metrics     Metrics
}

// New builds a PFDH scheme. saltBits is the salt length in bits; the caller
// is responsible for f and h agreeing on the range.
func New[PF, TD, D any, R interface{ Equal(R) bool }](f psf.PSF[PF, TD, D, R], h hash.HashInto[R], saltBits int, opts ...Option) (*PFDH[PF, TD, D, R], error) {
	if f == nil || h == nil {
		return nil, fmt.Errorf("%w: nil PSF or hash", signature.ErrInvalidParameters)
	}
	if saltBits < 1 || saltBits > MaxSaltBits {
		return nil, fmt.Errorf("%w: salt length %d bits outside [1, %d]", signature.ErrInvalidParameters, saltBits, MaxSaltBits)
	}
	o := options{maxAttempts: DefaultMaxAttempts, entropy: freshPRNG}
	if b, ok := f.(psf.AttemptBounder); ok {
		o.maxAttempts = b.MaxAttempts()
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxAttempts < 1 {
		return nil, fmt.Errorf("%w: attempt bound %d < 1", signature.ErrInvalidParameters, o.maxAttempts)
	}
	if o.entropy == nil {
		return nil, fmt.Errorf("%w: nil entropy source", signature.ErrInvalidParameters)
	}
	return &PFDH[PF, TD, D, R]{
		psf:         f,
		hash:        h,
		saltBits:    saltBits,
		maxAttempts: o.maxAttempts,
		entropy:     o.entropy,
		metrics:     o.metrics,
	}, nil
}

// PSF returns the underlying function family.
func (p *PFDH[PF, TD, D, R]) PSF() psf.PSF[PF, TD, D, R] { return p.psf }

// SaltBits returns the salt length in bits.
func (p *PFDH[PF, TD, D, R]) SaltBits() int { return p.saltBits }

// SaltBytes returns the encoded salt length.
func (p *PFDH[PF, TD, D, R]) SaltBytes() int { return (p.saltBits + 7) / 8 }

// MaxAttempts returns the signing attempt bound.
func (p *PFDH[PF, TD, D, R]) MaxAttempts() int { return p.maxAttempts }

// KeyGen implements signature.Scheme.
func (p *PFDH[PF, TD, D, R]) KeyGen() (PF, TD, error) {
	rng, err := p.entropy()
	if err != nil {
		var pf PF
		var td TD
		return pf, td, fmt.Errorf("pfdh: entropy source: %w", err)
	}
	return p.psf.TrapGen(rng)
}

// Sign implements signature.Scheme.
func (p *PFDH[PF, TD, D, R]) Sign(m string, sk TD, pk PF) (Signature[D], error) {
	attempts, sig, err := p.sign(m, sk, pk)
	if p.metrics != nil {
		p.metrics.ObserveSign(attempts, err)
	}
	return sig, err
}

func (p *PFDH[PF, TD, D, R]) sign(m string, sk TD, pk PF) (int, Signature[D], error) {
	rng, err := p.entropy()
	if err != nil {
		return 0, Signature[D]{}, fmt.Errorf("pfdh: entropy source: %w", err)
	}
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		salt, err := p.sampleSalt(rng)
		if err != nil {
			return attempt, Signature[D]{}, err
		}
		x, err := p.psf.SamplePreimage(rng, pk, sk, p.hash.Hash(salted(m, salt)))
		switch {
		case err == nil:
			return attempt, Signature[D]{Salt: salt, Preimage: x}, nil
		case errors.Is(err, psf.ErrRejected):
			glog.V(2).Infof("pfdh: attempt %d/%d rejected, resampling salt", attempt, p.maxAttempts)
		default:
			return attempt, Signature[D]{}, fmt.Errorf("pfdh: sample preimage: %w", err)
		}
	}
	return p.maxAttempts, Signature[D]{}, fmt.Errorf("%w after %d attempts", signature.ErrSamplingExhausted, p.maxAttempts)
}

// Verify implements signature.Scheme.
func (p *PFDH[PF, TD, D, R]) Verify(m string, sig Signature[D], pk PF) bool {
	valid := p.verify(m, sig, pk)
	if p.metrics != nil {
		p.metrics.ObserveVerify(valid)
	}
	return valid
}

func (p *PFDH[PF, TD, D, R]) verify(m string, sig Signature[D], pk PF) bool {
	if !p.validSalt(sig.Salt) || !p.psf.CheckDomain(pk, sig.Preimage) {
		return false
	}
	fx, err := p.psf.Eval(pk, sig.Preimage)
	if err != nil {
		return false
	}
	return fx.Equal(p.hash.Hash(salted(m, sig.Salt)))
}

func (p *PFDH[PF, TD, D, R]) sampleSalt(rng io.Reader) ([]byte, error) {
	salt := make([]byte, p.SaltBytes())
	if _, err := io.ReadFull(rng, salt); err != nil {
		return nil, fmt.Errorf("pfdh: sample salt: %w", err)
	}
	if r := p.saltBits % 8; r != 0 {
		salt[len(salt)-1] &= byte(1)<<uint(r) - 1
	}
	return salt, nil
}

func (p *PFDH[PF, TD, D, R]) validSalt(salt []byte) bool {
	if len(salt) != p.SaltBytes() {
		return false
	}
	r := p.saltBits % 8
	return r == 0 || salt[len(salt)-1]>>uint(r) == 0
}

// salted encodes m ∥ salt. The salt is fixed-length so the encoding is
// unambiguous for a given scheme.
func salted(m string, salt []byte) string {
	return m + string(salt)
}
