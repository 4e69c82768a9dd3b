// Package gauss provides the discrete Gaussian samplers over Z used by the
// lattice PSFs, including the parity-constrained variant behind gadget
// sampling.
// Every sampler draws from an explicit io.Reader so callers control the
// randomness stream; a Sampler must not be shared between goroutines.
package gauss

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// TailCut bounds discrete Gaussian samples to center ± TailCut·s.
const TailCut = 6.0

// MaxWidth is the largest supported Gaussian parameter. It keeps the
// tail-cut support, and sums of a few samples, well inside int64 and exactly
// representable as float64.
const MaxWidth = float64(int64(1)<<40) / TailCut

// ErrWidth is returned for Gaussian parameters outside (0, MaxWidth].
var ErrWidth = errors.New("gauss: width out of range")

// Sampler draws integers from a byte stream.
type Sampler struct {
	r   io.Reader
	buf [8]byte
}

// NewSampler wraps r.
func NewSampler(r io.Reader) *Sampler {
	return &Sampler{r: r}
}

// Uint64 reads 8 bytes as a little-endian word.
func (s *Sampler) Uint64() (uint64, error) {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		return 0, fmt.Errorf("gauss: read randomness: %w", err)
	}
	return binary.LittleEndian.Uint64(s.buf[:]), nil
}

// Uniform returns a uniform value in [0,n) by rejection.
func (s *Sampler) Uniform(n uint64) (uint64, error) {
	if n == 0 {
		return 0, errors.New("gauss: empty range")
	}
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		v, err := s.Uint64()
		if err != nil {
			return 0, err
		}
		if v < limit {
			return v % n, nil
		}
	}
}

// Float64 returns a uniform value in [0,1) with 53 bits of precision.
func (s *Sampler) Float64() (float64, error) {
	v, err := s.Uint64()
	if err != nil {
		return 0, err
	}
	return float64(v>>11) * (1.0 / (1 << 53)), nil
}

// Z samples from the discrete Gaussian D_{Z,w,c} with Gaussian parameter w
// (standard deviation w/sqrt(2π)) by rejection from the uniform distribution
// on the tail-cut support.
func (s *Sampler) Z(c, w float64) (int64, error) {
	if !(w > 0) || w > MaxWidth {
		return 0, ErrWidth
	}
	lo := int64(math.Ceil(c - TailCut*w))
	hi := int64(math.Floor(c + TailCut*w))
	span := uint64(hi - lo + 1)
	for {
		off, err := s.Uniform(span)
		if err != nil {
			return 0, err
		}
		x := lo + int64(off)
		d := float64(x) - c
		rho := math.Exp(-math.Pi * d * d / (w * w))
		u, err := s.Float64()
		if err != nil {
			return 0, err
		}
		if u < rho {
			return x, nil
		}
	}
}

// ZWithParity samples D_{Z,w} conditioned on x ≡ parity (mod 2).
func (s *Sampler) ZWithParity(parity int64, w float64) (int64, error) {
	for {
		x, err := s.Z(0, w)
		if err != nil {
			return 0, err
		}
		if (x-parity)%2 == 0 {
			return x, nil
		}
	}
}

// Vec fills a length-n vector with independent D_{Z,w} samples.
func (s *Sampler) Vec(n int, w float64) ([]int64, error) {
	out := make([]int64, n)
	for i := range out {
		x, err := s.Z(0, w)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}
