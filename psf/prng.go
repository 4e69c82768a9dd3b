package psf

import (
	"io"

	"github.com/tuneinsight/lattigo/v4/ring"
	"github.com/tuneinsight/lattigo/v4/utils"
)

// readerPRNG feeds an io.Reader to the lattigo samplers, which ignore read
// errors. The first error is kept and later reads return zeros, so a failed
// stream ends the sampling instead of looping on a stale buffer.
type readerPRNG struct {
	r   io.Reader
	err error
}

var _ utils.PRNG = (*readerPRNG)(nil)

func (p *readerPRNG) Read(b []byte) (int, error) {
	if p.err == nil {
		if _, p.err = io.ReadFull(p.r, b); p.err == nil {
			return len(b), nil
		}
	}
	for i := range b {
		b[i] = 0
	}
	return len(b), p.err
}

// ternaryOf maps a uniform draw from [0,4) to {-1, 0, 1} with P[0] = 1/2,
// matching lattigo's ternary sampler at p = 0.5.
var ternaryOf = [4]int64{-1, 1, 0, 0}

func randTernary(prng utils.PRNG) int64 {
	return ternaryOf[ring.RandUniform(prng, 4, 3)]
}
