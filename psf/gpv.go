package psf

import (
	"fmt"
	"io"
	"math"

	"github.com/tuneinsight/lattigo/v4/ring"

	"lattice-schemes/internal/gauss"
	"lattice-schemes/zq"
)

// GPV is the matrix PSF f_A(x) = A·x mod q with a Micciancio–Peikert gadget
// trapdoor: A = [Ā | G − Ā·R] where Ā is uniform in Z_q^{n×m̄}, R is ternary
// in Z^{m̄×nk} and G = I_n ⊗ (1, 2, …, 2^{k-1}).
//
// Domain points are integer vectors of length m = m̄ + nk with Euclidean
// norm at most s·sqrt(m).
type GPV struct {
	n, k    int
	mBar, m int
	q       int64
	s       float64
}

// GPVPublicKey is the public matrix A ∈ Z_q^{n×m}.
type GPVPublicKey struct {
	A *zq.Matrix
}

// GPVTrapdoor is the ternary matrix R ∈ Z^{m̄×nk}.
type GPVTrapdoor struct {
	R *zq.Matrix
}

var _ PSF[*GPVPublicKey, *GPVTrapdoor, zq.IntVec, zq.Vector] = (*GPV)(nil)

// NewGPV configures the family for dimension n, modulus q and Gaussian
// parameter s.
func NewGPV(n int, q int64, s float64) (*GPV, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: dimension %d < 1", ErrParameters, n)
	}
	if q < 2 || q >= zq.MaxModulus {
		return nil, fmt.Errorf("%w: modulus %d outside [2, 2^31)", ErrParameters, q)
	}
	k := zq.BitLen(q)
	g := &GPV{n: n, k: k, mBar: n * (k + 2), q: q, s: s}
	g.m = g.mBar + n*k
	if !(s > 0) {
		return nil, fmt.Errorf("%w: width %v must be positive", ErrParameters, s)
	}
	if s > gauss.MaxWidth {
		return nil, fmt.Errorf("%w: width %g above %g", ErrParameters, s, gauss.MaxWidth)
	}
	if lo := minWidth(g.m, g.mBar, n*k, n*k); s < lo {
		return nil, fmt.Errorf("%w: width %.2f below %.2f required for n=%d q=%d", ErrParameters, s, lo, n, q)
	}
	return g, nil
}

// N returns the dimension n (rows of A).
func (g *GPV) N() int { return g.n }

// Q returns the modulus.
func (g *GPV) Q() int64 { return g.q }

// Width returns the Gaussian parameter s.
func (g *GPV) Width() float64 { return g.s }

// Dim returns the domain dimension m.
func (g *GPV) Dim() int { return g.m }

// Bound returns the domain norm bound s·sqrt(m).
func (g *GPV) Bound() float64 { return g.s * math.Sqrt(float64(g.m)) }

// MaxAttempts implements AttemptBounder.
func (g *GPV) MaxAttempts() int { return attemptBound }

// TrapGen implements PSF.
func (g *GPV) TrapGen(rng io.Reader) (*GPVPublicKey, *GPVTrapdoor, error) {
	prng := &readerPRNG{r: rng}
	nk := g.n * g.k
	mask := uint64(1)<<uint(g.k) - 1

	aBar := zq.NewMatrix(g.n, g.mBar)
	for i := range aBar.Data {
		aBar.Data[i] = int64(ring.RandUniform(prng, uint64(g.q), mask))
	}
	r := zq.NewMatrix(g.mBar, nk)
	for i := range r.Data {
		r.Data[i] = randTernary(prng)
	}
	if prng.err != nil {
		return nil, nil, fmt.Errorf("psf: read randomness: %w", prng.err)
	}

	ar := aBar.MulMod(r, g.q)
	a := zq.NewMatrix(g.n, g.m)
	for i := 0; i < g.n; i++ {
		copy(a.Row(i)[:g.mBar], aBar.Row(i))
		for j := 0; j < nk; j++ {
			var gij int64
			if j/g.k == i {
				gij = int64(1) << uint(j%g.k)
			}
			a.Set(i, g.mBar+j, zq.Mod(gij-ar.At(i, j), g.q))
		}
	}
	return &GPVPublicKey{A: a}, &GPVTrapdoor{R: r}, nil
}

// SampleDomain implements PSF.
func (g *GPV) SampleDomain(rng io.Reader) (zq.IntVec, error) {
	return gauss.NewSampler(rng).Vec(g.m, g.s)
}

// SamplePreimage implements PSF: x = p + [R;I]·z where p is a spherical
// perturbation and z holds the gadget digits of u − A·p.
func (g *GPV) SamplePreimage(rng io.Reader, pf *GPVPublicKey, td *GPVTrapdoor, u zq.Vector) (zq.IntVec, error) {
	if err := g.checkPublic(pf); err != nil {
		return nil, err
	}
	nk := g.n * g.k
	if td == nil || td.R == nil || td.R.Rows != g.mBar || td.R.Cols != nk || len(td.R.Data) != g.mBar*nk {
		return nil, fmt.Errorf("%w: trapdoor shape", ErrMalformed)
	}
	if u.Len() != g.n || u.Q != g.q {
		return nil, fmt.Errorf("%w: target in Z_%d^%d, want Z_%d^%d", ErrMalformed, u.Q, u.Len(), g.q, g.n)
	}

	smp := gauss.NewSampler(rng)
	p, err := smp.Vec(g.m, g.s)
	if err != nil {
		return nil, err
	}
	v := u.Sub(pf.A.MulVecMod(p, g.q))

	z := make(zq.IntVec, nk)
	for i := 0; i < g.n; i++ {
		digits, err := sampleGadget(smp, v.Coeffs[i], g.k)
		if err != nil {
			return nil, err
		}
		copy(z[i*g.k:], digits)
	}

	x := zq.IntVec(p)
	rz := td.R.MulVec(z)
	for i := 0; i < g.mBar; i++ {
		x[i] += rz[i]
	}
	for j := 0; j < nk; j++ {
		x[g.mBar+j] += z[j]
	}
	if !g.CheckDomain(pf, x) {
		return nil, ErrRejected
	}
	return x, nil
}

// Eval implements PSF.
func (g *GPV) Eval(pf *GPVPublicKey, x zq.IntVec) (zq.Vector, error) {
	if err := g.checkPublic(pf); err != nil {
		return zq.Vector{}, err
	}
	if len(x) != g.m {
		return zq.Vector{}, fmt.Errorf("%w: preimage length %d, want %d", ErrMalformed, len(x), g.m)
	}
	return pf.A.MulVecMod(x, g.q), nil
}

// CheckDomain implements PSF.
func (g *GPV) CheckDomain(_ *GPVPublicKey, x zq.IntVec) bool {
	return len(x) == g.m && x.Norm() <= g.Bound()
}

func (g *GPV) checkPublic(pf *GPVPublicKey) error {
	if pf == nil || pf.A == nil || pf.A.Rows != g.n || pf.A.Cols != g.m || len(pf.A.Data) != g.n*g.m {
		return fmt.Errorf("%w: public matrix shape", ErrMalformed)
	}
	return nil
}
