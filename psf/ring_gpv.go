package psf

import (
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"

	"lattice-schemes/internal/gauss"
	"lattice-schemes/zq"
)

// MinRingDegree is the smallest ring degree supported by the NTT backend.
const MinRingDegree = 16

// RingGPV is the ring analogue of GPV over R_q = Z_q[X]/(X^N+1). The public
// row is a = (1, â, g_0 − (e_0 + â·r_0), …, g_{k-1} − (e_{k-1} + â·r_{k-1}))
// with g_j = 2^j, and the trapdoor is the ternary pairs (e_j, r_j).
//
// Domain points are m = k+2 ring elements flattened coefficient-wise into an
// integer vector of length m·N.
type RingGPV struct {
	ringQ *ring.Ring
	n, k  int
	m     int
	q     int64
	s     float64
}

// RingPublicKey holds the m public ring elements in coefficient form.
type RingPublicKey struct {
	A [][]int64
}

// RingTrapdoor holds the ternary trapdoor polynomials.
type RingTrapdoor struct {
	E [][]int64
	R [][]int64
}

var _ PSF[*RingPublicKey, *RingTrapdoor, zq.IntVec, zq.Vector] = (*RingGPV)(nil)

// NewRingGPV configures the family for ring degree N (a power of two, at
// least MinRingDegree), an NTT-friendly prime q ≡ 1 mod 2N and Gaussian
// parameter s.
func NewRingGPV(N int, q int64, s float64) (*RingGPV, error) {
	if N < MinRingDegree || N&(N-1) != 0 {
		return nil, fmt.Errorf("%w: ring degree %d must be a power of two >= %d", ErrParameters, N, MinRingDegree)
	}
	if q < 2 || q >= zq.MaxModulus {
		return nil, fmt.Errorf("%w: modulus %d outside [2, 2^31)", ErrParameters, q)
	}
	if !big.NewInt(q).ProbablyPrime(20) || q%int64(2*N) != 1 {
		return nil, fmt.Errorf("%w: modulus %d is not a prime congruent to 1 mod %d", ErrParameters, q, 2*N)
	}
	if !(s > 0) {
		return nil, fmt.Errorf("%w: width %v must be positive", ErrParameters, s)
	}
	if s > gauss.MaxWidth {
		return nil, fmt.Errorf("%w: width %g above %g", ErrParameters, s, gauss.MaxWidth)
	}
	k := zq.BitLen(q)
	m := k + 2
	if lo := minWidth(m*N, 2*N, k*N, k*N); s < lo {
		return nil, fmt.Errorf("%w: width %.2f below %.2f required for N=%d q=%d", ErrParameters, s, lo, N, q)
	}
	ringQ, err := ring.NewRing(N, []uint64{uint64(q)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameters, err)
	}
	return &RingGPV{ringQ: ringQ, n: N, k: k, m: m, q: q, s: s}, nil
}

// N returns the ring degree.
func (g *RingGPV) N() int { return g.n }

// Q returns the modulus.
func (g *RingGPV) Q() int64 { return g.q }

// Width returns the Gaussian parameter s.
func (g *RingGPV) Width() float64 { return g.s }

// Dim returns the flattened domain dimension m·N.
func (g *RingGPV) Dim() int { return g.m * g.n }

// Bound returns the domain norm bound s·sqrt(m·N).
func (g *RingGPV) Bound() float64 { return g.s * math.Sqrt(float64(g.Dim())) }

// MaxAttempts implements AttemptBounder.
func (g *RingGPV) MaxAttempts() int { return attemptBound }

// TrapGen implements PSF. â is drawn with lattigo's uniform sampler and the
// trapdoor polynomials with its ternary sampler (P[0] = 1/2).
func (g *RingGPV) TrapGen(rng io.Reader) (*RingPublicKey, *RingTrapdoor, error) {
	prng := &readerPRNG{r: rng}
	aHat := g.ringQ.NewPoly()
	ring.NewUniformSampler(prng, g.ringQ).Read(aHat)
	ts := ring.NewTernarySampler(prng, g.ringQ, 0.5, false)
	e := make([]*ring.Poly, g.k)
	r := make([]*ring.Poly, g.k)
	for j := 0; j < g.k; j++ {
		e[j] = ts.ReadNew()
		r[j] = ts.ReadNew()
	}
	if prng.err != nil {
		return nil, nil, fmt.Errorf("psf: read randomness: %w", prng.err)
	}

	td := &RingTrapdoor{E: make([][]int64, g.k), R: make([][]int64, g.k)}
	a := make([][]int64, g.m)
	a[0] = make([]int64, g.n)
	a[0][0] = 1
	a[1] = g.coeffs(aHat, false)
	aNTT := g.ringQ.NewPoly()
	g.ringQ.NTT(aHat, aNTT)
	tmp := g.ringQ.NewPoly()
	for j := 0; j < g.k; j++ {
		td.E[j] = g.coeffs(e[j], true)
		td.R[j] = g.coeffs(r[j], true)
		g.ringQ.NTT(r[j], r[j])
		g.ringQ.MulCoeffs(aNTT, r[j], tmp)
		ar := g.fromNTT(tmp)
		col := make([]int64, g.n)
		for t := range col {
			col[t] = zq.Mod(-td.E[j][t]-ar[t], g.q)
		}
		col[0] = zq.Mod(col[0]+int64(1)<<uint(j), g.q)
		a[2+j] = col
	}
	return &RingPublicKey{A: a}, td, nil
}

// SampleDomain implements PSF.
func (g *RingGPV) SampleDomain(rng io.Reader) (zq.IntVec, error) {
	return gauss.NewSampler(rng).Vec(g.Dim(), g.s)
}

// SamplePreimage implements PSF.
func (g *RingGPV) SamplePreimage(rng io.Reader, pf *RingPublicKey, td *RingTrapdoor, u zq.Vector) (zq.IntVec, error) {
	if err := g.checkPublic(pf); err != nil {
		return nil, err
	}
	if err := g.checkTrapdoor(td); err != nil {
		return nil, err
	}
	if u.Len() != g.n || u.Q != g.q {
		return nil, fmt.Errorf("%w: target in Z_%d^%d, want Z_%d^%d", ErrMalformed, u.Q, u.Len(), g.q, g.n)
	}

	smp := gauss.NewSampler(rng)
	pv, err := smp.Vec(g.Dim(), g.s)
	if err != nil {
		return nil, err
	}
	x := zq.IntVec(pv)
	v := u.Sub(g.dot(pf.A, g.split(x)))

	// z[j] collects digit j of every coefficient of v.
	z := make([][]int64, g.k)
	for j := range z {
		z[j] = make([]int64, g.n)
	}
	for t, c := range v.Coeffs {
		digits, err := sampleGadget(smp, c, g.k)
		if err != nil {
			return nil, err
		}
		for j, d := range digits {
			z[j][t] = d
		}
	}

	x0, x1 := x[:g.n], x[g.n:2*g.n]
	for j := 0; j < g.k; j++ {
		ez := zq.NegacyclicMul(td.E[j], z[j])
		rz := zq.NegacyclicMul(td.R[j], z[j])
		xj := x[(2+j)*g.n : (3+j)*g.n]
		for t := 0; t < g.n; t++ {
			x0[t] += ez[t]
			x1[t] += rz[t]
			xj[t] += z[j][t]
		}
	}
	if !g.CheckDomain(pf, x) {
		return nil, ErrRejected
	}
	return x, nil
}

// Eval implements PSF.
func (g *RingGPV) Eval(pf *RingPublicKey, x zq.IntVec) (zq.Vector, error) {
	if err := g.checkPublic(pf); err != nil {
		return zq.Vector{}, err
	}
	if len(x) != g.Dim() {
		return zq.Vector{}, fmt.Errorf("%w: preimage length %d, want %d", ErrMalformed, len(x), g.Dim())
	}
	return g.dot(pf.A, g.split(x)), nil
}

// CheckDomain implements PSF.
func (g *RingGPV) CheckDomain(_ *RingPublicKey, x zq.IntVec) bool {
	return len(x) == g.Dim() && x.Norm() <= g.Bound()
}

// split views a flattened domain vector as m polynomials.
func (g *RingGPV) split(x zq.IntVec) [][]int64 {
	out := make([][]int64, g.m)
	for i := range out {
		out[i] = x[i*g.n : (i+1)*g.n]
	}
	return out
}

// dot returns Σ a_i·x_i in R_q as a coefficient vector.
func (g *RingGPV) dot(a, x [][]int64) zq.Vector {
	acc := g.ringQ.NewPoly()
	tmp := g.ringQ.NewPoly()
	for i := range a {
		g.ringQ.MulCoeffs(g.toNTT(a[i]), g.toNTT(x[i]), tmp)
		g.ringQ.Add(acc, tmp, acc)
	}
	return zq.Vector{Q: g.q, Coeffs: g.fromNTT(acc)}
}

func (g *RingGPV) toNTT(c []int64) *ring.Poly {
	p := g.ringQ.NewPoly()
	for i, v := range c {
		p.Coeffs[0][i] = uint64(zq.Mod(v, g.q))
	}
	g.ringQ.NTT(p, p)
	return p
}

func (g *RingGPV) fromNTT(p *ring.Poly) []int64 {
	c := g.ringQ.NewPoly()
	g.ringQ.InvNTT(p, c)
	out := make([]int64, g.n)
	for i := range out {
		out[i] = int64(c.Coeffs[0][i])
	}
	return out
}

func (g *RingGPV) checkPublic(pf *RingPublicKey) error {
	if pf == nil || len(pf.A) != g.m {
		return fmt.Errorf("%w: public row length", ErrMalformed)
	}
	for _, a := range pf.A {
		if len(a) != g.n {
			return fmt.Errorf("%w: public polynomial degree", ErrMalformed)
		}
	}
	return nil
}

func (g *RingGPV) checkTrapdoor(td *RingTrapdoor) error {
	if td == nil || len(td.E) != g.k || len(td.R) != g.k {
		return fmt.Errorf("%w: trapdoor length", ErrMalformed)
	}
	for j := 0; j < g.k; j++ {
		if len(td.E[j]) != g.n || len(td.R[j]) != g.n {
			return fmt.Errorf("%w: trapdoor polynomial degree", ErrMalformed)
		}
	}
	return nil
}

// coeffs copies p's coefficients, mapped to (-q/2, q/2] when centered.
func (g *RingGPV) coeffs(p *ring.Poly, centered bool) []int64 {
	out := make([]int64, g.n)
	for i, c := range p.Coeffs[0] {
		out[i] = int64(c)
		if centered {
			out[i] = zq.Center(out[i], g.q)
		}
	}
	return out
}
