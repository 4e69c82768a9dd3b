// Package zq holds the small amount of integer and modular linear algebra the
// lattice PSFs need: vectors over Z_q, signed integer vectors, dense matrices
// and negacyclic products in Z[X]/(X^N+1).
//
// Moduli are limited to MaxModulus so every product of two reduced
// coefficients fits in an int64.
package zq

import (
	"math"
	"math/bits"
)

// MaxModulus is the largest supported modulus (exclusive).
const MaxModulus = int64(1) << 31

// Mod returns a mod q in [0,q).
func Mod(a, q int64) int64 {
	r := a % q
	if r < 0 {
		r += q
	}
	return r
}

// Center maps a mod q to the symmetric interval (-q/2, q/2].
func Center(a, q int64) int64 {
	r := Mod(a, q)
	if r > q/2 {
		r -= q
	}
	return r
}

// BitLen returns k = ceil(log2 q), the number of base-2 gadget digits needed
// to represent every residue in [0,q).
func BitLen(q int64) int {
	return bits.Len64(uint64(q - 1))
}

// Vector is an element of Z_q^n with coefficients kept in [0,q).
type Vector struct {
	Q      int64
	Coeffs []int64
}

// NewVector allocates the zero vector of Z_q^n.
func NewVector(n int, q int64) Vector {
	return Vector{Q: q, Coeffs: make([]int64, n)}
}

// Len returns the dimension.
func (v Vector) Len() int { return len(v.Coeffs) }

// Equal reports exact equality, including the modulus.
func (v Vector) Equal(o Vector) bool {
	if v.Q != o.Q || len(v.Coeffs) != len(o.Coeffs) {
		return false
	}
	for i := range v.Coeffs {
		if Mod(v.Coeffs[i], v.Q) != Mod(o.Coeffs[i], o.Q) {
			return false
		}
	}
	return true
}

// Sub returns v - o mod q.
func (v Vector) Sub(o Vector) Vector {
	out := NewVector(len(v.Coeffs), v.Q)
	for i := range v.Coeffs {
		out.Coeffs[i] = Mod(v.Coeffs[i]-o.Coeffs[i], v.Q)
	}
	return out
}

// Clone returns a deep copy.
func (v Vector) Clone() Vector {
	return Vector{Q: v.Q, Coeffs: append([]int64(nil), v.Coeffs...)}
}

// IntVec is a vector over Z.
type IntVec []int64

// Clone returns a deep copy.
func (x IntVec) Clone() IntVec { return append(IntVec(nil), x...) }

// InfNorm returns max |x_i|.
func (x IntVec) InfNorm() int64 {
	var m int64
	for _, v := range x {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// Norm returns the Euclidean norm. It is computed in float64 so hostile
// inputs cannot overflow.
func (x IntVec) Norm() float64 {
	var acc float64
	for _, v := range x {
		f := float64(v)
		acc += f * f
	}
	return math.Sqrt(acc)
}

// Matrix is a dense row-major integer matrix.
type Matrix struct {
	Rows, Cols int
	Data       []int64
}

// NewMatrix allocates a zero rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]int64, rows*cols)}
}

// At returns entry (i,j).
func (m *Matrix) At(i, j int) int64 { return m.Data[i*m.Cols+j] }

// Set writes entry (i,j).
func (m *Matrix) Set(i, j int, v int64) { m.Data[i*m.Cols+j] = v }

// Row returns a view of row i.
func (m *Matrix) Row(i int) []int64 { return m.Data[i*m.Cols : (i+1)*m.Cols] }

// MulVecMod returns m·x mod q. len(x) must equal m.Cols.
func (m *Matrix) MulVecMod(x IntVec, q int64) Vector {
	out := NewVector(m.Rows, q)
	xr := make([]int64, len(x))
	for j, v := range x {
		xr[j] = Mod(v, q)
	}
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		var acc int64
		for j, a := range row {
			acc = Mod(acc+Mod(a, q)*xr[j], q)
		}
		out.Coeffs[i] = acc
	}
	return out
}

// MulVec returns m·x over Z. Intended for small entries (trapdoor times
// gadget digits) where no overflow is possible.
func (m *Matrix) MulVec(x IntVec) IntVec {
	out := make(IntVec, m.Rows)
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		var acc int64
		for j, a := range row {
			acc += a * x[j]
		}
		out[i] = acc
	}
	return out
}

// MulMod returns m·b mod q with entries in [0,q).
func (m *Matrix) MulMod(b *Matrix, q int64) *Matrix {
	out := NewMatrix(m.Rows, b.Cols)
	for i := 0; i < m.Rows; i++ {
		for k := 0; k < m.Cols; k++ {
			a := Mod(m.At(i, k), q)
			if a == 0 {
				continue
			}
			for j := 0; j < b.Cols; j++ {
				idx := i*out.Cols + j
				out.Data[idx] = Mod(out.Data[idx]+a*Mod(b.At(k, j), q), q)
			}
		}
	}
	return out
}

// NegacyclicMul computes a·b in Z[X]/(X^N+1) where N = len(a) = len(b).
func NegacyclicMul(a, b []int64) []int64 {
	n := len(a)
	res := make([]int64, n)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			k := i + j
			if k < n {
				res[k] += ai * bj
			} else {
				res[k-n] -= ai * bj
			}
		}
	}
	return res
}
