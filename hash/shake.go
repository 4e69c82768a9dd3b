package hash

import (
	"golang.org/x/crypto/sha3"

	"lattice-schemes/zq"
)

const shakeTag = "lattice-schemes/hash/shake256"

// Shake hashes strings into Z_q^n (read as coefficient vectors of R_q when
// n is a ring degree) with the SHAKE256 XOF.
type Shake struct {
	n      int
	q      int64
	prefix []byte
}

// NewShake returns a SHAKE256-based hash into Z_q^n.
func NewShake(n int, q int64) (*Shake, error) {
	if err := validate(n, q); err != nil {
		return nil, err
	}
	return &Shake{n: n, q: q, prefix: frame(shakeTag, n, q)}, nil
}

// Hash implements HashInto[zq.Vector].
func (h *Shake) Hash(m string) zq.Vector {
	xof := sha3.NewShake256()
	xof.Write(h.prefix)
	xof.Write([]byte(m))
	buf := make([]byte, 8*h.n)
	xof.Read(buf)
	out := zq.NewVector(h.n, h.q)
	for i := range out.Coeffs {
		out.Coeffs[i] = reduce(buf[8*i:8*i+8], h.q)
	}
	return out
}
