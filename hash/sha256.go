package hash

import (
	"crypto/sha256"
	"encoding/binary"

	"lattice-schemes/zq"
)

const sha256Tag = "lattice-schemes/hash/sha256"

// SHA256 hashes strings into Z_q^n by running SHA-256 in counter mode.
// Block i is SHA-256(tag ∥ n ∥ q ∥ i ∥ m) and every coordinate consumes
// 8 bytes of the stream.
type SHA256 struct {
	n      int
	q      int64
	prefix []byte
}

// NewSHA256 returns a hash into Z_q^n.
func NewSHA256(n int, q int64) (*SHA256, error) {
	if err := validate(n, q); err != nil {
		return nil, err
	}
	return &SHA256{n: n, q: q, prefix: frame(sha256Tag, n, q)}, nil
}

// Hash implements HashInto[zq.Vector].
func (h *SHA256) Hash(m string) zq.Vector {
	out := zq.NewVector(h.n, h.q)
	need := 8 * h.n
	stream := make([]byte, 0, need+sha256.Size)
	var ctr [4]byte
	for i := uint32(0); len(stream) < need; i++ {
		d := sha256.New()
		d.Write(h.prefix)
		binary.BigEndian.PutUint32(ctr[:], i)
		d.Write(ctr[:])
		d.Write([]byte(m))
		stream = d.Sum(stream)
	}
	for i := range out.Coeffs {
		out.Coeffs[i] = reduce(stream[8*i:8*i+8], h.q)
	}
	return out
}
