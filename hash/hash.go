// Package hash contains hash functions from strings into the algebraic
// domains used by the lattice PSFs.
//
// Every implementation is a pure function of its input: signer and verifier
// hash the same salted message to the same point.
package hash

import (
	"encoding/binary"
	"errors"
	"fmt"

	"lattice-schemes/zq"
)

// HashInto is implemented by hashes with domain string and range D.
type HashInto[D any] interface {
	// Hash maps the message m to an element of D.
	Hash(m string) D
}

// ErrParameters reports a hash that cannot represent the requested range.
var ErrParameters = errors.New("hash: invalid parameters")

func validate(n int, q int64) error {
	if n < 1 {
		return fmt.Errorf("%w: dimension %d < 1", ErrParameters, n)
	}
	if q < 2 || q >= zq.MaxModulus {
		return fmt.Errorf("%w: modulus %d outside [2, 2^31)", ErrParameters, q)
	}
	return nil
}

// frame is the prefix absorbed before the message: a domain tag and the range
// parameters, so different ranges never share digests.
func frame(tag string, n int, q int64) []byte {
	buf := make([]byte, 0, len(tag)+16)
	buf = append(buf, tag...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(n))
	buf = binary.BigEndian.AppendUint64(buf, uint64(q))
	return buf
}

// reduce maps 8 bytes to Z_q. The bias is at most q/2^64.
func reduce(b []byte, q int64) int64 {
	return int64(binary.BigEndian.Uint64(b) % uint64(q))
}
