// Package keys persists PFDH public keys, password-sealed trapdoors and
// signatures as indented JSON.
package keys

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"

	"lattice-schemes/psf"
	"lattice-schemes/zq"
)

const (
	// FamilyGPV tags keys of the matrix GPV family.
	FamilyGPV = "gpv"
	// FamilyRing tags keys of the ring GPV family.
	FamilyRing = "ring"

	publicVersion = "pfdh-public-v1"
)

// ErrFormat reports a file that decodes as JSON but not as a key of the
// expected family or shape.
var ErrFormat = errors.New("keys: malformed key material")

// Params records the scheme configuration a key was generated under.
type Params struct {
	Family   string  `json:"family"`
	N        int     `json:"N"`
	Q        int64   `json:"Q"`
	Width    float64 `json:"width"`
	SaltBits int     `json:"salt_bits"`
}

// PublicKey is a public function in transport form. A holds the rows of the
// matrix for FamilyGPV and the ring elements of the public row for
// FamilyRing.
type PublicKey struct {
	Version string    `json:"version"`
	Params  Params    `json:"params"`
	A       [][]int64 `json:"a"`
}

// PublicFromGPV encodes a matrix public key.
func PublicFromGPV(p Params, pk *psf.GPVPublicKey) *PublicKey {
	p.Family = FamilyGPV
	return &PublicKey{Version: publicVersion, Params: p, A: fromMatrix(pk.A)}
}

// PublicFromRing encodes a ring public key.
func PublicFromRing(p Params, pk *psf.RingPublicKey) *PublicKey {
	p.Family = FamilyRing
	return &PublicKey{Version: publicVersion, Params: p, A: copyRows(pk.A)}
}

// GPV decodes a FamilyGPV key.
func (pk *PublicKey) GPV() (*psf.GPVPublicKey, error) {
	if err := pk.check(FamilyGPV); err != nil {
		return nil, err
	}
	m, err := toMatrix(pk.A)
	if err != nil {
		return nil, err
	}
	return &psf.GPVPublicKey{A: m}, nil
}

// Ring decodes a FamilyRing key.
func (pk *PublicKey) Ring() (*psf.RingPublicKey, error) {
	if err := pk.check(FamilyRing); err != nil {
		return nil, err
	}
	return &psf.RingPublicKey{A: copyRows(pk.A)}, nil
}

// Fingerprint is the hex SHA3-256 digest of the canonical JSON encoding.
func (pk *PublicKey) Fingerprint() (string, error) {
	data, err := json.Marshal(pk)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (pk *PublicKey) check(family string) error {
	if pk == nil {
		return fmt.Errorf("%w: nil public key", ErrFormat)
	}
	if pk.Version != publicVersion {
		return fmt.Errorf("%w: public key version %q", ErrFormat, pk.Version)
	}
	if pk.Params.Family != family {
		return fmt.Errorf("%w: family %q, want %q", ErrFormat, pk.Params.Family, family)
	}
	return nil
}

func copyRows(in [][]int64) [][]int64 {
	out := make([][]int64, len(in))
	for i, r := range in {
		out[i] = append([]int64(nil), r...)
	}
	return out
}

func toMatrix(rows [][]int64) (*zq.Matrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrFormat)
	}
	m := zq.NewMatrix(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.Cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrFormat, i, len(r), m.Cols)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

func fromMatrix(m *zq.Matrix) [][]int64 {
	rows := make([][]int64, m.Rows)
	for i := range rows {
		rows[i] = append([]int64(nil), m.Row(i)...)
	}
	return rows
}
