package keys

import (
	"fmt"
	"time"

	"lattice-schemes/signature/pfdh"
	"lattice-schemes/zq"
)

const signatureVersion = "pfdh-signature-v1"

// Signature is a PFDH signature bundle with the key it was made under.
type Signature struct {
	Version     string  `json:"version"`
	Timestamp   string  `json:"timestamp"`
	Params      Params  `json:"params"`
	Fingerprint string  `json:"fingerprint"`
	Salt        []byte  `json:"salt"`
	Preimage    []int64 `json:"preimage"`
	Norm        float64 `json:"norm"`
	NormInf     int64   `json:"linf"`
}

// NewSignature wraps sig for the public key pk.
func NewSignature(pk *PublicKey, sig pfdh.VectorSignature) (*Signature, error) {
	fp, err := pk.Fingerprint()
	if err != nil {
		return nil, err
	}
	return &Signature{
		Version:     signatureVersion,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Params:      pk.Params,
		Fingerprint: fp,
		Salt:        append([]byte(nil), sig.Salt...),
		Preimage:    append([]int64(nil), sig.Preimage...),
		Norm:        sig.Preimage.Norm(),
		NormInf:     sig.Preimage.InfNorm(),
	}, nil
}

// Decode returns the signature for pfdh verification.
func (s *Signature) Decode() (pfdh.VectorSignature, error) {
	if s == nil || s.Version != signatureVersion {
		return pfdh.VectorSignature{}, fmt.Errorf("%w: signature version", ErrFormat)
	}
	return pfdh.VectorSignature{
		Salt:     append([]byte(nil), s.Salt...),
		Preimage: append(zq.IntVec(nil), s.Preimage...),
	}, nil
}
