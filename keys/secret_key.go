package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"lattice-schemes/psf"
)

const (
	secretVersion = "pfdh-secret-v1"
	// KDFIterations is the PBKDF2-SHA256 work factor for sealing trapdoors.
	KDFIterations = 4096
	kdfSaltLen    = 16
	aesKeyLen     = 32
)

// ErrWrongPassword is returned by Open when the password does not
// authenticate the sealed trapdoor.
var ErrWrongPassword = errors.New("keys: wrong password or corrupted secret key")

// Trapdoor is the plaintext trapdoor material. R holds the rows of the GPV
// matrix or the ring r_j; E holds the ring e_j and is empty for GPV.
type Trapdoor struct {
	R [][]int64 `json:"r"`
	E [][]int64 `json:"e,omitempty"`
}

// TrapdoorFromGPV encodes a matrix trapdoor.
func TrapdoorFromGPV(td *psf.GPVTrapdoor) Trapdoor {
	return Trapdoor{R: fromMatrix(td.R)}
}

// TrapdoorFromRing encodes a ring trapdoor.
func TrapdoorFromRing(td *psf.RingTrapdoor) Trapdoor {
	return Trapdoor{R: copyRows(td.R), E: copyRows(td.E)}
}

// GPV decodes a matrix trapdoor.
func (t Trapdoor) GPV() (*psf.GPVTrapdoor, error) {
	if len(t.E) != 0 {
		return nil, fmt.Errorf("%w: ring trapdoor used as matrix trapdoor", ErrFormat)
	}
	m, err := toMatrix(t.R)
	if err != nil {
		return nil, err
	}
	return &psf.GPVTrapdoor{R: m}, nil
}

// Ring decodes a ring trapdoor.
func (t Trapdoor) Ring() (*psf.RingTrapdoor, error) {
	if len(t.E) != len(t.R) {
		return nil, fmt.Errorf("%w: %d e_j for %d r_j", ErrFormat, len(t.E), len(t.R))
	}
	return &psf.RingTrapdoor{R: copyRows(t.R), E: copyRows(t.E)}, nil
}

// Zero overwrites the trapdoor coefficients.
func (t Trapdoor) Zero() {
	for _, rows := range [][][]int64{t.R, t.E} {
		for _, r := range rows {
			for i := range r {
				r[i] = 0
			}
		}
	}
}

// SecretKey is a trapdoor sealed with AES-256-GCM under a PBKDF2 key. The
// public key fingerprint is bound as additional data, so a secret key only
// opens against the public key it was generated with.
type SecretKey struct {
	Version     string `json:"version"`
	Params      Params `json:"params"`
	Fingerprint string `json:"fingerprint"`
	KDFSalt     []byte `json:"kdf_salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

// Seal encrypts t under password for the public key pk.
func Seal(password string, pk *PublicKey, t Trapdoor) (*SecretKey, error) {
	return seal(rand.Reader, password, pk, t)
}

func seal(rng io.Reader, password string, pk *PublicKey, t Trapdoor) (*SecretKey, error) {
	fp, err := pk.Fingerprint()
	if err != nil {
		return nil, err
	}
	plain, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	defer zero(plain)
	sk := &SecretKey{
		Version:     secretVersion,
		Params:      pk.Params,
		Fingerprint: fp,
		KDFSalt:     make([]byte, kdfSaltLen),
	}
	if _, err := io.ReadFull(rng, sk.KDFSalt); err != nil {
		return nil, fmt.Errorf("keys: kdf salt: %w", err)
	}
	aead, err := newAEAD(password, sk.KDFSalt)
	if err != nil {
		return nil, err
	}
	sk.Nonce = make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rng, sk.Nonce); err != nil {
		return nil, fmt.Errorf("keys: nonce: %w", err)
	}
	sk.Ciphertext = aead.Seal(nil, sk.Nonce, plain, []byte(fp))
	return sk, nil
}

// Open decrypts the trapdoor. The caller should Zero it when done.
func (sk *SecretKey) Open(password string) (Trapdoor, error) {
	if sk == nil || sk.Version != secretVersion {
		return Trapdoor{}, fmt.Errorf("%w: secret key version", ErrFormat)
	}
	aead, err := newAEAD(password, sk.KDFSalt)
	if err != nil {
		return Trapdoor{}, err
	}
	if len(sk.Nonce) != aead.NonceSize() {
		return Trapdoor{}, fmt.Errorf("%w: nonce length %d", ErrFormat, len(sk.Nonce))
	}
	plain, err := aead.Open(nil, sk.Nonce, sk.Ciphertext, []byte(sk.Fingerprint))
	if err != nil {
		return Trapdoor{}, ErrWrongPassword
	}
	defer zero(plain)
	var t Trapdoor
	if err := json.Unmarshal(plain, &t); err != nil {
		return Trapdoor{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return t, nil
}

// Matches reports whether sk was sealed for pk.
func (sk *SecretKey) Matches(pk *PublicKey) bool {
	fp, err := pk.Fingerprint()
	return err == nil && sk != nil && fp == sk.Fingerprint
}

func newAEAD(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, KDFIterations, aesKeyLen, sha256.New)
	defer zero(key)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
