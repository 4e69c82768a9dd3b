package keys

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultDir is the directory used when a Store has none configured.
const DefaultDir = "pfdh_keys"

const (
	publicFile    = "public.json"
	secretFile    = "secret.json"
	signatureFile = "signature.json"
)

// Store reads and writes key files under Dir.
type Store struct {
	Dir string
}

func (s Store) path(name string) string {
	dir := s.Dir
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, name)
}

// SavePublic writes public.json.
func (s Store) SavePublic(pk *PublicKey) error { return s.save(publicFile, pk, 0o644) }

// LoadPublic reads public.json.
func (s Store) LoadPublic() (*PublicKey, error) {
	var pk PublicKey
	if err := s.load(publicFile, &pk); err != nil {
		return nil, err
	}
	return &pk, nil
}

// SaveSecret writes secret.json readable by the owner only.
func (s Store) SaveSecret(sk *SecretKey) error { return s.save(secretFile, sk, 0o600) }

// LoadSecret reads secret.json.
func (s Store) LoadSecret() (*SecretKey, error) {
	var sk SecretKey
	if err := s.load(secretFile, &sk); err != nil {
		return nil, err
	}
	return &sk, nil
}

// SaveSignature writes signature.json.
func (s Store) SaveSignature(sig *Signature) error { return s.save(signatureFile, sig, 0o644) }

// LoadSignature reads signature.json.
func (s Store) LoadSignature() (*Signature, error) {
	var sig Signature
	if err := s.load(signatureFile, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

func (s Store) save(name string, v any, perm os.FileMode) error {
	p := s.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s Store) load(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
