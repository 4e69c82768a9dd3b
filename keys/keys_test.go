package keys

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/lattigo/v4/utils"

	"lattice-schemes/signature/pfdh"
)

func entropy(key string) pfdh.Option {
	calls := 0
	return pfdh.WithEntropy(func() (io.Reader, error) {
		calls++
		return utils.NewKeyedPRNG([]byte(fmt.Sprintf("%s/%d", key, calls)))
	})
}

var gpvParams = Params{N: 4, Q: 113, Width: 17, SaltBits: 128}

func TestGPVRoundTrip(t *testing.T) {
	s, err := pfdh.SetupGPV(gpvParams.N, gpvParams.Q, gpvParams.Width, gpvParams.SaltBits, entropy("gpv"))
	if err != nil {
		t.Fatal(err)
	}
	pk, sk, err := s.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	store := Store{Dir: t.TempDir()}

	pub := PublicFromGPV(gpvParams, pk)
	sealed, err := Seal("correct horse", pub, TrapdoorFromGPV(sk))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if err := store.SavePublic(pub); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSecret(sealed); err != nil {
		t.Fatal(err)
	}

	pub2, err := store.LoadPublic()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pub, pub2); diff != "" {
		t.Errorf("public key changed on disk (-saved +loaded):\n%s", diff)
	}
	pk2, err := pub2.GPV()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pk, pk2); diff != "" {
		t.Errorf("decoded public matrix differs:\n%s", diff)
	}

	sealed2, err := store.LoadSecret()
	if err != nil {
		t.Fatal(err)
	}
	if !sealed2.Matches(pub2) {
		t.Error("secret key does not match its public key")
	}
	td, err := sealed2.Open("correct horse")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sk2, err := td.GPV()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sk, sk2); diff != "" {
		t.Errorf("decoded trapdoor differs:\n%s", diff)
	}

	sig, err := s.Sign("Hello World!", sk2, pk2)
	if err != nil {
		t.Fatal(err)
	}
	bundle, err := NewSignature(pub2, sig)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSignature(bundle); err != nil {
		t.Fatal(err)
	}
	bundle2, err := store.LoadSignature()
	if err != nil {
		t.Fatal(err)
	}
	if bundle2.Fingerprint != bundle.Fingerprint || bundle2.Norm != sig.Preimage.Norm() {
		t.Errorf("signature metadata changed: %+v", bundle2)
	}
	sig2, err := bundle2.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if !s.Verify("Hello World!", sig2, pk) {
		t.Error("signature rejected after a round trip")
	}
}

func TestRingRoundTrip(t *testing.T) {
	p := Params{N: 16, Q: 65537, Width: 24, SaltBits: 128}
	s, err := pfdh.SetupRingGPV(p.N, p.Q, p.Width, p.SaltBits, entropy("ring"))
	if err != nil {
		t.Fatal(err)
	}
	pk, sk, err := s.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	pub := PublicFromRing(p, pk)
	if pub.Params.Family != FamilyRing {
		t.Errorf("family %q", pub.Params.Family)
	}
	if _, err := pub.GPV(); !errors.Is(err, ErrFormat) {
		t.Errorf("ring key decoded as GPV: %v", err)
	}
	pk2, err := pub.Ring()
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := Seal("pw", pub, TrapdoorFromRing(sk))
	if err != nil {
		t.Fatal(err)
	}
	td, err := sealed.Open("pw")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := td.GPV(); !errors.Is(err, ErrFormat) {
		t.Errorf("ring trapdoor decoded as GPV: %v", err)
	}
	sk2, err := td.Ring()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sk, sk2); diff != "" {
		t.Errorf("ring trapdoor differs:\n%s", diff)
	}
	sig, err := s.Sign("m", sk2, pk2)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Verify("m", sig, pk) {
		t.Error("signature from decoded ring keys rejected")
	}
}

func TestSealedSecretRejectsTampering(t *testing.T) {
	s, err := pfdh.SetupGPV(4, 113, 17, 128, entropy("seal"))
	if err != nil {
		t.Fatal(err)
	}
	pk, sk, err := s.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	pub := PublicFromGPV(gpvParams, pk)
	sealed, err := seal(bytes.NewReader(make([]byte, 64)), "pw", pub, TrapdoorFromGPV(sk))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := sealed.Open("wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password: got %v", err)
	}
	flipped := *sealed
	flipped.Ciphertext = append([]byte(nil), sealed.Ciphertext...)
	flipped.Ciphertext[0] ^= 1
	if _, err := flipped.Open("pw"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("flipped ciphertext: got %v", err)
	}
	rebound := *sealed
	rebound.Fingerprint = "00"
	if _, err := rebound.Open("pw"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("rebound fingerprint: got %v", err)
	}
	other, _, err := s.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	if sealed.Matches(PublicFromGPV(gpvParams, other)) {
		t.Error("secret key matches a foreign public key")
	}
	if _, err := (&SecretKey{Version: "v0"}).Open("pw"); !errors.Is(err, ErrFormat) {
		t.Errorf("unknown version: got %v", err)
	}
	if _, err := seal(bytes.NewReader(nil), "pw", pub, TrapdoorFromGPV(sk)); err == nil {
		t.Error("seal succeeded without randomness")
	}
}

func TestFingerprint(t *testing.T) {
	a := &PublicKey{Version: publicVersion, Params: gpvParams, A: [][]int64{{1, 2}, {3, 4}}}
	b := &PublicKey{Version: publicVersion, Params: gpvParams, A: [][]int64{{1, 2}, {3, 5}}}
	fa, err := a.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	fa2, _ := a.Fingerprint()
	fb, _ := b.Fingerprint()
	if fa != fa2 || len(fa) != 64 {
		t.Errorf("unstable fingerprint %q / %q", fa, fa2)
	}
	if fa == fb {
		t.Error("distinct keys share a fingerprint")
	}
}

func TestMalformedPublicKeys(t *testing.T) {
	for name, pk := range map[string]*PublicKey{
		"nil":     nil,
		"version": {Version: "x", Params: Params{Family: FamilyGPV}, A: [][]int64{{1}}},
		"empty":   {Version: publicVersion, Params: Params{Family: FamilyGPV}},
		"ragged":  {Version: publicVersion, Params: Params{Family: FamilyGPV}, A: [][]int64{{1, 2}, {3}}},
	} {
		if _, err := pk.GPV(); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: got %v, want ErrFormat", name, err)
		}
	}
	if _, err := (Trapdoor{R: [][]int64{{1}}, E: [][]int64{}}).Ring(); !errors.Is(err, ErrFormat) {
		t.Errorf("unbalanced ring trapdoor: got %v", err)
	}
	if _, err := (*Signature)(nil).Decode(); !errors.Is(err, ErrFormat) {
		t.Errorf("nil signature: got %v", err)
	}
}

func TestStoreLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := Store{Dir: dir}
	sk := &SecretKey{Version: secretVersion}
	if err := store.SaveSecret(sk); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dir, "secret.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("secret.json mode %v, want 0600", perm)
	}
	if _, err := store.LoadPublic(); !os.IsNotExist(err) {
		t.Errorf("missing public key: got %v", err)
	}
	if got := (Store{}).path(publicFile); got != filepath.Join(DefaultDir, publicFile) {
		t.Errorf("default path %q", got)
	}
}

func TestTrapdoorZero(t *testing.T) {
	td := Trapdoor{R: [][]int64{{1, -1}}, E: [][]int64{{-1, 1}}}
	td.Zero()
	if diff := cmp.Diff(Trapdoor{R: [][]int64{{0, 0}}, E: [][]int64{{0, 0}}}, td); diff != "" {
		t.Errorf("Zero left coefficients (-want +got):\n%s", diff)
	}
}
