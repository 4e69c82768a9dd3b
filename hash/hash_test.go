package hash

import (
	"errors"
	"testing"

	"lattice-schemes/zq"
)

func hashes(t *testing.T, n int, q int64) map[string]HashInto[zq.Vector] {
	t.Helper()
	s, err := NewSHA256(n, q)
	if err != nil {
		t.Fatalf("NewSHA256: %v", err)
	}
	k, err := NewShake(n, q)
	if err != nil {
		t.Fatalf("NewShake: %v", err)
	}
	return map[string]HashInto[zq.Vector]{"sha256": s, "shake": k}
}

func TestHashDeterministicAndInRange(t *testing.T) {
	for name, h := range hashes(t, 9, 113) {
		a := h.Hash("Hello World!")
		b := h.Hash("Hello World!")
		if !a.Equal(b) {
			t.Errorf("%s: hash is not deterministic", name)
		}
		if a.Len() != 9 || a.Q != 113 {
			t.Errorf("%s: got dimension %d modulus %d", name, a.Len(), a.Q)
		}
		for _, c := range a.Coeffs {
			if c < 0 || c >= 113 {
				t.Errorf("%s: coefficient %d outside [0,113)", name, c)
			}
		}
		if a.Equal(h.Hash("Hello World!!")) {
			t.Errorf("%s: distinct messages collide", name)
		}
	}
}

func TestHashSeparatesRanges(t *testing.T) {
	a, _ := NewSHA256(4, 65537)
	b, _ := NewSHA256(5, 65537)
	if got, want := a.Hash("m").Coeffs, b.Hash("m").Coeffs[:4]; equalInts(got, want) {
		t.Error("different dimensions share a digest prefix")
	}
	s, _ := NewShake(4, 65537)
	if a.Hash("m").Equal(s.Hash("m")) {
		t.Error("sha256 and shake agree on the same input")
	}
}

func TestHashLongOutput(t *testing.T) {
	// 64 coordinates need 16 SHA-256 blocks.
	h, err := NewSHA256(64, 12289)
	if err != nil {
		t.Fatal(err)
	}
	v := h.Hash("")
	zero := 0
	for _, c := range v.Coeffs {
		if c == 0 {
			zero++
		}
	}
	if zero > 4 {
		t.Errorf("%d zero coordinates out of 64", zero)
	}
}

func TestHashParameters(t *testing.T) {
	for _, tc := range []struct {
		n int
		q int64
	}{{0, 113}, {4, 1}, {4, zq.MaxModulus}} {
		if _, err := NewSHA256(tc.n, tc.q); !errors.Is(err, ErrParameters) {
			t.Errorf("NewSHA256(%d,%d): got %v, want ErrParameters", tc.n, tc.q, err)
		}
		if _, err := NewShake(tc.n, tc.q); !errors.Is(err, ErrParameters) {
			t.Errorf("NewShake(%d,%d): got %v, want ErrParameters", tc.n, tc.q, err)
		}
	}
}

func equalInts(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
