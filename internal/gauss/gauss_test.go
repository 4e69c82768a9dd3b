package gauss

import (
	"errors"
	"math"
	"testing"

	"github.com/tuneinsight/lattigo/v4/utils"
)

func newTestSampler(t *testing.T, key string) *Sampler {
	t.Helper()
	prng, err := utils.NewKeyedPRNG([]byte(key))
	if err != nil {
		t.Fatalf("NewKeyedPRNG: %v", err)
	}
	return NewSampler(prng)
}

func TestZStatistics(t *testing.T) {
	s := newTestSampler(t, "gauss-stats")
	const trials = 20000
	for _, tc := range []struct {
		center, width float64
	}{
		{0, 4.5},
		{0.37, 17},
		{-3, 6},
	} {
		mean, m2 := 0.0, 0.0
		for i := 1; i <= trials; i++ {
			x, err := s.Z(tc.center, tc.width)
			if err != nil {
				t.Fatalf("Z: %v", err)
			}
			if math.Abs(float64(x)-tc.center) > TailCut*tc.width+1 {
				t.Fatalf("sample %d outside tail cut for width %f", x, tc.width)
			}
			d := float64(x) - mean
			mean += d / float64(i)
			m2 += d * (float64(x) - mean)
		}
		variance := m2 / float64(trials-1)
		wantVar := tc.width * tc.width / (2 * math.Pi)
		if math.Abs(mean-tc.center) > 0.1*tc.width {
			t.Errorf("width %f: mean %f, want ~%f", tc.width, mean, tc.center)
		}
		if variance < 0.8*wantVar || variance > 1.2*wantVar {
			t.Errorf("width %f: variance %f, want ~%f", tc.width, variance, wantVar)
		}
	}
}

func TestZWithParity(t *testing.T) {
	s := newTestSampler(t, "parity")
	for i := 0; i < 500; i++ {
		p := int64(i & 1)
		x, err := s.ZWithParity(p, 4.5)
		if err != nil {
			t.Fatalf("ZWithParity: %v", err)
		}
		if (x-p)%2 != 0 {
			t.Fatalf("ZWithParity(%d) = %d has wrong parity", p, x)
		}
	}
}

func TestUniform(t *testing.T) {
	s := newTestSampler(t, "uniform")
	counts := make([]int, 7)
	for i := 0; i < 7000; i++ {
		v, err := s.Uniform(7)
		if err != nil {
			t.Fatalf("Uniform: %v", err)
		}
		counts[v]++
	}
	for v, c := range counts {
		if c < 800 || c > 1200 {
			t.Errorf("value %d drawn %d times out of 7000", v, c)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestErrors(t *testing.T) {
	if _, err := NewSampler(failingReader{}).Z(0, 3); err == nil {
		t.Error("Z on failing reader: expected error")
	}
	if _, err := newTestSampler(t, "w").Z(0, 0); !errors.Is(err, ErrWidth) {
		t.Errorf("Z with zero width: got %v, want ErrWidth", err)
	}
	for _, w := range []float64{2 * MaxWidth, 1e19, math.Inf(1), math.NaN()} {
		if _, err := newTestSampler(t, "w").Z(0, w); !errors.Is(err, ErrWidth) {
			t.Errorf("Z with width %g: got %v, want ErrWidth", w, err)
		}
	}
	if _, err := newTestSampler(t, "n").Uniform(0); err == nil {
		t.Error("Uniform(0): expected error")
	}
}
