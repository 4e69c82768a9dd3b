package main

import (
	"math"
	"testing"
)

func TestComputeStats(t *testing.T) {
	s := computeStats([]float64{1, 2, 3, 4, 5})
	if s.Count != 5 || s.Mean != 3 || s.Median != 3 || s.Q1 != 2 || s.Q3 != 4 || s.IQR != 2 {
		t.Errorf("unexpected stats %+v", s)
	}
	if math.Abs(s.Std-math.Sqrt(2.5)) > 1e-12 {
		t.Errorf("std %v, want sqrt(2.5)", s.Std)
	}
	if math.Abs(s.Skewness) > 1e-12 {
		t.Errorf("symmetric sample has skewness %v", s.Skewness)
	}
	if got := computeStats(nil); got.Count != 0 {
		t.Errorf("empty stats %+v", got)
	}
	if got := computeStats([]float64{7}); got.Std != 0 || got.Min != 7 || got.Max != 7 {
		t.Errorf("single-sample stats %+v", got)
	}
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 0, 1, 2, 2, 2, 3}
	edges, counts := computeHistogram(values, 4)
	if len(edges) != 5 || len(counts) != 4 {
		t.Fatalf("got %d edges and %d counts", len(edges), len(counts))
	}
	want := []int{2, 1, 3, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts = %v, want %v", counts, want)
			break
		}
	}
	if _, c := computeHistogram([]float64{5, 5}, 3); c[0] != 2 {
		t.Errorf("constant sample counts %v", c)
	}
}

func TestBins(t *testing.T) {
	if k := freedmanDiaconisBins([]float64{1}, 10, 100); k != 1 {
		t.Errorf("single sample: %d bins", k)
	}
	small := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if k := freedmanDiaconisBins(small, 50, 200); k != 10 {
		t.Errorf("integer span of 10 values: %d bins, want 10", k)
	}
	wide := make([]float64, 1000)
	for i := range wide {
		wide[i] = float64(i * 10)
	}
	if k := freedmanDiaconisBins(wide, 20, 40); k < 20 || k > 40 {
		t.Errorf("bins %d outside [20,40]", k)
	}
	ratios := make([]float64, 200)
	for i := range ratios {
		ratios[i] = 0.3 + 0.4*float64(i)/199
	}
	if k := freedmanDiaconisBins(ratios, 20, 400); k != 20 {
		t.Errorf("fractional sample on [0.3,0.7]: %d bins, want 20", k)
	}
	_, counts := computeHistogram(ratios, 20)
	var filled int
	for _, c := range counts {
		if c > 0 {
			filled++
		}
	}
	if filled != 20 {
		t.Errorf("fractional histogram fills %d of 20 bins: %v", filled, counts)
	}
}

func TestQuantile(t *testing.T) {
	s := sortedCopy([]float64{4, 1, 3, 2})
	for _, tc := range []struct{ p, want float64 }{
		{-1, 1}, {0, 1}, {0.5, 2.5}, {1, 4}, {2, 4},
	} {
		if got := s.quantile(tc.p); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("quantile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}
