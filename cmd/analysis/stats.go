package main

import (
	"math"
	"sort"
)

type summaryStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis_excess"`
}

// sorted is an ascending copy of a sample.
type sorted []float64

func sortedCopy(x []float64) sorted {
	cp := append(sorted(nil), x...)
	sort.Float64s(cp)
	return cp
}

func (s sorted) min() float64 { return s[0] }
func (s sorted) max() float64 { return s[len(s)-1] }
func (s sorted) span() float64 { return s.max() - s.min() }

// quantile interpolates linearly between closest ranks.
func (s sorted) quantile(p float64) float64 {
	pos := math.Max(0, math.Min(1, p)) * float64(len(s)-1)
	i, frac := math.Modf(pos)
	lo := int(i)
	if frac == 0 {
		return s[lo]
	}
	return s[lo] + frac*(s[lo+1]-s[lo])
}

func (s sorted) integral() bool {
	for _, v := range s {
		if v != math.Trunc(v) {
			return false
		}
	}
	return true
}

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	s := sortedCopy(x)
	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)
	var m2, m3, m4 float64
	for _, v := range x {
		d := v - m
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	st := summaryStats{
		Count: n, Mean: m,
		Min: s.min(), Q1: s.quantile(0.25), Median: s.quantile(0.5), Q3: s.quantile(0.75), Max: s.max(),
	}
	st.IQR = st.Q3 - st.Q1
	if n > 1 {
		st.Std = math.Sqrt(m2 / float64(n-1))
	}
	if st.Std > 0 {
		m2n := m2 / float64(n)
		st.Skewness = (m3 / float64(n)) / math.Pow(m2n, 1.5)
		st.Kurtosis = (m4/float64(n))/m2n/m2n - 3.0
	}
	return st
}

// freedmanDiaconisBins picks a bin count from the IQR, clamped to [minBins,
// maxBins]. Integer-valued samples never get more bins than distinct values
// spanned.
func freedmanDiaconisBins(x []float64, minBins, maxBins int) int {
	n := len(x)
	if n < 2 {
		return 1
	}
	s := sortedCopy(x)
	k := maxBins
	if iqr := s.quantile(0.75) - s.quantile(0.25); iqr > 0 {
		bw := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
		k = int(math.Ceil(s.span() / bw))
	}
	if k < minBins {
		k = minBins
	}
	if k > maxBins {
		k = maxBins
	}
	if distinct := int(s.span()) + 1; s.integral() && k > distinct {
		k = distinct
	}
	return k
}

// computeHistogram splits [min, max] into nbins equal bins; the last bin is
// closed.
func computeHistogram(values []float64, nbins int) (edges []float64, counts []int) {
	if len(values) == 0 {
		return []float64{0, 1}, []int{0}
	}
	if nbins < 1 {
		nbins = 1
	}
	s := sortedCopy(values)
	width := s.span() / float64(nbins)
	if width <= 0 {
		width = 1
	}
	edges = make([]float64, nbins+1)
	for i := range edges {
		edges[i] = s.min() + float64(i)*width
	}
	counts = make([]int, nbins)
	for _, v := range s {
		counts[min(int((v-s.min())/width), nbins-1)]++
	}
	return edges, counts
}
