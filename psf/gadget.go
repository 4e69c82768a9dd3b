package psf

import (
	"math"

	"lattice-schemes/internal/gauss"
)

// gadgetWidth is the Gaussian parameter of the base-2 gadget digits.
const gadgetWidth = 4.5

// attemptBound is the number of sampling attempts granted to the gadget
// families. Each attempt is accepted with probability well above 1/2 once the
// width clears minWidth, so 128 attempts fail with probability below 2^-128.
const attemptBound = 128

// sampleGadget returns k digits z with Σ 2^j·z_j = v over Z. Every digit but
// the last is a discrete Gaussian of the parity forced by the running
// remainder; the last digit absorbs what is left, which stays small because
// v < 2^k.
func sampleGadget(s *gauss.Sampler, v int64, k int) ([]int64, error) {
	z := make([]int64, k)
	for j := 0; j < k-1; j++ {
		d, err := s.ZWithParity(v&1, gadgetWidth)
		if err != nil {
			return nil, err
		}
		z[j] = d
		v = (v - d) / 2
	}
	z[k-1] = v
	return z, nil
}

// minWidth estimates the smallest Gaussian parameter s for which a preimage
// p + [R;I]·z of dimension dim keeps its norm under s·sqrt(dim) with a factor
// two of headroom. trapCoords coordinates each accumulate inner products of
// inner ternary-times-digit terms, gadgetCoords coordinates carry one digit.
func minWidth(dim, trapCoords, inner, gadgetCoords int) float64 {
	ez2 := gadgetWidth*gadgetWidth/(2*math.Pi) + 1
	trap := float64(trapCoords)*float64(inner)*0.5*ez2 + float64(gadgetCoords)*ez2
	return math.Sqrt(2 * trap / (float64(dim) * (1 - 1/(2*math.Pi))))
}
