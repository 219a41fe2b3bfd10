package slepian

import (
	"fmt"

	"github.com/tphakala/go-slepian/internal/filter"
	"github.com/tphakala/go-slepian/internal/simdops"
	"github.com/tphakala/go-slepian/internal/sphere"
)

// Tiling selects the smooth step that partitions the frequency axis.
type Tiling = filter.Tiling

// Available tilings.
const (
	// TilingSchwartz is the C∞ scale-discretised tiling (default).
	TilingSchwartz = filter.TilingSchwartz

	// TilingCosine is a C¹ raised-cosine tiling.
	TilingCosine = filter.TilingCosine
)

// FilterBank is a scaling filter followed by J-JMin wavelet filters over
// the frequency indices 0..BandLimit-1. The squared responses sum to one
// at every index, so analysis followed by synthesis is the identity.
//
// For harmonic transforms the index is the degree ℓ and BandLimit is L.
// For Slepian transforms the index is the Slepian rank p and BandLimit is
// the number of Slepian functions (typically L²).
type FilterBank struct {
	BandLimit int
	Dilation  float64
	JMin      int
	JMax      int
	Tiling    Tiling

	// Responses[0] is the scaling response; Responses[k] is the wavelet
	// response for scale JMin+k.
	Responses [][]float64
}

// NewFilterBank builds the default (Schwartz) tiling.
func NewFilterBank(L int, dilation float64, jMin int) (*FilterBank, error) {
	return NewFilterBankWithTiling(L, dilation, jMin, TilingSchwartz)
}

// NewFilterBankWithTiling builds a filter bank with an explicit tiling.
// J is the smallest integer with dilation^J ≥ L; jMin must lie in [0, J]; jMin = J leaves
// only the scaling filter, which is then identically one.
func NewFilterBankWithTiling(L int, dilation float64, jMin int, tiling Tiling) (*FilterBank, error) {
	params := filter.Params{BandLimit: L, Dilation: dilation, JMin: jMin, Tiling: tiling}
	responses, err := filter.Responses(&params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilterParameters, err)
	}
	return &FilterBank{
		BandLimit: L,
		Dilation:  dilation,
		JMin:      jMin,
		JMax:      filter.MaxScale(L, dilation),
		Tiling:    tiling,
		Responses: responses,
	}, nil
}

// Len returns the number of filters, J - JMin + 1.
func (fb *FilterBank) Len() int { return len(fb.Responses) }

// PartitionError returns max over indices of |Σ_j k_j² - 1|.
func (fb *FilterBank) PartitionError() float64 {
	var worst float64
	for i := range fb.BandLimit {
		var sum float64
		for _, r := range fb.Responses {
			sum += r[i] * r[i]
		}
		if d := sum - 1; d > worst {
			worst = d
		} else if -d > worst {
			worst = -d
		}
	}
	return worst
}

// harmonicResponses broadcasts each degree response over the orders.
func (fb *FilterBank) harmonicResponses() [][]float64 {
	degrees := sphere.Degrees(fb.BandLimit)
	out := make([][]float64, len(fb.Responses))
	for j, r := range fb.Responses {
		row := make([]float64, len(degrees))
		for i, ell := range degrees {
			row[i] = r[ell]
		}
		out[j] = row
	}
	return out
}

// AnalyzeHarmonic computes w_j,ℓm = k_j(ℓ) f_ℓm for every filter.
func AnalyzeHarmonic(f []complex128, fb *FilterBank) ([][]complex128, error) {
	if len(f) != fb.BandLimit*fb.BandLimit {
		return nil, fmt.Errorf("%w: %d coefficients, filter bank band-limit %d",
			ErrDimensionMismatch, len(f), fb.BandLimit)
	}
	return analyze(f, fb.harmonicResponses()), nil
}

// SynthesizeHarmonic computes f_ℓm = Σ_j k_j(ℓ) w_j,ℓm.
func SynthesizeHarmonic(w [][]complex128, fb *FilterBank) ([]complex128, error) {
	n := fb.BandLimit * fb.BandLimit
	if err := checkScales(w, fb, n); err != nil {
		return nil, err
	}
	return synthesize(w, fb.harmonicResponses(), n), nil
}

// AnalyzeSlepian computes w_j,p = k_j(p) f_p. fp may be shorter than the
// filter bank band-limit when truncated at N.
func AnalyzeSlepian(fp []complex128, fb *FilterBank) ([][]complex128, error) {
	if len(fp) == 0 || len(fp) > fb.BandLimit {
		return nil, fmt.Errorf("%w: %d Slepian coefficients, filter bank covers %d",
			ErrDimensionMismatch, len(fp), fb.BandLimit)
	}
	return analyze(fp, truncated(fb.Responses, len(fp))), nil
}

// SynthesizeSlepian computes f_p = Σ_j k_j(p) w_j,p.
func SynthesizeSlepian(w [][]complex128, fb *FilterBank) ([]complex128, error) {
	if len(w) == 0 || len(w[0]) == 0 || len(w[0]) > fb.BandLimit {
		return nil, fmt.Errorf("%w: wavelet coefficients do not fit filter bank of %d", ErrDimensionMismatch, fb.BandLimit)
	}
	n := len(w[0])
	if err := checkScales(w, fb, n); err != nil {
		return nil, err
	}
	return synthesize(w, truncated(fb.Responses, n), n), nil
}

// NonZeroScales returns the indices and coefficients of scales holding at
// least one non-zero coefficient.
func NonZeroScales(w [][]complex128) ([]int, [][]complex128) {
	var idx []int
	var out [][]complex128
	for j, scale := range w {
		for _, v := range scale {
			if v != 0 {
				idx = append(idx, j)
				out = append(out, scale)
				break
			}
		}
	}
	return idx, out
}

func checkScales(w [][]complex128, fb *FilterBank, n int) error {
	if len(w) != fb.Len() {
		return fmt.Errorf("%w: %d scales, filter bank has %d", ErrDimensionMismatch, len(w), fb.Len())
	}
	for j, scale := range w {
		if len(scale) != n {
			return fmt.Errorf("%w: scale %d has %d coefficients, want %d", ErrDimensionMismatch, j, len(scale), n)
		}
	}
	return nil
}

func truncated(responses [][]float64, n int) [][]float64 {
	out := make([][]float64, len(responses))
	for j, r := range responses {
		out[j] = r[:n]
	}
	return out
}

func analyze(f []complex128, responses [][]float64) [][]complex128 {
	scratch := make([]complex128, len(f))
	out := make([][]complex128, len(responses))
	for j, r := range responses {
		w := make([]complex128, len(f))
		simdops.MulReal(w, f, r, scratch)
		out[j] = w
	}
	return out
}

func synthesize(w [][]complex128, responses [][]float64, n int) []complex128 {
	scratch := make([]complex128, n)
	term := make([]complex128, n)
	out := make([]complex128, n)
	for j, r := range responses {
		simdops.MulReal(term, w[j], r, scratch)
		for i, v := range term {
			out[i] += v
		}
	}
	return out
}
