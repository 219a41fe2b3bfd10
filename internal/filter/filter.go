// Package filter designs scale-discretised wavelet filter banks: a
// scaling response and a family of wavelet responses over a discrete
// frequency index whose squares sum to one.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-slepian/internal/mathutil"
)

// Tiling selects the smooth step used to tile the frequency axis.
type Tiling int

const (
	// TilingSchwartz uses the C∞ step integrated from a Schwartz bump.
	TilingSchwartz Tiling = iota

	// TilingCosine uses a C¹ raised-cosine step.
	TilingCosine
)

// String returns the tiling name.
func (t Tiling) String() string {
	switch t {
	case TilingSchwartz:
		return "schwartz"
	case TilingCosine:
		return "cosine"
	default:
		return fmt.Sprintf("Tiling(%d)", int(t))
	}
}

// Params holds parameters for filter bank design.
type Params struct {
	// BandLimit is the number of frequency indices (ℓ or p) covered.
	BandLimit int

	// Dilation is the scale ratio B between consecutive wavelets (> 1).
	Dilation float64

	// JMin is the first wavelet scale; the scaling response absorbs all
	// scales up to and including it.
	JMin int

	// Tiling selects the step function.
	Tiling Tiling
}

// Validate checks if filter parameters are valid.
func (p *Params) Validate() error {
	if p.BandLimit <= 0 {
		return fmt.Errorf("band-limit must be positive, got %d", p.BandLimit)
	}
	if !(p.Dilation > 1) || math.IsInf(p.Dilation, 0) {
		return fmt.Errorf("dilation must be a finite value > 1, got %g", p.Dilation)
	}
	if p.Tiling != TilingSchwartz && p.Tiling != TilingCosine {
		return fmt.Errorf("unknown tiling %v", p.Tiling)
	}
	jMax := MaxScale(p.BandLimit, p.Dilation)
	if p.JMin < 0 || p.JMin > jMax {
		return fmt.Errorf("j_min must be in [0, %d], got %d", jMax, p.JMin)
	}
	return nil
}

// MaxScale returns J, the smallest integer with b^J ≥ L.
func MaxScale(L int, b float64) int {
	j := 0
	for p := 1.0; p < float64(L); p *= b {
		j++
	}
	return j
}

// Responses returns the scaling response followed by the wavelet
// responses for scales JMin+1..J, each of length BandLimit:
//
//	k_0(ℓ) = √Φ(ℓ/B^{JMin+1})
//	k_j(ℓ) = √(Φ(ℓ/B^{j+1}) - Φ(ℓ/B^j))
//
// For ℓ < L the squares telescope to Φ(ℓ/B^{J+1}) = 1.
func Responses(p *Params) ([][]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	step := stepFunc(p)
	jMax := MaxScale(p.BandLimit, p.Dilation)

	// phi[j-JMin][ℓ] = Φ(ℓ/B^{j+1}) for j = JMin..J.
	phi := make([][]float64, jMax-p.JMin+1)
	for k := range phi {
		scale := math.Pow(p.Dilation, float64(p.JMin+k+1))
		row := make([]float64, p.BandLimit)
		for ell := range row {
			row[ell] = step(float64(ell) / scale)
		}
		phi[k] = row
	}

	out := make([][]float64, len(phi))
	out[0] = make([]float64, p.BandLimit)
	for ell, v := range phi[0] {
		out[0][ell] = math.Sqrt(v)
	}
	for k := 1; k < len(phi); k++ {
		row := make([]float64, p.BandLimit)
		for ell := range row {
			row[ell] = math.Sqrt(math.Max(0, phi[k][ell]-phi[k-1][ell]))
		}
		out[k] = row
	}
	return out, nil
}

func stepFunc(p *Params) func(float64) float64 {
	if p.Tiling == TilingCosine {
		b := p.Dilation
		return func(t float64) float64 { return mathutil.CosineStep(t, b) }
	}
	return mathutil.NewSmoothStep(p.Dilation).At
}
