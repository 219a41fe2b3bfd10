package slepian

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-slepian/internal/simdops"
	"github.com/tphakala/go-slepian/internal/sphere"
)

// Convolve returns the sifting convolution f ⊛ g with coefficients
// f_ℓm conj(g_ℓm). For axisymmetric g it agrees, up to the degree factor
// √(4π/(2ℓ+1)), with classical spherical convolution.
func Convolve(f, g []complex128) ([]complex128, error) {
	if _, err := bandLimitOf(f); err != nil {
		return nil, err
	}
	if len(g) != len(f) {
		return nil, fmt.Errorf("%w: signal has %d coefficients, kernel %d", ErrDimensionMismatch, len(f), len(g))
	}
	out := make([]complex128, len(f))
	simdops.MulConj(out, f, g, make([]complex128, len(g)))
	return out, nil
}

// ConvolveAxisymmetric convolves f with the zonal part of g:
//
//	(f ⋆ g)_ℓm = √(4π/(2ℓ+1)) f_ℓm conj(g_ℓ0)
//
// Only the m = 0 coefficients of g are read.
func ConvolveAxisymmetric(f, g []complex128) ([]complex128, error) {
	L, err := bandLimitOf(f)
	if err != nil {
		return nil, err
	}
	if len(g) != len(f) {
		return nil, fmt.Errorf("%w: signal has %d coefficients, kernel %d", ErrDimensionMismatch, len(f), len(g))
	}
	weights := make([]complex128, len(f))
	for ell := range L {
		w := complex(math.Sqrt(fourPi/float64(2*ell+1)), 0) * cmplx.Conj(g[sphere.Index(ell, 0)])
		for m := -ell; m <= ell; m++ {
			weights[sphere.Index(ell, m)] = w
		}
	}
	out := make([]complex128, len(f))
	simdops.Default().Mul(out, f, weights)
	return out, nil
}

// Rotate applies the rotation with zyz Euler angles (α, β, γ). The
// rotation is unitary on each degree, so energy is preserved.
func Rotate(f []complex128, alpha, beta, gamma float64) ([]complex128, error) {
	L, err := bandLimitOf(f)
	if err != nil {
		return nil, err
	}
	return sphere.Rotate(f, L, alpha, beta, gamma), nil
}

// Translate moves f so that its north pole lands on (θ, φ) = (β, α):
//
//	(T f)_ℓm = f_ℓm conj(Y_ℓm(β, α))
//
// Translating the identity kernel yields the Dirac delta at (β, α), which
// equals the north-pole Dirac delta rotated by (α, β, 0).
func Translate(f []complex128, alpha, beta float64) ([]complex128, error) {
	L, err := bandLimitOf(f)
	if err != nil {
		return nil, err
	}
	return Convolve(f, sphere.Ylm(L, beta, alpha))
}

// RotationPreset is a named set of Euler angles in degrees.
type RotationPreset struct {
	Name  string
	Alpha float64
	Beta  float64
	Gamma float64
}

// Presets that bring continents of the Earth dataset into view.
var (
	RotationAfrica       = RotationPreset{Name: "africa", Alpha: 44, Beta: 87, Gamma: 341}
	RotationSouthAmerica = RotationPreset{Name: "south_america", Alpha: 54, Beta: 108, Gamma: 63}
)

// Apply rotates f by the preset angles.
func (r RotationPreset) Apply(f []complex128) ([]complex128, error) {
	const toRadians = math.Pi / 180
	return Rotate(f, r.Alpha*toRadians, r.Beta*toRadians, r.Gamma*toRadians)
}
