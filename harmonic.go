package slepian

import (
	"fmt"

	"github.com/tphakala/go-slepian/internal/sphere"
)

// ElmToIndex returns the position of (ℓ, m) in a harmonic coefficient
// vector: ℓ² + ℓ + m.
func ElmToIndex(ell, m int) int {
	return sphere.Index(ell, m)
}

// IndexToElm is the inverse of ElmToIndex.
func IndexToElm(i int) (ell, m int) {
	return sphere.Elm(i)
}

// SphericalHarmonics evaluates all Y_ℓm of band-limit L at (θ, φ), in
// coefficient order.
func SphericalHarmonics(L int, theta, phi float64) []complex128 {
	return sphere.Ylm(L, theta, phi)
}

// bandLimitOf returns L for a coefficient vector of length L².
func bandLimitOf(f []complex128) (int, error) {
	L, ok := sphere.BandLimit(len(f))
	if !ok {
		return 0, fmt.Errorf("%w: length %d is not a positive perfect square", ErrDimensionMismatch, len(f))
	}
	return L, nil
}

// Transformer converts between sampled fields and basis coefficients.
// SphereTransform and MeshTransform implement it.
type Transformer interface {
	Forward(field []complex128) ([]complex128, error)
	Inverse(coeffs []complex128) ([]complex128, error)
}

// SphereTransform is the spherical harmonic transform for band-limit L on
// a Gauss-Legendre grid. Forward∘Inverse is the identity on band-limited
// coefficients. It is safe for concurrent use.
type SphereTransform struct {
	t *sphere.Transform
}

// NewSphereTransform prepares a transform for band-limit L sampled at the
// given resolution (R ≥ L; 0 selects R = L). The grid has R colatitude
// rings and 2R-1 longitudes per ring.
func NewSphereTransform(L, resolution int) (*SphereTransform, error) {
	if L <= 0 {
		return nil, fmt.Errorf("%w: band-limit must be positive, got %d", ErrInvalidConfig, L)
	}
	if resolution == 0 {
		resolution = L
	}
	if resolution < L {
		return nil, fmt.Errorf("%w: resolution %d below band-limit %d", ErrInvalidConfig, resolution, L)
	}
	t, err := sphere.NewTransform(L, sphere.NewGrid(resolution))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &SphereTransform{t: t}, nil
}

// BandLimit returns L.
func (s *SphereTransform) BandLimit() int { return s.t.L }

// Resolution returns the grid resolution R.
func (s *SphereTransform) Resolution() int { return s.t.Grid.Resolution }

// NumSamples returns the number of grid samples.
func (s *SphereTransform) NumSamples() int { return s.t.Grid.Len() }

// Sample returns the colatitude and longitude of sample i.
func (s *SphereTransform) Sample(i int) (theta, phi float64) {
	return s.t.Grid.Point(i)
}

// Forward analyzes grid samples into L² coefficients.
func (s *SphereTransform) Forward(field []complex128) ([]complex128, error) {
	if len(field) != s.t.Grid.Len() {
		return nil, fmt.Errorf("%w: %d samples, grid has %d", ErrDimensionMismatch, len(field), s.t.Grid.Len())
	}
	return s.t.Forward(field), nil
}

// Inverse synthesizes grid samples from L² coefficients.
func (s *SphereTransform) Inverse(coeffs []complex128) ([]complex128, error) {
	if len(coeffs) != s.t.L*s.t.L {
		return nil, fmt.Errorf("%w: %d coefficients, band-limit %d needs %d",
			ErrDimensionMismatch, len(coeffs), s.t.L, s.t.L*s.t.L)
	}
	return s.t.Inverse(coeffs), nil
}
