package slepian

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

// Region describes where Slepian functions concentrate. The set of
// variants is closed: PolarCap and Mask on the sphere, MeshRegion on a
// mesh.
type Region interface {
	// Key identifies the region deterministically for caching.
	Key() string

	validate(L int) error
}

// PolarCap is a spherical cap around the north pole, optionally limited
// in longitude and optionally mirrored about the equator.
//
// The zero longitude range (PhiMin == PhiMax == 0) means the full circle,
// which makes the region axisymmetric. ThetaMin > 0 carves a hole around
// the pole, giving a latitude band.
type PolarCap struct {
	ThetaMin float64
	ThetaMax float64
	PhiMin   float64
	PhiMax   float64

	// Gap adds the antipodal copy θ → π-θ, giving a polar gap region.
	Gap bool
}

// NewPolarCap returns the axisymmetric cap θ ≤ thetaMax.
func NewPolarCap(thetaMax float64) PolarCap {
	return PolarCap{ThetaMax: thetaMax}
}

// NewLimLatLon returns the region θ ∈ [thetaMin, thetaMax],
// φ ∈ [phiMin, phiMax].
func NewLimLatLon(thetaMin, thetaMax, phiMin, phiMax float64) PolarCap {
	return PolarCap{ThetaMin: thetaMin, ThetaMax: thetaMax, PhiMin: phiMin, PhiMax: phiMax}
}

// Axisymmetric reports whether the cap covers every longitude.
func (c PolarCap) Axisymmetric() bool {
	if c.PhiMin == 0 && c.PhiMax == 0 {
		return true
	}
	return c.PhiMin == 0 && math.Abs(c.PhiMax-twoPi) < phiWrapTolerance
}

func (c PolarCap) phiRange() (lo, hi float64) {
	if c.Axisymmetric() {
		return 0, twoPi
	}
	return c.PhiMin, c.PhiMax
}

// Key implements Region.
func (c PolarCap) Key() string {
	lo, hi := c.phiRange()
	key := "cap_t" + formatAngle(c.ThetaMin) + "-" + formatAngle(c.ThetaMax) +
		"_p" + formatAngle(lo) + "-" + formatAngle(hi)
	if c.Gap {
		key += "_gap"
	}
	return key
}

func (c PolarCap) validate(int) error {
	for _, v := range []float64{c.ThetaMin, c.ThetaMax, c.PhiMin, c.PhiMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite polar cap parameter", ErrInvalidRegion)
		}
	}
	if c.ThetaMin < 0 || c.ThetaMax <= c.ThetaMin || c.ThetaMax > math.Pi {
		return fmt.Errorf("%w: colatitude range [%g, %g] must satisfy 0 ≤ θmin < θmax ≤ π",
			ErrInvalidRegion, c.ThetaMin, c.ThetaMax)
	}
	if c.Gap && c.ThetaMax > math.Pi/2 {
		return fmt.Errorf("%w: polar gap with θmax %g > π/2 overlaps its mirror", ErrInvalidRegion, c.ThetaMax)
	}
	if !c.Axisymmetric() && (c.PhiMin < 0 || c.PhiMax <= c.PhiMin || c.PhiMax > twoPi) {
		return fmt.Errorf("%w: longitude range [%g, %g] must satisfy 0 ≤ φmin < φmax ≤ 2π",
			ErrInvalidRegion, c.PhiMin, c.PhiMax)
	}
	return nil
}

// Contains reports whether (θ, φ) lies in the region.
func (c PolarCap) Contains(theta, phi float64) bool {
	inTheta := theta >= c.ThetaMin && theta <= c.ThetaMax
	if c.Gap {
		mirror := math.Pi - theta
		inTheta = inTheta || (mirror >= c.ThetaMin && mirror <= c.ThetaMax)
	}
	if !inTheta {
		return false
	}
	if c.Axisymmetric() {
		return true
	}
	phi = math.Mod(phi, twoPi)
	if phi < 0 {
		phi += twoPi
	}
	return phi >= c.PhiMin && phi <= c.PhiMax
}

// Weighting returns the region indicator (1 inside, 0 outside) at every
// sample of t.
func (c PolarCap) Weighting(t *SphereTransform) []float64 {
	out := make([]float64, t.NumSamples())
	for i := range out {
		if c.Contains(t.Sample(i)) {
			out[i] = 1
		}
	}
	return out
}

// Mask is an arbitrary region given as an indicator on the sampling grid
// of a SphereTransform with the same resolution.
type Mask struct {
	Name       string
	Resolution int

	// Values holds one flag per grid sample, ring-major.
	Values []bool
}

// NewMask samples inside on the grid of the given resolution.
func NewMask(name string, resolution int, inside func(theta, phi float64) bool) (*Mask, error) {
	t, err := NewSphereTransform(resolution, resolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegion, err)
	}
	m := &Mask{Name: name, Resolution: resolution, Values: make([]bool, t.NumSamples())}
	for i := range m.Values {
		m.Values[i] = inside(t.Sample(i))
	}
	return m, nil
}

// Key implements Region. It hashes the indicator so that two masks with
// the same name but different contents never share cache entries.
func (m *Mask) Key() string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(m.Resolution))
	h.Write(buf[:])
	for _, v := range m.Values {
		if v {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return "mask_" + m.Name + "_r" + strconv.Itoa(m.Resolution) + "_" + hex.EncodeToString(h.Sum(nil)[:8])
}

func (m *Mask) validate(L int) error {
	if m == nil {
		return fmt.Errorf("%w: nil mask", ErrInvalidRegion)
	}
	if m.Resolution < L {
		return fmt.Errorf("%w: mask resolution %d below band-limit %d", ErrInvalidRegion, m.Resolution, L)
	}
	if want := m.Resolution * (2*m.Resolution - 1); len(m.Values) != want {
		return fmt.Errorf("%w: mask has %d samples, resolution %d needs %d",
			ErrInvalidRegion, len(m.Values), m.Resolution, want)
	}
	for _, v := range m.Values {
		if v {
			return nil
		}
	}
	return fmt.Errorf("%w: mask %q is empty", ErrInvalidRegion, m.Name)
}

// Weighting returns the mask as a 1/0 vector. t must share the mask
// resolution.
func (m *Mask) Weighting(t *SphereTransform) ([]float64, error) {
	if t.Resolution() != m.Resolution || t.NumSamples() != len(m.Values) {
		return nil, fmt.Errorf("%w: mask resolution %d, transform resolution %d",
			ErrDimensionMismatch, m.Resolution, t.Resolution())
	}
	out := make([]float64, len(m.Values))
	for i, v := range m.Values {
		if v {
			out[i] = 1
		}
	}
	return out, nil
}

func formatAngle(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}
