// Package mathutil provides special functions used to build wavelet
// tilings on the sphere.
package mathutil

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Bump computes the compactly supported Schwartz function
//
//	s(t) = exp(-1/(1-t²))   for |t| < 1, 0 otherwise.
func Bump(t float64) float64 {
	if math.Abs(t) >= 1 {
		return 0
	}
	return math.Exp(-1 / (1 - t*t))
}

// SmoothStep is a monotone step from 1 (t ≤ 1/B) to 0 (t ≥ 1) built by
// integrating the dilated bump s_B(x)/x:
//
//	Φ(t) = ∫_t^1 s_B(x)/x dx / ∫_{1/B}^1 s_B(x)/x dx
//
// where s_B(x) = s(2B/(B-1)·(x - 1/B) - 1). The result is C∞.
type SmoothStep struct {
	dilation float64
	lower    float64
	norm     float64
}

// NewSmoothStep prepares the step for dilation b > 1.
func NewSmoothStep(b float64) *SmoothStep {
	s := &SmoothStep{dilation: b, lower: 1 / b}
	s.norm = s.integral(s.lower)
	return s
}

// At evaluates Φ(t).
func (s *SmoothStep) At(t float64) float64 {
	switch {
	case t <= s.lower:
		return 1
	case t >= 1:
		return 0
	}
	// Fixed quadrature over [t, 1] can overshoot the normalizer by an ulp.
	return min(1, max(0, s.integral(t)/s.norm))
}

func (s *SmoothStep) integral(from float64) float64 {
	scale := bumpScale * s.dilation / (s.dilation - 1)
	f := func(x float64) float64 {
		return Bump(scale*(x-s.lower)-1) / x
	}
	return quad.Fixed(f, from, 1, smoothStepNodes, quad.Legendre{}, 0)
}

// CosineStep is a C¹ raised-cosine step from 1 (t ≤ 1/B) to 0 (t ≥ 1).
func CosineStep(t, b float64) float64 {
	lower := 1 / b
	switch {
	case t <= lower:
		return 1
	case t >= 1:
		return 0
	}
	u := (t - lower) / (1 - lower)
	c := math.Cos(math.Pi / halfDivisor * u)
	return c * c
}
