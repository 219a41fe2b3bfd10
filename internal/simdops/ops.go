// Package simdops routes the vector kernels used by the harmonic and
// Slepian transforms to SIMD implementations.
//
// Function pointers keep call sites independent of the CPU feature set;
// with Profile-Guided Optimization (Go 1.22+) the indirect calls can be
// devirtualized in hot paths.
package simdops

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Ops provides SIMD-accelerated operations on float64 and complex128
// slices.
type Ops struct {
	// Mul computes dst[i] = a[i] * b[i] for complex slices.
	Mul func(dst, a, b []complex128)

	// DotProduct returns Σ a[i]*b[i].
	DotProduct func(a, b []float64) float64

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)
}

var ops64 = Ops{
	Mul:        c128.Mul,
	DotProduct: f64.DotProduct,
	Sum:        f64.Sum,
	Scale:      f64.Scale,
}

// Default returns the process-wide operations.
func Default() *Ops {
	return &ops64
}

// CPUInfo describes the SIMD features detected at startup.
func CPUInfo() string {
	return cpu.Info()
}

// MulConj computes dst[i] = a[i] * conj(b[i]). scratch must have the
// length of b; it is overwritten.
func MulConj(dst, a, b, scratch []complex128) {
	for i, v := range b {
		scratch[i] = complex(real(v), -imag(v))
	}
	ops64.Mul(dst, a, scratch)
}

// MulReal computes dst[i] = a[i] * r[i] for a real weight vector r.
// scratch must have the length of r; it is overwritten.
func MulReal(dst, a []complex128, r []float64, scratch []complex128) {
	for i, v := range r {
		scratch[i] = complex(v, 0)
	}
	ops64.Mul(dst, a, scratch)
}
