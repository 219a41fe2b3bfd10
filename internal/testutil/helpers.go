// Package testutil provides reusable test helpers for harmonic and
// Slepian transform tests.
package testutil

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance   = 1e-10
	RoundTripTolerance = 1e-10
	OrthoTolerance     = 1e-8
	EnergyTolerance    = 1e-9
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return failf(t, "found NaN", msgAndArgs, "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return failf(t, "found Inf", msgAndArgs, "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return failf(t, "value out of range", msgAndArgs,
				"s[%d]=%g is outside range [%g, %g]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertNonIncreasing verifies that a slice never increases.
func AssertNonIncreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] > s[i-1] {
			return failf(t, "not non-increasing", msgAndArgs,
				"s[%d]=%g > s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertMonotonic verifies that a slice is monotonically non-decreasing.
func AssertMonotonic(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return failf(t, "not monotonic", msgAndArgs,
				"s[%d]=%g < s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	if relError > tolerance {
		return failf(t, "relative error too large", msgAndArgs,
			"relative error %e exceeds tolerance %e (expected=%g, actual=%g)",
			relError, tolerance, expected, actual)
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return failf(t, "value out of range", msgAndArgs,
			"value %g is outside range [%g, %g]", value, minVal, maxVal)
	}
	return true
}

// AssertComplexInDelta verifies element-wise |expected[i]-actual[i]| ≤ tolerance.
func AssertComplexInDelta(t *testing.T, expected, actual []complex128, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if d := cmplx.Abs(expected[i] - actual[i]); d > tolerance {
			return failf(t, "complex values differ", msgAndArgs,
				"index %d: expected %v, got %v (|diff|=%e > %e)", i, expected[i], actual[i], d, tolerance)
		}
	}
	return true
}

// AssertOrthonormal verifies that vectors are orthonormal under the
// standard Hermitian inner product.
func AssertOrthonormal(t *testing.T, vectors [][]complex128, tolerance float64) bool {
	t.Helper()
	for i := range vectors {
		for j := i; j < len(vectors); j++ {
			got := Inner(vectors[i], vectors[j])
			want := complex(0, 0)
			if i == j {
				want = 1
			}
			if d := cmplx.Abs(got - want); d > tolerance {
				return assert.Fail(t, "vectors not orthonormal",
					"<v%d, v%d> = %v, want %v (|diff|=%e)", i, j, got, want, d)
			}
		}
	}
	return true
}

// Inner returns Σ conj(a_i) b_i.
func Inner(a, b []complex128) complex128 {
	var sum complex128
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	return sum
}

// Energy returns Σ |a_i|².
func Energy(a []complex128) float64 {
	var sum float64
	for _, v := range a {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum
}

// RandomCoefficients returns n complex values with standard normal parts
// from a fixed seed.
func RandomCoefficients(n int, seed uint64) []complex128 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	return out
}

// RandomRealField returns coefficients of band-limit L of a real-valued
// field, satisfying f_ℓ,-m = (-1)^m conj(f_ℓm).
func RandomRealField(L int, seed uint64) []complex128 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]complex128, L*L)
	for ell := range L {
		base := ell*ell + ell
		out[base] = complex(rng.NormFloat64(), 0)
		for m := 1; m <= ell; m++ {
			v := complex(rng.NormFloat64(), rng.NormFloat64())
			out[base+m] = v
			if m%2 == 1 {
				out[base-m] = -cmplx.Conj(v)
			} else {
				out[base-m] = cmplx.Conj(v)
			}
		}
	}
	return out
}

// failf reports a failure whose detail line is prefixed by the caller's
// optional message.
func failf(t *testing.T, failure string, msgAndArgs []any, format string, args ...any) bool {
	t.Helper()
	detail := fmt.Sprintf(format, args...)
	if msg := messageFromArgs(msgAndArgs); msg != "" {
		detail = msg + ": " + detail
	}
	return assert.Fail(t, failure, detail)
}

func messageFromArgs(msgAndArgs []any) string {
	switch len(msgAndArgs) {
	case 0:
		return ""
	case 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
