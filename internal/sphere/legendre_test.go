package sphere

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legendreTolerance = 1e-12

func TestLegendreClosedForms(t *testing.T) {
	thetas := []float64{0, 0.3, math.Pi / 4, 1.2, math.Pi / 2, 2.9, math.Pi}
	for _, theta := range thetas {
		x, s := math.Cos(theta), math.Sin(theta)
		lambda := Legendre(4, theta, nil)
		require.Len(t, lambda, 16)

		assert.InDelta(t, 1/math.Sqrt(4*math.Pi), lambda[Index(0, 0)], legendreTolerance)
		assert.InDelta(t, math.Sqrt(3/(4*math.Pi))*x, lambda[Index(1, 0)], legendreTolerance)
		assert.InDelta(t, -math.Sqrt(3/(8*math.Pi))*s, lambda[Index(1, 1)], legendreTolerance)
		assert.InDelta(t, math.Sqrt(3/(8*math.Pi))*s, lambda[Index(1, -1)], legendreTolerance)
		assert.InDelta(t, math.Sqrt(5/(4*math.Pi))*(3*x*x-1)/2, lambda[Index(2, 0)], legendreTolerance)
		assert.InDelta(t, -math.Sqrt(15/(8*math.Pi))*s*x, lambda[Index(2, 1)], legendreTolerance)
		assert.InDelta(t, math.Sqrt(15/(32*math.Pi))*s*s, lambda[Index(2, 2)], legendreTolerance)
	}
}

func TestLegendreReusesBuffer(t *testing.T) {
	buf := make([]float64, 0, 64)
	out := Legendre(8, 0.7, buf)
	assert.Len(t, out, 64)
	assert.Equal(t, cap(buf), cap(out))
}

func TestYlmOrthonormalOnGrid(t *testing.T) {
	const L = 6
	grid := NewGrid(L)
	samples := make([][]complex128, grid.Len())
	for i := range samples {
		theta, phi := grid.Point(i)
		samples[i] = Ylm(L, theta, phi)
	}

	for a := range L * L {
		for b := range L * L {
			var sum complex128
			for i := range samples {
				area := grid.Area(i / grid.NPhi())
				sum += complex(area, 0) * cmplx.Conj(samples[i][a]) * samples[i][b]
			}
			want := complex(0, 0)
			if a == b {
				want = 1
			}
			assert.InDelta(t, 0, cmplx.Abs(sum-want), 1e-12, "<Y%d, Y%d>", a, b)
		}
	}
}

func TestYlmConjugateSymmetry(t *testing.T) {
	const L = 7
	y := Ylm(L, 1.1, 2.3)
	for ell := range L {
		for m := 1; m <= ell; m++ {
			sign := 1.0
			if m%2 == 1 {
				sign = -1
			}
			want := complex(sign, 0) * cmplx.Conj(y[Index(ell, m)])
			assert.InDelta(t, 0, cmplx.Abs(want-y[Index(ell, -m)]), legendreTolerance)
		}
	}
}
