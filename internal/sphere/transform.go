package sphere

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform maps between harmonic coefficients of band-limit L and samples
// on a Grid. Forward is exact for band-limited fields whenever the grid
// resolution is at least L. A Transform is safe for concurrent use.
type Transform struct {
	L    int
	Grid *Grid

	// legendre[r] holds λ_ℓm(θ_r) for ring r in coefficient layout.
	legendre [][]float64
	ffts     sync.Pool
}

// NewTransform precomputes the Legendre tables for band-limit L on grid.
func NewTransform(L int, grid *Grid) (*Transform, error) {
	if L <= 0 {
		return nil, fmt.Errorf("sphere: band-limit must be positive, got %d", L)
	}
	if grid.Resolution < L {
		return nil, fmt.Errorf("sphere: grid resolution %d below band-limit %d", grid.Resolution, L)
	}

	t := &Transform{
		L:        L,
		Grid:     grid,
		legendre: make([][]float64, grid.NTheta()),
	}
	for r, theta := range grid.Thetas {
		t.legendre[r] = Legendre(L, theta, nil)
	}
	n := grid.NPhi()
	t.ffts.New = func() any { return fourier.NewCmplxFFT(n) }
	return t, nil
}

// Inverse synthesizes grid samples from coefficients (length L²).
func (t *Transform) Inverse(flm []complex128) []complex128 {
	n := t.Grid.NPhi()
	fft := t.ffts.Get().(*fourier.CmplxFFT)
	defer t.ffts.Put(fft)

	out := make([]complex128, t.Grid.Len())
	coeff := make([]complex128, n)
	for r, lambda := range t.legendre {
		clear(coeff)
		for ell := range t.L {
			for m := -ell; m <= ell; m++ {
				i := Index(ell, m)
				coeff[wrap(m, n)] += flm[i] * complex(lambda[i], 0)
			}
		}
		fft.Sequence(out[r*n:(r+1)*n], coeff)
	}
	return out
}

// Forward analyzes grid samples (length Grid.Len()) into coefficients.
func (t *Transform) Forward(f []complex128) []complex128 {
	n := t.Grid.NPhi()
	fft := t.ffts.Get().(*fourier.CmplxFFT)
	defer t.ffts.Put(fft)

	out := make([]complex128, t.L*t.L)
	spectrum := make([]complex128, n)
	for r, lambda := range t.legendre {
		fft.Coefficients(spectrum, f[r*n:(r+1)*n])
		area := t.Grid.Area(r)
		for ell := range t.L {
			for m := -ell; m <= ell; m++ {
				i := Index(ell, m)
				out[i] += complex(area*lambda[i], 0) * spectrum[wrap(m, n)]
			}
		}
	}
	return out
}

// Integrate returns the quadrature integral of a sampled field.
func (t *Transform) Integrate(f []complex128) complex128 {
	n := t.Grid.NPhi()
	var sum complex128
	for r := range t.Grid.Thetas {
		area := complex(t.Grid.Area(r), 0)
		for k := range n {
			sum += area * f[r*n+k]
		}
	}
	return sum
}
