package sphere

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// SmallD returns the Wigner matrix d^ℓ(β) = exp(-iβ J_y) in the |ℓ m⟩
// basis. Row m+ℓ and column m'+ℓ hold d^ℓ_{mm'}(β). The generator is
// real antisymmetric, so the exponential is orthogonal to rounding.
func SmallD(ell int, beta float64) *mat.Dense {
	n := 2*ell + 1
	a := mat.NewDense(n, n, nil)
	for m := -ell; m < ell; m++ {
		c := math.Sqrt(float64(ell*(ell+1) - m*(m+1)))
		a.Set(m+1+ell, m+ell, -beta*c/2)
		a.Set(m+ell, m+1+ell, beta*c/2)
	}
	var d mat.Dense
	d.Exp(a)
	return &d
}

// Rotate applies the rotation with Euler angles (α, β, γ) in the zyz
// convention to coefficients of band-limit L:
//
//	f'_ℓm = Σ_m' e^{-imα} d^ℓ_{mm'}(β) e^{-im'γ} f_ℓm'
func Rotate(flm []complex128, L int, alpha, beta, gamma float64) []complex128 {
	out := make([]complex128, len(flm))
	for ell := range L {
		d := SmallD(ell, beta)
		for m := -ell; m <= ell; m++ {
			var sum complex128
			for mp := -ell; mp <= ell; mp++ {
				phase := cmplx.Exp(complex(0, -float64(mp)*gamma))
				sum += complex(d.At(m+ell, mp+ell), 0) * phase * flm[Index(ell, mp)]
			}
			out[Index(ell, m)] = cmplx.Exp(complex(0, -float64(m)*alpha)) * sum
		}
	}
	return out
}
