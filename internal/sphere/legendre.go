package sphere

import (
	"math"
	"math/cmplx"
)

// Legendre fills dst with the orthonormal associated Legendre values
// λ_ℓm(θ) for every |m| ≤ ℓ < L, laid out like a coefficient vector.
// Negative orders follow λ_ℓ,-m = (-1)^m λ_ℓm. dst is reallocated when
// its capacity is below L².
//
// The sectoral terms are seeded with sin θ directly rather than √(1-x²)
// so that values near the poles keep full relative precision.
func Legendre(L int, theta float64, dst []float64) []float64 {
	n := L * L
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	if L == 0 {
		return dst
	}

	x, s := math.Cos(theta), math.Sin(theta)
	pmm := y00
	for m := range L {
		if m > 0 {
			pmm *= -math.Sqrt(float64(2*m+1)/float64(2*m)) * s
		}
		dst[Index(m, m)] = pmm
		if m+1 >= L {
			continue
		}

		p1 := x * math.Sqrt(float64(2*m+3)) * pmm
		dst[Index(m+1, m)] = p1
		p2 := pmm
		mm := float64(m * m)
		for ell := m + 2; ell < L; ell++ {
			l := float64(ell)
			a := math.Sqrt((4*l*l - 1) / (l*l - mm))
			b := math.Sqrt(((l-1)*(l-1) - mm) / (4*(l-1)*(l-1) - 1))
			p := a * (x*p1 - b*p2)
			dst[Index(ell, m)] = p
			p2, p1 = p1, p
		}
	}

	for ell := 1; ell < L; ell++ {
		for m := 1; m <= ell; m++ {
			v := dst[Index(ell, m)]
			if m%2 == 1 {
				v = -v
			}
			dst[Index(ell, -m)] = v
		}
	}
	return dst
}

// Ylm evaluates every spherical harmonic of band-limit L at (θ, φ).
func Ylm(L int, theta, phi float64) []complex128 {
	lambda := Legendre(L, theta, nil)
	out := make([]complex128, len(lambda))
	for ell := range L {
		for m := -ell; m <= ell; m++ {
			i := Index(ell, m)
			out[i] = complex(lambda[i], 0) * cmplx.Exp(complex(0, float64(m)*phi))
		}
	}
	return out
}
