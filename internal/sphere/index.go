package sphere

import "math"

// Index returns the flat position of (ell, m) in a coefficient vector.
func Index(ell, m int) int {
	return ell*ell + ell + m
}

// Elm is the inverse of Index.
func Elm(i int) (ell, m int) {
	ell = int(math.Sqrt(float64(i)))
	// Correct float truncation for large indices.
	for ell*ell > i {
		ell--
	}
	for (ell+1)*(ell+1) <= i {
		ell++
	}
	return ell, i - ell*ell - ell
}

// BandLimit returns L when n == L² for some L > 0.
func BandLimit(n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	l := int(math.Round(math.Sqrt(float64(n))))
	if l*l != n {
		return 0, false
	}
	return l, true
}

// Degrees returns, for every position of a length-L² vector, its degree ℓ.
func Degrees(L int) []int {
	out := make([]int, L*L)
	for ell := range L {
		for m := -ell; m <= ell; m++ {
			out[Index(ell, m)] = ell
		}
	}
	return out
}

// wrap maps an order m onto an FFT bin of a length-n transform.
func wrap(m, n int) int {
	m %= n
	if m < 0 {
		m += n
	}
	return m
}
