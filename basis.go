package slepian

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Basis projects coefficient vectors onto the first N Slepian functions
// of a solver and reconstructs them. N is the Shannon number unless
// overridden.
type Basis struct {
	values  []float64
	vectors [][]complex128
	rank    int

	// metric is the Gram matrix of the underlying basis on a mesh; nil on
	// the sphere where the harmonics are orthonormal.
	metric *mat.SymDense
}

// ShannonBasis truncates at the Shannon number.
func (s *Solver) ShannonBasis() (*Basis, error) {
	n, err := s.ShannonNumber()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: Shannon number is zero for region %s", ErrInvalidTruncation, s.config.Region.Key())
	}
	return s.TruncatedBasis(n)
}

// TruncatedBasis keeps the n best-concentrated functions, 1 ≤ n ≤ Rank().
func (s *Solver) TruncatedBasis(n int) (*Basis, error) {
	if n < 1 || n > s.Rank() {
		return nil, fmt.Errorf("%w: %d outside [1, %d]", ErrInvalidTruncation, n, s.Rank())
	}
	p, err := s.Eigenpairs()
	if err != nil {
		return nil, err
	}
	metric, err := s.meshMetric()
	if err != nil {
		return nil, err
	}
	return &Basis{
		values:  p.Values[:n],
		vectors: p.Vectors[:n],
		rank:    s.Rank(),
		metric:  metric,
	}, nil
}

// Len returns N.
func (b *Basis) Len() int { return len(b.vectors) }

// Eigenvalues returns the concentrations of the retained functions.
func (b *Basis) Eigenvalues() []float64 { return b.values }

// ToSlepian computes f_p = ⟨S_p, f⟩ for p < N.
func (b *Basis) ToSlepian(f []complex128) ([]complex128, error) {
	if len(f) != b.rank {
		return nil, fmt.Errorf("%w: %d coefficients, basis rank %d", ErrDimensionMismatch, len(f), b.rank)
	}
	g := f
	if b.metric != nil {
		g = applyMetric(b.metric, f)
	}
	out := make([]complex128, len(b.vectors))
	for p, v := range b.vectors {
		var sum complex128
		for i, x := range v {
			sum += cmplx.Conj(x) * g[i]
		}
		out[p] = sum
	}
	return out, nil
}

// FromSlepian reconstructs Σ_p f_p S_p from N Slepian coefficients.
func (b *Basis) FromSlepian(fp []complex128) ([]complex128, error) {
	if len(fp) != len(b.vectors) {
		return nil, fmt.Errorf("%w: %d Slepian coefficients, basis keeps %d",
			ErrDimensionMismatch, len(fp), len(b.vectors))
	}
	out := make([]complex128, b.rank)
	for p, v := range b.vectors {
		c := fp[p]
		if c == 0 {
			continue
		}
		for i, x := range v {
			out[i] += c * x
		}
	}
	return out, nil
}

// Function returns the coefficients of Slepian function p (p < N).
func (b *Basis) Function(p int) ([]complex128, error) {
	if p < 0 || p >= len(b.vectors) {
		return nil, fmt.Errorf("%w: rank %d outside [0, %d)", ErrInvalidTruncation, p, len(b.vectors))
	}
	out := make([]complex128, len(b.vectors[p]))
	copy(out, b.vectors[p])
	return out, nil
}

func applyMetric(g *mat.SymDense, f []complex128) []complex128 {
	n := len(f)
	re := mat.NewVecDense(n, nil)
	im := mat.NewVecDense(n, nil)
	for i, v := range f {
		re.SetVec(i, real(v))
		im.SetVec(i, imag(v))
	}
	var gr, gi mat.VecDense
	gr.MulVec(g, re)
	gi.MulVec(g, im)
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(gr.AtVec(i), gi.AtVec(i))
	}
	return out
}
