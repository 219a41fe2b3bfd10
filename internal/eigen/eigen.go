// Package eigen wraps gonum's dense symmetric eigensolvers with the
// ordering and sign conventions used by the Slepian solver: eigenvalues
// are returned in descending order, and each eigenvector is flipped so
// that its first significant component is positive.
package eigen

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by the solvers.
var (
	ErrNoConvergence       = errors.New("eigen: decomposition did not converge")
	ErrNotPositiveDefinite = errors.New("eigen: metric matrix is not positive definite")
)

// signThreshold is the relative magnitude below which a component is
// ignored when choosing an eigenvector's sign.
const signThreshold = 1e-12

// Symmetric solves a v = λ v for a real symmetric matrix. Eigenvalues are
// returned in descending order; vectors[k] is the unit eigenvector for
// values[k].
func Symmetric(a mat.Symmetric) (values []float64, vectors [][]float64, err error) {
	var es mat.EigenSym
	if ok := es.Factorize(a, true); !ok {
		return nil, nil, ErrNoConvergence
	}
	ascending := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	n := len(ascending)
	values = make([]float64, n)
	vectors = make([][]float64, n)
	for k := range n {
		src := n - 1 - k
		values[k] = ascending[src]
		v := make([]float64, n)
		for i := range n {
			v[i] = ev.At(i, src)
		}
		NormalizeSign(v)
		vectors[k] = v
	}
	return values, vectors, nil
}

// Generalized solves a v = λ b v for symmetric a and symmetric positive
// definite b by Cholesky reduction. Eigenvectors are b-orthonormal.
func Generalized(a, b mat.Symmetric) (values []float64, vectors [][]float64, err error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(b); !ok {
		return nil, nil, ErrNotPositiveDefinite
	}
	var l, linv mat.TriDense
	chol.LTo(&l)
	if err := linv.InverseTri(&l); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotPositiveDefinite, err)
	}

	var tmp, c mat.Dense
	tmp.Mul(&linv, a)
	c.Mul(&tmp, linv.T())

	values, reduced, err := Symmetric(Symmetrize(&c))
	if err != nil {
		return nil, nil, err
	}

	n := len(values)
	vectors = make([][]float64, n)
	for k, w := range reduced {
		var v mat.VecDense
		v.MulVec(linv.T(), mat.NewVecDense(n, w))
		out := make([]float64, n)
		for i := range n {
			out[i] = v.AtVec(i)
		}
		NormalizeSign(out)
		vectors[k] = out
	}
	return values, vectors, nil
}

// Symmetrize returns (a + aᵀ)/2 for a square matrix.
func Symmetrize(a mat.Matrix) *mat.SymDense {
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (a.At(i, j)+a.At(j, i))/2)
		}
	}
	return s
}

// NormalizeSign flips v in place so that its first component whose
// magnitude exceeds a small fraction of the largest is positive.
func NormalizeSign(v []float64) {
	var peak float64
	for _, x := range v {
		peak = math.Max(peak, math.Abs(x))
	}
	if peak == 0 {
		return
	}
	for _, x := range v {
		if math.Abs(x) > signThreshold*peak {
			if x < 0 {
				for i := range v {
					v[i] = -v[i]
				}
			}
			return
		}
	}
}
