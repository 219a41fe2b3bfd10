package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-slepian/internal/eigen"
	"github.com/tphakala/go-slepian/internal/simdops"
)

// Basis holds the K lowest-frequency Laplace-Beltrami eigenfunctions of a
// mesh, orthonormal under the lumped mass inner product.
type Basis struct {
	Mesh *Mesh

	// Eigenvalues are ascending; the first is zero up to rounding.
	Eigenvalues []float64

	// Functions[i][v] is eigenfunction i at vertex v.
	Functions [][]float64

	mass     []float64
	weighted [][]float64 // mass-weighted functions for the forward transform
}

// NewBasis solves S φ = μ M φ and keeps the k smallest eigenpairs.
func NewBasis(m *Mesh, k int) (*Basis, error) {
	n := m.NumVertices()
	if k <= 0 || k > n {
		return nil, fmt.Errorf("%w: basis size %d outside [1, %d]", ErrInvalidMesh, k, n)
	}

	mass := m.Mass()
	metric := mat.NewSymDense(n, nil)
	for v, w := range mass {
		metric.SetSym(v, v, w)
	}
	values, vectors, err := eigen.Generalized(m.Stiffness(), metric)
	if err != nil {
		return nil, err
	}

	b := &Basis{
		Mesh:        m,
		Eigenvalues: make([]float64, k),
		Functions:   make([][]float64, k),
		mass:        mass,
		weighted:    make([][]float64, k),
	}
	for i := range k {
		src := n - 1 - i
		b.Eigenvalues[i] = values[src]
		b.Functions[i] = vectors[src]
		w := make([]float64, n)
		for v := range w {
			w[v] = mass[v] * vectors[src][v]
		}
		b.weighted[i] = w
	}
	return b, nil
}

// Size returns the number of basis functions.
func (b *Basis) Size() int { return len(b.Functions) }

// Mass returns the lumped mass diagonal.
func (b *Basis) Mass() []float64 { return b.mass }

// Forward projects a vertex field onto the basis: u_i = Σ_v M_v φ_i(v) u(v).
func (b *Basis) Forward(field []complex128) []complex128 {
	ops := simdops.Default()
	re, im := split(field)
	out := make([]complex128, len(b.Functions))
	for i, w := range b.weighted {
		out[i] = complex(ops.DotProduct(w, re), ops.DotProduct(w, im))
	}
	return out
}

// Inverse synthesizes a vertex field u = Σ_i u_i φ_i.
func (b *Basis) Inverse(coeffs []complex128) []complex128 {
	out := make([]complex128, b.Mesh.NumVertices())
	for i, phi := range b.Functions {
		c := coeffs[i]
		for v, x := range phi {
			out[v] += c * complex(x, 0)
		}
	}
	return out
}

// Gram returns G_ij = Σ_v weight_v M_v φ_i(v) φ_j(v). With unit weights
// this is the basis Gram matrix; with a region indicator it is the
// concentration matrix.
func (b *Basis) Gram(weight []float64) *mat.SymDense {
	ops := simdops.Default()
	k := len(b.Functions)
	g := mat.NewSymDense(k, nil)
	scratch := make([]float64, len(b.mass))
	for i := range k {
		for v := range scratch {
			scratch[v] = weight[v] * b.weighted[i][v]
		}
		for j := i; j < k; j++ {
			g.SetSym(i, j, ops.DotProduct(scratch, b.Functions[j]))
		}
	}
	return g
}

func split(field []complex128) (re, im []float64) {
	re = make([]float64, len(field))
	im = make([]float64, len(field))
	for i, v := range field {
		re[i], im[i] = real(v), imag(v)
	}
	return re, im
}
