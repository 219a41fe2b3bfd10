package slepian

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-slepian/internal/eigen"
	"github.com/tphakala/go-slepian/internal/parallel"
	"github.com/tphakala/go-slepian/internal/simdops"
	"github.com/tphakala/go-slepian/internal/sphere"
)

// The concentration matrix is D_ij = ∫_R conj(Y_i) Y_j dΩ. Away from the
// axisymmetric case it is assembled from a colatitude quadrature
//
//	D_ij = Σ_n λ_i(θ_n) λ_j(θ_n) H_n(m_j - m_i)
//
// where H_n(q) carries the quadrature weight and the longitude integral
// of e^{iqφ} over the region at node n.

// ringQuadrature is a colatitude quadrature with per-node longitude
// weights.
type ringQuadrature struct {
	L int

	// legendre[i][n] is λ_i(θ_n) for coefficient i.
	legendre [][]float64

	// weight[q+qMax][n] is H_n(q).
	weight [][]complex128
}

func newRingQuadrature(L int, thetas []float64) *ringQuadrature {
	n := L * L
	rq := &ringQuadrature{L: L, legendre: make([][]float64, n)}
	for i := range rq.legendre {
		rq.legendre[i] = make([]float64, len(thetas))
	}
	buf := make([]float64, n)
	for k, theta := range thetas {
		buf = sphere.Legendre(L, theta, buf)
		for i, v := range buf {
			rq.legendre[i][k] = v
		}
	}
	rq.weight = make([][]complex128, 2*rq.qMax()+1)
	return rq
}

func (rq *ringQuadrature) qMax() int { return 2 * (rq.L - 1) }

// assemble builds the full matrix. Rows are independent and each is
// written by exactly one worker, so the result does not depend on the
// worker count.
func (rq *ringQuadrature) assemble(workers int) (*mat.CDense, error) {
	n := rq.L * rq.L
	d := mat.NewCDense(n, n, nil)
	ops := simdops.Default()
	qMax := rq.qMax()
	nodes := len(rq.legendre[0])

	err := parallel.For(n, workers, func(i int) error {
		_, mi := sphere.Elm(i)
		li := rq.legendre[i]

		// re[q], im[q] hold λ_i ⊙ H(q), built on first use in this row.
		re := make([][]float64, 2*qMax+1)
		im := make([][]float64, 2*qMax+1)
		for j := range n {
			_, mj := sphere.Elm(j)
			q := mj - mi + qMax
			if re[q] == nil {
				re[q] = make([]float64, nodes)
				im[q] = make([]float64, nodes)
				for k, h := range rq.weight[q] {
					re[q][k] = li[k] * real(h)
					im[q][k] = li[k] * imag(h)
				}
			}
			lj := rq.legendre[j]
			d.Set(i, j, complex(ops.DotProduct(re[q], lj), ops.DotProduct(im[q], lj)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// latLonQuadrature integrates over θ ∈ [θmin, θmax] (plus the mirror for
// gaps) with Gauss-Legendre in θ and the exact longitude integral.
func latLonQuadrature(c PolarCap, L int) *ringQuadrature {
	perSplit := latLonNodesPerBand*L + latLonExtraNodes
	var thetas, weights []float64
	addInterval := func(a, b float64) {
		step := (b - a) / latLonSplits
		for s := range latLonSplits {
			x := make([]float64, perSplit)
			w := make([]float64, perSplit)
			lo := a + float64(s)*step
			quad.Legendre{}.FixedLocations(x, w, lo, lo+step)
			for k := range x {
				thetas = append(thetas, x[k])
				weights = append(weights, w[k]*math.Sin(x[k]))
			}
		}
	}
	addInterval(c.ThetaMin, c.ThetaMax)
	if c.Gap {
		addInterval(math.Pi-c.ThetaMax, math.Pi-c.ThetaMin)
	}

	rq := newRingQuadrature(L, thetas)
	lo, hi := c.phiRange()
	for q := -rq.qMax(); q <= rq.qMax(); q++ {
		phiIntegral := longitudeIntegral(q, lo, hi)
		row := make([]complex128, len(thetas))
		for k, w := range weights {
			row[k] = complex(w, 0) * phiIntegral
		}
		rq.weight[q+rq.qMax()] = row
	}
	return rq
}

// longitudeIntegral returns ∫_a^b e^{iqφ} dφ.
func longitudeIntegral(q int, a, b float64) complex128 {
	if q == 0 {
		return complex(b-a, 0)
	}
	fq := float64(q)
	return (cmplx.Exp(complex(0, fq*b)) - cmplx.Exp(complex(0, fq*a))) / complex(0, fq)
}

// maskQuadrature integrates over the mask grid. The longitude sums
// Σ_k mask_rk e^{iqφ_k} are read off one inverse FFT per ring.
func maskQuadrature(m *Mask, L int) *ringQuadrature {
	grid := sphere.NewGrid(m.Resolution)
	rq := newRingQuadrature(L, grid.Thetas)
	nPhi := grid.NPhi()
	fft := fourier.NewCmplxFFT(nPhi)

	qMax := rq.qMax()
	for q := range rq.weight {
		rq.weight[q] = make([]complex128, grid.NTheta())
	}
	ring := make([]complex128, nPhi)
	sums := make([]complex128, nPhi)
	for r := range grid.Thetas {
		for k := range nPhi {
			ring[k] = 0
			if m.Values[r*nPhi+k] {
				ring[k] = 1
			}
		}
		fft.Sequence(sums, ring)
		area := complex(grid.Area(r), 0)
		for q := -qMax; q <= qMax; q++ {
			bin := q % nPhi
			if bin < 0 {
				bin += nPhi
			}
			rq.weight[q+qMax][r] = area * sums[bin]
		}
	}
	return rq
}

// capNodes returns Gauss-Legendre nodes (as colatitudes) and weights in
// cos θ covering an axisymmetric cap and its gap mirror.
func capNodes(c PolarCap, L int) (thetas, weights []float64) {
	n := L + capExtraNodes
	add := func(x0, x1 float64) {
		x := make([]float64, n)
		w := make([]float64, n)
		quad.Legendre{}.FixedLocations(x, w, x0, x1)
		for k := range x {
			thetas = append(thetas, math.Acos(x[k]))
			weights = append(weights, w[k])
		}
	}
	add(math.Cos(c.ThetaMax), math.Cos(c.ThetaMin))
	if c.Gap {
		add(-math.Cos(c.ThetaMin), -math.Cos(c.ThetaMax))
	}
	return thetas, weights
}

// capBlocks returns the order-m blocks D^m_{ℓℓ'} = 2π ∫ λ_ℓm λ_ℓ'm d(cos θ)
// for m = 0..L-1, indexed by ℓ-m.
func capBlocks(c PolarCap, L, workers int) ([]*mat.SymDense, error) {
	thetas, weights := capNodes(c, L)
	tables := make([][]float64, len(thetas))
	for k, theta := range thetas {
		tables[k] = sphere.Legendre(L, theta, nil)
	}

	blocks := make([]*mat.SymDense, L)
	err := parallel.For(L, workers, func(m int) error {
		size := L - m
		b := mat.NewSymDense(size, nil)
		for a := range size {
			ia := sphere.Index(m+a, m)
			for bb := a; bb < size; bb++ {
				ib := sphere.Index(m+bb, m)
				var sum float64
				for k, w := range weights {
					sum += w * tables[k][ia] * tables[k][ib]
				}
				b.SetSym(a, bb, twoPi*sum)
			}
		}
		blocks[m] = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// capMatrix expands the order blocks into the full block-diagonal matrix.
func capMatrix(blocks []*mat.SymDense, L int) *mat.CDense {
	d := mat.NewCDense(L*L, L*L, nil)
	for m, b := range blocks {
		size := L - m
		for a := range size {
			for bb := range size {
				v := complex(b.At(a, bb), 0)
				d.Set(sphere.Index(m+a, m), sphere.Index(m+bb, m), v)
				if m > 0 {
					d.Set(sphere.Index(m+a, -m), sphere.Index(m+bb, -m), v)
				}
			}
		}
	}
	return d
}

type orderedPair struct {
	value  float64
	vector []complex128
}

// solveCapBlocks diagonalizes each order block. Orders are visited as
// m = 0, 1, -1, 2, -2, ... and a stable sort by eigenvalue then fixes the
// final order, so ties resolve the same way on every run.
func solveCapBlocks(blocks []*mat.SymDense, L int) (*Eigenpairs, error) {
	n := L * L
	pairs := make([]orderedPair, 0, n)
	var trace float64
	for m, b := range blocks {
		values, vectors, err := eigen.Symmetric(b)
		if err != nil {
			return nil, err
		}
		orders := []int{m}
		if m > 0 {
			orders = append(orders, -m)
		}
		for k := range b.SymmetricDim() {
			trace += b.At(k, k) * float64(len(orders))
		}
		for _, order := range orders {
			for k, v := range vectors {
				vec := make([]complex128, n)
				for a, x := range v {
					vec[sphere.Index(m+a, order)] = complex(x, 0)
				}
				pairs = append(pairs, orderedPair{value: values[k], vector: vec})
			}
		}
	}
	return sortedPairs(pairs, trace), nil
}

func sortedPairs(pairs []orderedPair, trace float64) *Eigenpairs {
	slices.SortStableFunc(pairs, func(a, b orderedPair) int {
		return cmp.Compare(b.value, a.value)
	})
	out := &Eigenpairs{
		Values:  make([]float64, len(pairs)),
		Vectors: make([][]complex128, len(pairs)),
		Trace:   trace,
	}
	for k, p := range pairs {
		out.Values[k] = p.value
		out.Vectors[k] = p.vector
	}
	return out
}

// sparseEntry is one non-zero of a sparse matrix row.
type sparseEntry struct {
	col int
	val complex128
}

// realBasis returns the sparse unitary map U from complex to real
// spherical harmonics, R_a = Σ_k U_ak Y_k, with
//
//	R_ℓm  = √2 (-1)^m λ_ℓm cos mφ
//	R_ℓ-m = √2 (-1)^m λ_ℓm sin mφ
func realBasis(L int) [][]sparseEntry {
	rows := make([][]sparseEntry, L*L)
	inv := complex(1/math.Sqrt2, 0)
	for ell := range L {
		rows[sphere.Index(ell, 0)] = []sparseEntry{{sphere.Index(ell, 0), 1}}
		for m := 1; m <= ell; m++ {
			p, n := sphere.Index(ell, m), sphere.Index(ell, -m)
			sign := complex(1, 0)
			if m%2 == 1 {
				sign = -1
			}
			rows[p] = []sparseEntry{{p, sign * inv}, {n, inv}}
			rows[n] = []sparseEntry{{p, -1i * sign * inv}, {n, 1i * inv}}
		}
	}
	return rows
}

// solveHermitian diagonalizes a Hermitian concentration matrix (already
// symmetrized). The matrix is mapped to the real harmonic basis where it
// is real symmetric, solved there, and the eigenvectors mapped back.
func solveHermitian(d *mat.CDense, L int) (*Eigenpairs, error) {
	n := L * L
	u := realBasis(L)

	var trace float64
	for i := range n {
		trace += real(d.At(i, i))
	}

	dr := mat.NewSymDense(n, nil)
	for a := range n {
		for b := a; b < n; b++ {
			var sum complex128
			for _, ea := range u[a] {
				for _, eb := range u[b] {
					sum += cmplx.Conj(ea.val) * eb.val * d.At(ea.col, eb.col)
				}
			}
			dr.SetSym(a, b, real(sum))
		}
	}

	values, vectors, err := eigen.Symmetric(dr)
	if err != nil {
		return nil, err
	}

	pairs := make([]orderedPair, n)
	for k, a := range vectors {
		c := make([]complex128, n)
		for row, entries := range u {
			x := complex(a[row], 0)
			for _, e := range entries {
				c[e.col] += e.val * x
			}
		}
		pairs[k] = orderedPair{value: values[k], vector: c}
	}
	return sortedPairs(pairs, trace), nil
}

// symmetrize returns (D + Dᴴ)/2.
func symmetrize(d *mat.CDense) *mat.CDense {
	n, _ := d.Dims()
	out := mat.NewCDense(n, n, nil)
	for i := range n {
		for j := range n {
			out.Set(i, j, (d.At(i, j)+cmplx.Conj(d.At(j, i)))/2)
		}
	}
	return out
}
