package sphere

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
)

// Grid is a Gauss-Legendre sampling of the sphere. Colatitudes are the
// arccosines of R Gauss-Legendre nodes in ascending θ, longitudes are
// 2R-1 equiangular samples starting at φ = 0. Sample (r, k) is stored at
// position r*NPhi()+k.
//
// A grid of resolution R integrates band-limited products exactly for
// every band-limit L ≤ R.
type Grid struct {
	Resolution int
	Thetas     []float64
	Phis       []float64

	// Weights are the Gauss-Legendre weights in cos θ, one per ring.
	Weights []float64
}

// NewGrid builds the sampling grid of the given resolution (R ≥ 1).
func NewGrid(resolution int) *Grid {
	nodes := make([]float64, resolution)
	weights := make([]float64, resolution)
	quad.Legendre{}.FixedLocations(nodes, weights, -1, 1)

	// Descending cos θ gives ascending θ.
	order := make([]int, resolution)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return nodes[order[a]] > nodes[order[b]]
	})

	g := &Grid{
		Resolution: resolution,
		Thetas:     make([]float64, resolution),
		Weights:    make([]float64, resolution),
		Phis:       make([]float64, phiSamplesFactor*resolution-1),
	}
	for r, src := range order {
		g.Thetas[r] = math.Acos(nodes[src])
		g.Weights[r] = weights[src]
	}
	step := twoPi / float64(len(g.Phis))
	for k := range g.Phis {
		g.Phis[k] = float64(k) * step
	}
	return g
}

// NTheta returns the number of rings.
func (g *Grid) NTheta() int { return len(g.Thetas) }

// NPhi returns the number of samples per ring.
func (g *Grid) NPhi() int { return len(g.Phis) }

// Len returns the total number of samples.
func (g *Grid) Len() int { return len(g.Thetas) * len(g.Phis) }

// Point returns the coordinates of sample i.
func (g *Grid) Point(i int) (theta, phi float64) {
	n := g.NPhi()
	return g.Thetas[i/n], g.Phis[i%n]
}

// Area returns the quadrature area element of a sample on ring r.
func (g *Grid) Area(r int) float64 {
	return g.Weights[r] * twoPi / float64(g.NPhi())
}
