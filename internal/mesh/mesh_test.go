package mesh

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-slepian/internal/testutil"
)

const meshTolerance = 1e-10

func TestGrid(t *testing.T) {
	m, err := Grid(4, 3, 2, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 20, m.NumVertices())
	assert.Len(t, m.Faces, 24)
	assert.InDelta(t, 3, m.Area(), meshTolerance)

	var total float64
	for _, w := range m.Mass() {
		assert.Positive(t, w)
		total += w
	}
	assert.InDelta(t, 3, total, meshTolerance)
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		vertices [][3]float64
		faces    [][3]int
	}{
		{"empty", nil, nil},
		{"out of range", [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, [][3]int{{0, 1, 3}}},
		{"degenerate", [][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, [][3]int{{0, 1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vertices, tt.faces)
			assert.True(t, errors.Is(err, ErrInvalidMesh))
		})
	}

	_, err := Grid(0, 3, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestStiffnessAnnihilatesConstants(t *testing.T) {
	m, err := Grid(5, 5, 1, 1)
	require.NoError(t, err)
	s := m.Stiffness()
	n := m.NumVertices()
	for i := range n {
		var row float64
		for j := range n {
			row += s.At(i, j)
		}
		assert.InDelta(t, 0, row, meshTolerance, "row %d", i)
	}
}

func TestBasisOrthonormalUnderMass(t *testing.T) {
	m, err := Grid(8, 8, 1, 1)
	require.NoError(t, err)
	b, err := NewBasis(m, 20)
	require.NoError(t, err)
	require.Equal(t, 20, b.Size())

	assert.InDelta(t, 0, b.Eigenvalues[0], 1e-9)
	testutil.AssertMonotonic(t, b.Eigenvalues)

	ones := make([]float64, m.NumVertices())
	for i := range ones {
		ones[i] = 1
	}
	g := b.Gram(ones)
	for i := range b.Size() {
		for j := range b.Size() {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, g.At(i, j), 1e-9, "G[%d][%d]", i, j)
		}
	}
}

func TestBasisRoundTrip(t *testing.T) {
	m, err := Grid(6, 6, 1, 1)
	require.NoError(t, err)
	b, err := NewBasis(m, 15)
	require.NoError(t, err)

	coeffs := testutil.RandomCoefficients(15, 9)
	testutil.AssertComplexInDelta(t, coeffs, b.Forward(b.Inverse(coeffs)), 1e-9)
}

func TestNewBasisRejectsSize(t *testing.T) {
	m, err := Grid(2, 2, 1, 1)
	require.NoError(t, err)
	_, err = NewBasis(m, 0)
	assert.ErrorIs(t, err, ErrInvalidMesh)
	_, err = NewBasis(m, 10)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestGramWithRegionIsBounded(t *testing.T) {
	m, err := Grid(6, 6, 1, 1)
	require.NoError(t, err)
	b, err := NewBasis(m, 10)
	require.NoError(t, err)

	weight := make([]float64, m.NumVertices())
	for v, p := range m.Vertices {
		if p[0] < 0.5 {
			weight[v] = 1
		}
	}
	var es mat.EigenSym
	require.True(t, es.Factorize(b.Gram(weight), false))
	testutil.AssertAllInRange(t, es.Values(nil), -1e-10, 1+1e-9)
}

func TestReadOFF(t *testing.T) {
	src := `OFF
# unit square as one quad
4 1 0
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`
	m, err := ReadOFF(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, m.Faces)
	assert.InDelta(t, 1, m.Area(), meshTolerance)
}

func TestReadOFFErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no header", "3 1 0\n"},
		{"truncated", "OFF\n3 1 0\n0 0 0\n"},
		{"bad face", "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOFF(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, ErrInvalidMesh)
		})
	}
}
