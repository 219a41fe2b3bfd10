package sphere

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-slepian/internal/testutil"
)

const transformTolerance = 1e-11

func TestTransformRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		L          int
		resolution int
	}{
		{"minimal", 1, 1},
		{"exact grid", 8, 8},
		{"oversampled", 8, 13},
		{"larger", 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransform(tt.L, NewGrid(tt.resolution))
			require.NoError(t, err)

			flm := testutil.RandomCoefficients(tt.L*tt.L, 7)
			samples := tr.Inverse(flm)
			require.Len(t, samples, tr.Grid.Len())
			testutil.AssertComplexInDelta(t, flm, tr.Forward(samples), transformTolerance)
		})
	}
}

func TestTransformInverseMatchesYlm(t *testing.T) {
	const L = 5
	tr, err := NewTransform(L, NewGrid(L))
	require.NoError(t, err)

	flm := make([]complex128, L*L)
	flm[Index(3, -2)] = 1
	samples := tr.Inverse(flm)
	for i, v := range samples {
		theta, phi := tr.Grid.Point(i)
		want := Ylm(L, theta, phi)[Index(3, -2)]
		assert.InDelta(t, 0, cmplx.Abs(want-v), transformTolerance)
	}
}

func TestTransformRealFieldIsReal(t *testing.T) {
	const L = 9
	tr, err := NewTransform(L, NewGrid(L))
	require.NoError(t, err)

	samples := tr.Inverse(testutil.RandomRealField(L, 3))
	for i, v := range samples {
		assert.InDelta(t, 0, imag(v), 1e-12, "sample %d", i)
	}
}

func TestTransformIntegrate(t *testing.T) {
	const L = 4
	tr, err := NewTransform(L, NewGrid(L))
	require.NoError(t, err)

	ones := make([]complex128, tr.Grid.Len())
	for i := range ones {
		ones[i] = 1
	}
	assert.InDelta(t, 4*math.Pi, real(tr.Integrate(ones)), 1e-12)
}

func TestNewTransformRejectsCoarseGrid(t *testing.T) {
	_, err := NewTransform(8, NewGrid(7))
	assert.Error(t, err)
	_, err = NewTransform(0, NewGrid(7))
	assert.Error(t, err)
}
