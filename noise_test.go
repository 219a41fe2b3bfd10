package slepian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-slepian/internal/sphere"
	"github.com/tphakala/go-slepian/internal/testutil"
)

func TestSignalPower(t *testing.T) {
	assert.InDelta(t, 0, SignalPower(nil), 0)
	assert.InDelta(t, 12.5, SignalPower([]complex128{3 + 4i, 0}), 1e-12)
}

func TestCreateNoise(t *testing.T) {
	const L = 12
	signal := testutil.RandomRealField(L, 1)

	a, err := CreateNoise(signal, 10, 7)
	require.NoError(t, err)
	b, err := CreateNoise(signal, 10, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assertRealField(t, a, 0)

	c, err := CreateNoise(signal, 10, 8)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	sigma := NoiseSigma(signal, 10)
	for _, v := range a {
		assert.LessOrEqual(t, math.Abs(real(v)), sigma)
		assert.LessOrEqual(t, math.Abs(imag(v)), sigma)
	}
}

func TestCreateNoise_SNRScales(t *testing.T) {
	const L = 10
	signal := testutil.RandomRealField(L, 2)

	low, err := CreateNoise(signal, 5, 3)
	require.NoError(t, err)
	high, err := CreateNoise(signal, 25, 3)
	require.NoError(t, err)

	snrLow, err := SNR(signal, low)
	require.NoError(t, err)
	snrHigh, err := SNR(signal, high)
	require.NoError(t, err)
	assert.InDelta(t, 20, snrHigh-snrLow, 1e-9)
}

func TestNoise_Errors(t *testing.T) {
	_, err := CreateNoise(make([]complex128, 3), 10, 0)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = CreateNoise(make([]complex128, 4), math.NaN(), 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = SNR(make([]complex128, 4), make([]complex128, 9))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = RandomSignal(0, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = RandomSignal(4, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = Smooth(make([]complex128, 4), 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = Smooth(make([]complex128, 5), 2)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestRandomSignal(t *testing.T) {
	a, err := RandomSignal(8, 2, 11)
	require.NoError(t, err)
	b, err := RandomSignal(8, 2, 11)
	require.NoError(t, err)
	require.Len(t, a, 64)
	assert.Equal(t, a, b)
	assertRealField(t, a, 0)
	assert.Positive(t, testutil.Energy(a))
}

func TestSmooth(t *testing.T) {
	const L = 16
	f := make([]complex128, L*L)
	for ell := range L {
		f[sphere.Index(ell, 0)] = 1
	}
	g, err := Smooth(f, 2)
	require.NoError(t, err)

	assert.Equal(t, complex128(1), g[0])
	prev := 1.0
	for ell := 1; ell < L; ell++ {
		v := real(g[sphere.Index(ell, 0)])
		assert.Less(t, v, prev, "degree %d", ell)
		assert.Positive(t, v)
		prev = v
	}

	sigma := math.Pi / (2 * L)
	l := float64(L - 1)
	assert.InDelta(t, math.Exp(-l*(l+1)*sigma*sigma/2), prev, 1e-12)
}

func TestWaveletSigma_SumsToWhiteNoiseLevel(t *testing.T) {
	const (
		L     = 16
		sigma = 0.3
	)
	fb, err := NewFilterBank(L, 2, 0)
	require.NoError(t, err)
	sigmas := WaveletSigma(fb, sigma)
	require.Len(t, sigmas, fb.Len())

	var sum float64
	for _, s := range sigmas {
		sum += s * s
	}
	assert.InDelta(t, sigma*sigma*float64(L*L)/fourPi, sum, 1e-10)
}

func TestDenoiseHarmonic(t *testing.T) {
	const L = 8
	fb, err := NewFilterBank(L, 2, 0)
	require.NoError(t, err)
	tr, err := NewSphereTransform(L, 0)
	require.NoError(t, err)
	f := testutil.RandomRealField(L, 4)

	// No threshold keeps everything.
	same, err := DenoiseHarmonic(f, fb, tr, 0, DefaultThresholdSigmas)
	require.NoError(t, err)
	testutil.AssertComplexInDelta(t, f, same, testutil.RoundTripTolerance)

	// An overwhelming threshold leaves only the scaling part.
	scaling, err := DenoiseHarmonic(f, fb, tr, 1e12, DefaultThresholdSigmas)
	require.NoError(t, err)
	for i, v := range f {
		ell, _ := sphere.Elm(i)
		k := fb.Responses[0][ell]
		assert.InDelta(t, 0, cmplxAbs(v*complex(k*k, 0)-scaling[i]), testutil.RoundTripTolerance, "index %d", i)
	}

	other, err := NewSphereTransform(L+1, 0)
	require.NoError(t, err)
	_, err = DenoiseHarmonic(f, fb, other, 1, DefaultThresholdSigmas)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDenoiseSlepian(t *testing.T) {
	const N = 20
	fb, err := NewFilterBank(N, 2, 0)
	require.NoError(t, err)
	fp := testutil.RandomCoefficients(N, 5)

	same, err := DenoiseSlepian(fp, fb, 0, DefaultThresholdSigmas)
	require.NoError(t, err)
	testutil.AssertComplexInDelta(t, fp, same, testutil.RoundTripTolerance)

	scaling, err := DenoiseSlepian(fp, fb, 1e12, DefaultThresholdSigmas)
	require.NoError(t, err)
	for p, v := range fp {
		k := fb.Responses[0][p]
		assert.InDelta(t, 0, cmplxAbs(v*complex(k*k, 0)-scaling[p]), testutil.RoundTripTolerance, "index %d", p)
	}
}
