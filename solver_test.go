package slepian

import (
	"bytes"
	"encoding/gob"
	"errors"
	"log/slog"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-slepian/cache"
	"github.com/tphakala/go-slepian/internal/testutil"
)

const (
	eigenTolerance = 1e-10
	traceTolerance = 1e-9
)

func newSolver(t *testing.T, cfg *Config) *Solver {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func solvePairs(t *testing.T, cfg *Config) *Eigenpairs {
	t.Helper()
	p, err := newSolver(t, cfg).Eigenpairs()
	require.NoError(t, err)
	return p
}

// capTrace is L²·area/4π for the cap θ ≤ thetaMax.
func capTrace(L int, thetaMax float64) float64 {
	return float64(L*L) * (1 - math.Cos(thetaMax)) / 2
}

func TestSolver_PolarCap(t *testing.T) {
	const L = 8
	s := newSolver(t, &Config{BandLimit: L, Region: NewPolarCap(math.Pi / 4)})

	p, err := s.Eigenpairs()
	require.NoError(t, err)
	require.Equal(t, L*L, p.Len())
	require.Len(t, p.Vectors, L*L)

	testutil.AssertNonIncreasing(t, p.Values)
	testutil.AssertAllInRange(t, p.Values, -eigenTolerance, 1+eigenTolerance)
	assert.Greater(t, p.Values[0], 0.9)
	assert.InDelta(t, capTrace(L, math.Pi/4), p.Trace, traceTolerance)

	n, err := s.ShannonNumber()
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	testutil.AssertOrthonormal(t, p.Vectors, testutil.OrthoTolerance)
}

func TestSolver_EigenvaluesAreRayleighQuotients(t *testing.T) {
	const L = 6
	regions := map[string]Region{
		"cap":      NewPolarCap(0.6),
		"band":     PolarCap{ThetaMin: 0.4, ThetaMax: 1.2},
		"gap":      PolarCap{ThetaMax: 0.5, Gap: true},
		"lat-lon":  NewLimLatLon(0.3, 1.4, 0.5, 2.5),
		"lon-only": NewLimLatLon(0, math.Pi, 0, math.Pi),
	}
	for name, region := range regions {
		t.Run(name, func(t *testing.T) {
			s := newSolver(t, &Config{BandLimit: L, Region: region})
			p, err := s.Eigenpairs()
			require.NoError(t, err)
			d, err := s.ConcentrationMatrix()
			require.NoError(t, err)

			for k, v := range p.Vectors {
				var q complex128
				for i := range v {
					for j := range v {
						q += cmplx.Conj(v[i]) * d.At(i, j) * v[j]
					}
				}
				assert.InDelta(t, p.Values[k], real(q), eigenTolerance, "rank %d", k)
				assert.InDelta(t, 0, imag(q), eigenTolerance, "rank %d", k)
			}
			testutil.AssertOrthonormal(t, p.Vectors, testutil.OrthoTolerance)
			testutil.AssertNonIncreasing(t, p.Values)
		})
	}
}

func TestSolver_Trace(t *testing.T) {
	const L = 7
	tests := []struct {
		name   string
		region Region
		want   float64
	}{
		{"cap", NewPolarCap(1), capTrace(L, 1)},
		{"hemisphere", NewPolarCap(math.Pi / 2), float64(L*L) / 2},
		{"whole sphere", NewPolarCap(math.Pi), float64(L * L)},
		{"gap doubles cap", PolarCap{ThetaMax: 0.7, Gap: true}, 2 * capTrace(L, 0.7)},
		{"band", PolarCap{ThetaMin: 0.5, ThetaMax: 1}, capTrace(L, 1) - capTrace(L, 0.5)},
		{"half longitude", NewLimLatLon(0, 1, 0, math.Pi), capTrace(L, 1) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := solvePairs(t, &Config{BandLimit: L, Region: tt.region})
			assert.InDelta(t, tt.want, p.Trace, 1e-8)
			var sum float64
			for _, v := range p.Values {
				sum += v
			}
			assert.InDelta(t, p.Trace, sum, 1e-8)
		})
	}
}

func TestSolver_WholeSphereIsIdentity(t *testing.T) {
	p := solvePairs(t, &Config{BandLimit: 5, Region: NewPolarCap(math.Pi)})
	for k, v := range p.Values {
		assert.InDelta(t, 1, v, eigenTolerance, "rank %d", k)
	}
}

func TestSolver_BlockPathMatchesGeneralPath(t *testing.T) {
	const L = 6
	const theta = 0.8
	blocks := solvePairs(t, &Config{BandLimit: L, Region: NewPolarCap(theta)})
	// Just short of the full circle forces the general quadrature.
	general := solvePairs(t, &Config{BandLimit: L, Region: NewLimLatLon(0, theta, 0, twoPi-1e-9)})

	require.Equal(t, blocks.Len(), general.Len())
	for k := range blocks.Values {
		assert.InDelta(t, blocks.Values[k], general.Values[k], 1e-7, "rank %d", k)
	}
}

func TestSolver_LongitudeShiftPreservesSpectrum(t *testing.T) {
	const L = 5
	a := solvePairs(t, &Config{BandLimit: L, Region: NewLimLatLon(0.2, 1.3, 0, math.Pi)})
	b := solvePairs(t, &Config{BandLimit: L, Region: NewLimLatLon(0.2, 1.3, math.Pi, twoPi)})
	for k := range a.Values {
		assert.InDelta(t, a.Values[k], b.Values[k], 1e-9, "rank %d", k)
	}
}

func TestSolver_WorkerCountDoesNotChangeResults(t *testing.T) {
	const L = 6
	region := NewLimLatLon(0.3, 1.1, 0.2, 4)

	serial := newSolver(t, &Config{BandLimit: L, Region: region, Workers: 1})
	parallel := newSolver(t, &Config{BandLimit: L, Region: region, Workers: 8})

	ds, err := serial.ConcentrationMatrix()
	require.NoError(t, err)
	dp, err := parallel.ConcentrationMatrix()
	require.NoError(t, err)
	n, _ := ds.Dims()
	for i := range n {
		for j := range n {
			require.Equal(t, ds.At(i, j), dp.At(i, j), "entry (%d, %d)", i, j)
		}
	}

	ps, err := serial.Eigenpairs()
	require.NoError(t, err)
	pp, err := parallel.Eigenpairs()
	require.NoError(t, err)
	assert.Equal(t, ps.Values, pp.Values)
	assert.Equal(t, ps.Vectors, pp.Vectors)
}

func TestSolver_MaskMatchesCapTrace(t *testing.T) {
	const L = 4
	mask, err := NewMask("north", 16, func(theta, _ float64) bool { return theta < math.Pi/2 })
	require.NoError(t, err)

	p := solvePairs(t, &Config{BandLimit: L, Region: mask})
	assert.InDelta(t, float64(L*L)/2, p.Trace, traceTolerance)
	testutil.AssertAllInRange(t, p.Values, -eigenTolerance, 1+eigenTolerance)
	testutil.AssertOrthonormal(t, p.Vectors, testutil.OrthoTolerance)
}

func TestSolver_FullMaskIsIdentity(t *testing.T) {
	const L = 4
	mask, err := NewMask("all", L, func(float64, float64) bool { return true })
	require.NoError(t, err)

	p := solvePairs(t, &Config{BandLimit: L, Region: mask})
	for k, v := range p.Values {
		assert.InDelta(t, 1, v, eigenTolerance, "rank %d", k)
	}
}

func TestSolver_ResultsAreComputedOnce(t *testing.T) {
	s := newSolver(t, &Config{BandLimit: 4, Region: NewPolarCap(1)})
	a, err := s.Eigenpairs()
	require.NoError(t, err)
	b, err := s.Eigenpairs()
	require.NoError(t, err)
	assert.Same(t, a, b)

	m1, err := s.ConcentrationMatrix()
	require.NoError(t, err)
	m2, err := s.ConcentrationMatrix()
	require.NoError(t, err)
	assert.Same(t, m1, m2)
}

func TestSolver_ShannonNumberGrowsWithCap(t *testing.T) {
	const L = 8
	thetas := []float64{0.1, 0.3, 0.6, 0.9, 1.2, 1.6, 2.0, 2.6, math.Pi}
	prev := -1
	for _, theta := range thetas {
		s := newSolver(t, &Config{BandLimit: L, Region: NewPolarCap(theta)})
		n, err := s.ShannonNumber()
		require.NoError(t, err)
		assert.Equal(t, int(math.Round(capTrace(L, theta))), n, "θ=%g", theta)
		assert.GreaterOrEqual(t, n, prev, "θ=%g", theta)
		assert.GreaterOrEqual(t, n, 0, "θ=%g", theta)
		assert.LessOrEqual(t, n, L*L, "θ=%g", theta)
		if theta >= 0.3 {
			assert.Positive(t, n, "θ=%g", theta)
		}
		prev = n
	}
	assert.Equal(t, L*L, prev)
}

func TestNew_InvalidConfig(t *testing.T) {
	emptyMask := &Mask{Name: "empty", Resolution: 4, Values: make([]bool, 4*7)}
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{"nil config", nil, ErrInvalidConfig},
		{"zero band-limit", &Config{Region: NewPolarCap(1)}, ErrInvalidConfig},
		{"negative band-limit", &Config{BandLimit: -1, Region: NewPolarCap(1)}, ErrInvalidConfig},
		{"negative workers", &Config{BandLimit: 4, Region: NewPolarCap(1), Workers: -1}, ErrInvalidConfig},
		{"no region", &Config{BandLimit: 4}, ErrInvalidRegion},
		{"theta beyond pi", &Config{BandLimit: 4, Region: NewPolarCap(4)}, ErrInvalidRegion},
		{"empty cap", &Config{BandLimit: 4, Region: NewPolarCap(0)}, ErrInvalidRegion},
		{"inverted band", &Config{BandLimit: 4, Region: PolarCap{ThetaMin: 1, ThetaMax: 0.5}}, ErrInvalidRegion},
		{"overlapping gap", &Config{BandLimit: 4, Region: PolarCap{ThetaMax: 2, Gap: true}}, ErrInvalidRegion},
		{"bad longitude", &Config{BandLimit: 4, Region: NewLimLatLon(0, 1, 2, 1)}, ErrInvalidRegion},
		{"NaN", &Config{BandLimit: 4, Region: NewPolarCap(math.NaN())}, ErrInvalidRegion},
		{"empty mask", &Config{BandLimit: 4, Region: emptyMask}, ErrInvalidRegion},
		{"coarse mask", &Config{BandLimit: 8, Region: emptyMask}, ErrInvalidRegion},
		{"mesh region without mesh", &Config{BandLimit: 4, Region: MeshRegion{Name: "r", Vertices: []int{0}}}, ErrInvalidConfig},
		{"mesh region pointer without mesh", &Config{BandLimit: 4, Region: &MeshRegion{Name: "r", Vertices: []int{0}}}, ErrInvalidConfig},
		{"nil cap pointer", &Config{BandLimit: 4, Region: (*PolarCap)(nil)}, ErrInvalidRegion},
		{"nil mask pointer", &Config{BandLimit: 4, Region: (*Mask)(nil)}, ErrInvalidRegion},
		{"nil mesh region pointer", &Config{BandLimit: 4, Region: (*MeshRegion)(nil)}, ErrInvalidRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_AcceptsCapPointer(t *testing.T) {
	c := NewPolarCap(1)
	s := newSolver(t, &Config{BandLimit: 3, Region: &c})
	_, ok := s.Region().(PolarCap)
	assert.True(t, ok)
}

func TestSolver_CacheRoundTrip(t *testing.T) {
	store := cache.NewMemory()
	cfg := &Config{
		BandLimit: 5,
		Region:    NewLimLatLon(0, 1, 0, 3),
		Cache:     store,
		Logger:    slog.New(slog.DiscardHandler),
	}

	first := solvePairs(t, cfg)
	assert.Equal(t, 1, store.Len())

	second := solvePairs(t, cfg)
	assert.Equal(t, first.Values, second.Values)
	assert.Equal(t, first.Vectors, second.Vectors)
	assert.InDelta(t, first.Trace, second.Trace, 0)
}

func TestSolver_CorruptCacheRecordIsRecomputed(t *testing.T) {
	store := cache.NewMemory()
	cfg := &Config{BandLimit: 4, Region: NewPolarCap(0.9), Cache: store}
	key := newSolver(t, cfg).cacheKey()
	require.NoError(t, store.Set(key, []byte("not a gob record")))

	p := solvePairs(t, cfg)
	assert.InDelta(t, capTrace(4, 0.9), p.Trace, traceTolerance)

	// The recomputed result replaced the corrupt record.
	data, ok, err := store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = decodeRecord(key, 16, data)
	assert.NoError(t, err)
}

// failingCache errors on every call.
type failingCache struct{}

func (failingCache) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disk on fire") }
func (failingCache) Set(string, []byte) error         { return errors.New("disk on fire") }

func TestSolver_CacheErrorsAreNotFatal(t *testing.T) {
	p := solvePairs(t, &Config{BandLimit: 4, Region: NewPolarCap(0.9), Cache: failingCache{}})
	assert.Equal(t, 16, p.Len())
}

func TestDecodeRecord_Rejects(t *testing.T) {
	good := &Eigenpairs{
		Values:  []float64{1, 0.5, 0.25, 0},
		Vectors: [][]complex128{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		Trace:   1.75,
	}
	const key = "slepian/v1/cap/L2"
	data, err := encodeRecord(key, good)
	require.NoError(t, err)

	p, err := decodeRecord(key, 4, data)
	require.NoError(t, err)
	assert.Equal(t, good.Values, p.Values)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(&cacheRecord{
		Version: SolverVersion + 1, Key: key, Values: good.Values, Vectors: good.Vectors,
	}))

	tests := []struct {
		name string
		key  string
		rank int
		data []byte
	}{
		{"other key", "slepian/v1/other/L2", 4, data},
		{"wrong rank", key, 9, data},
		{"newer version", key, 4, buf.Bytes()},
		{"garbage", key, 4, []byte{0xff, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRecord(tt.key, tt.rank, tt.data)
			assert.Error(t, err)
		})
	}
}

func TestCacheKey_DistinguishesInputs(t *testing.T) {
	keys := map[string]bool{}
	for _, k := range []string{
		cacheKey(NewPolarCap(1), 8, ""),
		cacheKey(NewPolarCap(1), 9, ""),
		cacheKey(NewPolarCap(1.1), 8, ""),
		cacheKey(PolarCap{ThetaMax: 1, Gap: true}, 8, ""),
		cacheKey(NewLimLatLon(0, 1, 0, 2), 8, ""),
		cacheKey(NewPolarCap(1), 8, "mesh_abc"),
	} {
		assert.False(t, keys[k], "duplicate key %q", k)
		keys[k] = true
	}
	assert.Equal(t, cacheKey(NewPolarCap(1), 8, ""), cacheKey(NewLimLatLon(0, 1, 0, twoPi), 8, ""))
}
