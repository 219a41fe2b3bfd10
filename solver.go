package slepian

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-slepian/internal/eigen"
	"github.com/tphakala/go-slepian/internal/mesh"
)

// Eigenpairs is the solved concentration problem: eigenvalues in
// descending order and their orthonormal eigenvectors. Values and vectors
// are shared with the solver and must not be modified.
type Eigenpairs struct {
	// Values[p] is the concentration of Slepian function p, in [0, 1].
	Values []float64

	// Vectors[p] holds the coefficients of Slepian function p in the
	// harmonic (or mesh eigen-) basis.
	Vectors [][]complex128

	// Trace is the trace of the concentration operator.
	Trace float64
}

// Len returns the number of eigenpairs.
func (e *Eigenpairs) Len() int { return len(e.Values) }

// ShannonNumber returns round(Trace), the effective number of
// well-concentrated functions.
func (e *Eigenpairs) ShannonNumber() int {
	return int(math.Round(e.Trace))
}

// Config holds Slepian solver configuration.
type Config struct {
	// BandLimit is L on the sphere (coefficient vectors of length L²) or
	// the number of Laplace-Beltrami basis functions on a mesh.
	BandLimit int

	// Region selects where functions concentrate.
	Region Region

	// Mesh is required for a MeshRegion and ignored otherwise.
	Mesh *Mesh

	// Workers bounds parallel matrix assembly. 0 uses GOMAXPROCS.
	// Results do not depend on the worker count.
	Workers int

	// Cache optionally persists eigenpair sets between runs.
	Cache Cache

	// Logger receives progress and cache diagnostics. nil discards them.
	Logger *slog.Logger
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BandLimit <= 0 {
		return fmt.Errorf("%w: band-limit must be positive, got %d", ErrInvalidConfig, c.BandLimit)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	region, err := derefRegion(c.Region)
	if err != nil {
		return err
	}
	if err = region.validate(c.BandLimit); err != nil {
		return err
	}
	if r, ok := region.(MeshRegion); ok {
		if c.Mesh == nil {
			return fmt.Errorf("%w: mesh region %q without a mesh", ErrInvalidConfig, r.Name)
		}
		if c.BandLimit > c.Mesh.NumVertices() {
			return fmt.Errorf("%w: %d basis functions exceed %d vertices",
				ErrInvalidConfig, c.BandLimit, c.Mesh.NumVertices())
		}
		if _, err := r.Weighting(c.Mesh); err != nil {
			return err
		}
	}
	return nil
}

// Solver builds and diagonalizes the concentration matrix of a region.
// Results are computed on first use and kept for the solver's lifetime.
// A Solver is safe for concurrent use.
type Solver struct {
	config Config
	logger *slog.Logger

	mu     sync.Mutex
	blocks []*mat.SymDense // axisymmetric caps only
	matrix *mat.CDense
	pairs  *Eigenpairs

	// Mesh mode.
	basis  *mesh.Basis
	metric *mat.SymDense
}

// New validates config and returns a solver. No numerical work is done
// until a result is requested.
func New(config *Config) (*Solver, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{config: *config, logger: config.Logger}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.config.Region, _ = derefRegion(config.Region)
	return s, nil
}

// derefRegion returns value-typed caps and mesh regions, and rejects nil
// regions including typed nil pointers.
func derefRegion(r Region) (Region, error) {
	switch v := r.(type) {
	case nil:
	case *PolarCap:
		if v != nil {
			return *v, nil
		}
	case *MeshRegion:
		if v != nil {
			return *v, nil
		}
	case *Mask:
		if v != nil {
			return v, nil
		}
	default:
		return r, nil
	}
	return nil, fmt.Errorf("%w: no region", ErrInvalidRegion)
}

// BandLimit returns the configured band-limit.
func (s *Solver) BandLimit() int { return s.config.BandLimit }

// Region returns the configured region.
func (s *Solver) Region() Region { return s.config.Region }

// Rank returns the dimension of the coefficient space: L² on the sphere,
// the basis size on a mesh.
func (s *Solver) Rank() int {
	if s.isMesh() {
		return s.config.BandLimit
	}
	return s.config.BandLimit * s.config.BandLimit
}

func (s *Solver) isMesh() bool {
	_, ok := s.config.Region.(MeshRegion)
	return ok
}

// ConcentrationMatrix returns the Hermitian concentration matrix. The
// matrix is shared and must not be modified.
func (s *Solver) ConcentrationMatrix() (*mat.CDense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.buildMatrix(); err != nil {
		return nil, err
	}
	if s.matrix == nil && s.blocks != nil {
		s.matrix = capMatrix(s.blocks, s.config.BandLimit)
	}
	return s.matrix, nil
}

// Eigenpairs solves the concentration problem, consulting the cache when
// one is configured.
func (s *Solver) Eigenpairs() (*Eigenpairs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pairs != nil {
		return s.pairs, nil
	}

	key := s.cacheKey()
	if p := s.loadCached(key); p != nil {
		s.pairs = p
		return p, nil
	}

	start := time.Now()
	p, err := s.solve()
	if err != nil {
		return nil, err
	}
	s.logger.Info("solved concentration problem",
		"region", s.config.Region.Key(),
		"band_limit", s.config.BandLimit,
		"shannon", p.ShannonNumber(),
		"duration", time.Since(start))
	s.storeCached(key, p)
	s.pairs = p
	return p, nil
}

// ShannonNumber returns round(trace(D)).
func (s *Solver) ShannonNumber() (int, error) {
	p, err := s.Eigenpairs()
	if err != nil {
		return 0, err
	}
	return p.ShannonNumber(), nil
}

// buildMatrix assembles the region's matrix (or order blocks). Callers
// hold s.mu.
func (s *Solver) buildMatrix() error {
	if s.matrix != nil || s.blocks != nil {
		return nil
	}
	start := time.Now()
	L := s.config.BandLimit

	switch r := s.config.Region.(type) {
	case PolarCap:
		if r.Axisymmetric() {
			blocks, err := capBlocks(r, L, s.config.Workers)
			if err != nil {
				return err
			}
			s.blocks = blocks
			break
		}
		d, err := latLonQuadrature(r, L).assemble(s.config.Workers)
		if err != nil {
			return err
		}
		s.matrix = symmetrize(d)
	case *Mask:
		d, err := maskQuadrature(r, L).assemble(s.config.Workers)
		if err != nil {
			return err
		}
		s.matrix = symmetrize(d)
	case MeshRegion:
		if err := s.buildMeshMatrix(r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unsupported region %T", ErrInvalidRegion, r)
	}

	s.logger.Debug("assembled concentration matrix",
		"region", s.config.Region.Key(),
		"band_limit", L,
		"duration", time.Since(start))
	return nil
}

func (s *Solver) buildMeshMatrix(r MeshRegion) error {
	b, err := s.config.Mesh.basis(s.config.BandLimit)
	if err != nil {
		return err
	}
	weight, err := r.Weighting(s.config.Mesh)
	if err != nil {
		return err
	}
	ones := make([]float64, len(weight))
	for i := range ones {
		ones[i] = 1
	}
	s.basis = b
	s.metric = b.Gram(ones)

	d := b.Gram(weight)
	k := s.config.BandLimit
	s.matrix = mat.NewCDense(k, k, nil)
	for i := range k {
		for j := range k {
			s.matrix.Set(i, j, complex(d.At(i, j), 0))
		}
	}
	return nil
}

func (s *Solver) solve() (*Eigenpairs, error) {
	if err := s.buildMatrix(); err != nil {
		return nil, err
	}
	L := s.config.BandLimit

	var (
		p   *Eigenpairs
		err error
	)
	switch {
	case s.blocks != nil:
		p, err = solveCapBlocks(s.blocks, L)
	case s.isMesh():
		p, err = s.solveMesh()
	default:
		p, err = solveHermitian(s.matrix, L)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEigendecomposition, err)
	}
	return p, nil
}

// solveMesh solves D v = λ G v with G the basis Gram matrix, so that the
// eigenvectors are orthonormal under the mesh inner product.
func (s *Solver) solveMesh() (*Eigenpairs, error) {
	k := s.config.BandLimit
	d := mat.NewSymDense(k, nil)
	for i := range k {
		for j := i; j < k; j++ {
			d.SetSym(i, j, real(s.matrix.At(i, j)))
		}
	}
	values, vectors, err := eigen.Generalized(d, s.metric)
	if err != nil {
		return nil, err
	}
	p := &Eigenpairs{Values: values, Vectors: make([][]complex128, k)}
	for i, v := range vectors {
		c := make([]complex128, k)
		for j, x := range v {
			c[j] = complex(x, 0)
		}
		p.Vectors[i] = c
		p.Trace += values[i]
	}
	return p, nil
}

// meshMetric returns the Gram matrix used by Slepian projections on a
// mesh, building it if the eigenpairs came from the cache.
func (s *Solver) meshMetric() (*mat.SymDense, error) {
	if !s.isMesh() {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.buildMatrix(); err != nil {
		return nil, err
	}
	return s.metric, nil
}

func (s *Solver) cacheKey() string {
	suffix := ""
	if s.isMesh() {
		suffix = "mesh_" + s.config.Mesh.fingerprint()
	}
	return cacheKey(s.config.Region, s.config.BandLimit, suffix)
}

// loadCached returns a cached eigenpair set or nil. Misses, read errors,
// and stale or corrupt records all fall back to recomputation.
func (s *Solver) loadCached(key string) *Eigenpairs {
	if s.config.Cache == nil {
		return nil
	}
	data, ok, err := s.config.Cache.Get(key)
	if err != nil {
		s.logger.Warn("cache read failed, recomputing", "key", key, "error", err)
		return nil
	}
	if !ok {
		s.logger.Debug("cache miss", "key", key)
		return nil
	}
	p, err := decodeRecord(key, s.Rank(), data)
	if err != nil {
		s.logger.Warn("discarding unusable cache record", "key", key, "error", err)
		return nil
	}
	s.logger.Debug("cache hit", "key", key)
	return p
}

func (s *Solver) storeCached(key string, p *Eigenpairs) {
	if s.config.Cache == nil {
		return
	}
	data, err := encodeRecord(key, p)
	if err != nil {
		s.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.config.Cache.Set(key, data); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
