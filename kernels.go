package slepian

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/tphakala/go-slepian/internal/sphere"
)

// Kernel describes a function in the catalog. The set of variants is
// closed; Catalog.Coefficients evaluates them.
type Kernel interface {
	// Name identifies the kernel and its parameters.
	Name() string

	coefficients(c *Catalog, L int) ([]complex128, error)
}

// DiracDelta is the delta at the north pole: f_ℓ0 = √((2ℓ+1)/4π).
type DiracDelta struct{}

// Identity has every coefficient equal to one.
type Identity struct{}

// Gaussian is the axisymmetric harmonic Gaussian
// f_ℓ0 = exp(-ℓ(ℓ+1)/(2σ²)).
type Gaussian struct {
	Sigma float64
}

// ElongatedGaussian is the spatial Gaussian
// exp(-((θ-θ₀)/σ_θ)²/2 - ((φ-φ₀)/σ_φ)²/2) centred at θ₀ = 0, φ₀ = π.
type ElongatedGaussian struct {
	ThetaSigma float64
	PhiSigma   float64
}

// HarmonicGaussian is f_ℓm = exp(-ℓ²/(2σ_ℓ²) - m²/(2σ_m²)).
type HarmonicGaussian struct {
	LSigma float64
	MSigma float64
}

// SquashedGaussian is exp(-((θ-θ₀)/σ_θ)²/2) sin(freq·φ).
type SquashedGaussian struct {
	ThetaSigma float64
	Freq       float64
}

// SphericalHarmonic is the single harmonic Y_ℓm.
type SphericalHarmonic struct {
	Ell int
	M   int
}

// SlepianFunction is Slepian function Rank of a sphere solver. Its
// band-limit must match the requested one.
type SlepianFunction struct {
	Solver *Solver
	Rank   int
}

// Earth is the topography dataset read from the catalog's source.
type Earth struct{}

// WMAP is a cosmic microwave background realization read from the
// catalog's source.
type WMAP struct{}

// Name implements Kernel.
func (DiracDelta) Name() string { return "dirac_delta" }

// Name implements Kernel.
func (Identity) Name() string { return "identity" }

// Name implements Kernel.
func (g Gaussian) Name() string { return "gaussian" + paramSuffix("sig", g.Sigma) }

// Name implements Kernel.
func (g ElongatedGaussian) Name() string {
	return "elongated_gaussian" + paramSuffix("tsig", g.ThetaSigma) + paramSuffix("psig", g.PhiSigma)
}

// Name implements Kernel.
func (g HarmonicGaussian) Name() string {
	return "harmonic_gaussian" + paramSuffix("lsig", g.LSigma) + paramSuffix("msig", g.MSigma)
}

// Name implements Kernel.
func (g SquashedGaussian) Name() string {
	return "squashed_gaussian" + paramSuffix("tsig", g.ThetaSigma) + paramSuffix("freq", g.Freq)
}

// Name implements Kernel.
func (h SphericalHarmonic) Name() string {
	return fmt.Sprintf("spherical_harmonic_l%d_m%d", h.Ell, h.M)
}

// Name implements Kernel.
func (s SlepianFunction) Name() string {
	if s.Solver == nil {
		return fmt.Sprintf("slepian_rank%d", s.Rank)
	}
	return fmt.Sprintf("slepian_%s_L%d_rank%d", s.Solver.Region().Key(), s.Solver.BandLimit(), s.Rank)
}

// Name implements Kernel.
func (Earth) Name() string { return DatasetEarth }

// Name implements Kernel.
func (WMAP) Name() string { return DatasetWMAP }

func paramSuffix(label string, v float64) string {
	return "_" + label + strconv.FormatFloat(v, 'g', -1, 64)
}

func (DiracDelta) coefficients(_ *Catalog, L int) ([]complex128, error) {
	f := make([]complex128, L*L)
	for ell := range L {
		f[sphere.Index(ell, 0)] = complex(math.Sqrt(float64(2*ell+1)/fourPi), 0)
	}
	return f, nil
}

func (Identity) coefficients(_ *Catalog, L int) ([]complex128, error) {
	f := make([]complex128, L*L)
	for i := range f {
		f[i] = 1
	}
	return f, nil
}

func (g Gaussian) coefficients(_ *Catalog, L int) ([]complex128, error) {
	if !(g.Sigma > 0) {
		return nil, fmt.Errorf("%w: gaussian sigma must be positive, got %g", ErrInvalidKernelParameters, g.Sigma)
	}
	f := make([]complex128, L*L)
	for ell := range L {
		l := float64(ell)
		f[sphere.Index(ell, 0)] = complex(math.Exp(-l*(l+1)/(2*g.Sigma*g.Sigma)), 0)
	}
	return f, nil
}

func (g ElongatedGaussian) coefficients(c *Catalog, L int) ([]complex128, error) {
	if !(g.ThetaSigma > 0) || !(g.PhiSigma > 0) {
		return nil, fmt.Errorf("%w: elongated gaussian widths must be positive, got %g, %g",
			ErrInvalidKernelParameters, g.ThetaSigma, g.PhiSigma)
	}
	return c.sampled(L, func(theta, phi float64) float64 {
		dt := (theta - kernelThetaZero) / g.ThetaSigma
		dp := (phi - kernelPhiZero) / g.PhiSigma
		return math.Exp(-(dt*dt + dp*dp) / 2)
	})
}

func (g HarmonicGaussian) coefficients(_ *Catalog, L int) ([]complex128, error) {
	if !(g.LSigma > 0) || !(g.MSigma > 0) {
		return nil, fmt.Errorf("%w: harmonic gaussian widths must be positive, got %g, %g",
			ErrInvalidKernelParameters, g.LSigma, g.MSigma)
	}
	f := make([]complex128, L*L)
	for i := range f {
		ell, m := sphere.Elm(i)
		l, mm := float64(ell), float64(m)
		f[i] = complex(math.Exp(-l*l/(2*g.LSigma*g.LSigma)-mm*mm/(2*g.MSigma*g.MSigma)), 0)
	}
	return f, nil
}

func (g SquashedGaussian) coefficients(c *Catalog, L int) ([]complex128, error) {
	if !(g.ThetaSigma > 0) {
		return nil, fmt.Errorf("%w: squashed gaussian sigma must be positive, got %g", ErrInvalidKernelParameters, g.ThetaSigma)
	}
	if math.IsNaN(g.Freq) || math.IsInf(g.Freq, 0) {
		return nil, fmt.Errorf("%w: squashed gaussian frequency %g", ErrInvalidKernelParameters, g.Freq)
	}
	return c.sampled(L, func(theta, phi float64) float64 {
		dt := (theta - kernelThetaZero) / g.ThetaSigma
		return math.Exp(-dt*dt/2) * math.Sin(g.Freq*phi)
	})
}

func (h SphericalHarmonic) coefficients(_ *Catalog, L int) ([]complex128, error) {
	if h.Ell < 0 || h.Ell >= L || h.M < -h.Ell || h.M > h.Ell {
		return nil, fmt.Errorf("%w: (ℓ=%d, m=%d) outside band-limit %d", ErrInvalidKernelParameters, h.Ell, h.M, L)
	}
	f := make([]complex128, L*L)
	f[sphere.Index(h.Ell, h.M)] = 1
	return f, nil
}

func (s SlepianFunction) coefficients(_ *Catalog, L int) ([]complex128, error) {
	if s.Solver == nil || s.Solver.isMesh() {
		return nil, fmt.Errorf("%w: slepian kernel needs a sphere solver", ErrInvalidKernelParameters)
	}
	if s.Solver.BandLimit() != L {
		return nil, fmt.Errorf("%w: solver band-limit %d, requested %d", ErrInvalidKernelParameters, s.Solver.BandLimit(), L)
	}
	if s.Rank < 0 || s.Rank >= s.Solver.Rank() {
		return nil, fmt.Errorf("%w: rank %d outside [0, %d)", ErrInvalidKernelParameters, s.Rank, s.Solver.Rank())
	}
	p, err := s.Solver.Eigenpairs()
	if err != nil {
		return nil, err
	}
	f := make([]complex128, L*L)
	copy(f, p.Vectors[s.Rank])
	return f, nil
}

func (Earth) coefficients(c *Catalog, L int) ([]complex128, error) {
	ds, err := c.dataset(DatasetEarth)
	if err != nil {
		return nil, err
	}
	if ds.Samples != nil {
		return c.fromSamples(ds, L)
	}
	if len(ds.Coefficients) == 0 {
		return nil, fmt.Errorf("%w: earth dataset has neither samples nor coefficients", ErrInvalidKernelParameters)
	}
	dataL, ok := sphere.BandLimit(len(ds.Coefficients))
	if !ok {
		return nil, fmt.Errorf("%w: earth dataset has %d coefficients", ErrInvalidKernelParameters, len(ds.Coefficients))
	}
	f := make([]complex128, L*L)
	for ell := range min(L, dataL) {
		for m := 0; m <= ell; m++ {
			v := cmplx.Conj(ds.Coefficients[sphere.Index(ell, m)])
			f[sphere.Index(ell, m)] = v
			if m > 0 {
				f[sphere.Index(ell, -m)] = realityPartner(v, m)
			}
		}
	}
	return f, nil
}

func (WMAP) coefficients(c *Catalog, L int) ([]complex128, error) {
	ds, err := c.dataset(DatasetWMAP)
	if err != nil {
		return nil, err
	}
	if ds.Samples != nil {
		return c.fromSamples(ds, L)
	}
	if len(ds.Spectrum) == 0 {
		return nil, fmt.Errorf("%w: wmap dataset has neither samples nor spectrum", ErrInvalidKernelParameters)
	}
	rng := rand.New(rand.NewPCG(wmapSeed, wmapSeed))
	f := make([]complex128, L*L)
	for ell := wmapMinDegree; ell < min(L, len(ds.Spectrum)); ell++ {
		l := float64(ell)
		variance := ds.Spectrum[ell] * twoPi / (l * (l + 1))
		if variance < 0 {
			return nil, fmt.Errorf("%w: negative power %g at ℓ=%d", ErrInvalidKernelParameters, ds.Spectrum[ell], ell)
		}
		f[sphere.Index(ell, 0)] = complex(math.Sqrt(variance)*rng.NormFloat64(), 0)
		sd := math.Sqrt(variance / 2)
		for m := 1; m <= ell; m++ {
			v := complex(sd*rng.NormFloat64(), sd*rng.NormFloat64())
			f[sphere.Index(ell, m)] = v
			f[sphere.Index(ell, -m)] = realityPartner(v, m)
		}
	}
	return f, nil
}

// realityPartner returns f_ℓ,-m = (-1)^m conj(f_ℓm).
func realityPartner(v complex128, m int) complex128 {
	v = cmplx.Conj(v)
	if m%2 != 0 {
		v = -v
	}
	return v
}

// Dataset is an external field consumed by the Earth and WMAP kernels.
// Exactly one representation is used, in this order: Samples on a grid of
// Resolution, Coefficients (Earth), Spectrum (WMAP).
type Dataset struct {
	// Coefficients holds m ≥ 0 harmonic coefficients at the usual index;
	// negative orders are derived from reality.
	Coefficients []complex128

	// Resolution and Samples give the field on the Gauss-Legendre grid.
	Resolution int
	Samples    []complex128

	// Spectrum[ℓ] is the angular power ℓ(ℓ+1)C_ℓ/2π.
	Spectrum []float64
}

// DatasetSource supplies named datasets.
type DatasetSource interface {
	Dataset(name string) (*Dataset, error)
}

// MapSource serves datasets from memory.
type MapSource map[string]*Dataset

// Dataset implements DatasetSource.
func (s MapSource) Dataset(name string) (*Dataset, error) {
	ds, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: dataset %q not available", ErrInvalidKernelParameters, name)
	}
	return ds, nil
}

// Catalog evaluates kernels and memoizes the result per kernel name and
// band-limit. It is safe for concurrent use.
type Catalog struct {
	source DatasetSource

	mu         sync.Mutex
	memo       map[string][]complex128
	transforms map[int]*SphereTransform
}

// NewCatalog returns a catalog reading datasets from source, which may be
// nil when neither Earth nor WMAP is used.
func NewCatalog(source DatasetSource) *Catalog {
	return &Catalog{
		source:     source,
		memo:       make(map[string][]complex128),
		transforms: make(map[int]*SphereTransform),
	}
}

// Coefficients returns the L² harmonic coefficients of k. The caller owns
// the returned slice.
func (c *Catalog) Coefficients(k Kernel, L int) ([]complex128, error) {
	if L <= 0 {
		return nil, fmt.Errorf("%w: band-limit must be positive, got %d", ErrInvalidKernelParameters, L)
	}
	if k == nil {
		return nil, fmt.Errorf("%w: nil kernel", ErrInvalidKernelParameters)
	}
	key := k.Name() + "/L" + strconv.Itoa(L)

	c.mu.Lock()
	f, ok := c.memo[key]
	c.mu.Unlock()
	if !ok {
		var err error
		if f, err = k.coefficients(c, L); err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.memo[key] = f
		c.mu.Unlock()
	}

	out := make([]complex128, len(f))
	copy(out, f)
	return out, nil
}

func (c *Catalog) dataset(name string) (*Dataset, error) {
	if c.source == nil {
		return nil, fmt.Errorf("%w: no dataset source for %q", ErrInvalidKernelParameters, name)
	}
	ds, err := c.source.Dataset(name)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: dataset %q is nil", ErrInvalidKernelParameters, name)
	}
	return ds, nil
}

func (c *Catalog) transform(L int) (*SphereTransform, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.transforms[L]; ok {
		return t, nil
	}
	t, err := NewSphereTransform(L, 0)
	if err != nil {
		return nil, err
	}
	c.transforms[L] = t
	return t, nil
}

// sampled evaluates a real spatial function on the grid of band-limit L
// and analyzes it.
func (c *Catalog) sampled(L int, fn func(theta, phi float64) float64) ([]complex128, error) {
	t, err := c.transform(L)
	if err != nil {
		return nil, err
	}
	field := make([]complex128, t.NumSamples())
	for i := range field {
		field[i] = complex(fn(t.Sample(i)), 0)
	}
	return t.Forward(field)
}

func (c *Catalog) fromSamples(ds *Dataset, L int) ([]complex128, error) {
	t, err := NewSphereTransform(L, ds.Resolution)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset resolution %d for band-limit %d", ErrInvalidKernelParameters, ds.Resolution, L)
	}
	f, err := t.Forward(ds.Samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKernelParameters, err)
	}
	return f, nil
}
