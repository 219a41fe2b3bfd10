package slepian

import "math"

// SolverVersion identifies the numerical layout of cached eigenpair sets.
// Bump it whenever assembly, ordering, or sign conventions change so that
// persisted results from older builds are recomputed.
const SolverVersion = 1

// Quadrature constants
const (
	// capExtraNodes is added to L for the Gauss-Legendre order in cos θ
	// used by axisymmetric caps; L nodes already integrate every block
	// entry exactly.
	capExtraNodes = 1

	// latLonNodesPerBand and latLonExtraNodes set the Gauss-Legendre order
	// per half-interval in θ for caps limited in longitude. The integrand
	// is a trigonometric polynomial of degree < 2L.
	latLonNodesPerBand = 4
	latLonExtraNodes   = 32

	// latLonSplits is the number of equal sub-intervals the θ range is
	// split into for the same quadrature.
	latLonSplits = 2
)

// Numerical constants
const (
	fourPi = 4 * math.Pi
	twoPi  = 2 * math.Pi

	// phiWrapTolerance treats a longitude range this close to 2π as full.
	phiWrapTolerance = 1e-12
)

// Kernel defaults
const (
	// DefaultGaussianSigma is the harmonic width of the Gaussian kernel.
	DefaultGaussianSigma = 10.0

	// DefaultSquashedThetaSigma and DefaultSquashedFreq parameterize the
	// squashed Gaussian kernel.
	DefaultSquashedThetaSigma = 0.01
	DefaultSquashedFreq       = 0.1

	// DefaultElongatedThetaSigma and DefaultElongatedPhiSigma parameterize
	// the elongated Gaussian kernel.
	DefaultElongatedThetaSigma = 0.1
	DefaultElongatedPhiSigma   = 1.0

	// DefaultHarmonicLSigma and DefaultHarmonicMSigma parameterize the
	// harmonic Gaussian kernel.
	DefaultHarmonicLSigma = 10.0
	DefaultHarmonicMSigma = 10.0

	// kernelThetaZero and kernelPhiZero centre the spatial Gaussians.
	kernelThetaZero = 0.0
	kernelPhiZero   = math.Pi

	// wmapSeed fixes the CMB realization so repeated runs agree.
	wmapSeed = 0

	// wmapMinDegree is the first simulated CMB multipole; the monopole
	// and dipole are removed.
	wmapMinDegree = 2
)

// Dataset names understood by DatasetSource implementations.
const (
	DatasetEarth = "earth"
	DatasetWMAP  = "wmap"
)

// Denoising constants
const (
	// decibelFactor converts power ratios to decibels.
	decibelFactor = 10.0

	// DefaultThresholdSigmas is the hard-threshold multiple of the noise
	// standard deviation.
	DefaultThresholdSigmas = 3.0
)
