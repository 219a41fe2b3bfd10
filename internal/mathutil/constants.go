package mathutil

// Tiling constants
// The Schwartz tiling follows the scale-discretised wavelet construction
// of Wiaux, McEwen, Vandergheynst & Blanc (2008), "Exact reconstruction
// with directional wavelets on the sphere".

const (
	// smoothStepNodes is the Gauss-Legendre order used for the tiling
	// integral. The integrand is C∞ with flat ends, so this resolves Φ
	// to machine precision for every dilation used in practice.
	smoothStepNodes = 128

	// bumpScale maps [1/B, 1] onto the bump support [-1, 1]:
	// u = bumpScale·B/(B-1)·(t - 1/B) - 1
	bumpScale = 2.0

	// halfDivisor halves an angle for the raised cosine.
	halfDivisor = 2.0
)
