package sphere

import "math"

const (
	// fourPi is the area of the unit sphere.
	fourPi = 4 * math.Pi

	// twoPi is the length of the longitude range.
	twoPi = 2 * math.Pi

	// phiSamplesFactor relates grid resolution R to the number of
	// equiangular longitude samples (2R-1).
	phiSamplesFactor = 2
)

// y00 is the constant spherical harmonic Y_00 = 1/√(4π).
var y00 = 1 / math.Sqrt(fourPi)
