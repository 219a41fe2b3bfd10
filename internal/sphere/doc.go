// Package sphere implements the harmonic machinery on the unit sphere:
// coefficient indexing, orthonormal associated Legendre functions,
// Gauss-Legendre sampling, forward and inverse spherical harmonic
// transforms, and Wigner rotation matrices.
//
// Coefficient vectors of band-limit L have length L² and store (ℓ, m) at
// position ℓ² + ℓ + m. Spherical harmonics carry the Condon-Shortley phase
// and are orthonormal on the sphere:
//
//	Y_ℓm(θ, φ) = λ_ℓm(θ) e^{imφ},    Y_ℓ,-m = (-1)^m conj(Y_ℓm)
//
// Functions in this package assume their inputs have already been
// validated by the caller; lengths are not re-checked in hot paths.
package sphere
