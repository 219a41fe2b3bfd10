package slepian

import "errors"

// Error definitions. All failures wrap one of these with fmt.Errorf("%w: ...")
// so callers can branch with errors.Is. No operation retries or returns
// partial results.
var (
	// ErrInvalidConfig reports an unusable solver configuration
	// (band-limit, worker count, missing mesh).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidRegion reports malformed region parameters or an empty
	// region.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrInvalidTruncation reports a Slepian truncation outside [1, rank].
	ErrInvalidTruncation = errors.New("invalid truncation")

	// ErrInvalidFilterParameters reports an unusable filter bank
	// (band-limit, dilation, j_min).
	ErrInvalidFilterParameters = errors.New("invalid filter parameters")

	// ErrInvalidKernelParameters reports kernel parameters outside their
	// domain or an unavailable dataset.
	ErrInvalidKernelParameters = errors.New("invalid kernel parameters")

	// ErrDimensionMismatch reports vectors whose lengths are inconsistent
	// with the band-limit, basis, or filter bank they are used with.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEigendecomposition reports a dense eigensolver failure.
	ErrEigendecomposition = errors.New("eigendecomposition failed")
)
