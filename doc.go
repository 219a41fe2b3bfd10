// Package slepian computes Slepian functions on the sphere and on
// triangle meshes, and builds scale-discretised wavelets on top of them.
//
// Slepian functions are the band-limited functions that are optimally
// concentrated inside a region. They are the eigenvectors of the region's
// concentration matrix; the eigenvalue of each is the fraction of its
// energy that lies inside the region.
//
// # Features
//
//   - Polar caps, polar gaps, latitude/longitude boxes and arbitrary masks
//   - Block-diagonal solve for axisymmetric caps
//   - Parallel matrix assembly with results independent of worker count
//   - Exact spherical harmonic transforms on a Gauss-Legendre grid
//   - Scale-discretised filter banks with Schwartz or cosine tiling
//   - Harmonic and Slepian wavelet analysis and synthesis
//   - Sifting convolution, rotation and translation of harmonic signals
//   - Noise generation and wavelet hard-threshold denoising
//   - Mesh Slepian functions over a Laplace-Beltrami basis
//   - Optional persisted eigenpair cache (see package cache)
//
// # Quick Start
//
// Slepian functions of a polar cap of 40° at band-limit 32:
//
//	s, err := slepian.New(&slepian.Config{
//	    BandLimit: 32,
//	    Region:    slepian.NewPolarCap(40 * math.Pi / 180),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	basis, err := s.ShannonBasis()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fp, _ := basis.ToSlepian(flm)
//	approx, _ := basis.FromSlepian(fp)
//
// # Coefficient Layout
//
// Harmonic coefficients of band-limit L are stored in a []complex128 of
// length L² at index ℓ² + ℓ + m ([ElmToIndex], [IndexToElm]). Harmonics
// are orthonormal with the Condon-Shortley phase. Real fields satisfy
// f_ℓ,-m = (-1)^m conj(f_ℓm).
//
// # Wavelets
//
// [NewFilterBank] splits the degrees 0..L-1 into a scaling filter and
// wavelet filters whose squared responses sum to one:
//
//	fb, _ := slepian.NewFilterBank(L, 2, 0)
//	w, _ := slepian.AnalyzeHarmonic(flm, fb)
//	back, _ := slepian.SynthesizeHarmonic(w, fb)
//
// Slepian wavelets use a filter bank whose band-limit is the number of
// Slepian functions and act on Slepian coefficients via [AnalyzeSlepian].
//
// # Kernels
//
// [Catalog] evaluates the functions used as signals and convolution
// kernels: [DiracDelta], [Identity], [Gaussian], [ElongatedGaussian],
// [HarmonicGaussian], [SquashedGaussian], [SphericalHarmonic],
// [SlepianFunction], [Earth] and [WMAP]. The last two read external data
// through a [DatasetSource].
//
// # Thread Safety
//
// [Solver], [SphereTransform], [MeshTransform] and [Catalog] are safe for
// concurrent use. Results are computed once and shared; callers must not
// modify slices returned from [Solver.Eigenpairs].
//
// # References
//
// The concentration problem follows Simons, Dahlen and Wieczorek (2006).
// The tiling functions follow the scale-discretised wavelets of Leistedt,
// McEwen, Vandergheynst and Wiaux (2013). Sifting convolution follows
// Roddy and McEwen (2021).
package slepian
