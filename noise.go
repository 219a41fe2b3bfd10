package slepian

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/tphakala/go-slepian/internal/sphere"
)

// SignalPower returns the mean squared magnitude of the coefficients.
func SignalPower(f []complex128) float64 {
	if len(f) == 0 {
		return 0
	}
	var sum float64
	for _, v := range f {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum / float64(len(f))
}

// NoiseSigma returns the noise amplitude that puts signal at snrDB.
func NoiseSigma(signal []complex128, snrDB float64) float64 {
	return math.Sqrt(math.Pow(10, -snrDB/decibelFactor) * SignalPower(signal))
}

// SNR returns 10 log10(P_signal / P_noise) in decibels.
func SNR(signal, noise []complex128) (float64, error) {
	if len(signal) != len(noise) {
		return 0, fmt.Errorf("%w: signal has %d coefficients, noise %d", ErrDimensionMismatch, len(signal), len(noise))
	}
	return decibelFactor * math.Log10(SignalPower(signal)/SignalPower(noise)), nil
}

// CreateNoise returns uniform white noise of a real field scaled so that
// signal sits at snrDB. Each real and imaginary part is drawn from
// [-σ, σ) with σ = NoiseSigma(signal, snrDB); the same seed always yields
// the same noise.
func CreateNoise(signal []complex128, snrDB float64, seed uint64) ([]complex128, error) {
	L, err := bandLimitOf(signal)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(snrDB) || math.IsInf(snrDB, 0) {
		return nil, fmt.Errorf("%w: SNR %g dB", ErrInvalidConfig, snrDB)
	}
	sigma := NoiseSigma(signal, snrDB)
	rng := rand.New(rand.NewPCG(seed, seed))
	uniform := func() float64 { return sigma * (2*rng.Float64() - 1) }

	n := make([]complex128, len(signal))
	for ell := range L {
		n[sphere.Index(ell, 0)] = complex(uniform(), 0)
		for m := 1; m <= ell; m++ {
			v := complex(uniform(), uniform())
			n[sphere.Index(ell, m)] = v
			n[sphere.Index(ell, -m)] = realityPartner(v, m)
		}
	}
	return n, nil
}

// RandomSignal returns the coefficients of a random real field with
// normally distributed parts of standard deviation sigma.
func RandomSignal(L int, sigma float64, seed uint64) ([]complex128, error) {
	if L <= 0 {
		return nil, fmt.Errorf("%w: band-limit must be positive, got %d", ErrInvalidConfig, L)
	}
	if !(sigma >= 0) {
		return nil, fmt.Errorf("%w: standard deviation %g", ErrInvalidConfig, sigma)
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	f := make([]complex128, L*L)
	for ell := range L {
		f[sphere.Index(ell, 0)] = complex(sigma*rng.NormFloat64(), 0)
		for m := 1; m <= ell; m++ {
			v := complex(sigma*rng.NormFloat64(), sigma*rng.NormFloat64())
			f[sphere.Index(ell, m)] = v
			f[sphere.Index(ell, -m)] = realityPartner(v, m)
		}
	}
	return f, nil
}

// Smooth applies Gaussian smoothing of width σ = π/(factor·L), scaling
// each degree by exp(-ℓ(ℓ+1)σ²/2).
func Smooth(f []complex128, factor float64) ([]complex128, error) {
	L, err := bandLimitOf(f)
	if err != nil {
		return nil, err
	}
	if !(factor > 0) {
		return nil, fmt.Errorf("%w: smoothing factor must be positive, got %g", ErrInvalidConfig, factor)
	}
	sigma := math.Pi / (factor * float64(L))
	out := make([]complex128, len(f))
	for i, v := range f {
		ell, _ := sphere.Elm(i)
		l := float64(ell)
		out[i] = v * complex(math.Exp(-l*(l+1)*sigma*sigma/2), 0)
	}
	return out, nil
}

// WaveletSigma returns the pixel-space noise level of each harmonic
// filter for white noise of amplitude sigma:
//
//	σ_j = σ √(Σ_ℓ (2ℓ+1)/(4π) k_j(ℓ)²)
func WaveletSigma(fb *FilterBank, sigma float64) []float64 {
	out := make([]float64, fb.Len())
	for j, r := range fb.Responses {
		var sum float64
		for ell, k := range r {
			sum += float64(2*ell+1) / fourPi * k * k
		}
		out[j] = sigma * math.Sqrt(sum)
	}
	return out
}

// DenoiseHarmonic hard-thresholds the wavelet scales of a noised signal
// in pixel space: samples of scale j below nSigma·σ_j are zeroed. The
// scaling coefficients pass through untouched. t must share the filter
// bank's band-limit.
func DenoiseHarmonic(noised []complex128, fb *FilterBank, t *SphereTransform, sigma, nSigma float64) ([]complex128, error) {
	if t.BandLimit() != fb.BandLimit {
		return nil, fmt.Errorf("%w: transform band-limit %d, filter bank %d", ErrDimensionMismatch, t.BandLimit(), fb.BandLimit)
	}
	w, err := AnalyzeHarmonic(noised, fb)
	if err != nil {
		return nil, err
	}
	sigmas := WaveletSigma(fb, sigma)
	for j := 1; j < len(w); j++ {
		samples, err := t.Inverse(w[j])
		if err != nil {
			return nil, err
		}
		threshold := nSigma * sigmas[j]
		for i, v := range samples {
			if cmplx.Abs(v) < threshold {
				samples[i] = 0
			}
		}
		if w[j], err = t.Forward(samples); err != nil {
			return nil, err
		}
	}
	return SynthesizeHarmonic(w, fb)
}

// DenoiseSlepian hard-thresholds Slepian wavelet coefficients: w_j,p is
// zeroed when |w_j,p| < nSigma·σ·k_j(p). The scaling coefficients pass
// through untouched.
func DenoiseSlepian(noised []complex128, fb *FilterBank, sigma, nSigma float64) ([]complex128, error) {
	w, err := AnalyzeSlepian(noised, fb)
	if err != nil {
		return nil, err
	}
	for j := 1; j < len(w); j++ {
		r := fb.Responses[j]
		for p, v := range w[j] {
			if cmplx.Abs(v) < nSigma*sigma*r[p] {
				w[j][p] = 0
			}
		}
	}
	return SynthesizeSlepian(w, fb)
}
