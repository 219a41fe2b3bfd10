package main

import (
	"flag"
	"fmt"
	"os"

	slepian "github.com/tphakala/go-slepian"
)

const (
	defaultBandLimit = 64  // L
	defaultDilation  = 2.0 // B
	defaultJMin      = 0
	defaultSigma     = 1.0 // pixel noise level for per-scale sigma

	// Display limits
	maxRowsToShow = 24
)

func main() {
	bandLimit := flag.Int("L", defaultBandLimit, "Band-limit")
	dilation := flag.Float64("B", defaultDilation, "Dilation factor")
	jMin := flag.Int("jmin", defaultJMin, "Minimum wavelet scale")
	tilingName := flag.String("tiling", "schwartz", "Tiling: schwartz or cosine")
	sigma := flag.Float64("sigma", defaultSigma, "Noise sigma for per-scale thresholds")
	flag.Parse()

	tiling := slepian.TilingSchwartz
	switch *tilingName {
	case "schwartz":
	case "cosine":
		tiling = slepian.TilingCosine
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown tiling %q\n", *tilingName)
		os.Exit(1)
	}

	fmt.Println("=== Analyzing Filter Bank Partition ===")

	fb, err := slepian.NewFilterBankWithTiling(*bandLimit, *dilation, *jMin, tiling)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Filter bank info:\n")
	fmt.Printf("  BandLimit: %d\n", fb.BandLimit)
	fmt.Printf("  Dilation: %g\n", fb.Dilation)
	fmt.Printf("  Scales: j=%d..%d (%d filters)\n", fb.JMin, fb.JMax, fb.Len())
	fmt.Printf("  Tiling: %s\n\n", fb.Tiling)

	// Response table, one column per filter
	fmt.Printf("%5s", "ℓ")
	fmt.Printf(" %9s", "scaling")
	for j := fb.JMin + 1; j <= fb.JMax; j++ {
		fmt.Printf(" %9s", fmt.Sprintf("j=%d", j))
	}
	fmt.Printf(" %12s\n", "Σk²-1")

	step := max(1, fb.BandLimit/maxRowsToShow)
	for ell := 0; ell < fb.BandLimit; ell += step {
		fmt.Printf("%5d", ell)
		var sum float64
		for _, r := range fb.Responses {
			fmt.Printf(" %9.6f", r[ell])
			sum += r[ell] * r[ell]
		}
		fmt.Printf(" %12.3e\n", sum-1)
	}

	fmt.Printf("\nPartition error: %.3e\n", fb.PartitionError())

	// Support of each wavelet
	fmt.Println("\nSupport per filter:")
	for k, r := range fb.Responses {
		lo, hi := -1, -1
		for ell, v := range r {
			if v == 0 {
				continue
			}
			if lo < 0 {
				lo = ell
			}
			hi = ell
		}
		name := "scaling"
		if k > 0 {
			name = fmt.Sprintf("j=%d", fb.JMin+k)
		}
		if lo < 0 {
			fmt.Printf("  %-8s empty\n", name)
			continue
		}
		fmt.Printf("  %-8s ℓ ∈ [%d, %d]\n", name, lo, hi)
	}

	fmt.Printf("\nPer-scale noise sigma (σ=%g):\n", *sigma)
	for k, s := range slepian.WaveletSigma(fb, *sigma) {
		fmt.Printf("  filter %2d: %.6f\n", k, s)
	}
}
