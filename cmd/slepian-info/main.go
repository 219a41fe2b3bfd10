// Command slepian-info solves a Slepian concentration problem and prints
// its spectrum, Shannon number and the matching Slepian filter bank.
//
// Usage:
//
//	slepian-info -L 32 -theta 40
//	slepian-info -config run.yaml -cache ~/.cache/slepian
//	slepian-info -config mesh.yaml -metrics
//
// Run files are YAML; flags given explicitly override them.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	slepian "github.com/tphakala/go-slepian"
	"github.com/tphakala/go-slepian/cache"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML run file")
	bandLimit := flag.Int("L", defaultBandLimit, "Band-limit")
	theta := flag.Float64("theta", defaultThetaMax, "Polar cap radius in degrees")
	workers := flag.Int("workers", 0, "Assembly workers (0 = GOMAXPROCS)")
	cacheDir := flag.String("cache", "", "Eigenpair cache directory")
	metrics := flag.Bool("metrics", false, "Print cache metrics on exit")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := defaultRunConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadRunConfig(*configPath); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "L":
			cfg.BandLimit = *bandLimit
		case "theta":
			cfg.Region.Type = regionCap
			cfg.Region.ThetaMin = 0
			cfg.Region.ThetaMax = *theta
		case "workers":
			cfg.Workers = *workers
		case "cache":
			cfg.Cache.Path = *cacheDir
		}
	})

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	region, mesh, err := cfg.region()
	if err != nil {
		return err
	}
	solverConfig := &slepian.Config{
		BandLimit: cfg.BandLimit,
		Region:    region,
		Mesh:      mesh,
		Workers:   cfg.Workers,
		Logger:    logger,
	}

	if cfg.Cache.Path != "" || cfg.Cache.InMemory {
		store, err := cache.Open(cache.Config{
			Path:     cfg.Cache.Path,
			InMemory: cfg.Cache.InMemory,
			Logger:   logger.With("component", "badger"),
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Compact(); err != nil {
				logger.Warn("cache compaction failed", "error", err)
			}
			_ = store.Close()
		}()
		solverConfig.Cache = store
	}

	solver, err := slepian.New(solverConfig)
	if err != nil {
		return err
	}
	start := time.Now()
	pairs, err := solver.Eigenpairs()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Region: %s\n", region.Key())
	fmt.Printf("  Band-limit: %d (rank %d)\n", cfg.BandLimit, solver.Rank())
	fmt.Printf("  Trace: %.6f\n", pairs.Trace)
	fmt.Printf("  Shannon number: %d\n", pairs.ShannonNumber())
	fmt.Printf("  Solve time: %v\n", elapsed)
	fmt.Printf("  Eigenvector memory: %.1f KB\n", float64(16*solver.Rank()*solver.Rank())/bytesPerKilobyte)

	fmt.Println("\nEigenvalues:")
	for p := range min(cfg.Show, pairs.Len()) {
		fmt.Printf("  λ[%3d] = %.12f\n", p, pairs.Values[p])
	}

	tiling, _ := parseTiling(cfg.Filter.Tiling)
	fb, err := slepian.NewFilterBankWithTiling(solver.Rank(), cfg.Filter.Dilation, cfg.Filter.JMin, tiling)
	if err != nil {
		return err
	}
	fmt.Printf("\nSlepian filter bank (B=%g, j_min=%d, %s):\n", fb.Dilation, fb.JMin, fb.Tiling)
	fmt.Printf("  Scales: %d (J=%d)\n", fb.Len(), fb.JMax)
	fmt.Printf("  Partition error: %.3e\n", fb.PartitionError())

	if *metrics {
		return printMetrics(prometheus.DefaultGatherer)
	}
	return nil
}

// printMetrics writes the cache counters as name{labels} value lines.
func printMetrics(g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Println("\nMetrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, l := range m.GetLabel() {
				if labels != "" {
					labels += ","
				}
				labels += l.GetName() + "=" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Printf("  %s{%s} %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Printf("  %s{%s} count=%d sum=%g\n", mf.GetName(), labels,
					m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}
