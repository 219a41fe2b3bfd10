package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	slepian "github.com/tphakala/go-slepian"
)

// runConfig is the YAML run description.
type runConfig struct {
	BandLimit int          `yaml:"band_limit"`
	Workers   int          `yaml:"workers"`
	Show      int          `yaml:"show"`
	Region    regionConfig `yaml:"region"`
	Filter    filterConfig `yaml:"filter_bank"`
	Cache     cacheConfig  `yaml:"cache"`
}

// regionConfig holds angles in degrees.
type regionConfig struct {
	Type     string     `yaml:"type"`
	ThetaMin float64    `yaml:"theta_min"`
	ThetaMax float64    `yaml:"theta_max"`
	PhiMin   float64    `yaml:"phi_min"`
	PhiMax   float64    `yaml:"phi_max"`
	Gap      bool       `yaml:"gap"`
	Mesh     meshConfig `yaml:"mesh"`
}

type meshConfig struct {
	OFF    string     `yaml:"off"`
	Name   string     `yaml:"name"`
	BoxMin [3]float64 `yaml:"box_min"`
	BoxMax [3]float64 `yaml:"box_max"`
}

type filterConfig struct {
	Dilation float64 `yaml:"dilation"`
	JMin     int     `yaml:"j_min"`
	Tiling   string  `yaml:"tiling"`
}

type cacheConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		BandLimit: defaultBandLimit,
		Show:      defaultShow,
		Region:    regionConfig{Type: regionCap, ThetaMax: defaultThetaMax},
		Filter:    filterConfig{Dilation: defaultDilation, Tiling: "schwartz"},
	}
}

// loadRunConfig overlays a YAML run file on the defaults.
func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open run file: %w", err)
	}
	defer f.Close()
	return decodeRunConfig(f)
}

func decodeRunConfig(r io.Reader) (runConfig, error) {
	cfg := defaultRunConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse run file: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the parts the library does not check itself.
func (c *runConfig) Validate() error {
	if c.Show < 0 {
		return fmt.Errorf("show must be non-negative, got %d", c.Show)
	}
	if _, err := parseTiling(c.Filter.Tiling); err != nil {
		return err
	}
	switch c.Region.Type {
	case regionCap, regionLatLon:
	case regionMesh:
		if c.Region.Mesh.OFF == "" {
			return errors.New("mesh region needs region.mesh.off")
		}
	default:
		return fmt.Errorf("unknown region type %q", c.Region.Type)
	}
	return nil
}

func parseTiling(s string) (slepian.Tiling, error) {
	switch s {
	case "", "schwartz":
		return slepian.TilingSchwartz, nil
	case "cosine":
		return slepian.TilingCosine, nil
	default:
		return 0, fmt.Errorf("unknown tiling %q", s)
	}
}

// region builds the solver region, loading the mesh when needed.
func (c *runConfig) region() (slepian.Region, *slepian.Mesh, error) {
	r := c.Region
	switch r.Type {
	case regionCap:
		return slepian.PolarCap{
			ThetaMin: r.ThetaMin * degreesToRadians,
			ThetaMax: r.ThetaMax * degreesToRadians,
			Gap:      r.Gap,
		}, nil, nil
	case regionLatLon:
		return slepian.NewLimLatLon(
			r.ThetaMin*degreesToRadians, r.ThetaMax*degreesToRadians,
			r.PhiMin*degreesToRadians, r.PhiMax*degreesToRadians,
		), nil, nil
	}

	f, err := os.Open(r.Mesh.OFF)
	if err != nil {
		return nil, nil, fmt.Errorf("open mesh: %w", err)
	}
	defer f.Close()
	m, err := slepian.ReadMeshOFF(f)
	if err != nil {
		return nil, nil, err
	}
	name := r.Mesh.Name
	if name == "" {
		name = "box"
	}
	return slepian.RegionFromBox(m, name, r.Mesh.BoxMin, r.Mesh.BoxMax), m, nil
}
