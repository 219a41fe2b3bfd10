package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slepian "github.com/tphakala/go-slepian"
)

func TestDecodeRunConfig_Defaults(t *testing.T) {
	cfg, err := decodeRunConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, defaultRunConfig(), cfg)
}

func TestDecodeRunConfig_Overrides(t *testing.T) {
	const doc = `
band_limit: 24
show: 3
region:
  type: latlon
  theta_min: 10
  theta_max: 50
  phi_min: 0
  phi_max: 90
filter_bank:
  dilation: 3
  j_min: 1
  tiling: cosine
cache:
  in_memory: true
`
	cfg, err := decodeRunConfig(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.BandLimit)
	assert.Equal(t, 3, cfg.Show)
	assert.Equal(t, regionLatLon, cfg.Region.Type)
	assert.InDelta(t, 3.0, cfg.Filter.Dilation, 0)
	assert.True(t, cfg.Cache.InMemory)

	region, mesh, err := cfg.region()
	require.NoError(t, err)
	assert.Nil(t, mesh)
	c, ok := region.(slepian.PolarCap)
	require.True(t, ok)
	assert.InDelta(t, 50*degreesToRadians, c.ThetaMax, 1e-15)
	assert.InDelta(t, 90*degreesToRadians, c.PhiMax, 1e-15)
	assert.False(t, c.Axisymmetric())
}

func TestDecodeRunConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "band_limt: 4\n"},
		{"unknown region", "region:\n  type: blob\n"},
		{"unknown tiling", "filter_bank:\n  tiling: box\n"},
		{"mesh without file", "region:\n  type: mesh\n"},
		{"negative show", "show: -1\n"},
		{"not yaml", "band_limit: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRunConfig(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestRunConfig_MeshRegion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.off")
	const off = "OFF\n4 2 0\n0 0 0\n1 0 0\n1 1 0\n0 1 0\n3 0 1 2\n3 0 2 3\n"
	require.NoError(t, os.WriteFile(path, []byte(off), 0o600))

	cfg := defaultRunConfig()
	cfg.Region = regionConfig{
		Type: regionMesh,
		Mesh: meshConfig{OFF: path, BoxMin: [3]float64{0, 0, -1}, BoxMax: [3]float64{0.5, 1, 1}},
	}
	require.NoError(t, cfg.Validate())

	region, mesh, err := cfg.region()
	require.NoError(t, err)
	require.NotNil(t, mesh)
	r, ok := region.(slepian.MeshRegion)
	require.True(t, ok)
	assert.Equal(t, "box", r.Name)
	assert.Equal(t, []int{0, 3}, r.Vertices)
}

func TestLoadRunConfig_MissingFile(t *testing.T) {
	_, err := loadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
