package sphere

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name       string
		resolution int
	}{
		{"single ring", 1},
		{"small", 4},
		{"medium", 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.resolution)
			require.Len(t, g.Thetas, tt.resolution)
			require.Len(t, g.Phis, 2*tt.resolution-1)
			assert.Equal(t, tt.resolution*(2*tt.resolution-1), g.Len())

			var weightSum, area float64
			for r := range g.Thetas {
				weightSum += g.Weights[r]
				area += g.Area(r) * float64(g.NPhi())
				if r > 0 {
					assert.Greater(t, g.Thetas[r], g.Thetas[r-1])
				}
			}
			assert.InDelta(t, 2, weightSum, 1e-12)
			assert.InDelta(t, 4*math.Pi, area, 1e-11)
		})
	}
}

func TestGridPoint(t *testing.T) {
	g := NewGrid(3)
	theta, phi := g.Point(g.NPhi() + 2)
	assert.Equal(t, g.Thetas[1], theta)
	assert.Equal(t, g.Phis[2], phi)
}
