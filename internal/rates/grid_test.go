package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisSteps(t *testing.T) {
	tests := []struct {
		name     string
		r        AxisRange
		expected []int
	}{
		{
			name:     "zero range yields only zero",
			r:        AxisRange{Min: 0, Max: 0},
			expected: []int{0},
		},
		{
			name:     "range starting above zero is prefixed with zero",
			r:        AxisRange{Min: 2, Max: 4},
			expected: []int{0, 2, 3, 4},
		},
		{
			name:     "range starting at zero is not doubled",
			r:        AxisRange{Min: 0, Max: 2},
			expected: []int{0, 1, 2},
		},
		{
			name:     "inverted range degenerates to min",
			r:        AxisRange{Min: 5, Max: 2},
			expected: []int{0, 5},
		},
		{
			name:     "negative bounds are clamped to zero",
			r:        AxisRange{Min: -3, Max: 2},
			expected: []int{0, 1, 2},
		},
		{
			name:     "fully negative range collapses to zero",
			r:        AxisRange{Min: -3, Max: -1},
			expected: []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, axisSteps(tt.r))
		})
	}
}

func TestBuildGridSize(t *testing.T) {
	base := DimensionSet{Length: 20, Width: 15, Height: 10}
	rng := DeviationRange{
		Length: AxisRange{Min: 1, Max: 2}, // {0,1,2}
		Width:  AxisRange{Min: 0, Max: 1}, // {0,1}
		Height: AxisRange{Min: 0, Max: 0}, // {0}
	}

	grid := BuildGrid(base, rng, 0)
	require.Len(t, grid, 6)

	// Length outer, width middle, height inner.
	assert.Equal(t, Deviation{Length: 0, Width: 0, Height: 0}, grid[0].Deviation)
	assert.Equal(t, Deviation{Length: 0, Width: 1, Height: 0}, grid[1].Deviation)
	assert.Equal(t, Deviation{Length: 1, Width: 0, Height: 0}, grid[2].Deviation)
	assert.Equal(t, Deviation{Length: 2, Width: 1, Height: 0}, grid[5].Deviation)
}

func TestBuildGridAppliesDeviationToDimensions(t *testing.T) {
	base := DimensionSet{Length: 20, Width: 15, Height: 10}
	rng := DeviationRange{Length: AxisRange{Min: 3, Max: 3}}

	grid := BuildGrid(base, rng, 0)
	require.Len(t, grid, 2)

	assert.Equal(t, DimensionSet{Length: 20, Width: 15, Height: 10}, grid[0].Dimensions)
	assert.True(t, grid[0].Deviation.IsZero())
	assert.Equal(t, DimensionSet{Length: 23, Width: 15, Height: 10}, grid[1].Dimensions)
}

func TestBuildGridProtectionPadding(t *testing.T) {
	base := DimensionSet{Length: 20, Width: 15, Height: 10}

	grid := BuildGrid(base, DeviationRange{}, 2)
	require.Len(t, grid, 1)

	// Padding inflates every axis but leaves the recorded deviation at zero.
	assert.Equal(t, DimensionSet{Length: 22, Width: 17, Height: 12}, grid[0].Dimensions)
	assert.True(t, grid[0].Deviation.IsZero())
}

func TestBuildGridClampsToMinimumAxis(t *testing.T) {
	base := DimensionSet{Length: 0.5, Width: 0.2, Height: 0.1}

	grid := BuildGrid(base, DeviationRange{}, 0)
	require.Len(t, grid, 1)

	assert.Equal(t, DimensionSet{Length: 1, Width: 1, Height: 1}, grid[0].Dimensions)
}
