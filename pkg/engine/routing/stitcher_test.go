package routing

import (
	"testing"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStitchContinuity(t *testing.T) {
	legs := []datastructure.Leg{
		{Segments: legRows(1, 2, 1, 3, 30, 2, false)},
		{Segments: legRows(5, 1, 1, 10, 100, 4, false)},
		{Segments: legRows(9, 3, 1, 0.5, 5, 1, false)},
	}

	variant, ok := Stitch(datastructure.TimeMetric, legs)
	require.True(t, ok)
	require.Len(t, variant.Segments, 6)

	for i := 1; i < len(variant.Segments); i++ {
		prev, cur := variant.Segments[i-1], variant.Segments[i]
		assert.Equal(t, prev.Sequence+1, cur.Sequence)
		assert.GreaterOrEqual(t, cur.CumulativeCost, prev.CumulativeCost)
		// cost continues exactly across boundaries
		assert.InDelta(t, prev.EndCost(), cur.CumulativeCost, 1e-9)
	}

	assert.InDelta(t, 6+10+1.5, variant.TotalCost, 1e-9)
	assert.InDelta(t, 60+100+15, variant.TotalDistanceMeters, 1e-9)
	assert.InDelta(t, 4+4+3, variant.TotalDurationSeconds, 1e-9)
	assert.Len(t, variant.Legs, 3)
	// per leg breakdown keeps the engine's own numbering
	assert.Equal(t, 1, variant.Legs[1].Segments[0].Sequence)
}

func TestStitchEmptyLeg(t *testing.T) {
	legs := []datastructure.Leg{
		{Segments: legRows(1, 2, 1, 3, 30, 2, false)},
		{Segments: nil},
	}
	_, ok := Stitch(datastructure.DistanceMetric, legs)
	assert.False(t, ok)
}

func TestStitchGeometry(t *testing.T) {
	legs := []datastructure.Leg{
		{Segments: legRows(1, 2, 1, 1, 1, 1, false)},
	}
	variant, ok := Stitch(datastructure.DistanceMetric, legs)
	require.True(t, ok)
	// two segments sharing one joint
	assert.Len(t, variant.Geometry(), 3)
}
