package routing

import (
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
)

// Stitch joins per leg segments into one route. Stitched sequence and cumulative cost continue across leg boundaries:
// each leg is shifted by the segment count and the end cost of the legs before it.
// It returns false when any leg is empty.
func Stitch(metric datastructure.CostMetric, legs []datastructure.Leg) (*datastructure.RouteVariant, bool) {
	variant := &datastructure.RouteVariant{
		Metric:   metric,
		Legs:     make([]datastructure.Leg, 0, len(legs)),
		Segments: make([]datastructure.PathSegment, 0),
	}

	var (
		costOffset     float64
		sequenceOffset int
	)
	for _, leg := range legs {
		if len(leg.Segments) == 0 {
			return nil, false
		}

		for _, seg := range leg.Segments {
			stitched := seg
			stitched.Sequence = sequenceOffset + seg.Sequence
			stitched.CumulativeCost = costOffset + seg.CumulativeCost
			variant.Segments = append(variant.Segments, stitched)

			variant.TotalDistanceMeters += seg.LengthMeters
			variant.TotalDurationSeconds += seg.TravelTimeSeconds
		}

		costOffset += leg.Segments[len(leg.Segments)-1].EndCost()
		sequenceOffset += len(leg.Segments)
		variant.Legs = append(variant.Legs, leg)
	}

	variant.TotalCost = costOffset
	return variant, true
}
