package controllers

import (
	"context"
	"sync"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"github.com/paulmach/orb"
)

type fakeRoutingService struct {
	mu        sync.Mutex
	result    *datastructure.RouteResult
	err       error
	healthErr error

	requests    []routing.RouteRequest
	hadDeadline bool
}

func (f *fakeRoutingService) ComputeRoutes(ctx context.Context, req routing.RouteRequest) (*datastructure.RouteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	_, f.hadDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeRoutingService) Health(ctx context.Context) error {
	return f.healthErr
}

func (f *fakeRoutingService) lastRequest() routing.RouteRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func sampleResult() *datastructure.RouteResult {
	start := datastructure.NewGeoPoint(-6.2000, 106.8000, datastructure.StartLabel)
	end := datastructure.NewGeoPoint(-6.2000, 106.8200, datastructure.EndLabel)
	segments := []datastructure.PathSegment{
		{
			Sequence: 0, PathSequence: 1, Node: 1, Edge: 10,
			StepCost: 1000, CumulativeCost: 0,
			Geometry:     orb.LineString{{106.8000, -6.2000}, {106.8100, -6.2000}},
			RoadName:     "Jalan Sudirman",
			LengthMeters: 1000, RoadCategory: "primary", TravelTimeSeconds: 60,
		},
		{
			Sequence: 1, PathSequence: 2, Node: 2, Edge: 11,
			StepCost: 1000, CumulativeCost: 1000,
			Geometry:     orb.LineString{{106.8100, -6.2000}, {106.8200, -6.2000}},
			RoadName:     "Jalan Thamrin",
			LengthMeters: 1000, RoadCategory: "primary", TravelTimeSeconds: 60,
		},
	}
	variant := &datastructure.RouteVariant{
		Metric:               datastructure.DistanceMetric,
		TotalDistanceMeters:  2000,
		TotalDurationSeconds: 120,
		TotalCost:            2000,
		Legs:                 []datastructure.Leg{{From: start, To: end, Segments: segments}},
		Segments:             segments,
	}
	return &datastructure.RouteResult{
		DistanceVariant: variant,
		Constraints: datastructure.EchoedConstraints{
			Waypoints:  []datastructure.GeoPoint{start, end},
			AvoidZones: []datastructure.AvoidZone{},
		},
	}
}
