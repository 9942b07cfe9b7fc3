package routing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lintang-b-s/wayroute/pkg/constraint"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/paulmach/orb"
)

type legKey struct {
	metric datastructure.CostMetric
	source int64
	target int64
}

type fakeEngine struct {
	vertices map[[2]float64]VertexMatch
	paths    map[legKey][]datastructure.PathSegment
	failures map[datastructure.CostMetric]error
	// metrics whose shortest path calls block until the context is done
	blocking   map[datastructure.CostMetric]bool
	nearestErr error

	shortestPathCalls atomic.Int32
	mu                sync.Mutex
	predicates        map[datastructure.CostMetric]constraint.EdgePredicate
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		vertices:   make(map[[2]float64]VertexMatch),
		paths:      make(map[legKey][]datastructure.PathSegment),
		failures:   make(map[datastructure.CostMetric]error),
		blocking:   make(map[datastructure.CostMetric]bool),
		predicates: make(map[datastructure.CostMetric]constraint.EdgePredicate),
	}
}

func (f *fakeEngine) addVertex(lat, lon float64, id int64) {
	f.vertices[[2]float64{lat, lon}] = VertexMatch{VertexID: id, DistanceMeters: 3}
}

func (f *fakeEngine) addPath(metric datastructure.CostMetric, source, target int64, rows []datastructure.PathSegment) {
	f.paths[legKey{metric, source, target}] = rows
}

func (f *fakeEngine) NearestVertex(ctx context.Context, lat, lon float64) (VertexMatch, bool, error) {
	if f.nearestErr != nil {
		return VertexMatch{}, false, f.nearestErr
	}
	m, ok := f.vertices[[2]float64{lat, lon}]
	return m, ok, nil
}

func (f *fakeEngine) ShortestPath(ctx context.Context, query ShortestPathQuery) ([]datastructure.PathSegment, error) {
	f.shortestPathCalls.Add(1)
	f.mu.Lock()
	f.predicates[query.Metric] = query.Predicate
	f.mu.Unlock()

	if f.blocking[query.Metric] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.failures[query.Metric]; err != nil {
		return nil, err
	}
	return f.paths[legKey{query.Metric, query.Source, query.Target}], nil
}

func (f *fakeEngine) Ping(ctx context.Context) error {
	return nil
}

// legRows builds n segments of equal cost and length starting at node source, with sequences starting at firstSeq.
// a terminal row with edge -1 closes the path when terminal is set.
func legRows(source int64, n int, firstSeq int, stepCost, lengthMeters, travelTime float64, terminal bool) []datastructure.PathSegment {
	rows := make([]datastructure.PathSegment, 0, n+1)
	for i := 0; i < n; i++ {
		lon := float64(source) + float64(i)*0.01
		rows = append(rows, datastructure.PathSegment{
			Sequence:          firstSeq + i,
			PathSequence:      firstSeq + i,
			Node:              source + int64(i),
			Edge:              source*100 + int64(i),
			StepCost:          stepCost,
			CumulativeCost:    float64(i) * stepCost,
			Geometry:          orb.LineString{{lon, 0}, {lon + 0.01, 0}},
			RoadName:          fmt.Sprintf("road %d", source),
			LengthMeters:      lengthMeters,
			RoadCategory:      "primary",
			TravelTimeSeconds: travelTime,
		})
	}
	if terminal {
		rows = append(rows, datastructure.PathSegment{
			Sequence:       firstSeq + n,
			PathSequence:   firstSeq + n,
			Node:           source + int64(n),
			Edge:           -1,
			CumulativeCost: float64(n) * stepCost,
		})
	}
	return rows
}
