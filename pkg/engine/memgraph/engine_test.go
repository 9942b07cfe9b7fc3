package memgraph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/lintang-b-s/wayroute/pkg/constraint"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func floatPtr(f float64) *float64 {
	return &f
}

// triangle 1-2-3: a motorway shortcut 1-2 and a primary detour 1-3-2.
// line 10-11-12-13 where 11-12 is the only bridge and 12-13 has no travel time.
func buildTestNetwork(t *testing.T) *datastructure.Graph {
	t.Helper()
	b := datastructure.NewGraphBuilder()
	b.AddVertex(1, -7.80, 110.360)
	b.AddVertex(2, -7.80, 110.370)
	b.AddVertex(3, -7.79, 110.365)

	b.AddVertex(10, -7.70, 110.30)
	b.AddVertex(11, -7.70, 110.31)
	b.AddVertex(12, -7.70, 110.32)
	b.AddVertex(13, -7.70, 110.33)

	b.AddEdge(datastructure.EdgeSpec{EdgeId: 1, Source: 1, Target: 2, LengthMeters: 1100, TravelTimeSeconds: floatPtr(40),
		HighwayType: pkg.MOTORWAY, Name: "Tol"})
	b.AddEdge(datastructure.EdgeSpec{EdgeId: 2, Source: 1, Target: 3, LengthMeters: 800, TravelTimeSeconds: floatPtr(60),
		HighwayType: pkg.PRIMARY, Name: "Jalan Kaliurang"})
	b.AddEdge(datastructure.EdgeSpec{EdgeId: 3, Source: 3, Target: 2, LengthMeters: 800, TravelTimeSeconds: floatPtr(60),
		HighwayType: pkg.PRIMARY, Name: "Jalan Magelang"})

	b.AddEdge(datastructure.EdgeSpec{EdgeId: 10, Source: 10, Target: 11, LengthMeters: 1100, TravelTimeSeconds: floatPtr(70),
		HighwayType: pkg.SECONDARY})
	b.AddEdge(datastructure.EdgeSpec{EdgeId: 11, Source: 11, Target: 12, LengthMeters: 1100, TravelTimeSeconds: floatPtr(70),
		HighwayType: pkg.SECONDARY, Bridge: true, Name: "Jembatan Progo"})
	b.AddEdge(datastructure.EdgeSpec{EdgeId: 12, Source: 12, Target: 13, LengthMeters: 1100,
		HighwayType: pkg.SECONDARY})

	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func newTestEngine(t *testing.T) *Engine {
	return New(buildTestNetwork(t), 1.0, zap.NewNop())
}

func TestNearestVertex(t *testing.T) {
	e := newTestEngine(t)

	match, found, err := e.NearestVertex(context.Background(), -7.8003, 110.3602)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), match.VertexID)
	assert.Less(t, match.DistanceMeters, 50.0)

	// ~600 m from vertex 3, outside the first search radii
	match, found, err = e.NearestVertex(context.Background(), -7.7846, 110.365)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(3), match.VertexID)

	_, found, err = e.NearestVertex(context.Background(), -6.0, 106.8)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNearestVertexAcrossAntimeridian(t *testing.T) {
	b := datastructure.NewGraphBuilder()
	b.AddVertex(1, -17.0, 179.9995)
	b.AddVertex(2, -17.0, -179.999)
	b.AddEdge(datastructure.EdgeSpec{EdgeId: 1, Source: 1, Target: 2, LengthMeters: 160, TravelTimeSeconds: floatPtr(12),
		HighwayType: pkg.RESIDENTIAL})
	g, err := b.Build()
	require.NoError(t, err)
	e := New(g, 1.0, zap.NewNop())

	testCases := []struct {
		name string
		lat  float64
		lon  float64
		want int64
	}{
		{"east of the line", -17.0, 179.9999, 1},
		{"west of the line", -17.0, -179.9999, 2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			match, found, err := e.NearestVertex(context.Background(), tt.lat, tt.lon)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, tt.want, match.VertexID)
			assert.Less(t, match.DistanceMeters, 100.0)
		})
	}
}

func TestShortestPathRows(t *testing.T) {
	e := newTestEngine(t)

	rows, err := e.ShortestPath(context.Background(), routing.ShortestPathQuery{
		Source: 2, Target: 1, Metric: datastructure.DistanceMetric, Directed: true,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Sequence)
	assert.Equal(t, int64(2), rows[0].Node)
	assert.Equal(t, int64(1), rows[0].Edge)
	assert.Equal(t, 1100.0, rows[0].StepCost)
	assert.Equal(t, 0.0, rows[0].CumulativeCost)
	assert.Equal(t, "motorway", rows[0].RoadCategory)
	assert.Equal(t, "Tol", rows[0].RoadName)
	assert.Equal(t, 40.0, rows[0].TravelTimeSeconds)
	// traversed against the digitizing direction
	assert.Equal(t, 110.370, rows[0].Geometry[0].Lon())

	assert.Equal(t, int64(-1), rows[1].Edge)
	assert.Equal(t, int64(1), rows[1].Node)
	assert.Equal(t, 1100.0, rows[1].CumulativeCost)
}

func TestShortestPathConstraintsNeverLowerCost(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	pathCost := func(rows []datastructure.PathSegment) float64 {
		last := rows[len(rows)-1]
		return last.CumulativeCost + last.StepCost
	}

	base, err := e.ShortestPath(ctx, routing.ShortestPathQuery{Source: 1, Target: 2, Metric: datastructure.DistanceMetric})
	require.NoError(t, err)

	avoid, err := e.ShortestPath(ctx, routing.ShortestPathQuery{
		Source: 1, Target: 2, Metric: datastructure.DistanceMetric,
		Predicate: constraint.Compile(constraint.Options{AvoidMotorways: true}),
	})
	require.NoError(t, err)
	require.Len(t, avoid, 3)

	assert.Equal(t, 1100.0, pathCost(base))
	assert.Equal(t, 1600.0, pathCost(avoid))
	assert.GreaterOrEqual(t, pathCost(avoid), pathCost(base))
	assert.Equal(t, []int64{2, 3, -1}, []int64{avoid[0].Edge, avoid[1].Edge, avoid[2].Edge})
}

func TestShortestPathUnreachableAndSameVertex(t *testing.T) {
	e := newTestEngine(t)

	rows, err := e.ShortestPath(context.Background(), routing.ShortestPathQuery{Source: 1, Target: 13})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = e.ShortestPath(context.Background(), routing.ShortestPathQuery{Source: 3, Target: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(-1), rows[0].Edge)

	_, err = e.ShortestPath(context.Background(), routing.ShortestPathQuery{Source: 99, Target: 1})
	assert.True(t, errors.Is(err, ErrUnknownVertex))
}

func TestShortestPathCancelled(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ShortestPath(ctx, routing.ShortestPathQuery{Source: 1, Target: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func newComposer(e *Engine) *routing.Composer {
	return routing.NewComposer(e, routing.ComposerConfig{CallTimeout: time.Second}, zap.NewNop())
}

func TestComposeAvoidZoneOnOnlyBridge(t *testing.T) {
	e := newTestEngine(t)

	req := routing.RouteRequest{
		Points: []datastructure.GeoPoint{{Lat: -7.70, Lon: 110.30}, {Lat: -7.70, Lon: 110.33}},
		AvoidZones: []datastructure.AvoidZone{
			{CenterLat: -7.70, CenterLon: 110.315, RadiusMeters: 100},
		},
	}
	_, err := newComposer(e).Compose(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, routing.ErrNoRouteFound))
}

func TestComposeTimeMetricNeedsTravelTime(t *testing.T) {
	e := newTestEngine(t)

	req := routing.RouteRequest{
		Points: []datastructure.GeoPoint{{Lat: -7.70, Lon: 110.30}, {Lat: -7.70, Lon: 110.33}},
	}
	result, err := newComposer(e).Compose(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, result.DistanceVariant)
	assert.Nil(t, result.TimeVariant)
	assert.Equal(t, 3300.0, result.DistanceVariant.TotalDistanceMeters)
	assert.Equal(t, 3300.0, result.DistanceVariant.TotalCost)
	assert.Equal(t, []int{1, 2, 3}, []int{
		result.DistanceVariant.Segments[0].Sequence,
		result.DistanceVariant.Segments[1].Sequence,
		result.DistanceVariant.Segments[2].Sequence,
	})
}

func TestComposeMultiLeg(t *testing.T) {
	e := newTestEngine(t)

	req := routing.RouteRequest{
		Points: []datastructure.GeoPoint{
			{Lat: -7.80, Lon: 110.360},
			{Lat: -7.79, Lon: 110.365},
			{Lat: -7.80, Lon: 110.370},
			{Lat: -7.80, Lon: 110.360},
		},
	}
	result, err := newComposer(e).Compose(context.Background(), req)
	require.NoError(t, err)

	dv := result.DistanceVariant
	require.NotNil(t, dv)
	assert.Len(t, dv.Legs, 3)
	// 1-3, 3-2, then the motorway back to 1
	assert.Equal(t, 2700.0, dv.TotalCost)
	for i := 1; i < len(dv.Segments); i++ {
		assert.Equal(t, dv.Segments[i-1].Sequence+1, dv.Segments[i].Sequence)
		assert.GreaterOrEqual(t, dv.Segments[i].CumulativeCost, dv.Segments[i-1].CumulativeCost)
	}

	tv := result.TimeVariant
	require.NotNil(t, tv)
	// 1-3 and 3-2 are forced by the waypoints, the way back takes the motorway
	assert.Equal(t, 160.0, tv.TotalCost)
}

func TestPing(t *testing.T) {
	assert.NoError(t, newTestEngine(t).Ping(context.Background()))
}
