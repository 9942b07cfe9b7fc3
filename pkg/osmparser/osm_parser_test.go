package osmparser

import (
	"testing"

	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWay(id int64, nodeIds []int64, tags ...osm.Tag) *osm.Way {
	nodes := make(osm.WayNodes, 0, len(nodeIds))
	for _, n := range nodeIds {
		nodes = append(nodes, osm.WayNode{ID: osm.NodeID(n)})
	}
	return &osm.Way{ID: osm.WayID(id), Nodes: nodes, Tags: osm.Tags(tags)}
}

func newNode(id int64, lat, lon float64, tags ...osm.Tag) *osm.Node {
	return &osm.Node{ID: osm.NodeID(id), Lat: lat, Lon: lon, Tags: osm.Tags(tags)}
}

func parseObjects(t *testing.T, p *OsmParser, nodes []*osm.Node, ways []*osm.Way) *datastructure.Graph {
	t.Helper()
	for _, w := range ways {
		p.scanWay(w)
	}
	for _, n := range nodes {
		p.addNode(n)
	}
	for _, w := range ways {
		if acceptOsmWay(w) && len(w.Nodes) >= 2 {
			p.processWay(w)
		}
	}
	g, err := p.Build()
	require.NoError(t, err)
	return g
}

func findEdge(g *datastructure.Graph, a, b int64) *datastructure.Edge {
	var found *datastructure.Edge
	g.ForEdges(func(_ datastructure.Index, e *datastructure.Edge) {
		tail := g.GetVertex(e.GetTail()).GetOsmId()
		head := g.GetVertex(e.GetHead()).GetOsmId()
		if (tail == a && head == b) || (tail == b && head == a) {
			found = e
		}
	})
	return found
}

func TestParseSplitsWaysAtJunctions(t *testing.T) {
	nodes := []*osm.Node{
		newNode(1, 0, 0),
		newNode(2, 0, 0.001),
		newNode(3, 0, 0.002),
		newNode(4, 0.001, 0.001),
		newNode(5, 0, 0.003),
	}
	ways := []*osm.Way{
		newWay(100, []int64{1, 2, 3}, osm.Tag{Key: "highway", Value: "primary"}, osm.Tag{Key: "name", Value: "Jalan Affandi"}),
		newWay(200, []int64{2, 4}, osm.Tag{Key: "highway", Value: "residential"},
			osm.Tag{Key: "tunnel", Value: "yes"}, osm.Tag{Key: "motor_vehicle", Value: "no"}),
		newWay(300, []int64{3, 5}, osm.Tag{Key: "highway", Value: "footway"}),
	}

	g := parseObjects(t, NewOSMParser(false, zap.NewNop()), nodes, ways)
	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 3, g.NumberOfEdges())

	e12 := findEdge(g, 1, 2)
	require.NotNil(t, e12)
	assert.Equal(t, "Jalan Affandi", e12.GetName())
	assert.Equal(t, pkg.PRIMARY, e12.GetHighwayType())
	assert.InDelta(t, 111.2, e12.GetLength(), 0.5)
	tt, ok := e12.GetTravelTime()
	require.True(t, ok)
	// 65 km/h
	assert.InDelta(t, e12.GetLength()/(65.0/3.6), tt, 1e-9)

	e24 := findEdge(g, 2, 4)
	require.NotNil(t, e24)
	assert.True(t, e24.IsTunnel())
	assert.False(t, e24.HasTravelTime())
	assert.Equal(t, pkg.RESIDENTIAL, e24.GetHighwayType())

	assert.Nil(t, findEdge(g, 3, 5))
}

func TestParseSplitsAtBarrier(t *testing.T) {
	nodes := []*osm.Node{
		newNode(10, 0, 0),
		newNode(11, 0, 0.001, osm.Tag{Key: "barrier", Value: "gate"}, osm.Tag{Key: "access", Value: "no"}),
		newNode(12, 0, 0.002),
	}
	ways := []*osm.Way{
		newWay(400, []int64{10, 11, 12}, osm.Tag{Key: "highway", Value: "secondary"}),
	}

	g := parseObjects(t, NewOSMParser(false, zap.NewNop()), nodes, ways)
	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 2, g.NumberOfEdges())

	require.NotNil(t, findEdge(g, 10, 11))
	assert.Nil(t, findEdge(g, 11, 12))
	require.NotNil(t, findEdge(g, 13, 12))
}

func TestParseMaxSpeed(t *testing.T) {
	testCases := []struct {
		value string
		want  float64
		ok    bool
	}{
		{"50", 50, true},
		{"60 km/h", 60, true},
		{"30 mph", 30 * 1.60934, true},
		{"10 knots", 18.52, true},
		{"signals", 0, false},
		{"", 0, false},
		{"-5", 0, false},
	}

	for _, tt := range testCases {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := parseMaxSpeed(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestWaySpeed(t *testing.T) {
	assert.Equal(t, 65.0, waySpeed("primary", "80", false))
	assert.InDelta(t, 80*pkg.NERF_MAXSPEED_OSM, waySpeed("primary", "80", true), 1e-9)
	assert.Equal(t, 65.0, waySpeed("primary", "none", true))
	assert.Equal(t, defaultSpeed, waySpeed("bogus", "", true))
}
