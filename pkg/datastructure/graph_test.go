package datastructure

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

// 1 --10--> 2 --20--> 3 (tunnel, no travel time), 2 --5--> 2 (loop)
func buildSmallGraph(t *testing.T) *Graph {
	t.Helper()
	b := NewGraphBuilder()
	b.AddVertex(1, -7.0, 110.0)
	b.AddVertex(2, -7.0, 110.001)
	b.AddVertex(3, -7.0, 110.002)
	b.AddVertex(1, 50, 50)

	b.AddEdge(EdgeSpec{EdgeId: 100, Source: 1, Target: 2, LengthMeters: 10, TravelTimeSeconds: floatPtr(1.5),
		HighwayType: pkg.PRIMARY, Name: "Jalan \"Malioboro\""})
	b.AddEdge(EdgeSpec{EdgeId: 200, Source: 2, Target: 3, LengthMeters: 20, HighwayType: pkg.RESIDENTIAL,
		Tunnel: true, Geometry: orb.LineString{{110.001, -7.0}, {110.0015, -7.0001}, {110.002, -7.0}}})
	b.AddEdge(EdgeSpec{EdgeId: 300, Source: 2, Target: 2, LengthMeters: 5, TravelTimeSeconds: floatPtr(0.5)})

	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestGraphBuilder(t *testing.T) {
	g := buildSmallGraph(t)

	assert.Equal(t, 3, g.NumberOfVertices())
	assert.Equal(t, 3, g.NumberOfEdges())

	u, ok := g.GetVertexIndex(1)
	require.True(t, ok)
	lat, lon := g.GetVertexCoordinates(u)
	assert.Equal(t, -7.0, lat)
	assert.Equal(t, 110.0, lon)

	v, ok := g.GetVertexIndex(2)
	require.True(t, ok)
	// 2->1 backward, 2->3 forward, loop once
	assert.Equal(t, 3, g.GetOutDegree(v))
	assert.Equal(t, 1, g.GetOutDegree(u))

	heads := make([]int64, 0)
	g.ForOutArcs(v, func(arc OutArc, e *Edge) {
		heads = append(heads, g.GetVertex(arc.GetHead()).GetOsmId())
		if e.GetEdgeId() == 100 {
			assert.False(t, arc.IsForward())
			geom := g.ArcGeometry(arc)
			assert.Equal(t, orb.Point{110.001, -7.0}, geom[0])
			assert.Equal(t, orb.Point{110.0, -7.0}, geom[len(geom)-1])
		}
	})
	assert.ElementsMatch(t, []int64{1, 3, 2}, heads)

	_, ok = g.GetVertexIndex(42)
	assert.False(t, ok)

	bb := g.GetBoundingBox()
	assert.True(t, bb.Contains(-7.0, 110.001))
	assert.False(t, bb.Contains(-6.0, 110.001))
}

func TestGraphBuilderRejectsInvalidEdges(t *testing.T) {
	testCases := []struct {
		name  string
		edges []EdgeSpec
	}{
		{
			name:  "unknown vertex",
			edges: []EdgeSpec{{EdgeId: 1, Source: 1, Target: 9, LengthMeters: 1}},
		},
		{
			name: "duplicate edge id",
			edges: []EdgeSpec{
				{EdgeId: 1, Source: 1, Target: 2, LengthMeters: 1},
				{EdgeId: 1, Source: 2, Target: 1, LengthMeters: 1},
			},
		},
		{
			name:  "negative length",
			edges: []EdgeSpec{{EdgeId: 1, Source: 1, Target: 2, LengthMeters: -1}},
		},
		{
			name:  "negative travel time",
			edges: []EdgeSpec{{EdgeId: 1, Source: 1, Target: 2, LengthMeters: 1, TravelTimeSeconds: floatPtr(-2)}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			b := NewGraphBuilder()
			b.AddVertex(1, 0, 0)
			b.AddVertex(2, 0, 0.001)
			for _, e := range tt.edges {
				b.AddEdge(e)
			}
			_, err := b.Build()
			assert.Error(t, err)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	g := buildSmallGraph(t)

	var buf bytes.Buffer
	require.NoError(t, g.Encode(&buf))

	decoded, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.NumberOfVertices(), decoded.NumberOfVertices())
	assert.Equal(t, g.NumberOfEdges(), decoded.NumberOfEdges())

	for i := 0; i < g.NumberOfEdges(); i++ {
		want, got := g.GetEdge(Index(i)), decoded.GetEdge(Index(i))
		assert.Equal(t, want.GetEdgeId(), got.GetEdgeId())
		assert.Equal(t, want.GetLength(), got.GetLength())
		assert.Equal(t, want.HasTravelTime(), got.HasTravelTime())
		assert.Equal(t, want.GetHighwayType(), got.GetHighwayType())
		assert.Equal(t, want.IsTunnel(), got.IsTunnel())
		assert.Equal(t, want.GetName(), got.GetName())
		assert.Equal(t, want.GetGeometry(), got.GetGeometry())
	}
}

func TestWriteReadGraphFile(t *testing.T) {
	g := buildSmallGraph(t)
	filename := filepath.Join(t.TempDir(), "network.graph")

	require.NoError(t, g.WriteGraph(filename))

	decoded, err := ReadGraph(filename)
	require.NoError(t, err)
	assert.Equal(t, 3, decoded.NumberOfEdges())

	e := decoded.GetEdge(1)
	_, ok := e.GetTravelTime()
	assert.False(t, ok)
	assert.True(t, e.IsTunnel())
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("2 1\n1 0 0\n"))
	assert.Error(t, err)
}

func TestMinHeap(t *testing.T) {
	h := NewFourAryHeap[int]()
	nodes := make([]*PriorityQueueNode[int], 0)
	for i, rank := range []float64{5, 3, 9, 1, 7, 4} {
		node := NewPriorityQueueNode(rank, i)
		nodes = append(nodes, node)
		h.Insert(node)
	}

	require.NoError(t, h.DecreaseKey(nodes[2], 0.5))
	assert.Error(t, h.DecreaseKey(nodes[0], 100))

	got := make([]int, 0)
	for !h.IsEmpty() {
		node, err := h.ExtractMin()
		require.NoError(t, err)
		got = append(got, node.GetItem())
	}
	assert.Equal(t, []int{2, 3, 1, 5, 0, 4}, got)

	_, err := h.ExtractMin()
	assert.Error(t, err)
}

func TestKosarajuComponents(t *testing.T) {
	b := NewGraphBuilder()
	for id := int64(1); id <= 6; id++ {
		b.AddVertex(id, -7.0, 110.0+float64(id)*0.001)
	}
	// {1,2,3} and {4,5} are connected pieces, 6 is isolated
	b.AddEdge(EdgeSpec{EdgeId: 1, Source: 1, Target: 2, LengthMeters: 1})
	b.AddEdge(EdgeSpec{EdgeId: 2, Source: 3, Target: 2, LengthMeters: 1})
	b.AddEdge(EdgeSpec{EdgeId: 3, Source: 4, Target: 5, LengthMeters: 1})

	g, err := b.Build()
	require.NoError(t, err)

	idx := func(id int64) Index {
		u, ok := g.GetVertexIndex(id)
		require.True(t, ok)
		return u
	}

	assert.Equal(t, 3, g.NumberOfSCCs())
	assert.Equal(t, 3, g.LargestSCCSize())
	assert.True(t, g.VerticesAreConnected(idx(1), idx(3)))
	assert.True(t, g.VerticesAreConnected(idx(5), idx(4)))
	assert.False(t, g.VerticesAreConnected(idx(1), idx(4)))
	assert.False(t, g.VerticesAreConnected(idx(6), idx(1)))
	assert.True(t, g.VerticesAreConnected(idx(6), idx(6)))
}
