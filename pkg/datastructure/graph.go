package datastructure

import (
	"fmt"
	"math"
	"sort"

	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/lintang-b-s/wayroute/pkg/util"
	"github.com/paulmach/orb"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
	INVALID_EDGE_ID   Index = math.MaxUint32
)

type Vertex struct {
	lat      float64
	lon      float64
	osmId    int64 // vertex id exposed to clients
	firstOut Index // index of the first outArc of this vertex in the flattened graph.outArcs array
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmId() int64 {
	return v.osmId
}

// Edge is one road segment between two junctions.
type Edge struct {
	edgeId        int64
	tail          Index
	head          Index
	length        float64 // meter
	travelTime    float64 // second
	hasTravelTime bool
	hwType        pkg.OsmHighwayType
	tunnel        bool
	bridge        bool
	name          string
	geometry      orb.LineString // from tail to head
}

func (e *Edge) GetEdgeId() int64 {
	return e.edgeId
}

func (e *Edge) GetTail() Index {
	return e.tail
}

func (e *Edge) GetHead() Index {
	return e.head
}

func (e *Edge) GetLength() float64 {
	return e.length
}

// GetTravelTime returns the travel time in seconds, false when the edge carries no travel time.
func (e *Edge) GetTravelTime() (float64, bool) {
	return e.travelTime, e.hasTravelTime
}

func (e *Edge) HasTravelTime() bool {
	return e.hasTravelTime
}

func (e *Edge) GetHighwayType() pkg.OsmHighwayType {
	return e.hwType
}

func (e *Edge) IsTunnel() bool {
	return e.tunnel
}

func (e *Edge) IsBridge() bool {
	return e.bridge
}

func (e *Edge) GetName() string {
	return e.name
}

func (e *Edge) GetGeometry() orb.LineString {
	return e.geometry
}

// OutArc is one traversal direction of an edge. every edge is traversable in both directions with the same weight.
type OutArc struct {
	edge    Index
	head    Index
	forward bool
}

func (a OutArc) GetEdge() Index {
	return a.edge
}

func (a OutArc) GetHead() Index {
	return a.head
}

func (a OutArc) IsForward() bool {
	return a.forward
}

// Graph is an immutable road network stored as a compressed sparse row of out arcs.
type Graph struct {
	vertices    []Vertex
	edges       []Edge
	outArcs     []OutArc
	vertexIndex map[int64]Index
	boundingBox *BoundingBox

	sccs    []Index
	numSCCs int
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices) - 1
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return &g.vertices[u]
}

func (g *Graph) GetVertexCoordinates(u Index) (float64, float64) {
	return g.vertices[u].lat, g.vertices[u].lon
}

// GetVertexIndex maps a client vertex id to its internal index.
func (g *Graph) GetVertexIndex(osmId int64) (Index, bool) {
	u, ok := g.vertexIndex[osmId]
	return u, ok
}

func (g *Graph) GetEdge(e Index) *Edge {
	return &g.edges[e]
}

func (g *Graph) GetBoundingBox() *BoundingBox {
	return g.boundingBox
}

func (g *Graph) GetOutDegree(u Index) int {
	return int(g.vertices[u+1].firstOut - g.vertices[u].firstOut)
}

func (g *Graph) ForOutArcs(u Index, handle func(arc OutArc, e *Edge)) {
	for i := g.vertices[u].firstOut; i < g.vertices[u+1].firstOut; i++ {
		arc := g.outArcs[i]
		handle(arc, &g.edges[arc.edge])
	}
}

func (g *Graph) ForVertices(handle func(u Index, v *Vertex)) {
	for u := 0; u < len(g.vertices)-1; u++ {
		handle(Index(u), &g.vertices[u])
	}
}

func (g *Graph) ForEdges(handle func(e Index, edge *Edge)) {
	for i := range g.edges {
		handle(Index(i), &g.edges[i])
	}
}

// ArcGeometry returns the edge geometry oriented in the traversal direction of arc.
func (g *Graph) ArcGeometry(arc OutArc) orb.LineString {
	geom := g.edges[arc.edge].geometry
	if arc.forward {
		return geom
	}
	return orb.LineString(util.ReverseG(geom))
}

type EdgeSpec struct {
	EdgeId            int64
	Source            int64
	Target            int64
	LengthMeters      float64
	TravelTimeSeconds *float64
	HighwayType       pkg.OsmHighwayType
	Tunnel            bool
	Bridge            bool
	Name              string
	Geometry          orb.LineString
}

// GraphBuilder collects vertices and edges keyed by client ids and freezes them into a Graph.
type GraphBuilder struct {
	vertices    []Vertex
	vertexIndex map[int64]Index
	edges       []EdgeSpec
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		vertices:    make([]Vertex, 0),
		vertexIndex: make(map[int64]Index),
		edges:       make([]EdgeSpec, 0),
	}
}

// AddVertex registers a vertex. re-adding an id keeps the first coordinates.
func (b *GraphBuilder) AddVertex(osmId int64, lat, lon float64) {
	if _, ok := b.vertexIndex[osmId]; ok {
		return
	}
	b.vertexIndex[osmId] = Index(len(b.vertices))
	b.vertices = append(b.vertices, Vertex{lat: lat, lon: lon, osmId: osmId})
}

func (b *GraphBuilder) AddEdge(spec EdgeSpec) {
	b.edges = append(b.edges, spec)
}

func (b *GraphBuilder) Build() (*Graph, error) {
	edges := make([]Edge, len(b.edges))
	seenEdgeIds := make(map[int64]struct{}, len(b.edges))
	for i, spec := range b.edges {
		tail, ok := b.vertexIndex[spec.Source]
		if !ok {
			return nil, fmt.Errorf("edge %d: unknown source vertex %d", spec.EdgeId, spec.Source)
		}
		head, ok := b.vertexIndex[spec.Target]
		if !ok {
			return nil, fmt.Errorf("edge %d: unknown target vertex %d", spec.EdgeId, spec.Target)
		}
		if _, dup := seenEdgeIds[spec.EdgeId]; dup {
			return nil, fmt.Errorf("duplicate edge id %d", spec.EdgeId)
		}
		seenEdgeIds[spec.EdgeId] = struct{}{}
		if spec.LengthMeters < 0 || (spec.TravelTimeSeconds != nil && *spec.TravelTimeSeconds < 0) {
			return nil, fmt.Errorf("edge %d: negative weight", spec.EdgeId)
		}

		geometry := spec.Geometry
		if len(geometry) == 0 {
			geometry = orb.LineString{
				{b.vertices[tail].lon, b.vertices[tail].lat},
				{b.vertices[head].lon, b.vertices[head].lat},
			}
		}

		edges[i] = Edge{
			edgeId:   spec.EdgeId,
			tail:     tail,
			head:     head,
			length:   spec.LengthMeters,
			hwType:   spec.HighwayType,
			tunnel:   spec.Tunnel,
			bridge:   spec.Bridge,
			name:     spec.Name,
			geometry: geometry,
		}
		if spec.TravelTimeSeconds != nil {
			edges[i].travelTime = *spec.TravelTimeSeconds
			edges[i].hasTravelTime = true
		}
	}

	type tailArc struct {
		tail Index
		arc  OutArc
	}
	arcs := make([]tailArc, 0, 2*len(edges))
	for i, e := range edges {
		arcs = append(arcs, tailArc{e.tail, OutArc{edge: Index(i), head: e.head, forward: true}})
		if e.tail != e.head {
			arcs = append(arcs, tailArc{e.head, OutArc{edge: Index(i), head: e.tail, forward: false}})
		}
	}
	sort.SliceStable(arcs, func(i, j int) bool {
		return arcs[i].tail < arcs[j].tail
	})

	// one sentinel vertex so that firstOut of u+1 bounds the arcs of u
	vertices := make([]Vertex, len(b.vertices)+1)
	copy(vertices, b.vertices)
	outArcs := make([]OutArc, len(arcs))
	cur := 0
	for u := 0; u < len(vertices); u++ {
		vertices[u].firstOut = Index(cur)
		for cur < len(arcs) && int(arcs[cur].tail) == u {
			outArcs[cur] = arcs[cur].arc
			cur++
		}
	}

	vertexIndex := make(map[int64]Index, len(b.vertexIndex))
	for k, v := range b.vertexIndex {
		vertexIndex[k] = v
	}

	g := &Graph{
		vertices:    vertices,
		edges:       edges,
		outArcs:     outArcs,
		vertexIndex: vertexIndex,
		boundingBox: computeBoundingBox(b.vertices),
	}
	g.runKosaraju()
	return g, nil
}

func computeBoundingBox(vertices []Vertex) *BoundingBox {
	if len(vertices) == 0 {
		return NewBoundingBox(0, 0, 0, 0)
	}
	minLat, minLon := math.Inf(1), math.Inf(1)
	maxLat, maxLon := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		minLat = math.Min(minLat, v.lat)
		minLon = math.Min(minLon, v.lon)
		maxLat = math.Max(maxLat, v.lat)
		maxLon = math.Max(maxLon, v.lon)
	}
	return NewBoundingBox(minLat, minLon, maxLat, maxLon)
}
