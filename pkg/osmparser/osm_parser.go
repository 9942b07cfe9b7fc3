package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/lintang-b-s/wayroute/pkg/costfunction"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]NodeCoord
	barrierNodes    map[int64]bool
	maxNodeID       int64
	edgeSet         map[[2]int64]struct{}
	builder         *datastructure.GraphBuilder
	nextEdgeId      int64
	useMaxSpeed     bool
	logger          *zap.Logger
}

func NewOSMParser(useMaxSpeed bool, logger *zap.Logger) *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]NodeCoord),
		barrierNodes:    make(map[int64]bool),
		edgeSet:         make(map[[2]int64]struct{}),
		builder:         datastructure.NewGraphBuilder(),
		nextEdgeId:      1,
		useMaxSpeed:     useMaxSpeed,
		logger:          logger,
	}
}

// Parse reads an osm pbf file and returns its drivable road network.
func (p *OsmParser) Parse(mapFile string) (*datastructure.Graph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return p.ParseReader(f)
}

// ParseReader scans r twice: first to find junction nodes, then to collect coordinates and cut ways into edges.
func (p *OsmParser) ParseReader(r io.ReadSeeker) (*datastructure.Graph, error) {
	scanner := osmpbf.New(context.Background(), r, 0)
	// must not be parallel
	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if p.scanWay(way) {
			if (countWays+1)%50000 == 0 {
				p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
			}
			countWays++
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan osm ways: %w", err)
	}
	scanner.Close()

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	scanner = osmpbf.New(context.Background(), r, 0)
	defer scanner.Close()

	countWays = 0
	countNodes := 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if (countNodes+1)%500000 == 0 {
				p.logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			p.addNode(o)
		case *osm.Way:
			if !acceptOsmWay(o) || len(o.Nodes) < 2 {
				continue
			}
			if (countWays+1)%100000 == 0 {
				p.logger.Sugar().Infof("processing openstreetmap ways: %d...", countWays+1)
			}
			countWays++
			p.processWay(o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm nodes and ways: %w", err)
	}

	return p.Build()
}

// Build freezes the edges collected so far into a graph.
func (p *OsmParser) Build() (*datastructure.Graph, error) {
	graph, err := p.builder.Build()
	if err != nil {
		return nil, err
	}
	p.logger.Sugar().Infof("number of vertices: %v", graph.NumberOfVertices())
	p.logger.Sugar().Infof("number of edges: %v", graph.NumberOfEdges())
	return graph, nil
}

// scanWay marks the nodes of an accepted way. a node seen twice is a junction.
func (p *OsmParser) scanWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return false
	}
	for i, n := range way.Nodes {
		id := int64(n.ID)
		if _, ok := p.wayNodeMap[id]; !ok {
			if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[id] = END_NODE
			} else {
				p.wayNodeMap[id] = BETWEEN_NODE
			}
		} else {
			p.wayNodeMap[id] = JUNCTION_NODE
		}
	}
	return true
}

func (p *OsmParser) addNode(n *osm.Node) {
	id := int64(n.ID)
	p.maxNodeID = max(p.maxNodeID, id)

	if _, ok := p.wayNodeMap[id]; ok {
		p.acceptedNodeMap[id] = NewNodeCoord(n.Lat, n.Lon)
	}

	barrierType := n.Tags.Find("barrier")
	if _, ok := acceptedBarrierType[barrierType]; ok && n.Tags.Find("access") == "no" {
		p.barrierNodes[id] = true
	}
}

func (p *OsmParser) processWay(way *osm.Way) {
	highway := way.Tags.Find("highway")
	attrs := wayAttributes{
		wayId:   int64(way.ID),
		name:    way.Tags.Find("name"),
		highway: highway,
		tunnel:  isTagged(way.Tags.Find("tunnel")),
		bridge:  isTagged(way.Tags.Find("bridge")),
		speed:   waySpeed(highway, way.Tags.Find("maxspeed"), p.useMaxSpeed),
		noMotor: isRestricted(way.Tags.Find("access")) ||
			isRestricted(way.Tags.Find("motor_vehicle")) ||
			isRestricted(way.Tags.Find("motorcar")),
	}

	waySegment := make([]node, 0)
	for i, wayNode := range way.Nodes {
		id := int64(wayNode.ID)
		coord, ok := p.acceptedNodeMap[id]
		if !ok {
			// node outside of the extract
			if len(waySegment) > 1 {
				p.processSegment(waySegment, attrs)
			}
			waySegment = waySegment[:0]
			continue
		}
		nodeData := node{id: id, coord: coord}
		waySegment = append(waySegment, nodeData)

		if i > 0 && p.isJunctionNode(id) {
			p.processSegment(waySegment, attrs)
			waySegment = []node{nodeData}
		}
	}
	if len(waySegment) > 1 {
		p.processSegment(waySegment, attrs)
	}
}

// processSegment splits a junction to junction segment at access=no barriers.
// the barrier node is duplicated so the two sides are not connected.
func (p *OsmParser) processSegment(segment []node, attrs wayAttributes) {
	waySegment := make([]node, 0, len(segment))
	for _, nodeData := range segment {
		if !p.barrierNodes[nodeData.id] {
			waySegment = append(waySegment, nodeData)
			continue
		}
		if len(waySegment) != 0 {
			waySegment = append(waySegment, nodeData)
			p.addEdge(waySegment, attrs)
		}
		waySegment = []node{p.copyNode(nodeData)}
	}
	if len(waySegment) > 1 {
		p.addEdge(waySegment, attrs)
	}
}

func (p *OsmParser) copyNode(nodeData node) node {
	// same coordinate, fresh id
	p.maxNodeID++
	p.acceptedNodeMap[p.maxNodeID] = nodeData.coord
	return node{id: p.maxNodeID, coord: nodeData.coord}
}

func (p *OsmParser) addEdge(segment []node, attrs wayAttributes) {
	from := segment[0]
	to := segment[len(segment)-1]
	if from.id == to.id {
		return
	}

	key := [2]int64{min(from.id, to.id), max(from.id, to.id)}
	if _, ok := p.edgeSet[key]; ok {
		return
	}
	p.edgeSet[key] = struct{}{}

	geometry := make(orb.LineString, 0, len(segment))
	for _, n := range segment {
		geometry = append(geometry, orb.Point{n.coord.lon, n.coord.lat})
	}
	length := geo.LineLengthMeters(geometry)

	var travelTime *float64
	if !attrs.noMotor {
		tt := costfunction.TravelTime(length, attrs.speed)
		travelTime = &tt
	}

	p.builder.AddVertex(from.id, from.coord.lat, from.coord.lon)
	p.builder.AddVertex(to.id, to.coord.lat, to.coord.lon)
	p.builder.AddEdge(datastructure.EdgeSpec{
		EdgeId:            p.nextEdgeId,
		Source:            from.id,
		Target:            to.id,
		LengthMeters:      length,
		TravelTimeSeconds: travelTime,
		HighwayType:       pkg.GetHighwayType(attrs.highway),
		Tunnel:            attrs.tunnel,
		Bridge:            attrs.bridge,
		Name:              attrs.name,
		Geometry:          geometry,
	})
	p.nextEdgeId++
}

func (p *OsmParser) isJunctionNode(nodeID int64) bool {
	return p.wayNodeMap[nodeID] == JUNCTION_NODE
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway == "" {
		return false
	}
	_, ok := acceptedHighway[highway]
	return ok
}
