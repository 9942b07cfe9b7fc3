package memgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"github.com/lintang-b-s/wayroute/pkg/spatialindex"
	"go.uber.org/zap"
)

const (
	DefaultSnapRadiusKm = 1.0
	initialSnapRadiusKm = 0.05
)

var ErrUnknownVertex = errors.New("unknown vertex")

// Engine answers nearest vertex and shortest path queries over a road network held in memory.
// The network is read only, so one Engine serves concurrent queries.
type Engine struct {
	graph        *datastructure.Graph
	rtree        *spatialindex.Rtree
	snapRadiusKm float64
	log          *zap.Logger
}

func New(graph *datastructure.Graph, snapRadiusKm float64, log *zap.Logger) *Engine {
	if snapRadiusKm <= 0 {
		snapRadiusKm = DefaultSnapRadiusKm
	}
	rt := spatialindex.NewRtree()
	rt.Build(graph, log)
	return &Engine{
		graph:        graph,
		rtree:        rt,
		snapRadiusKm: snapRadiusKm,
		log:          log,
	}
}

// Load reads a network file written by the preprocessor.
func Load(networkFile string, snapRadiusKm float64, log *zap.Logger) (*Engine, error) {
	log.Info("Reading road network from ", zap.String("networkFile", networkFile))
	graph, err := datastructure.ReadGraph(networkFile)
	if err != nil {
		return nil, fmt.Errorf("read network %s: %w", networkFile, err)
	}
	log.Info("Road network loaded",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("components", graph.NumberOfSCCs()))
	return New(graph, snapRadiusKm, log), nil
}

// NearestVertex searches growing radii up to the snap radius and returns the closest routable vertex.
func (e *Engine) NearestVertex(ctx context.Context, lat, lon float64) (routing.VertexMatch, bool, error) {
	radius := min(initialSnapRadiusKm, e.snapRadiusKm)
	for {
		if err := ctx.Err(); err != nil {
			return routing.VertexMatch{}, false, err
		}
		candidates := e.rtree.SearchWithinRadius(e.graph, lat, lon, radius)
		if len(candidates) > 0 {
			nearest := candidates[0]
			return routing.VertexMatch{
				VertexID:       e.graph.GetVertex(nearest.GetVertex()).GetOsmId(),
				DistanceMeters: nearest.GetDistanceMeters(),
			}, true, nil
		}
		if radius >= e.snapRadiusKm {
			return routing.VertexMatch{}, false, nil
		}
		radius = min(radius*2, e.snapRadiusKm)
	}
}

func (e *Engine) ShortestPath(ctx context.Context, query routing.ShortestPathQuery) ([]datastructure.PathSegment, error) {
	s, ok := e.graph.GetVertexIndex(query.Source)
	if !ok {
		return nil, fmt.Errorf("%w: source %d", ErrUnknownVertex, query.Source)
	}
	t, ok := e.graph.GetVertexIndex(query.Target)
	if !ok {
		return nil, fmt.Errorf("%w: target %d", ErrUnknownVertex, query.Target)
	}
	if !e.graph.VerticesAreConnected(s, t) {
		return []datastructure.PathSegment{}, nil
	}

	return newDijkstra(e.graph, query.Metric, query.Predicate).shortestPath(ctx, s, t)
}

func (e *Engine) Ping(ctx context.Context) error {
	if e.graph == nil || e.graph.NumberOfVertices() == 0 {
		return errors.New("road network is empty")
	}
	return ctx.Err()
}
