package routing

import (
	"context"

	"github.com/lintang-b-s/wayroute/pkg/constraint"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
)

type VertexMatch struct {
	VertexID       int64
	DistanceMeters float64
}

type ShortestPathQuery struct {
	Source    int64
	Target    int64
	Metric    datastructure.CostMetric
	Predicate constraint.EdgePredicate
	Directed  bool
}

// GraphEngine is the road network backend.
// ShortestPath rows follow pgr_dijkstra: 1-based seq and path_seq, agg cost up to the row's node,
// and a closing row with edge -1 at the target. An empty result means unreachable.
type GraphEngine interface {
	NearestVertex(ctx context.Context, lat, lon float64) (VertexMatch, bool, error)
	ShortestPath(ctx context.Context, query ShortestPathQuery) ([]datastructure.PathSegment, error)
	Ping(ctx context.Context) error
}
