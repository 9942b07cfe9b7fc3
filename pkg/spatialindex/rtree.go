package spatialindex

import (
	"sort"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[datastructure.Index]
}

type VertexCandidate struct {
	vertex         datastructure.Index
	distanceMeters float64
}

func (vc VertexCandidate) GetVertex() datastructure.Index {
	return vc.vertex
}

// GetDistanceMeters great-circle distance from the query point.
func (vc VertexCandidate) GetDistanceMeters() float64 {
	return vc.distanceMeters
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. index every vertex of the network that has at least one incident edge.
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("vertices", graph.NumberOfVertices()))
	graph.ForVertices(func(u datastructure.Index, v *datastructure.Vertex) {
		if graph.GetOutDegree(u) == 0 {
			return
		}
		p := [2]float64{v.GetLon(), v.GetLat()}
		rt.tr.Insert(p, p, u)
	})

	log.Info("R-tree spatial index built.", zap.Int("indexed", rt.tr.Len()))
}

// SearchWithinRadius search for all vertices within radius (in km) from the query point (qLat, qLon), nearest first.
func (rt *Rtree) SearchWithinRadius(graph *datastructure.Graph, qLat, qLon, radius float64) []VertexCandidate {
	results := make([]VertexCandidate, 0, 10)
	for _, box := range geo.CapBounds(qLat, qLon, radius) {
		rt.tr.Search([2]float64{box.Min.Lon(), box.Min.Lat()}, [2]float64{box.Max.Lon(), box.Max.Lat()},
			func(min, max [2]float64, u datastructure.Index) bool {
				lat, lon := graph.GetVertexCoordinates(u)
				dist := geo.CalculateHaversineDistance(qLat, qLon, lat, lon)
				if dist <= radius {
					results = append(results, VertexCandidate{vertex: u, distanceMeters: dist * 1000})
				}
				return true
			})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].distanceMeters == results[j].distanceMeters {
			return results[i].vertex < results[j].vertex
		}
		return results[i].distanceMeters < results[j].distanceMeters
	})
	return results
}
