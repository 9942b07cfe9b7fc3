package memgraph

import (
	"context"

	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/lintang-b-s/wayroute/pkg/constraint"
	"github.com/lintang-b-s/wayroute/pkg/costfunction"
	da "github.com/lintang-b-s/wayroute/pkg/datastructure"
)

// how many settled vertices between two context checks
const ctxCheckInterval = 1024

const (
	edgeUnknown int8 = iota
	edgeAdmitted
	edgeRejected
)

type dijkstra struct {
	graph     *da.Graph
	cost      costfunction.CostFunction
	predicate constraint.EdgePredicate

	dist       []float64
	parentArc  []da.OutArc
	parentFrom []da.Index
	heapNodes  []*da.PriorityQueueNode[da.Index]
	settled    []bool
	// per edge predicate result, zone clauses are costly to evaluate
	admitted []int8

	pq *da.MinHeap[da.Index]
}

func newDijkstra(graph *da.Graph, metric da.CostMetric, predicate constraint.EdgePredicate) *dijkstra {
	n := graph.NumberOfVertices()
	d := &dijkstra{
		graph:      graph,
		cost:       costfunction.New(metric),
		predicate:  predicate,
		dist:       make([]float64, n),
		parentArc:  make([]da.OutArc, n),
		parentFrom: make([]da.Index, n),
		heapNodes:  make([]*da.PriorityQueueNode[da.Index], n),
		settled:    make([]bool, n),
		admitted:   make([]int8, graph.NumberOfEdges()),
		pq:         da.NewFourAryHeap[da.Index](),
	}
	for i := range d.dist {
		d.dist[i] = pkg.INF_WEIGHT
		d.parentFrom[i] = da.INVALID_VERTEX_ID
	}
	return d
}

// shortestPath runs a one to one search from s to t and returns pgr_dijkstra like rows.
func (d *dijkstra) shortestPath(ctx context.Context, s, t da.Index) ([]da.PathSegment, error) {
	if s == t {
		return []da.PathSegment{{
			Sequence:     1,
			PathSequence: 1,
			Node:         d.graph.GetVertex(t).GetOsmId(),
			Edge:         -1,
		}}, nil
	}

	d.dist[s] = 0
	d.heapNodes[s] = da.NewPriorityQueueNode(0, s)
	d.pq.Insert(d.heapNodes[s])

	numSettled := 0
	for !d.pq.IsEmpty() {
		if numSettled%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		node, _ := d.pq.ExtractMin()
		u := node.GetItem()
		d.settled[u] = true
		numSettled++
		if u == t {
			break
		}

		d.relax(u)
	}

	if !d.settled[t] {
		return []da.PathSegment{}, nil
	}
	return d.buildRows(s, t), nil
}

func (d *dijkstra) relax(u da.Index) {
	d.graph.ForOutArcs(u, func(arc da.OutArc, e *da.Edge) {
		v := arc.GetHead()
		if d.settled[v] || !d.admits(arc.GetEdge(), e) {
			return
		}

		weight, ok := d.cost.GetWeight(e)
		if !ok {
			return
		}

		newDist := d.dist[u] + weight
		if newDist >= d.dist[v] {
			return
		}

		d.dist[v] = newDist
		d.parentArc[v] = arc
		d.parentFrom[v] = u

		if d.heapNodes[v] == nil {
			d.heapNodes[v] = da.NewPriorityQueueNode(newDist, v)
			d.pq.Insert(d.heapNodes[v])
			return
		}
		_ = d.pq.DecreaseKey(d.heapNodes[v], newDist)
	})
}

func (d *dijkstra) admits(edgeIdx da.Index, e *da.Edge) bool {
	switch d.admitted[edgeIdx] {
	case edgeAdmitted:
		return true
	case edgeRejected:
		return false
	}
	ok := d.predicate.Admits(e)
	if ok {
		d.admitted[edgeIdx] = edgeAdmitted
	} else {
		d.admitted[edgeIdx] = edgeRejected
	}
	return ok
}

func (d *dijkstra) buildRows(s, t da.Index) []da.PathSegment {
	vertices := make([]da.Index, 0)
	for v := t; v != s; v = d.parentFrom[v] {
		vertices = append(vertices, v)
	}

	rows := make([]da.PathSegment, 0, len(vertices)+1)
	cumulative := 0.0
	prev := s
	for i := len(vertices) - 1; i >= 0; i-- {
		v := vertices[i]
		arc := d.parentArc[v]
		e := d.graph.GetEdge(arc.GetEdge())
		step, _ := d.cost.GetWeight(e)
		travelTime, _ := e.GetTravelTime()

		rows = append(rows, da.PathSegment{
			Sequence:          len(rows) + 1,
			PathSequence:      len(rows) + 1,
			Node:              d.graph.GetVertex(prev).GetOsmId(),
			Edge:              e.GetEdgeId(),
			StepCost:          step,
			CumulativeCost:    cumulative,
			Geometry:          d.graph.ArcGeometry(arc),
			RoadName:          e.GetName(),
			LengthMeters:      e.GetLength(),
			RoadCategory:      e.GetHighwayType().String(),
			TravelTimeSeconds: travelTime,
		})
		cumulative += step
		prev = v
	}

	rows = append(rows, da.PathSegment{
		Sequence:       len(rows) + 1,
		PathSequence:   len(rows) + 1,
		Node:           d.graph.GetVertex(t).GetOsmId(),
		Edge:           -1,
		CumulativeCost: cumulative,
	})
	return rows
}
