package routing

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/wayroute/pkg/constraint"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"go.uber.org/zap"
)

const DefaultCallTimeout = 5 * time.Second

type LegPathfinder struct {
	engine      GraphEngine
	callTimeout time.Duration
	log         *zap.Logger
}

func NewLegPathfinder(engine GraphEngine, callTimeout time.Duration, log *zap.Logger) *LegPathfinder {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &LegPathfinder{engine: engine, callTimeout: callTimeout, log: log}
}

// FindLeg returns the segments of the cheapest admissible path from -> to under metric.
// An empty result means no path. A call that runs past the per call timeout is also reported as no path.
func (lp *LegPathfinder) FindLeg(ctx context.Context, from, to datastructure.ResolvedVertex,
	metric datastructure.CostMetric, predicate constraint.EdgePredicate) ([]datastructure.PathSegment, error) {

	callCtx, cancel := context.WithTimeout(ctx, lp.callTimeout)
	defer cancel()

	rows, err := lp.engine.ShortestPath(callCtx, ShortestPathQuery{
		Source:    from.VertexID,
		Target:    to.VertexID,
		Metric:    metric,
		Predicate: predicate,
		Directed:  true,
	})
	if err != nil {
		if ctx.Err() == nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded)) {
			lp.log.Warn("shortest path call timed out",
				zap.String("metric", string(metric)),
				zap.Int64("source", from.VertexID),
				zap.Int64("target", to.VertexID),
				zap.Duration("timeout", lp.callTimeout))
			legTimeoutTotal.WithLabelValues(string(metric)).Inc()
			return nil, nil
		}
		return nil, err
	}

	segments := make([]datastructure.PathSegment, 0, len(rows))
	for _, row := range rows {
		if row.Edge == -1 {
			continue
		}
		segments = append(segments, row)
	}
	return segments, nil
}
