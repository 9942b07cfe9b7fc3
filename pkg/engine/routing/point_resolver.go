package routing

import (
	"context"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type PointResolver struct {
	engine GraphEngine
	log    *zap.Logger
}

func NewPointResolver(engine GraphEngine, log *zap.Logger) *PointResolver {
	return &PointResolver{engine: engine, log: log}
}

// Resolve snaps point to its nearest network vertex. Found is false when nothing is in range.
func (pr *PointResolver) Resolve(ctx context.Context, point datastructure.GeoPoint) (datastructure.ResolvedVertex, error) {
	match, found, err := pr.engine.NearestVertex(ctx, point.Lat, point.Lon)
	if err != nil {
		return datastructure.ResolvedVertex{Point: point}, err
	}
	if !found {
		return datastructure.ResolvedVertex{Point: point}, nil
	}
	return datastructure.ResolvedVertex{
		Point:          point,
		VertexID:       match.VertexID,
		Found:          true,
		DistanceMeters: match.DistanceMeters,
	}, nil
}

// ResolveAll resolves every point concurrently. resolved[i] belongs to points[i].
// It fails with a PointsNotResolvedError naming every point that was not found.
func (pr *PointResolver) ResolveAll(ctx context.Context, points []datastructure.GeoPoint) ([]datastructure.ResolvedVertex, error) {
	resolved := make([]datastructure.ResolvedVertex, len(points))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range points {
		g.Go(func() error {
			rv, err := pr.Resolve(gctx, p)
			if err != nil {
				return err
			}
			resolved[i] = rv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		pr.log.Error("nearest vertex lookup failed", zap.Error(err))
		return nil, upstreamFailure(err)
	}

	unresolved := make([]string, 0)
	for _, rv := range resolved {
		if !rv.Found {
			unresolved = append(unresolved, rv.Point.Label)
		}
	}
	if len(unresolved) > 0 {
		pr.log.Info("points not resolved", zap.Strings("labels", unresolved))
		return nil, pointsNotResolved(unresolved)
	}
	return resolved, nil
}
