package usecases

import (
	"context"
	"time"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"github.com/lintang-b-s/wayroute/pkg/util"
	"go.uber.org/zap"
)

type RoutingService struct {
	log      *zap.Logger
	composer RouteComposer
	engine   HealthChecker
}

func NewRoutingService(log *zap.Logger, composer RouteComposer, engine HealthChecker) *RoutingService {
	return &RoutingService{
		log:      log,
		composer: composer,
		engine:   engine,
	}
}

func (rs *RoutingService) ComputeRoutes(ctx context.Context, req routing.RouteRequest) (*datastructure.RouteResult, error) {
	start := time.Now()
	res, err := rs.composer.Compose(ctx, req)
	if err != nil {
		rs.log.Info("route composition failed",
			zap.Int("points", len(req.Points)), zap.Error(err), zap.Duration("took", time.Since(start)))
		return nil, err
	}

	rs.log.Debug("route composed",
		zap.Int("points", len(req.Points)),
		zap.Bool("distance_variant", res.DistanceVariant != nil),
		zap.Bool("time_variant", res.TimeVariant != nil),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

func (rs *RoutingService) Health(ctx context.Context) error {
	if err := rs.engine.Ping(ctx); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "graph engine unavailable")
	}
	return nil
}
