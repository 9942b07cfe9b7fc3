package usecases

import (
	"context"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
)

type RouteComposer interface {
	Compose(ctx context.Context, req routing.RouteRequest) (*datastructure.RouteResult, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}
