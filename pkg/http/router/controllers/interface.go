package controllers

import (
	"context"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
)

type RoutingService interface {
	ComputeRoutes(ctx context.Context, req routing.RouteRequest) (*datastructure.RouteResult, error)
	Health(ctx context.Context) error
}
