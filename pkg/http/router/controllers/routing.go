package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/wayroute/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

const (
	maxRequestBodyBytes = 1 << 20
	healthProbeTimeout  = 2 * time.Second
)

type routingAPI struct {
	routingService RoutingService
	validator      *requestValidator
	timeout        time.Duration
	log            *zap.Logger
}

// New builds the routing controller. timeout bounds a single route computation, zero means unbounded.
func New(routingService RoutingService, timeout time.Duration, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		validator:      newRequestValidator(),
		timeout:        timeout,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.POST("/routes", api.computeRoutes)
	group.GET("/health", api.health)
}

// computeRoutes
//
//	@Summary		distance optimal and time optimal route through an ordered list of points
//	@Tags			routing
//	@Accept			json
//	@Produce		json
//	@Param			body	body		routeRequest	true	"points in visiting order and route constraints"
//	@Success		200		{object}	routeResponse
//	@Failure		400		{object}	errorBody
//	@Failure		404		{object}	errorBody
//	@Failure		500		{object}	errorBody
//	@Router			/routes [post]
func (api *routingAPI) computeRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request routeRequest

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body must not be empty")
		}
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()
	if api.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.timeout)
		defer cancel()
	}

	res, err := api.routingService.ComputeRoutes(ctx, request.toRouteRequest())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// health
//
//	@Summary		liveness of the graph backend
//	@Tags			routing
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Failure		503	{object}	errorBody
//	@Router			/health [get]
func (api *routingAPI) health(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	if err := api.routingService.Health(ctx); err != nil {
		api.log.Warn("health probe failed", zap.Error(err))
		api.errorResponse(w, r, http.StatusServiceUnavailable, "graph backend unavailable")
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": healthResponse{Status: "ok"}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
