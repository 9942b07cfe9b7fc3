package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lintang-b-s/wayroute/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/wayroute/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/wayroute/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"go.uber.org/zap"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "net/http/pprof"
)

const shutdownTimeout = 10 * time.Second

type API struct {
	log *zap.Logger
	hub *controllers.Hub
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

//	@title			wayroute API
//	@version		1.0
//	@description	Multi waypoint route composition over an openstreetmap road network.

//	@license.name	BSD License
//	@license.url	https://opensource.org/license/bsd-2-clause

// @host		localhost
// @BasePath	/api
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	log *zap.Logger,

	useRateLimit bool,
	routingService controllers.RoutingService,
) error {
	log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(ctx, config, useRateLimit, routingService), config)
	log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		log.Info("HTTP server stopped", zap.Error(err))
		api.hub.RemoveAllUser()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// hijacked websocket connections are not tracked by Shutdown
		api.hub.RemoveAllUser()
		return err
	}
}

// Handler builds the full middleware chain and routes. ctx bounds the websocket sessions.
func (api *API) Handler(ctx context.Context, config http_server.Config,
	useRateLimit bool, routingService controllers.RoutingService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", RequestIDHeader},
		ExposedHeaders:   []string{"Link", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore

	})

	router.GET("/doc/*any", swaggerHandler)

	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)

	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	api.hub = controllers.NewHub(routingService, config.Timeout, api.log)
	router.GET("/ws/routes", api.handleWebsocket(ctx))

	group := router_helper.NewRouteGroup(router, "/api")

	routes := controllers.New(routingService, config.Timeout, api.log)

	routes.Routes(group)

	var mwChain []alice.Constructor
	if useRateLimit {
		mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
			RealIP, Heartbeat("healthz"), Logger(api.log), Labels, Limit(config.RateLimitRPS, config.RateLimitBurst))
	} else {
		mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
			RealIP, Heartbeat("healthz"), Logger(api.log), Labels)
	}
	return alice.New(mwChain...).Then(router)
}

func swaggerHandler(res http.ResponseWriter, req *http.Request, p httprouter.Params) {
	httpSwagger.WrapHandler(res, req)
}
