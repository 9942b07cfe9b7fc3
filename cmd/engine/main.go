package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/wayroute/pkg/engine"
	"github.com/lintang-b-s/wayroute/pkg/engine/pgrouting"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"github.com/lintang-b-s/wayroute/pkg/http"
	"github.com/lintang-b-s/wayroute/pkg/http/usecases"
	"github.com/lintang-b-s/wayroute/pkg/logger"
	"github.com/lintang-b-s/wayroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	backend = flag.String("backend", "", "graph backend: memory or pgrouting (overrides GRAPH_BACKEND)")
)

func main() {
	flag.Parse()

	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	setDefaults()
	if *backend != "" {
		viper.Set("GRAPH_BACKEND", *backend)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db stays a nil interface unless the pgrouting backend is selected
	var db pgrouting.DB
	if viper.GetString("GRAPH_BACKEND") == engine.BackendPgRouting {
		pool, err := pgrouting.OpenPool(ctx, viper.GetString("DATABASE_URL"), viper.GetInt32("DB_MAX_CONNS"))
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()
		db = pool
	}

	graphEngine, err := engine.NewGraphEngine(engine.Config{
		Backend:          viper.GetString("GRAPH_BACKEND"),
		NetworkFile:      viper.GetString("NETWORK_FILE"),
		SnapRadiusKm:     viper.GetFloat64("SNAP_RADIUS_KM"),
		EdgeTable:        viper.GetString("PG_EDGE_TABLE"),
		VertexTable:      viper.GetString("PG_VERTEX_TABLE"),
		NearestCacheSize: viper.GetInt("NEAREST_CACHE_SIZE"),
	}, db, logger)
	if err != nil {
		logger.Fatal("failed to start graph engine", zap.Error(err))
	}

	composer := routing.NewComposer(graphEngine, routing.ComposerConfig{
		CallTimeout:     viper.GetDuration("ROUTING_CALL_TIMEOUT"),
		MaxParallelLegs: viper.GetInt("ROUTING_MAX_PARALLEL_LEGS"),
	}, logger)

	routingService := usecases.NewRoutingService(logger, composer, graphEngine)

	api := http.NewServer(logger)
	if err := api.Use(ctx, logger, viper.GetBool("USE_RATE_LIMIT"), routingService); err != nil {
		logger.Error("api server stopped with error", zap.Error(err))
		return
	}

	logger.Info("wayroute server stopped")
}

func setDefaults() {
	viper.SetDefault("GRAPH_BACKEND", engine.BackendMemory)
	viper.SetDefault("NETWORK_FILE", "./data/network.graph")
	viper.SetDefault("SNAP_RADIUS_KM", 1.0)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("PG_EDGE_TABLE", "ways")
	viper.SetDefault("PG_VERTEX_TABLE", "ways_vertices_pgr")
	viper.SetDefault("NEAREST_CACHE_SIZE", 4096)
	viper.SetDefault("ROUTING_CALL_TIMEOUT", routing.DefaultCallTimeout)
	viper.SetDefault("ROUTING_MAX_PARALLEL_LEGS", routing.DefaultMaxParallelLegs)
	viper.SetDefault("USE_RATE_LIMIT", false)
}
