package engine

import (
	"fmt"

	"github.com/lintang-b-s/wayroute/pkg/engine/memgraph"
	"github.com/lintang-b-s/wayroute/pkg/engine/pgrouting"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"go.uber.org/zap"
)

const (
	BackendMemory    = "memory"
	BackendPgRouting = "pgrouting"
)

type Config struct {
	Backend          string
	NetworkFile      string
	SnapRadiusKm     float64
	EdgeTable        string
	VertexTable      string
	NearestCacheSize int
}

// NewGraphEngine builds the graph engine selected by cfg.Backend. db is only used by the pgrouting backend.
func NewGraphEngine(cfg Config, db pgrouting.DB, logger *zap.Logger) (routing.GraphEngine, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		logger.Info("Starting in-memory graph engine...")
		return memgraph.Load(cfg.NetworkFile, cfg.SnapRadiusKm, logger)
	case BackendPgRouting:
		if db == nil {
			return nil, fmt.Errorf("backend %s needs a database connection", BackendPgRouting)
		}
		schema, err := pgrouting.NewSchema(cfg.EdgeTable, cfg.VertexTable)
		if err != nil {
			return nil, err
		}
		logger.Info("Starting pgRouting graph engine...",
			zap.String("edgeTable", schema.EdgeTable()), zap.String("vertexTable", schema.VertexTable()))
		return pgrouting.New(db, schema, cfg.SnapRadiusKm*1000, cfg.NearestCacheSize, logger)
	default:
		return nil, fmt.Errorf("unknown graph backend %q", cfg.Backend)
	}
}
