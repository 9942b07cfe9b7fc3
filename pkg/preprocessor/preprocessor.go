package preprocessor

import (
	"fmt"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"go.uber.org/zap"
)

type Parser interface {
	Parse(mapFile string) (*datastructure.Graph, error)
}

// Preprocessor turns an openstreetmap extract into the network file the in-memory engine loads.
type Preprocessor struct {
	parser Parser
	logger *zap.Logger
}

func NewPreprocessor(parser Parser, logger *zap.Logger) *Preprocessor {
	return &Preprocessor{
		parser: parser,
		logger: logger,
	}
}

func (p *Preprocessor) PreProcessing(mapFile, networkFile string) (*datastructure.Graph, error) {
	p.logger.Info("Parsing openstreetmap extract...", zap.String("mapFile", mapFile))
	graph, err := p.parser.Parse(mapFile)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", mapFile, err)
	}
	if graph.NumberOfEdges() == 0 {
		return nil, fmt.Errorf("parse %s: no drivable ways found", mapFile)
	}

	p.logger.Info("Road network built",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("components", graph.NumberOfSCCs()),
		zap.Int("largestComponent", graph.LargestSCCSize()))

	p.logger.Info("Writing road network...", zap.String("networkFile", networkFile))
	if err := graph.WriteGraph(networkFile); err != nil {
		return nil, fmt.Errorf("write %s: %w", networkFile, err)
	}
	return graph, nil
}
