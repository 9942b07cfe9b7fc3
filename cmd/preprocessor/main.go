package main

import (
	"flag"

	"github.com/lintang-b-s/wayroute/pkg/logger"
	"github.com/lintang-b-s/wayroute/pkg/osmparser"
	"github.com/lintang-b-s/wayroute/pkg/preprocessor"
	"github.com/lintang-b-s/wayroute/pkg/util"
)

var (
	mapFile     = flag.String("f", "./data/map.osm.pbf", "openstreetmap pbf file")
	networkFile = flag.String("o", "./data/network.graph", "output network file")
	useMaxSpeed = flag.Bool("maxspeed", true, "use the osm maxspeed tag for travel time when present")
)

func main() {
	flag.Parse()

	if err := util.ReadConfig(); err != nil {
		panic(err)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	osmParser := osmparser.NewOSMParser(*useMaxSpeed, logger)
	prep := preprocessor.NewPreprocessor(osmParser, logger)
	graph, err := prep.PreProcessing(*mapFile, *networkFile)
	if err != nil {
		panic(err)
	}

	logger.Sugar().Infof("Preprocessing completed successfully: %d vertices, %d edges.",
		graph.NumberOfVertices(), graph.NumberOfEdges())
}
