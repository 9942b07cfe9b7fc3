package preprocessor

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubParser struct {
	graph *datastructure.Graph
	err   error
}

func (s stubParser) Parse(mapFile string) (*datastructure.Graph, error) {
	return s.graph, s.err
}

func TestPreProcessingWritesNetwork(t *testing.T) {
	b := datastructure.NewGraphBuilder()
	b.AddVertex(1, 0, 0)
	b.AddVertex(2, 0, 0.001)
	b.AddEdge(datastructure.EdgeSpec{EdgeId: 1, Source: 1, Target: 2, LengthMeters: 111})
	g, err := b.Build()
	require.NoError(t, err)

	networkFile := filepath.Join(t.TempDir(), "network.graph")
	_, err = NewPreprocessor(stubParser{graph: g}, zap.NewNop()).PreProcessing("map.osm.pbf", networkFile)
	require.NoError(t, err)

	read, err := datastructure.ReadGraph(networkFile)
	require.NoError(t, err)
	assert.Equal(t, 1, read.NumberOfEdges())
}

func TestPreProcessingErrors(t *testing.T) {
	_, err := NewPreprocessor(stubParser{err: errors.New("corrupt pbf")}, zap.NewNop()).
		PreProcessing("map.osm.pbf", filepath.Join(t.TempDir(), "x.graph"))
	assert.Error(t, err)

	empty, err := datastructure.NewGraphBuilder().Build()
	require.NoError(t, err)
	_, err = NewPreprocessor(stubParser{graph: empty}, zap.NewNop()).
		PreProcessing("map.osm.pbf", filepath.Join(t.TempDir(), "x.graph"))
	assert.Error(t, err)
}
