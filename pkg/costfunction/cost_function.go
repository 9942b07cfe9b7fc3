package costfunction

import (
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
)

type EdgeAttributes interface {
	GetLength() float64
	GetTravelTime() (float64, bool)
}

// CostFunction returns the weight of an edge, false when the edge has no weight under this function.
type CostFunction interface {
	GetWeight(e EdgeAttributes) (float64, bool)
}

func New(metric datastructure.CostMetric) CostFunction {
	if metric == datastructure.TimeMetric {
		return NewTimeCostFunction()
	}
	return NewDistanceCostFunction()
}

type DistanceFunction struct {
}

func NewDistanceCostFunction() *DistanceFunction {
	return &DistanceFunction{}
}

// GetWeight length in meter.
func (df *DistanceFunction) GetWeight(e EdgeAttributes) (float64, bool) {
	return e.GetLength(), true
}
