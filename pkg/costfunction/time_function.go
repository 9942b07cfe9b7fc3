package costfunction

type TimeFunction struct {
}

func NewTimeCostFunction() *TimeFunction {
	return &TimeFunction{}
}

const (
	defaultSpeed = 20.0 // km/h
)

// GetWeight travel time in seconds.
func (tf *TimeFunction) GetWeight(e EdgeAttributes) (float64, bool) {
	return e.GetTravelTime()
}

// TravelTime returns the seconds needed to drive lengthMeters at speedKmh. a non positive speed falls back to defaultSpeed.
func TravelTime(lengthMeters, speedKmh float64) float64 {
	if speedKmh <= 0 {
		speedKmh = defaultSpeed
	}
	return lengthMeters / (speedKmh * 1000 / 3600)
}
