package geo

import (
	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// PolylineFromLineString encodes ls as a google encoded polyline (lat, lon order, precision 5).
func PolylineFromLineString(ls orb.LineString) string {
	coords := make([][]float64, len(ls))
	for i, p := range ls {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	return string(polyline.EncodeCoords(coords))
}
