package geo

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// CapBounds returns lon/lat boxes that together cover every point within radiusKm of (lat, lon).
// A cap crossing the antimeridian is split in two boxes. A cap reaching a pole spans every longitude.
func CapBounds(lat, lon, radiusKm float64) []orb.Bound {
	center := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	rect := s2.CapFromCenterAngle(center, s1.Angle(radiusKm/earthRadiusKM)).RectBound()

	minLat, maxLat := s1.Angle(rect.Lat.Lo).Degrees(), s1.Angle(rect.Lat.Hi).Degrees()
	lng := rect.Lng
	switch {
	case lng.IsFull():
		return []orb.Bound{{Min: orb.Point{-180, minLat}, Max: orb.Point{180, maxLat}}}
	case lng.IsInverted():
		lo, hi := s1.Angle(lng.Lo).Degrees(), s1.Angle(lng.Hi).Degrees()
		return []orb.Bound{
			{Min: orb.Point{lo, minLat}, Max: orb.Point{180, maxLat}},
			{Min: orb.Point{-180, minLat}, Max: orb.Point{hi, maxLat}},
		}
	default:
		return []orb.Bound{{
			Min: orb.Point{s1.Angle(lng.Lo).Degrees(), minLat},
			Max: orb.Point{s1.Angle(lng.Hi).Degrees(), maxLat},
		}}
	}
}
