package geo

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// GeodesicBuffer is the set of points whose great-circle distance to a center is at most a radius in meters.
// Distances are measured on the sphere, so a buffer keeps the same ground size at any latitude.
type GeodesicBuffer struct {
	center       s2.Point
	radius       s1.Angle
	bound        s2.Rect
	centerLat    float64
	centerLon    float64
	radiusMeters float64
}

func NewGeodesicBuffer(lat, lon, radiusMeters float64) GeodesicBuffer {
	center := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	radius := s1.Angle(radiusMeters / earthRadiusMeters)
	return GeodesicBuffer{
		center:       center,
		radius:       radius,
		bound:        s2.CapFromCenterAngle(center, radius).RectBound(),
		centerLat:    lat,
		centerLon:    lon,
		radiusMeters: radiusMeters,
	}
}

func (b GeodesicBuffer) GetCenter() (float64, float64) {
	return b.centerLat, b.centerLon
}

func (b GeodesicBuffer) GetRadiusMeters() float64 {
	return b.radiusMeters
}

// ContainsPoint reports whether p (lon, lat) lies inside the buffer.
func (b GeodesicBuffer) ContainsPoint(p orb.Point) bool {
	return b.center.Distance(toS2Point(p)) <= b.radius
}

// IntersectsLine reports whether any part of ls lies inside the buffer.
func (b GeodesicBuffer) IntersectsLine(ls orb.LineString) bool {
	switch len(ls) {
	case 0:
		return false
	case 1:
		return b.ContainsPoint(ls[0])
	}

	points := make([]s2.Point, len(ls))
	bounder := s2.NewRectBounder()
	for i, p := range ls {
		points[i] = toS2Point(p)
		bounder.AddPoint(points[i])
	}
	// the bounder covers the great-circle edges between vertices, not only the vertices
	if !b.bound.Intersects(bounder.RectBound()) {
		return false
	}

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		var dist s1.Angle
		if prev == cur {
			dist = b.center.Distance(cur)
		} else {
			dist = s2.DistanceFromSegment(b.center, prev, cur)
		}
		if dist <= b.radius {
			return true
		}
	}
	return false
}

func toS2Point(p orb.Point) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat(), p.Lon()))
}
