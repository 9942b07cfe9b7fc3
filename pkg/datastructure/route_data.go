package datastructure

import (
	"fmt"

	"github.com/paulmach/orb"
)

type CostMetric string

const (
	DistanceMetric CostMetric = "distance"
	TimeMetric     CostMetric = "time"
)

var CostMetrics = [...]CostMetric{DistanceMetric, TimeMetric}

const (
	StartLabel = "start"
	EndLabel   = "end"
)

// GeoPoint is one user supplied route point.
type GeoPoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

func NewGeoPoint(lat, lon float64, label string) GeoPoint {
	return GeoPoint{Lat: lat, Lon: lon, Label: label}
}

// PointLabel labels the i-th of n ordered points: start, waypoint-<i>, end.
func PointLabel(i, n int) string {
	switch {
	case i == 0:
		return StartLabel
	case i == n-1:
		return EndLabel
	default:
		return fmt.Sprintf("waypoint-%d", i)
	}
}

type ResolvedVertex struct {
	Point          GeoPoint `json:"point"`
	VertexID       int64    `json:"vertex_id"`
	Found          bool     `json:"found"`
	DistanceMeters float64  `json:"distance_meters"`
}

type AvoidZone struct {
	CenterLat    float64 `json:"lat"`
	CenterLon    float64 `json:"lon"`
	RadiusMeters float64 `json:"radius_meters"`
}

// WithDefaultRadius returns z with an unset radius replaced by defaultRadius.
func (z AvoidZone) WithDefaultRadius(defaultRadius float64) AvoidZone {
	if z.RadiusMeters == 0 {
		z.RadiusMeters = defaultRadius
	}
	return z
}

type VehicleProfile struct {
	WidthMeters  *float64 `json:"width_meters,omitempty"`
	HeightMeters *float64 `json:"height_meters,omitempty"`
}

type PathSegment struct {
	Sequence          int            `json:"sequence"`
	PathSequence      int            `json:"path_sequence"`
	Node              int64          `json:"node"`
	Edge              int64          `json:"edge"` // -1 on the terminal row of a path
	StepCost          float64        `json:"step_cost"`
	CumulativeCost    float64        `json:"cumulative_cost"` // cost from the origin to Node
	Geometry          orb.LineString `json:"geometry"`
	RoadName          string         `json:"road_name"`
	LengthMeters      float64        `json:"length_meters"`
	RoadCategory      string         `json:"road_category"`
	TravelTimeSeconds float64        `json:"travel_time_seconds"`
}

// EndCost is the cumulative cost at the vertex this segment leads to.
func (s PathSegment) EndCost() float64 {
	return s.CumulativeCost + s.StepCost
}

type Leg struct {
	From     GeoPoint      `json:"from"`
	To       GeoPoint      `json:"to"`
	Segments []PathSegment `json:"segments"`
}

type RouteVariant struct {
	Metric               CostMetric    `json:"metric"`
	TotalDistanceMeters  float64       `json:"total_distance_meters"`
	TotalDurationSeconds float64       `json:"total_duration_seconds"`
	TotalCost            float64       `json:"total_cost"`
	Legs                 []Leg         `json:"legs"`
	Segments             []PathSegment `json:"segments"`
}

// Geometry concatenates segment geometries, dropping the repeated joint vertex between consecutive segments.
func (v *RouteVariant) Geometry() orb.LineString {
	return joinGeometry(v.Segments)
}

// Geometry of a single leg, see RouteVariant.Geometry.
func (l *Leg) Geometry() orb.LineString {
	return joinGeometry(l.Segments)
}

func joinGeometry(segments []PathSegment) orb.LineString {
	ls := make(orb.LineString, 0)
	for _, s := range segments {
		for i, p := range s.Geometry {
			if i == 0 && len(ls) > 0 && ls[len(ls)-1] == p {
				continue
			}
			ls = append(ls, p)
		}
	}
	return ls
}

type EchoedConstraints struct {
	Waypoints      []GeoPoint      `json:"waypoints"`
	AvoidMotorways bool            `json:"avoid_motorways"`
	Vehicle        *VehicleProfile `json:"vehicle,omitempty"`
	AvoidZones     []AvoidZone     `json:"avoid_zones"`
}

type RouteResult struct {
	DistanceVariant *RouteVariant     `json:"distance_variant,omitempty"`
	TimeVariant     *RouteVariant     `json:"time_variant,omitempty"`
	Constraints     EchoedConstraints `json:"constraints"`
}

func (r *RouteResult) Variant(metric CostMetric) *RouteVariant {
	if metric == TimeMetric {
		return r.TimeVariant
	}
	return r.DistanceVariant
}

func (r *RouteResult) SetVariant(v *RouteVariant) {
	if v.Metric == TimeMetric {
		r.TimeVariant = v
		return
	}
	r.DistanceVariant = v
}
