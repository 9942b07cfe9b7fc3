package controllers

import (
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"github.com/lintang-b-s/wayroute/pkg/geo"
)

type pointRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"required,min=-180,max=180"`
}

type vehicleRequest struct {
	WidthMeters  *float64 `json:"width_meters" validate:"omitempty,gt=0"`
	HeightMeters *float64 `json:"height_meters" validate:"omitempty,gt=0"`
}

type avoidZoneRequest struct {
	Lat          *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon          *float64 `json:"lon" validate:"required,min=-180,max=180"`
	RadiusMeters float64  `json:"radius_meters" validate:"gte=0"`
}

type routeRequest struct {
	Points         []pointRequest     `json:"points" validate:"required,min=2,dive"`
	AvoidMotorways bool               `json:"avoid_motorways"`
	Vehicle        *vehicleRequest    `json:"vehicle"`
	AvoidZones     []avoidZoneRequest `json:"avoid_zones" validate:"omitempty,dive"`
}

// toRouteRequest must only be called on a validated request.
func (r routeRequest) toRouteRequest() routing.RouteRequest {
	req := routing.RouteRequest{
		Points:         make([]datastructure.GeoPoint, len(r.Points)),
		AvoidMotorways: r.AvoidMotorways,
		AvoidZones:     make([]datastructure.AvoidZone, len(r.AvoidZones)),
	}
	for i, p := range r.Points {
		req.Points[i] = datastructure.NewGeoPoint(*p.Lat, *p.Lon, "")
	}
	if r.Vehicle != nil {
		req.Vehicle = &datastructure.VehicleProfile{
			WidthMeters:  r.Vehicle.WidthMeters,
			HeightMeters: r.Vehicle.HeightMeters,
		}
	}
	for i, z := range r.AvoidZones {
		req.AvoidZones[i] = datastructure.AvoidZone{
			CenterLat:    *z.Lat,
			CenterLon:    *z.Lon,
			RadiusMeters: z.RadiusMeters,
		}
	}
	return req
}

type variantResponse struct {
	*datastructure.RouteVariant
	Polyline     string   `json:"polyline"`
	LegPolylines []string `json:"leg_polylines"`
}

func newVariantResponse(v *datastructure.RouteVariant) *variantResponse {
	if v == nil {
		return nil
	}
	legPolylines := make([]string, len(v.Legs))
	for i := range v.Legs {
		legPolylines[i] = geo.PolylineFromLineString(v.Legs[i].Geometry())
	}
	return &variantResponse{
		RouteVariant: v,
		Polyline:     geo.PolylineFromLineString(v.Geometry()),
		LegPolylines: legPolylines,
	}
}

type routeResponse struct {
	DistanceVariant *variantResponse                `json:"distance_variant"`
	TimeVariant     *variantResponse                `json:"time_variant"`
	Constraints     datastructure.EchoedConstraints `json:"constraints"`
}

func NewRouteResponse(res *datastructure.RouteResult) routeResponse {
	return routeResponse{
		DistanceVariant: newVariantResponse(res.DistanceVariant),
		TimeVariant:     newVariantResponse(res.TimeVariant),
		Constraints:     res.Constraints,
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Labels  []string `json:"labels,omitempty"`
}
