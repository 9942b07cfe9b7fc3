package osmparser

import (
	"strconv"
	"strings"

	"github.com/lintang-b-s/wayroute/pkg"
)

const defaultSpeed = 30.0 // km/h

// roadTypeMaxSpeed typical free flow speed (km/h) of an osm highway class.
func roadTypeMaxSpeed(roadType string) float64 {
	switch roadType {
	case "motorway":
		return 100
	case "trunk":
		return 70
	case "primary":
		return 65
	case "secondary":
		return 60
	case "tertiary":
		return 50
	case "unclassified":
		return 40
	case "residential":
		return 30
	case "service":
		return 20
	case "motorway_link":
		return 70
	case "trunk_link":
		return 65
	case "primary_link":
		return 60
	case "secondary_link":
		return 50
	case "tertiary_link":
		return 40
	case "living_street":
		return 5
	case "road":
		return 20
	case "track":
		return 15
	case "motorroad":
		return 90
	default:
		return defaultSpeed
	}
}

// parseMaxSpeed parses an osm maxspeed value into km/h. values without a unit are km/h.
// https://wiki.openstreetmap.org/wiki/Key:maxspeed
func parseMaxSpeed(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		value = strings.TrimSuffix(value, "mph")
		factor = 1.60934
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	case strings.HasSuffix(value, "knots"):
		value = strings.TrimSuffix(value, "knots")
		factor = 1.852
	}

	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || speed <= 0 {
		return 0, false
	}
	return speed * factor, true
}

// waySpeed picks the maxspeed tag when asked to and it parses, else the highway class speed.
func waySpeed(highway, maxSpeedTag string, useMaxSpeed bool) float64 {
	if useMaxSpeed {
		if speed, ok := parseMaxSpeed(maxSpeedTag); ok {
			return speed * pkg.NERF_MAXSPEED_OSM
		}
	}
	return roadTypeMaxSpeed(highway)
}

func isRestricted(value string) bool {
	return value == "no"
}

func isTagged(value string) bool {
	return value != "" && value != "no"
}
