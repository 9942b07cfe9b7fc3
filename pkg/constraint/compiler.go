package constraint

import (
	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/geo"
)

var (
	motorwayCategories = []pkg.OsmHighwayType{pkg.MOTORWAY, pkg.MOTORWAY_LINK}
	// road classes too narrow for wide vehicles
	narrowCategories = []pkg.OsmHighwayType{pkg.SERVICE, pkg.RESIDENTIAL, pkg.LIVING_STREET, pkg.TRACK}
)

type Options struct {
	AvoidMotorways bool
	Vehicle        *datastructure.VehicleProfile
	AvoidZones     []datastructure.AvoidZone
}

// Compile builds the predicate for opts. Clause order is motorway, width, height, then zones in input order.
func Compile(opts Options) EdgePredicate {
	clauses := make([]Clause, 0, 3+len(opts.AvoidZones))

	if opts.AvoidMotorways {
		clauses = append(clauses, Clause{Kind: ExcludeCategories, Categories: motorwayCategories})
	}

	if opts.Vehicle != nil {
		if w := opts.Vehicle.WidthMeters; w != nil && *w > pkg.WIDE_VEHICLE_THRESHOLD_METERS {
			clauses = append(clauses, Clause{Kind: ExcludeCategories, Categories: narrowCategories})
		}
		if h := opts.Vehicle.HeightMeters; h != nil && *h > pkg.TALL_VEHICLE_THRESHOLD_METERS {
			clauses = append(clauses, Clause{Kind: ExcludeTunnel})
		}
	}

	for _, zone := range opts.AvoidZones {
		zone = zone.WithDefaultRadius(pkg.DEFAULT_AVOID_ZONE_RADIUS)
		clauses = append(clauses, Clause{
			Kind: ExcludeZone,
			Zone: geo.NewGeodesicBuffer(zone.CenterLat, zone.CenterLon, zone.RadiusMeters),
		})
	}

	return NewEdgePredicate(clauses...)
}

// ForMetric returns the predicate a pathfinder must use for metric.
// The time metric can only cross edges that carry a travel time.
func ForMetric(p EdgePredicate, metric datastructure.CostMetric) EdgePredicate {
	if metric == datastructure.TimeMetric {
		return p.And(NewEdgePredicate(Clause{Kind: RequireTravelTime}))
	}
	return p
}
