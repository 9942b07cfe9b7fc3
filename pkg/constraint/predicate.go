package constraint

import (
	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/lintang-b-s/wayroute/pkg/geo"
	"github.com/paulmach/orb"
)

type ClauseKind uint8

const (
	// ExcludeCategories drops edges whose highway type is in Clause.Categories.
	ExcludeCategories ClauseKind = iota
	ExcludeTunnel
	// ExcludeZone drops edges whose geometry intersects Clause.Zone.
	ExcludeZone
	// RequireTravelTime drops edges without a travel time attribute.
	RequireTravelTime
)

func (k ClauseKind) String() string {
	switch k {
	case ExcludeCategories:
		return "exclude_categories"
	case ExcludeTunnel:
		return "exclude_tunnel"
	case ExcludeZone:
		return "exclude_zone"
	case RequireTravelTime:
		return "require_travel_time"
	default:
		return "unknown"
	}
}

type Clause struct {
	Kind       ClauseKind
	Categories []pkg.OsmHighwayType
	Zone       geo.GeodesicBuffer
}

// EdgeAttributes is what a clause needs to know about an edge.
type EdgeAttributes interface {
	GetHighwayType() pkg.OsmHighwayType
	IsTunnel() bool
	GetGeometry() orb.LineString
	HasTravelTime() bool
}

// EdgePredicate is a conjunction of exclusion clauses. The zero value admits every edge.
// It is immutable: every method returns a new value and never touches the receiver's clauses.
type EdgePredicate struct {
	clauses []Clause
}

func NewEdgePredicate(clauses ...Clause) EdgePredicate {
	return EdgePredicate{clauses: cloneClauses(clauses)}
}

// And returns p with the clauses of other appended.
func (p EdgePredicate) And(other EdgePredicate) EdgePredicate {
	clauses := make([]Clause, 0, len(p.clauses)+len(other.clauses))
	clauses = append(clauses, p.clauses...)
	clauses = append(clauses, other.clauses...)
	return EdgePredicate{clauses: cloneClauses(clauses)}
}

// Clauses returns a copy of the clauses in evaluation order.
func (p EdgePredicate) Clauses() []Clause {
	return cloneClauses(p.clauses)
}

func (p EdgePredicate) IsEmpty() bool {
	return len(p.clauses) == 0
}

func (p EdgePredicate) Admits(e EdgeAttributes) bool {
	for i := range p.clauses {
		if p.clauses[i].excludes(e) {
			return false
		}
	}
	return true
}

func (c *Clause) excludes(e EdgeAttributes) bool {
	switch c.Kind {
	case ExcludeCategories:
		hw := e.GetHighwayType()
		for _, cat := range c.Categories {
			if cat == hw {
				return true
			}
		}
		return false
	case ExcludeTunnel:
		return e.IsTunnel()
	case ExcludeZone:
		return c.Zone.IntersectsLine(e.GetGeometry())
	case RequireTravelTime:
		return !e.HasTravelTime()
	default:
		return false
	}
}

func cloneClauses(clauses []Clause) []Clause {
	out := make([]Clause, len(clauses))
	for i, c := range clauses {
		out[i] = c
		if c.Categories != nil {
			out[i].Categories = append([]pkg.OsmHighwayType(nil), c.Categories...)
		}
	}
	return out
}
