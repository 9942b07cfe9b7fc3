package osmparser

type NodeType uint8

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

type NodeCoord struct {
	lat float64
	lon float64
}

func NewNodeCoord(lat, lon float64) NodeCoord {
	return NodeCoord{lat, lon}
}

type node struct {
	id    int64
	coord NodeCoord
}

// wayAttributes are the tags of one osm way copied onto every edge cut from it.
type wayAttributes struct {
	wayId   int64
	name    string
	highway string
	tunnel  bool
	bridge  bool
	speed   float64 // km/h
	noMotor bool
}

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]struct{}{
		"motorway":       {},
		"motorway_link":  {},
		"trunk":          {},
		"trunk_link":     {},
		"primary":        {},
		"primary_link":   {},
		"secondary":      {},
		"secondary_link": {},
		"residential":    {},
		"service":        {},
		"tertiary":       {},
		"tertiary_link":  {},
		"road":           {},
		"track":          {},
		"unclassified":   {},
		"living_street":  {},
		"motorroad":      {},
	}

	//https://wiki.openstreetmap.org/wiki/Key:barrier
	// a barrier with access=no splits the street into two disconnected edges
	acceptedBarrierType = map[string]struct{}{
		"bollard":        {},
		"swing_gate":     {},
		"jersey_barrier": {},
		"lift_gate":      {},
		"block":          {},
		"gate":           {},
	}
)
