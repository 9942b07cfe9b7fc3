package pgrouting

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lintang-b-s/wayroute/pkg/constraint"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// highway tag values are a closed set, this is a second line of defence
var categoryPattern = regexp.MustCompile(`^[a-z_]+$`)

var ErrInvalidIdentifier = errors.New("invalid sql identifier")

// Schema names the osm2pgrouting style tables.
// The edge table has columns gid, source, target, length_m, cost_s (null when the way has no travel time),
// name, highway, tunnel and the_geom (LineString, SRID 4326). The vertex table has id and the_geom.
type Schema struct {
	edgeTable   pgx.Identifier
	vertexTable pgx.Identifier
}

// NewSchema validates table names of the form table or schema.table.
func NewSchema(edgeTable, vertexTable string) (Schema, error) {
	edge, err := parseIdentifier(edgeTable)
	if err != nil {
		return Schema{}, err
	}
	vertex, err := parseIdentifier(vertexTable)
	if err != nil {
		return Schema{}, err
	}
	return Schema{edgeTable: edge, vertexTable: vertex}, nil
}

func parseIdentifier(name string) (pgx.Identifier, error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	for _, p := range parts {
		if !identifierPattern.MatchString(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return pgx.Identifier(parts), nil
}

func (s Schema) EdgeTable() string {
	return s.edgeTable.Sanitize()
}

func (s Schema) VertexTable() string {
	return s.vertexTable.Sanitize()
}

// pgr_dijkstra treats a negative cost as a missing edge
func costColumn(metric datastructure.CostMetric) string {
	if metric == datastructure.TimeMetric {
		return "COALESCE(cost_s, -1)"
	}
	return "length_m"
}

// RenderEdgeQuery renders the edges sql that pgr_dijkstra runs for metric under predicate.
// Every clause is rendered from typed values only: category names from the highway enum, numbers with strconv.
// Both directions get the same cost.
func RenderEdgeQuery(schema Schema, metric datastructure.CostMetric, predicate constraint.EdgePredicate) (string, error) {
	cost := costColumn(metric)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT gid AS id, source, target, %s AS cost, %s AS reverse_cost FROM %s",
		cost, cost, schema.EdgeTable())

	conditions := make([]string, 0)
	for _, c := range predicate.Clauses() {
		cond, err := renderClause(c)
		if err != nil {
			return "", err
		}
		conditions = append(conditions, cond)
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	return sb.String(), nil
}

func renderClause(c constraint.Clause) (string, error) {
	switch c.Kind {
	case constraint.ExcludeCategories:
		names := make([]string, 0, len(c.Categories))
		for _, cat := range c.Categories {
			name := cat.String()
			if !categoryPattern.MatchString(name) {
				return "", fmt.Errorf("invalid highway category %q", name)
			}
			names = append(names, "'"+name+"'")
		}
		if len(names) == 0 {
			return "TRUE", nil
		}
		return fmt.Sprintf("(highway IS NULL OR highway NOT IN (%s))", strings.Join(names, ", ")), nil
	case constraint.ExcludeTunnel:
		return "NOT COALESCE(tunnel, FALSE)", nil
	case constraint.ExcludeZone:
		lat, lon := c.Zone.GetCenter()
		return fmt.Sprintf("NOT ST_DWithin(the_geom::geography, ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography, %s)",
			formatFloat(lon), formatFloat(lat), formatFloat(c.Zone.GetRadiusMeters())), nil
	case constraint.RequireTravelTime:
		return "cost_s IS NOT NULL", nil
	default:
		return "", fmt.Errorf("unsupported clause %s", c.Kind)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func nearestVertexQuery(schema Schema) string {
	return fmt.Sprintf(`SELECT id,
	ST_Distance(the_geom::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS dist
FROM %s
WHERE ST_DWithin(the_geom::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
ORDER BY dist
LIMIT 1`, schema.VertexTable())
}

// shortestPathQuery joins pgr_dijkstra rows with edge attributes.
// edge geometry is flipped when the row traverses the edge from target to source.
func shortestPathQuery(schema Schema) string {
	return fmt.Sprintf(`SELECT d.seq, d.path_seq, d.node, d.edge, d.cost, d.agg_cost,
	w.name, w.length_m, w.highway, w.cost_s,
	ST_AsGeoJSON(CASE WHEN d.node = w.source THEN w.the_geom ELSE ST_Reverse(w.the_geom) END)
FROM pgr_dijkstra($1, $2::bigint, $3::bigint, directed => $4) AS d
LEFT JOIN %s AS w ON d.edge = w.gid
ORDER BY d.seq`, schema.EdgeTable())
}
