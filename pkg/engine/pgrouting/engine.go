package pgrouting

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"github.com/lintang-b-s/wayroute/pkg/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

const (
	DefaultNearestCacheSize = 4096
	DefaultSnapRadiusMeters = 1000.0
)

// DB is the part of *pgxpool.Pool the engine uses.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type nearestKey struct {
	lat, lon float64
}

type nearestEntry struct {
	match routing.VertexMatch
	found bool
}

// Engine runs nearest vertex and shortest path queries on a PostGIS + pgRouting database.
type Engine struct {
	db               DB
	schema           Schema
	snapRadiusMeters float64
	nearestCache     *lru.Cache[nearestKey, nearestEntry]
	log              *zap.Logger

	nearestSQL      string
	shortestPathSQL string
}

func New(db DB, schema Schema, snapRadiusMeters float64, nearestCacheSize int, log *zap.Logger) (*Engine, error) {
	if snapRadiusMeters <= 0 {
		snapRadiusMeters = DefaultSnapRadiusMeters
	}
	if nearestCacheSize <= 0 {
		nearestCacheSize = DefaultNearestCacheSize
	}
	cache, err := lru.New[nearestKey, nearestEntry](nearestCacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		db:               db,
		schema:           schema,
		snapRadiusMeters: snapRadiusMeters,
		nearestCache:     cache,
		log:              log,
		nearestSQL:       nearestVertexQuery(schema),
		shortestPathSQL:  shortestPathQuery(schema),
	}, nil
}

func (e *Engine) NearestVertex(ctx context.Context, lat, lon float64) (routing.VertexMatch, bool, error) {
	key := nearestKey{lat: util.RoundFloat(lat, 6), lon: util.RoundFloat(lon, 6)}
	if entry, ok := e.nearestCache.Get(key); ok {
		return entry.match, entry.found, nil
	}

	var (
		id   int64
		dist float64
	)
	err := e.db.QueryRow(ctx, e.nearestSQL, lon, lat, e.snapRadiusMeters).Scan(&id, &dist)
	if errors.Is(err, pgx.ErrNoRows) {
		e.nearestCache.Add(key, nearestEntry{})
		return routing.VertexMatch{}, false, nil
	}
	if err != nil {
		return routing.VertexMatch{}, false, fmt.Errorf("nearest vertex: %w", err)
	}

	entry := nearestEntry{match: routing.VertexMatch{VertexID: id, DistanceMeters: dist}, found: true}
	e.nearestCache.Add(key, entry)
	return entry.match, true, nil
}

func (e *Engine) ShortestPath(ctx context.Context, query routing.ShortestPathQuery) ([]datastructure.PathSegment, error) {
	edgesSQL, err := RenderEdgeQuery(e.schema, query.Metric, query.Predicate)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.Query(ctx, e.shortestPathSQL, edgesSQL, query.Source, query.Target, query.Directed)
	if err != nil {
		return nil, fmt.Errorf("pgr_dijkstra: %w", err)
	}
	defer rows.Close()

	segments := make([]datastructure.PathSegment, 0)
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgr_dijkstra: %w", err)
	}
	return segments, nil
}

func (e *Engine) Ping(ctx context.Context) error {
	return e.db.Ping(ctx)
}

func scanSegment(rows pgx.Rows) (datastructure.PathSegment, error) {
	var (
		seg         datastructure.PathSegment
		name        *string
		length      *float64
		highway     *string
		travelTime  *float64
		geometryRaw *string
	)
	err := rows.Scan(&seg.Sequence, &seg.PathSequence, &seg.Node, &seg.Edge, &seg.StepCost, &seg.CumulativeCost,
		&name, &length, &highway, &travelTime, &geometryRaw)
	if err != nil {
		return seg, fmt.Errorf("scan path row: %w", err)
	}

	if name != nil {
		seg.RoadName = *name
	}
	if length != nil {
		seg.LengthMeters = *length
	}
	if highway != nil {
		seg.RoadCategory = *highway
	}
	if travelTime != nil {
		seg.TravelTimeSeconds = *travelTime
	}
	if geometryRaw != nil {
		seg.Geometry, err = decodeLineString([]byte(*geometryRaw))
		if err != nil {
			return seg, fmt.Errorf("edge %d geometry: %w", seg.Edge, err)
		}
	}
	return seg, nil
}

func decodeLineString(data []byte) (orb.LineString, error) {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	switch geom := g.Geometry().(type) {
	case orb.LineString:
		return geom, nil
	case orb.MultiLineString:
		ls := make(orb.LineString, 0)
		for _, part := range geom {
			for i, p := range part {
				if i == 0 && len(ls) > 0 && ls[len(ls)-1] == p {
					continue
				}
				ls = append(ls, p)
			}
		}
		return ls, nil
	default:
		return nil, fmt.Errorf("unexpected geometry type %s", g.Geometry().GeoJSONType())
	}
}
