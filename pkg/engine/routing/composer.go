package routing

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/lintang-b-s/wayroute/pkg/concurrent"
	"github.com/lintang-b-s/wayroute/pkg/constraint"
	"github.com/lintang-b-s/wayroute/pkg/datastructure"
	"github.com/lintang-b-s/wayroute/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxParallelLegs = 4

type RouteRequest struct {
	Points         []datastructure.GeoPoint
	AvoidMotorways bool
	Vehicle        *datastructure.VehicleProfile
	AvoidZones     []datastructure.AvoidZone
}

type ComposerConfig struct {
	CallTimeout     time.Duration
	MaxParallelLegs int
}

// Composer builds the distance optimal and the time optimal route through an ordered list of points.
type Composer struct {
	resolver        *PointResolver
	pathfinder      *LegPathfinder
	maxParallelLegs int
	log             *zap.Logger
}

func NewComposer(engine GraphEngine, cfg ComposerConfig, log *zap.Logger) *Composer {
	maxParallelLegs := cfg.MaxParallelLegs
	if maxParallelLegs <= 0 {
		maxParallelLegs = DefaultMaxParallelLegs
	}
	return &Composer{
		resolver:        NewPointResolver(engine, log),
		pathfinder:      NewLegPathfinder(engine, cfg.CallTimeout, log),
		maxParallelLegs: maxParallelLegs,
		log:             log,
	}
}

type metricOutcome struct {
	variant *datastructure.RouteVariant
	err     error
}

type legJob struct {
	from, to datastructure.ResolvedVertex
}

type legOutcome struct {
	segments []datastructure.PathSegment
	err      error
}

func (c *Composer) Compose(ctx context.Context, req RouteRequest) (*datastructure.RouteResult, error) {
	start := time.Now()
	defer func() {
		composeDuration.Observe(time.Since(start).Seconds())
	}()

	points, err := validateRequest(req)
	if err != nil {
		composeTotal.WithLabelValues(outcomeInvalid).Inc()
		return nil, err
	}

	resolved, err := c.resolver.ResolveAll(ctx, points)
	if err != nil {
		if _, ok := UnresolvedLabels(err); ok {
			composeTotal.WithLabelValues(outcomeUnresolved).Inc()
		} else {
			composeTotal.WithLabelValues(outcomeUpstream).Inc()
		}
		return nil, err
	}

	opts := constraint.Options{
		AvoidMotorways: req.AvoidMotorways,
		Vehicle:        req.Vehicle,
		AvoidZones:     req.AvoidZones,
	}
	predicate := constraint.Compile(opts)

	outcomes := make([]metricOutcome, len(datastructure.CostMetrics))
	// a failing metric must not cancel the other one, so no errgroup context here
	var g errgroup.Group
	for i, metric := range datastructure.CostMetrics {
		g.Go(func() error {
			variant, err := c.composeMetric(ctx, metric, resolved, constraint.ForMetric(predicate, metric))
			outcomes[i] = metricOutcome{variant: variant, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &datastructure.RouteResult{
		Constraints: echoConstraints(points, req),
	}
	upstreamErrs := make([]error, 0)
	for i, metric := range datastructure.CostMetrics {
		out := outcomes[i]
		switch {
		case out.err != nil:
			c.log.Error("route variant failed", zap.String("metric", string(metric)), zap.Error(out.err))
			variantTotal.WithLabelValues(string(metric), outcomeUpstream).Inc()
			upstreamErrs = append(upstreamErrs, out.err)
		case out.variant == nil:
			c.log.Info("no route for metric", zap.String("metric", string(metric)))
			variantTotal.WithLabelValues(string(metric), outcomeNoRoute).Inc()
		default:
			variantTotal.WithLabelValues(string(metric), outcomeOK).Inc()
			result.SetVariant(out.variant)
		}
	}

	if result.DistanceVariant == nil && result.TimeVariant == nil {
		if len(upstreamErrs) > 0 {
			composeTotal.WithLabelValues(outcomeUpstream).Inc()
			return nil, upstreamFailure(errors.Join(upstreamErrs...))
		}
		composeTotal.WithLabelValues(outcomeNoRoute).Inc()
		return nil, noRouteFound()
	}

	if result.DistanceVariant == nil || result.TimeVariant == nil {
		composeTotal.WithLabelValues(outcomePartial).Inc()
	} else {
		composeTotal.WithLabelValues(outcomeOK).Inc()
	}
	return result, nil
}

// composeMetric finds every leg under metric and stitches them. A nil variant with a nil error means no route.
func (c *Composer) composeMetric(ctx context.Context, metric datastructure.CostMetric,
	resolved []datastructure.ResolvedVertex, predicate constraint.EdgePredicate) (*datastructure.RouteVariant, error) {

	jobs := make([]legJob, 0, len(resolved)-1)
	for i := 0; i+1 < len(resolved); i++ {
		jobs = append(jobs, legJob{from: resolved[i], to: resolved[i+1]})
	}

	legOutcomes := concurrent.Map(c.maxParallelLegs, jobs, func(job legJob) legOutcome {
		if util.StopConcurrentOperation(ctx) {
			return legOutcome{err: ctx.Err()}
		}
		segments, err := c.pathfinder.FindLeg(ctx, job.from, job.to, metric, predicate)
		return legOutcome{segments: segments, err: err}
	})

	legs := make([]datastructure.Leg, len(jobs))
	for i, out := range legOutcomes {
		if out.err != nil {
			return nil, out.err
		}
		legs[i] = datastructure.Leg{
			From:     jobs[i].from.Point,
			To:       jobs[i].to.Point,
			Segments: out.segments,
		}
	}

	variant, ok := Stitch(metric, legs)
	if !ok {
		return nil, nil
	}
	return variant, nil
}

func validateRequest(req RouteRequest) ([]datastructure.GeoPoint, error) {
	if len(req.Points) < 2 {
		return nil, invalidInputf("at least 2 points are required, got %d", len(req.Points))
	}

	points := make([]datastructure.GeoPoint, len(req.Points))
	for i, p := range req.Points {
		label := datastructure.PointLabel(i, len(req.Points))
		if !validCoordinate(p.Lat, p.Lon) {
			return nil, invalidInputf("%s: invalid coordinate (%v, %v)", label, p.Lat, p.Lon)
		}
		points[i] = datastructure.NewGeoPoint(p.Lat, p.Lon, label)
	}

	for i, z := range req.AvoidZones {
		if !validCoordinate(z.CenterLat, z.CenterLon) {
			return nil, invalidInputf("avoid zone %d: invalid centre (%v, %v)", i, z.CenterLat, z.CenterLon)
		}
		if !util.IsFinite(z.RadiusMeters) || z.RadiusMeters < 0 {
			return nil, invalidInputf("avoid zone %d: radius must be a non negative number", i)
		}
	}

	if req.Vehicle != nil {
		if w := req.Vehicle.WidthMeters; w != nil && (!util.IsFinite(*w) || *w <= 0) {
			return nil, invalidInputf("vehicle width must be positive")
		}
		if h := req.Vehicle.HeightMeters; h != nil && (!util.IsFinite(*h) || *h <= 0) {
			return nil, invalidInputf("vehicle height must be positive")
		}
	}
	return points, nil
}

func validCoordinate(lat, lon float64) bool {
	return util.IsFinite(lat, lon) && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func echoConstraints(points []datastructure.GeoPoint, req RouteRequest) datastructure.EchoedConstraints {
	zones := make([]datastructure.AvoidZone, len(req.AvoidZones))
	for i, z := range req.AvoidZones {
		zones[i] = z.WithDefaultRadius(pkg.DEFAULT_AVOID_ZONE_RADIUS)
	}
	return datastructure.EchoedConstraints{
		Waypoints:      points,
		AvoidMotorways: req.AvoidMotorways,
		Vehicle:        req.Vehicle,
		AvoidZones:     zones,
	}
}
