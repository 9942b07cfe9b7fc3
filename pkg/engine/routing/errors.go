package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lintang-b-s/wayroute/pkg/util"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPointsNotResolved = errors.New("points not resolved")
	ErrNoRouteFound      = errors.New("no route found")
	ErrUpstreamFailure   = errors.New("upstream failure")
)

// PointsNotResolvedError lists the labels of the points that could not be snapped to the network, in input order.
type PointsNotResolvedError struct {
	Labels []string
}

func (e *PointsNotResolvedError) Error() string {
	return fmt.Sprintf("could not resolve points: %s", strings.Join(e.Labels, ", "))
}

func (e *PointsNotResolvedError) Unwrap() error {
	return ErrPointsNotResolved
}

func invalidInputf(format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	return util.WrapErrorf(fmt.Errorf("%w: %s", ErrInvalidInput, msg), util.ErrBadParamInput, "%s", msg)
}

func pointsNotResolved(labels []string) error {
	err := &PointsNotResolvedError{Labels: labels}
	return util.WrapErrorf(err, util.ErrNotFound, "%s", err.Error())
}

func noRouteFound() error {
	return util.WrapErrorf(ErrNoRouteFound, util.ErrNotFound, "no route found between the given points")
}

func upstreamFailure(orig error) error {
	return util.WrapErrorf(fmt.Errorf("%w: %w", ErrUpstreamFailure, orig), util.ErrInternalServerError,
		"routing backend failure")
}

// UnresolvedLabels returns the labels carried by a PointsNotResolvedError anywhere in err's chain.
func UnresolvedLabels(err error) ([]string, bool) {
	var perr *PointsNotResolvedError
	if errors.As(err, &perr) {
		return perr.Labels, true
	}
	return nil, false
}
