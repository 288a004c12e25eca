package spatialmath

import (
	"fmt"

	"github.com/pkg/errors"
)

var errGeometryTypeUnsupported = errors.New("unsupported Geometry type")

func newBadGeometryDimensionsError(g Geometry) error {
	return fmt.Errorf("invalid dimension(s) for Geometry type %T", g)
}

func newBadCapsuleLengthError(length, radius float64) error {
	return fmt.Errorf("capsule length %f must be at least twice its radius %f", length, radius)
}

func newCollisionTypeUnsupportedError(g1, g2 Geometry) error {
	return fmt.Errorf("collisions between %T and %T are not supported", g1, g2)
}

func newGeometryTypeUnsupportedError(geomType string) error {
	return errors.Errorf("%q geometry type is unsupported", geomType)
}

func newOrientationTypeUnsupportedError(orientationType string) error {
	return errors.Errorf("%q orientation type is unsupported", orientationType)
}
