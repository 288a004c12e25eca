package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrIncorrectDoF is returned, wrapped, whenever a configuration vector does not have the length its consumer requires.
var ErrIncorrectDoF = errors.New("incorrect number of inputs")

// ErrCircularReference is an error returned when a circular path is encountered when parsing a kinematic chain.
var ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

// ErrNeedOneEndEffector is an error returned when a model does not have exactly one end effector.
var ErrNeedOneEndEffector = errors.New("need exactly one end effector")

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// ErrNilGeometries is returned when a model reports neither link geometries nor an error.
var ErrNilGeometries = errors.New("model returned nil geometries")

// ErrNilPose is returned when a model reports neither a pose nor an error.
var ErrNilPose = errors.New("model returned a nil pose")

// ErrNonFiniteInput is returned when a configuration contains NaN or infinite values.
var ErrNonFiniteInput = errors.New("input is not finite")

// NewIncorrectDoFError returns an error indicating that the number of inputs given does not match the expected count.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Wrapf(ErrIncorrectDoF, "got %d inputs, expected %d", actual, expected)
}

// NewFrameNotInListOfTransformsError returns an error indicating that a frame of the given name
// is missing from the provided list of transforms.
func NewFrameNotInListOfTransformsError(frameName string) error {
	return fmt.Errorf("frame named '%s' not in the list of transforms", frameName)
}

// NewParentFrameNotInMapOfParentsError returns an error indicating that a parent frame is missing.
func NewParentFrameNotInMapOfParentsError(parentFrameName string) error {
	return fmt.Errorf("parent frame named '%s' not in the map of parents", parentFrameName)
}

// NewReservedWordError is used when a name that is reserved is used for a link or joint.
func NewReservedWordError(configType, reservedWord string) error {
	return fmt.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewUnsupportedJointTypeError is used when a joint type is not one of the supported kinds.
func NewUnsupportedJointTypeError(jointType string) error {
	return fmt.Errorf("unsupported joint type detected: %q", jointType)
}

// NewUnknownJointError is returned when a joint name is not part of a robot state.
func NewUnknownJointError(name string) error {
	return fmt.Errorf("no joint named %q", name)
}

// NewZeroSpanLimitError is returned when a joint has equal lower and upper limits and therefore cannot be wrapped.
func NewZeroSpanLimitError(index int, limit Limit) error {
	return fmt.Errorf("joint %d has zero span limit %v", index, limit)
}
