package motionplan

import (
	"fmt"

	"github.com/pkg/errors"
)

// errNilPose is wrapped into a KinematicsError when a provider returns neither a pose nor an error.
var errNilPose = errors.New("kinematics provider returned a nil pose")

// KinematicsError is returned when the forward kinematics of one arm cannot be evaluated.
type KinematicsError struct {
	Arm string
	Err error
}

// NewKinematicsError wraps a forward kinematics failure of the named arm.
func NewKinematicsError(arm string, err error) error {
	if err == nil {
		err = errNilPose
	}
	return &KinematicsError{Arm: arm, Err: err}
}

func (e *KinematicsError) Error() string {
	return fmt.Sprintf("forward kinematics of %s arm failed: %v", e.Arm, e.Err)
}

// Unwrap returns the provider's error.
func (e *KinematicsError) Unwrap() error {
	return e.Err
}

// CollisionCheckError is returned when the collision engine could not evaluate a configuration.
// It is distinct from the configuration being in collision.
type CollisionCheckError struct {
	Err error
}

// NewCollisionCheckError wraps a collision engine failure.
func NewCollisionCheckError(err error) error {
	return &CollisionCheckError{Err: err}
}

func (e *CollisionCheckError) Error() string {
	return fmt.Sprintf("self collision check failed: %v", e.Err)
}

// Unwrap returns the engine's error.
func (e *CollisionCheckError) Unwrap() error {
	return e.Err
}

func newUnknownLinkError(name string) error {
	return errors.Errorf("no geometry named %q", name)
}
