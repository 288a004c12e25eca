package motionplan

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"go.viam.com/dualarm/logging"
	"go.viam.com/dualarm/referenceframe"
)

// StateValidityChecker accepts or rejects configurations independently of any constraint manifold.
type StateValidityChecker interface {
	IsValid(x []referenceframe.Input) (bool, error)
}

// RobotPose is the scratch robot state a validity checker writes configurations into before querying collisions.
// referenceframe.RobotState implements it.
type RobotPose interface {
	GeometrySource
	SetJointPositions(names []string, values []referenceframe.Input) error
}

// SelfCollisionValidity rejects configurations in which two links collide, unless the pair is allowed.
// It owns its scratch pose, so one instance must not be shared between goroutines.
type SelfCollisionValidity struct {
	pose       RobotPose
	engine     CollisionEngine
	allowed    *AllowedCollisionSet
	jointNames []string
	stats      *ValidityStats
}

// NewSelfCollisionValidity returns a checker that assigns configurations to the named joints of pose, in order.
// A nil engine uses NewGeometricCollisionEngine.
func NewSelfCollisionValidity(
	pose RobotPose,
	jointNames []string,
	allowed *AllowedCollisionSet,
	engine CollisionEngine,
	logger logging.Logger,
) (*SelfCollisionValidity, error) {
	if pose == nil {
		return nil, errors.New("self collision validity needs a robot pose")
	}
	if len(jointNames) == 0 {
		return nil, errors.New("self collision validity needs at least one joint name")
	}
	if engine == nil {
		engine = NewGeometricCollisionEngine()
	}
	if allowed == nil {
		allowed = NewAllowedCollisionSet()
	}
	names := make([]string, len(jointNames))
	copy(names, jointNames)
	if logger != nil {
		logger.Debugw("self collision validity created", "joints", len(names), "allowed_pairs", allowed.Len())
	}
	return &SelfCollisionValidity{
		pose:       pose,
		engine:     engine,
		allowed:    allowed,
		jointNames: names,
	}, nil
}

// SetStats makes every later IsValid call record its outcome in stats. A nil stats stops recording.
func (v *SelfCollisionValidity) SetStats(stats *ValidityStats) {
	v.stats = stats
}

// AllowedCollisions returns the set of pairs exempt from rejection.
func (v *SelfCollisionValidity) AllowedCollisions() *AllowedCollisionSet {
	return v.allowed
}

// IsValid returns true if no disallowed pair of links collides at x. An error means x could not be evaluated:
// a wrong number of values is a shape error and any engine failure is a *CollisionCheckError.
func (v *SelfCollisionValidity) IsValid(x []referenceframe.Input) (bool, error) {
	valid, err := v.isValid(x)
	v.stats.Record(valid, err)
	return valid, err
}

func (v *SelfCollisionValidity) isValid(x []referenceframe.Input) (bool, error) {
	if err := v.setPose(x); err != nil {
		return false, err
	}
	collides, err := v.engine.CheckSelfCollision(v.pose, v.allowed)
	if err != nil {
		return false, NewCollisionCheckError(err)
	}
	return !collides, nil
}

// Collisions returns every disallowed colliding pair at x, with penetration depths.
func (v *SelfCollisionValidity) Collisions(x []referenceframe.Input) ([]Collision, error) {
	if err := v.setPose(x); err != nil {
		return nil, err
	}
	collisions, err := SelfCollisions(v.pose, v.allowed)
	if err != nil {
		return nil, NewCollisionCheckError(err)
	}
	return collisions, nil
}

func (v *SelfCollisionValidity) setPose(x []referenceframe.Input) error {
	if len(x) != len(v.jointNames) {
		return referenceframe.NewIncorrectDoFError(len(x), len(v.jointNames))
	}
	if err := v.pose.SetJointPositions(v.jointNames, x); err != nil {
		return NewCollisionCheckError(err)
	}
	return nil
}

// ValidityStats counts validity outcomes. It is owned by whoever runs the checks, and its counters may be read
// while another goroutine records.
type ValidityStats struct {
	checked atomic.Int64
	valid   atomic.Int64
	failed  atomic.Int64
}

// Record counts one outcome. A nil receiver ignores it.
func (s *ValidityStats) Record(valid bool, err error) {
	if s == nil {
		return
	}
	s.checked.Add(1)
	switch {
	case err != nil:
		s.failed.Add(1)
	case valid:
		s.valid.Add(1)
	}
}

// Checked returns the number of recorded checks.
func (s *ValidityStats) Checked() int64 {
	return s.checked.Load()
}

// Valid returns the number of checks that found no collision.
func (s *ValidityStats) Valid() int64 {
	return s.valid.Load()
}

// Failed returns the number of checks that could not be evaluated.
func (s *ValidityStats) Failed() int64 {
	return s.failed.Load()
}

// Invalid returns the number of checks that found a collision.
func (s *ValidityStats) Invalid() int64 {
	return s.Checked() - s.Valid() - s.Failed()
}
