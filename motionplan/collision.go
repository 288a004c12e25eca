package motionplan

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/dualarm/spatialmath"
)

// Collision is a pair of strings corresponding to names of Geometry objects in collision, and a penetrationDepth describing the Euclidean
// distance a Geometry would have to be moved to resolve the Collision.
type Collision struct {
	Name1, Name2     string
	PenetrationDepth float64
}

// collisionEntity is an object that is used in collision checking and contains a named geometry.
type collisionEntity struct {
	name     string
	geometry spatialmath.Geometry
}

// collisionEntities is an indexed set of labeled geometries.
type collisionEntities struct {
	entities []*collisionEntity
	indices  map[string]int
}

func newCollisionEntities(geometries []spatialmath.Geometry) (*collisionEntities, error) {
	entities := make([]*collisionEntity, len(geometries))
	indices := make(map[string]int, len(geometries))
	for i, geometry := range geometries {
		name := geometry.Label()
		if _, ok := indices[name]; ok {
			return nil, errors.Errorf("error creating collisionEntities, found geometry with duplicate name: %s", name)
		}
		entities[i] = &collisionEntity{name, geometry}
		indices[name] = i
	}
	return &collisionEntities{entities, indices}, nil
}

// count returns the number of collisionEntities in a CollisionEntities class.
func (ce *collisionEntities) count() int {
	return len(ce.entities)
}

// entityFromIndex returns the entity in the CollisionEntities class that corresponds to the given index.
func (ce *collisionEntities) entityFromIndex(index int) *collisionEntity {
	return ce.entities[index]
}

// indexFromName returns the index that corresponds to the given name. A negative return value means no such entity.
func (ce *collisionEntities) indexFromName(name string) int {
	if index, ok := ce.indices[name]; ok {
		return index
	}
	return -1
}

// collisionGraph is an upper triangular matrix of the distances between every pair of entities.
// Pairs which are never checked hold NaN.
type collisionGraph struct {
	entities  *collisionEntities
	distances [][]float64

	reportDistances bool
}

// newCollisionGraph checks every pair of entities not in allowed. When reportDistances is false it stops at the first
// collision found and only records the sign of each checked pair.
func newCollisionGraph(entities *collisionEntities, allowed *AllowedCollisionSet, reportDistances bool) (*collisionGraph, error) {
	cg := &collisionGraph{
		entities:        entities,
		distances:       make([][]float64, entities.count()),
		reportDistances: reportDistances,
	}
	for i := range cg.distances {
		cg.distances[i] = make([]float64, entities.count())
		for j := range cg.distances[i] {
			cg.distances[i][j] = math.NaN()
		}
	}
	for i := range cg.distances {
		xi := entities.entityFromIndex(i)
		for j := i + 1; j < len(cg.distances[i]); j++ {
			yj := entities.entityFromIndex(j)
			if allowed.Allowed(xi.name, yj.name) {
				continue
			}
			dist, err := cg.checkCollision(xi, yj)
			if err != nil {
				return nil, err
			}
			cg.distances[i][j] = dist
			if !reportDistances && dist <= spatialmath.CollisionBuffer {
				return cg, nil
			}
		}
	}
	return cg, nil
}

func (cg *collisionGraph) checkCollision(x, y *collisionEntity) (float64, error) {
	if cg.reportDistances {
		return x.geometry.DistanceFrom(y.geometry)
	}
	col, err := x.geometry.CollidesWith(y.geometry)
	if col {
		return -1, err
	}
	return 1, err
}

// collisionBetween returns a bool describing if the collisionGraph has an edge between the two entities that are specified by name.
func (cg *collisionGraph) collisionBetween(keyName, testName string) bool {
	i, j := cg.entities.indexFromName(keyName), cg.entities.indexFromName(testName)
	if i < 0 || j < 0 {
		return false
	}
	if i > j {
		i, j = j, i
	}
	return cg.distances[i][j] <= spatialmath.CollisionBuffer
}

// collisions returns a list of all the Collisions found. NaN entries never compare as collisions.
func (cg *collisionGraph) collisions() []Collision {
	var collisions []Collision
	for i := range cg.distances {
		for j := i + 1; j < len(cg.distances[i]); j++ {
			if cg.distances[i][j] <= spatialmath.CollisionBuffer {
				collisions = append(collisions, Collision{
					cg.entities.entityFromIndex(i).name,
					cg.entities.entityFromIndex(j).name,
					cg.distances[i][j],
				})
				if !cg.reportDistances {
					return collisions
				}
			}
		}
	}
	return collisions
}

// GeometrySource provides the current world-frame geometries of a robot. referenceframe.RobotState implements it.
type GeometrySource interface {
	Geometries() ([]spatialmath.Geometry, error)
}

// CollisionEngine decides whether a robot pose is in self collision, ignoring allowed pairs.
// A non-nil error means the pose could not be evaluated, not that it collides.
type CollisionEngine interface {
	CheckSelfCollision(pose GeometrySource, allowed *AllowedCollisionSet) (bool, error)
}

// geometricCollisionEngine checks every pair of link geometries directly.
type geometricCollisionEngine struct{}

// NewGeometricCollisionEngine returns a CollisionEngine that tests every disallowed pair of link geometries and
// stops at the first collision. It holds no state and may be shared.
func NewGeometricCollisionEngine() CollisionEngine {
	return geometricCollisionEngine{}
}

func (geometricCollisionEngine) CheckSelfCollision(pose GeometrySource, allowed *AllowedCollisionSet) (bool, error) {
	geometries, err := pose.Geometries()
	if err != nil {
		return false, err
	}
	entities, err := newCollisionEntities(geometries)
	if err != nil {
		return false, err
	}
	cg, err := newCollisionGraph(entities, allowed, false)
	if err != nil {
		return false, err
	}
	return len(cg.collisions()) > 0, nil
}

// SelfCollisions returns every disallowed pair of geometries of pose that are in collision, with their penetration
// depth. It is much slower than CheckSelfCollision and meant for diagnostics.
func SelfCollisions(pose GeometrySource, allowed *AllowedCollisionSet) ([]Collision, error) {
	geometries, err := pose.Geometries()
	if err != nil {
		return nil, err
	}
	entities, err := newCollisionEntities(geometries)
	if err != nil {
		return nil, err
	}
	cg, err := newCollisionGraph(entities, allowed, true)
	if err != nil {
		return nil, err
	}
	return cg.collisions(), nil
}

// LinkDistance returns the signed distance between two named geometries of pose.
func LinkDistance(pose GeometrySource, a, b string) (float64, error) {
	geometries, err := pose.Geometries()
	if err != nil {
		return 0, err
	}
	entities, err := newCollisionEntities(geometries)
	if err != nil {
		return 0, err
	}
	i, j := entities.indexFromName(a), entities.indexFromName(b)
	if i < 0 {
		return 0, newUnknownLinkError(a)
	}
	if j < 0 {
		return 0, newUnknownLinkError(b)
	}
	return entities.entityFromIndex(i).geometry.DistanceFrom(entities.entityFromIndex(j).geometry)
}
