package spatialmath

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeTestSphere(point r3.Vector, radius float64, label string) Geometry {
	s, _ := NewSphere(NewPoseFromPoint(point), radius, label)
	return s
}

func makeTestCapsule(o Orientation, point r3.Vector, radius, length float64) Geometry {
	c, _ := NewCapsule(NewPose(point, o), radius, length, "")
	return c
}

func TestGeometrySerializationJSON(t *testing.T) {
	orientation, err := NewOrientationConfig(&R4AA{Theta: math.Pi / 3, RX: 1})
	test.That(t, err, test.ShouldBeNil)
	translation := TranslationConfig{X: 0.1, Y: 0.2, Z: 0.3}

	testCases := []struct {
		name    string
		config  GeometryConfig
		success bool
	}{
		{"sphere", GeometryConfig{Type: "sphere", R: 1, TranslationOffset: translation, OrientationOffset: orientation, Label: "sphere"}, true},
		{"sphere bad dims", GeometryConfig{Type: "sphere", R: -1}, false},
		{"infer sphere", GeometryConfig{R: 1, OrientationOffset: orientation, Label: "infer sphere"}, true},
		{"c", GeometryConfig{Type: "capsule", L: 4, R: 1, TranslationOffset: translation, OrientationOffset: orientation, Label: "c"}, true},
		{"infer c", GeometryConfig{L: 4, R: 1, TranslationOffset: translation, Label: "infer c"}, true},
		{"c too short", GeometryConfig{Type: "capsule", L: 1, R: 1}, false},
		{"infer nothing", GeometryConfig{}, false},
		{"bad type", GeometryConfig{Type: "box"}, false},
	}

	pose := NewPoseFromPoint(r3.Vector{X: 1, Y: 1, Z: 1})
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			gc, err := testCase.config.ParseConfig()
			if testCase.success == false {
				test.That(t, err, test.ShouldNotBeNil)
				return
			}
			test.That(t, err, test.ShouldBeNil)
			data, err := gc.MarshalJSON()
			test.That(t, err, test.ShouldBeNil)
			config := GeometryConfig{}
			err = json.Unmarshal(data, &config)
			test.That(t, err, test.ShouldBeNil)
			newVc, err := config.ParseConfig()
			test.That(t, err, test.ShouldBeNil)
			test.That(t, gc.Transform(pose).AlmostEqual(newVc.Transform(pose)), test.ShouldBeTrue)
			test.That(t, config.Label, test.ShouldEqual, testCase.name)
		})
	}
}

func TestCapsuleLengthEqualsDiameter(t *testing.T) {
	g, err := NewCapsule(NewZeroPose(), 0.5, 1, "round")
	test.That(t, err, test.ShouldBeNil)
	_, ok := g.(*sphere)
	test.That(t, ok, test.ShouldBeTrue)
}

type geometryComparisonTestCase struct {
	testname   string
	geometries [2]Geometry
	expected   float64
}

func testGeometryCollision(t *testing.T, cases []geometryComparisonTestCase) {
	t.Helper()
	for _, c := range cases {
		for i := 0; i < 2; i++ {
			t.Run(c.testname, func(t *testing.T) {
				collides, err := c.geometries[i].CollidesWith(c.geometries[(i+1)%2])
				test.That(t, err, test.ShouldBeNil)
				test.That(t, collides, test.ShouldEqual, c.expected <= CollisionBuffer)
				distance, err := c.geometries[i].DistanceFrom(c.geometries[(i+1)%2])
				test.That(t, err, test.ShouldBeNil)
				test.That(t, distance, test.ShouldAlmostEqual, c.expected, 1e-9)
			})
		}
	}
}

func TestSphereVsSphere(t *testing.T) {
	cases := []geometryComparisonTestCase{
		{
			"separated",
			[2]Geometry{makeTestSphere(r3.Vector{}, 1, ""), makeTestSphere(r3.Vector{X: 3}, 1, "")},
			1,
		},
		{
			"touching",
			[2]Geometry{makeTestSphere(r3.Vector{}, 1, ""), makeTestSphere(r3.Vector{Y: 2}, 1, "")},
			0,
		},
		{
			"inside",
			[2]Geometry{makeTestSphere(r3.Vector{}, 1, ""), makeTestSphere(r3.Vector{Z: 0.5}, 1, "")},
			-1.5,
		},
	}
	testGeometryCollision(t, cases)
}

func TestCapsuleVsCapsule(t *testing.T) {
	alongX := &R4AA{Theta: math.Pi / 2, RY: 1}
	cases := []geometryComparisonTestCase{
		{
			"parallel separated",
			[2]Geometry{
				makeTestCapsule(NewZeroOrientation(), r3.Vector{}, 0.1, 1),
				makeTestCapsule(NewZeroOrientation(), r3.Vector{X: 0.5}, 0.1, 1),
			},
			0.3,
		},
		{
			"crossing",
			[2]Geometry{
				makeTestCapsule(NewZeroOrientation(), r3.Vector{}, 0.1, 1),
				makeTestCapsule(alongX, r3.Vector{Y: 0.15}, 0.1, 1),
			},
			-0.05,
		},
		{
			"end to end",
			[2]Geometry{
				makeTestCapsule(NewZeroOrientation(), r3.Vector{}, 0.1, 1),
				makeTestCapsule(NewZeroOrientation(), r3.Vector{Z: 1.5}, 0.1, 1),
			},
			0.5,
		},
	}
	testGeometryCollision(t, cases)
}

func TestCapsuleVsSphere(t *testing.T) {
	cases := []geometryComparisonTestCase{
		{
			"beside shaft",
			[2]Geometry{
				makeTestCapsule(NewZeroOrientation(), r3.Vector{}, 0.1, 1),
				makeTestSphere(r3.Vector{X: 0.5, Z: 0.2}, 0.1, ""),
			},
			0.3,
		},
		{
			"beyond cap",
			[2]Geometry{
				makeTestCapsule(NewZeroOrientation(), r3.Vector{}, 0.1, 1),
				makeTestSphere(r3.Vector{Z: -1}, 0.1, ""),
			},
			0.4,
		},
	}
	testGeometryCollision(t, cases)
}

func TestCapsuleTransform(t *testing.T) {
	c := makeTestCapsule(NewZeroOrientation(), r3.Vector{}, 0.1, 1)
	moved := c.Transform(NewPose(r3.Vector{X: 1}, &R4AA{Theta: math.Pi / 2, RY: 1}))
	other := makeTestCapsule(&R4AA{Theta: math.Pi / 2, RY: 1}, r3.Vector{X: 1}, 0.1, 1)
	test.That(t, moved.AlmostEqual(other), test.ShouldBeTrue)
	test.That(t, moved.Pose().Point().X, test.ShouldAlmostEqual, 1., 1e-9)
}
