package referenceframe

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func testJointSpace(t *testing.T) *JointSpace {
	t.Helper()
	js, err := NewJointSpace(
		[]string{"j1", "j4", "j6", "j4_inverted"},
		[]Limit{
			{Min: -2.8973, Max: 2.8973},
			{Min: -3.0718, Max: -0.0698},
			{Min: -0.0175, Max: 3.7525},
			{Min: -0.0698, Max: -3.0718},
		},
	)
	test.That(t, err, test.ShouldBeNil)
	return js
}

func TestNewJointSpace(t *testing.T) {
	_, err := NewJointSpace([]string{"a"}, []Limit{{-1, 1}, {-1, 1}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewJointSpace([]string{"a"}, []Limit{{1, 1}})
	test.That(t, err, test.ShouldNotBeNil)

	js := testJointSpace(t)
	test.That(t, js.Dimension(), test.ShouldEqual, 4)
	names := js.Names()
	names[0] = "changed"
	test.That(t, js.Names()[0], test.ShouldEqual, "j1")
}

func TestEnforceBoundsWrapsNegativeSpanJoint(t *testing.T) {
	js := testJointSpace(t)
	out, err := js.EnforceBounds([]Input{0, -7.0, 1, -7.0})
	test.That(t, err, test.ShouldBeNil)

	// -7.0 mod 3.002 = -0.996, which is already inside [-3.0718, -0.0698]
	test.That(t, out[1], test.ShouldAlmostEqual, -0.996, 1e-9)
	test.That(t, out[1], test.ShouldBeBetweenOrEqual, -3.0718, -0.0698)

	// listing the bounds the other way around gives the same interval and the same result
	test.That(t, out[3], test.ShouldAlmostEqual, -0.996, 1e-9)
}

func TestEnforceBounds(t *testing.T) {
	js := testJointSpace(t)
	for _, tc := range []struct {
		name     string
		joint    int
		in       float64
		expected float64
	}{
		{"in range untouched", 0, 1.5, 1.5},
		{"above upper wraps down", 0, 5.7, 5.7 - 5.7946},
		{"below lower wraps up", 2, -1, -1 + 3.77},
		{"just above upper", 2, 3.76, 3.76 - 3.77},
		{"positive value on all-negative joint", 1, 0.5, 0.5 - 3.002},
		{"single shift not enough", 1, 2.95, -3.0718 + (2.95 - 3.002 + 3.0718 - 3.002)},
		{"many spans away", 0, 100, math.Mod(100, 5.7946)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			x := []Input{0, -1, 1, -1}
			x[tc.joint] = tc.in
			out, err := js.EnforceBounds(x)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, out[tc.joint], test.ShouldAlmostEqual, tc.expected, 1e-9)
			ok, err := js.SatisfiesBounds(out)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, ok, test.ShouldBeTrue)
			// input untouched
			test.That(t, x[tc.joint], test.ShouldEqual, tc.in)
		})
	}
}

func TestEnforceBoundsIdempotent(t *testing.T) {
	js := testJointSpace(t)
	//nolint:gosec
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		x := make([]Input, js.Dimension())
		for j := range x {
			x[j] = (r.Float64() - 0.5) * 40
		}
		once, err := js.EnforceBounds(x)
		test.That(t, err, test.ShouldBeNil)
		twice, err := js.EnforceBounds(once)
		test.That(t, err, test.ShouldBeNil)
		equal, err := js.EqualStates(once, twice, 1e-9)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, equal, test.ShouldBeTrue)
		ok, err := js.SatisfiesBounds(once)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ok, test.ShouldBeTrue)
	}
}

func TestEnforceBoundsErrors(t *testing.T) {
	js := testJointSpace(t)
	_, err := js.EnforceBounds([]Input{0, 0, 0})
	test.That(t, errors.Is(err, ErrIncorrectDoF), test.ShouldBeTrue)
	_, err = js.EnforceBounds([]Input{0, 0, 0, 0, 0})
	test.That(t, errors.Is(err, ErrIncorrectDoF), test.ShouldBeTrue)
	_, err = js.EnforceBounds([]Input{0, math.NaN(), 0, 0})
	test.That(t, errors.Is(err, ErrNonFiniteInput), test.ShouldBeTrue)
	_, err = js.EnforceBounds([]Input{0, 0, math.Inf(1), 0})
	test.That(t, errors.Is(err, ErrNonFiniteInput), test.ShouldBeTrue)
}

func TestEqualStates(t *testing.T) {
	js := testJointSpace(t)
	a := []Input{0.1, -1, 2, -2}
	b := []Input{0.1, -1, 2, -2 + 5e-11}
	c := []Input{0.1, -1, 2.001, -2}

	for _, x := range [][]Input{a, b, c} {
		equal, err := js.EqualStates(x, x, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, equal, test.ShouldBeTrue)
	}

	for _, pair := range [][2][]Input{{a, b}, {a, c}, {b, c}} {
		forward, err := js.EqualStates(pair[0], pair[1], StateEqualityTolerance)
		test.That(t, err, test.ShouldBeNil)
		backward, err := js.EqualStates(pair[1], pair[0], StateEqualityTolerance)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, forward, test.ShouldEqual, backward)
	}

	equal, _ := js.EqualStates(a, b, StateEqualityTolerance)
	test.That(t, equal, test.ShouldBeTrue)
	equal, _ = js.EqualStates(a, c, StateEqualityTolerance)
	test.That(t, equal, test.ShouldBeFalse)

	_, err := js.EqualStates(a, a[:3], StateEqualityTolerance)
	test.That(t, errors.Is(err, ErrIncorrectDoF), test.ShouldBeTrue)
}

func TestRandomInputs(t *testing.T) {
	js := testJointSpace(t)
	//nolint:gosec
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		ok, err := js.SatisfiesBounds(js.RandomInputs(r))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ok, test.ShouldBeTrue)
	}
}
