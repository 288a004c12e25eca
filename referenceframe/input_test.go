package referenceframe

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestInputDistances(t *testing.T) {
	a := FloatsToInputs([]float64{0, 0, 0})
	b := []Input{3, 4, 0}
	d, err := InputsL2Distance(a, b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldAlmostEqual, 5.)
	d, err = InputsLinfDistance(a, b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldAlmostEqual, 4.)

	_, err = InputsL2Distance(a, b[:2])
	test.That(t, errors.Is(err, ErrIncorrectDoF), test.ShouldBeTrue)
}

func TestSplitInputs(t *testing.T) {
	x := []Input{1, 2, 3, 4, 5}
	parts, err := SplitInputs(x, 2, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parts[0], test.ShouldResemble, []Input{1, 2})
	test.That(t, parts[1], test.ShouldResemble, []Input{3, 4, 5})

	// appending to a part must not clobber its neighbor
	_ = append(parts[0], 99)
	test.That(t, x[2], test.ShouldEqual, 3.)

	_, err = SplitInputs(x, 2, 2)
	test.That(t, errors.Is(err, ErrIncorrectDoF), test.ShouldBeTrue)
}
