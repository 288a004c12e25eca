package referenceframe

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"go.viam.com/dualarm/utils"
)

// StateEqualityTolerance is the per-component tolerance used when deduplicating configurations.
const StateEqualityTolerance = 1e-10

// JointSpace is a fixed-dimension configuration space with per-joint limits. Values outside a joint's limits
// are wrapped back into range modulo that joint's own span rather than clamped.
type JointSpace struct {
	names  []string
	limits []Limit
}

// NewJointSpace creates a JointSpace from ordered joint names and their limits.
// A limit whose Max is below its Min is accepted; see Wrap.
func NewJointSpace(names []string, limits []Limit) (*JointSpace, error) {
	if len(names) != len(limits) {
		return nil, errors.Errorf("have %d joint names but %d limits", len(names), len(limits))
	}
	for i, limit := range limits {
		if limit.Max == limit.Min || math.IsNaN(limit.Max-limit.Min) || math.IsInf(limit.Max-limit.Min, 0) {
			return nil, NewZeroSpanLimitError(i, limit)
		}
	}
	js := &JointSpace{
		names:  make([]string, len(names)),
		limits: make([]Limit, len(limits)),
	}
	copy(js.names, names)
	copy(js.limits, limits)
	return js, nil
}

// Dimension returns the number of joints in the space.
func (js *JointSpace) Dimension() int {
	return len(js.limits)
}

// Names returns a copy of the ordered joint names.
func (js *JointSpace) Names() []string {
	names := make([]string, len(js.names))
	copy(names, js.names)
	return names
}

// Limits returns a copy of the ordered joint limits.
func (js *JointSpace) Limits() []Limit {
	limits := make([]Limit, len(js.limits))
	copy(limits, js.limits)
	return limits
}

// EnforceBounds returns a new configuration in which every joint value has been wrapped into its limits.
// The input is not modified.
func (js *JointSpace) EnforceBounds(x []Input) ([]Input, error) {
	if err := js.checkShape(x); err != nil {
		return nil, err
	}
	out := make([]Input, len(x))
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrNonFiniteInput, "joint %s", js.names[i])
		}
		out[i] = js.limits[i].Wrap(v)
	}
	return out, nil
}

// EqualStates returns true iff every component of a and b differs by at most tol.
func (js *JointSpace) EqualStates(a, b []Input, tol float64) (bool, error) {
	if err := js.checkShape(a); err != nil {
		return false, err
	}
	if err := js.checkShape(b); err != nil {
		return false, err
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false, nil
		}
	}
	return true, nil
}

// SatisfiesBounds returns true iff every joint value lies within its closed limit interval.
func (js *JointSpace) SatisfiesBounds(x []Input) (bool, error) {
	if err := js.checkShape(x); err != nil {
		return false, err
	}
	for i, v := range x {
		if !js.limits[i].Contains(v) {
			return false, nil
		}
	}
	return true, nil
}

// RandomInputs samples a configuration uniformly within the limits of every joint.
func (js *JointSpace) RandomInputs(r *rand.Rand) []Input {
	out := make([]Input, len(js.limits))
	for i, limit := range js.limits {
		lo, hi := limit.bounds()
		out[i] = utils.SampleRandomFloatRange(lo, hi, r)
	}
	return out
}

func (js *JointSpace) checkShape(x []Input) error {
	if len(x) != len(js.limits) {
		return NewIncorrectDoFError(len(x), len(js.limits))
	}
	return nil
}

// bounds returns the algebraically smaller and larger ends of the limit.
func (l Limit) bounds() (float64, float64) {
	return math.Min(l.Min, l.Max), math.Max(l.Min, l.Max)
}

// Contains returns true if v lies in the closed interval spanned by the limit, in either orientation.
func (l Limit) Contains(v float64) bool {
	lo, hi := l.bounds()
	return v >= lo && v <= hi
}

// Wrap maps v into the limit modulo the limit's span. The remainder is taken with respect to the signed span
// Max-Min, then shifted once by the span magnitude toward whichever bound was exceeded. Values that are still
// out of range after that single shift, which can only happen for limits not containing zero, fall back to the
// unique representative in [lo, lo+span). Limits given with Max < Min are treated as the interval between them.
func (l Limit) Wrap(v float64) float64 {
	span := l.Max - l.Min
	width := math.Abs(span)
	lo, hi := l.bounds()

	w := math.Mod(v, span)
	if w < lo {
		w += width
	} else if w > hi {
		w -= width
	}
	if w < lo || w > hi {
		w = lo + floorMod(w-lo, width)
	}
	return w
}

func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	// m+b can round up to b for tiny negative m
	if m >= b {
		m = 0
	}
	return m
}
