package spatialmath

import (
	"github.com/golang/geo/r3"

	"go.viam.com/dualarm/utils"
)

const floatEpsilon = 1e-12

// ClosestPointSegmentPoint takes a line segment defined by two points and a third point, and returns the point on the
// segment which is closest to the third point.
func ClosestPointSegmentPoint(segA, segB, pt r3.Vector) r3.Vector {
	ab := segB.Sub(segA)
	denom := ab.Norm2()
	if denom < floatEpsilon {
		return segA
	}
	t := utils.Clamp(pt.Sub(segA).Dot(ab)/denom, 0, 1)
	return segA.Add(ab.Mul(t))
}

// DistToLineSegment takes a line segment defined by pt1 and pt2, plus some query point, and returns the
// cartesian distance from the query point to the closest point on the line segment.
func DistToLineSegment(pt1, pt2, query r3.Vector) float64 {
	return query.Sub(ClosestPointSegmentPoint(pt1, pt2, query)).Norm()
}

// ClosestPointsSegmentSegment returns the pair of points, one on each segment, that are closest to each other.
// Degenerate segments are treated as points.
func ClosestPointsSegmentSegment(ap1, ap2, bp1, bp2 r3.Vector) (r3.Vector, r3.Vector) {
	d1 := ap2.Sub(ap1)
	d2 := bp2.Sub(bp1)
	r := ap1.Sub(bp1)
	a := d1.Norm2()
	e := d2.Norm2()
	f := d2.Dot(r)

	if a <= floatEpsilon && e <= floatEpsilon {
		return ap1, bp1
	}
	if a <= floatEpsilon {
		return ap1, ClosestPointSegmentPoint(bp1, bp2, ap1)
	}
	c := d1.Dot(r)
	if e <= floatEpsilon {
		return ClosestPointSegmentPoint(ap1, ap2, bp1), bp1
	}

	b := d1.Dot(d2)
	denom := a*e - b*b
	s := 0.
	// parallel segments pick an arbitrary s and let the clamping below sort it out
	if denom > floatEpsilon {
		s = utils.Clamp((b*f-c*e)/denom, 0, 1)
	}
	t := (b*s + f) / e
	switch {
	case t < 0:
		t = 0
		s = utils.Clamp(-c/a, 0, 1)
	case t > 1:
		t = 1
		s = utils.Clamp((b-c)/a, 0, 1)
	}
	return ap1.Add(d1.Mul(s)), bp1.Add(d2.Mul(t))
}

// SegmentDistanceToSegment will compute the distance between two line segments.
func SegmentDistanceToSegment(ap1, ap2, bp1, bp2 r3.Vector) float64 {
	pa, pb := ClosestPointsSegmentSegment(ap1, ap2, bp1, bp2)
	return pa.Sub(pb).Norm()
}
