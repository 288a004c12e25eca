// Package utils contains small numeric helpers shared across packages.
package utils

import (
	"math"
	"math/rand"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Clamp returns value restricted to the closed interval [min, max].
func Clamp(value, min, max float64) float64 {
	switch {
	case value < min:
		return min
	case value > max:
		return max
	default:
		return value
	}
}

// SampleRandomFloatRange samples a float uniformly from [min, max) using the given rand.Rand.
func SampleRandomFloatRange(min, max float64, r *rand.Rand) float64 {
	return min + r.Float64()*(max-min)
}
