package referenceframe

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Input is a single joint value: radians for revolute joints, meters for prismatic joints.
type Input = float64

// FloatsToInputs copies a slice of floats into a new slice of Inputs.
func FloatsToInputs(values []float64) []Input {
	inputs := make([]Input, len(values))
	copy(inputs, values)
	return inputs
}

// InputsL2Distance returns the euclidean distance between two input sets of equal length.
func InputsL2Distance(from, to []Input) (float64, error) {
	if len(from) != len(to) {
		return 0, NewIncorrectDoFError(len(to), len(from))
	}
	return floats.Distance(from, to, 2), nil
}

// InputsLinfDistance returns the largest absolute difference between two input sets of equal length.
func InputsLinfDistance(from, to []Input) (float64, error) {
	if len(from) != len(to) {
		return 0, NewIncorrectDoFError(len(to), len(from))
	}
	return floats.Distance(from, to, math.Inf(1)), nil
}

// SplitInputs partitions inputs into consecutive sub-slices of the given sizes. The sub-slices alias the input.
func SplitInputs(inputs []Input, sizes ...int) ([][]Input, error) {
	total := 0
	for _, size := range sizes {
		total += size
	}
	if len(inputs) != total {
		return nil, NewIncorrectDoFError(len(inputs), total)
	}
	out := make([][]Input, 0, len(sizes))
	idx := 0
	for _, size := range sizes {
		out = append(out, inputs[idx:idx+size:idx+size])
		idx += size
	}
	return out, nil
}
