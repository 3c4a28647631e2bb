package sampling

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTable     = errors.New("weighted table has no candidates")
	ErrLengthMismatch = errors.New("weighted table values and weights differ in length")
	ErrInvalidWeight  = errors.New("weighted table weight must be positive")
)

// WeightedTable is a validated set of candidates for a discrete draw.
// Weights do not need to sum to one.
type WeightedTable[T any] struct {
	values  []T
	weights []float64
	total   float64
}

// NewWeightedTable validates values and weights once. Every weight must be a
// positive finite number.
func NewWeightedTable[T any](values []T, weights []float64) (WeightedTable[T], error) {
	if len(values) == 0 {
		return WeightedTable[T]{}, ErrEmptyTable
	}
	if len(values) != len(weights) {
		return WeightedTable[T]{}, fmt.Errorf("%w: %d values, %d weights", ErrLengthMismatch, len(values), len(weights))
	}
	total := 0.0
	for i, w := range weights {
		// NaN fails every comparison, so test for the valid range.
		if !(w > 0) || w > maxWeight {
			return WeightedTable[T]{}, fmt.Errorf("%w: index %d has weight %v", ErrInvalidWeight, i, w)
		}
		total += w
	}
	return WeightedTable[T]{
		values:  append([]T(nil), values...),
		weights: append([]float64(nil), weights...),
		total:   total,
	}, nil
}

// MustWeightedTable is like NewWeightedTable but panics on invalid input. It
// is meant for package-level tables.
func MustWeightedTable[T any](values []T, weights []float64) WeightedTable[T] {
	t, err := NewWeightedTable(values, weights)
	if err != nil {
		panic(err)
	}
	return t
}

const maxWeight = 1e300

// Values returns a copy of the candidates in their declared order.
func (t WeightedTable[T]) Values() []T {
	return append([]T(nil), t.values...)
}

// Len reports the number of candidates.
func (t WeightedTable[T]) Len() int {
	return len(t.values)
}

// Pick draws one candidate with probability proportional to its weight.
func Pick[T any](s *Sampler, t WeightedTable[T]) T {
	r := s.unit() * t.total
	for i, w := range t.weights {
		if r < w {
			return t.values[i]
		}
		r -= w
	}
	// Floating point residue can leave r just above the final weight.
	return t.values[len(t.values)-1]
}

// HTTPStatusTable mirrors a plausible production mix: ~90% 2xx, 5% 4xx, 4% 5xx.
var HTTPStatusTable = MustWeightedTable(
	[]string{"101", "200", "201", "202", "204", "400", "405", "500", "501", "504"},
	[]float64{1, 80, 7.5, 1.5, 1, 2, 3, 3, 0.5, 0.5},
)

const (
	OutcomeFailure = "failure"
	OutcomeSuccess = "success"
)

// JobOutcomeTable is the final state distribution for simulated jobs.
var JobOutcomeTable = MustWeightedTable(
	[]string{OutcomeFailure, OutcomeSuccess},
	[]float64{0.1, 0.9},
)
