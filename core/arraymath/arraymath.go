// Package arraymath provides the vector operations shared by trainers and
// decoders of log-linear models: inner products, norms, log-sum-exp and argmax.
//
// All functions are pure. Inputs are never modified, except by Softmax when
// the caller passes the input as the destination.
package arraymath

import (
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Number is any built-in integer or floating point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// InnerProduct returns the sum of the elementwise products of a and b.
// It returns NaN when either vector is nil or the lengths differ, so callers
// must check the result with math.IsNaN. Two empty vectors yield 0.
func InnerProduct(a, b []float64) float64 {
	if a == nil || b == nil || len(a) != len(b) {
		return math.NaN()
	}
	return floats.Dot(a, b)
}

// L1Norm returns the sum of absolute values of v. Empty vectors yield 0.
func L1Norm(v []float64) float64 {
	return floats.Norm(v, 1)
}

// L2Norm returns the Euclidean norm of v. Empty vectors yield 0.
func L2Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// InvL2Norm returns 1 / L2Norm(v). A zero norm is a precondition violation.
func InvL2Norm(v []float64) (float64, error) {
	norm := L2Norm(v)
	if norm == 0 {
		return 0, errors.NewValueError("InvL2Norm", "vector has zero norm")
	}
	return 1 / norm, nil
}

// LogSumOfExps computes log(sum(exp(v_i))) without overflow by shifting every
// element by max(v) before exponentiating. A single element is returned
// unchanged and an empty vector yields -Inf, the log of an empty sum.
func LogSumOfExps(v []float64) float64 {
	switch len(v) {
	case 0:
		return math.Inf(-1)
	case 1:
		return v[0]
	}
	return floats.LogSumExp(v)
}

// Max returns the largest element of v.
func Max(v []float64) (float64, error) {
	if len(v) == 0 {
		return 0, errors.NewValueError("Max", "vector must not be empty")
	}
	return floats.Max(v), nil
}

// Argmax returns the index of the largest element of v. Ties go to the lowest index.
func Argmax(v []float64) (int, error) {
	if len(v) == 0 {
		return 0, errors.NewValueError("Argmax", "vector must not be empty")
	}
	return floats.MaxIdx(v), nil
}

// Softmax writes exp(scores_i - LogSumOfExps(scores)) into dst and returns it.
// dst is allocated when nil; passing scores as dst normalizes in place.
func Softmax(dst, scores []float64) ([]float64, error) {
	if len(scores) == 0 {
		return nil, errors.NewValueError("Softmax", "scores must not be empty")
	}
	if dst == nil {
		dst = make([]float64, len(scores))
	}
	if len(dst) != len(scores) {
		return nil, errors.NewValueError("Softmax", "destination length differs from scores")
	}
	lse := LogSumOfExps(scores)
	if math.IsInf(lse, -1) {
		return nil, errors.NewValueError("Softmax", "all scores are -Inf")
	}
	for i, s := range scores {
		dst[i] = math.Exp(s - lse)
	}
	return dst, nil
}

// ToDoubleArray converts values to a []float64 preserving order.
// Empty input yields a zero-length, non-nil slice.
func ToDoubleArray[N Number](values []N) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// ToIntArray converts values to an []int preserving order. Floating point
// values are truncated toward zero.
func ToIntArray[N Number](values []N) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
