package crossval

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Metric is an accumulator that can absorb another accumulator of the same
// kind and reduce to a single score.
type Metric[M any] interface {
	Merge(other M)
	Value() float64
}

// FoldResult is the outcome of one fold.
type FoldResult[M Metric[M]] struct {
	Index        int
	TrainSamples int
	TestSamples  int
	Metric       M
	TrainTime    time.Duration
	EvalTime     time.Duration
}

// Score returns the fold's scalar score.
func (f FoldResult[M]) Score() float64 {
	return f.Metric.Value()
}

// Result is the aggregate of a cross-validation run. Metric holds the merge of
// every fold's accumulator; Folds is ordered by fold index.
type Result[M Metric[M]] struct {
	K       int
	Workers int
	Metric  M
	Folds   []FoldResult[M]
	Elapsed time.Duration
}

// Scores returns the per-fold scores in fold order.
func (r *Result[M]) Scores() []float64 {
	scores := make([]float64, len(r.Folds))
	for i, f := range r.Folds {
		scores[i] = f.Score()
	}
	return scores
}

// MeanScore returns the mean of the per-fold scores, or 0 without folds.
func (r *Result[M]) MeanScore() float64 {
	if len(r.Folds) == 0 {
		return 0
	}
	return stat.Mean(r.Scores(), nil)
}

// StdScore returns the sample standard deviation of the per-fold scores, or 0
// when there are fewer than two folds.
func (r *Result[M]) StdScore() float64 {
	if len(r.Folds) <= 1 {
		return 0
	}
	return stat.StdDev(r.Scores(), nil)
}

// BestFold returns the index of the fold with the highest score, or -1.
func (r *Result[M]) BestFold() int {
	best := -1
	for i, f := range r.Folds {
		if best < 0 || f.Score() > r.Folds[best].Score() {
			best = i
		}
	}
	if best < 0 {
		return -1
	}
	return r.Folds[best].Index
}

func (r *Result[M]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-fold cross-validation (%d workers, %s)\n", r.K, r.Workers, r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "%v\n", r.Metric)
	fmt.Fprintf(&b, "Fold scores: mean %.5f, std %.5f\n", r.MeanScore(), r.StdScore())
	for _, f := range r.Folds {
		fmt.Fprintf(&b, "  fold %d: %.5f (train %d, test %d)\n", f.Index, f.Score(), f.TrainSamples, f.TestSamples)
	}
	return b.String()
}
