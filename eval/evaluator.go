// Package eval drives a trained model over a stream of reference samples and
// scores its predictions into a metric accumulator.
package eval

import (
	"context"
	"io"

	"github.com/YuminosukeSato/seqlearn/core/model"
	"github.com/YuminosukeSato/seqlearn/core/stream"
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Scorer adds the comparison of one reference with its prediction to acc and
// reports whether the prediction was entirely correct.
type Scorer[T, M any] func(acc M, reference, predicted T) bool

// Monitor observes every evaluated sample.
type Monitor[T any] interface {
	CorrectlyClassified(reference, predicted T)
	Misclassified(reference, predicted T)
}

// Evaluator evaluates one model. It only reads from the model and the stream.
type Evaluator[T, M any] struct {
	model    model.Model[T]
	scorer   Scorer[T, M]
	monitors []Monitor[T]
}

// New creates an evaluator for m.
func New[T, M any](m model.Model[T], scorer Scorer[T, M], monitors ...Monitor[T]) *Evaluator[T, M] {
	return &Evaluator[T, M]{model: m, scorer: scorer, monitors: monitors}
}

// EvaluateSample predicts reference, scores the prediction into acc and
// notifies the monitors.
func (e *Evaluator[T, M]) EvaluateSample(acc M, reference T) error {
	predicted, err := e.model.Predict(reference)
	if err != nil {
		return err
	}
	correct := e.scorer(acc, reference, predicted)
	for _, m := range e.monitors {
		if correct {
			m.CorrectlyClassified(reference, predicted)
		} else {
			m.Misclassified(reference, predicted)
		}
	}
	return nil
}

// Evaluate reads samples until io.EOF and evaluates each into acc. It stops
// with the context's error when ctx is cancelled between samples.
func (e *Evaluator[T, M]) Evaluate(ctx context.Context, samples stream.Stream[T], acc M) error {
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		reference, err := samples.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read sample %d", n)
		}
		if err := e.EvaluateSample(acc, reference); err != nil {
			return errors.Wrapf(err, "predict sample %d", n)
		}
	}
}
