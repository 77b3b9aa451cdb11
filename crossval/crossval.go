// Package crossval estimates model quality with k-fold cross-validation.
//
// The sample stream is split into k strided folds without buffering. Each
// fold trains a fresh model on k-1 parts, evaluates it on the held-out part
// and merges its accumulator into the aggregate. With more than one thread
// configured the folds run on a bounded pool, each on a private cursor
// obtained through stream.Reopener; the aggregate does not depend on the
// number of workers.
package crossval

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/YuminosukeSato/seqlearn/core/model"
	"github.com/YuminosukeSato/seqlearn/core/parallel"
	"github.com/YuminosukeSato/seqlearn/core/params"
	"github.com/YuminosukeSato/seqlearn/core/stream"
	"github.com/YuminosukeSato/seqlearn/eval"
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
	"github.com/YuminosukeSato/seqlearn/pkg/log"
)

// CrossValidator runs k-fold cross-validation for one trainer configuration.
// It may be reused for several runs but a single run must not share its
// sample stream with other goroutines.
type CrossValidator[T any, M Metric[M]] struct {
	trainer   model.Trainer[T]
	registry  *model.Registry[T]
	params    *params.TrainingParameters
	threads   int
	newMetric func() M
	scorer    eval.Scorer[T, M]

	logger   log.Logger
	monitors func(fold int) []eval.Monitor[T]
	listener func(FoldResult[M])
}

// New creates a cross-validator. A nil p uses params.Defaults(). Every
// argument and parameter is validated here, before any training happens.
func New[T any, M Metric[M]](
	trainer model.Trainer[T],
	p *params.TrainingParameters,
	newMetric func() M,
	scorer eval.Scorer[T, M],
	opts ...Option[T, M],
) (*CrossValidator[T, M], error) {
	if trainer == nil {
		return nil, errors.NewValidationError("trainer", "must not be nil", nil)
	}
	if newMetric == nil {
		return nil, errors.NewValidationError("newMetric", "must not be nil", nil)
	}
	if scorer == nil {
		return nil, errors.NewValidationError("scorer", "must not be nil", nil)
	}
	if p == nil {
		p = params.Defaults()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	threads, err := p.Threads()
	if err != nil {
		return nil, err
	}

	cv := &CrossValidator[T, M]{
		trainer:   trainer,
		params:    p,
		threads:   threads,
		newMetric: newMetric,
		scorer:    scorer,
		logger:    log.GetLogger(),
	}
	for _, opt := range opts {
		opt(cv)
	}
	cv.logger = cv.logger.With(log.ComponentKey, "crossval", log.AlgorithmKey, p.Algorithm())
	return cv, nil
}

// NewFromRegistry creates a cross-validator whose trainer is the one
// registered in reg for the Algorithm parameter of p. The lookup is repeated
// at the start of every run.
func NewFromRegistry[T any, M Metric[M]](
	reg *model.Registry[T],
	p *params.TrainingParameters,
	newMetric func() M,
	scorer eval.Scorer[T, M],
	opts ...Option[T, M],
) (*CrossValidator[T, M], error) {
	if reg == nil {
		return nil, errors.NewValidationError("registry", "must not be nil", nil)
	}
	if p == nil {
		p = params.Defaults()
	}
	trainer, err := reg.For(p)
	if err != nil {
		return nil, err
	}
	cv, err := New(trainer, p, newMetric, scorer, opts...)
	if err != nil {
		return nil, err
	}
	cv.registry = reg
	return cv, nil
}

// Workers returns the number of folds that run concurrently for k folds.
func (cv *CrossValidator[T, M]) Workers(k int) int {
	if cv.threads < k {
		return cv.threads
	}
	return k
}

// Evaluate partitions samples into k folds, trains and evaluates each and
// returns the merged result. It blocks until every fold has finished.
//
// If a fold fails, the failure with the lowest fold index is returned as an
// *errors.FoldError, the remaining folds are cancelled and no result is
// returned. The caller keeps ownership of samples; it is reset but not closed.
func (cv *CrossValidator[T, M]) Evaluate(ctx context.Context, samples stream.Stream[T], k int) (*Result[M], error) {
	start := time.Now()

	partitioner, err := NewPartitioner(samples, k)
	if err != nil {
		return nil, err
	}
	trainer := cv.trainer
	if cv.registry != nil {
		if trainer, err = cv.registry.For(cv.params); err != nil {
			return nil, err
		}
	}

	workers := cv.Workers(k)
	if workers > 1 {
		ok, err := reopenable(samples)
		if err != nil {
			cv.logger.Error("cannot reopen sample stream", err, log.OperationKey, log.OperationCrossValidate)
			return nil, errors.Wrap(err, "reopen sample stream")
		}
		if !ok {
			cv.logger.Warn("sample stream cannot be reopened, running folds sequentially",
				log.FoldsKey, k, log.WorkersKey, workers,
				log.SuggestionKey, "implement stream.Reopener on the sample stream to run folds in parallel")
			workers = 1
		}
	}

	logger := cv.logger.With(log.FoldsKey, k, log.WorkersKey, workers)
	logger.Info("cross-validation started")

	var (
		mu    sync.Mutex
		total = cv.newMetric()
		folds = make([]FoldResult[M], k)
	)
	body := func(ctx context.Context, i int) error {
		var (
			fold *Fold[T]
			err  error
		)
		if workers > 1 {
			var ok bool
			fold, ok, err = partitioner.Isolated(i)
			if err == nil && !ok {
				err = stream.ErrNotReopenable
			}
		} else {
			fold, err = partitioner.Fold(i)
		}
		if err != nil {
			return errors.NewFoldError(i, k, errors.PhasePartition, err)
		}
		defer fold.Close()

		res, err := cv.runFold(ctx, trainer, fold)
		if err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		total.Merge(res.Metric)
		folds[i] = res
		logger.Debug("fold completed",
			log.FoldKey, i,
			log.TrainSamplesKey, res.TrainSamples,
			log.TestSamplesKey, res.TestSamples,
			log.ScoreKey, res.Score(),
			log.DurationMsKey, (res.TrainTime + res.EvalTime).Milliseconds(),
		)
		if cv.listener != nil {
			cv.listener(res)
		}
		return nil
	}

	if workers > 1 {
		err = parallel.ForEach(ctx, k, workers, body)
	} else {
		err = parallel.Sequential(ctx, k, body)
	}
	if err != nil {
		logger.Error("cross-validation failed", append([]any{err}, failureFields(err)...)...)
		return nil, err
	}
	// the caller's stream is left at its first sample
	if err := samples.Reset(); err != nil {
		return nil, err
	}

	result := &Result[M]{
		K:       k,
		Workers: workers,
		Metric:  total,
		Folds:   folds,
		Elapsed: time.Since(start),
	}
	logger.Info("cross-validation finished",
		log.ScoreKey, total.Value(),
		log.DurationMsKey, result.Elapsed.Milliseconds(),
	)
	return result, nil
}

// runFold trains on the fold's training stream and evaluates on its test
// stream. Errors are returned as *errors.FoldError.
func (cv *CrossValidator[T, M]) runFold(ctx context.Context, trainer model.Trainer[T], fold *Fold[T]) (FoldResult[M], error) {
	res := FoldResult[M]{Index: fold.Index}
	fail := func(phase string, err error) (FoldResult[M], error) {
		return res, errors.NewFoldError(fold.Index, fold.K, phase, err)
	}

	train := &countingStream[T]{Stream: fold.Train}
	trainStart := time.Now()
	var m model.Model[T]
	err := errors.SafeExecute(fmt.Sprintf("fold %d train", fold.Index), func() error {
		var err error
		m, err = trainer.Train(ctx, train, cv.params)
		return err
	})
	res.TrainTime = time.Since(trainStart)
	switch {
	case err != nil && train.failure != nil:
		return fail(errors.PhasePartition, err)
	case err != nil:
		return fail(errors.PhaseTrain, err)
	case m == nil:
		return fail(errors.PhaseTrain, errors.NewValueError("Train", "trainer returned a nil model"))
	}
	res.TrainSamples = train.n

	var monitors []eval.Monitor[T]
	if cv.monitors != nil {
		monitors = cv.monitors(fold.Index)
	}
	test := &countingStream[T]{Stream: fold.Test}
	acc := cv.newMetric()
	evalStart := time.Now()
	err = errors.SafeExecute(fmt.Sprintf("fold %d evaluate", fold.Index), func() error {
		return eval.New(m, cv.scorer, monitors...).Evaluate(ctx, test, acc)
	})
	res.EvalTime = time.Since(evalStart)
	switch {
	case err != nil && test.failure != nil:
		return fail(errors.PhasePartition, err)
	case err != nil:
		return fail(errors.PhaseEvaluate, err)
	}
	res.TestSamples = test.n
	res.Metric = acc
	return res, nil
}

// reopenable reports whether s hands out independent cursors. An error means
// s is a Reopener whose Reopen failed.
func reopenable[T any](s stream.Stream[T]) (bool, error) {
	cursor, ok, err := stream.Reopen(s)
	if err != nil || !ok {
		return false, err
	}
	return true, cursor.Close()
}

// failureFields describes a failed run for the error log.
func failureFields(err error) []any {
	fields := []any{log.OperationKey, log.OperationCrossValidate}
	var foldErr *errors.FoldError
	if !errors.As(err, &foldErr) {
		return append(fields, log.ErrorTypeKey, fmt.Sprintf("%T", err))
	}
	errType := "FoldError"
	var panicErr *errors.PanicError
	if errors.As(err, &panicErr) {
		errType = "PanicError"
	}
	return append(fields,
		log.FoldKey, foldErr.Fold,
		log.PhaseKey, foldErr.Phase,
		log.ErrorTypeKey, errType,
	)
}

// countingStream counts the samples read since the last Reset and remembers
// a failure of the underlying stream.
type countingStream[T any] struct {
	stream.Stream[T]
	n       int
	failure error
}

func (c *countingStream[T]) Read() (T, error) {
	item, err := c.Stream.Read()
	switch {
	case err == nil:
		c.n++
	case err != io.EOF:
		c.failure = err
	}
	return item, err
}

func (c *countingStream[T]) Reset() error {
	c.n = 0
	return c.Stream.Reset()
}
