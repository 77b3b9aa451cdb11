package crossval

import (
	"github.com/YuminosukeSato/seqlearn/eval"
	"github.com/YuminosukeSato/seqlearn/pkg/log"
)

// Option configures a CrossValidator.
type Option[T any, M Metric[M]] func(*CrossValidator[T, M])

// WithLogger sets the logger. The default is log.GetLogger().
func WithLogger[T any, M Metric[M]](l log.Logger) Option[T, M] {
	return func(cv *CrossValidator[T, M]) {
		if l != nil {
			cv.logger = l
		}
	}
}

// WithMonitors installs a factory for the evaluation monitors of each fold.
// The factory is called once per fold, possibly from several goroutines.
func WithMonitors[T any, M Metric[M]](factory func(fold int) []eval.Monitor[T]) Option[T, M] {
	return func(cv *CrossValidator[T, M]) {
		cv.monitors = factory
	}
}

// WithFoldListener registers fn to be called after each fold has been merged
// into the aggregate. Calls are serialized.
func WithFoldListener[T any, M Metric[M]](fn func(FoldResult[M])) Option[T, M] {
	return func(cv *CrossValidator[T, M]) {
		cv.listener = fn
	}
}
