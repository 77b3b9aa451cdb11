// Package log defines standard attribute keys for training and evaluation runs.
//
// Using these keys keeps log records from the partitioner, the evaluator and
// the cross-validator queryable with the same filters. Keys follow a
// hierarchical naming convention (e.g. "cv.fold", "data.samples").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model being trained, e.g. "NaiveBayesTagger".
	ModelNameKey = "model.name"

	// AlgorithmKey records the training algorithm selected through the
	// "Algorithm" training parameter, e.g. "MAXENT", "PERCEPTRON".
	AlgorithmKey = "model.algorithm"

	// OperationKey specifies the operation being performed.
	// Standard values: "train", "cross_validate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase in which a fold failed, one of the
	// errors.Phase* values.
	PhaseKey = "ml.phase"
)

// Cross-validation context
const (
	// FoldKey is the zero-based index of the fold a record belongs to.
	FoldKey = "cv.fold"

	// FoldsKey is the total number of folds (k).
	FoldsKey = "cv.folds"

	// WorkersKey is the size of the fold worker pool.
	WorkersKey = "cv.workers"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples read from a stream.
	SamplesKey = "data.samples"

	// TrainSamplesKey is the number of samples a fold trained on.
	TrainSamplesKey = "data.train_samples"

	// TestSamplesKey is the number of held-out samples a fold evaluated.
	TestSamplesKey = "data.test_samples"
)

// Performance and quality
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ScoreKey records the scalar quality summary (F-measure or accuracy).
	ScoreKey = "metrics.score"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides a hint for resolving an issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationTrain         = "train"
	OperationCrossValidate = "cross_validate"
)
