// Package params holds the training parameters handed to trainers and the
// cross-validator.
//
// Parameters are a flat string map with well-known keys and defaults. Values
// are parsed on access, so an unparsable value surfaces as a ValidationError
// from Validate or from the typed getter that reads it. TrainingParameters is
// immutable: Set returns a modified copy.
package params

import (
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/cpuid/v2"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Well-known parameter keys.
const (
	AlgorithmKey   = "Algorithm"
	TrainerTypeKey = "TrainerType"
	IterationsKey  = "Iterations"
	CutoffKey      = "Cutoff"
	ThreadsKey     = "Threads"

	// perceptron
	StepSizeKey            = "StepSize"
	ToleranceKey           = "Tolerance"
	UseSkippedAveragingKey = "UseSkippedAveraging"

	// quasi-Newton
	L1CostKey       = "L1Cost"
	L2CostKey       = "L2Cost"
	NumOfUpdatesKey = "NumOfUpdates"
	MaxFctEvalKey   = "MaxFctEval"

	PrintMessagesKey = "PrintMessages"
)

// Algorithm names.
const (
	AlgorithmMaxent     = "MAXENT"
	AlgorithmMaxentQN   = "MAXENT_QN"
	AlgorithmPerceptron = "PERCEPTRON"
	AlgorithmNaiveBayes = "NAIVEBAYES"
)

// Trainer types.
const (
	TrainerTypeEvent    = "Event"
	TrainerTypeSequence = "Sequence"
)

// ThreadsAuto resolves to the number of logical CPU cores.
const ThreadsAuto = "auto"

// Default values.
const (
	DefaultIterations = 100
	DefaultCutoff     = 5
	DefaultThreads    = 1
)

var knownAlgorithms = map[string]bool{
	AlgorithmMaxent:     true,
	AlgorithmMaxentQN:   true,
	AlgorithmPerceptron: true,
	AlgorithmNaiveBayes: true,
}

// TrainingParameters is an immutable set of training settings.
type TrainingParameters struct {
	values map[string]string
}

// Defaults returns the default training parameters.
func Defaults() *TrainingParameters {
	return &TrainingParameters{values: map[string]string{
		AlgorithmKey:   AlgorithmMaxent,
		TrainerTypeKey: TrainerTypeEvent,
		IterationsKey:  strconv.Itoa(DefaultIterations),
		CutoffKey:      strconv.Itoa(DefaultCutoff),
		ThreadsKey:     strconv.Itoa(DefaultThreads),
	}}
}

// New returns the defaults overridden by values.
func New(values map[string]string) *TrainingParameters {
	p := Defaults()
	for k, v := range values {
		p.values[k] = v
	}
	return p
}

// Set returns a copy of p with key set to value.
func (p *TrainingParameters) Set(key, value string) *TrainingParameters {
	out := &TrainingParameters{values: p.Map()}
	out.values[key] = value
	return out
}

// Map returns a copy of all parameters.
func (p *TrainingParameters) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Keys returns the parameter keys in sorted order.
func (p *TrainingParameters) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the raw value of key.
func (p *TrainingParameters) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// StringParam returns the value of key or def when it is unset.
func (p *TrainingParameters) StringParam(key, def string) string {
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

// IntParam parses key as an integer, returning def when it is unset.
func (p *TrainingParameters) IntParam(key string, def int) (int, error) {
	v, ok := p.values[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, errors.NewValidationError(key, "must be an integer", v)
	}
	return n, nil
}

// FloatParam parses key as a float, returning def when it is unset.
func (p *TrainingParameters) FloatParam(key string, def float64) (float64, error) {
	v, ok := p.values[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def, errors.NewValidationError(key, "must be a number", v)
	}
	return f, nil
}

// BoolParam parses key as a boolean, returning def when it is unset.
func (p *TrainingParameters) BoolParam(key string, def bool) (bool, error) {
	v, ok := p.values[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, errors.NewValidationError(key, "must be true or false", v)
	}
	return b, nil
}

// Algorithm returns the configured algorithm name.
func (p *TrainingParameters) Algorithm() string {
	return p.StringParam(AlgorithmKey, AlgorithmMaxent)
}

// TrainerType returns the configured trainer type.
func (p *TrainingParameters) TrainerType() string {
	return p.StringParam(TrainerTypeKey, TrainerTypeEvent)
}

// Iterations returns the number of training iterations.
func (p *TrainingParameters) Iterations() (int, error) {
	return p.IntParam(IterationsKey, DefaultIterations)
}

// Cutoff returns the minimum feature count.
func (p *TrainingParameters) Cutoff() (int, error) {
	return p.IntParam(CutoffKey, DefaultCutoff)
}

// Threads returns the number of fold workers. "auto" resolves to the number
// of logical cores reported by cpuid.
func (p *TrainingParameters) Threads() (int, error) {
	v, ok := p.values[ThreadsKey]
	if ok && strings.EqualFold(strings.TrimSpace(v), ThreadsAuto) {
		return logicalCores(), nil
	}
	n, err := p.IntParam(ThreadsKey, DefaultThreads)
	if err != nil {
		return DefaultThreads, err
	}
	if n < 1 {
		return DefaultThreads, errors.NewValidationError(ThreadsKey, "must be at least 1", n)
	}
	return n, nil
}

func logicalCores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	// cpuid reports 0 on architectures it cannot probe
	return runtime.NumCPU()
}

// Validate checks every well-known key that is present.
func (p *TrainingParameters) Validate() error {
	if alg := p.Algorithm(); !knownAlgorithms[alg] {
		return errors.NewValidationError(AlgorithmKey, "unknown algorithm", alg)
	}
	switch tt := p.TrainerType(); tt {
	case TrainerTypeEvent, TrainerTypeSequence:
	default:
		return errors.NewValidationError(TrainerTypeKey, "must be Event or Sequence", tt)
	}

	iterations, err := p.Iterations()
	if err != nil {
		return err
	}
	if iterations <= 0 {
		return errors.NewValidationError(IterationsKey, "must be positive", iterations)
	}
	cutoff, err := p.Cutoff()
	if err != nil {
		return err
	}
	if cutoff < 0 {
		return errors.NewValidationError(CutoffKey, "must not be negative", cutoff)
	}
	if _, err := p.Threads(); err != nil {
		return err
	}

	for _, key := range []string{StepSizeKey, ToleranceKey, L1CostKey, L2CostKey} {
		if _, err := p.FloatParam(key, 0); err != nil {
			return err
		}
	}
	for _, key := range []string{NumOfUpdatesKey, MaxFctEvalKey} {
		if _, err := p.IntParam(key, 0); err != nil {
			return err
		}
	}
	for _, key := range []string{UseSkippedAveragingKey, PrintMessagesKey} {
		if _, err := p.BoolParam(key, false); err != nil {
			return err
		}
	}
	return nil
}

// Namespace returns the parameters stored under "ns.<key>" with the prefix
// removed. The result carries no defaults.
func (p *TrainingParameters) Namespace(ns string) *TrainingParameters {
	prefix := ns + "."
	out := &TrainingParameters{values: map[string]string{}}
	for k, v := range p.values {
		if strings.HasPrefix(k, prefix) {
			out.values[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

// String renders the parameters as sorted key=value pairs.
func (p *TrainingParameters) String() string {
	var b strings.Builder
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(p.values[k])
	}
	return b.String()
}
