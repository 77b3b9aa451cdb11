package model

import (
	"sort"
	"sync"

	"github.com/YuminosukeSato/seqlearn/core/params"
	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Registry maps algorithm names to trainers. Registration is explicit; there
// is no package-level registry.
type Registry[T any] struct {
	mu       sync.RWMutex
	trainers map[string]Trainer[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{trainers: make(map[string]Trainer[T])}
}

// Register binds trainer to algorithm, replacing any previous binding.
func (r *Registry[T]) Register(algorithm string, trainer Trainer[T]) error {
	if algorithm == "" {
		return errors.NewValidationError(params.AlgorithmKey, "algorithm name must not be empty", algorithm)
	}
	if trainer == nil {
		return errors.NewValidationError("trainer", "must not be nil", algorithm)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trainers[algorithm] = trainer
	return nil
}

// Lookup returns the trainer registered for algorithm.
func (r *Registry[T]) Lookup(algorithm string) (Trainer[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trainer, ok := r.trainers[algorithm]
	if !ok {
		return nil, errors.NewValidationError(params.AlgorithmKey, "no trainer registered", algorithm)
	}
	return trainer, nil
}

// For returns the trainer selected by the Algorithm parameter of p.
func (r *Registry[T]) For(p *params.TrainingParameters) (Trainer[T], error) {
	return r.Lookup(p.Algorithm())
}

// Algorithms returns the registered algorithm names in sorted order.
func (r *Registry[T]) Algorithms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.trainers))
	for name := range r.trainers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
