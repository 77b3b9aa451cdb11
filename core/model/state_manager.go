package model

import (
	"sync"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// StateManager tracks whether a model finished training, in a thread-safe
// manner. Models embed it by composition and call RequireFitted before
// decoding.
type StateManager struct {
	mu     sync.RWMutex
	fitted bool

	// counts observed while training
	nLabels  int
	nSamples int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the model has been trained.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model as trained on nSamples samples with nLabels distinct labels.
func (s *StateManager) SetFitted(nLabels, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nLabels = nLabels
	s.nSamples = nSamples
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nLabels = 0
	s.nSamples = 0
}

// Dimensions returns the number of labels and samples seen during training.
func (s *StateManager) Dimensions() (nLabels, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nLabels, s.nSamples
}

// RequireFitted returns a NotFittedError naming modelName and method if the
// model has not been trained.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// ModelState is a snapshot of the fitted state, used for logging and debugging.
type ModelState struct {
	Fitted   bool `json:"fitted"`
	NLabels  int  `json:"n_labels,omitempty"`
	NSamples int  `json:"n_samples,omitempty"`
}

// State returns a snapshot of the current state.
func (s *StateManager) State() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		Fitted:   s.fitted,
		NLabels:  s.nLabels,
		NSamples: s.nSamples,
	}
}

// WithState executes fn with the state locked for reading.
func (s *StateManager) WithState(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}
