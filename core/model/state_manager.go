// Package model provides the trained-state bookkeeping shared by classifiers.
package model

import (
	"sync"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// StateManager tracks whether a classifier has been trained, in a
// thread-safe manner. Classifiers hold one by composition.
type StateManager struct {
	trained bool
	mu      sync.RWMutex

	nFeatures int
	nSamples  int
	labels    []float64
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsTrained returns whether the classifier has been trained.
func (s *StateManager) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

// SetTrained marks the classifier as trained on a dataset of the given
// shape and label set.
func (s *StateManager) SetTrained(nFeatures, nSamples int, labels []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = true
	s.nFeatures = nFeatures
	s.nSamples = nSamples
	s.labels = append([]float64(nil), labels...)
}

// Reset forgets the trained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = false
	s.nFeatures = 0
	s.nSamples = 0
	s.labels = nil
}

// GetDimensions returns the number of features and samples seen during training.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// TrainedLabels returns a copy of the unique labels seen during training.
func (s *StateManager) TrainedLabels() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.labels...)
}

// RequireTrained returns a NotTrainedError naming model and method if the
// classifier has not been trained.
func (s *StateManager) RequireTrained(modelName, method string) error {
	if !s.IsTrained() {
		return errors.NewNotTrainedError(modelName, method)
	}
	return nil
}

// RequireFeatures checks that X has as many columns as the training data.
func (s *StateManager) RequireFeatures(op string, nFeatures int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.trained && s.nFeatures != nFeatures {
		return errors.NewShapeMismatchError(op, s.nFeatures, nFeatures, 1)
	}
	return nil
}
