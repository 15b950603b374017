// Package measures computes featurewise sensitivities of a dataset.
package measures

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// Measure maps a dataset to one or more rows of featurewise scores.
type Measure interface {
	Compute(ds *dataset.Dataset) (*Sensitivity, error)
}

// Sensitivity holds featurewise scores. Each row of Scores is one map over
// the features of the measured dataset.
type Sensitivity struct {
	// Scores has one row per map and one column per feature.
	Scores *mat.Dense
	// Targets tags the rows, e.g. the comparison label of a compound
	// measure. Nil for single-row results.
	Targets []float64
	// FeatureAttrs holds additional per-feature vectors such as p-values.
	FeatureAttrs map[string][]float64
}

// NRows returns the number of score maps.
func (s *Sensitivity) NRows() int {
	r, _ := s.Scores.Dims()
	return r
}

// NFeatures returns the number of features covered by each map.
func (s *Sensitivity) NFeatures() int {
	_, c := s.Scores.Dims()
	return c
}

// Row returns a copy of the i-th score map.
func (s *Sensitivity) Row(i int) []float64 {
	return mat.Row(nil, i, s.Scores)
}

// Attr returns the feature attribute name.
func (s *Sensitivity) Attr(name string) ([]float64, error) {
	v, ok := s.FeatureAttrs[name]
	if !ok {
		return nil, errors.NewValidationError("attr", "unknown feature attribute", name)
	}
	return v, nil
}

// String summarises the shape of the sensitivity.
func (s *Sensitivity) String() string {
	return fmt.Sprintf("Sensitivity / %d x %d", s.NRows(), s.NFeatures())
}
