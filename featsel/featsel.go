// Package featsel selects informative features of a dataset.
package featsel

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/gomvpa/core/state"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/measures"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

// State names of a FeatureSelection.
const (
	StateSelectedIDs = "selected_ids"
	StateSensitivity = "sensitivity"
)

// FeatureSelection reduces the features of a training dataset and applies
// the same reduction to an optional test dataset.
type FeatureSelection interface {
	// Select returns train and test restricted to the chosen features.
	// test may be nil, in which case the second result is nil.
	Select(train, test *dataset.Dataset) (*dataset.Dataset, *dataset.Dataset, error)
	// States exposes selected_ids and sensitivity, both disabled by
	// default.
	States() *state.Collection
	// Clone returns a selection with the same configuration and its own
	// states.
	Clone() FeatureSelection
}

// ElementSelector picks feature ids from a score vector.
type ElementSelector interface {
	// Choose returns the selected ids in ascending order.
	Choose(scores []float64) ([]int, error)
}

// SensitivityBasedFeatureSelection keeps the features a selector picks from
// the sensitivity computed on the training dataset.
type SensitivityBasedFeatureSelection struct {
	measure  measures.Measure
	selector ElementSelector
	states   *state.Collection
}

// NewSensitivityBasedFeatureSelection combines a measure and a selector.
func NewSensitivityBasedFeatureSelection(m measures.Measure, s ElementSelector) *SensitivityBasedFeatureSelection {
	states := state.NewCollection()
	states.MustRegister(StateSelectedIDs, false, "Ids of the selected features")
	states.MustRegister(StateSensitivity, false, "Sensitivity computed on the training dataset")
	return &SensitivityBasedFeatureSelection{measure: m, selector: s, states: states}
}

// States implements FeatureSelection.
func (f *SensitivityBasedFeatureSelection) States() *state.Collection {
	return f.states
}

// Clone implements FeatureSelection. Measure and selector are shared; they
// hold configuration only.
func (f *SensitivityBasedFeatureSelection) Clone() FeatureSelection {
	return &SensitivityBasedFeatureSelection{
		measure:  f.measure,
		selector: f.selector,
		states:   f.states.Clone(),
	}
}

// Select implements FeatureSelection. A multi-row sensitivity is reduced to
// the per-feature maximum before selection.
func (f *SensitivityBasedFeatureSelection) Select(train, test *dataset.Dataset) (*dataset.Dataset, *dataset.Dataset, error) {
	sens, err := f.measure.Compute(train)
	if err != nil {
		return nil, nil, errors.Wrap(err, "SensitivityBasedFeatureSelection")
	}
	_ = f.states.Set(StateSensitivity, sens)

	ids, err := f.selector.Choose(reduceMax(sens))
	if err != nil {
		return nil, nil, err
	}
	_ = f.states.Set(StateSelectedIDs, append([]int(nil), ids...))

	log.GetLoggerWithName("SensitivityBasedFeatureSelection").Debug("Selected features",
		log.OperationKey, log.OperationSelect,
		log.FeaturesKey, train.NFeatures(),
		log.SelectedFeaturesKey, len(ids),
	)

	wdata, err := train.SelectFeatures(ids)
	if err != nil {
		return nil, nil, err
	}
	if test == nil {
		return wdata, nil, nil
	}
	tdata, err := test.SelectFeatures(ids)
	if err != nil {
		return nil, nil, err
	}
	return wdata, tdata, nil
}

func reduceMax(sens *measures.Sensitivity) []float64 {
	out := sens.Row(0)
	for i := 1; i < sens.NRows(); i++ {
		for j, v := range sens.Row(i) {
			out[j] = math.Max(out[j], v)
		}
	}
	return out
}

// FixedNElementsSelector chooses the N highest scores.
type FixedNElementsSelector struct {
	N int
}

// NewFixedNElementsSelector creates a selector keeping n features.
func NewFixedNElementsSelector(n int) *FixedNElementsSelector {
	return &FixedNElementsSelector{N: n}
}

// Choose implements ElementSelector.
func (s *FixedNElementsSelector) Choose(scores []float64) ([]int, error) {
	if s.N <= 0 {
		return nil, errors.NewValidationError("N", "must be positive", s.N)
	}
	if s.N > len(scores) {
		return nil, errors.NewValidationError("N", "exceeds the number of features", s.N)
	}
	return topIDs(scores, s.N), nil
}

// FractionTailSelector chooses the highest fraction of scores, at least
// one.
type FractionTailSelector struct {
	Fraction float64
}

// NewFractionTailSelector creates a selector keeping fraction of the
// features.
func NewFractionTailSelector(fraction float64) *FractionTailSelector {
	return &FractionTailSelector{Fraction: fraction}
}

// Choose implements ElementSelector.
func (s *FractionTailSelector) Choose(scores []float64) ([]int, error) {
	if s.Fraction <= 0 || s.Fraction > 1 {
		return nil, errors.NewValidationError("Fraction", "must be in (0, 1]", s.Fraction)
	}
	if len(scores) == 0 {
		return nil, errors.ErrEmptyData
	}
	n := int(math.Floor(float64(len(scores)) * s.Fraction))
	if n < 1 {
		n = 1
	}
	return topIDs(scores, n), nil
}

// topIDs returns the ids of the n largest scores in ascending id order.
// Among equal scores lower ids win.
func topIDs(scores []float64, n int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	ids := append([]int(nil), order[:n]...)
	sort.Ints(ids)
	return ids
}
