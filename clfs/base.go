// Package clfs defines the classifier contract and the classifiers that
// compose other classifiers: ensembles, decorators, label remapping,
// multiclass decomposition, cross-validation and feature selection.
//
// Every classifier exposes a state.Collection. The states registered by Base
// are present on all of them:
//
//	trained_values       disabled  values seen on the training data
//	trained_predictions  disabled  predictions on the training data
//	values               disabled  internal values behind the last prediction
//	predictions          enabled   labels of the last prediction
//
// A prediction for one sample is a label set. Leaf classifiers produce a
// single label; BinaryClassifier may produce several when a polarity covers
// several labels.
package clfs

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/core/model"
	"github.com/YuminosukeSato/gomvpa/core/state"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

// State names shared by classifiers and combiners.
const (
	StateTrainedValues      = "trained_values"
	StateTrainedPredictions = "trained_predictions"
	StateValues             = "values"
	StatePredictions        = "predictions"
	StateRawPredictions     = "raw_predictions"
	StateRawValues          = "raw_values"
	StateAllLabelCounts     = "all_label_counts"
	StateConfusion          = "confusion"
	StateSplitErrors        = "split_errors"
)

// Classifier is the train/predict contract implemented by leaf classifiers
// and by every composition node.
type Classifier interface {
	// Train fits the classifier to ds, replacing any previous fit.
	Train(ds *dataset.Dataset) error
	// Predict returns one label set per row of X.
	Predict(X mat.Matrix) ([]Prediction, error)
	// States returns the state registry of the classifier.
	States() *state.Collection
	// SupportsValues reports whether Predict can fill the values state.
	SupportsValues() bool
	// Clone returns an independent deep copy, used to stamp out prototypes.
	Clone() Classifier
}

// Prediction is the label set assigned to one sample.
type Prediction []float64

// Label returns the first label of the set.
func (p Prediction) Label() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[0]
}

// Contains reports whether label is in the set.
func (p Prediction) Contains(label float64) bool {
	for _, l := range p {
		if l == label {
			return true
		}
	}
	return false
}

// Predictions is the value type stored under the predictions states.
type Predictions []Prediction

// CloneState implements state.Cloner.
func (p Predictions) CloneState() any {
	out := make(Predictions, len(p))
	for i, pred := range p {
		out[i] = append(Prediction(nil), pred...)
	}
	return out
}

// Labels returns the first label of every prediction.
func (p Predictions) Labels() []float64 {
	out := make([]float64, len(p))
	for i, pred := range p {
		out[i] = pred.Label()
	}
	return out
}

// RawPredictions is the value type stored under raw_predictions: one entry
// per child classifier.
type RawPredictions [][]Prediction

// CloneState implements state.Cloner.
func (r RawPredictions) CloneState() any {
	out := make(RawPredictions, len(r))
	for i, preds := range r {
		out[i] = []Prediction(Predictions(preds).CloneState().(Predictions))
	}
	return out
}

// FromLabels wraps each label into a single-label prediction.
func FromLabels(labels []float64) []Prediction {
	out := make([]Prediction, len(labels))
	for i, l := range labels {
		out[i] = Prediction{l}
	}
	return out
}

// GetPredictions reads the predictions state of c.
func GetPredictions(c *state.Collection) ([]Prediction, error) {
	v, err := c.Get(StatePredictions)
	if err != nil {
		return nil, err
	}
	preds, ok := v.(Predictions)
	if !ok {
		return nil, errors.NewPreconditionError("GetPredictions",
			fmt.Sprintf("predictions state holds %T", v))
	}
	return preds, nil
}

// Base carries what every classifier has: a name, a unique id used in log
// records, the state registry and the trained-state manager. Concrete
// classifiers embed *Base.
type Base struct {
	name    string
	id      string
	states  *state.Collection
	manager *model.StateManager
}

// NewBase creates a Base registering the common classifier states.
func NewBase(name string) *Base {
	b := &Base{
		name:    name,
		id:      uuid.NewString(),
		states:  state.NewCollection(),
		manager: model.NewStateManager(),
	}
	b.states.MustRegister(StateTrainedValues, false, "Internal values for the trained values seen by the classifier")
	b.states.MustRegister(StateTrainedPredictions, false, "Internal values for the trained predictions seen by the classifier")
	b.states.MustRegister(StateValues, false, "Internal values seen by the classifier")
	b.states.MustRegister(StatePredictions, true, "Reported predicted values")
	return b
}

// CloneBase returns a Base with a fresh id and a copy of the states. The
// trained flag is not carried over.
func (b *Base) CloneBase() *Base {
	return &Base{
		name:    b.name,
		id:      uuid.NewString(),
		states:  b.states.Clone(),
		manager: model.NewStateManager(),
	}
}

// Name returns the classifier's type name.
func (b *Base) Name() string { return b.name }

// ID returns the unique id of this instance.
func (b *Base) ID() string { return b.id }

// States returns the state registry.
func (b *Base) States() *state.Collection { return b.states }

// Manager returns the trained-state manager.
func (b *Base) Manager() *model.StateManager { return b.manager }

// SupportsValues is false unless a classifier overrides it.
func (b *Base) SupportsValues() bool { return false }

// IsTrained reports whether Train succeeded at least once.
func (b *Base) IsTrained() bool { return b.manager.IsTrained() }

// Logger returns a logger tagged with the classifier name and id.
func (b *Base) Logger() log.Logger {
	return log.GetLoggerWithName(b.name).With(
		log.ModelNameKey, b.name,
		log.EstimatorIDKey, b.id,
	)
}

// MarkTrained records a successful training on ds.
func (b *Base) MarkTrained(ds *dataset.Dataset) {
	b.manager.SetTrained(ds.NFeatures(), ds.NSamples(), ds.UniqueLabels())
}

// SetPredictions stores preds under the predictions state.
func (b *Base) SetPredictions(preds []Prediction) {
	_ = b.states.Set(StatePredictions, Predictions(preds))
}

// SetValues stores v under the values state.
func (b *Base) SetValues(v any) {
	_ = b.states.Set(StateValues, v)
}

// SetTrainedPredictions stores preds under trained_predictions.
func (b *Base) SetTrainedPredictions(preds []Prediction) {
	_ = b.states.Set(StateTrainedPredictions, Predictions(preds))
}

// SetTrainedValues stores v under trained_values.
func (b *Base) SetTrainedValues(v any) {
	_ = b.states.Set(StateTrainedValues, v)
}

// String summarises the classifier and its states.
func (b *Base) String() string {
	return fmt.Sprintf("<%s %s>\n %s", b.name, b.id[:8], b.states)
}

// Abstract is a Classifier without an algorithm. Train and Predict fail
// with ErrNotImplemented.
type Abstract struct {
	*Base
}

// NewAbstract creates an Abstract classifier.
func NewAbstract() *Abstract {
	return &Abstract{Base: NewBase("Classifier")}
}

// Train implements Classifier.
func (a *Abstract) Train(*dataset.Dataset) error {
	return errors.Wrap(errors.ErrNotImplemented, "Classifier.Train")
}

// Predict implements Classifier.
func (a *Abstract) Predict(mat.Matrix) ([]Prediction, error) {
	return nil, errors.Wrap(errors.ErrNotImplemented, "Classifier.Predict")
}

// Clone implements Classifier.
func (a *Abstract) Clone() Classifier {
	return &Abstract{Base: a.CloneBase()}
}

// propagateEnabled enables on dst every state that is enabled on src and
// registered on dst, so that enabling a state on a decorator reaches the
// decorated classifier.
func propagateEnabled(src, dst *state.Collection) {
	for _, name := range src.EnabledNames() {
		if dst.Has(name) {
			_ = dst.Enable(name)
		}
	}
}

// uniqueSorted returns the distinct values of labels in ascending order.
func uniqueSorted(labels []float64) []float64 {
	seen := make(map[float64]struct{}, len(labels))
	out := make([]float64, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Float64s(out)
	return out
}

// cloneAll clones every classifier of clfs.
func cloneAll(clfs []Classifier) []Classifier {
	out := make([]Classifier, len(clfs))
	for i, c := range clfs {
		out[i] = c.Clone()
	}
	return out
}

// nRows returns the number of rows of X, or an error for empty input.
func nRows(op string, X mat.Matrix) (int, error) {
	if X == nil {
		return 0, errors.NewValidationError(op, "nil samples", nil)
	}
	r, _ := X.Dims()
	return r, nil
}
