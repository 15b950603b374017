package clfs

import (
	"context"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gomvpa/core/parallel"
	"github.com/YuminosukeSato/gomvpa/core/state"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/metrics"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
	"github.com/YuminosukeSato/gomvpa/splitters"
)

// ErrorFunc scores predicted labels against target labels.
type ErrorFunc func(predicted, target []float64) (float64, error)

// TransferError measures how well a classifier generalizes to a test
// dataset.
type TransferError struct {
	clf       Classifier
	errorFunc ErrorFunc
	labels    []float64
	states    *state.Collection
}

// TransferOption configures a TransferError.
type TransferOption func(*TransferError)

// WithErrorFunc replaces the default metrics.ErrorRate.
func WithErrorFunc(fn ErrorFunc) TransferOption {
	return func(t *TransferError) {
		t.errorFunc = fn
	}
}

// WithConfusionLabels fixes the rows and columns of the confusion matrix.
// By default they are the labels present in the targets or predictions.
func WithConfusionLabels(labels []float64) TransferOption {
	return func(t *TransferError) {
		t.labels = uniqueSorted(labels)
	}
}

// NewTransferError creates a TransferError for clf.
func NewTransferError(clf Classifier, opts ...TransferOption) *TransferError {
	t := &TransferError{
		clf:       clf,
		errorFunc: metrics.ErrorRate,
		states:    state.NewCollection(),
	}
	t.states.MustRegister(StateConfusion, false, "Confusion matrix of the last test dataset, rows are targets")
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Classifier returns the evaluated classifier.
func (t *TransferError) Classifier() Classifier { return t.clf }

// States exposes the confusion state.
func (t *TransferError) States() *state.Collection { return t.states }

// Compute trains the classifier on train when it is not nil, predicts the
// samples of test and returns the error against the test labels.
func (t *TransferError) Compute(test, train *dataset.Dataset) (float64, error) {
	if test == nil {
		return 0, errors.NewValidationError("test", "no test dataset", nil)
	}
	if train != nil {
		if err := t.clf.Train(train); err != nil {
			return 0, errors.Wrap(err, "TransferError")
		}
	}

	preds, err := t.clf.Predict(test.Samples())
	if err != nil {
		return 0, errors.Wrap(err, "TransferError")
	}
	predicted := Predictions(preds).Labels()
	target := test.Labels()

	if t.states.Enabled(StateConfusion) {
		labels := t.labels
		if labels == nil {
			labels = uniqueSorted(append(append([]float64(nil), target...), predicted...))
		}
		cm, err := metrics.ConfusionMatrix(target, predicted, labels)
		if err != nil {
			return 0, err
		}
		_ = t.states.Set(StateConfusion, cm)
	}
	return t.errorFunc(predicted, target)
}

// Confusion returns the confusion matrix of the last Compute.
func (t *TransferError) Confusion() (*mat.Dense, error) {
	v, err := t.states.Get(StateConfusion)
	if err != nil {
		return nil, err
	}
	return v.(*mat.Dense), nil
}

func (t *TransferError) clone() *TransferError {
	return &TransferError{
		clf:       t.clf.Clone(),
		errorFunc: t.errorFunc,
		labels:    t.labels,
		states:    t.states.Clone(),
	}
}

// CrossValidatedTransferError evaluates a TransferError on every split of
// a splitter. Each split uses its own clone of the classifier.
type CrossValidatedTransferError struct {
	transfer *TransferError
	splitter splitters.Splitter
	workers  int
	states   *state.Collection
}

// CVOption configures a CrossValidatedTransferError.
type CVOption func(*CrossValidatedTransferError)

// WithWorkers evaluates up to n splits concurrently. Values below 2 keep
// the evaluation sequential.
func WithWorkers(n int) CVOption {
	return func(cv *CrossValidatedTransferError) {
		cv.workers = n
	}
}

// NewCrossValidatedTransferError creates a cross-validation of te over the
// splits produced by s.
func NewCrossValidatedTransferError(te *TransferError, s splitters.Splitter, opts ...CVOption) *CrossValidatedTransferError {
	cv := &CrossValidatedTransferError{
		transfer: te,
		splitter: s,
		states:   state.NewCollection(),
	}
	cv.states.MustRegister(StateSplitErrors, true, "Error of every split")
	cv.states.MustRegister(StateConfusion, false, "Confusion matrix summed over the splits")
	for _, opt := range opts {
		opt(cv)
	}
	return cv
}

// States exposes split_errors and confusion.
func (cv *CrossValidatedTransferError) States() *state.Collection { return cv.states }

// Compute returns the mean error over all splits of ds.
func (cv *CrossValidatedTransferError) Compute(ds *dataset.Dataset) (float64, error) {
	splits, err := cv.splitter.Split(ds)
	if err != nil {
		return 0, errors.Wrap(err, "CrossValidatedTransferError")
	}
	if len(splits) == 0 {
		return 0, errors.NewValidationError("splitter", "produced no splits", nil)
	}
	for i, s := range splits {
		if s.Train == nil || s.Test == nil {
			return 0, errors.NewValidationError("split", "split needs both training and test data", i)
		}
	}

	wantConfusion := cv.states.Enabled(StateConfusion)
	labels := ds.UniqueLabels()
	errs := make([]float64, len(splits))
	confusions := make([]*mat.Dense, len(splits))
	logger := log.GetLoggerWithName("CrossValidatedTransferError")

	run := func(_ context.Context, i int) error {
		te := cv.transfer.clone()
		if wantConfusion {
			_ = te.states.Enable(StateConfusion)
			te.labels = labels
		}
		e, err := te.Compute(splits[i].Test, splits[i].Train)
		if err != nil {
			return errors.Wrapf(err, "split %d", i)
		}
		errs[i] = e
		if wantConfusion {
			confusions[i], _ = te.Confusion()
		}
		logger.Debug("Evaluated split",
			log.OperationKey, log.OperationCompute,
			log.SplitIndexKey, i,
			log.ErrorValueKey, e,
		)
		return nil
	}

	if cv.workers > 1 {
		err = parallel.ForEach(context.Background(), len(splits), cv.workers, run)
	} else {
		for i := range splits {
			if err = run(context.Background(), i); err != nil {
				break
			}
		}
	}
	if err != nil {
		return 0, err
	}

	_ = cv.states.Set(StateSplitErrors, errs)
	if wantConfusion {
		_ = cv.states.Set(StateConfusion, sumConfusions(confusions))
	}
	return stat.Mean(errs, nil), nil
}

// SplitErrors returns the per-split errors of the last Compute.
func (cv *CrossValidatedTransferError) SplitErrors() ([]float64, error) {
	v, err := cv.states.Get(StateSplitErrors)
	if err != nil {
		return nil, err
	}
	return v.([]float64), nil
}

// sumConfusions adds matrices of equal shape.
func sumConfusions(confusions []*mat.Dense) *mat.Dense {
	var total *mat.Dense
	for _, cm := range confusions {
		if cm == nil {
			continue
		}
		if total == nil {
			total = mat.DenseCopyOf(cm)
			continue
		}
		total.Add(total, cm)
	}
	return total
}
