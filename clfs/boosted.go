package clfs

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/core/parallel"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

// Ensemble is a classifier made of child classifiers that can be assigned
// after construction, as MulticlassClassifier and SplitClassifier do.
type Ensemble interface {
	Classifier
	Classifiers() []Classifier
	SetClassifiers(clfs []Classifier)
}

// EnsembleFactory returns a new, independent Ensemble on every call.
type EnsembleFactory func() Ensemble

type ensembleConfig struct {
	clfs     []Classifier
	combiner CombinerFactory
	parallel int
}

// EnsembleOption configures BoostedClassifier and CombinedClassifier.
type EnsembleOption func(*ensembleConfig)

// WithClassifiers sets the child classifiers.
func WithClassifiers(clfs ...Classifier) EnsembleOption {
	return func(c *ensembleConfig) {
		c.clfs = clfs
	}
}

// WithCombiner sets the factory producing the combiner of a
// CombinedClassifier. BoostedClassifier ignores it.
func WithCombiner(f CombinerFactory) EnsembleOption {
	return func(c *ensembleConfig) {
		c.combiner = f
	}
}

// WithParallel trains up to n children concurrently. Values below 2 keep
// training sequential. Children must be distinct instances.
func WithParallel(n int) EnsembleOption {
	return func(c *ensembleConfig) {
		c.parallel = n
	}
}

// BoostedClassifier holds several classifiers that are trained on the same
// dataset and all asked for predictions. It does not combine them: Predict
// returns, per sample, the union of the children's label sets, and the
// individual predictions are available from PredictRaw and the
// raw_predictions state.
type BoostedClassifier struct {
	*Base
	clfs     []Classifier
	parallel int
}

// NewBoostedClassifier creates a BoostedClassifier.
func NewBoostedClassifier(opts ...EnsembleOption) *BoostedClassifier {
	cfg := &ensembleConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return newBoosted("BoostedClassifier", cfg)
}

func newBoosted(name string, cfg *ensembleConfig) *BoostedClassifier {
	b := &BoostedClassifier{
		Base:     NewBase(name),
		clfs:     cfg.clfs,
		parallel: cfg.parallel,
	}
	b.states.MustRegister(StateRawPredictions, true, "Predictions obtained from each classifier")
	b.states.MustRegister(StateRawValues, false, "Values obtained from each classifier")
	return b
}

// Classifiers returns the child classifiers.
func (b *BoostedClassifier) Classifiers() []Classifier {
	return b.clfs
}

// SetClassifiers replaces the child classifiers.
func (b *BoostedClassifier) SetClassifiers(clfs []Classifier) {
	b.clfs = clfs
}

// Train trains every child on ds.
func (b *BoostedClassifier) Train(ds *dataset.Dataset) error {
	logger := b.Logger()
	logger.Debug("Training ensemble",
		log.OperationKey, log.OperationTrain,
		log.ChildrenKey, len(b.clfs),
		log.SamplesKey, ds.NSamples(),
		log.FeaturesKey, ds.NFeatures(),
	)

	if b.parallel > 1 && len(b.clfs) > 1 {
		// children get their own copy: Dataset caches are not safe for
		// concurrent use
		copies := make([]*dataset.Dataset, len(b.clfs))
		for i := range copies {
			copies[i] = ds.Copy()
		}
		err := parallel.ForEach(context.Background(), len(b.clfs), b.parallel, func(_ context.Context, i int) error {
			err := errors.SafeExecute(b.name+".Train", func() error { return b.clfs[i].Train(copies[i]) })
			if err != nil {
				return errors.Wrapf(err, "%s: training classifier %d", b.name, i)
			}
			return nil
		})
		if err != nil {
			logger.Error("Ensemble training failed", err)
			return err
		}
	} else {
		for i, clf := range b.clfs {
			err := errors.SafeExecute(b.name+".Train", func() error { return clf.Train(ds) })
			if err != nil {
				return errors.Wrapf(err, "%s: training classifier %d", b.name, i)
			}
		}
	}

	b.MarkTrained(ds)
	return nil
}

// PredictRaw asks every child for predictions and returns them in child
// order. Children's values are collected under raw_values when values is
// enabled here and on the child.
func (b *BoostedClassifier) PredictRaw(X mat.Matrix) ([][]Prediction, error) {
	if _, err := nRows(b.name+".Predict", X); err != nil {
		return nil, err
	}
	wantValues := b.states.Enabled(StateValues)

	raw := make([][]Prediction, len(b.clfs))
	var values []any
	for i, clf := range b.clfs {
		preds, err := clf.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: prediction of classifier %d", b.name, i)
		}
		raw[i] = preds
		if wantValues && clf.SupportsValues() && clf.States().Enabled(StateValues) {
			if v, err := clf.States().Get(StateValues); err == nil {
				values = append(values, v)
			}
		}
	}
	if values != nil {
		_ = b.states.Set(StateRawValues, values)
	}
	_ = b.states.Set(StateRawPredictions, RawPredictions(raw))
	return raw, nil
}

// Predict returns, for every sample, the labels predicted by any child in
// order of first appearance.
func (b *BoostedClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	raw, err := b.PredictRaw(X)
	if err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	preds := unionPredictions(n, raw)
	b.SetPredictions(preds)
	return preds, nil
}

// Clone implements Classifier. Children are cloned as well.
func (b *BoostedClassifier) Clone() Classifier {
	return b.cloneBoosted()
}

func (b *BoostedClassifier) cloneBoosted() *BoostedClassifier {
	return &BoostedClassifier{
		Base:     b.CloneBase(),
		clfs:     cloneAll(b.clfs),
		parallel: b.parallel,
	}
}

func unionPredictions(n int, raw [][]Prediction) []Prediction {
	out := make([]Prediction, n)
	for i := 0; i < n; i++ {
		var set Prediction
		for _, preds := range raw {
			if i >= len(preds) {
				continue
			}
			for _, l := range preds[i] {
				if !set.Contains(l) {
					set = append(set, l)
				}
			}
		}
		out[i] = set
	}
	return out
}
