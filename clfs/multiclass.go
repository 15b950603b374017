package clfs

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
	"github.com/YuminosukeSato/gomvpa/splitters"
)

// Multiclass decomposition strategies.
const (
	OneVsOne  = "1-vs-1"
	OneVsRest = "1-vs-all"
)

type metaConfig struct {
	ensemble EnsembleFactory
	strategy string
	splitter splitters.Splitter
}

// MetaOption configures MulticlassClassifier and SplitClassifier.
type MetaOption func(*metaConfig)

// WithEnsemble sets the factory of the ensemble that holds the generated
// classifiers. The default is CombinedFactory.
func WithEnsemble(f EnsembleFactory) MetaOption {
	return func(c *metaConfig) {
		c.ensemble = f
	}
}

// WithStrategy sets the multiclass decomposition strategy.
func WithStrategy(strategy string) MetaOption {
	return func(c *metaConfig) {
		c.strategy = strategy
	}
}

// WithSplitter sets the splitter of a SplitClassifier. The default is a
// NoneSplitter.
func WithSplitter(s splitters.Splitter) MetaOption {
	return func(c *metaConfig) {
		c.splitter = s
	}
}

func newMetaConfig(opts []MetaOption) *metaConfig {
	cfg := &metaConfig{
		ensemble: CombinedFactory,
		strategy: OneVsOne,
		splitter: splitters.NewNoneSplitter(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// MulticlassClassifier solves a multiclass problem with binary classifiers.
// With the 1-vs-1 strategy Train creates one BinaryClassifier per pair of
// unique labels, each wrapping a clone of the prototype, and trains them
// inside the ensemble, which votes at prediction time.
type MulticlassClassifier struct {
	*Base
	clf      Classifier
	ensemble Ensemble
	strategy string
}

// NewMulticlassClassifier creates a MulticlassClassifier around the
// prototype clf.
func NewMulticlassClassifier(clf Classifier, opts ...MetaOption) (*MulticlassClassifier, error) {
	cfg := newMetaConfig(opts)
	switch cfg.strategy {
	case OneVsOne:
	case OneVsRest:
		return nil, errors.Wrapf(errors.ErrNotImplemented, "MulticlassClassifier: strategy %q", cfg.strategy)
	default:
		return nil, errors.NewInvalidConfigurationError("MulticlassClassifier", "strategy", cfg.strategy)
	}
	return &MulticlassClassifier{
		Base:     NewBase("MulticlassClassifier"),
		clf:      clf,
		ensemble: cfg.ensemble(),
		strategy: cfg.strategy,
	}, nil
}

// Classifiers returns the binary classifiers created by the last Train.
func (m *MulticlassClassifier) Classifiers() []Classifier {
	return m.ensemble.Classifiers()
}

// Ensemble returns the ensemble holding the binary classifiers.
func (m *MulticlassClassifier) Ensemble() Ensemble {
	return m.ensemble
}

// Train implements Classifier.
func (m *MulticlassClassifier) Train(ds *dataset.Dataset) error {
	labels := ds.UniqueLabels()
	if len(labels) < 2 {
		return errors.NewValidationError("labels", "multiclass classification needs at least two labels", labels)
	}

	biclfs := make([]Classifier, 0, len(labels)*(len(labels)-1)/2)
	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			bc, err := NewBinaryClassifier(m.clf.Clone(), []float64{labels[i]}, []float64{labels[j]})
			if err != nil {
				return err
			}
			biclfs = append(biclfs, bc)
		}
	}
	m.Logger().Debug("Created binary classifiers",
		log.OperationKey, log.OperationTrain,
		log.StrategyKey, m.strategy,
		log.ChildrenKey, len(biclfs),
		log.LabelsKey, labels,
	)

	m.ensemble.SetClassifiers(biclfs)
	if err := m.ensemble.Train(ds); err != nil {
		return errors.Wrap(err, "MulticlassClassifier")
	}
	m.MarkTrained(ds)
	return nil
}

// Predict implements Classifier.
func (m *MulticlassClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	if err := m.manager.RequireTrained(m.name, "Predict"); err != nil {
		return nil, err
	}
	propagateEnabled(m.states, m.ensemble.States())
	preds, err := m.ensemble.Predict(X)
	if err != nil {
		return nil, err
	}
	m.states.CopyFrom(m.ensemble.States(), false)
	m.SetPredictions(preds)
	return preds, nil
}

// SupportsValues forwards to the ensemble.
func (m *MulticlassClassifier) SupportsValues() bool {
	return m.ensemble.SupportsValues()
}

// Clone implements Classifier.
func (m *MulticlassClassifier) Clone() Classifier {
	return &MulticlassClassifier{
		Base:     m.CloneBase(),
		clf:      m.clf.Clone(),
		ensemble: m.ensemble.Clone().(Ensemble),
		strategy: m.strategy,
	}
}
