package clfs

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
	"github.com/YuminosukeSato/gomvpa/splitters"
)

// SplitClassifier trains one clone of a prototype classifier on the
// training part of every split produced by a splitter and lets the ensemble
// combine them at prediction time.
type SplitClassifier struct {
	*Base
	clf      Classifier
	ensemble Ensemble
	splitter splitters.Splitter
}

// NewSplitClassifier creates a SplitClassifier around the prototype clf.
func NewSplitClassifier(clf Classifier, opts ...MetaOption) *SplitClassifier {
	cfg := newMetaConfig(opts)
	return &SplitClassifier{
		Base:     NewBase("SplitClassifier"),
		clf:      clf,
		ensemble: cfg.ensemble(),
		splitter: cfg.splitter,
	}
}

// Classifiers returns the classifiers trained by the last Train, one per
// split.
func (s *SplitClassifier) Classifiers() []Classifier {
	return s.ensemble.Classifiers()
}

// Ensemble returns the ensemble holding the per-split classifiers.
func (s *SplitClassifier) Ensemble() Ensemble {
	return s.ensemble
}

// Splitter returns the splitter in use.
func (s *SplitClassifier) Splitter() splitters.Splitter {
	return s.splitter
}

// Train implements Classifier.
func (s *SplitClassifier) Train(ds *dataset.Dataset) error {
	splits, err := s.splitter.Split(ds)
	if err != nil {
		return errors.Wrap(err, "SplitClassifier")
	}

	logger := s.Logger()
	trained := make([]Classifier, 0, len(splits))
	for i, split := range splits {
		if split.Train == nil {
			return errors.NewValidationError("split", "split has no training data", i)
		}
		clf := s.clf.Clone()
		if err := clf.Train(split.Train); err != nil {
			return errors.Wrapf(err, "SplitClassifier: split %d", i)
		}
		trained = append(trained, clf)
		logger.Debug("Created and trained classifier for split",
			log.OperationKey, log.OperationTrain,
			log.SplitIndexKey, i,
			log.SamplesKey, split.Train.NSamples(),
		)
	}

	s.ensemble.SetClassifiers(trained)
	s.MarkTrained(ds)
	return nil
}

// Predict implements Classifier.
func (s *SplitClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	if err := s.manager.RequireTrained(s.name, "Predict"); err != nil {
		return nil, err
	}
	propagateEnabled(s.states, s.ensemble.States())
	preds, err := s.ensemble.Predict(X)
	if err != nil {
		return nil, err
	}
	s.states.CopyFrom(s.ensemble.States(), false)
	s.SetPredictions(preds)
	return preds, nil
}

// SupportsValues forwards to the ensemble.
func (s *SplitClassifier) SupportsValues() bool {
	return s.ensemble.SupportsValues()
}

// Clone implements Classifier.
func (s *SplitClassifier) Clone() Classifier {
	return &SplitClassifier{
		Base:     s.CloneBase(),
		clf:      s.clf.Clone(),
		ensemble: s.ensemble.Clone().(Ensemble),
		splitter: s.splitter,
	}
}
