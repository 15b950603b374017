package clfs

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// CombinedClassifier is a BoostedClassifier whose children's predictions are
// reduced to one decision per sample by a Combiner.
type CombinedClassifier struct {
	*BoostedClassifier
	combiner Combiner
}

// NewCombinedClassifier creates a CombinedClassifier. Without WithCombiner a
// new MaximalVote is used.
func NewCombinedClassifier(opts ...EnsembleOption) *CombinedClassifier {
	cfg := &ensembleConfig{combiner: MaximalVoteFactory}
	for _, opt := range opts {
		opt(cfg)
	}
	return &CombinedClassifier{
		BoostedClassifier: newBoosted("CombinedClassifier", cfg),
		combiner:          cfg.combiner(),
	}
}

// CombinedFactory is the default EnsembleFactory of MulticlassClassifier and
// SplitClassifier.
func CombinedFactory() Ensemble {
	return NewCombinedClassifier()
}

// Combiner returns the combiner in use.
func (c *CombinedClassifier) Combiner() Combiner {
	return c.combiner
}

// SupportsValues reports whether the combiner can provide values.
func (c *CombinedClassifier) SupportsValues() bool {
	return c.combiner.States().Has(StateValues)
}

// Predict collects the children's predictions and combines them.
func (c *CombinedClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	if _, err := c.PredictRaw(X); err != nil {
		return nil, err
	}
	preds, err := c.combiner.Combine(c.clfs)
	if err != nil {
		return nil, err
	}
	c.SetPredictions(preds)

	if c.states.Enabled(StateValues) {
		if c.combiner.States().Enabled(StateValues) {
			if v, err := c.combiner.States().Get(StateValues); err == nil {
				c.SetValues(v)
			}
		} else {
			errors.Warn(errors.NewConfigurationWarning(c.name,
				"state 'values' is enabled but the combiner does not provide values"))
		}
	}
	return preds, nil
}

// Clone implements Classifier.
func (c *CombinedClassifier) Clone() Classifier {
	return &CombinedClassifier{
		BoostedClassifier: c.cloneBoosted(),
		combiner:          c.combiner.Clone(),
	}
}
