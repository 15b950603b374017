package clfs

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
)

// ProxyClassifier decorates another classifier. Train and Predict are
// forwarded, after which the states of the decorated classifier are copied
// (shallowly) into the proxy.
type ProxyClassifier struct {
	*Base
	clf Classifier
}

// NewProxyClassifier wraps clf.
func NewProxyClassifier(clf Classifier) *ProxyClassifier {
	return newProxy("ProxyClassifier", clf)
}

func newProxy(name string, clf Classifier) *ProxyClassifier {
	return &ProxyClassifier{Base: NewBase(name), clf: clf}
}

// Clf returns the decorated classifier.
func (p *ProxyClassifier) Clf() Classifier {
	return p.clf
}

// SupportsValues forwards to the decorated classifier.
func (p *ProxyClassifier) SupportsValues() bool {
	return p.clf.SupportsValues()
}

// Train implements Classifier.
func (p *ProxyClassifier) Train(ds *dataset.Dataset) error {
	if err := p.trainClf(ds); err != nil {
		return err
	}
	p.MarkTrained(ds)
	return nil
}

// Predict implements Classifier.
func (p *ProxyClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	return p.predictClf(X)
}

func (p *ProxyClassifier) trainClf(ds *dataset.Dataset) error {
	propagateEnabled(p.states, p.clf.States())
	if err := p.clf.Train(ds); err != nil {
		return err
	}
	p.states.CopyFrom(p.clf.States(), false)
	return nil
}

func (p *ProxyClassifier) predictClf(X mat.Matrix) ([]Prediction, error) {
	propagateEnabled(p.states, p.clf.States())
	preds, err := p.clf.Predict(X)
	if err != nil {
		return nil, err
	}
	p.states.CopyFrom(p.clf.States(), false)
	return preds, nil
}

// Clone implements Classifier.
func (p *ProxyClassifier) Clone() Classifier {
	return p.cloneProxy()
}

func (p *ProxyClassifier) cloneProxy() *ProxyClassifier {
	return &ProxyClassifier{Base: p.CloneBase(), clf: p.clf.Clone()}
}
