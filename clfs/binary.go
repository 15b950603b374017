package clfs

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

// BinaryClassifier maps two disjoint label sets onto +1 and -1, trains the
// decorated classifier on that binary problem and maps its answers back.
// A polarity with several labels predicts the whole set.
type BinaryClassifier struct {
	*ProxyClassifier
	pos []float64
	neg []float64
}

// NewBinaryClassifier creates a BinaryClassifier. Duplicate labels are
// dropped; the two sets must be non-empty and must not overlap.
func NewBinaryClassifier(clf Classifier, posLabels, negLabels []float64) (*BinaryClassifier, error) {
	pos := uniqueSorted(posLabels)
	neg := uniqueSorted(negLabels)
	if len(pos) == 0 {
		return nil, errors.NewValidationError("posLabels", "at least one positive label is required", posLabels)
	}
	if len(neg) == 0 {
		return nil, errors.NewValidationError("negLabels", "at least one negative label is required", negLabels)
	}

	var overlap []float64
	for _, p := range pos {
		if Prediction(neg).Contains(p) {
			overlap = append(overlap, p)
		}
	}
	if len(overlap) > 0 {
		return nil, errors.NewOverlappingLabelsError(overlap)
	}

	return &BinaryClassifier{
		ProxyClassifier: newProxy("BinaryClassifier", clf),
		pos:             pos,
		neg:             neg,
	}, nil
}

// PosLabels returns the labels mapped to +1.
func (b *BinaryClassifier) PosLabels() []float64 { return append([]float64(nil), b.pos...) }

// NegLabels returns the labels mapped to -1.
func (b *BinaryClassifier) NegLabels() []float64 { return append([]float64(nil), b.neg...) }

// SupportsValues is true: values hold the raw +1/-1 decisions.
func (b *BinaryClassifier) SupportsValues() bool { return true }

// Train selects the samples carrying one of the labels, in ascending sample
// order, relabels them to +1/-1 and trains the decorated classifier.
func (b *BinaryClassifier) Train(ds *dataset.Dataset) error {
	ids := ds.IDsByLabels(append(b.PosLabels(), b.neg...))
	if len(ids) == 0 {
		return errors.NewValidationError("dataset", "no sample carries one of the binary labels",
			append(b.PosLabels(), b.neg...))
	}

	b.Logger().Debug("Selecting samples for binary classification",
		log.OperationKey, log.OperationTrain,
		log.SamplesKey, len(ids),
		"total_samples", ds.NSamples(),
		"positive", b.pos,
		"negative", b.neg,
	)

	selected, err := ds.SelectSamples(ids...)
	if err != nil {
		return err
	}
	orig := selected.Labels()
	binary := make([]float64, len(orig))
	for i, l := range orig {
		if Prediction(b.pos).Contains(l) {
			binary[i] = 1
		} else {
			binary[i] = -1
		}
	}
	if err := selected.SetLabels(binary); err != nil {
		return err
	}

	if err := b.trainClf(selected); err != nil {
		return errors.Wrap(err, "BinaryClassifier")
	}
	b.MarkTrained(ds)
	return nil
}

// Predict maps the decorated classifier's +1/-1 predictions back to the
// positive or negative labels.
func (b *BinaryClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	binary, err := b.predictClf(X)
	if err != nil {
		return nil, errors.Wrap(err, "BinaryClassifier")
	}

	values := make([]float64, len(binary))
	preds := make([]Prediction, len(binary))
	for i, p := range binary {
		if p.Label() > 0 {
			values[i] = 1
			preds[i] = b.PosLabels()
		} else {
			values[i] = -1
			preds[i] = b.NegLabels()
		}
	}
	b.SetValues(values)
	b.SetPredictions(preds)
	return preds, nil
}

// Clone implements Classifier.
func (b *BinaryClassifier) Clone() Classifier {
	return &BinaryClassifier{
		ProxyClassifier: b.cloneProxy(),
		pos:             b.PosLabels(),
		neg:             b.NegLabels(),
	}
}
