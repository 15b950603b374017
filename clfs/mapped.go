package clfs

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/mappers"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// MappedClassifier forwards samples through a mapper before training or
// predicting with the decorated classifier. A mappers.Trainable mapper is
// trained on the training dataset first.
type MappedClassifier struct {
	*ProxyClassifier
	mapper mappers.Mapper
}

// NewMappedClassifier decorates clf with mapper.
func NewMappedClassifier(clf Classifier, mapper mappers.Mapper) *MappedClassifier {
	return &MappedClassifier{
		ProxyClassifier: newProxy("MappedClassifier", clf),
		mapper:          mapper,
	}
}

// Mapper returns the mapper applied to the samples.
func (m *MappedClassifier) Mapper() mappers.Mapper {
	return m.mapper
}

// Train implements Classifier.
func (m *MappedClassifier) Train(ds *dataset.Dataset) error {
	if tm, ok := m.mapper.(mappers.Trainable); ok {
		if err := tm.Train(ds); err != nil {
			return errors.Wrap(err, "MappedClassifier.Train")
		}
	}
	mapped, err := mappers.ForwardDataset(m.mapper, ds)
	if err != nil {
		return errors.Wrap(err, "MappedClassifier.Train")
	}
	if err := m.trainClf(mapped); err != nil {
		return err
	}
	m.MarkTrained(ds)
	return nil
}

// Predict implements Classifier.
func (m *MappedClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	if X == nil {
		return nil, errors.NewValidationError("X", "nil samples", nil)
	}
	mapped, err := m.mapper.Forward(X)
	if err != nil {
		return nil, errors.Wrap(err, "MappedClassifier.Predict")
	}
	return m.predictClf(mapped)
}

// Clone implements Classifier.
func (m *MappedClassifier) Clone() Classifier {
	mapper := m.mapper
	if tm, ok := mapper.(mappers.Trainable); ok {
		mapper = tm.Clone()
	}
	return &MappedClassifier{ProxyClassifier: m.cloneProxy(), mapper: mapper}
}
