package clfs

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/featsel"
	"github.com/YuminosukeSato/gomvpa/mappers"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

// FeatureSelectionClassifier runs a feature selection on the training
// dataset, trains the decorated classifier on the selected features and
// predicts through a MappedClassifier that applies the same mask.
type FeatureSelectionClassifier struct {
	*ProxyClassifier
	selection featsel.FeatureSelection
	maskclf   *MappedClassifier
}

// NewFeatureSelectionClassifier decorates clf with the feature selection fs.
func NewFeatureSelectionClassifier(clf Classifier, fs featsel.FeatureSelection) *FeatureSelectionClassifier {
	return &FeatureSelectionClassifier{
		ProxyClassifier: newProxy("FeatureSelectionClassifier", clf),
		selection:       fs,
	}
}

// FeatureSelection returns the feature selection in use.
func (f *FeatureSelectionClassifier) FeatureSelection() featsel.FeatureSelection {
	return f.selection
}

// MaskClassifier returns the MappedClassifier created by the last Train,
// or nil before training.
func (f *FeatureSelectionClassifier) MaskClassifier() *MappedClassifier {
	return f.maskclf
}

// Train implements Classifier.
func (f *FeatureSelectionClassifier) Train(ds *dataset.Dataset) error {
	mapper, wdata, err := f.selectFeatures(ds)
	if err != nil {
		return err
	}

	maskclf := NewMappedClassifier(f.clf, mapper)
	propagateEnabled(f.states, maskclf.States())
	// wdata is already masked; train the decorated classifier directly.
	if err := maskclf.trainClf(wdata); err != nil {
		return err
	}
	maskclf.MarkTrained(ds)

	f.maskclf = maskclf
	f.states.CopyFrom(maskclf.States(), false)
	f.MarkTrained(ds)
	return nil
}

func (f *FeatureSelectionClassifier) selectFeatures(ds *dataset.Dataset) (m *mappers.MaskMapper, wdata *dataset.Dataset, err error) {
	states := f.selection.States()
	if err := states.EnableTemporarily(featsel.StateSelectedIDs); err != nil {
		return nil, nil, err
	}
	defer func() {
		if rerr := states.ResetEnabledTemporarily(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	wdata, _, err = f.selection.Select(ds, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "FeatureSelectionClassifier")
	}
	v, err := states.Get(featsel.StateSelectedIDs)
	if err != nil {
		return nil, nil, err
	}
	ids, ok := v.([]int)
	if !ok {
		return nil, nil, errors.NewPreconditionError("FeatureSelectionClassifier.Train",
			fmt.Sprintf("selected_ids state holds %T", v))
	}

	m, err = mappers.NewMaskMapperFromIDs(ds.NFeatures(), ids)
	if err != nil {
		return nil, nil, err
	}
	if wdata.NFeatures() != m.OutSize() {
		return nil, nil, errors.NewShapeMismatchError("FeatureSelectionClassifier.Train", m.OutSize(), wdata.NFeatures(), 1)
	}

	f.Logger().Debug("Selected features",
		log.OperationKey, log.OperationSelect,
		log.FeaturesKey, ds.NFeatures(),
		log.SelectedFeaturesKey, wdata.NFeatures(),
	)
	return m, wdata, nil
}

// Predict implements Classifier.
func (f *FeatureSelectionClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	if f.maskclf == nil {
		return nil, errors.NewNotTrainedError(f.name, "Predict")
	}
	propagateEnabled(f.states, f.maskclf.States())
	preds, err := f.maskclf.Predict(X)
	if err != nil {
		return nil, err
	}
	f.states.CopyFrom(f.maskclf.States(), false)
	return preds, nil
}

// Clone implements Classifier. The clone is untrained.
func (f *FeatureSelectionClassifier) Clone() Classifier {
	return &FeatureSelectionClassifier{
		ProxyClassifier: f.cloneProxy(),
		selection:       f.selection.Clone(),
	}
}
