package featsel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/measures"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// selectionDataset: features 1 and 3 carry the labels, 0 and 2 are noise.
func selectionDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRows([][]float64{
		{5, 1, 0, 10},
		{3, 2, 1, 11},
		{4, 1, 0, 12},
		{4, 9, 1, 20},
		{5, 8, 0, 21},
		{3, 9, 1, 22},
	}, dataset.WithLabels([]float64{0, 0, 0, 1, 1, 1}))
	require.NoError(t, err)
	return ds
}

func TestSensitivityBasedFeatureSelection(t *testing.T) {
	ds := selectionDataset(t)
	fs := NewSensitivityBasedFeatureSelection(measures.NewOneWayAnova(), NewFixedNElementsSelector(2))
	require.NoError(t, fs.States().Enable(StateSelectedIDs, StateSensitivity))

	wdata, tdata, err := fs.Select(ds, ds.Copy())
	require.NoError(t, err)
	assert.Equal(t, 2, wdata.NFeatures())
	assert.Equal(t, 2, tdata.NFeatures())
	assert.Equal(t, ds.Labels(), wdata.Labels())

	ids, err := fs.States().Get(StateSelectedIDs)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)

	sens, err := fs.States().Get(StateSensitivity)
	require.NoError(t, err)
	assert.Equal(t, 4, sens.(*measures.Sensitivity).NFeatures())

	// column order follows the ascending ids
	assert.Equal(t, []float64{1, 10}, wdata.Samples().RawRowView(0))
}

func TestSensitivityBasedFeatureSelection_StatesDisabledByDefault(t *testing.T) {
	fs := NewSensitivityBasedFeatureSelection(measures.NewOneWayAnova(), NewFixedNElementsSelector(1))
	wdata, tdata, err := fs.Select(selectionDataset(t), nil)
	require.NoError(t, err)
	assert.Nil(t, tdata)
	assert.Equal(t, 1, wdata.NFeatures())

	_, err = fs.States().Get(StateSelectedIDs)
	var disabled *errors.DisabledStateError
	assert.True(t, errors.As(err, &disabled))
}

func TestSensitivityBasedFeatureSelection_Compound(t *testing.T) {
	fs := NewSensitivityBasedFeatureSelection(measures.NewCompoundOneWayAnova(), NewFixedNElementsSelector(2))
	require.NoError(t, fs.States().Enable(StateSelectedIDs))
	_, _, err := fs.Select(selectionDataset(t), nil)
	require.NoError(t, err)
	ids, err := fs.States().Get(StateSelectedIDs)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)
}

func TestFixedNElementsSelector(t *testing.T) {
	scores := []float64{0.5, 3, 1, 3, -2}

	ids, err := NewFixedNElementsSelector(3).Choose(scores)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	ids, err = NewFixedNElementsSelector(1).Choose(scores)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids, "ties resolve to the lower id")

	_, err = NewFixedNElementsSelector(0).Choose(scores)
	assert.Error(t, err)
	_, err = NewFixedNElementsSelector(6).Choose(scores)
	assert.Error(t, err)
}

func TestFractionTailSelector(t *testing.T) {
	scores := []float64{4, 1, 3, 2}

	tests := []struct {
		name     string
		fraction float64
		want     []int
	}{
		{"half", 0.5, []int{0, 2}},
		{"at least one", 0.1, []int{0}},
		{"all", 1, []int{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := NewFractionTailSelector(tt.fraction).Choose(scores)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err := NewFractionTailSelector(0).Choose(scores)
	assert.Error(t, err)
	_, err = NewFractionTailSelector(0.5).Choose(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestSensitivityBasedFeatureSelection_Clone(t *testing.T) {
	fs := NewSensitivityBasedFeatureSelection(measures.NewOneWayAnova(), NewFixedNElementsSelector(1))
	require.NoError(t, fs.States().Enable(StateSelectedIDs))

	clone := fs.Clone()
	_, _, err := clone.Select(selectionDataset(t), nil)
	require.NoError(t, err)

	assert.True(t, clone.States().HasValue(StateSelectedIDs))
	assert.False(t, fs.States().HasValue(StateSelectedIDs))
	assert.True(t, fs.States().Enabled(StateSelectedIDs))
}
