package mappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

func TestZScoreMapper(t *testing.T) {
	ds, err := dataset.FromRows([][]float64{{1, 5}, {3, 5}, {5, 5}},
		dataset.WithLabels([]float64{0, 1, 1}))
	require.NoError(t, err)

	z := NewZScoreMapper()
	_, err = z.Forward(ds.Samples())
	var nte *errors.NotTrainedError
	assert.True(t, errors.As(err, &nte))
	assert.Equal(t, 0, z.InSize())

	require.NoError(t, z.Train(ds))
	assert.Equal(t, 2, z.InSize())
	assert.Equal(t, 2, z.OutSize())
	assert.Equal(t, []float64{3, 5}, z.Mean())
	assert.InDelta(t, 1.632993, z.Scale()[0], 1e-6)
	// constant feature keeps unit scale
	assert.Equal(t, 1.0, z.Scale()[1])

	fwd, err := z.Forward(ds.Samples())
	require.NoError(t, err)
	assert.InDelta(t, -1.224745, fwd.At(0, 0), 1e-6)
	assert.InDelta(t, 0, fwd.At(1, 0), 1e-12)
	assert.Equal(t, 0.0, fwd.At(2, 1))

	rev, err := z.Reverse(fwd)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(ds.Samples(), rev, 1e-12))

	_, err = z.Forward(mat.NewDense(1, 3, nil))
	var sme *errors.ShapeMismatchError
	assert.True(t, errors.As(err, &sme))
}

func TestZScoreMapper_Options(t *testing.T) {
	ds, err := dataset.FromRows([][]float64{{1}, {3}})
	require.NoError(t, err)

	z := NewZScoreMapper(WithMean(false))
	require.NoError(t, z.Train(ds))
	fwd, err := z.Forward(ds.Samples())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fwd.At(0, 0), 1e-12)
	assert.InDelta(t, 3.0, fwd.At(1, 0), 1e-12)

	clone := z.Clone()
	assert.Equal(t, 0, clone.InSize())
	require.NoError(t, clone.Train(ds))
	assert.Equal(t, z.Scale(), clone.(*ZScoreMapper).Scale())

	z = NewZScoreMapper(WithStd(false))
	require.NoError(t, z.Train(ds))
	fwd, err = z.Forward(ds.Samples())
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 1}, mat.Col(nil, 0, fwd))

	assert.Error(t, NewZScoreMapper().Train(nil))
}
