package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/clfs"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/metrics"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

func binaryDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRows([][]float64{
		{-2.5, -2}, {-2, -2.5}, {-1.5, -2}, {-2, -1.5},
		{2.5, 2}, {2, 2.5}, {1.5, 2}, {2, 1.5},
	}, dataset.WithLabels([]float64{3, 3, 3, 3, 7, 7, 7, 7}))
	require.NoError(t, err)
	return ds
}

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var got []error
	errors.SetWarningHandler(func(w error) { got = append(got, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return &got
}

func TestLogisticRegression_Binary(t *testing.T) {
	ds := binaryDataset(t)
	lr := NewLogisticRegression(WithMaxIter(1000), WithRandomState(1))
	require.NoError(t, lr.States().Enable(clfs.StateValues))

	require.NoError(t, lr.Train(ds))
	assert.True(t, lr.IsTrained())
	assert.Equal(t, []float64{3, 7}, lr.Classes())
	assert.Len(t, lr.Coef(), 1)

	preds, err := lr.Predict(ds.Samples())
	require.NoError(t, err)
	assert.Equal(t, ds.Labels(), clfs.Predictions(preds).Labels())

	v, err := lr.States().Get(clfs.StateValues)
	require.NoError(t, err)
	values := v.([]float64)
	require.Len(t, values, 8)
	for i, z := range values {
		if ds.Labels()[i] == 7 {
			assert.Greater(t, z, 0.0, "sample %d", i)
		} else {
			assert.Less(t, z, 0.0, "sample %d", i)
		}
	}

	got, err := clfs.GetPredictions(lr.States())
	require.NoError(t, err)
	assert.Equal(t, preds, []clfs.Prediction(got))
}

func TestLogisticRegression_Multiclass(t *testing.T) {
	rows := [][]float64{}
	labels := []float64{}
	centers := [][2]float64{{-4, 0}, {4, 0}, {0, 4}}
	offsets := [][2]float64{{0.3, 0}, {-0.3, 0}, {0, 0.3}, {0, -0.3}}
	for c, center := range centers {
		for _, o := range offsets {
			rows = append(rows, []float64{center[0] + o[0], center[1] + o[1]})
			labels = append(labels, float64(c))
		}
	}
	ds, err := dataset.FromRows(rows, dataset.WithLabels(labels))
	require.NoError(t, err)

	lr := NewLogisticRegression(WithC(100), WithMaxIter(2000), WithRandomState(7))
	require.NoError(t, lr.States().Enable(clfs.StateValues))
	require.NoError(t, lr.Train(ds))
	assert.Len(t, lr.Coef(), 3)

	test := mat.NewDense(3, 2, []float64{-4, 0, 4, 0, 0, 4})
	preds, err := lr.Predict(test)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, clfs.Predictions(preds).Labels())

	v, err := lr.States().Get(clfs.StateValues)
	require.NoError(t, err)
	r, c := v.(*mat.Dense).Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
}

func TestLogisticRegression_Errors(t *testing.T) {
	lr := NewLogisticRegression()

	_, err := lr.Predict(mat.NewDense(1, 2, nil))
	var notTrained *errors.NotTrainedError
	assert.True(t, errors.As(err, &notTrained))

	one, err := dataset.FromRows([][]float64{{1}, {2}}, dataset.WithLabel(1))
	require.NoError(t, err)
	var verr *errors.ValidationError
	assert.True(t, errors.As(lr.Train(one), &verr))

	require.NoError(t, lr.Train(binaryDataset(t)))
	_, err = lr.Predict(mat.NewDense(1, 3, nil))
	var shape *errors.ShapeMismatchError
	assert.True(t, errors.As(err, &shape))

	bad := NewLogisticRegression(WithC(0))
	assert.True(t, errors.As(bad.Train(binaryDataset(t)), &verr))
}

func TestLogisticRegression_ConvergenceWarning(t *testing.T) {
	warnings := captureWarnings(t)

	lr := NewLogisticRegression(WithMaxIter(1), WithTol(1e-12), WithRandomState(3))
	require.NoError(t, lr.Train(binaryDataset(t)))

	require.Len(t, *warnings, 1)
	var cw *errors.ConvergenceWarning
	assert.True(t, errors.As((*warnings)[0], &cw))
	assert.Equal(t, []int{1}, lr.NIter())
}

func TestLogisticRegression_TrainedPredictions(t *testing.T) {
	lr := NewLogisticRegression(WithMaxIter(1000), WithRandomState(1))
	require.NoError(t, lr.States().Enable(clfs.StateTrainedPredictions))
	ds := binaryDataset(t)
	require.NoError(t, lr.Train(ds))

	v, err := lr.States().Get(clfs.StateTrainedPredictions)
	require.NoError(t, err)
	assert.Equal(t, ds.Labels(), v.(clfs.Predictions).Labels())
	assert.False(t, lr.States().HasValue(clfs.StateTrainedValues))
}

func TestLogisticRegression_Clone(t *testing.T) {
	lr := NewLogisticRegression(WithMaxIter(1000), WithRandomState(5))
	require.NoError(t, lr.Train(binaryDataset(t)))

	clone := lr.Clone().(*LogisticRegression)
	assert.False(t, clone.IsTrained())
	assert.NotEqual(t, lr.ID(), clone.ID())
	require.NoError(t, clone.Train(binaryDataset(t)))
	assert.Equal(t, lr.Coef(), clone.Coef(), "same seed, same data")
}

func TestRidgeRegression(t *testing.T) {
	rows := make([][]float64, 20)
	targets := make([]float64, 20)
	for i := range rows {
		x0 := float64(i%5) - 2
		x1 := float64(i/5) - 1.5
		rows[i] = []float64{x0, x1}
		targets[i] = 2*x0 - x1 + 1
	}
	ds, err := dataset.FromRows(rows, dataset.WithLabels(targets))
	require.NoError(t, err)

	r := NewRidgeRegression()
	require.NoError(t, r.States().Enable(clfs.StateValues))
	require.NoError(t, r.Train(ds))

	preds, err := r.Predict(ds.Samples())
	require.NoError(t, err)
	predicted := clfs.Predictions(preds).Labels()

	corr, err := metrics.Correlation(targets, predicted)
	require.NoError(t, err)
	assert.Greater(t, corr, 0.8)
	assert.InDelta(t, 1.0, r.Intercept, 1e-9)

	v, err := r.States().Get(clfs.StateValues)
	require.NoError(t, err)
	assert.Equal(t, predicted, v.([]float64))
}

func TestRidgeRegression_NoPenalty(t *testing.T) {
	ds, err := dataset.FromRows([][]float64{{0}, {1}, {2}, {3}},
		dataset.WithLabels([]float64{1, 3, 5, 7}))
	require.NoError(t, err)

	r := NewRidgeRegression(WithLambda(0))
	require.NoError(t, r.Train(ds))
	assert.InDelta(t, 2.0, r.Weights.AtVec(0), 1e-9)
	assert.InDelta(t, 1.0, r.Intercept, 1e-9)
}

func TestRidgeRegression_Singular(t *testing.T) {
	ds, err := dataset.FromRows([][]float64{{1, 1}, {2, 2}, {3, 3}},
		dataset.WithLabels([]float64{1, 2, 3}))
	require.NoError(t, err)

	err = NewRidgeRegression(WithLambda(0)).Train(ds)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

	var verr *errors.ValidationError
	assert.True(t, errors.As(NewRidgeRegression(WithLambda(-1)).Train(ds), &verr))
}
