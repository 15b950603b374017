package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

func TestRegressionErrors(t *testing.T) {
	predicted := []float64{1, 2, 4, 3}
	target := []float64{1, 3, 2, 3}

	tests := []struct {
		name string
		fn   func(predicted, target []float64) (float64, error)
		want float64
	}{
		{"mean squared error", MeanSquaredError, (0 + 1 + 4 + 0) / 4.0},
		{"mean absolute error", MeanAbsoluteError, (0 + 1 + 2 + 0) / 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(predicted, target)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)

			got, err = tt.fn(target, target)
			require.NoError(t, err)
			assert.Equal(t, 0.0, got)

			_, err = tt.fn(predicted, target[:2])
			var sme *errors.ShapeMismatchError
			assert.True(t, errors.As(err, &sme))

			_, err = tt.fn(nil, nil)
			var ve *errors.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestCorrelation(t *testing.T) {
	got, err := Correlation([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	got, err = Correlation([]float64{1, 2, 3}, []float64{3, 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, got, 1e-12)

	_, err = Correlation([]float64{1, 1}, []float64{1, 2})
	assert.Error(t, err, "constant input has no correlation")
	_, err = Correlation([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestCorrelationError(t *testing.T) {
	got, err := CorrelationError([]float64{1, 2, 3}, []float64{10, 20, 30})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)

	got, err = CorrelationError([]float64{1, 2, 3}, []float64{3, 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)

	_, err = CorrelationError([]float64{1, 1}, []float64{1, 2})
	assert.Error(t, err)
}
