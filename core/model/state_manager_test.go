package model

import (
	"testing"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsTrained())

	err := s.RequireTrained("LogisticRegression", "Predict")
	require.Error(t, err)
	var nte *errors.NotTrainedError
	require.True(t, errors.As(err, &nte))
	assert.Equal(t, "Predict", nte.Method)

	labels := []float64{0, 1}
	s.SetTrained(3, 10, labels)
	labels[0] = 7
	assert.True(t, s.IsTrained())
	assert.NoError(t, s.RequireTrained("LogisticRegression", "Predict"))
	assert.Equal(t, []float64{0, 1}, s.TrainedLabels())

	nf, ns := s.GetDimensions()
	assert.Equal(t, 3, nf)
	assert.Equal(t, 10, ns)

	assert.NoError(t, s.RequireFeatures("Predict", 3))
	err = s.RequireFeatures("Predict", 4)
	var sme *errors.ShapeMismatchError
	require.True(t, errors.As(err, &sme))
	assert.Equal(t, 3, sme.Expected)
	assert.Equal(t, 4, sme.Got)

	s.Reset()
	assert.False(t, s.IsTrained())
	assert.Empty(t, s.TrainedLabels())
}
