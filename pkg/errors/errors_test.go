package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Train",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "gomvpa: Train: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not trained",
			err:     nil,
			wantMsg: "gomvpa: Predict: not trained",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			assert.True(t, strings.Contains(formatted, "errors_test.go"), "expected stack trace to contain test file name")

			var modelErr *ModelError
			assert.True(t, As(err, &modelErr))
		})
	}
}

func TestModelError_Unwrap(t *testing.T) {
	err := NewModelError("RidgeRegression.Train", "singular matrix", ErrSingularMatrix)
	assert.True(t, Is(err, ErrSingularMatrix))
}

func TestStateErrors(t *testing.T) {
	var unknown *UnknownStateError
	require.True(t, As(NewUnknownStateError("foo"), &unknown))
	assert.Equal(t, "foo", unknown.Name)

	var disabled *DisabledStateError
	require.True(t, As(NewDisabledStateError("values"), &disabled))
	assert.Contains(t, disabled.Error(), "disabled")

	var noValue *NoValueSetError
	assert.True(t, As(NewNoValueSetError("predictions"), &noValue))

	var dup *DuplicateStateError
	assert.True(t, As(NewDuplicateStateError("predictions"), &dup))

	var tmp *TemporaryStateError
	assert.True(t, As(NewTemporaryStateError("already active"), &tmp))
}

func TestShapeMismatchError(t *testing.T) {
	err := NewShapeMismatchError("Dataset.Extend", 4, 3, 1)
	want := "gomvpa: Dataset.Extend: shape mismatch on axis 1 (features). Expected 4, got 3"
	assert.Equal(t, want, err.Error())

	var shapeErr *ShapeMismatchError
	require.True(t, As(err, &shapeErr))
	assert.Equal(t, 1, shapeErr.Axis)
}

func TestLengthMismatchError(t *testing.T) {
	err := NewLengthMismatchError("dataset.New", "labels", 10, 9)
	assert.Equal(t, "gomvpa: dataset.New: length of labels must be 10, got 9", err.Error())
}

func TestOverlappingLabelsError(t *testing.T) {
	err := NewOverlappingLabelsError([]float64{2})
	var overlap *OverlappingLabelsError
	require.True(t, As(err, &overlap))
	assert.Equal(t, []float64{2}, overlap.Overlap)
}

func TestWarn_UsesZerologFuncWhenSet(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewTiedVoteWarning(0, []float64{1, 2}, 2, 1))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Error(), "maximal vote 2")
}

func TestWarn_FallsBackToHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(func(w error) {})

	Warn(NewConfigurationWarning("CombinedClassifier", "values unavailable"))
	require.Error(t, got)
	assert.Equal(t, "CombinedClassifier: values unavailable", got.Error())
}

func TestWarnings_MarshalZerologObject(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)
	logger.Warn().EmbedObject(NewTiedVoteWarning(3, []float64{1, 2}, 1, 1)).Msg("tie")

	assert.Contains(t, buf.String(), `"type":"TiedVoteWarning"`)
	assert.Contains(t, buf.String(), `"sample":3`)
}

func TestCheckNumericalStability(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("weights", []float64{1, 2}, 0))

	err := CheckNumericalStability("weights", []float64{1, nanValue()}, 7)
	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Equal(t, 7, numErr.Iteration)
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
