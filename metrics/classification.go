// Package metrics provides error functions comparing the predictions of a
// classifier with the targets of a dataset. Every error function takes
// (predicted, target) in that order so it can be handed to a TransferError.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// checkLengths は2つのスライスが空でなく同じ長さであることを検証する
func checkLengths(op string, predicted, target []float64) (int, error) {
	if len(predicted) == 0 || len(target) == 0 {
		return 0, errors.NewValidationError(op, "empty vector", nil)
	}
	if len(predicted) != len(target) {
		return 0, errors.NewShapeMismatchError(op, len(target), len(predicted), 0)
	}
	return len(target), nil
}

// ErrorRate は誤分類率（予測ラベルが正解と異なるサンプルの割合）を計算する
func ErrorRate(predicted, target []float64) (float64, error) {
	n, err := checkLengths("ErrorRate", predicted, target)
	if err != nil {
		return 0, err
	}
	wrong := 0
	for i := range target {
		if predicted[i] != target[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(n), nil
}

// ConfusionMatrix は混同行列を返す。行が正解ラベル、列が予測ラベルで、
// どちらも labels の順序に従う。labels に含まれないラベルは無視される。
func ConfusionMatrix(target, predicted, labels []float64) (*mat.Dense, error) {
	if len(labels) == 0 {
		return nil, errors.NewValidationError("ConfusionMatrix", "no labels", nil)
	}
	if len(target) != len(predicted) {
		return nil, errors.NewShapeMismatchError("ConfusionMatrix", len(target), len(predicted), 0)
	}
	index := make(map[float64]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := range target {
		r, okT := index[target[i]]
		c, okP := index[predicted[i]]
		if okT && okP {
			cm.Set(r, c, cm.At(r, c)+1)
		}
	}
	return cm, nil
}
