package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// MeanSquaredError は平均二乗誤差を計算する。
// RidgeRegression のように連続値を予測する分類器の交差検証に使う。
func MeanSquaredError(predicted, target []float64) (float64, error) {
	n, err := checkLengths("MeanSquaredError", predicted, target)
	if err != nil {
		return 0, err
	}
	d := floats.Distance(predicted, target, 2)
	return d * d / float64(n), nil
}

// MeanAbsoluteError は平均絶対誤差を計算する
func MeanAbsoluteError(predicted, target []float64) (float64, error) {
	n, err := checkLengths("MeanAbsoluteError", predicted, target)
	if err != nil {
		return 0, err
	}
	return floats.Distance(predicted, target, 1) / float64(n), nil
}

// Correlation はピアソンの相関係数を計算する。
// 回帰として使う分類器（RidgeRegressionなど）の予測精度の評価に使う。
func Correlation(predicted, target []float64) (float64, error) {
	if _, err := checkLengths("Correlation", predicted, target); err != nil {
		return 0, err
	}
	if stat.Variance(target, nil) == 0 || stat.Variance(predicted, nil) == 0 {
		return 0, errors.NewValidationError("Correlation", "no variance in input", nil)
	}
	return stat.Correlation(predicted, target, nil), nil
}

// CorrelationError は 1 - Correlation を返す。完全に相関する予測で0になる。
func CorrelationError(predicted, target []float64) (float64, error) {
	r, err := Correlation(predicted, target)
	if err != nil {
		return 0, err
	}
	return 1 - r, nil
}
