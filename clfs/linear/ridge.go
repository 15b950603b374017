package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/clfs"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

// RidgeRegression はリッジ回帰です。ラベルを連続値の目的変数として扱い、
// 予測値そのものを1要素のラベル集合として返します。
// 正規方程式 w = (X^T X + λI)^(-1) X^T y を使用し、切片は正則化しません。
type RidgeRegression struct {
	*clfs.Base
	lambda *float64

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
}

// RidgeOption configures a RidgeRegression.
type RidgeOption func(*RidgeRegression)

// WithLambda sets the penalty. The default is 0.05 times the number of
// features of the training dataset.
func WithLambda(lambda float64) RidgeOption {
	return func(r *RidgeRegression) {
		r.lambda = &lambda
	}
}

// NewRidgeRegression creates a RidgeRegression.
func NewRidgeRegression(opts ...RidgeOption) *RidgeRegression {
	r := &RidgeRegression{Base: clfs.NewBase("RidgeRegression")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SupportsValues implements clfs.Classifier.
func (r *RidgeRegression) SupportsValues() bool { return true }

// Train implements clfs.Classifier.
func (r *RidgeRegression) Train(ds *dataset.Dataset) error {
	X := ds.Samples()
	n, c := X.Dims()

	lambda := 0.05 * float64(c)
	if r.lambda != nil {
		lambda = *r.lambda
	}
	if lambda < 0 {
		return errors.NewValidationError("lambda", "must not be negative", lambda)
	}

	// 切片項のために X に 1 の列を追加
	Xi := mat.NewDense(n, c+1, nil)
	for i := 0; i < n; i++ {
		Xi.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			Xi.Set(i, j+1, X.At(i, j))
		}
	}

	var XTX mat.Dense
	XTX.Mul(Xi.T(), Xi)
	for j := 1; j <= c; j++ {
		XTX.Set(j, j, XTX.At(j, j)+lambda)
	}

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("RidgeRegression.Train", "singular matrix", errors.ErrSingularMatrix)
	}

	var XTy mat.VecDense
	XTy.MulVec(Xi.T(), mat.NewVecDense(n, ds.Labels()))

	w := mat.NewVecDense(c+1, nil)
	w.MulVec(&XTXInv, &XTy)

	r.Intercept = w.AtVec(0)
	r.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		r.Weights.SetVec(j, w.AtVec(j+1))
	}
	r.MarkTrained(ds)

	r.Logger().Debug("Trained ridge regression",
		log.OperationKey, log.OperationTrain,
		log.SamplesKey, n,
		log.FeaturesKey, c,
	)

	states := r.States()
	if states.Enabled(clfs.StateTrainedPredictions) || states.Enabled(clfs.StateTrainedValues) {
		values := r.predict(X)
		r.SetTrainedValues(values)
		r.SetTrainedPredictions(clfs.FromLabels(values))
	}
	return nil
}

// Predict implements clfs.Classifier.
func (r *RidgeRegression) Predict(X mat.Matrix) ([]clfs.Prediction, error) {
	if err := r.Manager().RequireTrained(r.Name(), "Predict"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := r.Manager().RequireFeatures("RidgeRegression.Predict", c); err != nil {
		return nil, err
	}

	values := r.predict(X)
	preds := clfs.FromLabels(values)
	r.SetValues(values)
	r.SetPredictions(preds)
	return preds, nil
}

func (r *RidgeRegression) predict(X mat.Matrix) []float64 {
	n, _ := X.Dims()
	var out mat.VecDense
	out.MulVec(X, r.Weights)
	values := make([]float64, n)
	for i := range values {
		values[i] = out.AtVec(i) + r.Intercept
	}
	return values
}

// Clone implements clfs.Classifier. The clone is untrained.
func (r *RidgeRegression) Clone() clfs.Classifier {
	out := &RidgeRegression{Base: r.CloneBase()}
	if r.lambda != nil {
		l := *r.lambda
		out.lambda = &l
	}
	return out
}
