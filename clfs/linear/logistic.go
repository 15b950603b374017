// Package linear provides leaf classifiers based on linear models.
package linear

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/clfs"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

// LogisticRegression はL2正則化付きロジスティック回帰分類器です。
// 2クラスの場合は単一の重みベクトル、多クラスの場合は one-vs-rest で
// クラスごとの重みベクトルを勾配降下法で学習します。
//
// values ステートには決定関数の値が入ります。2クラスでは陽性クラス
// (大きい方のラベル) の決定関数 []float64、多クラスではクラスごとの
// スコア行列 *mat.Dense (サンプル x クラス) です。
type LogisticRegression struct {
	*clfs.Base

	// Hyperparameters
	c            float64 // Inverse regularization strength
	maxIter      int
	tol          float64
	fitIntercept bool
	seed         *uint64

	// Model parameters
	coef      [][]float64 // n_models x n_features
	intercept []float64
	nIter     []int
}

// LogisticOption configures a LogisticRegression.
type LogisticOption func(*LogisticRegression)

// WithC sets the inverse regularization strength.
func WithC(c float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithMaxIter sets the maximum number of gradient steps per model.
func WithMaxIter(maxIter int) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithTol sets the stopping tolerance on the largest gradient component.
func WithTol(tol float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithFitIntercept sets whether to fit an intercept.
func WithFitIntercept(fit bool) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithRandomState fixes the seed of the weight initialization.
func WithRandomState(seed uint64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.seed = &seed
	}
}

// NewLogisticRegression creates a new LogisticRegression classifier.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		Base:         clfs.NewBase("LogisticRegression"),
		c:            1.0,
		maxIter:      100,
		tol:          1e-4,
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// SupportsValues implements clfs.Classifier.
func (lr *LogisticRegression) SupportsValues() bool { return true }

// Classes returns the labels seen during training, ascending.
func (lr *LogisticRegression) Classes() []float64 {
	return lr.Manager().TrainedLabels()
}

// Coef returns a copy of the learned weights, one row per model.
func (lr *LogisticRegression) Coef() [][]float64 {
	out := make([][]float64, len(lr.coef))
	for i, w := range lr.coef {
		out[i] = append([]float64(nil), w...)
	}
	return out
}

// NIter returns the gradient steps taken per model in the last Train.
func (lr *LogisticRegression) NIter() []int {
	return append([]int(nil), lr.nIter...)
}

func (lr *LogisticRegression) newRand() *rand.Rand {
	if lr.seed != nil {
		return rand.New(rand.NewPCG(*lr.seed, *lr.seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Train implements clfs.Classifier.
func (lr *LogisticRegression) Train(ds *dataset.Dataset) error {
	if lr.c <= 0 {
		return errors.NewValidationError("C", "must be positive", lr.c)
	}
	if lr.maxIter <= 0 {
		return errors.NewValidationError("maxIter", "must be positive", lr.maxIter)
	}
	classes := ds.UniqueLabels()
	if len(classes) < 2 {
		return errors.NewValidationError("labels", "logistic regression needs at least two classes", classes)
	}

	X := ds.Samples()
	labels := ds.Labels()
	_, nFeatures := X.Dims()

	nModels := len(classes)
	if nModels == 2 {
		nModels = 1
	}
	rng := lr.newRand()
	coef := make([][]float64, nModels)
	for k := range coef {
		coef[k] = make([]float64, nFeatures)
		for j := range coef[k] {
			coef[k][j] = rng.NormFloat64() * 0.01
		}
	}
	intercept := make([]float64, nModels)
	nIter := make([]int, nModels)

	for k := 0; k < nModels; k++ {
		positive := classes[k]
		if nModels == 1 {
			positive = classes[1]
		}
		y := make([]float64, len(labels))
		for i, l := range labels {
			if l == positive {
				y[i] = 1
			}
		}
		n, converged, err := lr.fitBinary(X, y, coef[k], &intercept[k])
		if err != nil {
			return errors.NewModelError("LogisticRegression.Train", "numerical", err)
		}
		nIter[k] = n
		if !converged {
			errors.Warn(errors.NewConvergenceWarning("LogisticRegression", n,
				fmt.Sprintf("model for class %v did not reach tol=%g", positive, lr.tol)))
		}
	}

	lr.coef = coef
	lr.intercept = intercept
	lr.nIter = nIter
	lr.MarkTrained(ds)

	lr.Logger().Debug("Trained logistic regression",
		log.OperationKey, log.OperationTrain,
		log.SamplesKey, ds.NSamples(),
		log.FeaturesKey, nFeatures,
		log.IterationKey, nIter,
	)

	states := lr.States()
	if states.Enabled(clfs.StateTrainedPredictions) || states.Enabled(clfs.StateTrainedValues) {
		preds, values := lr.predict(X)
		lr.SetTrainedPredictions(preds)
		lr.SetTrainedValues(values)
	}
	return nil
}

// fitBinary runs gradient descent on one binary problem, updating weights
// and intercept in place. It reports the steps taken and whether the
// largest gradient component dropped below tol.
func (lr *LogisticRegression) fitBinary(X *mat.Dense, y []float64, weights []float64, intercept *float64) (int, bool, error) {
	nSamples, nFeatures := X.Dims()
	lambda := 1.0 / lr.c
	const baseLearningRate = 1.0

	gradWeights := make([]float64, nFeatures)
	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			row := X.RawRowView(i)
			diff := sigmoid(decision(row, weights, *intercept)) - y[i]
			gradIntercept += diff
			for j, v := range row {
				gradWeights[j] += diff * v
			}
		}

		for j := range gradWeights {
			gradWeights[j] = gradWeights[j]/float64(nSamples) + lambda*weights[j]
		}
		gradIntercept /= float64(nSamples)

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			*intercept -= learningRate * gradIntercept
		}

		if err := errors.CheckNumericalStability("gradient_update", weights, iter); err != nil {
			return iter + 1, false, err
		}

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			maxGrad = math.Max(maxGrad, math.Abs(g))
		}
		if maxGrad < lr.tol {
			return iter + 1, true, nil
		}
	}
	return lr.maxIter, false, nil
}

// Predict implements clfs.Classifier.
func (lr *LogisticRegression) Predict(X mat.Matrix) ([]clfs.Prediction, error) {
	if err := lr.Manager().RequireTrained(lr.Name(), "Predict"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := lr.Manager().RequireFeatures("LogisticRegression.Predict", c); err != nil {
		return nil, err
	}

	preds, values := lr.predict(mat.DenseCopyOf(X))
	lr.SetValues(values)
	lr.SetPredictions(preds)
	return preds, nil
}

// predict returns labels and decision values for X.
func (lr *LogisticRegression) predict(X *mat.Dense) ([]clfs.Prediction, any) {
	nSamples, _ := X.Dims()
	preds := make([]clfs.Prediction, nSamples)
	classes := lr.Manager().TrainedLabels()

	if len(lr.coef) == 1 {
		values := make([]float64, nSamples)
		for i := 0; i < nSamples; i++ {
			z := decision(X.RawRowView(i), lr.coef[0], lr.intercept[0])
			values[i] = z
			if sigmoid(z) >= 0.5 {
				preds[i] = clfs.Prediction{classes[1]}
			} else {
				preds[i] = clfs.Prediction{classes[0]}
			}
		}
		return preds, values
	}

	scores := mat.NewDense(nSamples, len(classes), nil)
	for i := 0; i < nSamples; i++ {
		row := X.RawRowView(i)
		best := 0
		for k := range classes {
			s := decision(row, lr.coef[k], lr.intercept[k])
			scores.Set(i, k, s)
			if s > scores.At(i, best) {
				best = k
			}
		}
		preds[i] = clfs.Prediction{classes[best]}
	}
	return preds, scores
}

// Clone implements clfs.Classifier. The clone is untrained.
func (lr *LogisticRegression) Clone() clfs.Classifier {
	out := &LogisticRegression{
		Base:         lr.CloneBase(),
		c:            lr.c,
		maxIter:      lr.maxIter,
		tol:          lr.tol,
		fitIntercept: lr.fitIntercept,
	}
	if lr.seed != nil {
		seed := *lr.seed
		out.seed = &seed
	}
	return out
}

func decision(row, weights []float64, intercept float64) float64 {
	z := intercept
	for j, v := range row {
		z += v * weights[j]
	}
	return z
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + errors.StabilizeExp(-z))
}
