package mappers

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gomvpa/core/model"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// Trainable is a Mapper whose projection is learned from a training
// dataset. Clone returns an untrained copy with the same settings.
type Trainable interface {
	Mapper
	Train(ds *dataset.Dataset) error
	Clone() Trainable
}

// ZScoreMapper は各特徴量を訓練データの平均0、標準偏差1に変換します。
// 分散がほぼ0の特徴量はスケール1として扱います。
type ZScoreMapper struct {
	state *model.StateManager

	withMean bool
	withStd  bool

	mean  []float64
	scale []float64
}

// ZScoreOption configures a ZScoreMapper.
type ZScoreOption func(*ZScoreMapper)

// WithMean sets whether the feature mean is subtracted (default true).
func WithMean(on bool) ZScoreOption {
	return func(z *ZScoreMapper) { z.withMean = on }
}

// WithStd sets whether features are divided by their standard deviation
// (default true).
func WithStd(on bool) ZScoreOption {
	return func(z *ZScoreMapper) { z.withStd = on }
}

// NewZScoreMapper creates an untrained ZScoreMapper.
func NewZScoreMapper(opts ...ZScoreOption) *ZScoreMapper {
	z := &ZScoreMapper{
		state:    model.NewStateManager(),
		withMean: true,
		withStd:  true,
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Train estimates per-feature mean and population standard deviation from
// the samples of ds.
func (z *ZScoreMapper) Train(ds *dataset.Dataset) error {
	if ds == nil || ds.NSamples() == 0 {
		return errors.NewModelError("ZScoreMapper.Train", "empty data", errors.ErrEmptyData)
	}
	X := ds.Samples()
	r, c := X.Dims()
	mean := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		m, v := stat.PopMeanVariance(col, nil)
		if z.withMean {
			mean[j] = m
		}
		scale[j] = 1
		if z.withStd {
			if sd := math.Sqrt(v); sd >= 1e-8 {
				scale[j] = sd
			}
		}
	}
	z.mean, z.scale = mean, scale
	z.state.SetTrained(c, r, ds.UniqueLabels())
	return nil
}

// InSize returns the number of features seen in training, 0 before.
func (z *ZScoreMapper) InSize() int {
	n, _ := z.state.GetDimensions()
	return n
}

// OutSize equals InSize.
func (z *ZScoreMapper) OutSize() int { return z.InSize() }

// Mean returns the per-feature offsets.
func (z *ZScoreMapper) Mean() []float64 { return append([]float64(nil), z.mean...) }

// Scale returns the per-feature divisors.
func (z *ZScoreMapper) Scale() []float64 { return append([]float64(nil), z.scale...) }

// Forward standardizes X.
func (z *ZScoreMapper) Forward(X mat.Matrix) (mat.Matrix, error) {
	return z.apply("ZScoreMapper.Forward", X, func(v float64, j int) float64 {
		return (v - z.mean[j]) / z.scale[j]
	})
}

// Reverse undoes Forward.
func (z *ZScoreMapper) Reverse(X mat.Matrix) (mat.Matrix, error) {
	return z.apply("ZScoreMapper.Reverse", X, func(v float64, j int) float64 {
		return v*z.scale[j] + z.mean[j]
	})
}

func (z *ZScoreMapper) apply(op string, X mat.Matrix, fn func(v float64, j int) float64) (mat.Matrix, error) {
	if err := z.state.RequireTrained("ZScoreMapper", op); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := z.state.RequireFeatures(op, c); err != nil {
		return nil, err
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 { return fn(v, j) }, X)
	return out, nil
}

// Clone implements Trainable.
func (z *ZScoreMapper) Clone() Trainable {
	return NewZScoreMapper(WithMean(z.withMean), WithStd(z.withStd))
}
