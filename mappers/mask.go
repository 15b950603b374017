// Package mappers transforms samples between feature spaces.
package mappers

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// Mapper projects samples from an input feature space of InSize features to
// an output space of OutSize features, and back.
type Mapper interface {
	Forward(X mat.Matrix) (mat.Matrix, error)
	Reverse(X mat.Matrix) (mat.Matrix, error)
	InSize() int
	OutSize() int
}

// MaskMapper keeps the features selected by a boolean mask.
type MaskMapper struct {
	mask []bool
	ids  []int
}

// NewMaskMapper creates a MaskMapper from a boolean mask over the input
// features.
func NewMaskMapper(mask []bool) (*MaskMapper, error) {
	var ids []int
	for i, on := range mask {
		if on {
			ids = append(ids, i)
		}
	}
	if len(ids) == 0 {
		return nil, errors.NewValidationError("mask", "mask selects no feature", len(mask))
	}
	return &MaskMapper{mask: append([]bool(nil), mask...), ids: ids}, nil
}

// NewMaskMapperFromIDs creates a MaskMapper selecting ids out of nFeatures
// input features.
func NewMaskMapperFromIDs(nFeatures int, ids []int) (*MaskMapper, error) {
	mask := make([]bool, nFeatures)
	for _, id := range ids {
		if id < 0 || id >= nFeatures {
			return nil, errors.NewValidationError("ids", "feature id out of range", id)
		}
		mask[id] = true
	}
	return NewMaskMapper(mask)
}

// InSize returns the number of input features.
func (m *MaskMapper) InSize() int { return len(m.mask) }

// OutSize returns the number of selected features.
func (m *MaskMapper) OutSize() int { return len(m.ids) }

// Mask returns a copy of the boolean mask.
func (m *MaskMapper) Mask() []bool { return append([]bool(nil), m.mask...) }

// SelectedIDs returns the ascending ids of the selected input features.
func (m *MaskMapper) SelectedIDs() []int { return append([]int(nil), m.ids...) }

// Forward keeps the selected columns of X.
func (m *MaskMapper) Forward(X mat.Matrix) (mat.Matrix, error) {
	r, c := X.Dims()
	if c != m.InSize() {
		return nil, errors.NewShapeMismatchError("MaskMapper.Forward", m.InSize(), c, 1)
	}
	out := mat.NewDense(r, len(m.ids), nil)
	for i := 0; i < r; i++ {
		for j, id := range m.ids {
			out.Set(i, j, X.At(i, id))
		}
	}
	return out, nil
}

// Reverse places the columns of X back into the input space. Unselected
// features are zero.
func (m *MaskMapper) Reverse(X mat.Matrix) (mat.Matrix, error) {
	r, c := X.Dims()
	if c != m.OutSize() {
		return nil, errors.NewShapeMismatchError("MaskMapper.Reverse", m.OutSize(), c, 1)
	}
	out := mat.NewDense(r, m.InSize(), nil)
	for i := 0; i < r; i++ {
		for j, id := range m.ids {
			out.Set(i, id, X.At(i, j))
		}
	}
	return out, nil
}

// ForwardDataset maps the samples of ds, keeping labels and chunks.
func ForwardDataset(m Mapper, ds *dataset.Dataset) (*dataset.Dataset, error) {
	X, err := m.Forward(ds.Samples())
	if err != nil {
		return nil, err
	}
	return ds.WithSamples(X)
}
