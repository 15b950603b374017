package clfs

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// constClassifier predicts the same label for every sample. Its values are
// the label times ten.
type constClassifier struct {
	*Base
	label      float64
	values     bool
	trainCalls int
	trainedOn  *dataset.Dataset
	failTrain  bool
}

func newConst(label float64) *constClassifier {
	return &constClassifier{Base: NewBase("constClassifier"), label: label}
}

func (c *constClassifier) SupportsValues() bool { return c.values }

func (c *constClassifier) Train(ds *dataset.Dataset) error {
	if c.failTrain {
		return errors.New("training failed")
	}
	c.trainCalls++
	c.trainedOn = ds
	c.MarkTrained(ds)
	return nil
}

func (c *constClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	r, _ := X.Dims()
	preds := make([]Prediction, r)
	values := make([]float64, r)
	for i := range preds {
		preds[i] = Prediction{c.label}
		values[i] = c.label * 10
	}
	if c.values {
		c.SetValues(values)
	}
	c.SetPredictions(preds)
	return preds, nil
}

func (c *constClassifier) Clone() Classifier {
	return &constClassifier{Base: c.CloneBase(), label: c.label, values: c.values, failTrain: c.failTrain}
}

// centroidClassifier assigns each sample the label of the nearest class
// mean seen during training.
type centroidClassifier struct {
	*Base
	labels    []float64
	centroids [][]float64
}

func newCentroid() *centroidClassifier {
	return &centroidClassifier{Base: NewBase("centroidClassifier")}
}

func (c *centroidClassifier) Train(ds *dataset.Dataset) error {
	labels := ds.UniqueLabels()
	X := ds.Samples()
	_, nf := X.Dims()
	centroids := make([][]float64, len(labels))
	for k, l := range labels {
		ids := ds.IDsByLabels([]float64{l})
		centroids[k] = make([]float64, nf)
		for _, i := range ids {
			for j := 0; j < nf; j++ {
				centroids[k][j] += X.At(i, j) / float64(len(ids))
			}
		}
	}
	c.labels = labels
	c.centroids = centroids
	c.MarkTrained(ds)
	return nil
}

func (c *centroidClassifier) Predict(X mat.Matrix) ([]Prediction, error) {
	if err := c.manager.RequireTrained(c.name, "Predict"); err != nil {
		return nil, err
	}
	_, nf := X.Dims()
	if err := c.manager.RequireFeatures("centroidClassifier.Predict", nf); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	preds := make([]Prediction, r)
	for i := 0; i < r; i++ {
		best, bestDist := 0, math.Inf(1)
		for k, cen := range c.centroids {
			var d float64
			for j, v := range cen {
				diff := X.At(i, j) - v
				d += diff * diff
			}
			if d < bestDist {
				best, bestDist = k, d
			}
		}
		preds[i] = Prediction{c.labels[best]}
	}
	c.SetPredictions(preds)
	return preds, nil
}

func (c *centroidClassifier) Clone() Classifier {
	return &centroidClassifier{Base: c.CloneBase()}
}

// clusterDataset returns nPerLabel samples around (10*label, -10*label, 0)
// for labels 0..nLabels-1; the third feature is noise. Chunk of sample i is
// i % nChunks.
func clusterDataset(t *testing.T, nLabels, nPerLabel, nChunks int) *dataset.Dataset {
	t.Helper()
	var rows [][]float64
	var labels []float64
	var chunks []int
	for l := 0; l < nLabels; l++ {
		for k := 0; k < nPerLabel; k++ {
			jitter := float64(k%3) - 1
			rows = append(rows, []float64{10*float64(l) + jitter, -10*float64(l) - jitter, float64(k % 2)})
			labels = append(labels, float64(l))
			chunks = append(chunks, len(chunks)%nChunks)
		}
	}
	ds, err := dataset.FromRows(rows, dataset.WithLabels(labels), dataset.WithChunks(chunks), dataset.WithRandomState(1))
	require.NoError(t, err)
	return ds
}

// captureWarnings routes library warnings into the returned slice for the
// duration of the test.
func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var mu sync.Mutex
	var got []error
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), got...)
	}
}

func labelsOf(preds []Prediction) []float64 {
	return Predictions(preds).Labels()
}
