// Package splitters partitions a Dataset into training and testing parts for
// cross-validation.
package splitters

import (
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// Splitter produces a finite sequence of dataset partitions.
type Splitter interface {
	Split(ds *dataset.Dataset) ([]Split, error)
}

// Split is one training/testing partition. Test may be nil when a splitter
// only produces training data.
type Split struct {
	Train *dataset.Dataset
	Test  *dataset.Dataset
}

// Fold holds the sample ids of one partition.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// materialize turns folds into dataset splits.
func materialize(ds *dataset.Dataset, folds []Fold) ([]Split, error) {
	splits := make([]Split, 0, len(folds))
	for _, f := range folds {
		var s Split
		var err error
		if len(f.TrainIndices) > 0 {
			if s.Train, err = ds.SelectSamples(f.TrainIndices...); err != nil {
				return nil, err
			}
		}
		if len(f.TestIndices) > 0 {
			if s.Test, err = ds.SelectSamples(f.TestIndices...); err != nil {
				return nil, err
			}
		}
		splits = append(splits, s)
	}
	return splits, nil
}

// foldByChunks puts the samples whose chunk is in testChunks into the test
// part and every other sample into the training part.
func foldByChunks(chunks []int, testChunks []int) Fold {
	test := make(map[int]bool, len(testChunks))
	for _, c := range testChunks {
		test[c] = true
	}
	var f Fold
	for i, c := range chunks {
		if test[c] {
			f.TestIndices = append(f.TestIndices, i)
		} else {
			f.TrainIndices = append(f.TrainIndices, i)
		}
	}
	return f
}

// NoneSplitter yields a single split that trains on the whole dataset.
type NoneSplitter struct{}

// NewNoneSplitter creates a NoneSplitter.
func NewNoneSplitter() *NoneSplitter { return &NoneSplitter{} }

// Split implements Splitter.
func (NoneSplitter) Split(ds *dataset.Dataset) ([]Split, error) {
	return []Split{{Train: ds.Copy()}}, nil
}

// NFoldSplitter holds out every combination of CVType chunks once. With
// CVType 1 this is leave-one-chunk-out cross-validation.
type NFoldSplitter struct {
	CVType int
}

// NewNFoldSplitter creates an NFoldSplitter. cvType values below 1 mean 1.
func NewNFoldSplitter(cvType int) *NFoldSplitter {
	if cvType < 1 {
		cvType = 1
	}
	return &NFoldSplitter{CVType: cvType}
}

// Folds returns the chunk-wise folds of ds.
func (s *NFoldSplitter) Folds(ds *dataset.Dataset) ([]Fold, error) {
	unique := ds.UniqueChunks()
	if s.CVType >= len(unique) {
		return nil, errors.NewValidationError("CVType",
			"must be smaller than the number of unique chunks", s.CVType)
	}
	chunks := ds.Chunks()
	var folds []Fold
	for _, combo := range combinations(unique, s.CVType) {
		folds = append(folds, foldByChunks(chunks, combo))
	}
	return folds, nil
}

// Split implements Splitter.
func (s *NFoldSplitter) Split(ds *dataset.Dataset) ([]Split, error) {
	folds, err := s.Folds(ds)
	if err != nil {
		return nil, err
	}
	return materialize(ds, folds)
}

// combinations returns all k-element subsets of values in lexicographic
// order.
func combinations(values []int, k int) [][]int {
	var out [][]int
	combo := make([]int, 0, k)
	var rec func(start int)
	rec = func(start int) {
		if len(combo) == k {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for i := start; i <= len(values)-(k-len(combo)); i++ {
			combo = append(combo, values[i])
			rec(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	rec(0)
	return out
}

// OddEvenSplitter yields two splits: the first tests on the chunks at odd
// positions of UniqueChunks, the second on those at even positions.
type OddEvenSplitter struct{}

// NewOddEvenSplitter creates an OddEvenSplitter.
func NewOddEvenSplitter() *OddEvenSplitter { return &OddEvenSplitter{} }

// Split implements Splitter.
func (OddEvenSplitter) Split(ds *dataset.Dataset) ([]Split, error) {
	unique := ds.UniqueChunks()
	if len(unique) < 2 {
		return nil, errors.NewValidationError("chunks", "need at least two unique chunks", len(unique))
	}
	var odd, even []int
	for i, c := range unique {
		if i%2 == 1 {
			odd = append(odd, c)
		} else {
			even = append(even, c)
		}
	}
	chunks := ds.Chunks()
	return materialize(ds, []Fold{foldByChunks(chunks, odd), foldByChunks(chunks, even)})
}

// HalfSplitter yields two splits: the first tests on the second half of the
// unique chunks, the second on the first half.
type HalfSplitter struct{}

// NewHalfSplitter creates a HalfSplitter.
func NewHalfSplitter() *HalfSplitter { return &HalfSplitter{} }

// Split implements Splitter.
func (HalfSplitter) Split(ds *dataset.Dataset) ([]Split, error) {
	unique := ds.UniqueChunks()
	if len(unique) < 2 {
		return nil, errors.NewValidationError("chunks", "need at least two unique chunks", len(unique))
	}
	half := len(unique) / 2
	chunks := ds.Chunks()
	return materialize(ds, []Fold{
		foldByChunks(chunks, unique[half:]),
		foldByChunks(chunks, unique[:half]),
	})
}

// KFoldSplitter partitions samples into NSplits folds regardless of chunks.
type KFoldSplitter struct {
	NSplits    int
	Shuffle    bool
	RandomSeed uint64
}

// NewKFoldSplitter creates a new k-fold splitter. nSplits below 2 falls back
// to 5.
func NewKFoldSplitter(nSplits int, shuffle bool, randomSeed uint64) *KFoldSplitter {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFoldSplitter{NSplits: nSplits, Shuffle: shuffle, RandomSeed: randomSeed}
}

// Folds generates train/test indices for each fold.
func (kf *KFoldSplitter) Folds(ds *dataset.Dataset) ([]Fold, error) {
	nSamples := ds.NSamples()
	if kf.NSplits > nSamples {
		return nil, errors.NewValidationError("NSplits", "cannot exceed the number of samples", kf.NSplits)
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.RandomSeed, kf.RandomSeed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	current := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}
		test := append([]int(nil), indices[current:current+testSize]...)
		sort.Ints(test)

		train := make([]int, 0, nSamples-testSize)
		train = append(train, indices[:current]...)
		train = append(train, indices[current+testSize:]...)
		sort.Ints(train)

		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		current += testSize
	}
	return folds, nil
}

// Split implements Splitter.
func (kf *KFoldSplitter) Split(ds *dataset.Dataset) ([]Split, error) {
	folds, err := kf.Folds(ds)
	if err != nil {
		return nil, err
	}
	return materialize(ds, folds)
}

// StratifiedKFoldSplitter is a k-fold splitter that keeps the label
// proportions of every fold close to those of the whole dataset.
type StratifiedKFoldSplitter struct {
	NSplits    int
	Shuffle    bool
	RandomSeed uint64
}

// NewStratifiedKFoldSplitter creates a new stratified k-fold splitter.
func NewStratifiedKFoldSplitter(nSplits int, shuffle bool, randomSeed uint64) *StratifiedKFoldSplitter {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFoldSplitter{NSplits: nSplits, Shuffle: shuffle, RandomSeed: randomSeed}
}

// Folds generates stratified train/test indices for each fold.
func (skf *StratifiedKFoldSplitter) Folds(ds *dataset.Dataset) ([]Fold, error) {
	nSamples := ds.NSamples()
	if skf.NSplits > nSamples {
		return nil, errors.NewValidationError("NSplits", "cannot exceed the number of samples", skf.NSplits)
	}

	var r *rand.Rand
	if skf.Shuffle {
		r = rand.New(rand.NewPCG(skf.RandomSeed, skf.RandomSeed))
	}

	folds := make([]Fold, skf.NSplits)
	// iterate labels in sorted order so that the result is deterministic
	for _, label := range ds.UniqueLabels() {
		indices := ds.IDsByLabels([]float64{label})
		if r != nil {
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
		nClass := len(indices)
		foldSize := nClass / skf.NSplits
		remainder := nClass % skf.NSplits

		current := 0
		for i := 0; i < skf.NSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			folds[i].TestIndices = append(folds[i].TestIndices, indices[current:current+testSize]...)
			current += testSize
		}
	}

	for i := range folds {
		sort.Ints(folds[i].TestIndices)
		testSet := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}
		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}
	return folds, nil
}

// Split implements Splitter.
func (skf *StratifiedKFoldSplitter) Split(ds *dataset.Dataset) ([]Split, error) {
	folds, err := skf.Folds(ds)
	if err != nil {
		return nil, err
	}
	return materialize(ds, folds)
}
