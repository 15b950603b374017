// Package dataset provides the sample container consumed by classifiers,
// splitters and measures.
//
// A Dataset holds a samples x features matrix together with one label and
// one chunk value per sample. Chunks group samples that belong together, for
// example the samples of one acquisition run, and drive cross-validation and
// label permutation.
//
// Every selection returns a new Dataset backed by copied storage. The only
// in-place mutations are SetLabels, SetChunks, Extend and PermuteLabels.
package dataset

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// Dataset is a labeled sample/feature matrix. It is not safe for concurrent
// mutation.
type Dataset struct {
	samples *mat.Dense
	labels  []float64
	chunks  []int

	// labels saved by PermuteLabels(true, ...)
	origLabels []float64

	uniqueLabels []float64
	uniqueChunks []int

	rng *rand.Rand
}

type options struct {
	labels []float64
	label  *float64
	chunks []int
	chunk  *int
	seed   *uint64
}

// Option configures New.
type Option func(*options)

// WithLabels sets one label per sample.
func WithLabels(labels []float64) Option {
	return func(o *options) {
		o.labels = labels
		o.label = nil
	}
}

// WithLabel assigns the same label to every sample.
func WithLabel(label float64) Option {
	return func(o *options) {
		o.label = &label
		o.labels = nil
	}
}

// WithChunks sets one chunk value per sample.
func WithChunks(chunks []int) Option {
	return func(o *options) {
		o.chunks = chunks
		o.chunk = nil
	}
}

// WithChunk assigns the same chunk to every sample.
func WithChunk(chunk int) Option {
	return func(o *options) {
		o.chunk = &chunk
		o.chunks = nil
	}
}

// WithRandomState seeds the generator used by PermuteLabels and
// RandomSubsample.
func WithRandomState(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// New creates a Dataset from samples. Without chunks every sample forms its
// own chunk; without labels every label is zero.
func New(samples mat.Matrix, opts ...Option) (*Dataset, error) {
	if samples == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	r, c := samples.Dims()
	if r == 0 || c == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	labels := make([]float64, r)
	switch {
	case o.labels != nil:
		if len(o.labels) != r {
			return nil, errors.NewLengthMismatchError("dataset.New", "labels", r, len(o.labels))
		}
		copy(labels, o.labels)
	case o.label != nil:
		for i := range labels {
			labels[i] = *o.label
		}
	}

	chunks := make([]int, r)
	switch {
	case o.chunks != nil:
		if len(o.chunks) != r {
			return nil, errors.NewLengthMismatchError("dataset.New", "chunks", r, len(o.chunks))
		}
		copy(chunks, o.chunks)
	case o.chunk != nil:
		for i := range chunks {
			chunks[i] = *o.chunk
		}
	default:
		for i := range chunks {
			chunks[i] = i
		}
	}

	var rng *rand.Rand
	if o.seed != nil {
		rng = rand.New(rand.NewPCG(*o.seed, *o.seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Dataset{
		samples: mat.DenseCopyOf(samples),
		labels:  labels,
		chunks:  chunks,
		rng:     rng,
	}, nil
}

// FromRows creates a Dataset from a slice of equally long rows.
func FromRows(rows [][]float64, opts ...Option) (*Dataset, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	nFeatures := len(rows[0])
	data := make([]float64, 0, len(rows)*nFeatures)
	for _, row := range rows {
		if len(row) != nFeatures {
			return nil, errors.NewLengthMismatchError("dataset.FromRows", "row", nFeatures, len(row))
		}
		data = append(data, row...)
	}
	return New(mat.NewDense(len(rows), nFeatures, data), opts...)
}

// derive builds a dataset sharing nothing with d except a generator forked
// from d's generator.
func (d *Dataset) derive(samples *mat.Dense, labels []float64, chunks []int) *Dataset {
	return &Dataset{
		samples: samples,
		labels:  labels,
		chunks:  chunks,
		rng:     rand.New(rand.NewPCG(d.rng.Uint64(), d.rng.Uint64())),
	}
}

// Samples returns the sample matrix. Callers must not modify it.
func (d *Dataset) Samples() *mat.Dense {
	return d.samples
}

// Labels returns a copy of the labels.
func (d *Dataset) Labels() []float64 {
	return append([]float64(nil), d.labels...)
}

// Chunks returns a copy of the chunk values.
func (d *Dataset) Chunks() []int {
	return append([]int(nil), d.chunks...)
}

// NSamples returns the number of samples.
func (d *Dataset) NSamples() int {
	r, _ := d.samples.Dims()
	return r
}

// NFeatures returns the number of features per sample.
func (d *Dataset) NFeatures() int {
	_, c := d.samples.Dims()
	return c
}

// SetLabels replaces the labels in place.
func (d *Dataset) SetLabels(labels []float64) error {
	if len(labels) != d.NSamples() {
		return errors.NewLengthMismatchError("Dataset.SetLabels", "labels", d.NSamples(), len(labels))
	}
	d.labels = append([]float64(nil), labels...)
	d.uniqueLabels = nil
	return nil
}

// SetChunks replaces the chunks in place.
func (d *Dataset) SetChunks(chunks []int) error {
	if len(chunks) != d.NSamples() {
		return errors.NewLengthMismatchError("Dataset.SetChunks", "chunks", d.NSamples(), len(chunks))
	}
	d.chunks = append([]int(nil), chunks...)
	d.uniqueChunks = nil
	return nil
}

// UniqueLabels returns the sorted distinct labels.
func (d *Dataset) UniqueLabels() []float64 {
	if d.uniqueLabels == nil {
		d.uniqueLabels = uniqueFloats(d.labels)
	}
	return append([]float64(nil), d.uniqueLabels...)
}

// UniqueChunks returns the sorted distinct chunk values.
func (d *Dataset) UniqueChunks() []int {
	if d.uniqueChunks == nil {
		seen := make(map[int]struct{})
		for _, c := range d.chunks {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				d.uniqueChunks = append(d.uniqueChunks, c)
			}
		}
		sort.Ints(d.uniqueChunks)
	}
	return append([]int(nil), d.uniqueChunks...)
}

// SamplesPerLabel returns the number of samples for each entry of
// UniqueLabels.
func (d *Dataset) SamplesPerLabel() []int {
	unique := d.UniqueLabels()
	counts := make([]int, len(unique))
	for _, l := range d.labels {
		counts[sort.SearchFloat64s(unique, l)]++
	}
	return counts
}

// SamplesPerChunk returns the number of samples for each entry of
// UniqueChunks.
func (d *Dataset) SamplesPerChunk() []int {
	unique := d.UniqueChunks()
	counts := make([]int, len(unique))
	for _, c := range d.chunks {
		counts[sort.SearchInts(unique, c)]++
	}
	return counts
}

// Attribute returns a per-sample attribute by name: "labels" or "chunks".
func (d *Dataset) Attribute(name string) ([]float64, error) {
	switch name {
	case "labels":
		return d.Labels(), nil
	case "chunks":
		out := make([]float64, len(d.chunks))
		for i, c := range d.chunks {
			out[i] = float64(c)
		}
		return out, nil
	default:
		return nil, errors.NewValidationError("attribute", "unknown sample attribute, expected labels or chunks", name)
	}
}

// IDsByLabels returns the ascending ids of samples whose label is one of
// labels.
func (d *Dataset) IDsByLabels(labels []float64) []int {
	want := make(map[float64]struct{}, len(labels))
	for _, l := range labels {
		want[l] = struct{}{}
	}
	var ids []int
	for i, l := range d.labels {
		if _, ok := want[l]; ok {
			ids = append(ids, i)
		}
	}
	return ids
}

// SelectFeatures returns a Dataset holding only the given feature columns,
// in the given order.
func (d *Dataset) SelectFeatures(ids []int) (*Dataset, error) {
	if len(ids) == 0 {
		return nil, errors.NewValidationError("ids", "at least one feature must be selected", ids)
	}
	nf := d.NFeatures()
	for _, id := range ids {
		if id < 0 || id >= nf {
			return nil, errors.NewValidationError("ids", fmt.Sprintf("feature id out of range [0, %d)", nf), id)
		}
	}
	n := d.NSamples()
	out := mat.NewDense(n, len(ids), nil)
	for i := 0; i < n; i++ {
		for j, id := range ids {
			out.Set(i, j, d.samples.At(i, id))
		}
	}
	return d.derive(out, d.Labels(), d.Chunks()), nil
}

// SelectSamples returns a Dataset holding the given samples in the given
// order. A single id yields a one-sample Dataset.
func (d *Dataset) SelectSamples(ids ...int) (*Dataset, error) {
	if len(ids) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	n := d.NSamples()
	nf := d.NFeatures()
	out := mat.NewDense(len(ids), nf, nil)
	labels := make([]float64, len(ids))
	chunks := make([]int, len(ids))
	for i, id := range ids {
		if id < 0 || id >= n {
			return nil, errors.NewValidationError("ids", fmt.Sprintf("sample id out of range [0, %d)", n), id)
		}
		out.SetRow(i, d.samples.RawRowView(id))
		labels[i] = d.labels[id]
		chunks[i] = d.chunks[id]
	}
	return d.derive(out, labels, chunks), nil
}

// WithSamples returns a Dataset with the same labels and chunks but
// different samples, as produced by a mapper.
func (d *Dataset) WithSamples(samples mat.Matrix) (*Dataset, error) {
	r, c := samples.Dims()
	if r != d.NSamples() {
		return nil, errors.NewShapeMismatchError("Dataset.WithSamples", d.NSamples(), r, 0)
	}
	if c == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	return d.derive(mat.DenseCopyOf(samples), d.Labels(), d.Chunks()), nil
}

// Relabel returns a copy of d with different labels.
func (d *Dataset) Relabel(labels []float64) (*Dataset, error) {
	if len(labels) != d.NSamples() {
		return nil, errors.NewLengthMismatchError("Dataset.Relabel", "labels", d.NSamples(), len(labels))
	}
	return d.derive(mat.DenseCopyOf(d.samples), append([]float64(nil), labels...), d.Chunks()), nil
}

// Copy returns an independent copy of d.
func (d *Dataset) Copy() *Dataset {
	return d.derive(mat.DenseCopyOf(d.samples), d.Labels(), d.Chunks())
}

// Concat returns a new Dataset with the samples of other appended to those
// of d. Chunk values are kept as they are, so equal chunk values from both
// datasets end up in the same chunk.
func (d *Dataset) Concat(other *Dataset) (*Dataset, error) {
	out := d.Copy()
	if err := out.Extend(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Extend appends the samples of other to d in place. When d has permuted
// labels, the labels restored later include the original labels of other.
func (d *Dataset) Extend(other *Dataset) error {
	if other.NFeatures() != d.NFeatures() {
		return errors.NewShapeMismatchError("Dataset.Extend", d.NFeatures(), other.NFeatures(), 1)
	}
	n, m := d.NSamples(), other.NSamples()
	otherLabels := append([]float64(nil), other.labels...)
	otherOrig := otherLabels
	if other.origLabels != nil {
		otherOrig = append([]float64(nil), other.origLabels...)
	}
	stacked := mat.NewDense(n+m, d.NFeatures(), nil)
	stacked.Stack(d.samples, other.samples)

	d.samples = stacked
	d.labels = append(append(make([]float64, 0, n+m), d.labels...), otherLabels...)
	d.chunks = append(append(make([]int, 0, n+m), d.chunks...), other.chunks...)
	d.uniqueLabels = nil
	d.uniqueChunks = nil
	if d.origLabels != nil {
		d.origLabels = append(append(make([]float64, 0, n+m), d.origLabels...), otherOrig...)
	}
	return nil
}

// PermuteLabels shuffles the labels in place when enable is true, keeping
// the original labels for restoration. With perChunk the shuffle only
// happens among samples sharing a chunk, so the label counts per chunk are
// unchanged. Calling it with enable false restores the original labels.
func (d *Dataset) PermuteLabels(enable, perChunk bool) error {
	if !enable {
		if d.origLabels == nil {
			return errors.NewNoPermutationActiveError()
		}
		d.labels = d.origLabels
		d.origLabels = nil
		d.uniqueLabels = nil
		return nil
	}

	if d.origLabels == nil {
		d.origLabels = append([]float64(nil), d.labels...)
	}
	permuted := append([]float64(nil), d.labels...)
	if perChunk {
		for _, c := range d.UniqueChunks() {
			var ids []int
			for i, ch := range d.chunks {
				if ch == c {
					ids = append(ids, i)
				}
			}
			d.rng.Shuffle(len(ids), func(i, j int) {
				permuted[ids[i]], permuted[ids[j]] = permuted[ids[j]], permuted[ids[i]]
			})
		}
	} else {
		d.rng.Shuffle(len(permuted), func(i, j int) {
			permuted[i], permuted[j] = permuted[j], permuted[i]
		})
	}
	d.labels = permuted
	d.uniqueLabels = nil
	return nil
}

// IsPermuted reports whether PermuteLabels(true, ...) is active.
func (d *Dataset) IsPermuted() bool {
	return d.origLabels != nil
}

// RandomSubsample draws samples without replacement, independently for
// every unique label. nPerLabel is either one count used for all labels or
// one count per entry of UniqueLabels. Samples appear grouped by label in
// the result.
func (d *Dataset) RandomSubsample(nPerLabel ...int) (*Dataset, error) {
	unique := d.UniqueLabels()
	counts := nPerLabel
	switch len(nPerLabel) {
	case 1:
		counts = make([]int, len(unique))
		for i := range counts {
			counts[i] = nPerLabel[0]
		}
	case len(unique):
	default:
		return nil, errors.NewLengthMismatchError("Dataset.RandomSubsample", "nPerLabel", len(unique), len(nPerLabel))
	}

	var ids []int
	for i, label := range unique {
		group := d.IDsByLabels([]float64{label})
		if counts[i] < 0 || counts[i] > len(group) {
			return nil, errors.NewValidationError("nPerLabel",
				fmt.Sprintf("label %v has %d samples", label, len(group)), counts[i])
		}
		d.rng.Shuffle(len(group), func(a, b int) {
			group[a], group[b] = group[b], group[a]
		})
		ids = append(ids, group[:counts[i]]...)
	}
	return d.SelectSamples(ids...)
}

// String summarises the dataset shape.
func (d *Dataset) String() string {
	return fmt.Sprintf("Dataset / %d x %d", d.NSamples(), d.NFeatures())
}

func uniqueFloats(values []float64) []float64 {
	seen := make(map[float64]struct{}, len(values))
	out := make([]float64, 0)
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
