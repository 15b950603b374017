package measures

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/gomvpa/core/parallel"
	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

// FProbAttr is the feature attribute holding ANOVA p-values.
const FProbAttr = "fprob"

// parallelThreshold is the feature count above which F-scores are computed
// concurrently.
const parallelThreshold = 512

type anovaConfig struct {
	targetsAttr string
	pValues     bool
}

// AnovaOption configures OneWayAnova and CompoundOneWayAnova.
type AnovaOption func(*anovaConfig)

// WithTargetsAttr selects the sample attribute defining the groups:
// "labels" (default) or "chunks".
func WithTargetsAttr(name string) AnovaOption {
	return func(c *anovaConfig) {
		c.targetsAttr = name
	}
}

// WithPValues toggles computation of the fprob attribute. Enabled by
// default.
func WithPValues(on bool) AnovaOption {
	return func(c *anovaConfig) {
		c.pValues = on
	}
}

func newAnovaConfig(opts []AnovaOption) anovaConfig {
	cfg := anovaConfig{targetsAttr: "labels", pValues: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// OneWayAnova computes per feature the F-score of a univariate one-way
// ANOVA, the ratio of between-group to within-group mean squares, with one
// group per unique target. F-scores are in [0, +Inf]: zero within-group
// variance gives +Inf when the group means differ, and 0/0 is reported as 0.
// The fprob of an infinite F is 0.
type OneWayAnova struct {
	cfg anovaConfig
}

// NewOneWayAnova creates a OneWayAnova measure.
func NewOneWayAnova(opts ...AnovaOption) *OneWayAnova {
	return &OneWayAnova{cfg: newAnovaConfig(opts)}
}

// Compute implements Measure. The result has a single row; p-values are in
// FeatureAttrs["fprob"] when both degrees of freedom are positive.
func (a *OneWayAnova) Compute(ds *dataset.Dataset) (*Sensitivity, error) {
	targets, err := ds.Attribute(a.cfg.targetsAttr)
	if err != nil {
		return nil, err
	}
	f, fprob := fOneWay(ds.Samples(), targets, a.cfg.pValues)

	sens := &Sensitivity{
		Scores:       mat.NewDense(1, len(f), f),
		FeatureAttrs: map[string][]float64{},
	}
	if fprob != nil {
		sens.FeatureAttrs[FProbAttr] = fprob
	}
	log.GetLoggerWithName("OneWayAnova").Debug("Computed F-scores",
		log.OperationKey, log.OperationCompute,
		log.SamplesKey, ds.NSamples(),
		log.FeaturesKey, ds.NFeatures(),
	)
	return sens, nil
}

// CompoundOneWayAnova runs one OneWayAnova per unique target, comparing
// that target against all others. Row i of the result belongs to
// Targets[i]; its p-values are stored as "fprob_<target>".
type CompoundOneWayAnova struct {
	cfg anovaConfig
}

// NewCompoundOneWayAnova creates a CompoundOneWayAnova measure.
func NewCompoundOneWayAnova(opts ...AnovaOption) *CompoundOneWayAnova {
	return &CompoundOneWayAnova{cfg: newAnovaConfig(opts)}
}

// Compute implements Measure.
func (a *CompoundOneWayAnova) Compute(ds *dataset.Dataset) (*Sensitivity, error) {
	targets, err := ds.Attribute(a.cfg.targetsAttr)
	if err != nil {
		return nil, err
	}
	unique := uniqueSorted(targets)

	nf := ds.NFeatures()
	scores := mat.NewDense(len(unique), nf, nil)
	attrs := map[string][]float64{}
	binary := make([]float64, len(targets))
	for row, target := range unique {
		for i, t := range targets {
			if t == target {
				binary[i] = 1
			} else {
				binary[i] = 2
			}
		}
		f, fprob := fOneWay(ds.Samples(), binary, a.cfg.pValues)
		scores.SetRow(row, f)
		if fprob != nil {
			attrs[FProbAttr+"_"+FormatTarget(target)] = fprob
		}
	}

	return &Sensitivity{Scores: scores, Targets: unique, FeatureAttrs: attrs}, nil
}

// FormatTarget renders a target value the way attribute names use it.
func FormatTarget(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// fOneWay returns the F-score of every column of X for the groups defined
// by targets, and the matching p-values when requested and defined.
func fOneWay(X *mat.Dense, targets []float64, pValues bool) ([]float64, []float64) {
	n, nf := X.Dims()
	groups := make(map[float64][]int)
	for i, t := range targets {
		groups[t] = append(groups[t], i)
	}
	na := len(groups)
	dfbn := float64(na - 1)
	dfwn := float64(n - na)

	f := make([]float64, nf)
	parallel.ParallelizeWithThreshold(nf, parallelThreshold, func(start, end int) {
		for j := start; j < end; j++ {
			f[j] = fScore(X, j, groups, n, dfbn, dfwn)
		}
	})

	if !pValues || dfbn <= 0 || dfwn <= 0 {
		return f, nil
	}
	dist := distuv.F{D1: dfbn, D2: dfwn}
	fprob := make([]float64, nf)
	for j, v := range f {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		fprob[j] = dist.Survival(v)
	}
	return f, fprob
}

// fScore computes the sums of squares in two passes over values shifted by
// the first sample, so that large feature offsets do not cancel.
func fScore(X *mat.Dense, j int, groups map[float64][]int, n int, dfbn, dfwn float64) float64 {
	shift := X.At(0, j)
	var total float64
	for i := 0; i < n; i++ {
		total += X.At(i, j) - shift
	}
	grand := total / float64(n)

	var ssbn, sswn float64
	for _, ids := range groups {
		var s float64
		for _, i := range ids {
			s += X.At(i, j) - shift
		}
		mean := s / float64(len(ids))
		d := mean - grand
		ssbn += float64(len(ids)) * d * d
		for _, i := range ids {
			e := X.At(i, j) - shift - mean
			sswn += e * e
		}
	}
	ssbn = math.Max(ssbn, 0)
	sswn = math.Max(sswn, 0)

	f := (ssbn / dfbn) / (sswn / dfwn)
	if math.IsNaN(f) {
		return 0
	}
	return f
}

func uniqueSorted(values []float64) []float64 {
	seen := make(map[float64]struct{}, len(values))
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
