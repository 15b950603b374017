package clfs

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/gomvpa/core/state"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// Combiner turns the predictions of several classifiers into one decision
// per sample. It receives the classifiers rather than their predictions so
// that it can consult any of their states.
type Combiner interface {
	Combine(clfs []Classifier) ([]Prediction, error)
	States() *state.Collection
	Clone() Combiner
}

// CombinerFactory returns a new, independent Combiner on every call.
type CombinerFactory func() Combiner

// LabelCounts is the value type of the all_label_counts state: one
// label -> votes tally per sample.
type LabelCounts []map[float64]int

// CloneState implements state.Cloner.
func (lc LabelCounts) CloneState() any {
	out := make(LabelCounts, len(lc))
	for i, m := range lc {
		out[i] = state.DeepCopy(m).(map[float64]int)
	}
	return out
}

// MaximalVote picks, for every sample, the label predicted by most
// classifiers. Every label of a multi-label prediction counts as one vote.
// When several labels share the maximal vote the lowest one wins and a
// TiedVoteWarning is emitted.
type MaximalVote struct {
	states *state.Collection
}

// NewMaximalVote creates a MaximalVote combiner.
func NewMaximalVote() *MaximalVote {
	s := state.NewCollection()
	s.MustRegister(StatePredictions, true, "Voted predictions")
	s.MustRegister(StateAllLabelCounts, false, "Counts across classifiers for each label/sample")
	return &MaximalVote{states: s}
}

// MaximalVoteFactory is a CombinerFactory for MaximalVote.
func MaximalVoteFactory() Combiner {
	return NewMaximalVote()
}

// States implements Combiner.
func (m *MaximalVote) States() *state.Collection { return m.states }

// Clone implements Combiner.
func (m *MaximalVote) Clone() Combiner {
	return &MaximalVote{states: m.states.Clone()}
}

// Combine implements Combiner.
func (m *MaximalVote) Combine(clfs []Classifier) ([]Prediction, error) {
	if len(clfs) == 0 {
		return []Prediction{}, nil
	}

	var counts LabelCounts
	for i, clf := range clfs {
		if !clf.States().Enabled(StatePredictions) {
			return nil, errors.NewPreconditionError("MaximalVote",
				fmt.Sprintf("classifier %d must have state 'predictions' enabled", i))
		}
		preds, err := GetPredictions(clf.States())
		if err != nil {
			return nil, errors.Wrapf(err, "MaximalVote: classifier %d", i)
		}
		if counts == nil {
			counts = make(LabelCounts, len(preds))
			for j := range counts {
				counts[j] = make(map[float64]int)
			}
		}
		if len(preds) != len(counts) {
			return nil, errors.NewLengthMismatchError("MaximalVote", "predictions", len(counts), len(preds))
		}
		for j, pred := range preds {
			for _, label := range pred {
				counts[j][label]++
			}
		}
	}

	out := make([]Prediction, len(counts))
	for j, tally := range counts {
		maxVotes := -1
		var best []float64
		for label, votes := range tally {
			switch {
			case votes > maxVotes:
				maxVotes = votes
				best = []float64{label}
			case votes == maxVotes:
				best = append(best, label)
			}
		}
		sort.Float64s(best)
		if len(best) > 1 {
			errors.Warn(errors.NewTiedVoteWarning(j, best, maxVotes, best[0]))
		}
		if len(best) == 0 {
			out[j] = Prediction{}
			continue
		}
		out[j] = Prediction{best[0]}
	}

	_ = m.states.Set(StateAllLabelCounts, counts)
	_ = m.states.Set(StatePredictions, Predictions(out))
	return out, nil
}
