package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gomvpa/clfs"
	"github.com/YuminosukeSato/gomvpa/clfs/linear"
	"github.com/YuminosukeSato/gomvpa/mappers"
	"github.com/YuminosukeSato/gomvpa/measures"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/splitters"
)

const treeYAML = `
log_level: debug
random_state: 7
classifier:
  kind: split
  splitter:
    kind: oddeven
  clf:
    kind: fsel
    selection:
      n: 2
      anova:
        compound: true
    clf:
      kind: multiclass
      strategy: 1-vs-1
      clf:
        kind: logistic
        c: 10
        max_iter: 300
anova:
  targets_attr: chunks
  p_values: false
crossval:
  splitter:
    kind: stratified
    folds: 3
    shuffle: true
  workers: 2
`

func TestParse_Tree(t *testing.T) {
	cfg, err := Parse([]byte(treeYAML))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NotNil(t, cfg.RandomState)
	assert.Equal(t, uint64(7), *cfg.RandomState)
	assert.Equal(t, 2, cfg.CrossVal.Workers)

	clf, err := cfg.BuildClassifier()
	require.NoError(t, err)
	sc, ok := clf.(*clfs.SplitClassifier)
	require.True(t, ok)
	assert.IsType(t, &splitters.OddEvenSplitter{}, sc.Splitter())

	s, err := cfg.BuildSplitter()
	require.NoError(t, err)
	strat, ok := s.(*splitters.StratifiedKFoldSplitter)
	require.True(t, ok)
	assert.Equal(t, 3, strat.NSplits)

	assert.IsType(t, &measures.OneWayAnova{}, cfg.BuildMeasure())
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	clf, err := cfg.BuildClassifier()
	require.NoError(t, err)
	mc, ok := clf.(*clfs.MulticlassClassifier)
	require.True(t, ok)
	assert.NotNil(t, mc.Ensemble())

	s, err := cfg.BuildSplitter()
	require.NoError(t, err)
	assert.IsType(t, &splitters.NFoldSplitter{}, s)

	cfg, err = Parse([]byte("classifier:\n  kind: ridge\n  lambda: 0.5\n"))
	require.NoError(t, err)
	clf, err = cfg.BuildClassifier()
	require.NoError(t, err)
	assert.IsType(t, &linear.RidgeRegression{}, clf)
	assert.Equal(t, SplitterNFold, cfg.CrossVal.Splitter.Kind)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("classifier:\n  kind: ridge\n  alpha: 3\n"))
	assert.Error(t, err)
}

func TestBuildClassifier_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown kind", "classifier:\n  kind: svm\n"},
		{"missing clf", "classifier:\n  kind: proxy\n"},
		{"bad strategy", "classifier:\n  kind: multiclass\n  strategy: x\n  clf:\n    kind: ridge\n"},
		{"bad ensemble", "classifier:\n  kind: split\n  ensemble: x\n  clf:\n    kind: ridge\n"},
		{"overlapping binary", "classifier:\n  kind: binary\n  pos: [1]\n  neg: [1]\n  clf:\n    kind: ridge\n"},
		{"missing selection", "classifier:\n  kind: fsel\n  clf:\n    kind: ridge\n"},
		{"empty selection", "classifier:\n  kind: fsel\n  selection: {}\n  clf:\n    kind: ridge\n"},
		{"nested unknown", "classifier:\n  kind: combined\n  children:\n    - kind: ridge\n    - kind: nope\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			clf, err := cfg.BuildClassifier()
			assert.Error(t, err)
			assert.Nil(t, clf)
		})
	}

	cfg, err := Parse([]byte("classifier:\n  kind: svm\n"))
	require.NoError(t, err)
	_, err = cfg.BuildClassifier()
	var ice *errors.InvalidConfigurationError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "kind", ice.Option)
}

func TestBuildClassifier_Ensembles(t *testing.T) {
	cfg, err := Parse([]byte(`
classifier:
  kind: combined
  parallel: 2
  children:
    - kind: logistic
    - kind: binary
      pos: [1]
      neg: [2]
      clf:
        kind: ridge
    - kind: boosted
      children:
        - kind: ridge
`))
	require.NoError(t, err)
	clf, err := cfg.BuildClassifier()
	require.NoError(t, err)
	cc, ok := clf.(*clfs.CombinedClassifier)
	require.True(t, ok)
	require.Len(t, cc.Classifiers(), 3)
	assert.IsType(t, &linear.LogisticRegression{}, cc.Classifiers()[0])
	assert.IsType(t, &clfs.BinaryClassifier{}, cc.Classifiers()[1])
	assert.IsType(t, &clfs.BoostedClassifier{}, cc.Classifiers()[2])
}

func TestBuildClassifier_ZScore(t *testing.T) {
	cfg, err := Parse([]byte("classifier:\n  kind: zscore\n  clf:\n    kind: ridge\n"))
	require.NoError(t, err)
	clf, err := cfg.BuildClassifier()
	require.NoError(t, err)
	mc, ok := clf.(*clfs.MappedClassifier)
	require.True(t, ok)
	assert.IsType(t, &mappers.ZScoreMapper{}, mc.Mapper())
}

func TestBuildErrorFunc(t *testing.T) {
	predicted, target := []float64{1, 2, 4}, []float64{1, 2, 2}
	for name, want := range map[string]float64{
		"":        1.0 / 3.0,
		ErrorRate: 1.0 / 3.0,
		ErrorMSE:  4.0 / 3.0,
		ErrorMAE:  2.0 / 3.0,
	} {
		cfg := Default()
		cfg.CrossVal.Error = name
		fn, labelled, err := cfg.BuildErrorFunc()
		require.NoError(t, err, name)
		assert.Equal(t, name == "" || name == ErrorRate, labelled, name)
		got, err := fn(predicted, target)
		require.NoError(t, err, name)
		assert.InDelta(t, want, got, 1e-12, name)
	}

	cfg := Default()
	cfg.CrossVal.Error = ErrorCorrelation
	fn, labelled, err := cfg.BuildErrorFunc()
	require.NoError(t, err)
	assert.False(t, labelled)
	got, err := fn([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)

	cfg.CrossVal.Error = "hinge"
	_, _, err = cfg.BuildErrorFunc()
	var ice *errors.InvalidConfigurationError
	assert.True(t, errors.As(err, &ice))
}

func TestBuildSplitter_Kinds(t *testing.T) {
	for kind, want := range map[string]any{
		SplitterNone:    &splitters.NoneSplitter{},
		SplitterNFold:   &splitters.NFoldSplitter{},
		SplitterOddEven: &splitters.OddEvenSplitter{},
		SplitterHalf:    &splitters.HalfSplitter{},
		SplitterKFold:   &splitters.KFoldSplitter{},
	} {
		s, err := buildSplitter(&SplitterConfig{Kind: kind}, nil)
		require.NoError(t, err, kind)
		assert.IsType(t, want, s, kind)
	}
	_, err := buildSplitter(&SplitterConfig{Kind: "loo"}, nil)
	assert.Error(t, err)
}

func TestLoadAndMarshal(t *testing.T) {
	cfg := Default()
	data, err := Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mvpa.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
