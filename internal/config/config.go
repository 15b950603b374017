// Package config loads the YAML configuration of the mvpa command and
// turns it into classifiers, measures and splitters.
package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// Config is the root of the configuration file.
type Config struct {
	LogLevel    string           `yaml:"log_level"`
	RandomState *uint64          `yaml:"random_state,omitempty"`
	Classifier  ClassifierConfig `yaml:"classifier"`
	Anova       AnovaConfig      `yaml:"anova"`
	CrossVal    CrossValConfig   `yaml:"crossval"`
}

// ClassifierConfig describes one node of a classifier tree. Kind selects
// the node type; the remaining fields apply to the kinds that use them.
type ClassifierConfig struct {
	Kind string `yaml:"kind"`

	// logistic
	C       float64 `yaml:"c,omitempty"`
	MaxIter int     `yaml:"max_iter,omitempty"`
	Tol     float64 `yaml:"tol,omitempty"`

	// ridge
	Lambda *float64 `yaml:"lambda,omitempty"`

	// binary
	Pos []float64 `yaml:"pos,omitempty"`
	Neg []float64 `yaml:"neg,omitempty"`

	// multiclass, split
	Strategy string          `yaml:"strategy,omitempty"`
	Ensemble string          `yaml:"ensemble,omitempty"`
	Splitter *SplitterConfig `yaml:"splitter,omitempty"`

	// fsel
	Selection *SelectionConfig `yaml:"selection,omitempty"`

	// combined, boosted
	Children []ClassifierConfig `yaml:"children,omitempty"`
	Parallel int                `yaml:"parallel,omitempty"`

	// binary, multiclass, split, fsel, proxy, zscore
	Clf *ClassifierConfig `yaml:"clf,omitempty"`
}

// SplitterConfig selects a splitter.
type SplitterConfig struct {
	Kind    string `yaml:"kind"`
	CVType  int    `yaml:"cv_type,omitempty"`
	Folds   int    `yaml:"folds,omitempty"`
	Shuffle bool   `yaml:"shuffle,omitempty"`
}

// SelectionConfig describes a sensitivity based feature selection.
type SelectionConfig struct {
	Anova    AnovaConfig `yaml:"anova"`
	N        int         `yaml:"n,omitempty"`
	Fraction float64     `yaml:"fraction,omitempty"`
}

// AnovaConfig configures OneWayAnova and CompoundOneWayAnova.
type AnovaConfig struct {
	Compound    bool   `yaml:"compound"`
	TargetsAttr string `yaml:"targets_attr,omitempty"`
	PValues     *bool  `yaml:"p_values,omitempty"`
}

// CrossValConfig configures cross-validated transfer error.
type CrossValConfig struct {
	Splitter SplitterConfig `yaml:"splitter"`
	Workers  int            `yaml:"workers,omitempty"`
	// Error names the error function: error_rate (default), mse, mae or
	// correlation.
	Error string `yaml:"error,omitempty"`
}

// Default returns the configuration used when no file is given: a 1-vs-1
// multiclass logistic regression evaluated by leave-one-chunk-out.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Classifier: ClassifierConfig{
			Kind: KindMulticlass,
			Clf:  &ClassifierConfig{Kind: KindLogistic},
		},
		CrossVal: CrossValConfig{
			Splitter: SplitterConfig{Kind: SplitterNFold, CVType: 1},
		},
	}
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML. Unknown keys are rejected; sections left out take
// their value from Default.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	def := Default()
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.Classifier.Kind == "" {
		cfg.Classifier = def.Classifier
	}
	if cfg.CrossVal.Splitter.Kind == "" {
		cfg.CrossVal.Splitter = def.CrossVal.Splitter
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
