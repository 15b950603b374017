package config

import (
	"github.com/YuminosukeSato/gomvpa/clfs"
	"github.com/YuminosukeSato/gomvpa/clfs/linear"
	"github.com/YuminosukeSato/gomvpa/featsel"
	"github.com/YuminosukeSato/gomvpa/mappers"
	"github.com/YuminosukeSato/gomvpa/measures"
	"github.com/YuminosukeSato/gomvpa/metrics"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
	"github.com/YuminosukeSato/gomvpa/splitters"
)

// Classifier kinds.
const (
	KindLogistic   = "logistic"
	KindRidge      = "ridge"
	KindBinary     = "binary"
	KindMulticlass = "multiclass"
	KindSplit      = "split"
	KindFeatSel    = "fsel"
	KindCombined   = "combined"
	KindBoosted    = "boosted"
	KindProxy      = "proxy"
	KindZScore     = "zscore"
)

// Splitter kinds.
const (
	SplitterNone       = "none"
	SplitterNFold      = "nfold"
	SplitterOddEven    = "oddeven"
	SplitterHalf       = "half"
	SplitterKFold      = "kfold"
	SplitterStratified = "stratified"
)

// Error functions of the crossval section.
const (
	ErrorRate        = "error_rate"
	ErrorMSE         = "mse"
	ErrorMAE         = "mae"
	ErrorCorrelation = "correlation"
)

// BuildClassifier builds the classifier tree of cfg.
func (c *Config) BuildClassifier() (clfs.Classifier, error) {
	return buildClassifier(&c.Classifier, c.RandomState, "classifier")
}

// BuildMeasure builds the ANOVA measure of cfg.
func (c *Config) BuildMeasure() measures.Measure {
	return buildAnova(c.Anova)
}

// BuildSplitter builds the cross-validation splitter of cfg.
func (c *Config) BuildSplitter() (splitters.Splitter, error) {
	return buildSplitter(&c.CrossVal.Splitter, c.RandomState)
}

// BuildErrorFunc returns the error function of the crossval section and
// whether it compares labels, in which case a confusion matrix is
// meaningful.
func (c *Config) BuildErrorFunc() (clfs.ErrorFunc, bool, error) {
	switch c.CrossVal.Error {
	case "", ErrorRate:
		return metrics.ErrorRate, true, nil
	case ErrorMSE:
		return metrics.MeanSquaredError, false, nil
	case ErrorMAE:
		return metrics.MeanAbsoluteError, false, nil
	case ErrorCorrelation:
		return metrics.CorrelationError, false, nil
	default:
		return nil, false, errors.NewInvalidConfigurationError("crossval", "error", c.CrossVal.Error)
	}
}

func buildClassifier(cc *ClassifierConfig, seed *uint64, path string) (clfs.Classifier, error) {
	switch cc.Kind {
	case KindLogistic:
		var opts []linear.LogisticOption
		if cc.C != 0 {
			opts = append(opts, linear.WithC(cc.C))
		}
		if cc.MaxIter != 0 {
			opts = append(opts, linear.WithMaxIter(cc.MaxIter))
		}
		if cc.Tol != 0 {
			opts = append(opts, linear.WithTol(cc.Tol))
		}
		if seed != nil {
			opts = append(opts, linear.WithRandomState(*seed))
		}
		return linear.NewLogisticRegression(opts...), nil

	case KindRidge:
		var opts []linear.RidgeOption
		if cc.Lambda != nil {
			opts = append(opts, linear.WithLambda(*cc.Lambda))
		}
		return linear.NewRidgeRegression(opts...), nil

	case KindBinary:
		inner, err := buildChild(cc, seed, path)
		if err != nil {
			return nil, err
		}
		bc, err := clfs.NewBinaryClassifier(inner, cc.Pos, cc.Neg)
		if err != nil {
			return nil, err
		}
		return bc, nil

	case KindMulticlass:
		inner, err := buildChild(cc, seed, path)
		if err != nil {
			return nil, err
		}
		opts, err := metaOptions(cc, seed, path)
		if err != nil {
			return nil, err
		}
		mc, err := clfs.NewMulticlassClassifier(inner, opts...)
		if err != nil {
			return nil, err
		}
		return mc, nil

	case KindSplit:
		inner, err := buildChild(cc, seed, path)
		if err != nil {
			return nil, err
		}
		opts, err := metaOptions(cc, seed, path)
		if err != nil {
			return nil, err
		}
		return clfs.NewSplitClassifier(inner, opts...), nil

	case KindFeatSel:
		inner, err := buildChild(cc, seed, path)
		if err != nil {
			return nil, err
		}
		if cc.Selection == nil {
			return nil, errors.NewInvalidConfigurationError(path, "selection", nil)
		}
		fs, err := buildSelection(cc.Selection, path)
		if err != nil {
			return nil, err
		}
		return clfs.NewFeatureSelectionClassifier(inner, fs), nil

	case KindCombined, KindBoosted:
		children := make([]clfs.Classifier, len(cc.Children))
		for i := range cc.Children {
			child, err := buildClassifier(&cc.Children[i], seed, path+".children")
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		opts := []clfs.EnsembleOption{clfs.WithClassifiers(children...), clfs.WithParallel(cc.Parallel)}
		if cc.Kind == KindBoosted {
			return clfs.NewBoostedClassifier(opts...), nil
		}
		return clfs.NewCombinedClassifier(opts...), nil

	case KindProxy:
		inner, err := buildChild(cc, seed, path)
		if err != nil {
			return nil, err
		}
		return clfs.NewProxyClassifier(inner), nil

	case KindZScore:
		inner, err := buildChild(cc, seed, path)
		if err != nil {
			return nil, err
		}
		return clfs.NewMappedClassifier(inner, mappers.NewZScoreMapper()), nil

	default:
		return nil, errors.NewInvalidConfigurationError(path, "kind", cc.Kind)
	}
}

func buildChild(cc *ClassifierConfig, seed *uint64, path string) (clfs.Classifier, error) {
	if cc.Clf == nil {
		return nil, errors.NewInvalidConfigurationError(path, "clf", nil)
	}
	return buildClassifier(cc.Clf, seed, path+".clf")
}

func metaOptions(cc *ClassifierConfig, seed *uint64, path string) ([]clfs.MetaOption, error) {
	var opts []clfs.MetaOption
	if cc.Strategy != "" {
		opts = append(opts, clfs.WithStrategy(cc.Strategy))
	}
	switch cc.Ensemble {
	case "", KindCombined:
	case KindBoosted:
		opts = append(opts, clfs.WithEnsemble(func() clfs.Ensemble { return clfs.NewBoostedClassifier() }))
	default:
		return nil, errors.NewInvalidConfigurationError(path, "ensemble", cc.Ensemble)
	}
	if cc.Splitter != nil {
		s, err := buildSplitter(cc.Splitter, seed)
		if err != nil {
			return nil, err
		}
		opts = append(opts, clfs.WithSplitter(s))
	}
	return opts, nil
}

func buildSelection(sc *SelectionConfig, path string) (featsel.FeatureSelection, error) {
	var selector featsel.ElementSelector
	switch {
	case sc.N > 0 && sc.Fraction > 0:
		return nil, errors.NewInvalidConfigurationError(path+".selection", "n and fraction", "both set")
	case sc.N > 0:
		selector = featsel.NewFixedNElementsSelector(sc.N)
	case sc.Fraction > 0:
		selector = featsel.NewFractionTailSelector(sc.Fraction)
	default:
		return nil, errors.NewInvalidConfigurationError(path+".selection", "n or fraction", nil)
	}
	return featsel.NewSensitivityBasedFeatureSelection(buildAnova(sc.Anova), selector), nil
}

func buildAnova(ac AnovaConfig) measures.Measure {
	var opts []measures.AnovaOption
	if ac.TargetsAttr != "" {
		opts = append(opts, measures.WithTargetsAttr(ac.TargetsAttr))
	}
	if ac.PValues != nil {
		opts = append(opts, measures.WithPValues(*ac.PValues))
	}
	if ac.Compound {
		return measures.NewCompoundOneWayAnova(opts...)
	}
	return measures.NewOneWayAnova(opts...)
}

func buildSplitter(sc *SplitterConfig, seed *uint64) (splitters.Splitter, error) {
	var s uint64
	if seed != nil {
		s = *seed
	}
	folds := sc.Folds
	if folds == 0 {
		folds = 5
	}
	switch sc.Kind {
	case SplitterNone:
		return splitters.NewNoneSplitter(), nil
	case SplitterNFold:
		return splitters.NewNFoldSplitter(sc.CVType), nil
	case SplitterOddEven:
		return splitters.NewOddEvenSplitter(), nil
	case SplitterHalf:
		return splitters.NewHalfSplitter(), nil
	case SplitterKFold:
		return splitters.NewKFoldSplitter(folds, sc.Shuffle, s), nil
	case SplitterStratified:
		return splitters.NewStratifiedKFoldSplitter(folds, sc.Shuffle, s), nil
	default:
		return nil, errors.NewInvalidConfigurationError("splitter", "kind", sc.Kind)
	}
}
