// Package log defines standard attribute keys for pattern-analysis operations.
//
// Using these keys across classifiers, measures and the CLI keeps log output
// filterable: every training step of a composed classifier tree carries the
// same model/operation/data keys regardless of which node emitted it.
//
// The attributes are organized into categories:
//   - Model and Operation Context
//   - Data Shape and Characteristics
//   - Composition Context
//   - Error Context

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the classifier or measure type.
	// Examples: "BinaryClassifier", "OneWayAnova", "LogisticRegression"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific instance.
	// Composition nodes use a UUID so that clones can be told apart.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "train", "predict", "compute", "select"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "clfs.binary", "measures.anova"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// LabelsKey holds the (unique) labels involved in an operation.
	LabelsKey = "data.labels"

	// SelectedFeaturesKey indicates how many features survived a selection.
	SelectedFeaturesKey = "data.selected_features"
)

// Composition Context
const (
	// ChildrenKey records the number of child classifiers of an ensemble.
	ChildrenKey = "clf.children"

	// SplitIndexKey records the index of a dataset split during cross-validation.
	SplitIndexKey = "split.index"

	// StrategyKey records the multiclass decomposition strategy.
	StrategyKey = "clf.strategy"

	// ErrorValueKey records a transfer error value.
	ErrorValueKey = "metrics.error"

	// IterationKey records the current iteration number during iterative processes.
	IterationKey = "training.iteration"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error or warning encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated by Logger.Error when given an error carrying one.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants for common operations.
const (
	OperationTrain   = "train"
	OperationPredict = "predict"
	OperationCompute = "compute"
	OperationSelect  = "select"
)
