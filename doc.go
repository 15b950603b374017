// Package gomvpa provides multivariate pattern analysis for Go: classifiers
// that are trained on labelled samples grouped into chunks, composed into
// meta-classifiers, and evaluated by cross-validation.
//
// # Packages
//
//   - dataset: samples with per-sample labels and chunks, selection and
//     label permutation.
//   - splitters: NFold, OddEven, Half, KFold and StratifiedKFold splitting
//     of a dataset into training and test parts.
//   - clfs: the classifier contract, state collections, and the
//     meta-classifiers (Boosted, Combined, Binary, Multiclass, Split,
//     Mapped, FeatureSelection) together with TransferError and
//     CrossValidatedTransferError.
//   - clfs/linear: logistic and ridge regression leaf classifiers.
//   - measures, featsel: one-way ANOVA sensitivities and the feature
//     selection built on them.
//   - mappers: feature-space projections (mask, z-score).
//   - metrics: error functions and confusion matrices.
//   - plot: sensitivity bar charts.
//
// # Quick Start
//
//	ds, err := dataset.FromRows(rows,
//	    dataset.WithLabels(labels),
//	    dataset.WithChunks(chunks),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mc, err := clfs.NewMulticlassClassifier(linear.NewLogisticRegression())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cv := clfs.NewCrossValidatedTransferError(
//	    clfs.NewTransferError(mc),
//	    splitters.NewNFoldSplitter(1),
//	)
//	meanErr, err := cv.Compute(ds)
//
// # Errors and logging
//
// Errors are built with github.com/cockroachdb/errors and carry stack
// traces; typed errors live in pkg/errors. Non-fatal conditions such as
// tied votes or non-converged training are reported through
// errors.Warn, which pkg/log routes to zerolog after log.Setup.
//
// The mvpa command under cmd/mvpa runs ANOVA and cross-validation from a
// CSV file and a YAML configuration.
package gomvpa
