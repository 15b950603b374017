package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/clfs"
	"github.com/YuminosukeSato/gomvpa/internal/config"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

func newCrossvalCmd(root *rootOptions) *cobra.Command {
	var folds int
	cmd := &cobra.Command{
		Use:   "crossval",
		Short: "Report the cross-validated transfer error of the configured classifier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := root.loadDataset()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("folds") {
				root.cfg.CrossVal.Splitter = config.SplitterConfig{
					Kind:    config.SplitterStratified,
					Folds:   folds,
					Shuffle: true,
				}
			}

			clf, err := root.cfg.BuildClassifier()
			if err != nil {
				return err
			}
			splitter, err := root.cfg.BuildSplitter()
			if err != nil {
				return err
			}

			errorFunc, labelled, err := root.cfg.BuildErrorFunc()
			if err != nil {
				return err
			}

			cv := clfs.NewCrossValidatedTransferError(
				clfs.NewTransferError(clf, clfs.WithErrorFunc(errorFunc)),
				splitter,
				clfs.WithWorkers(root.cfg.CrossVal.Workers),
			)
			if labelled {
				if err := cv.States().Enable(clfs.StateConfusion); err != nil {
					return err
				}
			}
			mean, err := cv.Compute(ds)
			if err != nil {
				return err
			}
			splitErrors, err := cv.SplitErrors()
			if err != nil {
				return err
			}

			log.GetLoggerWithName("mvpa").Info("Cross-validation finished",
				log.ErrorValueKey, mean,
				"splits", len(splitErrors),
			)

			out := cmd.OutOrStdout()
			for i, e := range splitErrors {
				fmt.Fprintf(out, "split %d: error %.4f\n", i, e)
			}
			fmt.Fprintf(out, "mean error: %.4f\n", mean)
			if v, err := cv.States().Get(clfs.StateConfusion); err == nil {
				if cm, ok := v.(*mat.Dense); ok {
					fmt.Fprintf(out, "confusion (labels %v):\n%v\n", ds.UniqueLabels(), mat.Formatted(cm, mat.Squeeze()))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&folds, "folds", 0, "use stratified k-fold with this many folds instead of the configured splitter")
	return cmd
}
