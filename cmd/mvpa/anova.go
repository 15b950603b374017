package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gomvpa/measures"
	"github.com/YuminosukeSato/gomvpa/plot"
)

func newAnovaCmd(root *rootOptions) *cobra.Command {
	var (
		compound bool
		plotPath string
	)
	cmd := &cobra.Command{
		Use:   "anova",
		Short: "Compute featurewise one-way ANOVA F-scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := root.loadDataset()
			if err != nil {
				return err
			}
			anovaCfg := root.cfg.Anova
			if cmd.Flags().Changed("compound") {
				anovaCfg.Compound = compound
			}
			root.cfg.Anova = anovaCfg

			sens, err := root.cfg.BuildMeasure().Compute(ds)
			if err != nil {
				return err
			}
			if err := writeSensitivity(cmd, sens); err != nil {
				return err
			}
			if plotPath != "" {
				return plot.SaveSensitivity(sens, plotPath, plot.WithTitle("One-way ANOVA"), plot.WithYLabel("F"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&compound, "compound", false, "one-vs-rest ANOVA per target")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a bar chart of the F-scores (png, svg, pdf)")
	return cmd
}

func writeSensitivity(cmd *cobra.Command, sens *measures.Sensitivity) error {
	attrs := make([]string, 0, len(sens.FeatureAttrs))
	for name := range sens.FeatureAttrs {
		attrs = append(attrs, name)
	}
	sort.Strings(attrs)

	header := []string{"feature"}
	for i := 0; i < sens.NRows(); i++ {
		if i < len(sens.Targets) {
			header = append(header, "F_"+measures.FormatTarget(sens.Targets[i]))
		} else {
			header = append(header, "F")
		}
	}
	header = append(header, attrs...)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for j := 0; j < sens.NFeatures(); j++ {
		fields := []string{fmt.Sprint(j)}
		for i := 0; i < sens.NRows(); i++ {
			fields = append(fields, fmt.Sprintf("%.4g", sens.Scores.At(i, j)))
		}
		for _, name := range attrs {
			fields = append(fields, fmt.Sprintf("%.4g", sens.FeatureAttrs[name][j]))
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
	}
	return tw.Flush()
}
