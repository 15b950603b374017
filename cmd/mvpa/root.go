package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gomvpa/dataset"
	"github.com/YuminosukeSato/gomvpa/internal/config"
	"github.com/YuminosukeSato/gomvpa/internal/dataio"
	"github.com/YuminosukeSato/gomvpa/pkg/log"
)

type rootOptions struct {
	configPath string
	logLevel   string
	dataPath   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "mvpa",
		Short:        "Multivariate pattern analysis on CSV datasets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")
	cmd.PersistentFlags().StringVar(&opts.dataPath, "data", "", "CSV dataset with columns label,chunk,f1,...,fn")

	cmd.AddCommand(newAnovaCmd(opts), newCrossvalCmd(opts))
	return cmd
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := log.Setup(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func (o *rootOptions) loadDataset() (*dataset.Dataset, error) {
	var dsOpts []dataset.Option
	if o.cfg.RandomState != nil {
		dsOpts = append(dsOpts, dataset.WithRandomState(*o.cfg.RandomState))
	}
	ds, err := dataio.ReadCSVFile(o.dataPath, dsOpts...)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("mvpa").Info("Loaded dataset",
		log.SamplesKey, ds.NSamples(),
		log.FeaturesKey, ds.NFeatures(),
		log.LabelsKey, ds.UniqueLabels(),
	)
	return ds, nil
}
