// Package plot renders sensitivity maps as bar charts.
package plot

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/gomvpa/measures"
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// maxNominalFeatures is the largest feature count that gets one tick label
// per feature.
const maxNominalFeatures = 30

type config struct {
	title  string
	width  vg.Length
	height vg.Length
	yLabel string
}

// Option configures a sensitivity plot.
type Option func(*config)

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithSize sets the canvas size.
func WithSize(width, height vg.Length) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithYLabel sets the label of the score axis.
func WithYLabel(label string) Option {
	return func(c *config) {
		c.yLabel = label
	}
}

// SaveSensitivity writes the plot to path. The image format follows the
// file extension (png, svg, pdf, ...).
func SaveSensitivity(sens *measures.Sensitivity, path string, opts ...Option) error {
	p, cfg, err := newPlot(sens, opts)
	if err != nil {
		return err
	}
	if err := p.Save(cfg.width, cfg.height, path); err != nil {
		return errors.Wrapf(err, "plot: save %s", filepath.Base(path))
	}
	return nil
}

// WriteSensitivity renders the plot in format ("png", "svg", ...) to w.
func WriteSensitivity(w io.Writer, sens *measures.Sensitivity, format string, opts ...Option) error {
	p, cfg, err := newPlot(sens, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(cfg.width, cfg.height, strings.ToLower(format))
	if err != nil {
		return errors.Wrapf(err, "plot: format %q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "plot: write")
	}
	return nil
}

func newPlot(sens *measures.Sensitivity, opts []Option) (*plot.Plot, config, error) {
	cfg := config{
		title:  "Sensitivity",
		width:  8 * vg.Inch,
		height: 4 * vg.Inch,
		yLabel: "score",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if sens == nil || sens.Scores == nil || sens.NFeatures() == 0 {
		return nil, cfg, errors.ErrEmptyData
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "feature"
	p.Y.Label.Text = cfg.yLabel

	rows := sens.NRows()
	barWidth := vg.Points(40) / vg.Length(rows)
	if sens.NFeatures() > maxNominalFeatures {
		barWidth = vg.Points(4)
	}
	for i := 0; i < rows; i++ {
		bars, err := plotter.NewBarChart(plotter.Values(sens.Row(i)), barWidth)
		if err != nil {
			return nil, cfg, errors.Wrapf(err, "plot: row %d", i)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(i-rows/2) * barWidth
		p.Add(bars)
		if rows > 1 {
			p.Legend.Add(rowName(sens, i), bars)
		}
	}
	p.Legend.Top = true

	if nf := sens.NFeatures(); nf <= maxNominalFeatures {
		names := make([]string, nf)
		for j := range names {
			names[j] = fmt.Sprint(j)
		}
		p.NominalX(names...)
	}
	return p, cfg, nil
}

func rowName(sens *measures.Sensitivity, i int) string {
	if i < len(sens.Targets) {
		return "target " + measures.FormatTarget(sens.Targets[i])
	}
	return fmt.Sprintf("row %d", i)
}
