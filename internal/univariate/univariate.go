// Package univariate renders single-feature distribution plots to PNG
// files: count plots for categorical features, histograms (raw and
// log-transformed) for numerical ones.
package univariate

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/table"
)

// Mode selects which numerical distribution to render.
type Mode string

const (
	ModeOriginal Mode = "original"
	ModeLog      Mode = "log"
	ModeBoth     Mode = "both"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOriginal, ModeLog, ModeBoth:
		return Mode(s), nil
	}
	return "", errs.InvalidArgumentf("unknown distribution mode %q (want original, log or both)", s)
}

// Strategy is one univariate analysis; it renders the distribution of a
// single feature to a PNG at outPath.
type Strategy interface {
	Analyze(df dataframe.DataFrame, feature string, mode Mode, outPath string) error
}

// CategoricalDist renders a count plot: one bar per category, frequency on
// the vertical axis, categories in sorted order. The mode argument is
// ignored for categorical features.
type CategoricalDist struct{}

func (CategoricalDist) Analyze(df dataframe.DataFrame, feature string, _ Mode, outPath string) error {
	vc, err := table.ValueCounts(df, feature)
	if err != nil {
		return err
	}
	if len(vc) == 0 {
		return errs.InvalidArgumentf("feature %q has no observed values to plot", feature)
	}
	slog.Info("rendering count plot", "feature", feature, "out", outPath)

	// Sorted category order keeps plots stable across runs.
	labels := make([]string, len(vc))
	counts := make(plotter.Values, len(vc))
	order := make([]table.ValueCount, len(vc))
	copy(order, vc)
	sort.Slice(order, func(i, j int) bool { return order[i].Value < order[j].Value })
	for i, v := range order {
		labels[i] = v.Value
		counts[i] = float64(v.Count)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Count Distribution of %s", feature)
	p.X.Label.Text = feature
	p.Y.Label.Text = "Count"
	bars, err := plotter.NewBarChart(counts, vg.Points(25))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 70, G: 120, B: 190, A: 255}
	p.Add(bars)
	p.NominalX(labels...)
	if err := p.Save(8*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save count plot: %w", err)
	}
	return nil
}

// NumericalDist renders a histogram of a numeric feature. Mode selects the
// raw distribution, its natural-log transform, or both; in both mode the
// log plot lands next to outPath with a _log suffix. Requesting a log
// transform over non-positive values is an invalid-argument error; values
// are never clamped.
type NumericalDist struct {
	// Bins is the histogram bin count; 0 means 16.
	Bins int
}

func (s NumericalDist) Analyze(df dataframe.DataFrame, feature string, mode Mode, outPath string) error {
	if mode == "" {
		mode = ModeOriginal
	}
	vals, err := table.FloatColumn(df, feature)
	if err != nil {
		return err
	}
	obs := table.Observed(vals)
	if len(obs) == 0 {
		return errs.InvalidArgumentf("feature %q has no observed values to plot", feature)
	}
	slog.Info("rendering histogram", "feature", feature, "mode", mode, "out", outPath)

	if mode == ModeOriginal || mode == ModeBoth {
		title := fmt.Sprintf("Original Distribution of %s", feature)
		if err := s.hist(obs, title, feature, outPath); err != nil {
			return err
		}
	}
	if mode == ModeLog || mode == ModeBoth {
		logs := make([]float64, len(obs))
		for i, v := range obs {
			if v <= 0 {
				return errs.InvalidArgumentf("feature %q contains non-positive value %v; log transform undefined", feature, v)
			}
			logs[i] = math.Log(v)
		}
		path := outPath
		if mode == ModeBoth {
			path = logSuffix(outPath)
		}
		title := fmt.Sprintf("Log-Transformed Distribution of %s", feature)
		if err := s.hist(logs, title, "Log of "+feature, path); err != nil {
			return err
		}
	}
	return nil
}

func (s NumericalDist) hist(vals []float64, title, xlabel, outPath string) error {
	bins := s.Bins
	if bins <= 0 {
		bins = 16
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Frequency"
	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return fmt.Errorf("build histogram: %w", err)
	}
	h.FillColor = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	p.Add(h)
	if err := p.Save(8*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save histogram: %w", err)
	}
	return nil
}

func logSuffix(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_log" + ext
}

// Analyzer delegates to whichever Strategy is currently set.
type Analyzer struct {
	strategy Strategy
}

// NewAnalyzer constructs an Analyzer with an initial strategy.
func NewAnalyzer(strategy Strategy) *Analyzer {
	return &Analyzer{strategy: strategy}
}

// SetStrategy swaps the active strategy.
func (a *Analyzer) SetStrategy(strategy Strategy) { a.strategy = strategy }

// Execute runs the active strategy.
func (a *Analyzer) Execute(df dataframe.DataFrame, feature string, mode Mode, outPath string) error {
	if a.strategy == nil {
		return errs.PreconditionFailedf("univariate strategy not set")
	}
	return a.strategy.Analyze(df, feature, mode, outPath)
}
