package multivariate

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/table"
)

// CorrelationHeatmap computes pairwise Pearson correlations over the
// configured columns (or all numeric columns when none are configured),
// prints the matrix and renders it as a PNG heatmap.
type CorrelationHeatmap struct {
	Features []string
	OutPath  string
}

// NewCorrelationHeatmap constructs a CorrelationHeatmap. An empty feature
// list selects every numeric column.
func NewCorrelationHeatmap(features []string, outPath string) *CorrelationHeatmap {
	return &CorrelationHeatmap{Features: features, OutPath: outPath}
}

func (s *CorrelationHeatmap) Analyze(df dataframe.DataFrame, w io.Writer) error {
	features := s.Features
	if len(features) == 0 {
		features = table.NumericColumns(df)
	}
	if len(features) < 2 {
		return errs.InvalidArgumentf("correlation heatmap needs at least 2 numeric columns (got %d)", len(features))
	}
	if err := table.RequireColumns(df, features...); err != nil {
		return err
	}
	slog.Info("computing correlation heatmap", "features", features, "out", s.OutPath)

	cols := make([][]float64, len(features))
	for i, name := range features {
		vals, err := table.FloatColumn(df, name)
		if err != nil {
			return err
		}
		cols[i] = vals
	}
	m := correlationMatrix(cols)

	fmt.Fprintln(w, "[CORRELATIONS]")
	writeMatrix(w, features, features, m)

	if s.OutPath != "" {
		if err := renderHeatmap(features, m, s.OutPath); err != nil {
			return err
		}
	}
	return nil
}

// correlationMatrix computes pairwise Pearson correlations using, for each
// pair, the rows where both values are observed.
func correlationMatrix(cols [][]float64) [][]float64 {
	n := len(cols)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var xs, ys []float64
			for row := range cols[i] {
				x, y := cols[i][row], cols[j][row]
				if math.IsNaN(x) || math.IsNaN(y) {
					continue
				}
				xs = append(xs, x)
				ys = append(ys, y)
			}
			r := 0.0
			if len(xs) >= 2 {
				r = stat.Correlation(xs, ys, nil)
				if math.IsNaN(r) || math.IsInf(r, 0) {
					r = 0
				}
			}
			m[i][j] = r
			m[j][i] = r
		}
	}
	return m
}

// corrGrid adapts a correlation matrix to the plotter heatmap interface.
type corrGrid struct {
	names []string
	m     [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.names), len(g.names) }
func (g corrGrid) Z(c, r int) float64 { return g.m[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func renderHeatmap(names []string, m [][]float64, outPath string) error {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	pal := cm.Palette(255)

	h := plotter.NewHeatMap(corrGrid{names: names, m: m}, pal)
	h.Min = -1
	h.Max = 1

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.Add(h)
	p.NominalX(names...)
	p.NominalY(names...)
	if err := p.Save(7*vg.Inch, 7*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}
