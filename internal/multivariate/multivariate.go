// Package multivariate implements the multi-feature relationship analyses:
// correlation heatmaps, chi-squared independence tests, Cramér's V
// association matrices and one-way ANOVA. Textual results go to an
// io.Writer; the heatmap additionally renders a PNG.
package multivariate

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/table"
)

// Strategy is one multivariate analysis over a table.
type Strategy interface {
	Analyze(df dataframe.DataFrame, w io.Writer) error
}

// ChiSquared tests independence of two categorical features and prints the
// statistic, p-value, degrees of freedom, expected frequencies and the
// contingency table.
type ChiSquared struct {
	Feature1 string
	Feature2 string
}

// NewChiSquared constructs a ChiSquared test.
func NewChiSquared(feature1, feature2 string) *ChiSquared {
	return &ChiSquared{Feature1: feature1, Feature2: feature2}
}

func (s *ChiSquared) Analyze(df dataframe.DataFrame, w io.Writer) error {
	ct, err := table.Crosstab(df, s.Feature1, s.Feature2)
	if err != nil {
		return err
	}
	slog.Info("running chi-squared test", "feature1", s.Feature1, "feature2", s.Feature2)

	chi2, dof, expected, err := chiSquaredStat(ct)
	if err != nil {
		return err
	}
	p := distuv.ChiSquared{K: float64(dof)}.Survival(chi2)

	fmt.Fprintf(w, "[CHI-SQUARED] %s x %s\n", s.Feature1, s.Feature2)
	fmt.Fprintf(w, "chi-squared: %.6g, p-value: %.6g, dof: %d\n", chi2, p, dof)
	fmt.Fprintln(w, "expected frequencies:")
	writeMatrix(w, ct.RowLabels, ct.ColLabels, expected)
	fmt.Fprintln(w, "contingency table:")
	writeMatrix(w, ct.RowLabels, ct.ColLabels, ct.Counts)
	return nil
}

// chiSquaredStat computes the statistic, degrees of freedom and expected
// frequency matrix of a contingency table.
func chiSquaredStat(ct *table.Contingency) (chi2 float64, dof int, expected [][]float64, err error) {
	r := len(ct.RowLabels)
	k := len(ct.ColLabels)
	if r < 2 || k < 2 {
		return 0, 0, nil, errs.InvalidArgumentf("chi-squared needs at least 2 categories per feature (got %dx%d)", r, k)
	}
	rowTotals := make([]float64, r)
	colTotals := make([]float64, k)
	for i := range ct.Counts {
		for j, c := range ct.Counts[i] {
			rowTotals[i] += c
			colTotals[j] += c
		}
	}
	expected = make([][]float64, r)
	for i := range expected {
		expected[i] = make([]float64, k)
		for j := range expected[i] {
			e := rowTotals[i] * colTotals[j] / ct.N
			expected[i][j] = e
			if e > 0 {
				d := ct.Counts[i][j] - e
				chi2 += d * d / e
			}
		}
	}
	return chi2, (r - 1) * (k - 1), expected, nil
}

func writeMatrix(w io.Writer, rows, cols []string, m [][]float64) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "\t")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t", c)
	}
	fmt.Fprintln(tw)
	for i, r := range rows {
		fmt.Fprintf(tw, "%s\t", r)
		for j := range cols {
			fmt.Fprintf(tw, "%.4g\t", m[i][j])
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// CramersV prints a symmetric association-strength matrix over the
// configured categorical features. Entries lie in [0, 1]; the diagonal
// is 1.
type CramersV struct {
	Features []string
}

// NewCramersV constructs a CramersV analysis.
func NewCramersV(features []string) *CramersV {
	return &CramersV{Features: features}
}

func (s *CramersV) Analyze(df dataframe.DataFrame, w io.Writer) error {
	if len(s.Features) < 2 {
		return errs.InvalidArgumentf("cramér's V needs at least 2 features (got %d)", len(s.Features))
	}
	if err := table.RequireColumns(df, s.Features...); err != nil {
		return err
	}
	slog.Info("computing cramér's V matrix", "features", s.Features)

	m, err := s.Matrix(df)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "[CRAMÉR'S V]")
	writeMatrix(w, s.Features, s.Features, m)
	return nil
}

// Matrix computes the pairwise Cramér's V values.
func (s *CramersV) Matrix(df dataframe.DataFrame) ([][]float64, error) {
	n := len(s.Features)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v, err := cramersV(df, s.Features[i], s.Features[j])
			if err != nil {
				return nil, err
			}
			m[i][j] = v
			m[j][i] = v
		}
	}
	return m, nil
}

func cramersV(df dataframe.DataFrame, f1, f2 string) (float64, error) {
	ct, err := table.Crosstab(df, f1, f2)
	if err != nil {
		return 0, err
	}
	r := len(ct.RowLabels)
	k := len(ct.ColLabels)
	minDim := r
	if k < minDim {
		minDim = k
	}
	if minDim < 2 || ct.N == 0 {
		// A single-category feature carries no association signal.
		return 0, nil
	}
	chi2, _, _, err := chiSquaredStat(ct)
	if err != nil {
		return 0, err
	}
	v := math.Sqrt(chi2 / (ct.N * float64(minDim-1)))
	if v > 1 {
		v = 1
	}
	return v, nil
}

// ANOVA runs a one-way analysis of variance: the target feature is split
// into groups by the distinct values of the group feature, and the F
// statistic tests equality of group means.
type ANOVA struct {
	GroupFeature  string
	TargetFeature string
}

// NewANOVA constructs an ANOVA analysis.
func NewANOVA(groupFeature, targetFeature string) *ANOVA {
	return &ANOVA{GroupFeature: groupFeature, TargetFeature: targetFeature}
}

func (s *ANOVA) Analyze(df dataframe.DataFrame, w io.Writer) error {
	f, p, err := s.Test(df)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[ANOVA] %s by %s\nF-statistic: %.6g, p-value: %.6g\n", s.TargetFeature, s.GroupFeature, f, p)
	return nil
}

// Test computes the F statistic and p-value.
func (s *ANOVA) Test(df dataframe.DataFrame) (fstat, pval float64, err error) {
	if err := table.RequireColumns(df, s.GroupFeature, s.TargetFeature); err != nil {
		return 0, 0, err
	}
	slog.Info("running one-way ANOVA", "group", s.GroupFeature, "target", s.TargetFeature)

	vals, err := table.FloatColumn(df, s.TargetFeature)
	if err != nil {
		return 0, 0, err
	}
	groupNA, err := table.MissingMask(df, s.GroupFeature)
	if err != nil {
		return 0, 0, err
	}
	groups := df.Col(s.GroupFeature).Records()

	byGroup := map[string][]float64{}
	for i, v := range vals {
		if math.IsNaN(v) || groupNA[i] {
			continue
		}
		byGroup[groups[i]] = append(byGroup[groups[i]], v)
	}
	k := len(byGroup)
	if k < 2 {
		return 0, 0, errs.InvalidArgumentf("ANOVA needs at least 2 groups (got %d)", k)
	}

	var n int
	var grand float64
	for _, g := range byGroup {
		for _, v := range g {
			grand += v
		}
		n += len(g)
	}
	if n <= k {
		return 0, 0, errs.InvalidArgumentf("ANOVA needs more observations (%d) than groups (%d)", n, k)
	}
	grand /= float64(n)

	var ssBetween, ssWithin float64
	for _, g := range byGroup {
		var mean float64
		for _, v := range g {
			mean += v
		}
		mean /= float64(len(g))
		ssBetween += float64(len(g)) * (mean - grand) * (mean - grand)
		for _, v := range g {
			ssWithin += (v - mean) * (v - mean)
		}
	}

	d1 := float64(k - 1)
	d2 := float64(n - k)
	if ssWithin == 0 {
		return math.Inf(1), 0, nil
	}
	fstat = (ssBetween / d1) / (ssWithin / d2)
	pval = distuv.F{D1: d1, D2: d2}.Survival(fstat)
	return fstat, pval, nil
}

// Analyzer delegates to whichever Strategy is currently set. Executing
// before a strategy is set is a precondition failure.
type Analyzer struct {
	strategy Strategy
}

// NewAnalyzer constructs an Analyzer with no strategy set.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// SetStrategy swaps the active strategy.
func (a *Analyzer) SetStrategy(strategy Strategy) { a.strategy = strategy }

// Execute runs the active strategy.
func (a *Analyzer) Execute(df dataframe.DataFrame, w io.Writer) error {
	if a.strategy == nil {
		return errs.PreconditionFailedf("multivariate strategy not set")
	}
	return a.strategy.Analyze(df, w)
}
