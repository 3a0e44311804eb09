// Package table provides the shared helpers the strategy packages use to
// work with gota dataframes: column validation, missingness tests, numeric
// extraction and contingency tables. Columns referenced by name are always
// validated here so that every strategy fails with the same not-found error.
package table

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/saleslens/saleslens/internal/errs"
)

// HasColumn reports whether the table has a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// RequireColumns validates that every named column exists, returning the
// uniform column-not-found error for the first one that does not.
func RequireColumns(df dataframe.DataFrame, names ...string) error {
	for _, name := range names {
		if !HasColumn(df, name) {
			return errs.ColumnNotFound(name)
		}
	}
	return nil
}

// FloatColumn extracts a column as float64 values. Missing entries and
// unparseable values come back as NaN. The column must exist.
func FloatColumn(df dataframe.DataFrame, name string) ([]float64, error) {
	if err := RequireColumns(df, name); err != nil {
		return nil, err
	}
	return df.Col(name).Float(), nil
}

// StringColumn extracts a column as its string records. Missing entries
// come back as "NaN" (gota's NA record form).
func StringColumn(df dataframe.DataFrame, name string) ([]string, error) {
	if err := RequireColumns(df, name); err != nil {
		return nil, err
	}
	return df.Col(name).Records(), nil
}

// MissingMask reports, per row, whether the named column is NA.
func MissingMask(df dataframe.DataFrame, name string) ([]bool, error) {
	if err := RequireColumns(df, name); err != nil {
		return nil, err
	}
	s := df.Col(name)
	mask := make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		mask[i] = s.Elem(i).IsNA()
	}
	return mask, nil
}

// MissingCount counts NA entries in a series.
func MissingCount(s series.Series) int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			n++
		}
	}
	return n
}

// Observed filters NaN out of a float slice.
func Observed(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// NumericColumns lists the names of int- and float-typed columns in order.
func NumericColumns(df dataframe.DataFrame) []string {
	var out []string
	types := df.Types()
	for i, name := range df.Names() {
		if types[i] == series.Int || types[i] == series.Float {
			out = append(out, name)
		}
	}
	return out
}

// StringColumns lists the names of string-typed columns in order.
func StringColumns(df dataframe.DataFrame) []string {
	var out []string
	types := df.Types()
	for i, name := range df.Names() {
		if types[i] == series.String {
			out = append(out, name)
		}
	}
	return out
}

// Categories returns the sorted distinct non-NA values of a column.
func Categories(df dataframe.DataFrame, name string) ([]string, error) {
	if err := RequireColumns(df, name); err != nil {
		return nil, err
	}
	s := df.Col(name)
	seen := map[string]bool{}
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			continue
		}
		seen[s.Elem(i).String()] = true
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// ValueCount is one distinct value and its frequency.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts tallies the distinct non-NA values of a column, most frequent
// first; ties break alphabetically.
func ValueCounts(df dataframe.DataFrame, name string) ([]ValueCount, error) {
	if err := RequireColumns(df, name); err != nil {
		return nil, err
	}
	s := df.Col(name)
	counts := map[string]int{}
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			continue
		}
		counts[s.Elem(i).String()]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out, nil
}

// Contingency is a two-way frequency table over two categorical columns.
// Rows with an NA in either column are excluded.
type Contingency struct {
	RowLabels []string
	ColLabels []string
	Counts    [][]float64 // Counts[i][j] for RowLabels[i] x ColLabels[j]
	N         float64
}

// Crosstab builds the contingency table of two columns.
func Crosstab(df dataframe.DataFrame, rowCol, colCol string) (*Contingency, error) {
	if err := RequireColumns(df, rowCol, colCol); err != nil {
		return nil, err
	}
	rs := df.Col(rowCol)
	cs := df.Col(colCol)
	cells := map[string]map[string]float64{}
	rowSeen := map[string]bool{}
	colSeen := map[string]bool{}
	for i := 0; i < rs.Len(); i++ {
		if rs.Elem(i).IsNA() || cs.Elem(i).IsNA() {
			continue
		}
		r := rs.Elem(i).String()
		c := cs.Elem(i).String()
		rowSeen[r] = true
		colSeen[c] = true
		if cells[r] == nil {
			cells[r] = map[string]float64{}
		}
		cells[r][c]++
	}
	ct := &Contingency{
		RowLabels: sortedKeys(rowSeen),
		ColLabels: sortedKeys(colSeen),
	}
	ct.Counts = make([][]float64, len(ct.RowLabels))
	for i, r := range ct.RowLabels {
		ct.Counts[i] = make([]float64, len(ct.ColLabels))
		for j, c := range ct.ColLabels {
			ct.Counts[i][j] = cells[r][c]
			ct.N += cells[r][c]
		}
	}
	return ct, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Quantile interpolates the q-th quantile of already-sorted values.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
