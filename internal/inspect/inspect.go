// Package inspect implements the inspection strategies: each one writes a
// human-readable report about a table to an io.Writer and returns nothing
// else. The Inspector composite runs strategies in registration order.
package inspect

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/saleslens/saleslens/internal/table"
)

// Strategy is one inspection over a table. Output goes to w; nothing is
// returned beyond an error.
type Strategy interface {
	Inspect(df dataframe.DataFrame, w io.Writer) error
}

// Schema reports column names, inferred types and non-null counts.
type Schema struct{}

func (Schema) Inspect(df dataframe.DataFrame, w io.Writer) error {
	fmt.Fprintf(w, "[SCHEMA]\nRows: %d\nColumns: %d\n", df.Nrow(), df.Ncol())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	types := df.Types()
	for i, name := range df.Names() {
		s := df.Col(name)
		nonNull := s.Len() - table.MissingCount(s)
		fmt.Fprintf(tw, "- %s\t%v\tnon-null %d\n", name, types[i], nonNull)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// NumericSummary reports count, mean, std, min, quartiles and max for every
// numeric column.
type NumericSummary struct{}

func (NumericSummary) Inspect(df dataframe.DataFrame, w io.Writer) error {
	fmt.Fprintln(w, "[NUMERIC SUMMARY]")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
	for _, name := range table.NumericColumns(df) {
		vals, err := table.FloatColumn(df, name)
		if err != nil {
			return err
		}
		obs := table.Observed(vals)
		if len(obs) == 0 {
			fmt.Fprintf(tw, "%s\t0\t-\t-\t-\t-\t-\t-\t-\n", name)
			continue
		}
		sort.Float64s(obs)
		mean := stat.Mean(obs, nil)
		std := 0.0
		if len(obs) > 1 {
			std = stat.StdDev(obs, nil)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			name, len(obs), mean, std,
			obs[0],
			table.Quantile(obs, 0.25),
			table.Quantile(obs, 0.5),
			table.Quantile(obs, 0.75),
			obs[len(obs)-1],
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// CategoricalSummary reports count, unique count and the most frequent
// value for every string column.
type CategoricalSummary struct{}

func (CategoricalSummary) Inspect(df dataframe.DataFrame, w io.Writer) error {
	fmt.Fprintln(w, "[CATEGORICAL SUMMARY]")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tcount\tunique\ttop\tfreq")
	for _, name := range table.StringColumns(df) {
		vc, err := table.ValueCounts(df, name)
		if err != nil {
			return err
		}
		count := 0
		for _, v := range vc {
			count += v.Count
		}
		if len(vc) == 0 {
			fmt.Fprintf(tw, "%s\t0\t0\t-\t-\n", name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\n", name, count, len(vc), vc[0].Value, vc[0].Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// MissingValues reports per-column missing counts, restricted to columns
// with at least one missing entry.
type MissingValues struct{}

func (MissingValues) Inspect(df dataframe.DataFrame, w io.Writer) error {
	fmt.Fprintln(w, "[MISSING VALUES]")
	any := false
	for _, name := range df.Names() {
		if n := table.MissingCount(df.Col(name)); n > 0 {
			fmt.Fprintf(w, "- %s: %d\n", name, n)
			any = true
		}
	}
	if !any {
		fmt.Fprintln(w, "no missing values")
	}
	fmt.Fprintln(w)
	return nil
}

// ValueCounts reports per-distinct-value frequencies for the configured
// columns. A column absent from the table produces a warning line and the
// inspection continues.
type ValueCounts struct {
	Columns []string
}

// NewValueCounts constructs a ValueCounts inspection.
func NewValueCounts(columns []string) *ValueCounts {
	return &ValueCounts{Columns: columns}
}

func (s *ValueCounts) Inspect(df dataframe.DataFrame, w io.Writer) error {
	for _, name := range s.Columns {
		if !table.HasColumn(df, name) {
			fmt.Fprintf(w, "warning: column %q not found in table\n\n", name)
			continue
		}
		vc, err := table.ValueCounts(df, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[VALUE COUNTS] %s\n", name)
		for _, v := range vc {
			fmt.Fprintf(w, "- %s: %d\n", v.Value, v.Count)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// Inspector runs an ordered sequence of inspection strategies against one
// table.
type Inspector struct {
	strategies []Strategy
}

// Add appends a strategy; strategies run in the order added.
func (ins *Inspector) Add(s Strategy) {
	ins.strategies = append(ins.strategies, s)
}

// Run applies every registered strategy to the table, aborting on the
// first error.
func (ins *Inspector) Run(df dataframe.DataFrame, w io.Writer) error {
	for _, s := range ins.strategies {
		if err := s.Inspect(df, w); err != nil {
			return err
		}
	}
	return nil
}

// DefaultInspector bundles the standard inspection suite in the usual
// order: schema, numeric summary, categorical summary, missing values.
func DefaultInspector() *Inspector {
	ins := &Inspector{}
	ins.Add(Schema{})
	ins.Add(NumericSummary{})
	ins.Add(CategoricalSummary{})
	ins.Add(MissingValues{})
	return ins
}
