package feature

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/table"
)

// OneHotEncoder replaces each configured categorical column with k-1 binary
// indicator columns, one per observed category in sorted order with the
// first category dropped as the baseline. Originals are removed and the
// indicators appended as <column>_<category>.
type OneHotEncoder struct {
	Columns []string
}

// NewOneHotEncoder constructs a OneHotEncoder over the given columns.
func NewOneHotEncoder(columns []string) *OneHotEncoder {
	return &OneHotEncoder{Columns: columns}
}

func (s *OneHotEncoder) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := table.RequireColumns(df, s.Columns...); err != nil {
		return df, err
	}
	slog.Info("applying one-hot encoding", "columns", s.Columns)

	out := df
	for _, col := range s.Columns {
		var err error
		out, err = oneHot(out, df, col, true)
		if err != nil {
			return df, err
		}
	}
	return out, nil
}

// oneHot appends indicator columns for col (values read from src) onto dst
// and drops the original. dropFirst selects the k-1 baseline-dropped form.
func oneHot(dst, src dataframe.DataFrame, col string, dropFirst bool) (dataframe.DataFrame, error) {
	cats, err := table.Categories(src, col)
	if err != nil {
		return dst, err
	}
	if dropFirst {
		if len(cats) < 2 {
			return dst, errs.InvalidArgumentf("column %q has %d distinct values; one-hot encoding needs at least 2", col, len(cats))
		}
		cats = cats[1:]
	}
	if len(cats) == 0 {
		return dst, errs.InvalidArgumentf("column %q has no observed values to encode", col)
	}
	s := src.Col(col)
	out := dst.Drop(col)
	if out.Err != nil {
		return dst, out.Err
	}
	for _, cat := range cats {
		ind := make([]int, s.Len())
		for i := 0; i < s.Len(); i++ {
			if !s.Elem(i).IsNA() && s.Elem(i).String() == cat {
				ind[i] = 1
			}
		}
		out = out.Mutate(series.New(ind, series.Int, fmt.Sprintf("%s_%s", col, cat)))
	}
	if out.Err != nil {
		return dst, out.Err
	}
	return out, nil
}

// LabelEncoder replaces each configured categorical column with integer
// codes assigned in sorted-category order. Optionally it then drops extra
// columns and one-hot encodes every remaining categorical column of the
// whole table (all categories kept, no baseline drop).
type LabelEncoder struct {
	Columns     []string
	DropColumns []string
	WithDummies bool

	// Codes holds the category-to-code mapping fitted per column during
	// the last Apply.
	Codes map[string]map[string]int
}

// NewLabelEncoder constructs a LabelEncoder over the given columns.
func NewLabelEncoder(columns, dropColumns []string, withDummies bool) *LabelEncoder {
	return &LabelEncoder{Columns: columns, DropColumns: dropColumns, WithDummies: withDummies}
}

func (s *LabelEncoder) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := table.RequireColumns(df, s.Columns...); err != nil {
		return df, err
	}
	if err := table.RequireColumns(df, s.DropColumns...); err != nil {
		return df, err
	}
	slog.Info("applying label encoding", "columns", s.Columns, "drop", s.DropColumns, "dummies", s.WithDummies)

	s.Codes = make(map[string]map[string]int, len(s.Columns))
	out := df
	for _, col := range s.Columns {
		cats, err := table.Categories(df, col)
		if err != nil {
			return df, err
		}
		codes := make(map[string]int, len(cats))
		for i, c := range cats {
			codes[c] = i
		}
		s.Codes[col] = codes

		sc := df.Col(col)
		encoded := make([]string, sc.Len())
		for i := 0; i < sc.Len(); i++ {
			if sc.Elem(i).IsNA() {
				encoded[i] = "NaN"
				continue
			}
			encoded[i] = strconv.Itoa(codes[sc.Elem(i).String()])
		}
		out = out.Mutate(series.New(encoded, series.Int, col))
	}

	if len(s.DropColumns) > 0 {
		out = out.Drop(s.DropColumns)
		if out.Err != nil {
			return df, out.Err
		}
	}

	if s.WithDummies {
		for _, col := range table.StringColumns(out) {
			var err error
			out, err = oneHot(out, out, col, false)
			if err != nil {
				return df, err
			}
		}
	}
	return out, nil
}
