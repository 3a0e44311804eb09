// Package feature implements the feature-engineering strategies: derived
// features, scaling and categorical encoding. Every Strategy returns a new
// dataframe and never mutates its input. The Engineer context holds exactly
// one active strategy; composing a pipeline is the caller's job.
package feature

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/table"
)

// DefaultReferenceYear anchors age derivation when no year is configured.
const DefaultReferenceYear = 2024

// Strategy is one feature-engineering transformation over a table.
type Strategy interface {
	Apply(df dataframe.DataFrame) (dataframe.DataFrame, error)
}

// AgeDeriver computes NewColumn = ReferenceYear - OldColumn and drops
// OldColumn.
type AgeDeriver struct {
	NewColumn     string
	OldColumn     string
	ReferenceYear int
}

// NewAgeDeriver constructs an AgeDeriver. A referenceYear of zero selects
// DefaultReferenceYear.
func NewAgeDeriver(newColumn, oldColumn string, referenceYear int) *AgeDeriver {
	if referenceYear == 0 {
		referenceYear = DefaultReferenceYear
	}
	return &AgeDeriver{NewColumn: newColumn, OldColumn: oldColumn, ReferenceYear: referenceYear}
}

func (s *AgeDeriver) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	vals, err := table.FloatColumn(df, s.OldColumn)
	if err != nil {
		return df, err
	}
	slog.Info("deriving age feature", "new", s.NewColumn, "old", s.OldColumn, "reference_year", s.ReferenceYear)

	ages := make([]string, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			ages[i] = "NaN"
			continue
		}
		ages[i] = strconv.Itoa(s.ReferenceYear - int(v))
	}
	out := df.Mutate(series.New(ages, series.Int, s.NewColumn))
	out = out.Drop(s.OldColumn)
	if out.Err != nil {
		return df, out.Err
	}
	return out, nil
}

// Engineer delegates to whichever Strategy is currently set. It holds one
// strategy at a time; callers re-set it between calls to build a pipeline.
type Engineer struct {
	strategy Strategy
}

// NewEngineer constructs an Engineer with an initial strategy.
func NewEngineer(strategy Strategy) *Engineer {
	return &Engineer{strategy: strategy}
}

// SetStrategy swaps the active strategy.
func (e *Engineer) SetStrategy(strategy Strategy) {
	slog.Info("switching feature engineering strategy")
	e.strategy = strategy
}

// Apply runs the active strategy over the table.
func (e *Engineer) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if e.strategy == nil {
		return df, errs.PreconditionFailedf("feature engineering strategy not set")
	}
	return e.strategy.Apply(df)
}
