package feature

import (
	"log/slog"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/table"
)

// StandardScaler centers the configured columns to zero mean and unit
// variance. Parameters are fit on the same table they transform; the fitted
// mean and standard deviation per column are exposed after Apply.
type StandardScaler struct {
	Columns []string

	Mean map[string]float64
	Std  map[string]float64
}

// NewStandardScaler constructs a StandardScaler over the given columns.
func NewStandardScaler(columns []string) *StandardScaler {
	return &StandardScaler{Columns: columns}
}

func (s *StandardScaler) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := table.RequireColumns(df, s.Columns...); err != nil {
		return df, err
	}
	slog.Info("applying standard scaling", "columns", s.Columns)

	s.Mean = make(map[string]float64, len(s.Columns))
	s.Std = make(map[string]float64, len(s.Columns))
	out := df
	for _, col := range s.Columns {
		vals, err := table.FloatColumn(df, col)
		if err != nil {
			return df, err
		}
		obs := table.Observed(vals)
		if len(obs) == 0 {
			return df, errs.InvalidArgumentf("column %q has no observed numeric values to scale", col)
		}
		mean := stat.Mean(obs, nil)
		std := popStdDev(obs, mean)
		s.Mean[col] = mean
		s.Std[col] = std

		scaled := make([]float64, len(vals))
		for i, v := range vals {
			switch {
			case math.IsNaN(v):
				scaled[i] = math.NaN()
			case std == 0:
				scaled[i] = 0
			default:
				scaled[i] = (v - mean) / std
			}
		}
		out = out.Mutate(series.New(scaled, series.Float, col))
	}
	return out, nil
}

// popStdDev is the population standard deviation (divide by n), matching
// fit-and-transform scaler semantics.
func popStdDev(vals []float64, mean float64) float64 {
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}

// MinMaxScaler rescales the configured columns linearly into [Min, Max].
type MinMaxScaler struct {
	Columns []string
	Min     float64
	Max     float64
}

// NewMinMaxScaler constructs a MinMaxScaler with the default [0, 1] range.
func NewMinMaxScaler(columns []string) *MinMaxScaler {
	return &MinMaxScaler{Columns: columns, Min: 0, Max: 1}
}

// NewMinMaxScalerRange constructs a MinMaxScaler with an explicit range.
func NewMinMaxScalerRange(columns []string, min, max float64) (*MinMaxScaler, error) {
	if max <= min {
		return nil, errs.InvalidArgumentf("min-max range [%v, %v] is empty", min, max)
	}
	return &MinMaxScaler{Columns: columns, Min: min, Max: max}, nil
}

func (s *MinMaxScaler) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := table.RequireColumns(df, s.Columns...); err != nil {
		return df, err
	}
	slog.Info("applying min-max scaling", "columns", s.Columns, "min", s.Min, "max", s.Max)

	out := df
	for _, col := range s.Columns {
		vals, err := table.FloatColumn(df, col)
		if err != nil {
			return df, err
		}
		obs := table.Observed(vals)
		if len(obs) == 0 {
			return df, errs.InvalidArgumentf("column %q has no observed numeric values to scale", col)
		}
		lo := floats.Min(obs)
		hi := floats.Max(obs)

		scaled := make([]float64, len(vals))
		for i, v := range vals {
			switch {
			case math.IsNaN(v):
				scaled[i] = math.NaN()
			case hi == lo:
				scaled[i] = s.Min
			default:
				scaled[i] = s.Min + (v-lo)/(hi-lo)*(s.Max-s.Min)
			}
		}
		out = out.Mutate(series.New(scaled, series.Float, col))
	}
	return out, nil
}
