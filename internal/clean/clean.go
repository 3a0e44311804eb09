// Package clean implements the data-cleaning strategies: imputation, row
// deletion and value standardization. Every Transformation returns a new
// dataframe and never mutates its input.
package clean

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/table"
)

// Transformation is one cleaning operation over a table.
type Transformation interface {
	Transform(df dataframe.DataFrame) (dataframe.DataFrame, error)
}

// GroupMaxImputer fills missing values of Target with the maximum observed
// Target value within each Group.
type GroupMaxImputer struct {
	Target string
	Group  string
}

// NewGroupMaxImputer constructs a GroupMaxImputer.
func NewGroupMaxImputer(target, group string) *GroupMaxImputer {
	return &GroupMaxImputer{Target: target, Group: group}
}

func (s *GroupMaxImputer) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := table.RequireColumns(df, s.Target, s.Group); err != nil {
		return df, err
	}
	slog.Info("imputing by group max", "target", s.Target, "group", s.Group)

	vals, err := table.FloatColumn(df, s.Target)
	if err != nil {
		return df, err
	}
	groupNA, err := table.MissingMask(df, s.Group)
	if err != nil {
		return df, err
	}
	groups := df.Col(s.Group).Records()

	maxByGroup := map[string]float64{}
	for i, v := range vals {
		if math.IsNaN(v) || groupNA[i] {
			continue
		}
		g := groups[i]
		if cur, ok := maxByGroup[g]; !ok || v > cur {
			maxByGroup[g] = v
		}
	}

	filled := make([]float64, len(vals))
	copy(filled, vals)
	for i, v := range filled {
		if !math.IsNaN(v) || groupNA[i] {
			continue
		}
		if m, ok := maxByGroup[groups[i]]; ok {
			filled[i] = m
		}
	}
	return df.Mutate(series.New(filled, series.Float, s.Target)), nil
}

// DefaultImputer fills missing values of Target with a fixed value.
type DefaultImputer struct {
	Target string
	Value  any
}

// NewDefaultImputer constructs a DefaultImputer.
func NewDefaultImputer(target string, value any) *DefaultImputer {
	return &DefaultImputer{Target: target, Value: value}
}

func (s *DefaultImputer) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := table.RequireColumns(df, s.Target); err != nil {
		return df, err
	}
	slog.Info("imputing with default value", "target", s.Target, "value", s.Value)

	col := df.Col(s.Target)
	if col.Type() == series.String {
		recs := col.Records()
		fill := fmt.Sprint(s.Value)
		for i := 0; i < col.Len(); i++ {
			if col.Elem(i).IsNA() {
				recs[i] = fill
			}
		}
		return df.Mutate(series.New(recs, series.String, s.Target)), nil
	}

	fill, err := toFloat(s.Value)
	if err != nil {
		return df, errs.InvalidArgumentf("default value %v is not numeric for numeric column %q", s.Value, s.Target)
	}
	vals := col.Float()
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = fill
		}
	}
	return df.Mutate(series.New(vals, series.Float, s.Target)), nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

// DropMissing deletes every row where Target is missing.
type DropMissing struct {
	Target string
}

// NewDropMissing constructs a DropMissing.
func NewDropMissing(target string) *DropMissing {
	return &DropMissing{Target: target}
}

func (s *DropMissing) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	mask, err := table.MissingMask(df, s.Target)
	if err != nil {
		return df, err
	}
	slog.Info("dropping rows with missing values", "target", s.Target)

	keep := make([]int, 0, len(mask))
	for i, na := range mask {
		if !na {
			keep = append(keep, i)
		}
	}
	out := df.Subset(keep)
	if out.Err != nil {
		return df, fmt.Errorf("subset rows: %w", out.Err)
	}
	return out, nil
}

// ValueStandardizer replaces exact-match values of Target according to
// Replacements; values without a mapping are left unchanged.
type ValueStandardizer struct {
	Target       string
	Replacements map[string]string
}

// NewValueStandardizer constructs a ValueStandardizer.
func NewValueStandardizer(target string, replacements map[string]string) *ValueStandardizer {
	return &ValueStandardizer{Target: target, Replacements: replacements}
}

func (s *ValueStandardizer) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := table.RequireColumns(df, s.Target); err != nil {
		return df, err
	}
	slog.Info("standardizing values", "target", s.Target, "mappings", len(s.Replacements))

	col := df.Col(s.Target)
	recs := col.Records()
	for i, v := range recs {
		if col.Elem(i).IsNA() {
			continue
		}
		if repl, ok := s.Replacements[v]; ok {
			recs[i] = repl
		}
	}
	return df.Mutate(series.New(recs, col.Type(), s.Target)), nil
}

// Transformer delegates to whichever Transformation is currently set.
type Transformer struct {
	strategy Transformation
}

// NewTransformer constructs a Transformer with an initial strategy.
func NewTransformer(strategy Transformation) *Transformer {
	return &Transformer{strategy: strategy}
}

// SetStrategy swaps the active transformation.
func (t *Transformer) SetStrategy(strategy Transformation) {
	slog.Info("switching cleaning strategy")
	t.strategy = strategy
}

// Apply runs the active transformation over the table.
func (t *Transformer) Apply(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if t.strategy == nil {
		return df, errs.PreconditionFailedf("cleaning strategy not set")
	}
	return t.strategy.Transform(df)
}
