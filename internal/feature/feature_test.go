package feature_test

import (
	"math"
	"sort"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/feature"
	"github.com/saleslens/saleslens/internal/table"
)

func TestAgeDeriver(t *testing.T) {
	df := dataframe.New(
		series.New([]int{2000, 2010}, series.Int, "year_built"),
		series.New([]float64{1.5, 2.5}, series.Float, "other"),
	)
	out, err := feature.NewAgeDeriver("age", "year_built", 2024).Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if table.HasColumn(out, "year_built") {
		t.Fatal("year_built should be dropped")
	}
	ages := out.Col("age").Float()
	if ages[0] != 24 || ages[1] != 14 {
		t.Fatalf("age = %v, want [24 14]", ages)
	}
	// Source frame keeps its column.
	if !table.HasColumn(df, "year_built") {
		t.Fatal("input table was mutated")
	}
}

func TestAgeDeriverDefaultReferenceYear(t *testing.T) {
	s := feature.NewAgeDeriver("age", "year", 0)
	if s.ReferenceYear != feature.DefaultReferenceYear {
		t.Fatalf("ReferenceYear = %d, want %d", s.ReferenceYear, feature.DefaultReferenceYear)
	}
}

func TestAgeDeriverMissingColumn(t *testing.T) {
	df := dataframe.New(series.New([]int{1}, series.Int, "x"))
	_, err := feature.NewAgeDeriver("age", "year_built", 2024).Apply(df)
	if !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestStandardScalerMoments(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1, 2, 3, 4, 5, 6}, series.Float, "a"),
		series.New([]float64{10, 10, 30, 30, 50, 50}, series.Float, "b"),
	)
	sc := feature.NewStandardScaler([]string{"a", "b"})
	out, err := sc.Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, col := range []string{"a", "b"} {
		vals := out.Col(col).Float()
		var mean float64
		for _, v := range vals {
			mean += v
		}
		mean /= float64(len(vals))
		var ss float64
		for _, v := range vals {
			ss += (v - mean) * (v - mean)
		}
		std := math.Sqrt(ss / float64(len(vals)))
		if math.Abs(mean) > 1e-9 {
			t.Fatalf("%s: mean = %v, want 0", col, mean)
		}
		if math.Abs(std-1) > 1e-9 {
			t.Fatalf("%s: std = %v, want 1", col, std)
		}
	}
	if sc.Mean["a"] != 3.5 {
		t.Fatalf("fitted mean = %v, want 3.5", sc.Mean["a"])
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	df := dataframe.New(series.New([]float64{7, 7, 7}, series.Float, "c"))
	out, err := feature.NewStandardScaler([]string{"c"}).Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, v := range out.Col("c").Float() {
		if v != 0 {
			t.Fatalf("constant column scaled to %v, want 0", v)
		}
	}
}

func TestMinMaxScalerRange(t *testing.T) {
	df := dataframe.New(series.New([]float64{2, 4, 6, 10}, series.Float, "x"))
	sc, err := feature.NewMinMaxScalerRange([]string{"x"}, -1, 1)
	if err != nil {
		t.Fatalf("NewMinMaxScalerRange: %v", err)
	}
	out, err := sc.Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	vals := out.Col("x").Float()
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if math.Abs(sorted[0]+1) > 1e-12 || math.Abs(sorted[len(sorted)-1]-1) > 1e-12 {
		t.Fatalf("scaled range = [%v, %v], want [-1, 1]", sorted[0], sorted[len(sorted)-1])
	}
}

func TestMinMaxScalerDefaultRangeAndNA(t *testing.T) {
	df := dataframe.New(series.New([]float64{5, math.NaN(), 15}, series.Float, "x"))
	out, err := feature.NewMinMaxScaler([]string{"x"}).Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	vals := out.Col("x").Float()
	if vals[0] != 0 || vals[2] != 1 {
		t.Fatalf("scaled = %v, want min 0 and max 1", vals)
	}
	if !math.IsNaN(vals[1]) {
		t.Fatal("missing entry should stay missing after scaling")
	}
}

func TestMinMaxScalerEmptyRange(t *testing.T) {
	if _, err := feature.NewMinMaxScalerRange([]string{"x"}, 1, 1); errs.KindOf(err) != errs.KindInvalidArgument {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestOneHotEncoderDropsBaseline(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Tier 1", "Tier 2", "Tier 3", "Tier 2"}, series.String, "loc"),
		series.New([]float64{1, 2, 3, 4}, series.Float, "sales"),
	)
	out, err := feature.NewOneHotEncoder([]string{"loc"}).Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if table.HasColumn(out, "loc") {
		t.Fatal("original column should be dropped")
	}
	// 3 categories -> 2 indicator columns; baseline "Tier 1" dropped.
	if table.HasColumn(out, "loc_Tier 1") {
		t.Fatal("baseline category should have no indicator")
	}
	for _, c := range []string{"loc_Tier 2", "loc_Tier 3"} {
		if !table.HasColumn(out, c) {
			t.Fatalf("missing indicator column %s", c)
		}
	}
	t2 := out.Col("loc_Tier 2").Float()
	t3 := out.Col("loc_Tier 3").Float()
	wantT2 := []float64{0, 1, 0, 1}
	wantT3 := []float64{0, 0, 1, 0}
	for i := range wantT2 {
		if t2[i] != wantT2[i] || t3[i] != wantT3[i] {
			t.Fatalf("row %d indicators = (%v, %v), want (%v, %v)", i, t2[i], t3[i], wantT2[i], wantT3[i])
		}
	}
}

func TestOneHotEncoderSingleCategory(t *testing.T) {
	df := dataframe.New(series.New([]string{"only", "only"}, series.String, "c"))
	_, err := feature.NewOneHotEncoder([]string{"c"}).Apply(df)
	if errs.KindOf(err) != errs.KindInvalidArgument {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestLabelEncoderSortedCodes(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Medium", "High", "Low", "Medium"}, series.String, "size"),
	)
	enc := feature.NewLabelEncoder([]string{"size"}, nil, false)
	out, err := enc.Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// sorted: High=0, Low=1, Medium=2
	got := out.Col("size").Float()
	want := []float64{2, 0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("code[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if enc.Codes["size"]["High"] != 0 || enc.Codes["size"]["Medium"] != 2 {
		t.Fatalf("fitted codes = %v", enc.Codes["size"])
	}
}

func TestLabelEncoderDropAndDummies(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"a", "b"}, series.String, "enc"),
		series.New([]string{"x", "y"}, series.String, "cat"),
		series.New([]string{"junk", "junk"}, series.String, "drop_me"),
	)
	out, err := feature.NewLabelEncoder([]string{"enc"}, []string{"drop_me"}, true).Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if table.HasColumn(out, "drop_me") {
		t.Fatal("drop_me should have been dropped")
	}
	// "cat" gets full dummies (no baseline drop): cat_x and cat_y.
	for _, c := range []string{"cat_x", "cat_y"} {
		if !table.HasColumn(out, c) {
			t.Fatalf("missing dummy column %s", c)
		}
	}
	if table.HasColumn(out, "cat") {
		t.Fatal("dummied column should be dropped")
	}
	// The label-encoded column is numeric now, so untouched by dummies.
	if !table.HasColumn(out, "enc") {
		t.Fatal("label-encoded column missing")
	}
}

func TestEngineerContext(t *testing.T) {
	df := dataframe.New(series.New([]int{2000}, series.Int, "year"))
	var e feature.Engineer
	if _, err := e.Apply(df); errs.KindOf(err) != errs.KindPreconditionFailed {
		t.Fatalf("err = %v, want PRECONDITION_FAILED", err)
	}
	e.SetStrategy(feature.NewAgeDeriver("age", "year", 2024))
	out, err := e.Apply(df)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Col("age").Float()[0] != 24 {
		t.Fatal("strategy was not applied")
	}
}
