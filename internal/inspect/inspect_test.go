package inspect_test

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/saleslens/saleslens/internal/inspect"
)

func sampleFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]float64{9.3, math.NaN(), 17.5, 12.0}, series.Float, "Item_Weight"),
		series.New([]string{"Low Fat", "Regular", "Low Fat", "Low Fat"}, series.String, "Item_Fat_Content"),
	)
}

func TestSchema(t *testing.T) {
	var b strings.Builder
	if err := (inspect.Schema{}).Inspect(sampleFrame(), &b); err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	out := b.String()
	for _, want := range []string{"[SCHEMA]", "Rows: 4", "Columns: 2", "Item_Weight", "non-null 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("schema output missing %q:\n%s", want, out)
		}
	}
}

func TestNumericSummary(t *testing.T) {
	var b strings.Builder
	if err := (inspect.NumericSummary{}).Inspect(sampleFrame(), &b); err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "[NUMERIC SUMMARY]") || !strings.Contains(out, "Item_Weight") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	// Categorical columns are not summarized here.
	if strings.Contains(out, "Item_Fat_Content") {
		t.Fatalf("numeric summary should skip string columns:\n%s", out)
	}
}

func TestCategoricalSummary(t *testing.T) {
	var b strings.Builder
	if err := (inspect.CategoricalSummary{}).Inspect(sampleFrame(), &b); err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Item_Fat_Content") || !strings.Contains(out, "Low Fat") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestMissingValuesOnlyListsColumnsWithMissing(t *testing.T) {
	var b strings.Builder
	if err := (inspect.MissingValues{}).Inspect(sampleFrame(), &b); err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Item_Weight: 1") {
		t.Fatalf("missing count not reported:\n%s", out)
	}
	if strings.Contains(out, "Item_Fat_Content") {
		t.Fatalf("fully observed column should be filtered:\n%s", out)
	}
}

func TestValueCountsWarnsOnMissingColumn(t *testing.T) {
	var b strings.Builder
	s := inspect.NewValueCounts([]string{"Item_Fat_Content", "Nope"})
	if err := s.Inspect(sampleFrame(), &b); err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Low Fat: 3") {
		t.Fatalf("value counts missing:\n%s", out)
	}
	if !strings.Contains(out, `warning: column "Nope" not found`) {
		t.Fatalf("missing-column warning not emitted:\n%s", out)
	}
}

func TestInspectorRunsInRegistrationOrder(t *testing.T) {
	var b strings.Builder
	ins := &inspect.Inspector{}
	ins.Add(inspect.MissingValues{})
	ins.Add(inspect.Schema{})
	if err := ins.Run(sampleFrame(), &b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := b.String()
	if strings.Index(out, "[MISSING VALUES]") > strings.Index(out, "[SCHEMA]") {
		t.Fatalf("strategies ran out of order:\n%s", out)
	}
}

func TestDefaultInspector(t *testing.T) {
	var b strings.Builder
	if err := inspect.DefaultInspector().Run(sampleFrame(), &b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := b.String()
	for _, section := range []string{"[SCHEMA]", "[NUMERIC SUMMARY]", "[CATEGORICAL SUMMARY]", "[MISSING VALUES]"} {
		if !strings.Contains(out, section) {
			t.Fatalf("default suite missing %s:\n%s", section, out)
		}
	}
}
