package catalog_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saleslens/saleslens/internal/catalog"
	"github.com/saleslens/saleslens/internal/errs"
)

func TestAddSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	c := catalog.New(dir)
	d := c.Add("brijbhushannanda1979/bigmart-sales-data", "kaggle", "bigmart")
	if d.ID == "" {
		t.Fatal("expected non-empty dataset id")
	}
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "catalog.json")); err != nil {
		t.Fatalf("catalog.json not written: %v", err)
	}

	loaded, err := catalog.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := loaded.Find(d.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got.Ref != d.Ref || got.Source != "kaggle" || got.Dir != "bigmart" {
		t.Errorf("loaded dataset = %+v, want %+v", got, d)
	}
}

func TestLoadMissingFileYieldsEmptyCatalog(t *testing.T) {
	c, err := catalog.Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.List()) != 0 {
		t.Errorf("expected empty catalog, got %d entries", len(c.List()))
	}
}

func TestFindByPrefixAndRef(t *testing.T) {
	c := catalog.New(t.TempDir())
	d := c.Add("owner/sales", "kaggle", "sales")

	if _, err := c.Find(d.ID[:8]); err != nil {
		t.Errorf("find by prefix: %v", err)
	}
	if _, err := c.Find("owner/sales"); err != nil {
		t.Errorf("find by ref: %v", err)
	}
	_, err := c.Find("nope")
	if errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("kind = %v, want NOT_FOUND", errs.KindOf(err))
	}
}

func TestListOrderedByAddedAt(t *testing.T) {
	c := catalog.New(t.TempDir())
	first := c.Add("a", "http", "a")
	second := c.Add("b", "http", "b")
	second.AddedAt = first.AddedAt.Add(time.Second)

	got := c.List()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("list order = [%s %s], want [%s %s]", got[0].Ref, got[1].Ref, first.Ref, second.Ref)
	}
}
