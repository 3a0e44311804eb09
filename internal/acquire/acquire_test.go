package acquire_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/saleslens/saleslens/internal/acquire"
	"github.com/saleslens/saleslens/internal/errs"
)

func TestForSource(t *testing.T) {
	if _, err := acquire.ForSource("kaggle", acquire.Credentials{Username: "u", Key: "k"}); err != nil {
		t.Fatalf("kaggle: %v", err)
	}
	if _, err := acquire.ForSource("http", acquire.Credentials{}); err != nil {
		t.Fatalf("http: %v", err)
	}
	_, err := acquire.ForSource("gopher", acquire.Credentials{})
	if errs.KindOf(err) != errs.KindUnsupported {
		t.Fatalf("err = %v, want UNSUPPORTED", err)
	}
}

func TestIngestorFor(t *testing.T) {
	if _, err := acquire.IngestorFor("csv"); err != nil {
		t.Fatalf("csv: %v", err)
	}
	if _, err := acquire.IngestorFor("xlsx"); err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	if _, err := acquire.IngestorFor(""); err != nil {
		t.Fatalf("default: %v", err)
	}
	_, err := acquire.IngestorFor("parquet")
	if errs.KindOf(err) != errs.KindUnsupported {
		t.Fatalf("err = %v, want UNSUPPORTED", err)
	}
}

func TestCSVIngestorNoFiles(t *testing.T) {
	_, err := (acquire.CSVIngestor{}).Ingest(t.TempDir())
	if !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestCSVIngestorSingleFile(t *testing.T) {
	dir := t.TempDir()
	content := "Item_Weight,Outlet_Size\n9.3,Medium\n17.5,Small\n"
	if err := os.WriteFile(filepath.Join(dir, "train.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	df, err := (acquire.CSVIngestor{}).Ingest(dir)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if df.Nrow() != 2 || df.Ncol() != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", df.Nrow(), df.Ncol())
	}
}

func TestCSVIngestorPicksFirstOfMany(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x\n1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.csv"), []byte("x\n1\n2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	df, err := (acquire.CSVIngestor{}).Ingest(dir)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	// Directory listing order is lexicographic: a.csv wins.
	if df.Nrow() != 1 {
		t.Fatalf("rows = %d, want 1 (from a.csv)", df.Nrow())
	}
}

func TestKaggleDownloaderRequiresCredentials(t *testing.T) {
	d := acquire.NewKaggleDownloader(acquire.Credentials{})
	_, err := d.Download(context.Background(), "owner/slug", t.TempDir())
	if errs.KindOf(err) != errs.KindPreconditionFailed {
		t.Fatalf("err = %v, want PRECONDITION_FAILED", err)
	}
}

func zipArchive(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestKaggleDownloaderFetchesAndExtracts(t *testing.T) {
	archive := zipArchive(t, "bigmart.csv", "x,y\n1,2\n")
	var gotAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, k, ok := r.BasicAuth(); ok && u == "user" && k == "key" {
			gotAuth = true
		}
		w.Write(archive)
	}))
	defer srv.Close()

	d := acquire.NewKaggleDownloader(acquire.Credentials{Username: "user", Key: "key"})
	d.BaseURL = srv.URL
	dest := t.TempDir()
	out, err := d.Download(context.Background(), "owner/bigmart", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if out != dest {
		t.Fatalf("dest = %q, want %q", out, dest)
	}
	if !gotAuth {
		t.Fatal("basic auth not sent")
	}
	df, err := (acquire.CSVIngestor{}).Ingest(dest)
	if err != nil {
		t.Fatalf("Ingest after download: %v", err)
	}
	if df.Nrow() != 1 {
		t.Fatalf("rows = %d, want 1", df.Nrow())
	}
}

func TestKaggleDownloaderSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	d := acquire.NewKaggleDownloader(acquire.Credentials{Username: "u", Key: "bad"})
	d.BaseURL = srv.URL
	if _, err := d.Download(context.Background(), "owner/slug", t.TempDir()); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestHTTPDownloader(t *testing.T) {
	archive := zipArchive(t, "data/sales.csv", "a\n1\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	dest := t.TempDir()
	if _, err := acquire.NewHTTPDownloader().Download(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "data", "sales.csv")); err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
}
