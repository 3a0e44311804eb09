package acquire

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"github.com/saleslens/saleslens/internal/errs"
)

// Ingestor loads the tabular file found in a directory into a dataframe.
type Ingestor interface {
	Ingest(dir string) (dataframe.DataFrame, error)
}

// IngestorFor returns the ingestor matching a format tag.
func IngestorFor(format string) (Ingestor, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv", "":
		return CSVIngestor{}, nil
	case "xlsx", "excel":
		return XLSXIngestor{}, nil
	default:
		return nil, errs.Unsupportedf("no ingestor available for format %q", format)
	}
}

// findByExt lists files in dir with the given extension, in directory
// listing order.
func findByExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			matches = append(matches, filepath.Join(dir, e.Name()))
		}
	}
	return matches, nil
}

// pickFirst selects the first match, warning when several files qualify.
func pickFirst(matches []string, ext, dir string) (string, error) {
	switch len(matches) {
	case 0:
		return "", errs.NotFoundf("no %s file found in directory %s", ext, dir)
	case 1:
		return matches[0], nil
	default:
		slog.Warn("multiple files found, using the first", "ext", ext, "dir", dir, "chosen", matches[0], "total", len(matches))
		return matches[0], nil
	}
}

// ReadFile loads a single tabular file, dispatching on its extension.
func ReadFile(path string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx":
		return ReadXLSXFile(path)
	default:
		return dataframe.DataFrame{}, errs.Unsupportedf("no ingestor available for file %q", path)
	}
}

// CSVIngestor loads the first CSV file in a directory.
type CSVIngestor struct{}

func (CSVIngestor) Ingest(dir string) (dataframe.DataFrame, error) {
	var df dataframe.DataFrame
	matches, err := findByExt(dir, ".csv")
	if err != nil {
		return df, err
	}
	path, err := pickFirst(matches, ".csv", dir)
	if err != nil {
		return df, err
	}
	return ReadCSVFile(path)
}

// ReadCSVFile loads one CSV file into a dataframe.
func ReadCSVFile(path string) (dataframe.DataFrame, error) {
	var df dataframe.DataFrame
	f, err := os.Open(path)
	if err != nil {
		return df, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	df = dataframe.ReadCSV(f)
	if df.Err != nil {
		return df, fmt.Errorf("parse csv %s: %w", path, df.Err)
	}
	slog.Info("ingested csv", "path", path, "rows", df.Nrow(), "cols", df.Ncol())
	return df, nil
}

// XLSXIngestor loads the first sheet of the first .xlsx file in a
// directory.
type XLSXIngestor struct{}

func (XLSXIngestor) Ingest(dir string) (dataframe.DataFrame, error) {
	var df dataframe.DataFrame
	matches, err := findByExt(dir, ".xlsx")
	if err != nil {
		return df, err
	}
	path, err := pickFirst(matches, ".xlsx", dir)
	if err != nil {
		return df, err
	}
	return ReadXLSXFile(path)
}

// ReadXLSXFile loads the first sheet of one workbook into a dataframe.
func ReadXLSXFile(path string) (dataframe.DataFrame, error) {
	var df dataframe.DataFrame
	f, err := excelize.OpenFile(path)
	if err != nil {
		return df, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return df, errs.NotFoundf("no sheets in workbook %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return df, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 1 {
		return df, errs.NotFoundf("sheet %s of %s is empty", sheets[0], path)
	}
	// excelize trims trailing empty cells; pad rows to header width.
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > width {
			rows[i] = row[:width]
		}
	}
	df = dataframe.LoadRecords(rows)
	if df.Err != nil {
		return df, fmt.Errorf("parse sheet %s: %w", sheets[0], df.Err)
	}
	slog.Info("ingested xlsx", "path", path, "sheet", sheets[0], "rows", df.Nrow(), "cols", df.Ncol())
	return df, nil
}
