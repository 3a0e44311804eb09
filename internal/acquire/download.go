// Package acquire fetches remote dataset archives and loads tabular files
// from local directories into dataframes. Downloaders and ingestors are
// selected by source/format tag through small factories.
package acquire

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/saleslens/saleslens/internal/errs"
)

// DefaultKaggleBaseURL is the Kaggle public API endpoint.
const DefaultKaggleBaseURL = "https://www.kaggle.com/api/v1"

// Downloader fetches a dataset archive and extracts it into destDir,
// returning the directory the files landed in.
type Downloader interface {
	Download(ctx context.Context, dataset, destDir string) (string, error)
}

// Credentials authenticate against a dataset host.
type Credentials struct {
	Username string
	Key      string
}

// KaggleDownloader fetches datasets from the Kaggle API. Dataset names are
// owner/slug pairs; the response is a zip archive extracted in place.
type KaggleDownloader struct {
	Credentials Credentials
	BaseURL     string
	Client      *http.Client
}

// NewKaggleDownloader constructs a KaggleDownloader with a 5 minute HTTP
// timeout.
func NewKaggleDownloader(creds Credentials) *KaggleDownloader {
	return &KaggleDownloader{
		Credentials: creds,
		BaseURL:     DefaultKaggleBaseURL,
		Client:      &http.Client{Timeout: 5 * time.Minute},
	}
}

func (d *KaggleDownloader) Download(ctx context.Context, dataset, destDir string) (string, error) {
	if d.Credentials.Username == "" || d.Credentials.Key == "" {
		return "", errs.PreconditionFailedf("kaggle credentials not configured (set KAGGLE_USERNAME and KAGGLE_KEY)")
	}
	url := fmt.Sprintf("%s/datasets/download/%s", strings.TrimRight(d.BaseURL, "/"), dataset)
	slog.Info("downloading dataset", "source", "kaggle", "dataset", dataset, "dest", destDir)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(d.Credentials.Username, d.Credentials.Key)

	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("fetch dataset: unexpected status %s: %s", resp.Status, string(b))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read archive: %w", err)
	}
	if err := extractZip(body, destDir); err != nil {
		return "", err
	}
	slog.Info("dataset downloaded and extracted", "dest", destDir)
	return destDir, nil
}

// HTTPDownloader fetches a zip archive from an arbitrary URL. It needs no
// credentials; the dataset argument is the full URL.
type HTTPDownloader struct {
	Client *http.Client
}

// NewHTTPDownloader constructs an HTTPDownloader with a 5 minute timeout.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{Client: &http.Client{Timeout: 5 * time.Minute}}
}

func (d *HTTPDownloader) Download(ctx context.Context, url, destDir string) (string, error) {
	slog.Info("downloading dataset", "source", "http", "url", url, "dest", destDir)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch archive: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("fetch archive: unexpected status %s: %s", resp.Status, string(b))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read archive: %w", err)
	}
	if err := extractZip(body, destDir); err != nil {
		return "", err
	}
	return destDir, nil
}

// ForSource returns the downloader matching a source tag.
func ForSource(source string, creds Credentials) (Downloader, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "kaggle":
		return NewKaggleDownloader(creds), nil
	case "http", "url":
		return NewHTTPDownloader(), nil
	default:
		return nil, errs.Unsupportedf("no downloader available for source type %q", source)
	}
}

// extractZip unpacks an in-memory zip archive under destDir.
func extractZip(data []byte, destDir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("mkdir dest: %w", err)
	}
	for _, f := range zr.File {
		target := filepath.Join(destDir, filepath.Clean(f.Name))
		// Zip-slip guard.
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return errs.InvalidArgumentf("archive entry %q escapes destination directory", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("mkdir %s: %w", target, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", filepath.Dir(target), err)
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		out, err := os.Create(target)
		if err != nil {
			rc.Close()
			return fmt.Errorf("create %s: %w", target, err)
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}
