package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/saleslens/saleslens/internal/acquire"
	"github.com/saleslens/saleslens/internal/catalog"
	cfgpkg "github.com/saleslens/saleslens/internal/config"
	"github.com/saleslens/saleslens/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "saleslens",
	Short: "SalesLens: explore and preprocess tabular sales data",
	Long:  `SalesLens is a CLI toolkit for retail sales datasets: fetching, inspection, cleaning, feature engineering, distribution plots, and association statistics.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.saleslens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{DataDir: "datasets", PlotsDir: "plots", LogLevel: "info"}
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logging.Init(level, os.Stderr)
}

// loadFrame resolves a command argument to a dataframe. A path to a CSV or
// XLSX file, or a directory containing one, is read directly; anything else
// is looked up in the catalog.
func loadFrame(key string) (dataframe.DataFrame, error) {
	if info, err := os.Stat(key); err == nil {
		if info.IsDir() {
			return ingestDir(key, "")
		}
		return acquire.ReadFile(key)
	}
	cat, err := catalog.Load(cfg.DataDir)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	d, err := cat.Find(key)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	dir := d.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cat.RootDir(), dir)
	}
	return ingestDir(dir, "")
}

func ingestDir(dir, format string) (dataframe.DataFrame, error) {
	ing, err := acquire.IngestorFor(format)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return ing.Ingest(dir)
}

// writeFrame saves a dataframe as CSV at path, creating parent directories.
func writeFrame(df dataframe.DataFrame, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
