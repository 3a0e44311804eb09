package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saleslens/saleslens/internal/catalog"
)

var (
	ingestFormat string
	ingestName   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Register a local dataset directory in the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		df, err := ingestDir(dir, ingestFormat)
		if err != nil {
			return err
		}

		name := ingestName
		if name == "" {
			name = filepath.Base(dir)
		}
		cat, err := catalog.Load(cfg.DataDir)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(cat.RootDir(), abs)
		if err != nil || filepath.IsAbs(rel) {
			rel = abs
		}
		d := cat.Add(name, "local", rel)
		d.Rows = df.Nrow()
		d.Cols = df.Ncol()
		if err := cat.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Ingested %s (%d rows, %d cols) as %s\n", name, df.Nrow(), df.Ncol(), d.ID[:8])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestFormat, "format", "", "file format: 'csv' | 'xlsx' (default csv)")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "catalog name (default is the directory name)")
}
