package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saleslens/saleslens/internal/acquire"
	"github.com/saleslens/saleslens/internal/catalog"
)

var (
	fetchSource string
	fetchDest   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <dataset>",
	Short: "Download a dataset and register it in the catalog",
	Long:  `Fetch downloads a dataset archive (a Kaggle owner/slug reference, or a direct URL with --source http), extracts it under the data directory, and records it in the catalog.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := args[0]
		creds := acquire.Credentials{Username: cfg.KaggleUsername, Key: cfg.KaggleKey}
		dl, err := acquire.ForSource(fetchSource, creds)
		if err != nil {
			return err
		}

		dest := fetchDest
		if dest == "" {
			dest = filepath.Join(cfg.DataDir, refDirName(ref))
		}
		dir, err := dl.Download(cmd.Context(), ref, dest)
		if err != nil {
			return err
		}

		df, err := ingestDir(dir, "")
		if err != nil {
			return err
		}

		cat, err := catalog.Load(cfg.DataDir)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(cat.RootDir(), dir)
		if err != nil {
			rel = dir
		}
		d := cat.Add(ref, fetchSource, rel)
		d.Rows = df.Nrow()
		d.Cols = df.Ncol()
		if err := cat.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Fetched %s (%d rows, %d cols) as %s\n", ref, df.Nrow(), df.Ncol(), d.ID[:8])
		return nil
	},
}

// refDirName turns a dataset reference into a filesystem-friendly directory
// name.
func refDirName(ref string) string {
	name := ref
	if i := strings.LastIndexAny(ref, "/\\"); i >= 0 {
		name = ref[i+1:]
	}
	name = strings.TrimSuffix(name, ".zip")
	if name == "" {
		name = "dataset"
	}
	return name
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchSource, "source", "kaggle", "download source: 'kaggle' | 'http'")
	fetchCmd.Flags().StringVar(&fetchDest, "dest", "", "destination directory (default is <data_dir>/<dataset>)")
}
