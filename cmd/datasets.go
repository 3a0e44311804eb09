package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/saleslens/saleslens/internal/catalog"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets recorded in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.DataDir)
		if err != nil {
			return err
		}
		entries := cat.List()
		if len(entries) == 0 {
			fmt.Println("No datasets in catalog. Use 'saleslens fetch' or 'saleslens ingest' to add one.")
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tREF\tSOURCE\tROWS\tCOLS\tADDED")
		for _, d := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
				d.ID[:8], d.Ref, d.Source, d.Rows, d.Cols, d.AddedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
