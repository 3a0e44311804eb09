package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saleslens/saleslens/internal/clean"
	"github.com/saleslens/saleslens/internal/errs"
)

var (
	cleanOp      string
	cleanColumn  string
	cleanGroup   string
	cleanValue   string
	cleanReplace []string
	cleanOutput  string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file|dataset>",
	Short: "Apply a cleaning operation and write the result as CSV",
	Long: `Clean applies one cleaning operation to a dataset:

  group-max     impute missing values with the maximum of the target column per group
  default       impute missing values with a fixed value
  drop          drop rows where the target column is missing
  standardize   replace inconsistent category labels (--replace old=new)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		df, err := loadFrame(args[0])
		if err != nil {
			return err
		}

		var strategy clean.Transformation
		switch cleanOp {
		case "group-max":
			if cleanColumn == "" || cleanGroup == "" {
				return errs.InvalidArgumentf("group-max requires --column and --group")
			}
			strategy = clean.NewGroupMaxImputer(cleanColumn, cleanGroup)
		case "default":
			if cleanColumn == "" || cleanValue == "" {
				return errs.InvalidArgumentf("default requires --column and --value")
			}
			var value any = cleanValue
			if f, err := strconv.ParseFloat(cleanValue, 64); err == nil {
				value = f
			}
			strategy = clean.NewDefaultImputer(cleanColumn, value)
		case "drop":
			if cleanColumn == "" {
				return errs.InvalidArgumentf("drop requires --column")
			}
			strategy = clean.NewDropMissing(cleanColumn)
		case "standardize":
			if cleanColumn == "" || len(cleanReplace) == 0 {
				return errs.InvalidArgumentf("standardize requires --column and --replace")
			}
			replacements, err := parsePairs(cleanReplace)
			if err != nil {
				return err
			}
			strategy = clean.NewValueStandardizer(cleanColumn, replacements)
		default:
			return errs.Unsupportedf("unknown cleaning op %q", cleanOp)
		}

		out, err := clean.NewTransformer(strategy).Apply(df)
		if err != nil {
			return err
		}
		if err := writeFrame(out, cleanOutput); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote cleaned data to %s (%d rows)\n", cleanOutput, out.Nrow())
		return nil
	},
}

// parsePairs converts repeated old=new flags into a replacement map.
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		old, repl, ok := strings.Cut(p, "=")
		if !ok {
			return nil, errs.InvalidArgumentf("invalid --replace %q (want old=new)", p)
		}
		out[old] = repl
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&cleanOp, "op", "", "cleaning op: 'group-max' | 'default' | 'drop' | 'standardize'")
	cleanCmd.Flags().StringVarP(&cleanColumn, "column", "c", "", "target column")
	cleanCmd.Flags().StringVar(&cleanGroup, "group", "", "grouping column for group-max")
	cleanCmd.Flags().StringVar(&cleanValue, "value", "", "fill value for default imputation")
	cleanCmd.Flags().StringSliceVar(&cleanReplace, "replace", nil, "label replacement old=new (repeatable)")
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "cleaned.csv", "output CSV path")
	_ = cleanCmd.MarkFlagRequired("op")
}
