package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/pkg/pipeline"
)

// rankCommand prints the ranking of one key in the terminal.
func (c *CLI) rankCommand() *cobra.Command {
	var (
		sel      selectionFlags
		asTable  bool
		asJSON   bool
		raw      bool
		barWidth int
	)

	cmd := &cobra.Command{
		Use:   "rank [file.csv]",
		Short: "Print the ranked proportions of one key as terminal bars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.execute(cmd.Context(), args[0], &sel, pipeline.FormatJSON)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				_, err := fmt.Fprintln(w, string(result.Artifacts[pipeline.FormatJSON]))
				return err
			}

			percent := c.Config.Chart.Percent && !raw
			fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s: %s", result.Options.KeyColumn, result.Options.KeyValue)))
			if asTable {
				fmt.Fprintln(w, renderRankTable(result.Ranked, percent))
			} else {
				fmt.Fprint(w, renderBars(result.Ranked, barWidth, percent, terminalBackground()))
			}
			printStats(w, result.Stats.Rows, result.Stats.Groups, result.CacheInfo.TableHit)
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&asTable, "table", false, "print a table with ranks and colors instead of bars")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plotting-ready JSON series")
	cmd.Flags().BoolVar(&raw, "raw", false, "show raw proportions instead of percentages")
	cmd.Flags().IntVar(&barWidth, "bar-width", 40, "width of the longest bar in cells")

	return cmd
}
