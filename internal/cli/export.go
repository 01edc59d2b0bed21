package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/pkg/errors"
	rio "github.com/matzehuels/rampboard/pkg/io"
	"github.com/matzehuels/rampboard/pkg/pipeline"
)

// exportCommand writes the proportions of every group as CSV.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		sel    selectionFlags
		output string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export per-group proportions as CSV (UTF-8 with BOM)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.execute(cmd.Context(), args[0], &sel, pipeline.FormatCSV)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output == "-" {
				_, err := w.Write(result.Artifacts[pipeline.FormatCSV])
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".proportions.csv"
			}
			if err := rio.ExportCSV(result.Grouped, output); err != nil {
				return err
			}

			if verify {
				if err := verifyExport(output, len(result.Grouped.Groups)); err != nil {
					return err
				}
				printDetail(w, "round trip verified")
			}
			printSuccess(w, "Exported %d groups × %d columns", len(result.Grouped.Groups), len(result.Grouped.Columns))
			printFile(w, output)
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default <input>.proportions.csv)`)
	cmd.Flags().BoolVar(&verify, "verify", false, "read the export back and check it parses")

	return cmd
}

// verifyExport reads an export back and checks its group count.
func verifyExport(path string, groups int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := rio.ReadGrouped(f)
	if err != nil {
		return err
	}
	if len(g.Groups) != groups {
		return errors.New(errors.ErrCodeInternal, "%s: read back %d groups, wrote %d", path, len(g.Groups), groups)
	}
	return nil
}
