package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/pipeline"
	"github.com/matzehuels/rampboard/pkg/table"
)

// loadTable reads and decodes path through the cached runner.
func (c *CLI) loadTable(cmd *cobra.Command, path, encodings string) (*pipeline.LoadedTable, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeUnreadableFile, err, "read %s", path)
	}

	runner, closeRunner, err := c.runnerFor(cmd.Context())
	if err != nil {
		return nil, false, err
	}
	defer closeRunner()

	encs := c.Config.Encodings
	if encodings != "" {
		encs = splitList(encodings)
	}
	return runner.LoadTable(cmd.Context(), path, data, encs...)
}

// summaryCommand prints per-column diagnostics.
func (c *CLI) summaryCommand() *cobra.Command {
	var (
		encodings string
		asJSON    bool
		head      int
	)

	cmd := &cobra.Command{
		Use:               "summary [file.csv]",
		Short:             "Show row count, column kinds and missing values",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCSV,
		RunE: func(cmd *cobra.Command, args []string) error {
			if head < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--head must not be negative")
			}
			loaded, cached, err := c.loadTable(cmd, args[0], encodings)
			if err != nil {
				return err
			}
			summary := loaded.Table.Summarize()
			preview := loaded.Table.Preview(head)

			w := cmd.OutOrStdout()
			if asJSON {
				if head > 0 {
					return writeJSON(w, struct {
						table.Summary
						Preview table.Preview `json:"preview"`
					}{summary, preview})
				}
				return writeJSON(w, summary)
			}

			printKeyValue(w, "File", args[0])
			printKeyValue(w, "Encoding", loaded.Encoding)
			printKeyValue(w, "Rows", strconv.Itoa(summary.Rows))
			printKeyValue(w, "Columns", strconv.Itoa(summary.Columns))
			fmt.Fprintln(w, renderSummaryTable(summary))
			if head > 0 {
				fmt.Fprintln(w, newTable(preview.Columns...).Rows(preview.Rows...).Render())
			}
			if cached {
				printDetail(w, "loaded from cache")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&encodings, "encodings", "", "encoding trial list, comma-separated (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().IntVar(&head, "head", 0, "also print the first N raw rows")

	return cmd
}

// detectCommand explains which column would be used as the key.
func (c *CLI) detectCommand() *cobra.Command {
	var (
		encodings string
		keywords  string
	)

	cmd := &cobra.Command{
		Use:               "detect [file.csv]",
		Short:             "Detect the key column from column names",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCSV,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, _, err := c.loadTable(cmd, args[0], encodings)
			if err != nil {
				return err
			}

			kws := c.Config.KeyKeywords
			if keywords != "" {
				kws = splitList(keywords)
			}

			w := cmd.OutOrStdout()
			candidates := loaded.Table.CategoricalColumns()
			for _, col := range candidates {
				printDetail(w, "%-20s score %d", col, table.ScoreColumn(col, kws))
			}

			col, ok := loaded.Table.DetectKeyColumn(kws)
			if !ok {
				printWarning(w, "No key column detected among %s", strings.Join(candidates, ", "))
				printNextStep(w, "Choose one explicitly", fmt.Sprintf("%s rank %s --key-column <name>", appName, args[0]))
				return nil
			}
			printSuccess(w, "Key column: %s", StyleHighlight.Render(col))
			printDetail(w, "%d distinct keys", len(loaded.Table.KeyValues(col)))
			return nil
		},
	}

	cmd.Flags().StringVar(&encodings, "encodings", "", "encoding trial list, comma-separated (default from config)")
	cmd.Flags().StringVar(&keywords, "keywords", "", "key keywords, comma-separated, strongest first (default from config)")

	return cmd
}
