package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/pkg/pipeline"
)

// selectionFlags are the flags every command that ranks a table shares.
type selectionFlags struct {
	keyColumn string // key column; detected from column names when empty
	columns   string // comma-separated value columns; all numeric when empty
	key       string // key value to rank; first key when empty
	encodings string // comma-separated encoding trial list
	refresh   bool   // reparse even when the table is cached
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeCSV
	cmd.Flags().StringVar(&f.keyColumn, "key-column", "", "column to group by (detected when omitted)")
	cmd.Flags().StringVar(&f.columns, "columns", "", "value columns, comma-separated (all numeric when omitted)")
	cmd.Flags().StringVarP(&f.key, "key", "k", "", "key value to rank (first key when omitted)")
	cmd.Flags().StringVar(&f.encodings, "encodings", "", "encoding trial list, comma-separated (default from config)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "reparse the file even if it is cached")
}

// apply copies the flags over opts.
func (f *selectionFlags) apply(opts *pipeline.Options) {
	opts.KeyColumn = f.keyColumn
	opts.ValueColumns = splitList(f.columns)
	opts.KeyValue = f.key
	opts.Refresh = f.refresh
	if f.encodings != "" {
		opts.Encodings = splitList(f.encodings)
	}
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	selectionFlags
	output  string   // output file (single format) or base path (multiple)
	formats []string // output formats: "svg", "json", "csv"
	title   string   // chart title; the key value when empty
	width   float64  // viewport width in pixels
	height  float64  // viewport height in pixels
	raw     bool     // label bars with raw proportions instead of percentages
}

// renderCommand creates the render command for writing chart artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.csv]",
		Short: "Render the ranked proportions of one key as SVG, JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, csv (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title (default: the key value)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "chart width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "chart height (default from config)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "label bars with raw proportions instead of percentages")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, closeRunner, err := c.runnerFor(ctx)
	if err != nil {
		return err
	}
	defer closeRunner()

	popts := c.pipelineOptions(input)
	opts.apply(&popts)
	popts.Formats = opts.formats
	popts.Title = opts.title
	if opts.width > 0 {
		popts.Width = opts.width
	}
	if opts.height > 0 {
		popts.Height = opts.height
	}
	if opts.raw {
		popts.RawLabels = true
	}

	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+filepath.Base(input))
	spin.Start()
	result, err := runner.Execute(ctx, popts)
	spin.Stop()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.formats, input, opts.output)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s=%s", result.Options.KeyColumn, result.Options.KeyValue))

	w := cmd.OutOrStdout()
	printSuccess(w, "Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(w, p)
	}
	printStats(w, result.Stats.Rows, result.Stats.Groups, result.CacheInfo.TableHit)
	return nil
}

// writeArtifacts writes each format to disk and returns the paths in format
// order. A single format goes to output as is; several formats use output
// (or the input's base name) as the base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	formats = slices.Compact(slices.Clone(formats))
	single := output != "" && len(formats) == 1

	base := strings.TrimSuffix(output, filepath.Ext(output))
	if output == "" {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if single {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// execute runs the pipeline for input with the shared selection flags.
func (c *CLI) execute(ctx context.Context, input string, sel *selectionFlags, formats ...string) (*pipeline.Result, error) {
	runner, closeRunner, err := c.runnerFor(ctx)
	if err != nil {
		return nil, err
	}
	defer closeRunner()

	opts := c.pipelineOptions(input)
	sel.apply(&opts)
	opts.Formats = formats
	return runner.Execute(ctx, opts)
}
