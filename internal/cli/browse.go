package cli

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/session"
	"github.com/matzehuels/rampboard/pkg/table"
)

// rememberTTL is how long browse remembers the last selection for a file.
const rememberTTL = 30 * 24 * time.Hour

// browseCommand opens the interactive browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		sel    selectionFlags
		forget bool
	)

	cmd := &cobra.Command{
		Use:   "browse [file.csv]",
		Short: "Interactively switch keys and value columns",
		Long: `Browse opens a terminal view of one key's ranking. Up and down change the
key value, left and right move between value columns and space toggles the
column under the cursor. The last selection is remembered per file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd, args[0], &sel, forget)
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&forget, "forget", false, "ignore the remembered selection")

	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, input string, sel *selectionFlags, forget bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	loaded, _, err := c.loadTable(cmd, input, sel.encodings)
	if err != nil {
		return err
	}

	store, err := c.selectionStore()
	if err != nil {
		logger.Warn("selections will not be remembered", "err", err)
	}
	id := selectionID(input)

	opts := c.pipelineOptions(input)
	sel.apply(&opts)
	if store != nil && !forget && sel.keyColumn == "" && sel.columns == "" {
		if prev, ok := recallSelection(ctx, store, id, loaded.Table); ok {
			opts.KeyColumn = prev.KeyColumn
			opts.ValueColumns = prev.ValueColumns
			if opts.KeyValue == "" {
				opts.KeyValue = prev.KeyValue
			}
			logger.Debug("restored selection", "key_column", prev.KeyColumn, "columns", prev.ValueColumns)
		}
	}
	if err := opts.SetSelectionDefaults(loaded.Table); err != nil {
		return err
	}

	model := NewBrowseModel(loaded.Table, candidateColumns(loaded.Table, opts.KeyColumn), session.Selection{
		KeyColumn:    opts.KeyColumn,
		ValueColumns: opts.ValueColumns,
		KeyValue:     opts.KeyValue,
	}, *opts.Palette, !opts.RawLabels)

	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
	if err != nil {
		return err
	}

	if store != nil {
		chosen := final.(BrowseModel).Selection()
		sess := session.New(filepath.Base(input), loaded.Hash, rememberTTL)
		sess.ID = id
		sess.Encoding = loaded.Encoding
		sess.Selection = chosen
		if err := store.Set(ctx, sess); err != nil {
			logger.Warn("could not remember selection", "err", err)
		}
	}
	return nil
}

// selectionID derives a stable session ID from the input's absolute path.
func selectionID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String()
}

// recallSelection returns the remembered selection when its columns still
// exist in t.
func recallSelection(ctx context.Context, store session.Store, id string, t *table.Table) (session.Selection, bool) {
	sess, err := store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeSessionNotFound) {
			loggerFromContext(ctx).Debug("no remembered selection", "err", err)
		}
		return session.Selection{}, false
	}
	s := sess.Selection
	if !t.HasColumn(s.KeyColumn) || len(s.ValueColumns) == 0 {
		return session.Selection{}, false
	}
	for _, v := range s.ValueColumns {
		if !t.HasColumn(v) {
			return session.Selection{}, false
		}
	}
	return s, true
}

// candidateColumns lists the value columns browse offers: the numeric
// columns other than the key.
func candidateColumns(t *table.Table, key string) []string {
	return slices.DeleteFunc(t.NumericColumns(), func(c string) bool { return c == key })
}
