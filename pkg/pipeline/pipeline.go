// Package pipeline runs the load → compute → rank → render flow shared by the
// CLI and the dashboard.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: decode a CSV with the encoding trial list and parse it to a table
//  2. Compute: group by the key column and normalize to proportions
//  3. Render: rank the selected key and produce SVG, JSON and CSV artifacts
//
// Loaded tables and rendered artifacts are cached by content hash through
// [cache.Cache]; computing proportions is cheap and never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:         "survey.csv",
//	    ValueColumns: []string{"q1", "q2"},
//	    Formats:      []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rampboard/pkg/cache"
	"github.com/matzehuels/rampboard/pkg/errors"
	rio "github.com/matzehuels/rampboard/pkg/io"
	"github.com/matzehuels/rampboard/pkg/proportion"
	"github.com/matzehuels/rampboard/pkg/table"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatCSV:  true,
}

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options. Data takes precedence over Path; Source names the input
	// in logs and cache keys and defaults to the base name of Path.
	Source    string   `json:"source,omitempty"`
	Path      string   `json:"path,omitempty"`
	Data      []byte   `json:"-"`
	Encodings []string `json:"encodings,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`

	// Selection options. Empty fields are filled from the table.
	KeyColumn    string   `json:"key_column,omitempty"`
	ValueColumns []string `json:"value_columns,omitempty"`
	KeyValue     string   `json:"key_value,omitempty"`
	KeyKeywords  []string `json:"-"`

	// Render options
	Formats   []string            `json:"formats,omitempty"`
	Palette   *proportion.Palette `json:"palette,omitempty"`
	Width     float64             `json:"width,omitempty"`
	Height    float64             `json:"height,omitempty"`
	Title     string              `json:"title,omitempty"`
	RawLabels bool                `json:"raw_labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Options are the effective options, with selection defaults applied.
	Options Options

	Table     *table.Table
	Encoding  string
	TableHash string
	Grouped   *proportion.Grouped
	Ranked    proportion.Ranked

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows        int
	Groups      int
	Entries     int
	LoadTime    time.Duration
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	TableHit  bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, csv)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the load and render options and applies
// defaults. Selection defaults need the table and are applied by
// [Options.SetSelectionDefaults]. Calling it twice is harmless.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that there is something to load.
func (o *Options) ValidateForLoad() error {
	if o.Data == nil && o.Path == "" {
		return errors.New(errors.ErrCodeFileNotFound, "no input: upload a CSV or pass a path")
	}
	if o.Source == "" {
		o.Source = filepath.Base(o.Path)
		if o.Path == "" {
			o.Source = "upload.csv"
		}
	}
	if len(o.Encodings) == 0 {
		o.Encodings = slices.Clone(rio.DefaultEncodings)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return rio.ValidateEncodings(o.Encodings)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Palette == nil {
		p := proportion.DefaultPalette
		o.Palette = &p
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart size must not be negative")
	}
	return ValidateFormats(o.Formats)
}

// SetSelectionDefaults fills the key column, value columns and key value
// from t. The key column is detected from column names; value columns
// default to every numeric column other than the key; the key value
// defaults to the first key in the table.
func (o *Options) SetSelectionDefaults(t *table.Table) error {
	if o.KeyColumn == "" {
		keywords := o.KeyKeywords
		if len(keywords) == 0 {
			keywords = table.DefaultKeyKeywords
		}
		col, ok := t.DetectKeyColumn(keywords)
		if !ok {
			return errors.New(errors.ErrCodeSchema, "no key column detected among %s; choose one explicitly",
				strings.Join(t.Columns, ", "))
		}
		o.KeyColumn = col
	}
	if len(o.ValueColumns) == 0 {
		for _, c := range t.NumericColumns() {
			if c != o.KeyColumn {
				o.ValueColumns = append(o.ValueColumns, c)
			}
		}
	}
	if o.KeyValue == "" {
		if keys := t.KeyValues(o.KeyColumn); len(keys) > 0 {
			o.KeyValue = keys[0]
		}
	}
	return nil
}

// PaletteKey identifies the palette in cache keys.
func (o *Options) PaletteKey() string {
	if o.Palette == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s", o.Palette.Highlight.RGBA(), o.Palette.Secondary.RGBA())
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		KeyColumn:    o.KeyColumn,
		ValueColumns: o.ValueColumns,
		KeyValue:     o.KeyValue,
		Format:       format,
		Palette:      o.PaletteKey(),
		Width:        o.Width,
		Height:       o.Height,
		Title:        o.Title,
		Percent:      !o.RawLabels,
	}
}
