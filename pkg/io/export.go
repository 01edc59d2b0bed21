package io

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/proportion"
)

// WriteGrouped writes g as CSV: one row per key, one column per value column,
// with the key column first. Output is UTF-8 with a byte order mark so that
// spreadsheet programs detect non-ASCII headers correctly.
//
// Proportions use the shortest representation that parses back to the same
// float64, so [ReadGrouped] recovers g exactly.
func WriteGrouped(w io.Writer, g *proportion.Grouped) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(utf8BOM); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	cw := csv.NewWriter(bw)
	header := append([]string{g.KeyColumn}, g.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for _, grp := range g.Groups {
		rec[0] = grp.Key
		for i, e := range grp.Entries {
			rec[i+1] = strconv.FormatFloat(e.Proportion, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", grp.Key, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return bw.Flush()
}

// ReadGrouped parses the output of [WriteGrouped].
func ReadGrouped(r io.Reader) (*proportion.Grouped, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse proportions")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no header row")
	}
	header := records[0]
	if len(header) < 2 {
		return nil, errors.New(errors.ErrCodeSchema, "expected a key column and at least one value column")
	}

	g := &proportion.Grouped{
		KeyColumn: header[0],
		Columns:   append([]string(nil), header[1:]...),
		Groups:    make([]proportion.Group, 0, len(records)-1),
	}
	for line, rec := range records[1:] {
		grp := proportion.Group{Key: rec[0], Entries: make([]proportion.Entry, len(g.Columns))}
		for i, col := range g.Columns {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d column %q", line+2, col)
			}
			grp.Entries[i] = proportion.Entry{Column: col, Proportion: v}
		}
		g.Groups = append(g.Groups, grp)
	}
	return g, nil
}

// ExportCSV writes g to a CSV file at path.
// This is a convenience wrapper around [WriteGrouped] for file-based output.
func ExportCSV(g *proportion.Grouped, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGrouped(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
