package io

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/table"
)

// ReadTable reads a CSV table from r, trying each encoding in order.
//
// The input is read into memory once. The first encoding under which the
// bytes both decode and parse as CSV wins, and its canonical name is returned
// alongside the table. A leading byte order mark is dropped. When every
// encoding fails ReadTable returns UNREADABLE_FILE listing each attempt, and
// no partial table.
//
// An empty encodings list means [DefaultEncodings]. Input without a header
// row fails with EMPTY_INPUT. ReadTable does not close r.
func ReadTable(r io.Reader, encodings []string) (*table.Table, string, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	trials := make([]Encoding, 0, len(encodings))
	for _, name := range encodings {
		enc, err := LookupEncoding(name)
		if err != nil {
			return nil, "", err
		}
		trials = append(trials, enc)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeUnreadableFile, err, "read input")
	}
	if len(bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))) == 0 {
		return nil, "", errors.New(errors.ErrCodeEmptyInput, "file is empty")
	}

	var failures []string
	for _, enc := range trials {
		text, err := enc.Decode(data)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", enc.Name, errors.UserMessage(err)))
			continue
		}
		t, err := parseCSV(text)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", enc.Name, err))
			continue
		}
		return t, enc.Name, nil
	}
	return nil, "", errors.New(errors.ErrCodeUnreadableFile, "no encoding could read the file (%s)",
		strings.Join(failures, "; "))
}

// ImportCSV reads the CSV file at path with [ReadTable]. The file handle is
// closed before ImportCSV returns.
func ImportCSV(path string, encodings []string) (*table.Table, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeUnreadableFile, err, "open %s", path)
	}
	defer f.Close()

	t, enc, err := ReadTable(f, encodings)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return t, enc, nil
}

func parseCSV(text []byte) (*table.Table, error) {
	cr := csv.NewReader(bytes.NewReader(text))
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	return table.New(uniqueHeader(records[0]), records[1:]), nil
}

// uniqueHeader names blank columns "Unnamed: i" and suffixes repeated names
// with ".1", ".2", ... so every column can be addressed by name.
func uniqueHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
