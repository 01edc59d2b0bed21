package io

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"

	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/proportion"
	"github.com/matzehuels/rampboard/pkg/table"
)

func encode(t *testing.T, enc encoding.Encoding, s string) []byte {
	t.Helper()
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out
}

func TestReadTableEncodings(t *testing.T) {
	const hangul = "동네,q1,q2\n서울,10,30\n부산,5,5\n"

	tests := []struct {
		name      string
		data      []byte
		encodings []string
		wantEnc   string
		wantCols  []string
	}{
		{
			name:      "utf-8",
			data:      []byte(hangul),
			encodings: DefaultEncodings,
			wantEnc:   "utf-8",
			wantCols:  []string{"동네", "q1", "q2"},
		},
		{
			name:      "utf-8 with bom",
			data:      append(append([]byte(nil), utf8BOM...), hangul...),
			encodings: DefaultEncodings,
			wantEnc:   "utf-8",
			wantCols:  []string{"동네", "q1", "q2"},
		},
		{
			name:      "cp949 falls back",
			data:      encode(t, korean.EUCKR, hangul),
			encodings: DefaultEncodings,
			wantEnc:   "cp949",
			wantCols:  []string{"동네", "q1", "q2"},
		},
		{
			name:      "latin1 last resort",
			data:      []byte("caf\xe9,n\nx,1\n"),
			encodings: []string{"utf-8", "latin1"},
			wantEnc:   "latin1",
			wantCols:  []string{"café", "n"},
		},
		{
			name:      "utf-16 with bom",
			data:      encode(t, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), "k,v\na,1\n"),
			encodings: []string{"utf-8", "utf-16"},
			wantEnc:   "utf-16",
			wantCols:  []string{"k", "v"},
		},
		{
			name:      "alias names",
			data:      encode(t, korean.EUCKR, hangul),
			encodings: []string{"UTF8", "EUC_KR"},
			wantEnc:   "euc-kr",
			wantCols:  []string{"동네", "q1", "q2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, enc, err := ReadTable(bytes.NewReader(tt.data), tt.encodings)
			if err != nil {
				t.Fatalf("ReadTable() error: %v", err)
			}
			if enc != tt.wantEnc {
				t.Errorf("encoding = %q, want %q", enc, tt.wantEnc)
			}
			if !slices.Equal(tbl.Columns, tt.wantCols) {
				t.Errorf("columns = %q, want %q", tbl.Columns, tt.wantCols)
			}
		})
	}
}

func TestReadTableHangulValues(t *testing.T) {
	data := encode(t, korean.EUCKR, "동네,q1\n서울,10\n")
	tbl, _, err := ReadTable(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Rows[0]["동네"]; got != "서울" {
		t.Errorf("key cell = %q, want 서울", got)
	}
}

func TestReadTableUnreadable(t *testing.T) {
	data := []byte("a,b\n\xff\xff,1\n")
	tbl, _, err := ReadTable(bytes.NewReader(data), []string{"utf-8", "cp949"})
	if !errors.Is(err, errors.ErrCodeUnreadableFile) {
		t.Fatalf("error = %v, want UNREADABLE_FILE", err)
	}
	if tbl != nil {
		t.Error("expected no partial table")
	}
	for _, name := range []string{"utf-8", "cp949"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		encodings []string
		code      errors.Code
	}{
		{"empty", "", nil, errors.ErrCodeEmptyInput},
		{"bom only", "\xef\xbb\xbf\n", nil, errors.ErrCodeEmptyInput},
		{"unknown encoding", "a\n1\n", []string{"klingon"}, errors.ErrCodeInvalidInput},
		{"ragged rows", "a,b\n1\n", []string{"utf-8"}, errors.ErrCodeUnreadableFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadTable(strings.NewReader(tt.data), tt.encodings)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestUniqueHeader(t *testing.T) {
	got := uniqueHeader([]string{" a ", "a", "", "a.1", "a"})
	want := []string{"a", "a.1", "Unnamed: 2", "a.1.1", "a.2"}
	if !slices.Equal(got, want) {
		t.Errorf("uniqueHeader() = %q, want %q", got, want)
	}
}

func TestImportCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, encode(t, korean.EUCKR, "지역,a\n강남,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, enc, err := ImportCSV(path, nil)
	if err != nil {
		t.Fatalf("ImportCSV() error: %v", err)
	}
	if enc != "cp949" || tbl.Len() != 1 {
		t.Errorf("ImportCSV() = %d rows in %s", tbl.Len(), enc)
	}

	_, _, err = ImportCSV(filepath.Join(dir, "missing.csv"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodingDecodeStrict(t *testing.T) {
	eucKR := encode(t, korean.EUCKR, "서울,10\n")
	tests := []struct {
		name    string
		enc     string
		data    []byte
		want    string
		wantErr bool
	}{
		{"euc-kr hangul", "cp949", eucKR, "서울,10\n", false},
		{"euc-kr invalid trailing byte", "cp949", append(append([]byte(nil), eucKR...), 0xff), "", true},
		{"euc-kr invalid lead byte", "euc-kr", []byte("a,\xff\xfe\n"), "", true},
		{"literal replacement char", "utf-8", []byte("a,\uFFFD\n"), "a,\uFFFD\n", false},
		{"latin1 accepts any byte", "latin1", []byte("caf\xe9"), "café", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := LookupEncoding(tt.enc)
			if err != nil {
				t.Fatal(err)
			}
			got, err := enc.Decode(tt.data)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnreadableFile) {
					t.Fatalf("Decode() error = %v, want UNREADABLE_FILE", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range SupportedEncodings() {
		if _, err := LookupEncoding(name); err != nil {
			t.Errorf("LookupEncoding(%q) error: %v", name, err)
		}
	}
	if err := ValidateEncodings([]string{"utf-8", "nope"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ValidateEncodings() error = %v", err)
	}
}

func TestWriteGrouped(t *testing.T) {
	g := &proportion.Grouped{
		KeyColumn: "region",
		Columns:   []string{"q1", "q2"},
		Groups: []proportion.Group{
			{Key: "A", Entries: []proportion.Entry{{Column: "q1", Proportion: 0.3}, {Column: "q2", Proportion: 0.7}}},
			{Key: "B", Entries: []proportion.Entry{{Column: "q1", Proportion: 0}, {Column: "q2", Proportion: 0}}},
		},
	}

	var buf bytes.Buffer
	if err := WriteGrouped(&buf, g); err != nil {
		t.Fatal(err)
	}
	want := "\xef\xbb\xbfregion,q1,q2\nA,0.3,0.7\nB,0,0\n"
	if buf.String() != want {
		t.Errorf("WriteGrouped() = %q, want %q", buf.String(), want)
	}
}

func TestExportRoundTrip(t *testing.T) {
	src := table.New(
		[]string{"동네", "q1", "q2", "q3"},
		[][]string{
			{"역삼동", "1", "2", "3"},
			{"역삼동", "7", "0", "11"},
			{"삼성동", "0", "0", "0"},
			{"대치동", "1,234", "$5", "13%"},
		},
	)
	g, err := proportion.Compute(src, "동네", []string{"q1", "q2", "q3"})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ExportCSV(g, path); err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	back, err := ReadGrouped(f)
	if err != nil {
		t.Fatalf("ReadGrouped() error: %v", err)
	}
	if back.KeyColumn != g.KeyColumn || !slices.Equal(back.Columns, g.Columns) {
		t.Fatalf("header mismatch: %s %v", back.KeyColumn, back.Columns)
	}
	if len(back.Groups) != len(g.Groups) {
		t.Fatalf("%d groups, want %d", len(back.Groups), len(g.Groups))
	}
	for i, grp := range g.Groups {
		if back.Groups[i].Key != grp.Key {
			t.Fatalf("group %d key = %q, want %q", i, back.Groups[i].Key, grp.Key)
		}
	}
	for i, grp := range g.Groups {
		for j, e := range grp.Entries {
			if got := back.Groups[i].Entries[j].Proportion; math.Abs(got-e.Proportion) > 1e-9 {
				t.Errorf("%s.%s = %v, want %v", grp.Key, e.Column, got, e.Proportion)
			}
		}
	}
}

func TestReadGroupedErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"empty", "", errors.ErrCodeEmptyInput},
		{"key only", "region\nA\n", errors.ErrCodeSchema},
		{"not a number", "region,q1\nA,abc\n", errors.ErrCodeInvalidFormat},
		{"ragged", "region,q1\nA\n", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGrouped(strings.NewReader(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
