package io

import (
	"bytes"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"

	"github.com/matzehuels/rampboard/pkg/errors"
)

// DefaultEncodings is the trial order used when none is configured: UTF-8
// first, then the Korean code pages, then Latin-1 which accepts any byte.
var DefaultEncodings = []string{"utf-8", "cp949", "euc-kr", "latin1"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding is a named, strict text decoder.
type Encoding struct {
	Name   string
	decode func([]byte) ([]byte, error)
}

// Decode converts data to UTF-8. It fails instead of substituting
// replacement characters for bytes the encoding cannot represent.
func (e Encoding) Decode(data []byte) ([]byte, error) {
	out, err := e.decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreadableFile, err, "not valid %s", e.Name)
	}
	return bytes.TrimPrefix(out, utf8BOM), nil
}

func decodeUTF8(data []byte) ([]byte, error) {
	if !utf8.Valid(data) {
		return nil, errors.New(errors.ErrCodeUnreadableFile, "invalid UTF-8 sequence")
	}
	return data, nil
}

// replacementChar is U+FFFD as it appears in UTF-8 text.
var replacementChar = []byte("\uFFFD")

// decodeWith wraps an x/text encoding. Those decoders replace invalid input
// with U+FFFD rather than failing, so any U+FFFD in the output beyond those
// literally present in the input counts as a failure.
func decodeWith(enc encoding.Encoding) func([]byte) ([]byte, error) {
	return func(data []byte) ([]byte, error) {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		if bytes.Count(out, replacementChar) > bytes.Count(data, replacementChar) {
			return nil, errors.New(errors.ErrCodeUnreadableFile, "undecodable byte sequence")
		}
		return out, nil
	}
}

var encodings = map[string]Encoding{
	"utf-8":      {Name: "utf-8", decode: decodeUTF8},
	"utf-8-sig":  {Name: "utf-8-sig", decode: decodeUTF8},
	"cp949":      {Name: "cp949", decode: decodeWith(korean.EUCKR)},
	"euc-kr":     {Name: "euc-kr", decode: decodeWith(korean.EUCKR)},
	"latin1":     {Name: "latin1", decode: decodeWith(charmap.ISO8859_1)},
	"iso-8859-1": {Name: "iso-8859-1", decode: decodeWith(charmap.ISO8859_1)},
	"cp1252":     {Name: "cp1252", decode: decodeWith(charmap.Windows1252)},
	"utf-16":     {Name: "utf-16", decode: decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM))},
}

var aliases = map[string]string{
	"utf8":         "utf-8",
	"utf8-sig":     "utf-8-sig",
	"uhc":          "cp949",
	"ms949":        "cp949",
	"euckr":        "euc-kr",
	"latin-1":      "latin1",
	"iso8859-1":    "iso-8859-1",
	"windows-1252": "cp1252",
	"utf16":        "utf-16",
}

func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if canonical, ok := aliases[n]; ok {
		return canonical
	}
	return n
}

// LookupEncoding resolves an encoding name. Names are case-insensitive and
// accept '_' for '-'.
func LookupEncoding(name string) (Encoding, error) {
	enc, ok := encodings[normalizeName(name)]
	if !ok {
		return Encoding{}, errors.New(errors.ErrCodeInvalidInput, "unknown encoding %q (supported: %s)",
			name, strings.Join(SupportedEncodings(), ", "))
	}
	return enc, nil
}

// ValidateEncodings checks that every name in a trial list is known.
func ValidateEncodings(names []string) error {
	for _, n := range names {
		if _, err := LookupEncoding(n); err != nil {
			return err
		}
	}
	return nil
}

// SupportedEncodings returns the canonical encoding names, sorted.
func SupportedEncodings() []string {
	names := make([]string, 0, len(encodings))
	for n := range encodings {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
