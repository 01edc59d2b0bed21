// Package io reads tables from CSV files in unknown encodings and writes
// computed proportions back out as CSV.
//
// # Reading
//
// Uploaded spreadsheets often come from Korean office software and are saved
// as CP949 rather than UTF-8. [ReadTable] therefore tries a list of encodings
// in order and keeps the first one under which the bytes decode cleanly and
// parse as CSV:
//
//	t, enc, err := io.ReadTable(f, []string{"utf-8", "cp949", "euc-kr", "latin1"})
//
// Decoding is strict: a byte sequence that an encoding cannot represent makes
// that encoding fail, so the loop moves on instead of accepting mojibake.
// Because Latin-1 maps every byte, it belongs last in the list. Supported
// names are listed by [SupportedEncodings].
//
// Header cells are trimmed. Blank headers become "Unnamed: i" and repeated
// names gain ".1", ".2" suffixes.
//
// # Writing
//
// [WriteGrouped] emits one row per key value:
//
//	region,q1,q2
//	A,0.3,0.7
//	B,0,0
//
// The output starts with a UTF-8 byte order mark and round-trips through
// [ReadGrouped] without loss.
package io
