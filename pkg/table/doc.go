// Package table holds the in-memory tabular model shared by every rampboard
// component.
//
// A [Table] is read once from an external source and kept as raw cell text.
// Before any computation, [Table.Validate] checks it against a [Schema] (one
// key column plus N value columns) and produces a [Typed] table in which
// every value cell is either a number or explicitly missing. Downstream code
// never re-inspects raw strings.
//
// Cells that do not parse as numbers are not errors: they are recorded as
// missing and contribute nothing to sums.
//
// [Table.Summarize] and [DetectKeyColumn] support the user-facing surfaces:
// the former reports row/column counts, missing values and inferred kinds,
// the latter picks a likely key column from a configurable keyword list and
// reports when it cannot.
package table
