// Package proportion turns a table into per-group proportions and ranks one
// group's proportions into a colored, plotting-ready series.
//
// # Grouping and normalization
//
// [Compute] partitions rows by a key column (keys keep their first-seen
// order), sums each value column within a partition, and divides every sum by
// the partition's total. A partition whose total is zero yields zeros rather
// than failing, so every group's proportions sum to either 1 or 0.
//
// # Ranking and color assignment
//
// [Rank] sorts entries by proportion, largest first, with a stable tie-break.
// Colors depend only on rank:
//
//	rank 0      palette.Highlight
//	rank i >= 1 palette.Secondary at opacity max(0.12, 1 - 0.12*i)
//
// so rank 1 is drawn at 0.88 and every rank from 8 on shares the 0.12 floor.
//
// Both operations are pure and are meant to be re-run on every selection
// change; nothing here caches.
package proportion
