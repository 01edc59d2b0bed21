package table

import "strings"

// DefaultKeyKeywords are the column-name fragments that suggest a key column,
// highest priority first.
var DefaultKeyKeywords = []string{
	"동네", "지역", "시군구", "시군", "구분", "읍", "면", "동", "구", "시",
	"region", "country", "area", "district", "city", "name",
}

// Match strengths, strongest last.
const (
	matchNone = iota
	matchContains
	matchPrefix
	matchExact
)

// ScoreColumn scores a column name against keywords. Exact matches beat
// prefix matches, which beat substring matches; within one strength an
// earlier keyword beats a later one. Zero means no keyword matched.
func ScoreColumn(name string, keywords []string) int {
	n := strings.ToLower(strings.TrimSpace(name))
	best := 0
	for i, kw := range keywords {
		k := strings.ToLower(kw)
		if k == "" {
			continue
		}
		strength := matchNone
		switch {
		case n == k:
			strength = matchExact
		case strings.HasPrefix(n, k):
			strength = matchPrefix
		case strings.Contains(n, k):
			strength = matchContains
		}
		if strength == matchNone {
			continue
		}
		score := strength*(len(keywords)+1) + (len(keywords) - i)
		if score > best {
			best = score
		}
	}
	return best
}

// DetectKeyColumn returns the best-scoring column among columns. Ties go to
// the earlier column. It returns false when nothing matches.
func DetectKeyColumn(columns, keywords []string) (string, bool) {
	bestName, bestScore := "", 0
	for _, c := range columns {
		if s := ScoreColumn(c, keywords); s > bestScore {
			bestName, bestScore = c, s
		}
	}
	return bestName, bestScore > 0
}

// DetectKeyColumn picks the key column among the table's categorical columns.
func (t *Table) DetectKeyColumn(keywords []string) (string, bool) {
	return DetectKeyColumn(t.CategoricalColumns(), keywords)
}
