package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"kuralhub/pkg/models"
)

// Filter is the active browse state. Empty fields are unset.
type Filter struct {
	Query    string `json:"q,omitempty"`
	Division string `json:"division,omitempty"`
	Section  string `json:"section,omitempty"`
	Chapter  string `json:"chapter,omitempty"`
}

// Active reports whether any constraint is set.
func (f Filter) Active() bool {
	return f.Query != "" || f.Division != "" || f.Section != "" || f.Chapter != ""
}

// Fold case-folds s for case-insensitive matching.
// A Caser is stateful, so one is built per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ApplyFilters narrows rows by division, section and chapter (exact,
// case-sensitive label matches), groups what remains by chapter and then
// applies the free-text query. A chapter whose label matches the query is
// kept whole; otherwise only its matching rows survive.
func ApplyFilters(rows []models.Kural, f Filter) []models.ChapterGroup {
	filtered := rows
	if d := strings.TrimSpace(f.Division); d != "" {
		filtered = keep(filtered, func(r models.Kural) bool { return strings.TrimSpace(r.Division) == d })
	}
	if s := strings.TrimSpace(f.Section); s != "" && len(filtered) > 0 {
		filtered = keep(filtered, func(r models.Kural) bool { return strings.TrimSpace(r.Section) == s })
	}
	if c := strings.TrimSpace(f.Chapter); c != "" && len(filtered) > 0 {
		filtered = keep(filtered, func(r models.Kural) bool { return strings.TrimSpace(r.Chapter) == c })
	}

	groups := GroupByChapter(filtered)

	q := Fold(strings.TrimSpace(f.Query))
	if q == "" || len(groups) == 0 {
		return groups
	}

	out := make([]models.ChapterGroup, 0, len(groups))
	for _, g := range groups {
		if strings.Contains(Fold(g.Chapter), q) {
			out = append(out, g)
			continue
		}
		var matched []models.Kural
		for _, k := range g.Kurals {
			if rowMatches(k, q) {
				matched = append(matched, k)
			}
		}
		if len(matched) > 0 {
			out = append(out, models.ChapterGroup{Chapter: g.Chapter, Kurals: matched})
		}
	}
	return out
}

// rowMatches checks the searchable fields against an already folded query.
// The Tamil gloss is displayed but not searched.
func rowMatches(k models.Kural, q string) bool {
	return strings.Contains(Fold(k.Text), q) ||
		strings.Contains(Fold(k.MeaningEn), q) ||
		strings.Contains(Fold(k.TextEn), q) ||
		strings.Contains(k.Number, q)
}

// Counts returns the number of kurals and chapters in groups.
func Counts(groups []models.ChapterGroup) (kurals, chapters int) {
	for _, g := range groups {
		kurals += len(g.Kurals)
	}
	return kurals, len(groups)
}

func keep(rows []models.Kural, pred func(models.Kural) bool) []models.Kural {
	out := make([]models.Kural, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
