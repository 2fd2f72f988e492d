// Package catalog indexes the kural dataset by division, section and
// chapter and derives filtered chapter groupings from it.
package catalog

import (
	"strings"

	"kuralhub/pkg/models"
)

// Hierarchy is the division → section → chapter taxonomy observed in the
// full dataset. Every list keeps first-seen order.
type Hierarchy struct {
	Divisions        []string            `json:"divisions"`
	Sections         []string            `json:"sections"`
	DivisionSections map[string][]string `json:"division_sections"`
	SectionChapters  map[string][]string `json:"section_chapters"`
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// BuildHierarchy indexes rows in a single pass. A row contributes only the
// levels it has values for: sections are recorded under a non-empty
// division, chapters under a non-empty section. Rows without a division
// are uncategorized and contribute nothing.
func BuildHierarchy(rows []models.Kural) Hierarchy {
	divisions := newOrderedSet()
	sections := newOrderedSet()
	divSections := make(map[string]*orderedSet)
	secChapters := make(map[string]*orderedSet)

	for _, row := range rows {
		division := strings.TrimSpace(row.Division)
		section := strings.TrimSpace(row.Section)
		chapter := strings.TrimSpace(row.Chapter)

		if division == "" {
			continue
		}
		divisions.add(division)
		if divSections[division] == nil {
			divSections[division] = newOrderedSet()
		}
		if section == "" {
			continue
		}
		divSections[division].add(section)
		sections.add(section)
		if secChapters[section] == nil {
			secChapters[section] = newOrderedSet()
		}
		if chapter != "" {
			secChapters[section].add(chapter)
		}
	}

	h := Hierarchy{
		Divisions:        divisions.values(),
		Sections:         sections.values(),
		DivisionSections: make(map[string][]string, len(divSections)),
		SectionChapters:  make(map[string][]string, len(secChapters)),
	}
	for k, v := range divSections {
		h.DivisionSections[k] = v.values()
	}
	for k, v := range secChapters {
		h.SectionChapters[k] = v.values()
	}
	return h
}

// GroupByChapter groups rows by chapter in first-seen order. Rows missing
// a chapter or text are not displayable and are left out.
func GroupByChapter(rows []models.Kural) []models.ChapterGroup {
	groups := make([]models.ChapterGroup, 0)
	index := make(map[string]int)

	for _, row := range rows {
		chapter := strings.TrimSpace(row.Chapter)
		if chapter == "" || strings.TrimSpace(row.Text) == "" {
			continue
		}
		i, ok := index[chapter]
		if !ok {
			i = len(groups)
			index[chapter] = i
			groups = append(groups, models.ChapterGroup{Chapter: chapter})
		}
		groups[i].Kurals = append(groups[i].Kurals, row)
	}
	return groups
}

// Stats counts loaded rows and the chapters of the unfiltered grouping.
func Stats(rows []models.Kural, groups []models.ChapterGroup) models.Stats {
	return models.Stats{TotalKurals: len(rows), TotalChapters: len(groups)}
}
