package catalog

import (
	"fmt"
	"strings"
)

type Level string

const (
	LevelDivision Level = "division"
	LevelSection  Level = "section"
	LevelChapter  Level = "chapter"
)

func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelDivision, LevelSection, LevelChapter:
		return l, nil
	default:
		return "", fmt.Errorf("unknown level %q", s)
	}
}

// Options are the dropdown choices for a filter state.
type Options struct {
	Divisions []string `json:"divisions"`
	Sections  []string `json:"sections"`
	Chapters  []string `json:"chapters"`
}

// OptionsFor lists the choices at level given the parent selections.
// Choices always come from the full taxonomy, never from a filtered result.
func (h Hierarchy) OptionsFor(level Level, division, section string) []string {
	switch level {
	case LevelDivision:
		return append([]string{}, h.Divisions...)
	case LevelSection:
		return h.sectionsFor(division)
	case LevelChapter:
		return h.chaptersFor(division, section)
	default:
		return nil
	}
}

// Options lists every level for f.
func (h Hierarchy) Options(f Filter) Options {
	return Options{
		Divisions: h.OptionsFor(LevelDivision, f.Division, f.Section),
		Sections:  h.OptionsFor(LevelSection, f.Division, f.Section),
		Chapters:  h.OptionsFor(LevelChapter, f.Division, f.Section),
	}
}

func (h Hierarchy) sectionsFor(division string) []string {
	if division != "" {
		return append([]string{}, h.DivisionSections[division]...)
	}
	set := newOrderedSet()
	for _, d := range h.Divisions {
		for _, s := range h.DivisionSections[d] {
			set.add(s)
		}
	}
	return set.values()
}

func (h Hierarchy) chaptersFor(division, section string) []string {
	if section != "" {
		return append([]string{}, h.SectionChapters[section]...)
	}
	set := newOrderedSet()
	for _, s := range h.sectionsFor(division) {
		for _, c := range h.SectionChapters[s] {
			set.add(c)
		}
	}
	return set.values()
}
