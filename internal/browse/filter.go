package browse

import (
	"strings"

	"kuralhub/internal/catalog"
)

// The transitions below keep the cascade invariant: a new division clears
// section and chapter, a new section clears chapter.

func WithQuery(f catalog.Filter, raw string) catalog.Filter {
	f.Query = catalog.Fold(strings.TrimSpace(raw))
	return f
}

func SelectDivision(f catalog.Filter, division string) catalog.Filter {
	f.Division = strings.TrimSpace(division)
	f.Section = ""
	f.Chapter = ""
	return f
}

func SelectSection(f catalog.Filter, section string) catalog.Filter {
	f.Section = strings.TrimSpace(section)
	f.Chapter = ""
	return f
}

func SelectChapter(f catalog.Filter, chapter string) catalog.Filter {
	f.Chapter = strings.TrimSpace(chapter)
	return f
}

// Clear resets every field, including the query.
func Clear(catalog.Filter) catalog.Filter {
	return catalog.Filter{}
}

// FromParams builds a filter from request parameters, applying the
// transitions in cascade order so that stale children are dropped when
// they do not belong to the selected parent.
func FromParams(h catalog.Hierarchy, q, division, section, chapter string) catalog.Filter {
	f := WithQuery(catalog.Filter{}, q)
	if division = strings.TrimSpace(division); division != "" {
		f = SelectDivision(f, division)
	}
	if section = strings.TrimSpace(section); section != "" && allowed(h.OptionsFor(catalog.LevelSection, f.Division, ""), section) {
		f = SelectSection(f, section)
	}
	if chapter = strings.TrimSpace(chapter); chapter != "" && allowed(h.OptionsFor(catalog.LevelChapter, f.Division, f.Section), chapter) {
		f = SelectChapter(f, chapter)
	}
	return f
}

func allowed(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
