package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuralhub/pkg/models"
)

var (
	row1 = models.Kural{Number: "1", Division: "A", Section: "X", Chapter: "C1", Text: "love is good"}
	row2 = models.Kural{Number: "2", Division: "A", Section: "X", Chapter: "C1", Text: "wealth grows"}
	row3 = models.Kural{Number: "3", Division: "B", Section: "Y", Chapter: "C2", Text: "love conquers"}
)

func sampleRows() []models.Kural {
	return []models.Kural{row1, row2, row3}
}

func TestGroupByChapterOneGroupPerChapter(t *testing.T) {
	rows := []models.Kural{
		{Number: "1", Chapter: "C1", Text: "a"},
		{Number: "2", Chapter: "C2", Text: "b"},
		{Number: "3", Chapter: "C1", Text: "c"},
		{Number: "4", Chapter: " C2 ", Text: "d"},
		{Number: "5", Chapter: "", Text: "no chapter"},
		{Number: "6", Chapter: "C3", Text: ""},
	}
	groups := GroupByChapter(rows)

	require.Len(t, groups, 2)
	assert.Equal(t, "C1", groups[0].Chapter)
	assert.Len(t, groups[0].Kurals, 2)
	assert.Equal(t, "C2", groups[1].Chapter)
	assert.Len(t, groups[1].Kurals, 2)
	assert.Equal(t, "4", groups[1].Kurals[1].Number)
}

func TestGroupByChapterEmpty(t *testing.T) {
	groups := GroupByChapter(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)

	assert.Empty(t, ApplyFilters(nil, Filter{}))
	assert.Empty(t, ApplyFilters(nil, Filter{Query: "anything", Division: "A"}))
}

func TestBuildHierarchy(t *testing.T) {
	rows := []models.Kural{
		{Division: "D2", Section: "S3", Chapter: "C5"},
		{Division: "D1", Section: "S1", Chapter: "C1"},
		{Division: "D1", Section: "S1", Chapter: "C2"},
		{Division: "D1", Section: "S2", Chapter: "C3"},
		{Division: "D1", Section: "S1", Chapter: "C1"},
		{Division: "D3"},
		{Division: "D1", Section: "S4"},
		{Division: "", Section: "orphan", Chapter: "orphan-ch"},
		{Division: " D2 ", Section: "S3 ", Chapter: " C6"},
	}
	h := BuildHierarchy(rows)

	assert.Equal(t, []string{"D2", "D1", "D3"}, h.Divisions)
	assert.Equal(t, []string{"S3", "S1", "S2", "S4"}, h.Sections)
	want := map[string][]string{
		"D2": {"S3"},
		"D1": {"S1", "S2", "S4"},
		"D3": {},
	}
	if diff := cmp.Diff(want, h.DivisionSections); diff != "" {
		t.Errorf("division sections mismatch (-want +got):\n%s", diff)
	}
	wantCh := map[string][]string{
		"S3": {"C5", "C6"},
		"S1": {"C1", "C2"},
		"S2": {"C3"},
		"S4": {},
	}
	if diff := cmp.Diff(wantCh, h.SectionChapters); diff != "" {
		t.Errorf("section chapters mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFiltersSearchExample(t *testing.T) {
	got := ApplyFilters(sampleRows(), Filter{Query: "love"})
	want := []models.ChapterGroup{
		{Chapter: "C1", Kurals: []models.Kural{row1}},
		{Chapter: "C2", Kurals: []models.Kural{row3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ApplyFilters mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFiltersDivisionExampleKeepsGlobalOptions(t *testing.T) {
	rows := sampleRows()
	got := ApplyFilters(rows, Filter{Division: "B"})
	want := []models.ChapterGroup{{Chapter: "C2", Kurals: []models.Kural{row3}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ApplyFilters mismatch (-want +got):\n%s", diff)
	}

	h := BuildHierarchy(rows)
	assert.Equal(t, []string{"X", "Y"}, h.OptionsFor(LevelSection, "", ""))
}

func TestApplyFiltersFilterThenClear(t *testing.T) {
	rows := sampleRows()
	full := ApplyFilters(rows, Filter{})
	narrowed := ApplyFilters(rows, Filter{Division: "A"})
	require.Len(t, narrowed, 1)

	cleared := ApplyFilters(rows, Filter{})
	if diff := cmp.Diff(full, cleared); diff != "" {
		t.Errorf("clear did not restore full grouping (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(GroupByChapter(rows), full); diff != "" {
		t.Errorf("unfiltered differs from plain grouping (-want +got):\n%s", diff)
	}
}

func TestApplyFiltersCaseInsensitiveQuery(t *testing.T) {
	rows := []models.Kural{
		{Number: "1", Chapter: "C1", Text: "anbu", TextEn: "Love"},
		{Number: "2", Chapter: "C1", Text: "x", MeaningEn: "ANBU is love"},
		{Number: "3", Chapter: "C2", Text: "y"},
	}
	upper := ApplyFilters(rows, Filter{Query: "ANBU"})
	lower := ApplyFilters(rows, Filter{Query: "anbu"})
	if diff := cmp.Diff(upper, lower); diff != "" {
		t.Errorf("case changed result (-upper +lower):\n%s", diff)
	}
	k, c := Counts(lower)
	assert.Equal(t, 2, k)
	assert.Equal(t, 1, c)
}

func TestApplyFiltersChapterLabelMatchKeepsWholeGroup(t *testing.T) {
	rows := []models.Kural{
		{Number: "1", Chapter: "Friendship", Text: "one"},
		{Number: "2", Chapter: "Friendship", Text: "two"},
		{Number: "3", Chapter: "Wealth", Text: "a friend in need"},
		{Number: "4", Chapter: "Wealth", Text: "gold"},
	}
	got := ApplyFilters(rows, Filter{Query: "friend"})
	require.Len(t, got, 2)
	assert.Len(t, got[0].Kurals, 2, "label match keeps every row")
	assert.Equal(t, []models.Kural{rows[2]}, got[1].Kurals)
}

func TestApplyFiltersSearchFields(t *testing.T) {
	rows := []models.Kural{
		{Number: "101", Chapter: "C", Text: "t1"},
		{Number: "2", Chapter: "C", Text: "t2", TextEn: "translation hit"},
		{Number: "3", Chapter: "C", Text: "t3", MeaningEn: "meaning hit"},
		{Number: "4", Chapter: "C", Text: "t4", GlossTa: "gloss hit"},
	}
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"number substring", "10", []string{"101"}},
		{"translation", "translation", []string{"2"}},
		{"meaning", "MEANING", []string{"3"}},
		{"tamil gloss is not searched", "gloss", nil},
		{"shared suffix", "hit", []string{"2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, g := range ApplyFilters(rows, Filter{Query: tt.query}) {
				for _, k := range g.Kurals {
					got = append(got, k.Number)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyFiltersLabelsAreExact(t *testing.T) {
	rows := sampleRows()
	assert.Empty(t, ApplyFilters(rows, Filter{Division: "a"}))
	assert.Empty(t, ApplyFilters(rows, Filter{Section: "X", Chapter: "C2"}))

	got := ApplyFilters(rows, Filter{Division: "A", Section: "X", Chapter: "C1", Query: "wealth"})
	require.Len(t, got, 1)
	assert.Equal(t, []models.Kural{row2}, got[0].Kurals)
}

func TestApplyFiltersOrderFollowsFilteredSubset(t *testing.T) {
	rows := []models.Kural{
		{Number: "1", Division: "A", Chapter: "C1", Text: "x"},
		{Number: "2", Division: "B", Chapter: "C2", Text: "x"},
		{Number: "3", Division: "B", Chapter: "C1", Text: "x"},
	}
	got := ApplyFilters(rows, Filter{Division: "B"})
	require.Len(t, got, 2)
	assert.Equal(t, "C2", got[0].Chapter)
	assert.Equal(t, "C1", got[1].Chapter)
}

func TestFilterActive(t *testing.T) {
	assert.False(t, Filter{}.Active())
	assert.True(t, Filter{Query: "x"}.Active())
	assert.True(t, Filter{Chapter: "C"}.Active())
}

func TestStats(t *testing.T) {
	rows := append(sampleRows(), models.Kural{Number: "9"})
	s := Stats(rows, GroupByChapter(rows))
	assert.Equal(t, models.Stats{TotalKurals: 4, TotalChapters: 2}, s)
}
