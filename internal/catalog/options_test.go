package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuralhub/pkg/models"
)

func taxonomy() Hierarchy {
	return BuildHierarchy([]models.Kural{
		{Division: "D1", Section: "S1", Chapter: "C1"},
		{Division: "D1", Section: "S1", Chapter: "C2"},
		{Division: "D1", Section: "S2", Chapter: "C3"},
		{Division: "D2", Section: "S3", Chapter: "C4"},
		{Division: "D2", Section: "S1", Chapter: "C1"},
	})
}

func TestOptionsFor(t *testing.T) {
	h := taxonomy()
	tests := []struct {
		name     string
		level    Level
		division string
		section  string
		want     []string
	}{
		{"all divisions", LevelDivision, "", "", []string{"D1", "D2"}},
		{"divisions ignore selections", LevelDivision, "D2", "S3", []string{"D1", "D2"}},
		{"all sections deduplicated", LevelSection, "", "", []string{"S1", "S2", "S3"}},
		{"sections of division", LevelSection, "D2", "", []string{"S3", "S1"}},
		{"all chapters", LevelChapter, "", "", []string{"C1", "C2", "C3", "C4"}},
		{"chapters of division", LevelChapter, "D1", "", []string{"C1", "C2", "C3"}},
		{"chapters of section", LevelChapter, "D1", "S2", []string{"C3"}},
		{"unknown division", LevelSection, "D9", "", []string{}},
		{"unknown level", Level("verse"), "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.OptionsFor(tt.level, tt.division, tt.section)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionsDoNotAliasIndex(t *testing.T) {
	h := taxonomy()
	got := h.OptionsFor(LevelSection, "D1", "")
	got[0] = "mutated"
	assert.Equal(t, "S1", h.DivisionSections["D1"][0])
}

func TestOptionsWidenWhenCleared(t *testing.T) {
	h := taxonomy()
	narrow := h.Options(Filter{Division: "D1", Section: "S1"})
	assert.Equal(t, []string{"C1", "C2"}, narrow.Chapters)

	wide := h.Options(Filter{})
	assert.Equal(t, []string{"C1", "C2", "C3", "C4"}, wide.Chapters)
	assert.Equal(t, []string{"S1", "S2", "S3"}, wide.Sections)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" Section ")
	require.NoError(t, err)
	assert.Equal(t, LevelSection, l)

	_, err = ParseLevel("verse")
	assert.Error(t, err)
}
