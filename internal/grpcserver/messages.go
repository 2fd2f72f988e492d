package grpcserver

import (
	"time"

	"kuralhub/internal/catalog"
	"kuralhub/pkg/models"
)

type FilterRequest struct {
	Query    string `json:"q,omitempty"`
	Division string `json:"division,omitempty"`
	Section  string `json:"section,omitempty"`
	Chapter  string `json:"chapter,omitempty"`
}

type FilterResponse struct {
	Filter   catalog.Filter        `json:"filter"`
	Kurals   int                   `json:"kurals"`
	Chapters int                   `json:"chapters"`
	Groups   []models.ChapterGroup `json:"groups"`
	Options  catalog.Options       `json:"options"`
}

// OptionsRequest asks for one dropdown level, or all of them when Level is empty.
type OptionsRequest struct {
	Level    string `json:"level,omitempty"`
	Division string `json:"division,omitempty"`
	Section  string `json:"section,omitempty"`
}

type OptionsResponse struct {
	Level   string           `json:"level,omitempty"`
	Values  []string         `json:"values,omitempty"`
	Options *catalog.Options `json:"options,omitempty"`
}

type StatsRequest struct{}

type StatsResponse struct {
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	TotalKurals   int       `json:"total_kurals"`
	TotalChapters int       `json:"total_chapters"`
	LoadedAt      time.Time `json:"loaded_at"`
}
