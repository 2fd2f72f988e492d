package live

import "kuralhub/internal/catalog"

// Client event types.
const (
	EventSearch      = "search"
	EventClearSearch = "clear_search"
	EventDivision    = "division"
	EventSection     = "section"
	EventChapter     = "chapter"
	EventClear       = "clear"
)

// Event is sent by the browser on every keystroke or dropdown change.
type Event struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// ResultsMessage carries a re-rendered accordion back to the browser.
type ResultsMessage struct {
	Type     string          `json:"type"` // "results"
	HTML     string          `json:"html"`
	Kurals   int             `json:"kurals"`
	Chapters int             `json:"chapters"`
	Options  catalog.Options `json:"options"`
	Filter   catalog.Filter  `json:"filter"`
}

// ErrorMessage is sent instead of results while the dataset is loading or
// after it failed to load; Status tells the two apart.
type ErrorMessage struct {
	Type   string `json:"type"` // "error"
	Error  string `json:"error"`
	Status string `json:"status"`
}
