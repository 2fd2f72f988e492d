package models

// Kural is one couplet record as loaded from the dataset.
// Values are trimmed on load and never mutated afterwards.
type Kural struct {
	Number    string `json:"no"`
	Division  string `json:"paal_ta,omitempty"`      // paal
	Section   string `json:"iyal_ta,omitempty"`      // iyal
	Chapter   string `json:"adigaaram_ta,omitempty"` // adhigaram
	Text      string `json:"kural_ta"`
	TextEn    string `json:"kural_en,omitempty"`
	MeaningEn string `json:"en_meaning,omitempty"`
	GlossTa   string `json:"paapaya,omitempty"`
}

// ChapterGroup pairs a chapter label with its kurals in first-seen order.
type ChapterGroup struct {
	Chapter string  `json:"chapter"`
	Kurals  []Kural `json:"kurals"`
}

// Stats summarises the unfiltered dataset.
type Stats struct {
	TotalKurals   int `json:"total_kurals"`
	TotalChapters int `json:"total_chapters"`
}
