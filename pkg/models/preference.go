package models

import "time"

type Preference struct {
	VisitorID string    `json:"visitor_id"`
	Theme     string    `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}
