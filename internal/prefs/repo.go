// Package prefs persists per-visitor display preferences.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"kuralhub/pkg/models"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

var ErrInvalidTheme = errors.New("theme must be one of: dark, light")

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func NormalizeTheme(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	default:
		return ""
	}
}

// Get returns the stored preference, or nil when the visitor has none.
func (r *Repo) Get(ctx context.Context, visitorID string) (*models.Preference, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT visitor_id, theme, updated_at
		FROM preferences
		WHERE visitor_id = ?
	`, visitorID)

	var p models.Preference
	if err := row.Scan(&p.VisitorID, &p.Theme, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan preference: %w", err)
	}
	return &p, nil
}

func (r *Repo) SetTheme(ctx context.Context, visitorID, theme string) error {
	theme = NormalizeTheme(theme)
	if theme == "" {
		return ErrInvalidTheme
	}
	if strings.TrimSpace(visitorID) == "" {
		return fmt.Errorf("visitor id required")
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, theme, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(visitor_id) DO UPDATE SET
			theme = excluded.theme,
			updated_at = excluded.updated_at
	`, visitorID, theme, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// ResolveTheme picks the saved theme, then the client's color-scheme hint.
// An empty result leaves the choice to the stylesheet's media query.
func ResolveTheme(saved, clientHint string) string {
	if t := NormalizeTheme(saved); t != "" {
		return t
	}
	return NormalizeTheme(clientHint)
}
