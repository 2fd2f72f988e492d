package kural

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"kuralhub/pkg/models"
)

// Repo is the sqlite mirror of the kural dataset.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// UpsertAll writes kurals keyed by number in a single transaction.
// Rows without a number or text are skipped; the count written is returned.
func (r *Repo) UpsertAll(ctx context.Context, kurals []models.Kural) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO kurals (number, paal_ta, iyal_ta, adigaaram_ta, kural_ta, kural_en, en_meaning, paapaya)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
		  paal_ta = excluded.paal_ta,
		  iyal_ta = excluded.iyal_ta,
		  adigaaram_ta = excluded.adigaaram_ta,
		  kural_ta = excluded.kural_ta,
		  kural_en = excluded.kural_en,
		  en_meaning = excluded.en_meaning,
		  paapaya = excluded.paapaya
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, k := range kurals {
		if k.Number == "" || k.Text == "" {
			continue
		}
		n, err := strconv.ParseInt(k.Number, 10, 64)
		if err != nil {
			return written, fmt.Errorf("parse number %q: %w", k.Number, err)
		}
		if _, err := stmt.ExecContext(
			ctx,
			n,
			nullString(k.Division),
			nullString(k.Section),
			nullString(k.Chapter),
			k.Text,
			nullString(k.TextEn),
			nullString(k.MeaningEn),
			nullString(k.GlossTa),
		); err != nil {
			return written, fmt.Errorf("upsert %s: %w", k.Number, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}

// All returns every kural ordered by number.
func (r *Repo) All(ctx context.Context) ([]models.Kural, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT number, paal_ta, iyal_ta, adigaaram_ta, kural_ta, kural_en, en_meaning, paapaya
		FROM kurals
		ORDER BY number
	`)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var out []models.Kural
	for rows.Next() {
		var (
			k                          models.Kural
			number                     int64
			division, section, chapter sql.NullString
			textEn, meaningEn, glossTa sql.NullString
		)
		if err := rows.Scan(&number, &division, &section, &chapter, &k.Text, &textEn, &meaningEn, &glossTa); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		k.Number = strconv.FormatInt(number, 10)
		k.Division = division.String
		k.Section = section.String
		k.Chapter = chapter.String
		k.TextEn = textEn.String
		k.MeaningEn = meaningEn.String
		k.GlossTa = glossTa.String
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM kurals`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
