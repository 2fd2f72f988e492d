package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"kuralhub/pkg/models"
)

// Column names of the kural CSV.
const (
	ColNumber    = "no"
	ColDivision  = "paal_ta"
	ColSection   = "iyal_ta"
	ColChapter   = "adigaaram_ta"
	ColText      = "kural_ta"
	ColTextEn    = "kural_en"
	ColMeaningEn = "en_meaning"
	ColGlossTa   = "paapaya"
)

// Columns is the canonical column order used when writing CSV.
var Columns = []string{ColNumber, ColDivision, ColSection, ColChapter, ColText, ColTextEn, ColMeaningEn, ColGlossTa}

var ErrNoHeader = errors.New("dataset: missing header row")

// ParseCSV reads a header-keyed kural CSV. Blank records are skipped;
// missing columns yield empty fields.
func ParseCSV(r io.Reader) ([]models.Kural, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	var out []models.Kural
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blank(row) {
			continue
		}

		out = append(out, models.Kural{
			Number:    valueAt(header, row, ColNumber),
			Division:  valueAt(header, row, ColDivision),
			Section:   valueAt(header, row, ColSection),
			Chapter:   valueAt(header, row, ColChapter),
			Text:      valueAt(header, row, ColText),
			TextEn:    valueAt(header, row, ColTextEn),
			MeaningEn: valueAt(header, row, ColMeaningEn),
			GlossTa:   valueAt(header, row, ColGlossTa),
		})
	}
	return out, nil
}

// WriteCSV writes kurals with the canonical header.
func WriteCSV(w io.Writer, kurals []models.Kural) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, k := range kurals {
		if err := cw.Write([]string{
			k.Number, k.Division, k.Section, k.Chapter, k.Text, k.TextEn, k.MeaningEn, k.GlossTa,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		name = strings.TrimPrefix(name, "\ufeff")
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return Clean(row[idx])
}

// Clean trims a field and normalizes it to NFC so that Tamil text typed
// with decomposed vowel signs still matches.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
