// Package ingest parses projection files into player records
package ingest

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

//go:embed sample.csv
var sampleCSV []byte

// SampleSource names the bundled projections
const SampleSource = "sample.csv"

const (
	colName = "Name"
	colTeam = "Team"
	colPos  = "Pos"
	colADP  = "ADP"
	colGP   = "GP"
)

// decimal is a plain base-10 number, optionally with an exponent. Hex floats,
// NaN and Inf spellings are rejected.
var decimal = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// ParseError describes one cell or row that could not be read. Row is the
// 1-based line in the file, so the header is row 1.
type ParseError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, column %s: %s (%q)", e.Row, e.Column, e.Message, e.Value)
}

// ParseErrors is every problem found in one file
type ParseErrors []ParseError

func (e ParseErrors) Error() string {
	if len(e) == 0 {
		return "no parse errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e[0].Error(), len(e)-1)
}

// ParseProjections reads a projections CSV with a header row. Empty cells are
// missing values and unknown columns are ignored. Parsing is all or nothing:
// when any error is found no records are returned.
func ParseProjections(r io.Reader) ([]models.PlayerRecord, ParseErrors) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.PlayerRecord{}, ParseErrors{{Row: 1, Message: "missing header row"}}
		}
		return []models.PlayerRecord{}, ParseErrors{csvError(err, 1)}
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := columns[h]; !seen {
			columns[h] = i
		}
	}
	if _, ok := columns[colName]; !ok {
		return []models.PlayerRecord{}, ParseErrors{{Row: 1, Column: colName, Message: "required column missing"}}
	}

	records := []models.PlayerRecord{}
	seen := make(map[string]int)
	var errs ParseErrors
	row := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, csvError(err, row+1))
			continue
		}
		row, _ = reader.FieldPos(0)
		if blank(fields) {
			continue
		}

		cell := func(col string) string {
			i, ok := columns[col]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}
		number := func(col string) *float64 {
			raw := cell(col)
			if raw == "" {
				return nil
			}
			v, ok := parseNumber(raw)
			if !ok {
				errs = append(errs, ParseError{Row: row, Column: col, Value: raw, Message: "not a number"})
				return nil
			}
			return &v
		}

		rec := models.PlayerRecord{
			Name:                 cell(colName),
			Team:                 cell(colTeam),
			Position:             cell(colPos),
			AverageDraftPosition: number(colADP),
			GamesPlayed:          number(colGP),
			Stats:                make(models.StatLine, len(models.Categories)),
		}
		for _, c := range models.Categories {
			rec.Stats[c] = number(c.Acronym())
		}
		if first, dup := seen[rec.Key()]; dup {
			errs = append(errs, ParseError{
				Row:     row,
				Column:  colName,
				Value:   rec.Name,
				Message: fmt.Sprintf("duplicate player, same name, team and position as row %d", first),
			})
			continue
		}
		seen[rec.Key()] = row
		records = append(records, rec)
	}

	if len(errs) > 0 {
		return []models.PlayerRecord{}, errs
	}
	return records, nil
}

// Load parses r into a dataset tagged with its source
func Load(source string, r io.Reader) (*models.Dataset, error) {
	records, errs := ParseProjections(r)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to parse %s: %w", source, errs)
	}
	return &models.Dataset{
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Records:  records,
	}, nil
}

// SampleDataset returns the bundled projections
func SampleDataset() (*models.Dataset, error) {
	return Load(SampleSource, bytes.NewReader(sampleCSV))
}

func parseNumber(raw string) (float64, bool) {
	if !decimal.MatchString(raw) {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func csvError(err error, row int) ParseError {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return ParseError{Row: pe.Line, Message: pe.Err.Error()}
	}
	return ParseError{Row: row, Message: err.Error()}
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
