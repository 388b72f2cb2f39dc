package snap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
)

const sicColumn = "sic"

// ParseSeries reads the daily concentration table: a date index column and a
// "sic" column. Rows with a blank or NaN value are dropped.
func ParseSeries(r io.Reader) (*domain.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read sic header: %w", err)
	}
	col := columnIndex(header, sicColumn)
	if col < 0 {
		if len(header) != 2 {
			return nil, fmt.Errorf("sic header %v: no %q column", header, sicColumn)
		}
		col = 1
	}

	var samples []domain.Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sic line %d: %w", line, err)
		}
		if len(rec) <= col {
			return nil, fmt.Errorf("sic line %d: want %d fields, got %d", line, col+1, len(rec))
		}

		d, err := domain.ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("sic line %d: %w", line, err)
		}
		cell := strings.TrimSpace(rec[col])
		if isBlank(cell) {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("sic line %d: value %q: %w", line, cell, err)
		}
		samples = append(samples, domain.Sample{Date: d, Value: v})
	}

	series, err := domain.NewSeries(samples)
	if err != nil {
		return nil, fmt.Errorf("build sic series: %w", err)
	}
	return series, nil
}

// ParseEventTable reads a FUBU label table: a year index column (a date or a
// bare year) and one column per metric. Blank and NaN cells are missing, as
// is any cell equal to one of missingTokens.
func ParseEventTable(r io.Reader, missingTokens ...string) (*domain.EventTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read fubu header: %w", err)
	}
	cols := make(map[domain.Metric]int, 4)
	for i, name := range header {
		if m, ok := domain.ParseMetric(strings.TrimSpace(name)); ok {
			cols[m] = i
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("fubu header %v: no metric columns", header)
	}

	seen := make(map[int]bool)
	var rows []domain.EventRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read fubu line %d: %w", line, err)
		}

		year, err := parseYear(rec[0])
		if err != nil {
			return nil, fmt.Errorf("fubu line %d: %w", line, err)
		}
		if seen[year] {
			return nil, fmt.Errorf("fubu line %d: duplicate year %d", line, year)
		}
		seen[year] = true

		row := domain.NewEventRow(year)
		for _, m := range domain.Metrics() {
			i, ok := cols[m]
			if !ok || i >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[i])
			if isBlank(cell) || isToken(cell, missingTokens) {
				continue
			}
			d, err := domain.ParseDate(cell)
			if err != nil {
				return nil, fmt.Errorf("fubu line %d %s: %w", line, m, err)
			}
			row = row.With(m, domain.Present(d))
		}
		rows = append(rows, row)
	}

	return domain.NewEventTable(rows), nil
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 {
		if y, err := strconv.Atoi(s); err == nil {
			return y, nil
		}
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return 0, fmt.Errorf("year index %q: %w", s, err)
	}
	return d.Year, nil
}

func isBlank(cell string) bool {
	return cell == "" || strings.EqualFold(cell, "nan")
}

func isToken(cell string, tokens []string) bool {
	for _, t := range tokens {
		if cell == t {
			return true
		}
	}
	return false
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
