// Package adyen parses the CSV reports published by Adyen.
package adyen

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dictReader reads a CSV stream with a header row into maps keyed by column name.
type dictReader struct {
	r      *csv.Reader
	header []string
}

func newDictReader(contents string) (*dictReader, error) {
	r := csv.NewReader(strings.NewReader(contents))
	r.FieldsPerRecord = -1 // Adyen appends trailing columns in newer report versions
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("report has no header row")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	return &dictReader{r: r, header: header}, nil
}

// next returns the next row, or io.EOF.
func (d *dictReader) next() (map[string]string, int, error) {
	rec, err := d.r.Read()
	if err != nil {
		return nil, 0, err
	}
	line, _ := d.r.FieldPos(0)
	row := make(map[string]string, len(d.header))
	for i, name := range d.header {
		if i < len(rec) {
			row[name] = rec[i]
		}
	}
	return row, line, nil
}

func (d *dictReader) requireColumns(cols ...string) error {
	have := make(map[string]bool, len(d.header))
	for _, h := range d.header {
		have[h] = true
	}
	var missing []string
	for _, c := range cols {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("report is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// parseAmount parses a decimal column, treating blanks as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

var bookingDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseBookingDate parses the booking date column. Adyen reports are in the
// timezone given by a separate column; we record dates in UTC like they are sent.
func parseBookingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range bookingDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid booking date %q", s)
}
