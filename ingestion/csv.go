package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/poiesic/logseer/core"
)

// timestampLayouts are tried in order against the timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseStats reports row accounting for one parse pass.
type ParseStats struct {
	// Accepted is the number of rows converted into records.
	Accepted int

	// Skipped is the number of rows dropped for missing messages.
	Skipped int
}

// ParseCSV reads log records from CSV data. The first row is a header;
// column mapping is case-insensitive over timestamp, level, message and
// source. Rows without a message are skipped and counted, never fatal;
// only reader-level failures abort the parse.
func ParseCSV(r io.Reader) ([]core.LogRecord, ParseStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []core.LogRecord{}, ParseStats{}, nil
	}
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			// Spreadsheet exports often lead with a byte order mark
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	records := []core.LogRecord{}
	stats := ParseStats{}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ParseStats{}, fmt.Errorf("read csv row: %w", err)
		}

		message := scrubText(field(row, columns, "message"))
		if strings.TrimSpace(message) == "" {
			stats.Skipped++
			continue
		}

		records = append(records, core.LogRecord{
			Timestamp: parseTimestamp(field(row, columns, "timestamp")),
			Level:     core.NormalizeLevel(field(row, columns, "level")),
			Message:   message,
			Source:    scrubText(field(row, columns, "source")),
		})
		stats.Accepted++
	}

	return records, stats, nil
}

// field returns the named column's value for a row, or "" when the column
// is absent or the row is too short.
func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseTimestamp tries the accepted layouts in order. Missing or
// unparseable values fall back to the current UTC time.
func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().UTC()
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}

	return time.Now().UTC()
}

// scrubText replaces embedded line breaks and tabs with spaces and drops
// any other control characters, keeping each record to a single line.
func scrubText(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
