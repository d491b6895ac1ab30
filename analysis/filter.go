package analysis

import (
	"strings"
	"time"

	"github.com/poiesic/logseer/core"
)

// Filter selects records by level, keyword, and time window. Zero-valued
// criteria pass everything; set criteria must all match.
type Filter struct {
	Level     string
	Keyword   string
	StartDate *time.Time
	EndDate   *time.Time
}

// Apply returns the records matching every set criterion, preserving input
// order. Level comparison is exact after upper-casing the criterion;
// keyword matching is a case-insensitive substring test against message or
// source; date bounds are inclusive.
func (f Filter) Apply(records []core.LogRecord) []core.LogRecord {
	level := strings.ToUpper(f.Level)
	keyword := strings.ToLower(f.Keyword)

	matched := []core.LogRecord{}
	for _, record := range records {
		if level != "" && record.Level != level {
			continue
		}
		if keyword != "" && !matchesKeyword(record, keyword) {
			continue
		}
		if f.StartDate != nil && record.Timestamp.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && record.Timestamp.After(*f.EndDate) {
			continue
		}
		matched = append(matched, record)
	}

	return matched
}

func matchesKeyword(record core.LogRecord, keyword string) bool {
	return strings.Contains(strings.ToLower(record.Message), keyword) ||
		strings.Contains(strings.ToLower(record.Source), keyword)
}
