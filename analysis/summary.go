// Package analysis provides summary statistics and criteria filtering over
// log record slices.
package analysis

import (
	"time"

	"github.com/poiesic/logseer/core"
)

// Summary holds aggregate statistics over a log corpus.
type Summary struct {
	TotalCount   int        `json:"total_count"`
	ErrorCount   int        `json:"error_count"`
	WarningCount int        `json:"warning_count"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
}

// Summarize computes aggregate statistics for records. Level counts match
// the ERROR and WARNING tokens exactly; time bounds are nil for an empty
// corpus.
func Summarize(records []core.LogRecord) Summary {
	summary := Summary{TotalCount: len(records)}
	if len(records) == 0 {
		return summary
	}

	start := records[0].Timestamp
	end := records[0].Timestamp

	for _, record := range records {
		switch record.Level {
		case core.LevelError:
			summary.ErrorCount++
		case core.LevelWarning:
			summary.WarningCount++
		}

		if record.Timestamp.Before(start) {
			start = record.Timestamp
		}
		if record.Timestamp.After(end) {
			end = record.Timestamp
		}
	}

	summary.StartTime = &start
	summary.EndTime = &end
	return summary
}
