package storage

import (
	"context"
	"time"

	"github.com/poiesic/logseer/core"
)

// Repository defines common operations all repositories must support.
type Repository interface {
	// WithTransaction executes the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases any resources held by the repository.
	Close() error
}

// LogRepository manages the persisted log corpus.
//
// Records have no identity of their own; they are addressed by insertion
// order, and every read method returns them in that order.
type LogRepository interface {
	Repository

	// AppendLogRecords persists records at the end of the corpus.
	AppendLogRecords(ctx context.Context, records ...core.LogRecord) error

	// AllLogRecords returns every stored record in insertion order.
	AllLogRecords(ctx context.Context) ([]core.LogRecord, error)

	// CountLogRecords returns the number of stored records.
	CountLogRecords(ctx context.Context) (int, error)

	// LogRecordsByDateRange returns records with timestamps between start and
	// end, inclusive on both bounds at microsecond precision.
	LogRecordsByDateRange(ctx context.Context, start, end time.Time) ([]core.LogRecord, error)

	// Clear removes every stored record.
	Clear(ctx context.Context) error
}
