package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/logseer/core"
	"github.com/poiesic/logseer/storage"
)

// LogRepository implements storage.LogRepository using BadgerDB.
//
// Records are keyed by a monotonic sequence number, so iteration over the
// primary prefix yields insertion order. A secondary date index maps
// timestamps back to primary keys for range queries.
type LogRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.LogRepository = (*LogRepository)(nil)

// NewLogRepository creates a log record repository backed by BadgerDB.
func NewLogRepository(backend *Backend) (storage.LogRepository, error) {
	seq, err := backend.GetSequence(logRecordSeq)
	if err != nil {
		return nil, fmt.Errorf("failed to create log record sequence: %w", err)
	}

	return &LogRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// AppendLogRecords persists records at the end of the corpus.
func (r *LogRepository) AppendLogRecords(ctx context.Context, records ...core.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			seq, err := r.seq.Next()
			if err != nil {
				return fmt.Errorf("failed to get next sequence value: %w", err)
			}

			key := makeLogRecordKey(seq)
			if err := tx.Set(key, storage.MarshalLogRecord(record)); err != nil {
				return err
			}

			// The date index stores the primary key as its value
			if err := tx.Set(makeLogDateKey(record.Timestamp, seq), key); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// AllLogRecords returns every stored record in insertion order.
func (r *LogRepository) AllLogRecords(ctx context.Context) ([]core.LogRecord, error) {
	records := []core.LogRecord{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(logRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalLogRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// CountLogRecords returns the number of stored records.
func (r *LogRepository) CountLogRecords(ctx context.Context) (int, error) {
	count := 0

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(logRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}

		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// LogRecordsByDateRange returns records with timestamps between start and
// end, inclusive on both bounds. Results come back in timestamp order, with
// ties in insertion order.
func (r *LogRepository) LogRecordsByDateRange(ctx context.Context, start, end time.Time) ([]core.LogRecord, error) {
	startKey := makePartialLogDateKey(start)
	// The index stores timestamps at microsecond precision; advancing the
	// end bound by one microsecond makes the range inclusive.
	endKey := makePartialLogDateKey(end.Add(time.Microsecond))

	records := []core.LogRecord{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(logRecordDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			item := iter.Item()
			if slices.Compare(item.Key(), endKey) >= 0 {
				break
			}

			var primaryKey []byte
			err := item.Value(func(val []byte) error {
				primaryKey = slices.Clone(val)
				return nil
			})
			if err != nil {
				return err
			}

			record, ok, err := readLogRecord(tx, primaryKey)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			records = append(records, record)
		}

		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Clear removes every stored record and its date index entries.
// The sequence counter is left alone; replacement records continue from
// later sequence numbers, so insertion order stays meaningful.
func (r *LogRepository) Clear(ctx context.Context) error {
	return r.backend.DropPrefix(
		[]byte(logRecordPrefix+":"),
		[]byte(logRecordDatePrefix+":"),
	)
}

// WithTransaction executes a function within a database transaction.
func (r *LogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Close releases the sequence held by the repository.
func (r *LogRepository) Close() error {
	if r.seq != nil {
		return r.seq.Release()
	}
	return nil
}

// readLogRecord reads the record stored at key within the transaction.
// Returns ok=false when the key does not exist.
func readLogRecord(tx *badger.Txn, key []byte) (core.LogRecord, bool, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return core.LogRecord{}, false, nil
	}
	if err != nil {
		return core.LogRecord{}, false, err
	}

	var record core.LogRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalLogRecord(val)
		return err
	})
	if err != nil {
		return core.LogRecord{}, false, err
	}

	return record, true, nil
}
