package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for log record storage.
const (
	logRecordPrefix     = "logrec"    // Primary records: logrec:{seq}
	logRecordDatePrefix = "logrecd"   // Date index: logrecd:{timestamp}{seq}
	logRecordSeq        = "logrecseq" // Sequence counter for insertion order
)

// makeLogRecordKey creates a primary key for a log record.
// The sequence number is written in BigEndian order so lexicographic sort
// matches insertion order.
func makeLogRecordKey(seq uint64) []byte {
	prefix := []byte(logRecordPrefix + ":")
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], seq)
	return key
}

// makeLogDateKey creates a date index key for a log record.
// Format: logrecd:{timestamp_micros_bigendian}{seq_bigendian}
func makeLogDateKey(timestamp time.Time, seq uint64) []byte {
	prefix := []byte(logRecordDatePrefix + ":")
	key := make([]byte, len(prefix)+16)
	copy(key, prefix)

	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(timestamp.UnixMicro()))
	binary.BigEndian.PutUint64(key[len(prefix)+8:], seq)

	return key
}

// makePartialLogDateKey creates a date index key containing only the
// timestamp portion, for use as a range boundary.
func makePartialLogDateKey(timestamp time.Time) []byte {
	prefix := []byte(logRecordDatePrefix + ":")
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(timestamp.UnixMicro()))
	return key
}
