package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// LogRecordMUS serializes LogRecord values for storage. Timestamps are
// encoded as microseconds since the Unix epoch and come back in UTC;
// sub-microsecond precision is not preserved.
var LogRecordMUS = logRecordMUS{}

type logRecordMUS struct{}

var _ mus.Serializer[LogRecord] = logRecordMUS{}

func (logRecordMUS) Marshal(record LogRecord, bs []byte) (n int) {
	n = varint.Int64.Marshal(record.Timestamp.UnixMicro(), bs)
	n += ord.String.Marshal(record.Level, bs[n:])
	n += ord.String.Marshal(record.Message, bs[n:])
	n += ord.String.Marshal(record.Source, bs[n:])
	return n
}

func (logRecordMUS) Unmarshal(bs []byte) (record LogRecord, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	record.Timestamp = time.UnixMicro(micros).UTC()

	var n1 int
	record.Level, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	record.Message, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	record.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (logRecordMUS) Size(record LogRecord) (size int) {
	size = varint.Int64.Size(record.Timestamp.UnixMicro())
	size += ord.String.Size(record.Level)
	size += ord.String.Size(record.Message)
	size += ord.String.Size(record.Source)
	return size
}

func (logRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int64.Skip(bs)
	if err != nil {
		return
	}

	var n1 int
	for range 3 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
