package storage

import (
	"testing"
	"time"

	"github.com/poiesic/logseer/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalLogRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record core.LogRecord
	}{
		{
			name: "minimal record",
			record: core.LogRecord{
				Timestamp: now,
				Level:     core.LevelInfo,
				Message:   "Server started",
			},
		},
		{
			name: "record with source",
			record: core.LogRecord{
				Timestamp: now,
				Level:     core.LevelError,
				Message:   "Disk full on /dev/sda1",
				Source:    "disk-agent",
			},
		},
		{
			name: "free-form level",
			record: core.LogRecord{
				Timestamp: now,
				Level:     "NOTICE",
				Message:   "Config reloaded",
			},
		},
		{
			name: "empty message",
			record: core.LogRecord{
				Timestamp: now,
				Level:     core.LevelWarning,
				Message:   "",
			},
		},
		{
			name: "unicode message",
			record: core.LogRecord{
				Timestamp: now,
				Level:     core.LevelInfo,
				Message:   "Hello 世界 🌍 émojis",
			},
		},
		{
			name: "epoch timestamp",
			record: core.LogRecord{
				Timestamp: time.UnixMicro(0).UTC(),
				Level:     core.LevelInfo,
				Message:   "The beginning",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalLogRecord(tt.record)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalLogRecord(data)
			require.NoError(t, err)

			assert.True(t, tt.record.Timestamp.Equal(decoded.Timestamp))
			assert.Equal(t, tt.record.Level, decoded.Level)
			assert.Equal(t, tt.record.Message, decoded.Message)
			assert.Equal(t, tt.record.Source, decoded.Source)
		})
	}
}

func TestUnmarshalLogRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"truncated data", func() []byte {
			full := MarshalLogRecord(core.LogRecord{
				Timestamp: time.Now().UTC(),
				Level:     core.LevelInfo,
				Message:   "this message will be cut short",
			})
			return full[:len(full)/2]
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLogRecord(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestUnmarshalLogRecord_TimestampsComeBackUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	record := core.LogRecord{
		Timestamp: time.Date(2024, 3, 15, 17, 0, 0, 0, loc),
		Level:     core.LevelInfo,
		Message:   "zoned timestamp",
	}

	decoded, err := UnmarshalLogRecord(MarshalLogRecord(record))
	require.NoError(t, err)

	assert.Equal(t, time.UTC, decoded.Timestamp.Location())
	assert.True(t, record.Timestamp.Equal(decoded.Timestamp))
}
