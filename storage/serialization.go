// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/poiesic/logseer/core"
)

// MarshalLogRecord serializes a LogRecord using the MUS format.
func MarshalLogRecord(record core.LogRecord) []byte {
	size := core.LogRecordMUS.Size(record)
	buf := make([]byte, size)
	core.LogRecordMUS.Marshal(record, buf)
	return buf
}

// UnmarshalLogRecord deserializes a LogRecord from MUS format.
func UnmarshalLogRecord(data []byte) (core.LogRecord, error) {
	record, _, err := core.LogRecordMUS.Unmarshal(data)
	if err != nil {
		return core.LogRecord{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return record, nil
}
