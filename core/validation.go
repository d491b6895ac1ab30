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


package core

import "fmt"

// ValidateLogRecord validates a LogRecord according to domain rules.
//
// Validation rules:
//   - Message must not be empty
//   - Timestamp must be set
//
// NOT validated:
//   - Level (free-form; normalized at ingest)
//   - Source (optional metadata)
func ValidateLogRecord(record LogRecord) error {
	if record.Message == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLogRecord, ErrEmptyMessage)
	}

	if record.Timestamp.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidLogRecord, ErrMissingTimestamp)
	}

	return nil
}
