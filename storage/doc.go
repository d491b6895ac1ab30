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


// Package storage defines the persistence interfaces for the log corpus,
// along with the serialization helpers shared by every backend.
//
// # Repository Interfaces
//
// LogRepository is the storage surface the rest of the system programs
// against. Records carry no identity of their own; the corpus is an ordered
// sequence and reads always come back in insertion order. Concrete
// implementations live in subpackages (see storage/badger).
//
// # Serialization
//
// Records are stored in the MUS binary format via the serializers declared
// in the core package. MarshalLogRecord and UnmarshalLogRecord wrap those
// serializers; deserialization failures are reported as
// ErrSerializationFailed so callers can distinguish corrupt data from
// backend errors.
//
// # Constructor Return Type Pattern
//
// Backend packages export constructors that return the LogRepository
// interface rather than their concrete repository type. Callers depend on
// the interface declared here, which keeps backends swappable and tests
// free to substitute in-memory implementations.
package storage
