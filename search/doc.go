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


// Package search provides semantic retrieval over an in-memory log corpus.
//
// The Index type holds an embedding matrix aligned row-for-row with its
// record slice. Both live in a single immutable snapshot that is swapped
// atomically on rebuild, so queries racing a rebuild see either the old
// corpus or the new one, never a mix.
//
// Queries encode the query text fresh on every call, score it against the
// matrix by cosine similarity, and return the top k candidates in
// descending score order.
package search
