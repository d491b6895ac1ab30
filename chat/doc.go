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


// Package chat answers natural-language questions about a log corpus.
//
// The Pipeline type runs a three-stage flow per question:
//
//  1. Retrieve the top candidates from a semantic index.
//  2. Grade each candidate with a short model call asking whether it could
//     help answer the question. Grading fails open: if the judge cannot be
//     reached the candidate is kept.
//  3. Synthesize a narrative answer from the survivors, presented to the
//     model in chronological order.
//
// When grading eliminates every candidate the pipeline returns a fixed
// answer without calling the synthesis model. Grading and synthesis never
// fail a request; their failures are folded into the answer text. Only a
// retrieval failure surfaces as an error.
package chat
