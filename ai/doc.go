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


// Package ai provides abstractions for the AI services used in LogSeer.
//
// This package defines interfaces for AI operations, text embeddings and
// text generation, plus the shared configuration and retry machinery. It
// follows the dependency inversion principle, allowing the index and the
// chat pipeline to depend on abstractions rather than concrete backends.
//
// # Design Principles
//
// The package is designed around two capability interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces a text completion for a prompt (shared by the
//     relevance grading and answer synthesis stages)
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/openai: embeddings via OpenAI-compatible APIs
//   - ai/ollama: generation via the native Ollama API
//   - ai/mock: test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewEmbedder, ollama.NewGenerator) return
// INTERFACE types to enforce abstraction and prevent accidental coupling
// to concrete implementations.
//
//	embedder, err := openai.NewEmbedder(config)   // returns ai.Embedder
//	generator, err := ollama.NewGenerator(config) // returns ai.Generator
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockGenerator)
// return CONCRETE types to enable test assertions and behavior injection
// via the mock's public methods (CallCount, injectable func fields, Reset).
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextFunc = ...        // needs concrete type
//	count := mockEmbed.CallCount()       // test assertion
//
// # Failure Taxonomy
//
// Generator implementations distinguish two failure classes, because the
// chat pipeline treats them differently when building diagnostic answers:
//
//   - *BackendError: the backend answered, but outside the 2xx range; the
//     status code and raw body ride along
//   - transport errors: the call never completed (refused connection,
//     DNS failure, context deadline)
//
// Timeouts are the caller's: pass a context with a deadline. The grading
// stage uses Config.GradeTimeout, synthesis uses Config.SynthesisTimeout.
package ai
