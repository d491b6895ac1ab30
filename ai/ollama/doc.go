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


// Package ollama provides text generation using the native Ollama API.
//
// This package implements the ai.Generator interface with a direct HTTP
// client for the /api/generate endpoint. The native API is used instead of
// the OpenAI-compatible layer because callers need the exact HTTP status
// code and response body from failed calls; both are carried on
// *ai.BackendError.
//
// Requests are issued with stream disabled, so each call yields a single
// JSON response object. Timeouts are imposed per call through the context.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	generator, err := ollama.NewGenerator(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	answer, err := generator.Generate(ctx, "Why did the service restart?")
package ollama
