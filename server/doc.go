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


// Package server exposes the HTTP API: CSV upload with replace semantics,
// corpus summary and filtering, the question-answering endpoint, and a
// health probe.
//
// Request bodies are parsed with fastjson via a pooled parser; responses
// are encoded with encoding/json. Every request is tagged with an ID and
// access-logged. Backend trouble inside the answer pipeline never surfaces
// as an HTTP error; it is already folded into the answer text by the chat
// package.
package server
