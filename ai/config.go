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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service backends.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// GenerationHost is the base URL for the text generation service API.
	// This is the native Ollama endpoint, without the /v1 suffix.
	// Example: "http://localhost:11434"
	GenerationHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-minilm", "text-embedding-3-small"
	EmbeddingModel string

	// GenerationModel is the model identifier to use for relevance grading
	// and answer synthesis.
	// Example: "llama2", "qwen2.5:3b"
	GenerationModel string

	// GradeTimeout bounds each relevance grading call. It is deliberately
	// much shorter than SynthesisTimeout: grading answers one token.
	// Default: 30s
	GradeTimeout time.Duration

	// SynthesisTimeout bounds the answer synthesis call, which produces
	// free-form text and can run long on small hardware.
	// Default: 120s
	SynthesisTimeout time.Duration

	// MaxRetries is the number of attempts for each remote embedding call.
	// Default: 3
	MaxRetries int

	// RetryDelay is the base delay between embedding retries (doubles on
	// each retry).
	// Default: 1s
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGenerationHost sets the generation service host URL.
func WithGenerationHost(host string) ConfigOption {
	return func(c *Config) {
		c.GenerationHost = host
	}
}

// WithHost sets both embedding and generation hosts to the same URL.
// Normalize later gives each host the suffix form its API expects.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GenerationHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGenerationModel sets the generation model identifier.
func WithGenerationModel(model string) ConfigOption {
	return func(c *Config) {
		c.GenerationModel = model
	}
}

// WithGradeTimeout sets the per-call timeout for relevance grading.
func WithGradeTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.GradeTimeout = timeout
	}
}

// WithSynthesisTimeout sets the timeout for the answer synthesis call.
func WithSynthesisTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.SynthesisTimeout = timeout
	}
}

// WithMaxRetries sets the attempt count for remote embedding calls.
func WithMaxRetries(attempts int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = attempts
	}
}

// WithRetryDelay sets the base delay between embedding retries.
func WithRetryDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = delay
	}
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama
// install serving both embeddings and generation.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:    "http://localhost:11434/v1",
		GenerationHost:   "http://localhost:11434",
		EmbeddingModel:   "all-minilm",
		GenerationModel:  "llama2",
		GradeTimeout:     30 * time.Second,
		SynthesisTimeout: 120 * time.Second,
		MaxRetries:       3,
		RetryDelay:       time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://ollama.internal:11434"),
//       WithGenerationModel("qwen2.5:3b"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// The embedding host gets the /v1 suffix required by OpenAI-compatible
// APIs (Ollama, LocalAI, vLLM, etc); the generation host is the native
// Ollama API and must NOT carry /v1, so it only loses trailing slashes.
func (c *Config) Normalize() {
	// Ensure EmbeddingHost ends with /v1 for OpenAI-compatible APIs
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	c.GenerationHost = strings.TrimRight(c.GenerationHost, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.GenerationHost == "" {
		return errors.New("ai config: GenerationHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GenerationModel == "" {
		return errors.New("ai config: GenerationModel is required")
	}
	if c.GradeTimeout <= 0 {
		return errors.New("ai config: GradeTimeout must be positive")
	}
	if c.SynthesisTimeout <= 0 {
		return errors.New("ai config: SynthesisTimeout must be positive")
	}
	if c.MaxRetries < 1 {
		return errors.New("ai config: MaxRetries must be at least 1")
	}
	if c.RetryDelay <= 0 {
		return errors.New("ai config: RetryDelay must be positive")
	}
	return nil
}
