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


package logseer

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/logseer/ai"
	"github.com/poiesic/logseer/ai/ollama"
	"github.com/poiesic/logseer/ai/openai"
	"github.com/poiesic/logseer/chat"
	"github.com/poiesic/logseer/ingestion"
	"github.com/poiesic/logseer/search"
	"github.com/poiesic/logseer/storage"
	"github.com/poiesic/logseer/storage/badger"
)

// Service wires the record store, the semantic index, and the two AI
// pipelines into one unit. The upload pipeline and the chat pipeline share
// a single index, so every component is created once and handed out through
// accessors rather than built on demand.
type Service struct {
	backend   *badger.Backend
	logs      storage.LogRepository
	embedder  ai.Embedder
	generator ai.Generator
	index     *search.Index
	uploads   *ingestion.Pipeline
	chats     *chat.Pipeline
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig  *ai.Config
	embedder  ai.Embedder
	generator ai.Generator
	inMemory  bool
	logger    *slog.Logger
}

// WithAIConfig overrides the default AI backend configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder substitutes the embedding client. The service takes
// ownership and closes it with the rest of the components.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

// WithGenerator substitutes the generation client.
func WithGenerator(generator ai.Generator) ServiceOption {
	return func(o *serviceOptions) {
		o.generator = generator
	}
}

// WithInMemoryStore keeps the record store off disk. The data directory
// argument is ignored and nothing survives Close.
func WithInMemoryStore() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService opens the record store under dataDir and assembles the upload
// and chat pipelines around it. When the store already holds records the
// semantic index is rebuilt before the service is returned; a populated
// store with an empty index would answer every question with nothing, so a
// failed rebuild fails construction.
func NewService(ctx context.Context, dataDir string, opts ...ServiceOption) (*Service, error) {
	// Apply options
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(dataDir, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create log repository
	logs, err := badger.NewLogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI clients with configured settings
	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			logs.Close()
			backend.Close()
			return nil, err
		}
	}

	generator := options.generator
	if generator == nil {
		generator, err = ollama.NewGenerator(options.aiConfig)
		if err != nil {
			closeEmbedder(embedder)
			logs.Close()
			backend.Close()
			return nil, err
		}
	}

	// Create the shared semantic index
	index, err := search.NewIndex(embedder, search.WithLogger(options.logger))
	if err != nil {
		closeEmbedder(embedder)
		logs.Close()
		backend.Close()
		return nil, err
	}

	// Create the upload pipeline
	uploads, err := ingestion.NewPipeline(logs, index, ingestion.WithLogger(options.logger))
	if err != nil {
		closeEmbedder(embedder)
		logs.Close()
		backend.Close()
		return nil, err
	}

	// Create the chat pipeline
	chats, err := chat.New(index, generator,
		chat.WithGradeTimeout(options.aiConfig.GradeTimeout),
		chat.WithSynthesisTimeout(options.aiConfig.SynthesisTimeout),
		chat.WithLogger(options.logger),
	)
	if err != nil {
		closeEmbedder(embedder)
		logs.Close()
		backend.Close()
		return nil, err
	}

	svc := &Service{
		backend:   backend,
		logs:      logs,
		embedder:  embedder,
		generator: generator,
		index:     index,
		uploads:   uploads,
		chats:     chats,
		logger:    options.logger,
	}

	count, err := logs.CountLogRecords(ctx)
	if err != nil {
		svc.Close()
		return nil, err
	}
	if count > 0 {
		options.logger.Info("rebuilding index from existing store", "records", count)
		if err := uploads.Reindex(ctx); err != nil {
			svc.Close()
			return nil, err
		}
	}

	return svc, nil
}

func (s *Service) Close() error {
	// The embedder owns a worker pool; release it first
	if closer, ok := s.embedder.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error("error closing embedder", "err", err)
		}
	}

	// Close repository
	if err := s.logs.Close(); err != nil {
		s.logger.Error("error closing log repository", "err", err)
		return err
	}

	// Close backend
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (s *Service) LogRepository() storage.LogRepository {
	return s.logs
}

func (s *Service) Index() *search.Index {
	return s.index
}

func (s *Service) UploadPipeline() *ingestion.Pipeline {
	return s.uploads
}

func (s *Service) ChatPipeline() *chat.Pipeline {
	return s.chats
}

func closeEmbedder(embedder ai.Embedder) {
	if closer, ok := embedder.(io.Closer); ok {
		closer.Close()
	}
}
