package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/logseer/core"
	"github.com/poiesic/logseer/storage"
)

// Indexer is the slice of the semantic index the pipeline drives.
type Indexer interface {
	Rebuild(ctx context.Context, records []core.LogRecord) error
}

// Pipeline coordinates corpus replacement: parse, store, re-index.
type Pipeline struct {
	repository storage.LogRepository
	index      Indexer
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over a repository and an index.
func NewPipeline(repository storage.LogRepository, index Indexer, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	p := &Pipeline{
		repository: repository,
		index:      index,
		logger:     slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// UploadResult reports the outcome of a corpus replacement.
type UploadResult struct {
	RecordsProcessed int
	RecordsSkipped   int
}

// Upload replaces the stored corpus with the records parsed from r, then
// rebuilds the index from what the store now holds. A parse failure leaves
// the store untouched.
func (p *Pipeline) Upload(ctx context.Context, r io.Reader) (UploadResult, error) {
	records, stats, err := ParseCSV(r)
	if err != nil {
		return UploadResult{}, fmt.Errorf("parse upload: %w", err)
	}

	if stats.Skipped > 0 {
		p.logger.Warn("skipped rows without messages", "skipped", stats.Skipped)
	}

	if err := p.repository.Clear(ctx); err != nil {
		return UploadResult{}, fmt.Errorf("clear store: %w", err)
	}

	if err := p.repository.AppendLogRecords(ctx, records...); err != nil {
		return UploadResult{}, fmt.Errorf("store records: %w", err)
	}

	if err := p.Reindex(ctx); err != nil {
		return UploadResult{}, err
	}

	p.logger.Info("corpus replaced",
		"records", stats.Accepted,
		"skipped", stats.Skipped)

	return UploadResult{
		RecordsProcessed: stats.Accepted,
		RecordsSkipped:   stats.Skipped,
	}, nil
}

// Reindex rebuilds the index from the full stored corpus.
func (p *Pipeline) Reindex(ctx context.Context) error {
	records, err := p.repository.AllLogRecords(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	if err := p.index.Rebuild(ctx, records); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	return nil
}
