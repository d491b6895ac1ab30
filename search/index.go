package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/poiesic/logseer/ai"
	"github.com/poiesic/logseer/core"
)

// snapshot pairs a record slice with its embedding matrix. A snapshot is
// immutable once published; row i of the matrix always encodes record i.
type snapshot struct {
	records     []core.LogRecord
	matrix      [][]float32
	fingerprint uint64
}

// Index answers nearest-neighbor queries over an in-memory embedding matrix.
//
// The record slice and matrix are replaced together as one snapshot under
// the write lock, so concurrent readers always observe matching lengths.
// A failed rebuild leaves the previous snapshot in place.
type Index struct {
	embedder ai.Embedder
	logger   *slog.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// NewIndex creates a new empty index backed by the given embedder.
func NewIndex(embedder ai.Embedder, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	idx := &Index{
		embedder: embedder,
		logger:   slog.Default(),
		snap:     &snapshot{},
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Rebuild encodes every record and swaps in a fresh snapshot.
//
// The whole corpus is re-encoded on every call; there is no incremental
// update. An empty record slice clears the index. If encoding fails the
// previous snapshot stays queryable.
func (idx *Index) Rebuild(ctx context.Context, records []core.LogRecord) error {
	if len(records) == 0 {
		idx.swap(&snapshot{})
		idx.logger.Info("index cleared")
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.RetrievalText()
	}

	vectors, err := idx.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		idx.logger.Error("error encoding corpus", "records", len(records), "err", err)
		return err
	}

	if len(vectors) != len(records) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(records), len(vectors))
	}

	snap := &snapshot{
		records:     slices.Clone(records),
		matrix:      vectors,
		fingerprint: core.CorpusFingerprint(records),
	}
	idx.swap(snap)

	idx.logger.Info("index rebuilt", "records", len(records), "fingerprint", snap.fingerprint)
	return nil
}

// Query returns the k records whose embeddings are closest to the text.
// Results are ordered by descending score; equal scores keep corpus order.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]core.Candidate, error) {
	return idx.QueryWithMonitor(ctx, text, k, nil)
}

// QueryWithMonitor is Query with observation hooks.
// The monitor receives callbacks at each stage of the query.
func (idx *Index) QueryWithMonitor(ctx context.Context, text string, k int, monitor QueryMonitor) ([]core.Candidate, error) {
	if k < 1 {
		return nil, ErrInvalidLimit
	}

	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(text)

	// An empty index answers before the query is ever encoded
	snap := idx.current()
	if len(snap.records) == 0 {
		candidates := []core.Candidate{}
		monitor.Finish(candidates)
		return candidates, nil
	}

	queryVector, err := idx.embedder.EmbedText(ctx, text)
	if err != nil {
		idx.logger.Error("error encoding query", "err", err)
		return nil, err
	}
	monitor.AfterEncoding(len(queryVector))

	candidates := make([]core.Candidate, len(snap.records))
	for i, record := range snap.records {
		candidates[i] = core.Candidate{
			Record: record,
			Score:  CosineSimilarity(queryVector, snap.matrix[i]),
		}
	}

	// Stable sort keeps equal scores in ascending corpus order
	slices.SortStableFunc(candidates, func(a, b core.Candidate) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	monitor.Finish(candidates)
	return candidates, nil
}

// Len reports how many records the current snapshot holds.
func (idx *Index) Len() int {
	return len(idx.current().records)
}

// Fingerprint identifies the indexed corpus. Zero for an empty index.
func (idx *Index) Fingerprint() uint64 {
	return idx.current().fingerprint
}

func (idx *Index) swap(snap *snapshot) {
	idx.mu.Lock()
	idx.snap = snap
	idx.mu.Unlock()
}

func (idx *Index) current() *snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.snap
}
