package chat

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/logseer/ai"
	"github.com/poiesic/logseer/core"
)

// topK is how many candidates retrieval hands to the grading stage.
const topK = 5

// Default deadlines for the two generation stages. Grading stays short so
// five sequential checks cannot stall a request; synthesis gets room to
// produce a full narrative.
const (
	DefaultGradeTimeout     = 30 * time.Second
	DefaultSynthesisTimeout = 120 * time.Second
)

// Retriever finds the nearest candidates for a question.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]core.Candidate, error)
}

// Pipeline answers questions about indexed logs.
//
// A question flows through three stages: retrieve the closest candidates,
// grade each one for relevance, then synthesize a narrative from the
// survivors. Only retrieval can fail the call; grading and synthesis fold
// every failure into the answer. When grading eliminates all candidates
// the pipeline short-circuits with a fixed answer and never calls the
// synthesis model.
type Pipeline struct {
	retriever        Retriever
	generator        ai.Generator
	gradeTimeout     time.Duration
	synthesisTimeout time.Duration
	logger           *slog.Logger

	grader      *Grader
	synthesizer *Synthesizer
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

// WithGradeTimeout overrides the per-candidate grading deadline.
func WithGradeTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		p.gradeTimeout = timeout
		return nil
	}
}

// WithSynthesisTimeout overrides the synthesis deadline.
func WithSynthesisTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		p.synthesisTimeout = timeout
		return nil
	}
}

// New creates a pipeline over the given retriever and generator.
func New(retriever Retriever, generator ai.Generator, opts ...Option) (*Pipeline, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	p := &Pipeline{
		retriever:        retriever,
		generator:        generator,
		gradeTimeout:     DefaultGradeTimeout,
		synthesisTimeout: DefaultSynthesisTimeout,
		logger:           slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	p.grader = NewGrader(generator, p.gradeTimeout, p.logger)
	p.synthesizer = NewSynthesizer(generator, p.synthesisTimeout, p.logger)

	return p, nil
}

// Chat answers a question about the indexed logs.
// The returned error covers retrieval only; later stages always produce an
// answer.
func (p *Pipeline) Chat(ctx context.Context, query string) (*core.ChatResult, error) {
	return p.ChatWithMonitor(ctx, query, nil)
}

// ChatWithMonitor is Chat with observation hooks.
// The monitor receives callbacks at each stage of the request.
func (p *Pipeline) ChatWithMonitor(ctx context.Context, query string, monitor ChatMonitor) (*core.ChatResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)
	p.logger.Info("processing question", "length", len(query))

	candidates, err := p.retriever.Query(ctx, query, topK)
	if err != nil {
		p.logger.Error("retrieval failed", "err", err)
		return nil, err
	}
	monitor.AfterRetrieval(candidates)

	// Grade sequentially, in retrieval order
	survivors := make([]core.LogRecord, 0, len(candidates))
	for _, candidate := range candidates {
		verdict := p.grader.Grade(ctx, query, candidate.Record.ContextLine())
		monitor.Graded(candidate.Record, verdict)
		if verdict.Keep() {
			survivors = append(survivors, candidate.Record)
		}
	}
	monitor.AfterGrading(survivors)
	p.logger.Debug("grading complete", "candidates", len(candidates), "survivors", len(survivors))

	if len(survivors) == 0 {
		p.logger.Info("no candidates survived grading")
		result := &core.ChatResult{
			Answer:  NoRelevantLogsAnswer,
			Context: []core.LogRecord{},
		}
		monitor.Finish(result)
		return result, nil
	}

	// The model reasons over timestamps, so survivors go chronological;
	// the result context matches what the model saw
	slices.SortStableFunc(survivors, func(a, b core.LogRecord) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	answer := p.synthesizer.Synthesize(ctx, query, survivors)

	result := &core.ChatResult{
		Answer:  answer,
		Context: survivors,
	}
	monitor.Finish(result)
	return result, nil
}
