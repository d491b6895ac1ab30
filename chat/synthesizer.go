package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/logseer/ai"
	"github.com/poiesic/logseer/core"
)

// Synthesizer turns graded survivors into a narrative answer.
type Synthesizer struct {
	generator ai.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewSynthesizer creates a synthesizer with the given per-call deadline.
func NewSynthesizer(generator ai.Generator, timeout time.Duration, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		generator: generator,
		timeout:   timeout,
		logger:    logger.With("component", "synthesizer"),
	}
}

// Synthesize renders the records one context line per record, in the order
// supplied, and asks the model for a narrative explanation.
//
// Synthesize never fails past its boundary. A backend rejection or
// transport failure becomes diagnostic answer text, and a successful call
// with no content becomes a placeholder.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, records []core.LogRecord) string {
	lines := make([]string, len(records))
	for i, record := range records {
		lines[i] = record.ContextLine()
	}
	contextStr := strings.Join(lines, "\n")

	synthCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.generator.Generate(synthCtx, buildSynthesisPrompt(contextStr, query))
	if err != nil {
		var backendErr *ai.BackendError
		if errors.As(err, &backendErr) {
			s.logger.Warn("synthesis rejected by backend, answering with diagnostic", "status", backendErr.StatusCode)
			return fmt.Sprintf("Ollama Error (%d): %s", backendErr.StatusCode, backendErr.Body)
		}
		s.logger.Warn("synthesis transport failure, answering with diagnostic", "err", err)
		return fmt.Sprintf("Failed to connect to Ollama: %v", err)
	}

	if response == "" {
		return noResponsePlaceholder
	}
	return response
}
