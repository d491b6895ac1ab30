package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/logseer/ai"
)

// Grader asks the generation model whether one candidate log entry could
// help answer a question.
type Grader struct {
	generator ai.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewGrader creates a grader with the given per-call deadline.
func NewGrader(generator ai.Generator, timeout time.Duration, logger *slog.Logger) *Grader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grader{
		generator: generator,
		timeout:   timeout,
		logger:    logger.With("component", "grader"),
	}
}

// Grade returns the verdict for one candidate. The candidate is relevant
// iff the case-normalized model response contains "YES".
//
// Grade fails open: timeout, backend rejection, and transport failure all
// yield VerdictUnavailable, which keeps the candidate. An unreachable
// judge degrades toward trusting retrieval ranking, not toward silence.
func (g *Grader) Grade(ctx context.Context, query, logEntry string) Verdict {
	gradeCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.generator.Generate(gradeCtx, buildGradePrompt(query, logEntry))
	if err != nil {
		g.logger.Warn("relevance check unavailable, keeping candidate", "err", err)
		return VerdictUnavailable
	}

	if strings.Contains(strings.ToUpper(response), "YES") {
		return VerdictRelevant
	}
	return VerdictNotRelevant
}
