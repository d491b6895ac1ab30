package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/logseer/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrade_ResponseMatching(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected Verdict
	}{
		{name: "bare YES", response: "YES", expected: VerdictRelevant},
		{name: "lowercase yes", response: "yes", expected: VerdictRelevant},
		{name: "padded", response: "  YES  ", expected: VerdictRelevant},
		{name: "embedded", response: "Definitely, YES!", expected: VerdictRelevant},
		{name: "sentence", response: "yes, this log is relevant", expected: VerdictRelevant},
		{name: "bare NO", response: "NO", expected: VerdictNotRelevant},
		{name: "refusal sentence", response: "No, it is unrelated", expected: VerdictNotRelevant},
		{name: "empty response", response: "", expected: VerdictNotRelevant},
		{name: "noise", response: "I cannot determine this", expected: VerdictNotRelevant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := mock.NewMockGenerator()
			generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
				return tt.response, nil
			}

			grader := NewGrader(generator, time.Second, nil)
			verdict := grader.Grade(context.Background(), "question", "[2024-03-15 10:00:00] ERROR: disk full")
			assert.Equal(t, tt.expected, verdict)
		})
	}
}

func TestGrade_FailsOpenOnError(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("connection refused")
	}

	grader := NewGrader(generator, time.Second, nil)
	verdict := grader.Grade(context.Background(), "question", "entry")

	assert.Equal(t, VerdictUnavailable, verdict)
	assert.True(t, verdict.Keep())
}

func TestGrade_FailsOpenOnTimeout(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "YES", nil
		}
	}

	grader := NewGrader(generator, 10*time.Millisecond, nil)
	verdict := grader.Grade(context.Background(), "question", "entry")

	assert.Equal(t, VerdictUnavailable, verdict)
}

func TestGrade_PromptContents(t *testing.T) {
	generator := mock.NewMockGenerator()

	grader := NewGrader(generator, time.Second, nil)
	grader.Grade(context.Background(), "why did writes fail", "[2024-03-15 10:00:00] ERROR: disk full")

	require.Equal(t, 1, generator.CallCount())
	prompt := generator.Prompts()[0]
	assert.True(t, strings.HasPrefix(prompt, "You are a log relevance checker"))
	assert.Contains(t, prompt, "Question: why did writes fail")
	assert.Contains(t, prompt, "Log Entry: [2024-03-15 10:00:00] ERROR: disk full")
	assert.Contains(t, prompt, "Answer ONLY with 'YES' or 'NO'.")
}
