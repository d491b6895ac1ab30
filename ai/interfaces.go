package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Embedding an empty slice returns an empty slice, not an error.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a text completion for a prompt.
// Implementations must be thread-safe for concurrent use.
//
// Both agent stages of the chat pipeline (relevance grading and answer
// synthesis) consume this one capability; they differ only in prompt
// content and in the deadline they attach to ctx.
type Generator interface {
	// Generate issues a single non-streaming completion request and
	// returns the decoded response text, which may be empty.
	// The context bounds the call; attach a deadline to enforce a timeout.
	// A backend reply outside the 2xx range is returned as a *BackendError
	// carrying the status code and raw body; failures to complete the call
	// at all (connection refused, DNS, timeout) are returned as ordinary
	// transport errors.
	Generate(ctx context.Context, prompt string) (string, error)
}
