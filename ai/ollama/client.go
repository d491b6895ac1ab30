package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/logseer/ai"
)

// Client implements ai.Generator against the native Ollama /api/generate
// endpoint.
//
// The client carries no request timeout of its own; callers bound each call
// through the context. HTTP status failures surface as *ai.BackendError so
// callers can distinguish them from transport failures.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// generateRequest is the /api/generate request body. Stream is always
// false; the response must arrive as a single JSON object.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the subset of the /api/generate response we consume.
type generateResponse struct {
	Response string `json:"response"`
}

// newClient is an internal constructor that returns the concrete type.
func newClient(config *ai.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    config.GenerationHost,
		model:      config.GenerationModel,
		httpClient: &http.Client{},
		logger:     slog.Default().With("component", "ollama-client"),
	}, nil
}

// NewGenerator creates a new generation client using the provided
// configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newClient(config)
}

// Generate sends a single prompt to the model and returns the completed
// response text.
//
// An empty completion is returned as an empty string, not an error; the
// caller decides what an empty answer means.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("sending generate request", "model", c.model, "promptLength", len(prompt))

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("generate request failed", "err", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("generate request rejected", "status", resp.StatusCode)
		return "", &ai.BackendError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Error("failed to decode generate response", "err", err)
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	return decoded.Response, nil
}
