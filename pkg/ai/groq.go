package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/johnquangdev/meetnotes/pkg/config"
)

// GroqClient summarizes transcripts with Groq's OpenAI-compatible chat API
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

// NewGroqClient creates a Groq client using values from the provided config.
// An empty API key falls back to the GROQ_API_KEY environment variable.
func NewGroqClient(cfg config.GroqConfig, sum config.SummarizerConfig) *GroqClient {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}

	base := cfg.BaseURL
	if base == "" {
		base = "https://api.groq.com"
	}

	timeout := sum.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GroqClient{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(base, "/"),
		model:       cfg.Model,
		temperature: sum.Temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

// ChatMessage is one chat turn
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *GroqClient) Backend() string { return "groq" }

func (g *GroqClient) DefaultModel() string { return g.model }

// Summarize sends the transcript prefix and returns the assistant content
func (g *GroqClient) Summarize(ctx context.Context, transcript, model string) (string, error) {
	if model == "" {
		model = g.model
	}
	reqBody := ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: UserPrompt(transcript)},
		},
		Temperature: g.temperature,
		MaxTokens:   4000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarization, err)
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarization, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: groq: %w", ErrSummarization, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: groq returned status %d: %s", ErrSummarization, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("%w: decode groq response: %w", ErrSummarization, err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from groq", ErrSummarization)
	}
	return cr.Choices[0].Message.Content, nil
}

// Ping checks the API key against the models endpoint
func (g *GroqClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/openai/v1/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("groq returned status %d", resp.StatusCode)
	}
	return nil
}
