package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/meetnotes/pkg/config"
)

// OllamaClient summarizes transcripts with a local Ollama server
type OllamaClient struct {
	host        string
	model       string
	temperature float64
	client      *http.Client
}

// NewOllamaClient creates an Ollama client from config
func NewOllamaClient(cfg config.OllamaConfig, sum config.SummarizerConfig) *OllamaClient {
	timeout := sum.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaClient{
		host:        strings.TrimRight(cfg.Host, "/"),
		model:       cfg.Model,
		temperature: sum.Temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

// GenerateRequest is the body of /api/generate
type GenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

// GenerateOptions holds sampling options
type GenerateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Backend is the provenance prefix
func (o *OllamaClient) Backend() string { return "ollama" }

// DefaultModel is used when a run does not name a model
func (o *OllamaClient) DefaultModel() string { return o.model }

// Summarize sends the transcript prefix and returns the model's raw text
func (o *OllamaClient) Summarize(ctx context.Context, transcript, model string) (string, error) {
	if model == "" {
		model = o.model
	}
	reqBody := GenerateRequest{
		Model:   model,
		Prompt:  FullPrompt(transcript),
		Stream:  false,
		Options: GenerateOptions{Temperature: o.temperature},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarization, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarization, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: ollama: %w", ErrSummarization, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: ollama returned status %d: %s", ErrSummarization, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("%w: decode ollama response: %w", ErrSummarization, err)
	}
	return gr.Response, nil
}

// Ping checks the server answers on /api/tags
func (o *OllamaClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.host+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}
