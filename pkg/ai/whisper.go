package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/johnquangdev/meetnotes/pkg/config"
)

// WhisperClient transcribes canonical waveforms with an OpenAI-compatible
// faster-whisper server (POST /v1/audio/transcriptions)
type WhisperClient struct {
	baseURL   string
	model     string
	vadFilter bool
	client    *http.Client
}

// NewWhisperClient creates a whisper client from config
func NewWhisperClient(cfg config.WhisperConfig) *WhisperClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &WhisperClient{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		model:     cfg.Model,
		vadFilter: cfg.VADFilter,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name is the transcriber provenance tag
func (w *WhisperClient) Name() string {
	return "faster-whisper:" + w.model
}

type whisperResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Text string `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the waveform and joins the trimmed segment texts with single spaces.
// Silence yields an empty string, not an error.
func (w *WhisperClient) Transcribe(ctx context.Context, wavPath string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"model":           w.model,
		"response_format": "verbose_json",
		"vad_filter":      strconv.FormatBool(w.vadFilter),
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return "", fmt.Errorf("%w: %w", ErrTranscription, err)
		}
	}

	file, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening audio file: %w", ErrTranscription, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/v1/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling whisper server: %w", ErrTranscription, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrTranscription, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: whisper server error (HTTP %d): %s", ErrTranscription, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var wr whisperResponse
	if err := json.Unmarshal(respBody, &wr); err != nil {
		return "", fmt.Errorf("%w: parsing whisper response: %w", ErrTranscription, err)
	}
	if len(wr.Segments) == 0 {
		return strings.TrimSpace(wr.Text), nil
	}
	texts := make([]string, len(wr.Segments))
	for i, seg := range wr.Segments {
		texts[i] = seg.Text
	}
	return JoinSegments(texts), nil
}

// JoinSegments trims each segment text and joins the non-empty ones with single spaces
func JoinSegments(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Ping checks the server is reachable
func (w *WhisperClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/v1/models", nil)
	if err != nil {
		return err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("whisper server returned status %d", resp.StatusCode)
	}
	return nil
}
