package ai

import (
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meetnotes/pkg/config"
)

// AssemblyAIClient transcribes canonical waveforms with the official AssemblyAI SDK
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// An empty API key falls back to the ASSEMBLYAI_API_KEY environment variable.
func NewAssemblyAIClient(cfg config.AssemblyAIConfig, opts ...aai.ClientOption) *AssemblyAIClient {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	opts = append([]aai.ClientOption{aai.WithAPIKey(apiKey)}, opts...)
	return &AssemblyAIClient{client: aai.NewClientWithOptions(opts...)}
}

// Name is the transcriber provenance tag
func (c *AssemblyAIClient) Name() string {
	return "assemblyai:best"
}

// Transcribe uploads the waveform and blocks until AssemblyAI finishes
func (c *AssemblyAIClient) Transcribe(ctx context.Context, wavPath string) (string, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening audio file: %w", ErrTranscription, err)
	}
	defer f.Close()

	params := &aai.TranscriptOptionalParams{
		LanguageDetection: aai.Bool(true),
	}

	transcript, err := c.client.Transcripts.TranscribeFromReader(ctx, f, params)
	if err != nil {
		return "", fmt.Errorf("%w: assemblyai: %w", ErrTranscription, err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("%w: assemblyai: %s", ErrTranscription, msg)
	}
	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}
