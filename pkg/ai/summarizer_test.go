package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meetnotes/pkg/config"
)

var testSummarizerCfg = config.SummarizerConfig{Timeout: 5 * time.Second, Temperature: 0.2}

func TestTruncateTranscript(t *testing.T) {
	short := "short transcript"
	assert.Equal(t, short, TruncateTranscript(short))

	long := strings.Repeat("é", MaxTranscriptChars+50)
	got := TruncateTranscript(long)
	assert.Equal(t, MaxTranscriptChars, utf8.RuneCountInString(got))
	assert.True(t, strings.HasPrefix(long, got))

	exact := strings.Repeat("a", MaxTranscriptChars)
	assert.Equal(t, exact, TruncateTranscript(exact))
}

func TestOllama_Summarize(t *testing.T) {
	var got GenerateRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{"response": `{"summary":"ok"}`, "done": true})
	}))
	defer ts.Close()

	client := NewOllamaClient(config.OllamaConfig{Host: ts.URL + "/", Model: "mistral"}, testSummarizerCfg)
	transcript := strings.Repeat("x", MaxTranscriptChars+100)

	raw, err := client.Summarize(context.Background(), transcript, "")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, raw)

	assert.Equal(t, "mistral", got.Model)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.2, got.Options.Temperature, 1e-9)
	assert.True(t, strings.HasPrefix(got.Prompt, SystemPrompt))
	assert.Contains(t, got.Prompt, strings.Repeat("x", MaxTranscriptChars)+"\n---")
	assert.NotContains(t, got.Prompt, strings.Repeat("x", MaxTranscriptChars+1))
	assert.Equal(t, "ollama", client.Backend())
	assert.Equal(t, "mistral", client.DefaultModel())
}

func TestOllama_Summarize_ModelOverride(t *testing.T) {
	var got GenerateRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]string{"response": ""})
	}))
	defer ts.Close()

	client := NewOllamaClient(config.OllamaConfig{Host: ts.URL, Model: "mistral"}, testSummarizerCfg)
	_, err := client.Summarize(context.Background(), "hi", "llama3")
	require.NoError(t, err)
	assert.Equal(t, "llama3", got.Model)
}

func TestOllama_Summarize_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewOllamaClient(config.OllamaConfig{Host: ts.URL, Model: "nope"}, testSummarizerCfg)
	_, err := client.Summarize(context.Background(), "hi", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSummarization)
	assert.Contains(t, err.Error(), "404")
}

func TestOllama_Summarize_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := NewOllamaClient(config.OllamaConfig{Host: url, Model: "mistral"}, testSummarizerCfg)
	_, err := client.Summarize(context.Background(), "hi", "")
	assert.ErrorIs(t, err, ErrSummarization)
}

func TestGroq_Summarize(t *testing.T) {
	var got ChatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"done\"}"}}]}`))
	}))
	defer ts.Close()

	client := NewGroqClient(config.GroqConfig{APIKey: "gsk-test", BaseURL: ts.URL, Model: "llama-3.1-8b-instant"}, testSummarizerCfg)
	raw, err := client.Summarize(context.Background(), "we agreed to ship", "")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"done"}`, raw)

	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, SystemPrompt, got.Messages[0].Content)
	assert.Contains(t, got.Messages[1].Content, "we agreed to ship")
}

func TestGroq_Summarize_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer empty" {
			w.Write([]byte(`{"choices":[]}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	limited := NewGroqClient(config.GroqConfig{APIKey: "k", BaseURL: ts.URL, Model: "m"}, testSummarizerCfg)
	_, err := limited.Summarize(context.Background(), "hi", "")
	assert.ErrorIs(t, err, ErrSummarization)

	empty := NewGroqClient(config.GroqConfig{APIKey: "empty", BaseURL: ts.URL, Model: "m"}, testSummarizerCfg)
	_, err = empty.Summarize(context.Background(), "hi", "")
	assert.ErrorIs(t, err, ErrSummarization)
}
