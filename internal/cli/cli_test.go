package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetnotes/internal/app"
	"github.com/johnquangdev/meetnotes/internal/infrastructure/cache"
	"github.com/johnquangdev/meetnotes/internal/usecase/pipeline"
	"github.com/johnquangdev/meetnotes/pkg/config"
	"github.com/johnquangdev/meetnotes/pkg/media"
)

type stubDecoder struct{ dir string }

func (d stubDecoder) Decode(ctx context.Context, r io.Reader) (*media.Waveform, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(d.dir, "wave-*.wav")
	if err != nil {
		return nil, err
	}
	_ = f.Close()
	return &media.Waveform{Path: f.Name(), DurationSec: 90}, nil
}

type stubTranscriber struct{}

func (stubTranscriber) Name() string { return "faster-whisper:base" }
func (stubTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	return "we ship on friday, ana tags the release", nil
}

type stubSummarizer struct{}

func (stubSummarizer) Backend() string      { return "ollama" }
func (stubSummarizer) DefaultModel() string { return "mistral" }
func (stubSummarizer) Summarize(ctx context.Context, transcript, model string) (string, error) {
	return `{"summary": "Release on Friday", "decisions": ["Ship Friday"], "actions": [{"owner": "Ana", "text": "Tag release", "due_date": "2024-06-07"}]}`, nil
}

type harness struct {
	deps *Dependencies
	out  *bytes.Buffer
	dir  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(dir, "meetings.db")
	cfg.Database.ConnectTimeout = 5 * time.Second
	cfg.Export.Backend = "local"
	cfg.Export.Dir = filepath.Join(dir, "published")
	cfg.Media.FFmpegPath = "ffmpeg-not-installed-for-tests"

	out := &bytes.Buffer{}
	deps := &Dependencies{
		Config:      cfg,
		Logger:      zap.NewNop(),
		Out:         out,
		OpenRecords: app.NewRecords,
		OpenApp: func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app.App, error) {
			a, err := app.NewRecords(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			store := cache.NewMemoryStore(time.Hour)
			t.Cleanup(func() { _ = store.Close() })
			a.Sessions = store
			a.Transcriber = stubTranscriber{}
			a.Pipeline = pipeline.NewService(store, stubDecoder{dir: dir}, stubTranscriber{}, stubSummarizer{}, a.Records, logger)
			return a, nil
		},
	}
	return &harness{deps: deps, out: out, dir: dir}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	cmd := NewRootCmd(h.deps)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func (h *harness) recording(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake audio"), 0o644))
	return path
}

func TestProcess_SavesMeeting(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "process", h.recording(t, "weekly-sync.mp3"), "--date", "2024-06-03"))
	out := h.out.String()
	assert.Contains(t, out, "with faster-whisper:base + ollama:mistral")
	assert.Contains(t, out, "## Summary\nRelease on Friday\n")
	assert.Contains(t, out, "- [open] Ana: Tag release (due: 2024-06-07)")
	assert.Contains(t, out, "💾 Saved as meeting #1")

	require.NoError(t, h.run(t, "list"))
	assert.Contains(t, h.out.String(), "#1 • weekly-sync • 2024-06-03 • faster-whisper:base + ollama:mistral")
}

func TestProcess_NoSave(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "process", h.recording(t, "a.wav"), "--no-save"))
	assert.NotContains(t, h.out.String(), "Saved as meeting")

	require.NoError(t, h.run(t, "list"))
	assert.Contains(t, h.out.String(), "No meetings found")
}

func TestProcess_RejectsUnsupportedFile(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "process", h.recording(t, "notes.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestProcess_RejectsBadDate(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "process", h.recording(t, "a.mp3"), "--date", "June 3")
	require.Error(t, err)
}

func TestShowStatusExportDelete(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "process", h.recording(t, "standup.m4a"), "--title", "Standup", "--date", "2024-06-03"))

	require.NoError(t, h.run(t, "show", "1"))
	assert.True(t, strings.HasPrefix(h.out.String(), "# Standup (2024-06-03)"))
	assert.NotContains(t, h.out.String(), "## Transcript")

	require.NoError(t, h.run(t, "status", "1", "DONE"))
	assert.Contains(t, h.out.String(), "Action #1 is now done")
	require.NoError(t, h.run(t, "show", "1"))
	assert.Contains(t, h.out.String(), "- [done] Ana: Tag release")

	assert.Error(t, h.run(t, "status", "1", "archived"))
	assert.Error(t, h.run(t, "status", "99", "open"))

	outDir := filepath.Join(h.dir, "out")
	require.NoError(t, h.run(t, "export", "1", "--transcript", "--out", outDir))
	content, err := os.ReadFile(filepath.Join(outDir, "meeting_1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Transcript\nwe ship on friday")

	require.NoError(t, h.run(t, "export", "1", "--publish"))
	assert.FileExists(t, filepath.Join(h.dir, "published", "meeting_1.md"))

	require.NoError(t, h.run(t, "delete", "1"))
	require.NoError(t, h.run(t, "delete", "1"), "deleting twice is not an error")
	assert.Error(t, h.run(t, "show", "1"))
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestMigrate_ReportsAppliedCount(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "migrate"))
	assert.Contains(t, h.out.String(), "Applied 1 migration(s) on sqlite")

	require.NoError(t, h.run(t, "migrate"))
	assert.Contains(t, h.out.String(), "Applied 0 migration(s)")
}
