package pipeline

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meetnotes/errors"
	"github.com/johnquangdev/meetnotes/internal/domain/entities"
	"github.com/johnquangdev/meetnotes/internal/infrastructure/cache"
	"github.com/johnquangdev/meetnotes/internal/usecase/meeting"
	"github.com/johnquangdev/meetnotes/pkg/media"
)

type fakeDecoder struct {
	dir      string
	err      error
	duration int
	lastPath string
}

func (d *fakeDecoder) Decode(ctx context.Context, r io.Reader) (*media.Waveform, error) {
	if d.err != nil {
		return nil, d.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(d.dir, "wave-*.wav")
	if err != nil {
		return nil, err
	}
	_ = f.Close()
	d.lastPath = f.Name()
	return &media.Waveform{
		Path:        f.Name(),
		SampleRate:  media.SampleRate,
		Channels:    media.Channels,
		DurationMs:  int64(d.duration) * 1000,
		DurationSec: d.duration,
	}, nil
}

type fakeTranscriber struct {
	text    string
	err     error
	hook    func(ctx context.Context)
	gotPath string
}

func (t *fakeTranscriber) Name() string { return "faster-whisper:base" }

func (t *fakeTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	t.gotPath = wavPath
	if t.hook != nil {
		t.hook(ctx)
	}
	if t.err != nil {
		return "", t.err
	}
	return t.text, nil
}

type fakeSummarizer struct {
	raw        string
	err        error
	gotModel   string
	transcript string
}

func (s *fakeSummarizer) Backend() string      { return "ollama" }
func (s *fakeSummarizer) DefaultModel() string { return "mistral" }

func (s *fakeSummarizer) Summarize(ctx context.Context, transcript, model string) (string, error) {
	s.gotModel = model
	s.transcript = transcript
	if s.err != nil {
		return "", s.err
	}
	return s.raw, nil
}

type fakeRecorder struct {
	saved  []meeting.SaveInput
	nextID int64
	err    error
}

func (r *fakeRecorder) Save(ctx context.Context, in meeting.SaveInput) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.saved = append(r.saved, in)
	r.nextID++
	return r.nextID, nil
}

type fixture struct {
	svc         Service
	store       *cache.MemoryStore
	decoder     *fakeDecoder
	transcriber *fakeTranscriber
	summarizer  *fakeSummarizer
	recorder    *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := cache.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		store:       store,
		decoder:     &fakeDecoder{dir: t.TempDir(), duration: 125},
		transcriber: &fakeTranscriber{text: "we agreed to ship on friday"},
		summarizer: &fakeSummarizer{
			raw: `Sure! {"summary": "Release planning", "decisions": ["Ship Friday"], "actions": [{"owner": "Ana", "text": "Tag release", "due_date": "2024-06-07"}]}`,
		},
		recorder: &fakeRecorder{},
	}
	f.svc = NewService(store, f.decoder, f.transcriber, f.summarizer, f.recorder, nil)
	return f
}

func (f *fixture) start(t *testing.T) uuid.UUID {
	t.Helper()
	sess, err := f.svc.Start(context.Background())
	require.NoError(t, err)
	return sess.ID
}

func codeOf(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestRun_CompletesAllStages(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)

	sess, err := f.svc.Run(context.Background(), id, strings.NewReader("media bytes"), "")
	require.NoError(t, err)

	assert.Equal(t, entities.PipelineStageCompleted, sess.Stage)
	assert.True(t, sess.Transcribed)
	assert.Equal(t, "we agreed to ship on friday", sess.Transcript)
	assert.Equal(t, 125, sess.DurationSec)
	assert.Equal(t, "Release planning", sess.Summary.Render())
	assert.Equal(t, []string{"Ship Friday"}, sess.Decisions)
	require.Len(t, sess.Actions, 1)
	assert.Equal(t, "Ana", sess.Actions[0].Owner)
	assert.Equal(t, entities.ActionItemStatusOpen, sess.Actions[0].Status)
	assert.Equal(t, "faster-whisper:base + ollama:mistral", sess.ModelUsed)

	assert.Equal(t, "we agreed to ship on friday", f.summarizer.transcript)
	assert.Equal(t, f.decoder.lastPath, f.transcriber.gotPath)
	assert.NoFileExists(t, f.decoder.lastPath, "waveform must be removed after the run")

	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, sess.ModelUsed, stored.ModelUsed)
	assert.Equal(t, entities.PipelineStageCompleted, stored.Stage)
}

func TestRun_ExplicitModelIsTagged(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)

	sess, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "llama3")
	require.NoError(t, err)
	assert.Equal(t, "llama3", f.summarizer.gotModel)
	assert.Equal(t, "faster-whisper:base + ollama:llama3", sess.ModelUsed)
}

func TestRun_GarbageSummaryNormalizesToEmpty(t *testing.T) {
	f := newFixture(t)
	f.summarizer.raw = "I could not find anything useful."
	id := f.start(t)

	sess, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineStageCompleted, sess.Stage)
	assert.True(t, sess.Summary.IsEmpty())
	assert.Empty(t, sess.Decisions)
	assert.Empty(t, sess.Actions)
}

func TestRun_DecodeFailure(t *testing.T) {
	f := newFixture(t)
	f.decoder.err = fmt.Errorf("%w: not media", media.ErrDecode)
	id := f.start(t)

	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCode_MEDIA_DECODE_FAILED, codeOf(t, err))
	assert.ErrorIs(t, err, media.ErrDecode)

	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineStageFailed, stored.Stage)
	assert.Equal(t, entities.PipelineStageDecoding, stored.FailedStage)
	assert.NotEmpty(t, stored.Error)
	assert.False(t, stored.Transcribed)
	assert.Empty(t, f.transcriber.gotPath, "transcriber must not run")
}

func TestRun_TranscriptionFailure(t *testing.T) {
	f := newFixture(t)
	f.transcriber.err = stdErrors.New("model crashed")
	id := f.start(t)

	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	assert.Equal(t, errors.ErrorCode_AI_TRANSCRIPTION_FAILED, codeOf(t, err))
	assert.NoFileExists(t, f.decoder.lastPath)

	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineStageTranscribing, stored.FailedStage)
	assert.False(t, stored.CanBeSaved())
}

func TestRun_SummarizationFailureKeepsTranscript(t *testing.T) {
	f := newFixture(t)
	f.summarizer.err = stdErrors.New("connection refused")
	id := f.start(t)

	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	assert.Equal(t, errors.ErrorCode_AI_SUMMARIZATION_FAILED, codeOf(t, err))

	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineStageSummarizing, stored.FailedStage)
	assert.True(t, stored.Transcribed)
	assert.Equal(t, "we agreed to ship on friday", stored.Transcript)
	assert.Equal(t, "faster-whisper:base", stored.ModelUsed)
	assert.True(t, stored.Summary.IsEmpty())
}

func TestRun_CancelledDuringTranscription(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.transcriber.hook = func(context.Context) { cancel() }
	f.transcriber.err = context.Canceled
	id := f.start(t)

	_, err := f.svc.Run(ctx, id, strings.NewReader("x"), "")
	assert.Equal(t, errors.ErrorCode_PIPELINE_CANCELLED, codeOf(t, err))
	assert.ErrorIs(t, err, context.Canceled)

	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineStageFailed, stored.Stage)
	assert.Equal(t, entities.PipelineStageTranscribing, stored.FailedStage)
}

func TestRun_CancelledBeforeSummarization(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.transcriber.hook = func(context.Context) { cancel() }
	id := f.start(t)

	_, err := f.svc.Run(ctx, id, strings.NewReader("x"), "")
	assert.Equal(t, errors.ErrorCode_PIPELINE_CANCELLED, codeOf(t, err))
	assert.Empty(t, f.summarizer.transcript, "summarizer must not run after cancellation")

	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineStageSummarizing, stored.FailedStage)
	assert.True(t, stored.Transcribed, "transcript survives a later cancellation")
}

func TestRun_SessionBusy(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.transcriber.hook = func(context.Context) {
		close(entered)
		<-release
	}
	id := f.start(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
		done <- err
	}()
	<-entered

	_, err := f.svc.Run(context.Background(), id, strings.NewReader("y"), "")
	assert.Equal(t, errors.ErrorCode_PIPELINE_SESSION_BUSY, codeOf(t, err))
	_, err = f.svc.Reset(context.Background(), id)
	assert.Equal(t, errors.ErrorCode_PIPELINE_SESSION_BUSY, codeOf(t, err))

	close(release)
	require.NoError(t, <-done)

	// The guard is released once the run returns
	f.transcriber.hook = nil
	_, err = f.svc.Run(context.Background(), id, strings.NewReader("z"), "")
	assert.NoError(t, err)
}

// gatedStore runs gate before every Get
type gatedStore struct {
	*cache.MemoryStore
	gate func()
}

func (g *gatedStore) Get(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error) {
	g.gate()
	return g.MemoryStore.Get(ctx, id)
}

func TestReset_HoldsSessionAgainstRun(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	store := &gatedStore{MemoryStore: f.store, gate: func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}}
	svc := NewService(store, f.decoder, f.transcriber, f.summarizer, f.recorder, nil)
	id := f.start(t)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Reset(context.Background(), id)
		done <- err
	}()
	<-entered

	_, err := svc.Run(context.Background(), id, strings.NewReader("x"), "")
	assert.Equal(t, errors.ErrorCode_PIPELINE_SESSION_BUSY, codeOf(t, err))

	close(release)
	require.NoError(t, <-done)

	sess, err := svc.Run(context.Background(), id, strings.NewReader("y"), "")
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineStageCompleted, sess.Stage)
}

func TestRun_NewRunReplacesPreviousResult(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)

	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.NoError(t, err)
	_, err = f.svc.Save(context.Background(), id, "First", time.Now())
	require.NoError(t, err)

	f.transcriber.text = "second meeting"
	f.summarizer.raw = `{"summary": "Other", "decisions": [], "actions": []}`
	sess, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.NoError(t, err)
	assert.Equal(t, "second meeting", sess.Transcript)
	assert.Empty(t, sess.Actions)
	assert.Nil(t, sess.LastSavedMeetingID)
}

func TestRun_UnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Run(context.Background(), uuid.New(), strings.NewReader("x"), "")
	assert.Equal(t, errors.ErrorCode_PIPELINE_SESSION_NOT_FOUND, codeOf(t, err))
}

func TestGet_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)
	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.NoError(t, err)

	first, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	second, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, first.Transcript, second.Transcript)
	assert.Equal(t, first.Actions, second.Actions)
}

func TestReset_ClearsResult(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)
	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.NoError(t, err)

	sess, err := f.svc.Reset(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineStageIdle, sess.Stage)
	assert.False(t, sess.Transcribed)
	assert.Empty(t, sess.Transcript)
	assert.Empty(t, sess.ModelUsed)

	_, err = f.svc.Save(context.Background(), id, "t", time.Now())
	assert.Equal(t, errors.ErrorCode_PIPELINE_NOTHING_TO_SAVE, codeOf(t, err))
}

func TestSave_CommitsSessionResult(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)
	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.NoError(t, err)

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	meetingID, err := f.svc.Save(context.Background(), id, "Release sync", date)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meetingID)

	require.Len(t, f.recorder.saved, 1)
	in := f.recorder.saved[0]
	assert.Equal(t, "Release sync", in.Title)
	assert.Equal(t, date, in.MeetingDate)
	assert.Equal(t, 125, in.DurationSec)
	assert.Equal(t, "we agreed to ship on friday", in.Transcript)
	assert.Equal(t, "faster-whisper:base + ollama:mistral", in.ModelUsed)
	require.Len(t, in.Analysis.Actions, 1)

	// Saving does not clear the session
	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.Transcribed)
	require.NotNil(t, stored.LastSavedMeetingID)
	assert.Equal(t, meetingID, *stored.LastSavedMeetingID)

	// Saving twice creates a second record
	again, err := f.svc.Save(context.Background(), id, "Release sync", date)
	require.NoError(t, err)
	assert.NotEqual(t, meetingID, again)
}

func TestSave_AfterSummarizationFailure(t *testing.T) {
	f := newFixture(t)
	f.summarizer.err = stdErrors.New("timeout")
	id := f.start(t)
	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.Error(t, err)

	_, err = f.svc.Save(context.Background(), id, "Partial", time.Now())
	require.NoError(t, err)
	in := f.recorder.saved[0]
	assert.Equal(t, "faster-whisper:base", in.ModelUsed)
	assert.True(t, in.Analysis.Summary.IsEmpty())
	assert.Empty(t, in.Analysis.Actions)
}

func TestSave_EmptyProvenanceFallsBackToDefaultTag(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)

	sess, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	sess.Transcribed = true
	sess.Transcript = "typed in by hand"
	require.NoError(t, f.store.Put(context.Background(), sess))

	_, err = f.svc.Save(context.Background(), id, "Manual", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "faster-whisper:base + ollama:mistral", f.recorder.saved[0].ModelUsed)
}

func TestSave_NothingToSave(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)

	_, err := f.svc.Save(context.Background(), id, "t", time.Now())
	assert.Equal(t, errors.ErrorCode_PIPELINE_NOTHING_TO_SAVE, codeOf(t, err))
	assert.Empty(t, f.recorder.saved)
}

func TestSave_RecorderErrorPassesThrough(t *testing.T) {
	f := newFixture(t)
	f.recorder.err = errors.ErrStorageFailed("save meeting", stdErrors.New("disk full"))
	id := f.start(t)
	_, err := f.svc.Run(context.Background(), id, strings.NewReader("x"), "")
	require.NoError(t, err)

	_, err = f.svc.Save(context.Background(), id, "t", time.Now())
	assert.Equal(t, errors.ErrorCode_DB_STORAGE_FAILED, codeOf(t, err))

	stored, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, stored.LastSavedMeetingID)
}
