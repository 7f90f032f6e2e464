package pipeline

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetnotes/errors"
	"github.com/johnquangdev/meetnotes/internal/domain/entities"
	"github.com/johnquangdev/meetnotes/internal/domain/repositories"
	"github.com/johnquangdev/meetnotes/internal/usecase/meeting"
	"github.com/johnquangdev/meetnotes/pkg/media"
)

// Decoder normalizes uploaded media into a canonical waveform the caller must Close
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (*media.Waveform, error)
}

// Transcriber turns a canonical waveform into text
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// Summarizer turns a transcript into raw, untrusted model output
type Summarizer interface {
	Backend() string
	DefaultModel() string
	Summarize(ctx context.Context, transcript, model string) (string, error)
}

// Recorder commits a finished run to the meeting store
type Recorder interface {
	Save(ctx context.Context, in meeting.SaveInput) (int64, error)
}

// Service runs the decode, transcribe, summarize and normalize chain for a session
// and keeps the latest result until it is replaced or reset
type Service interface {
	Start(ctx context.Context) (*entities.PipelineSession, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error)
	Run(ctx context.Context, id uuid.UUID, upload io.Reader, model string) (*entities.PipelineSession, error)
	Reset(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error)
	Save(ctx context.Context, id uuid.UUID, title string, meetingDate time.Time) (int64, error)
}

type service struct {
	sessions    repositories.SessionStore
	decoder     Decoder
	transcriber Transcriber
	summarizer  Summarizer
	recorder    Recorder
	logger      *zap.Logger
	running     sync.Map // uuid.UUID -> struct{}
}

// NewService wires the pipeline stages
func NewService(
	sessions repositories.SessionStore,
	decoder Decoder,
	transcriber Transcriber,
	summarizer Summarizer,
	recorder Recorder,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		sessions:    sessions,
		decoder:     decoder,
		transcriber: transcriber,
		summarizer:  summarizer,
		recorder:    recorder,
		logger:      logger,
	}
}

// SummarizerTag is the provenance tag of a summarizer and model
func SummarizerTag(s Summarizer, model string) string {
	if model == "" {
		model = s.DefaultModel()
	}
	return s.Backend() + ":" + model
}

// DefaultModelTag is used when a saved session carries no provenance
func (s *service) DefaultModelTag() string {
	return s.transcriber.Name() + " + " + SummarizerTag(s.summarizer, "")
}

func (s *service) Start(ctx context.Context) (*entities.PipelineSession, error) {
	sess := entities.NewPipelineSession()
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, errors.ErrCacheFailed("create session", err)
	}
	s.logger.Info("🆕 Pipeline session created", zap.String("session_id", sess.ID.String()))
	return sess, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error) {
	return s.load(ctx, id)
}

func (s *service) Reset(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error) {
	if _, busy := s.running.LoadOrStore(id, struct{}{}); busy {
		return nil, errors.ErrSessionBusy(id.String())
	}
	defer s.running.Delete(id)

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, errors.ErrCacheFailed("reset session", err)
	}
	s.logger.Info("🧹 Pipeline session reset", zap.String("session_id", id.String()))
	return sess, nil
}

func (s *service) Run(ctx context.Context, id uuid.UUID, upload io.Reader, model string) (*entities.PipelineSession, error) {
	if _, busy := s.running.LoadOrStore(id, struct{}{}); busy {
		return nil, errors.ErrSessionBusy(id.String())
	}
	defer s.running.Delete(id)

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// State writes must land even after the caller gives up
	persistCtx := context.WithoutCancel(ctx)
	log := s.logger.With(zap.String("session_id", id.String()))
	started := time.Now()

	sess.BeginRun()
	if err := s.sessions.Put(persistCtx, sess); err != nil {
		return nil, errors.ErrCacheFailed("store session", err)
	}

	fail := func(stage entities.PipelineStage, appErr errors.AppError) (*entities.PipelineSession, error) {
		sess.MarkFailed(stage, appErr.Error())
		if err := s.sessions.Put(persistCtx, sess); err != nil {
			log.Error("failed to persist failed session", zap.Error(err))
		}
		log.Error("❌ Pipeline stage failed",
			zap.String("stage", string(stage)),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(appErr),
		)
		return sess, appErr
	}
	// stageFailed prefers cancellation over the stage's own error once ctx is done
	stageFailed := func(stage entities.PipelineStage, err error, wrap func(error) errors.AppError) (*entities.PipelineSession, error) {
		if ctx.Err() != nil {
			return fail(stage, errors.ErrPipelineCancelled(string(stage), err))
		}
		return fail(stage, wrap(err))
	}

	// Decode
	if err := ctx.Err(); err != nil {
		return fail(entities.PipelineStageDecoding, errors.ErrPipelineCancelled(string(entities.PipelineStageDecoding), err))
	}
	stageStart := time.Now()
	log.Info("🎞️ Decoding media")
	wav, err := s.decoder.Decode(ctx, upload)
	if err != nil {
		return stageFailed(entities.PipelineStageDecoding, err, errors.ErrDecodeFailed)
	}
	defer func() {
		if err := wav.Close(); err != nil {
			log.Warn("failed to remove waveform", zap.String("path", wav.Path), zap.Error(err))
		}
	}()
	log.Info("✅ Media decoded",
		zap.Int("duration_sec", wav.DurationSec),
		zap.Duration("elapsed", time.Since(stageStart)),
	)

	// Transcribe
	sess.MarkStage(entities.PipelineStageTranscribing)
	if err := s.sessions.Put(persistCtx, sess); err != nil {
		return nil, errors.ErrCacheFailed("store session", err)
	}
	if err := ctx.Err(); err != nil {
		return fail(entities.PipelineStageTranscribing, errors.ErrPipelineCancelled(string(entities.PipelineStageTranscribing), err))
	}
	stageStart = time.Now()
	log.Info("🎙️ Transcribing", zap.String("transcriber", s.transcriber.Name()))
	transcript, err := s.transcriber.Transcribe(ctx, wav.Path)
	if err != nil {
		return stageFailed(entities.PipelineStageTranscribing, err, errors.ErrTranscriptionFailed)
	}
	sess.MarkTranscribed(transcript, wav.DurationSec, s.transcriber.Name())
	log.Info("✅ Transcription completed",
		zap.Int("chars", len(transcript)),
		zap.Duration("elapsed", time.Since(stageStart)),
	)

	// Summarize and normalize
	sess.MarkStage(entities.PipelineStageSummarizing)
	if err := s.sessions.Put(persistCtx, sess); err != nil {
		return nil, errors.ErrCacheFailed("store session", err)
	}
	if err := ctx.Err(); err != nil {
		return fail(entities.PipelineStageSummarizing, errors.ErrPipelineCancelled(string(entities.PipelineStageSummarizing), err))
	}
	stageStart = time.Now()
	tag := SummarizerTag(s.summarizer, model)
	log.Info("🤖 Summarizing", zap.String("summarizer", tag))
	raw, err := s.summarizer.Summarize(ctx, transcript, model)
	if err != nil {
		return stageFailed(entities.PipelineStageSummarizing, err, errors.ErrSummarizationFailed)
	}
	result := meeting.Normalize(raw)
	sess.MarkSummarized(result, tag)
	if err := s.sessions.Put(persistCtx, sess); err != nil {
		return nil, errors.ErrCacheFailed("store session", err)
	}

	log.Info("✅ Pipeline completed",
		zap.Int("decisions", len(result.Decisions)),
		zap.Int("actions", len(result.Actions)),
		zap.String("model_used", sess.ModelUsed),
		zap.Duration("summarize_elapsed", time.Since(stageStart)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return sess, nil
}

func (s *service) Save(ctx context.Context, id uuid.UUID, title string, meetingDate time.Time) (int64, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}
	if !sess.CanBeSaved() {
		return 0, errors.ErrNothingToSave(id.String())
	}

	modelUsed := sess.ModelUsed
	if modelUsed == "" {
		modelUsed = s.DefaultModelTag()
	}

	meetingID, err := s.recorder.Save(ctx, meeting.SaveInput{
		Title:       title,
		MeetingDate: meetingDate,
		DurationSec: sess.DurationSec,
		Transcript:  sess.Transcript,
		Analysis:    sess.Analysis(),
		ModelUsed:   modelUsed,
	})
	if err != nil {
		return 0, err
	}

	// The session keeps its result so it can still be displayed after saving
	sess.MarkSaved(meetingID)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return 0, errors.ErrCacheFailed("store session", fmt.Errorf("meeting %d saved: %w", meetingID, err))
	}
	s.logger.Info("💾 Session saved as meeting",
		zap.String("session_id", id.String()),
		zap.Int64("meeting_id", meetingID),
	)
	return meetingID, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrSessionNotFound) {
			return nil, errors.ErrSessionNotFound(id.String())
		}
		return nil, errors.ErrCacheFailed("load session", err)
	}
	return sess, nil
}
