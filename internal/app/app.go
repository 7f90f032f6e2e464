package app

import (
	"context"
	stdErrors "errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meetnotes/internal/adapter/repository"
	"github.com/johnquangdev/meetnotes/internal/domain/repositories"
	"github.com/johnquangdev/meetnotes/internal/infrastructure/cache"
	"github.com/johnquangdev/meetnotes/internal/infrastructure/database"
	"github.com/johnquangdev/meetnotes/internal/infrastructure/storage"
	"github.com/johnquangdev/meetnotes/internal/usecase/meeting"
	"github.com/johnquangdev/meetnotes/internal/usecase/pipeline"
	"github.com/johnquangdev/meetnotes/pkg/ai"
	"github.com/johnquangdev/meetnotes/pkg/config"
	"github.com/johnquangdev/meetnotes/pkg/media"
)

// Check is a named reachability probe used by /health and the doctor command
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// summarizer is what the app needs from a summarizer backend
type summarizer interface {
	pipeline.Summarizer
	pinger
}

// App holds every wired component. Build it with New or NewRecords and release it with Close.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB       *gorm.DB
	Meetings repositories.MeetingRepository
	Records  meeting.Service
	Sink     meeting.ExportSink

	// Set by New only
	Sessions    repositories.SessionStore
	Decoder     *media.Decoder
	Transcriber pipeline.Transcriber
	Summarizer  summarizer
	Pipeline    pipeline.Service

	closers []func() error
}

// NewLogger builds the process logger for the configured environment
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewRecords wires the record store, its schema and the export sink.
// It is enough for commands that never run the pipeline.
func NewRecords(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	logger.Info("📦 Connecting to database...", zap.String("driver", cfg.Database.Driver))
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() error { return database.Close(db) })

	a.Meetings = repository.NewMeetingRepository(db, cfg.Database.Driver, logger)
	if err := a.Meetings.InitSchema(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	sink, err := newSink(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Sink = sink
	a.Records = meeting.NewService(a.Meetings, sink, logger)

	logger.Info("✅ Record store ready", zap.String("export_backend", cfg.Export.Backend))
	return a, nil
}

// New wires the record store plus the full pipeline: session store, decoder and AI backends
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a, err := NewRecords(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Sessions = sessions
	a.closers = append(a.closers, closeSessions)

	a.Decoder = media.NewDecoder(cfg.Media.FFmpegPath, cfg.Media.TempDir)
	if path, err := a.Decoder.Available(); err != nil {
		logger.Warn("⚠️  ffmpeg not found, uploads will fail to decode", zap.Error(err))
	} else {
		logger.Info("🎞️ ffmpeg found", zap.String("path", path))
	}

	a.Transcriber = newTranscriber(cfg)
	a.Summarizer = newSummarizer(cfg)
	a.Pipeline = pipeline.NewService(a.Sessions, a.Decoder, a.Transcriber, a.Summarizer, a.Records, logger)

	logger.Info("🤖 Pipeline ready",
		zap.String("transcriber", a.Transcriber.Name()),
		zap.String("summarizer", pipeline.SummarizerTag(a.Summarizer, "")),
		zap.String("session_backend", cfg.Session.Backend),
	)
	return a, nil
}

// Checks lists the reachability probes for the wired components
func (a *App) Checks() []Check {
	checks := []Check{{Name: "database", Fn: a.Meetings.Ping}}
	if p, ok := a.Sink.(pinger); ok {
		checks = append(checks, Check{Name: "export:" + a.Config.Export.Backend, Fn: p.Ping})
	}
	if a.Summarizer != nil {
		checks = append(checks, Check{Name: "summarizer:" + a.Summarizer.Backend(), Fn: a.Summarizer.Ping})
	}
	if p, ok := a.Transcriber.(pinger); ok {
		checks = append(checks, Check{Name: "transcriber", Fn: p.Ping})
	}
	return checks
}

// Close releases everything in reverse construction order
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return stdErrors.Join(errs...)
}

func newSink(ctx context.Context, cfg *config.Config) (meeting.ExportSink, error) {
	switch cfg.Export.Backend {
	case "minio":
		sink, err := storage.NewMinIOSink(ctx, &cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("init minio export sink: %w", err)
		}
		return sink, nil
	default:
		sink, err := storage.NewLocalSink(cfg.Export.Dir)
		if err != nil {
			return nil, fmt.Errorf("init local export sink: %w", err)
		}
		return sink, nil
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config) (repositories.SessionStore, func() error, error) {
	switch cfg.Session.Backend {
	case "redis":
		store, err := cache.NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis session store: %w", err)
		}
		return store, store.Close, nil
	default:
		store := cache.NewMemoryStore(cfg.Session.TTL)
		return store, store.Close, nil
	}
}

func newTranscriber(cfg *config.Config) pipeline.Transcriber {
	if cfg.Transcriber.Backend == "assemblyai" {
		return ai.NewAssemblyAIClient(cfg.Assembly)
	}
	return ai.NewWhisperClient(cfg.Whisper)
}

func newSummarizer(cfg *config.Config) summarizer {
	if cfg.Summarizer.Backend == "groq" {
		return ai.NewGroqClient(cfg.Groq, cfg.Summarizer)
	}
	return ai.NewOllamaClient(cfg.Ollama, cfg.Summarizer)
}
