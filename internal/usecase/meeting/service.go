package meeting

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meetnotes/errors"
	"github.com/johnquangdev/meetnotes/internal/domain/entities"
	"github.com/johnquangdev/meetnotes/internal/domain/repositories"
)

// ExportSink publishes rendered documents somewhere shareable and returns their location
type ExportSink interface {
	Publish(ctx context.Context, name string, content []byte) (string, error)
}

// SaveInput is everything needed to commit a pipeline result as a meeting record
type SaveInput struct {
	Title       string
	MeetingDate time.Time
	DurationSec int
	Transcript  string
	Analysis    *entities.AnalysisResult
	ModelUsed   string
}

// MeetingDetail is a record with its decisions parsed and its action items attached
type MeetingDetail struct {
	Record    *entities.MeetingRecord `json:"meeting"`
	Decisions []string                `json:"decisions"`
	Actions   []*entities.ActionItem  `json:"actions"`
}

// ExportDocument is a rendered export ready to download
type ExportDocument struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Service exposes the meeting record store to transports
type Service interface {
	Save(ctx context.Context, in SaveInput) (int64, error)
	List(ctx context.Context) ([]*entities.MeetingListItem, error)
	Get(ctx context.Context, id int64) (*MeetingDetail, error)
	UpdateActionStatus(ctx context.Context, actionID int64, status string) (entities.ActionItemStatus, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, id int64, includeTranscript bool) (*ExportDocument, error)
	Publish(ctx context.Context, id int64, includeTranscript bool) (string, error)
}

type service struct {
	repo   repositories.MeetingRepository
	sink   ExportSink
	logger *zap.Logger
}

// NewService creates the meeting service. sink may be nil when publishing is not configured.
func NewService(repo repositories.MeetingRepository, sink ExportSink, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, sink: sink, logger: logger}
}

// ParseMeetingDate parses a YYYY-MM-DD date. An empty string means today.
func ParseMeetingDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.Parse(entities.DateLayout, raw)
	if err != nil {
		return time.Time{}, entities.ErrInvalidDate
	}
	return t, nil
}

func (s *service) Save(ctx context.Context, in SaveInput) (int64, error) {
	analysis := in.Analysis
	if analysis == nil {
		analysis = entities.EmptyAnalysisResult()
	}
	rec := entities.NewMeetingRecord(in.Title, in.MeetingDate, in.DurationSec, in.Transcript, analysis, in.ModelUsed)

	id, err := s.repo.SaveMeeting(ctx, rec, analysis.Actions)
	if err != nil {
		return 0, errors.ErrStorageFailed("save meeting", err)
	}

	s.logger.Info("💾 Meeting saved",
		zap.Int64("meeting_id", id),
		zap.Int("actions", len(analysis.Actions)),
		zap.String("model_used", rec.ModelUsed),
	)
	return id, nil
}

func (s *service) List(ctx context.Context) ([]*entities.MeetingListItem, error) {
	items, err := s.repo.ListMeetings(ctx)
	if err != nil {
		return nil, errors.ErrStorageFailed("list meetings", err)
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id int64) (*MeetingDetail, error) {
	rec, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, mapRecordErr("get meeting", id, err)
	}
	actions, err := s.repo.GetActions(ctx, id)
	if err != nil {
		return nil, errors.ErrStorageFailed("get actions", err)
	}
	return &MeetingDetail{Record: rec, Decisions: rec.DecisionList(), Actions: actions}, nil
}

// UpdateActionStatus parses status case-insensitively and returns the value stored
func (s *service) UpdateActionStatus(ctx context.Context, actionID int64, status string) (entities.ActionItemStatus, error) {
	parsed, err := entities.ParseActionItemStatus(status)
	if err != nil {
		return "", errors.ErrInvalidArgument(err.Error())
	}
	if err := s.repo.UpdateActionStatus(ctx, actionID, parsed); err != nil {
		if stdErrors.Is(err, entities.ErrActionNotFound) {
			return "", errors.ErrActionNotFound(actionID)
		}
		return "", errors.ErrStorageFailed("update action status", err)
	}

	s.logger.Info("✅ Action status updated",
		zap.Int64("action_id", actionID),
		zap.String("status", string(parsed)),
	)
	return parsed, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMeeting(ctx, id); err != nil {
		return errors.ErrStorageFailed("delete meeting", err)
	}
	s.logger.Info("🗑️ Meeting deleted", zap.Int64("meeting_id", id))
	return nil
}

func (s *service) Export(ctx context.Context, id int64, includeTranscript bool) (*ExportDocument, error) {
	rec, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, mapRecordErr("export meeting", id, err)
	}
	actions, err := s.repo.GetActions(ctx, id)
	if err != nil {
		return nil, errors.ErrStorageFailed("get actions", err)
	}

	return &ExportDocument{
		FileName:    FileName(id),
		ContentType: "text/markdown; charset=utf-8",
		Content:     []byte(RenderMarkdown(rec, actions, includeTranscript)),
	}, nil
}

func (s *service) Publish(ctx context.Context, id int64, includeTranscript bool) (string, error) {
	if s.sink == nil {
		return "", errors.ErrExportFailed("markdown", fmt.Errorf("no export sink configured"))
	}
	doc, err := s.Export(ctx, id, includeTranscript)
	if err != nil {
		return "", err
	}

	location, err := s.sink.Publish(ctx, doc.FileName, doc.Content)
	if err != nil {
		return "", errors.ErrExportFailed("markdown", err)
	}

	s.logger.Info("📤 Meeting exported",
		zap.Int64("meeting_id", id),
		zap.String("location", location),
	)
	return location, nil
}

func mapRecordErr(op string, id int64, err error) error {
	if stdErrors.Is(err, entities.ErrMeetingNotFound) {
		return errors.ErrMeetingNotFound(id)
	}
	return errors.ErrStorageFailed(op, err)
}
