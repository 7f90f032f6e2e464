package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetnotes/errors"
	"github.com/johnquangdev/meetnotes/internal/adapter/dto/session"
	"github.com/johnquangdev/meetnotes/internal/adapter/presenter"
	meetingUsecase "github.com/johnquangdev/meetnotes/internal/usecase/meeting"
	"github.com/johnquangdev/meetnotes/internal/usecase/pipeline"
	"github.com/johnquangdev/meetnotes/pkg/media"
)

// Session handles pipeline session endpoints
type Session struct {
	svc            pipeline.Service
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc pipeline.Service, maxUploadMB int64, logger *zap.Logger) *Session {
	return &Session{svc: svc, maxUploadBytes: maxUploadMB << 20, logger: logger}
}

// Create handles POST /v1/sessions
func (h *Session) Create(c echo.Context) error {
	sess, err := h.svc.Start(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToSessionResponse(sess))
}

// Get handles GET /v1/sessions/:id. Reading never changes the session.
func (h *Session) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	sess, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(sess))
}

// Run handles POST /v1/sessions/:id/run with the media as multipart field "file"
func (h *Session) Run(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req session.RunSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("multipart field \"file\" is required"))
	}
	if !media.IsSupportedExtension(fh.Filename) {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("unsupported media type").
			WithDetail("file", fh.Filename).
			WithDetail("accepted", fmt.Sprint(media.SupportedExtensions)))
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("upload too large").
			WithDetail("max_bytes", fmt.Sprint(h.maxUploadBytes)))
	}

	f, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer f.Close()

	if h.logger != nil {
		h.logger.Info("📥 Media received",
			zap.String("session_id", id.String()),
			zap.String("file", fh.Filename),
			zap.Int64("bytes", fh.Size),
		)
	}

	sess, err := h.svc.Run(c.Request().Context(), id, f, req.Model)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(sess))
}

// Save handles POST /v1/sessions/:id/save
func (h *Session) Save(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req session.SaveSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	date, err := meetingUsecase.ParseMeetingDate(req.MeetingDate)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	meetingID, err := h.svc.Save(c.Request().Context(), id, req.Title, date)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, session.SaveSessionResponse{MeetingID: meetingID})
}

// Reset handles DELETE /v1/sessions/:id
func (h *Session) Reset(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	sess, err := h.svc.Reset(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(sess))
}
