package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetnotes/errors"
	"github.com/johnquangdev/meetnotes/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meetnotes/internal/adapter/presenter"
	meetingUsecase "github.com/johnquangdev/meetnotes/internal/usecase/meeting"
)

// Meeting handles saved meeting and action item endpoints
type Meeting struct {
	svc    meetingUsecase.Service
	logger *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(svc meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, logger: logger}
}

// List handles GET /v1/meetings, newest first
func (h *Meeting) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(items))
}

// Get handles GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	detail, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingDetailResponse(detail))
}

// Delete handles DELETE /v1/meetings/:id. Deleting an unknown id succeeds.
func (h *Meeting) Delete(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateActionStatus handles PATCH /v1/actions/:id
func (h *Meeting) UpdateActionStatus(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meeting.UpdateActionStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	status, err := h.svc.UpdateActionStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"id": id, "status": status})
}

// Export handles GET /v1/meetings/:id/export as a markdown download
func (h *Meeting) Export(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	req, err := bindExportRequest(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	doc, err := h.svc.Export(c.Request().Context(), id, req.Transcript)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Content)
}

// Publish handles POST /v1/meetings/:id/export and writes the document to the configured sink
func (h *Meeting) Publish(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	req, err := bindExportRequest(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	location, err := h.svc.Publish(c.Request().Context(), id, req.Transcript)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meeting.PublishResponse{
		FileName: meetingUsecase.FileName(id),
		Location: location,
	})
}

// bindExportRequest reads the query string for both GET and POST
func bindExportRequest(c echo.Context) (meeting.ExportRequest, error) {
	var req meeting.ExportRequest
	if err := echo.QueryParamsBinder(c).Bool("transcript", &req.Transcript).BindError(); err != nil {
		return req, errors.ErrInvalidArgument("transcript must be a boolean")
	}
	return req, nil
}
