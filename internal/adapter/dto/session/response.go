package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
)

// SessionResponse represents the current in-flight pipeline state
type SessionResponse struct {
	ID                 uuid.UUID             `json:"id"`
	Stage              string                `json:"stage"`
	FailedStage        string                `json:"failed_stage,omitempty"`
	Error              string                `json:"error,omitempty"`
	Transcribed        bool                  `json:"transcribed"`
	Transcript         string                `json:"transcript"`
	DurationSec        int                   `json:"duration_sec"`
	Summary            entities.SummaryText  `json:"summary"`
	Decisions          []string              `json:"decisions"`
	Actions            []ActionDraftResponse `json:"actions"`
	ModelUsed          string                `json:"model_used"`
	LastSavedMeetingID *int64                `json:"last_saved_meeting_id,omitempty"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// ActionDraftResponse represents an extracted action that is not persisted yet
type ActionDraftResponse struct {
	Owner   string  `json:"owner"`
	Text    string  `json:"text"`
	DueDate *string `json:"due_date"`
	Status  string  `json:"status"`
}

// SaveSessionResponse represents the result of saving a session
type SaveSessionResponse struct {
	MeetingID int64 `json:"meeting_id"`
}
