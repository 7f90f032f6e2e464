package presenter

import (
	"github.com/johnquangdev/meetnotes/internal/adapter/dto/session"
	"github.com/johnquangdev/meetnotes/internal/domain/entities"
)

// ToSessionResponse converts a pipeline session to its DTO
func ToSessionResponse(s *entities.PipelineSession) *session.SessionResponse {
	if s == nil {
		return nil
	}

	decisions := s.Decisions
	if decisions == nil {
		decisions = []string{}
	}
	actions := make([]session.ActionDraftResponse, 0, len(s.Actions))
	for _, a := range s.Actions {
		actions = append(actions, session.ActionDraftResponse{
			Owner:   a.Owner,
			Text:    a.Text,
			DueDate: a.DueDate,
			Status:  string(a.Status),
		})
	}

	return &session.SessionResponse{
		ID:                 s.ID,
		Stage:              string(s.Stage),
		FailedStage:        string(s.FailedStage),
		Error:              s.Error,
		Transcribed:        s.Transcribed,
		Transcript:         s.Transcript,
		DurationSec:        s.DurationSec,
		Summary:            s.Summary,
		Decisions:          decisions,
		Actions:            actions,
		ModelUsed:          s.ModelUsed,
		LastSavedMeetingID: s.LastSavedMeetingID,
		UpdatedAt:          s.UpdatedAt,
	}
}
