package presenter

import (
	"github.com/johnquangdev/meetnotes/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meetnotes/internal/domain/entities"
	meetingUsecase "github.com/johnquangdev/meetnotes/internal/usecase/meeting"
)

// ToMeetingListResponse converts listing rows to DTOs
func ToMeetingListResponse(items []*entities.MeetingListItem) []*meeting.MeetingListItemResponse {
	out := make([]*meeting.MeetingListItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, &meeting.MeetingListItemResponse{
			ID:          it.ID,
			Title:       it.Title,
			MeetingDate: it.MeetingDate,
			DurationSec: it.DurationSec,
			ModelUsed:   it.ModelUsed,
			Label:       it.Label(),
			CreatedAt:   it.CreatedAt,
		})
	}
	return out
}

// ToMeetingDetailResponse converts a meeting with its actions to a DTO
func ToMeetingDetailResponse(d *meetingUsecase.MeetingDetail) *meeting.MeetingDetailResponse {
	if d == nil || d.Record == nil {
		return nil
	}
	rec := d.Record
	return &meeting.MeetingDetailResponse{
		ID:          rec.ID,
		Title:       rec.Title,
		MeetingDate: rec.MeetingDate,
		DurationSec: rec.DurationSec,
		Transcript:  rec.Transcript,
		Summary:     rec.Summary,
		Decisions:   d.Decisions,
		ModelUsed:   rec.ModelUsed,
		CreatedAt:   rec.CreatedAt,
		Actions:     ToActionItemResponses(d.Actions),
	}
}

// ToActionItemResponses converts persisted action items to DTOs, never returning nil
func ToActionItemResponses(items []*entities.ActionItem) []meeting.ActionItemResponse {
	out := make([]meeting.ActionItemResponse, 0, len(items))
	for _, a := range items {
		out = append(out, meeting.ActionItemResponse{
			ID:        a.ID,
			MeetingID: a.MeetingID,
			Owner:     a.Owner,
			Text:      a.Text,
			DueDate:   a.DueDate,
			Status:    string(a.Status),
		})
	}
	return out
}
