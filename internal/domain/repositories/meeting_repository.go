package repositories

import (
	"context"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
)

// MeetingRepository defines persistence operations for meeting records and their action items.
// Failures of the underlying engine wrap entities.ErrStorage.
type MeetingRepository interface {
	// InitSchema creates the meetings and actions relations if absent. Safe on every start.
	InitSchema(ctx context.Context) error

	// InsertMeeting appends a record and returns the store-assigned id
	InsertMeeting(ctx context.Context, rec *entities.MeetingRecord) (int64, error)

	// InsertActions appends one action item per draft in a single transaction
	InsertActions(ctx context.Context, meetingID int64, drafts []entities.ActionItemExtracted) ([]*entities.ActionItem, error)

	// SaveMeeting inserts a record together with its action items atomically
	SaveMeeting(ctx context.Context, rec *entities.MeetingRecord, drafts []entities.ActionItemExtracted) (int64, error)

	// ListMeetings returns summary rows, most recent first
	ListMeetings(ctx context.Context) ([]*entities.MeetingListItem, error)

	// GetMeeting returns the record or entities.ErrMeetingNotFound
	GetMeeting(ctx context.Context, id int64) (*entities.MeetingRecord, error)

	// GetActions returns the meeting's action items by ascending id.
	// An unknown meeting yields an empty slice.
	GetActions(ctx context.Context, meetingID int64) ([]*entities.ActionItem, error)

	// UpdateActionStatus sets the status unconditionally
	UpdateActionStatus(ctx context.Context, actionID int64, status entities.ActionItemStatus) error

	// DeleteMeeting removes the record and its action items. Unknown ids are a no-op.
	DeleteMeeting(ctx context.Context, id int64) error

	// Ping checks the storage engine is reachable
	Ping(ctx context.Context) error
}
