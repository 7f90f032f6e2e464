package entities

import "strings"

// ActionItemStatus is the workflow state of an action item.
// Any status may move to any other status; there is no transition table.
type ActionItemStatus string

const (
	ActionItemStatusOpen      ActionItemStatus = "open"
	ActionItemStatusDone      ActionItemStatus = "done"
	ActionItemStatusBlocked   ActionItemStatus = "blocked"
	ActionItemStatusCancelled ActionItemStatus = "cancelled"
)

// DefaultOwner is stored when the summarizer could not name an owner
const DefaultOwner = "TBD"

// ActionItemStatuses lists every valid status in display order
var ActionItemStatuses = []ActionItemStatus{
	ActionItemStatusOpen,
	ActionItemStatusDone,
	ActionItemStatusBlocked,
	ActionItemStatusCancelled,
}

// IsValid reports whether s is one of the four known statuses
func (s ActionItemStatus) IsValid() bool {
	switch s {
	case ActionItemStatusOpen, ActionItemStatusDone, ActionItemStatusBlocked, ActionItemStatusCancelled:
		return true
	}
	return false
}

// ParseActionItemStatus parses a status case-insensitively
func ParseActionItemStatus(raw string) (ActionItemStatus, error) {
	s := ActionItemStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ActionItem is a persisted task owned by exactly one MeetingRecord
type ActionItem struct {
	ID        int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID int64            `json:"meeting_id" gorm:"not null;index"`
	Owner     string           `json:"owner" gorm:"type:text"`
	Text      string           `json:"text" gorm:"type:text"`
	DueDate   *string          `json:"due_date" gorm:"type:text"`
	Status    ActionItemStatus `json:"status" gorm:"type:text;not null;default:'open'"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "actions"
}

// NewActionItem builds an action item for meetingID from a normalized draft,
// applying the owner and status defaults
func NewActionItem(meetingID int64, draft ActionItemExtracted) *ActionItem {
	item := &ActionItem{
		MeetingID: meetingID,
		Owner:     draft.Owner,
		Text:      draft.Text,
		DueDate:   draft.DueDate,
		Status:    draft.Status,
	}
	if item.Owner == "" {
		item.Owner = DefaultOwner
	}
	if !item.Status.IsValid() {
		item.Status = ActionItemStatusOpen
	}
	return item
}

// OwnerOrDefault returns the owner, or TBD when empty
func (a *ActionItem) OwnerOrDefault() string {
	if a.Owner == "" {
		return DefaultOwner
	}
	return a.Owner
}

// DueOrDefault returns the due date, or TBD when unknown
func (a *ActionItem) DueOrDefault() string {
	if a.DueDate == nil || *a.DueDate == "" {
		return DefaultOwner
	}
	return *a.DueDate
}
