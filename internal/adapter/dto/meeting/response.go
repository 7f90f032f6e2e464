package meeting

import "time"

// MeetingListItemResponse represents one row of the meetings listing
type MeetingListItemResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	MeetingDate string    `json:"meeting_date"`
	DurationSec int       `json:"duration_sec"`
	ModelUsed   string    `json:"model_used"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
}

// MeetingDetailResponse represents a meeting with parsed decisions and its actions
type MeetingDetailResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	MeetingDate string               `json:"meeting_date"`
	DurationSec int                  `json:"duration_sec"`
	Transcript  string               `json:"transcript"`
	Summary     string               `json:"summary"`
	Decisions   []string             `json:"decisions"`
	ModelUsed   string               `json:"model_used"`
	CreatedAt   time.Time            `json:"created_at"`
	Actions     []ActionItemResponse `json:"actions"`
}

// ActionItemResponse represents a persisted action item
type ActionItemResponse struct {
	ID        int64   `json:"id"`
	MeetingID int64   `json:"meeting_id"`
	Owner     string  `json:"owner"`
	Text      string  `json:"text"`
	DueDate   *string `json:"due_date"`
	Status    string  `json:"status"`
}

// PublishResponse represents where an export was published
type PublishResponse struct {
	FileName string `json:"file_name"`
	Location string `json:"location"`
}
