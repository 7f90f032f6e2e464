package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the calendar date format used for meeting dates
const DateLayout = "2006-01-02"

// MeetingRecord is a persisted meeting. It is created once and never updated in place.
type MeetingRecord struct {
	ID          int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string         `json:"title" gorm:"type:text"`
	MeetingDate string         `json:"meeting_date" gorm:"type:text"`
	DurationSec int            `json:"duration_sec" gorm:"not null;default:0"`
	Transcript  string         `json:"transcript" gorm:"type:text"`
	Summary     string         `json:"summary" gorm:"type:text"`
	Decisions   datatypes.JSON `json:"decisions" gorm:"type:text"`
	ModelUsed   string         `json:"model_used" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (MeetingRecord) TableName() string {
	return "meetings"
}

// NewMeetingRecord builds a record ready for insertion.
// The summary is flattened to display text and decisions are serialized as a JSON array.
func NewMeetingRecord(title string, meetingDate time.Time, durationSec int, transcript string, result *AnalysisResult, modelUsed string) *MeetingRecord {
	if durationSec < 0 {
		durationSec = 0
	}
	rec := &MeetingRecord{
		Title:       title,
		MeetingDate: meetingDate.Format(DateLayout),
		DurationSec: durationSec,
		Transcript:  transcript,
		Decisions:   EncodeDecisions(nil),
		ModelUsed:   modelUsed,
	}
	if result != nil {
		rec.Summary = result.Summary.Render()
		rec.Decisions = EncodeDecisions(result.Decisions)
	}
	return rec
}

// DecisionList parses the stored decisions blob. Unparseable data yields an empty list.
func (m *MeetingRecord) DecisionList() []string {
	out := make([]string, 0)
	if len(m.Decisions) == 0 {
		return out
	}
	if err := json.Unmarshal(m.Decisions, &out); err != nil {
		return make([]string, 0)
	}
	return out
}

// EncodeDecisions serializes decisions to a JSON array, never null.
// Text is stored literally, without HTML escaping.
func EncodeDecisions(decisions []string) datatypes.JSON {
	if decisions == nil {
		decisions = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(decisions); err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(bytes.TrimRight(buf.Bytes(), "\n"))
}

// MeetingListItem is the summary row returned by meeting listings
type MeetingListItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	MeetingDate string    `json:"meeting_date"`
	DurationSec int       `json:"duration_sec"`
	ModelUsed   string    `json:"model_used"`
	CreatedAt   time.Time `json:"created_at"`
}

// Label is the one-line display form "#<id> • <title> • <date> • <model>"
func (m *MeetingListItem) Label() string {
	return fmt.Sprintf("#%d • %s • %s • %s", m.ID, m.Title, m.MeetingDate, m.ModelUsed)
}
