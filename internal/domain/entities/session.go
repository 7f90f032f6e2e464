package entities

import (
	"time"

	"github.com/google/uuid"
)

// PipelineStage is the last stage a pipeline run reached
type PipelineStage string

const (
	PipelineStageIdle         PipelineStage = "idle"         // No run yet, or reset
	PipelineStageDecoding     PipelineStage = "decoding"     // Normalizing uploaded media
	PipelineStageTranscribing PipelineStage = "transcribing" // Waiting on the transcriber
	PipelineStageSummarizing  PipelineStage = "summarizing"  // Waiting on the summarizer
	PipelineStageCompleted    PipelineStage = "completed"    // All stages done
	PipelineStageFailed       PipelineStage = "failed"       // A stage failed, see Error
)

// PipelineSession is the in-flight result of the latest pipeline run for one user session.
// Reading it never clears it; only a new run or Reset does.
type PipelineSession struct {
	ID          uuid.UUID             `json:"id"`
	Stage       PipelineStage         `json:"stage"`
	FailedStage PipelineStage         `json:"failed_stage,omitempty"`
	Error       string                `json:"error,omitempty"`
	Transcribed bool                  `json:"transcribed"`
	Transcript  string                `json:"transcript"`
	DurationSec int                   `json:"duration_sec"`
	Summary     SummaryText           `json:"summary"`
	Decisions   []string              `json:"decisions"`
	Actions     []ActionItemExtracted `json:"actions"`
	ModelUsed   string                `json:"model_used"`

	LastSavedMeetingID *int64    `json:"last_saved_meeting_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewPipelineSession creates an empty session
func NewPipelineSession() *PipelineSession {
	now := time.Now().UTC()
	s := &PipelineSession{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	s.Reset()
	s.UpdatedAt = now
	return s
}

// Reset clears every result field back to the empty state
func (s *PipelineSession) Reset() {
	s.Stage = PipelineStageIdle
	s.FailedStage = ""
	s.Error = ""
	s.Transcribed = false
	s.Transcript = ""
	s.DurationSec = 0
	s.Summary = NewScalarSummary("")
	s.Decisions = []string{}
	s.Actions = []ActionItemExtracted{}
	s.ModelUsed = ""
	s.LastSavedMeetingID = nil
	s.UpdatedAt = time.Now().UTC()
}

// BeginRun discards the previous result and marks the session as decoding
func (s *PipelineSession) BeginRun() {
	s.Reset()
	s.Stage = PipelineStageDecoding
}

// MarkStage records progress to the given stage
func (s *PipelineSession) MarkStage(stage PipelineStage) {
	s.Stage = stage
	s.UpdatedAt = time.Now().UTC()
}

// MarkTranscribed stores transcription output. It survives later stage failures.
func (s *PipelineSession) MarkTranscribed(transcript string, durationSec int, transcriberTag string) {
	s.Transcribed = true
	s.Transcript = transcript
	s.DurationSec = durationSec
	s.ModelUsed = transcriberTag
	s.UpdatedAt = time.Now().UTC()
}

// MarkSummarized stores the normalized analysis and appends the summarizer provenance
func (s *PipelineSession) MarkSummarized(result *AnalysisResult, summarizerTag string) {
	if result == nil {
		result = EmptyAnalysisResult()
	}
	s.Summary = result.Summary
	s.Decisions = result.Decisions
	s.Actions = result.Actions
	if s.ModelUsed != "" {
		s.ModelUsed += " + " + summarizerTag
	} else {
		s.ModelUsed = summarizerTag
	}
	s.Stage = PipelineStageCompleted
	s.UpdatedAt = time.Now().UTC()
}

// MarkFailed records a stage failure, keeping whatever earlier stages produced
func (s *PipelineSession) MarkFailed(stage PipelineStage, errMsg string) {
	s.FailedStage = stage
	s.Stage = PipelineStageFailed
	s.Error = errMsg
	s.UpdatedAt = time.Now().UTC()
}

// MarkSaved remembers the meeting the session was last committed to
func (s *PipelineSession) MarkSaved(meetingID int64) {
	s.LastSavedMeetingID = &meetingID
	s.UpdatedAt = time.Now().UTC()
}

// CanBeSaved reports whether there is a transcript to persist
func (s *PipelineSession) CanBeSaved() bool {
	return s.Transcribed
}

// Analysis returns the session's normalized analysis
func (s *PipelineSession) Analysis() *AnalysisResult {
	return &AnalysisResult{
		Summary:   s.Summary,
		Decisions: s.Decisions,
		Actions:   s.Actions,
	}
}
