package session

// RunSessionRequest represents the non-file form fields of a pipeline run.
// The media itself is sent as the multipart field "file".
type RunSessionRequest struct {
	Model string `form:"model" validate:"omitempty,max=100"`
}

// SaveSessionRequest represents the request to commit a session as a meeting
type SaveSessionRequest struct {
	Title       string `json:"title" validate:"max=500"`
	MeetingDate string `json:"meeting_date" validate:"omitempty,datetime=2006-01-02"`
}
