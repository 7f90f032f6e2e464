package meeting

import "strings"

// UpdateActionStatusRequest represents the request to move an action item to a new status
type UpdateActionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open done blocked cancelled"`
}

// Normalize lower-cases the status so "Done" and "DONE" are accepted
func (r *UpdateActionStatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

// ExportRequest represents query parameters for exporting a meeting
type ExportRequest struct {
	Transcript bool `query:"transcript"`
}
