package common

import "time"

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status      string            `json:"status"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
	Time        time.Time         `json:"time"`
}

// IDResponse wraps the numeric id of a created resource
type IDResponse struct {
	ID int64 `json:"id"`
}
