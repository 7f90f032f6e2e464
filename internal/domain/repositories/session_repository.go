package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meetnotes/internal/domain/entities"
)

// SessionStore holds in-flight pipeline sessions until they expire
type SessionStore interface {
	// Put stores or replaces a session and refreshes its expiry
	Put(ctx context.Context, session *entities.PipelineSession) error

	// Get returns a session or entities.ErrSessionNotFound
	Get(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error)

	// Delete removes a session. Unknown ids are a no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}
