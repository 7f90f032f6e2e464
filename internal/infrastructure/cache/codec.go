package cache

import (
	"encoding/json"
	"fmt"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
)

const keyPrefix = "meetnotes:session:"

func encodeSession(s *entities.PipelineSession) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return b, nil
}

func decodeSession(b []byte) (*entities.PipelineSession, error) {
	var s entities.PipelineSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Decisions == nil {
		s.Decisions = []string{}
	}
	if s.Actions == nil {
		s.Actions = []entities.ActionItemExtracted{}
	}
	return &s, nil
}
