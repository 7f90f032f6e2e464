package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnalysisResult is the normalized summarizer output: a summary, ordered decisions and
// ordered action drafts. It is always well formed, even when built from garbage.
type AnalysisResult struct {
	Summary   SummaryText           `json:"summary"`
	Decisions []string              `json:"decisions"`
	Actions   []ActionItemExtracted `json:"actions"`
}

// EmptyAnalysisResult is the fallback payload {summary:"", decisions:[], actions:[]}
func EmptyAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Summary:   NewScalarSummary(""),
		Decisions: []string{},
		Actions:   []ActionItemExtracted{},
	}
}

// ActionItemExtracted is an action item as produced by normalization, before it is persisted
type ActionItemExtracted struct {
	Owner   string           `json:"owner"`
	Text    string           `json:"text"`
	DueDate *string          `json:"due_date"`
	Status  ActionItemStatus `json:"status"`
}

// SummaryText is either a single string or an ordered list of bullet strings
type SummaryText struct {
	Text    string
	Bullets []string
	IsList  bool
}

// NewScalarSummary returns a single-string summary
func NewScalarSummary(text string) SummaryText {
	return SummaryText{Text: text}
}

// NewListSummary returns a bulleted summary
func NewListSummary(bullets []string) SummaryText {
	if bullets == nil {
		bullets = []string{}
	}
	return SummaryText{Bullets: bullets, IsList: true}
}

// Render flattens the summary to its stored display form.
// A list becomes one "- item" line per bullet.
func (s SummaryText) Render() string {
	if !s.IsList {
		return s.Text
	}
	lines := make([]string, len(s.Bullets))
	for i, b := range s.Bullets {
		lines[i] = "- " + b
	}
	return strings.Join(lines, "\n")
}

// IsEmpty reports whether there is nothing to display
func (s SummaryText) IsEmpty() bool {
	if s.IsList {
		return len(s.Bullets) == 0
	}
	return s.Text == ""
}

// MarshalJSON encodes a list summary as an array and a scalar summary as a string
func (s SummaryText) MarshalJSON() ([]byte, error) {
	if s.IsList {
		bullets := s.Bullets
		if bullets == nil {
			bullets = []string{}
		}
		return json.Marshal(bullets)
	}
	return json.Marshal(s.Text)
}

// UnmarshalJSON accepts either a JSON string or an array of strings
func (s *SummaryText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*s = NewScalarSummary("")
		return nil
	case strings.HasPrefix(trimmed, "["):
		var bullets []string
		if err := json.Unmarshal(data, &bullets); err != nil {
			return fmt.Errorf("summary list: %w", err)
		}
		*s = NewListSummary(bullets)
		return nil
	default:
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("summary text: %w", err)
		}
		*s = NewScalarSummary(text)
		return nil
	}
}
