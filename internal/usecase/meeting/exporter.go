package meeting

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
)

// Placeholders rendered for empty sections
const (
	emptySummary   = "_(empty)_"
	emptyDecisions = "_(none)_"
	emptyActions   = "_(no actions)_"
)

// FileName is the deterministic export file name for a meeting
func FileName(meetingID int64) string {
	return fmt.Sprintf("meeting_%d.md", meetingID)
}

// RenderMarkdown renders a meeting and its actions as a Markdown document.
// It is a pure function of its inputs; actions are listed in the order given.
func RenderMarkdown(rec *entities.MeetingRecord, actions []*entities.ActionItem, includeTranscript bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s (%s)\n\n", rec.Title, rec.MeetingDate)
	fmt.Fprintf(&sb, "**Duration:** %d sec\n\n", rec.DurationSec)

	sb.WriteString("## Summary\n")
	if rec.Summary != "" {
		sb.WriteString(rec.Summary)
	} else {
		sb.WriteString(emptySummary)
	}
	sb.WriteString("\n\n")

	sb.WriteString("## Decisions\n")
	if decisions := rec.DecisionList(); len(decisions) > 0 {
		for i, d := range decisions {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("- " + d)
		}
	} else {
		sb.WriteString(emptyDecisions)
	}
	sb.WriteString("\n\n")

	sb.WriteString("## Action Items\n")
	if len(actions) > 0 {
		for _, a := range actions {
			fmt.Fprintf(&sb, "- [%s] %s: %s (due: %s)\n", a.Status, a.OwnerOrDefault(), a.Text, a.DueOrDefault())
		}
	} else {
		sb.WriteString(emptyActions + "\n")
	}
	sb.WriteString("\n")

	if includeTranscript {
		sb.WriteString("## Transcript\n")
		sb.WriteString(rec.Transcript)
	}

	return sb.String()
}
