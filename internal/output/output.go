package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
)

// Formatter prints human readable CLI output
type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) Decoding(name string) {
	fmt.Fprintf(f.w, "🎞️  Decoding %s...\n", name)
}

func (f *Formatter) RunFinished(s *entities.PipelineSession) {
	fmt.Fprintf(f.w, "✅ Processed %s (%s) with %s\n", s.ID, formatSeconds(s.DurationSec), s.ModelUsed)
}

func (f *Formatter) Analysis(s *entities.PipelineSession) {
	fmt.Fprintf(f.w, "\n## Summary\n")
	if s.Summary.IsEmpty() {
		fmt.Fprintf(f.w, "_(empty)_\n")
	} else {
		fmt.Fprintf(f.w, "%s\n", s.Summary.Render())
	}

	fmt.Fprintf(f.w, "\n## Decisions\n")
	if len(s.Decisions) == 0 {
		fmt.Fprintf(f.w, "_(none)_\n")
	}
	for _, d := range s.Decisions {
		fmt.Fprintf(f.w, "- %s\n", d)
	}

	fmt.Fprintf(f.w, "\n## Action Items\n")
	if len(s.Actions) == 0 {
		fmt.Fprintf(f.w, "_(no actions)_\n")
	}
	for _, a := range s.Actions {
		item := entities.NewActionItem(0, a)
		fmt.Fprintf(f.w, "- [%s] %s: %s (due: %s)\n", item.Status, item.OwnerOrDefault(), item.Text, item.DueOrDefault())
	}
}

func (f *Formatter) MeetingSaved(id int64) {
	fmt.Fprintf(f.w, "\n💾 Saved as meeting #%d\n", id)
}

func (f *Formatter) MeetingListHeader() {
	fmt.Fprintf(f.w, "📁 Meetings:\n\n")
}

func (f *Formatter) MeetingListItem(item *entities.MeetingListItem) {
	fmt.Fprintf(f.w, "  %s\n", item.Label())
}

func (f *Formatter) Document(content []byte) {
	fmt.Fprintf(f.w, "%s", content)
	if !strings.HasSuffix(string(content), "\n") {
		fmt.Fprintln(f.w)
	}
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func formatSeconds(sec int) string {
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
