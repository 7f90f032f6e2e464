package meeting

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
)

// Normalize coerces raw summarizer output into an AnalysisResult. It never fails:
// anything it cannot read degrades to the empty payload or to per-field defaults.
func Normalize(raw string) *entities.AnalysisResult {
	payload, ok := extractJSON(raw)
	if !ok {
		return entities.EmptyAnalysisResult()
	}
	return normalizePayload(payload)
}

// extractJSON parses the text between the first '{' and the last '}' as one JSON object
func extractJSON(content string) (map[string]interface{}, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(content[start : end+1]))
	dec.UseNumber()

	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, false
	}
	// Trailing data means two objects or prose between braces
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	if payload == nil {
		return nil, false
	}
	return payload, true
}

func normalizePayload(p map[string]interface{}) *entities.AnalysisResult {
	return &entities.AnalysisResult{
		Summary:   normalizeSummary(p["summary"]),
		Decisions: normalizeDecisions(p["decisions"]),
		Actions:   normalizeActions(p["actions"]),
	}
}

func normalizeSummary(v interface{}) entities.SummaryText {
	if list, ok := v.([]interface{}); ok {
		return entities.NewListSummary(trimmedStrings(list))
	}
	return entities.NewScalarSummary(strings.TrimSpace(stringify(v)))
}

func normalizeDecisions(v interface{}) []string {
	if isFalsy(v) {
		return []string{}
	}
	if list, ok := v.([]interface{}); ok {
		return trimmedStrings(list)
	}
	return trimmedStrings([]interface{}{v})
}

func normalizeActions(v interface{}) []entities.ActionItemExtracted {
	out := make([]entities.ActionItemExtracted, 0)
	list, ok := v.([]interface{})
	if !ok {
		return out
	}

	for _, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			out = append(out, entities.ActionItemExtracted{
				Owner:  entities.DefaultOwner,
				Text:   stringify(item),
				Status: entities.ActionItemStatusOpen,
			})
			continue
		}

		action := entities.ActionItemExtracted{
			Owner:  entities.DefaultOwner,
			Status: entities.ActionItemStatusOpen,
		}
		if owner := obj["owner"]; !isFalsy(owner) {
			action.Owner = stringify(owner)
		}
		if text := obj["text"]; !isFalsy(text) {
			action.Text = stringify(text)
		}
		if due := obj["due_date"]; !isFalsy(due) {
			s := stringify(due)
			action.DueDate = &s
		}
		if status := obj["status"]; !isFalsy(status) {
			if parsed, err := entities.ParseActionItemStatus(stringify(status)); err == nil {
				action.Status = parsed
			}
		}
		out = append(out, action)
	}
	return out
}

// trimmedStrings stringifies and trims each element, dropping the empty ones
func trimmedStrings(list []interface{}) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := strings.TrimSpace(stringify(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stringify renders any decoded JSON value as text. Containers become compact JSON.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// isFalsy follows the usual dynamic-language truthiness of decoded JSON:
// null, false, zero, "", [] and {} are falsy
func isFalsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}
