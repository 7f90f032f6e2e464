package ai

import (
	"fmt"
	"unicode/utf8"
)

// MaxTranscriptChars caps how much of a transcript is sent to a summarizer.
// Longer transcripts are summarized from their prefix only.
const MaxTranscriptChars = 10000

// SystemPrompt frames the summarizer's role and output keys
const SystemPrompt = "You are an expert meeting notes assistant. Produce crisp, action-oriented outputs.\n" +
	"Return JSON with keys: summary, decisions (list), actions (list of {owner,text,due_date?}). Keep it concise."

const userPromptTemplate = "Transcript:\n---\n%s\n---\nInstructions:\n" +
	"1) Provide a clear meeting summary (<= 8 bullet points).\n" +
	"2) List explicit decisions.\n" +
	"3) Extract actionable items with owners if mentioned (use 'TBD' if unknown). " +
	"Try to infer due dates if any hint.\nReturn JSON only."

// TruncateTranscript returns at most MaxTranscriptChars characters of transcript
func TruncateTranscript(transcript string) string {
	if utf8.RuneCountInString(transcript) <= MaxTranscriptChars {
		return transcript
	}
	n := 0
	for i := range transcript {
		if n == MaxTranscriptChars {
			return transcript[:i]
		}
		n++
	}
	return transcript
}

// UserPrompt renders the instruction block around a truncated transcript
func UserPrompt(transcript string) string {
	return fmt.Sprintf(userPromptTemplate, TruncateTranscript(transcript))
}

// FullPrompt is the single-string prompt used by completion-style backends
func FullPrompt(transcript string) string {
	return SystemPrompt + "\n\n" + UserPrompt(transcript)
}
