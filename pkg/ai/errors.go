package ai

import "errors"

// Boundary failures. Clients wrap every transport or backend error in one of these.
var (
	ErrTranscription = errors.New("transcription failed")
	ErrSummarization = errors.New("summarization failed")
)
