package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1003
	ErrorCode_CONFLICT         ErrorCode = 1004

	// Pipeline stages
	ErrorCode_MEDIA_DECODE_FAILED        ErrorCode = 2000
	ErrorCode_AI_TRANSCRIPTION_FAILED    ErrorCode = 2001
	ErrorCode_AI_SUMMARIZATION_FAILED    ErrorCode = 2002
	ErrorCode_PIPELINE_CANCELLED         ErrorCode = 2003
	ErrorCode_PIPELINE_NOTHING_TO_SAVE   ErrorCode = 2004
	ErrorCode_PIPELINE_SESSION_NOT_FOUND ErrorCode = 2005
	ErrorCode_PIPELINE_SESSION_BUSY      ErrorCode = 2006

	// Records
	ErrorCode_MEETING_NOT_FOUND    ErrorCode = 3000
	ErrorCode_ACTION_NOT_FOUND     ErrorCode = 3001
	ErrorCode_REPORT_EXPORT_FAILED ErrorCode = 3002

	// Infrastructure
	ErrorCode_DB_STORAGE_FAILED        ErrorCode = 4000
	ErrorCode_INTEGRATION_CACHE_FAILED ErrorCode = 4001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_CONFLICT:                   "CONFLICT",
	ErrorCode_MEDIA_DECODE_FAILED:        "MEDIA_DECODE_FAILED",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SUMMARIZATION_FAILED:    "AI_SUMMARIZATION_FAILED",
	ErrorCode_PIPELINE_CANCELLED:         "PIPELINE_CANCELLED",
	ErrorCode_PIPELINE_NOTHING_TO_SAVE:   "PIPELINE_NOTHING_TO_SAVE",
	ErrorCode_PIPELINE_SESSION_NOT_FOUND: "PIPELINE_SESSION_NOT_FOUND",
	ErrorCode_PIPELINE_SESSION_BUSY:      "PIPELINE_SESSION_BUSY",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_ACTION_NOT_FOUND:           "ACTION_NOT_FOUND",
	ErrorCode_REPORT_EXPORT_FAILED:       "REPORT_EXPORT_FAILED",
	ErrorCode_DB_STORAGE_FAILED:          "DB_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
