package errors

// ErrorCode identifies the class of an AppError in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT ErrorCode = 2
	ErrorCode_UNAUTHENTICATED  ErrorCode = 6
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 7

	// Aggregation
	ErrorCode_TRANSCRIPT_NOT_FOUND ErrorCode = 100
	ErrorCode_ANNOTATION_FAILED    ErrorCode = 101
	ErrorCode_AGGREGATION_FAILED   ErrorCode = 102
	ErrorCode_MEETING_BUSY         ErrorCode = 103

	// Meetings
	ErrorCode_MEETING_NOT_FOUND     ErrorCode = 200
	ErrorCode_ACTION_ITEM_NOT_FOUND ErrorCode = 201

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 300
	ErrorCode_INTEGRATION_RECORDS_FAILED ErrorCode = 301
	ErrorCode_NOTIFICATION_FAILED        ErrorCode = 302
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_TRANSCRIPT_NOT_FOUND:       "TRANSCRIPT_NOT_FOUND",
	ErrorCode_ANNOTATION_FAILED:          "ANNOTATION_FAILED",
	ErrorCode_AGGREGATION_FAILED:         "AGGREGATION_FAILED",
	ErrorCode_MEETING_BUSY:               "MEETING_BUSY",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_ACTION_ITEM_NOT_FOUND:      "ACTION_ITEM_NOT_FOUND",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_RECORDS_FAILED: "INTEGRATION_RECORDS_FAILED",
	ErrorCode_NOTIFICATION_FAILED:        "NOTIFICATION_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
