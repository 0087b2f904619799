package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the application error type surfaced to callers
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// CodeOf returns the ErrorCode carried by err, or ErrorCode_INTERNAL when err
// is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_INTERNAL
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code ErrorCode) bool {
	var appErr AppError
	return stdErrors.As(err, &appErr) && appErr.Code == code
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

func ErrInvalidSignature() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Invalid request signature",
	}
}

// Aggregation Errors
//
// The aggregation contract reports every failure with a 500 status, including a
// missing transcript.

func ErrTranscriptNotFound(bucket, key string) AppError {
	return AppError{
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_TRANSCRIPT_NOT_FOUND,
		Message:  "Transcript not found",
	}.WithDetail("bucket", bucket).
		WithDetail("key", key)
}

func ErrAnnotationFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_ANNOTATION_FAILED,
		Message:  "Statistical annotation failed",
	}
}

func ErrAggregationFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_AGGREGATION_FAILED,
		Message:  fmt.Sprintf("Aggregation failed: %s", operation),
	}
}

func ErrMeetingBusy(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_MEETING_BUSY,
		Message:  "Meeting is already being aggregated",
	}.WithDetail("meeting_id", meetingID)
}

// Meeting Errors
func ErrMeetingNotFound(meetingID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_MEETING_NOT_FOUND,
		Message:  "Meeting not found",
	}.WithDetail("meeting_id", meetingID)
}

func ErrActionItemNotFound(meetingID string, taskIndex int) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_ACTION_ITEM_NOT_FOUND,
		Message:  "Action item not found",
	}.WithDetail("meeting_id", meetingID).
		WithDetail("task_index", fmt.Sprintf("%d", taskIndex))
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrRecordsFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_RECORDS_FAILED,
		Message:  fmt.Sprintf("Record store operation failed: %s", operation),
	}
}

func ErrNotificationFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_NOTIFICATION_FAILED,
		Message:  "Notification dispatch failed",
	}
}
