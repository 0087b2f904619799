package jobcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyInvocationID KeyContext = "invocation_id"
	keyTrigger      KeyContext = "trigger"
	keyMeetingID    KeyContext = "meeting_id"
	keyJobName      KeyContext = "job_name"
	keyBucket       KeyContext = "bucket"
	keyStartTime    KeyContext = "start_time"
)

// DefaultTimeout bounds a single aggregation invocation
const DefaultTimeout = 5 * time.Minute

// Metadata describes one aggregation invocation
type Metadata struct {
	InvocationID uuid.UUID
	Trigger      string
	MeetingID    string
	JobName      string
	Bucket       string
	StartTime    time.Time
}

// Begin derives an invocation context carrying the metadata, with timeout.
// A zero timeout uses DefaultTimeout.
func Begin(parentCtx context.Context, trigger, meetingID, jobName, bucket string, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyInvocationID, uuid.New())
	ctx = context.WithValue(ctx, keyTrigger, trigger)
	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyJobName, jobName)
	ctx = context.WithValue(ctx, keyBucket, bucket)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// GetInvocationID extracts the invocation ID from context
func GetInvocationID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyInvocationID).(uuid.UUID)
	return id, ok
}

// GetMeetingID extracts the meeting ID from context
func GetMeetingID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyMeetingID).(string)
	return id, ok
}

// GetStartTime extracts the invocation start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// GetMetadata extracts all invocation metadata from context
func GetMetadata(ctx context.Context) *Metadata {
	id, _ := GetInvocationID(ctx)
	trigger, _ := ctx.Value(keyTrigger).(string)
	meetingID, _ := GetMeetingID(ctx)
	jobName, _ := ctx.Value(keyJobName).(string)
	bucket, _ := ctx.Value(keyBucket).(string)
	startTime, _ := GetStartTime(ctx)

	return &Metadata{
		InvocationID: id,
		Trigger:      trigger,
		MeetingID:    meetingID,
		JobName:      jobName,
		Bucket:       bucket,
		StartTime:    startTime,
	}
}

// Fields returns the invocation metadata as zap fields. Contexts created
// outside Begin yield no fields.
func Fields(ctx context.Context) []zap.Field {
	id, ok := GetInvocationID(ctx)
	if !ok {
		return nil
	}
	md := GetMetadata(ctx)
	return []zap.Field{
		zap.String("invocation_id", id.String()),
		zap.String("trigger", md.Trigger),
		zap.String("meeting_id", md.MeetingID),
		zap.String("job_name", md.JobName),
		zap.String("bucket", md.Bucket),
	}
}

// IsRetryableError checks if an error should trigger a redelivery
// Retryable errors include: network errors, timeouts, rate limits
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Context errors (timeout, cancelled)
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "throttl") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	return strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again")
}
