package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	meetingUsecase "github.com/johnquangdev/meeting-intelligence/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
)

// InvocationResponse is the {statusCode, body} envelope returned to a direct
// function invocation. Body is a JSON document encoded as a string.
type InvocationResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type invocationError struct {
	Error string `json:"error"`
}

// Invocation adapts the aggregator to the direct-invocation contract. Every
// failure is reported as status 500 with the error text in the body.
type Invocation struct {
	aggregator Aggregator
	timeout    time.Duration
	flush      func()
	logger     *zap.Logger
}

// NewInvocation creates the invocation adapter. A zero timeout uses the
// default invocation budget. flush, when set, runs before every response
// is returned so background notification work completes while the
// execution environment is still live.
func NewInvocation(aggregator Aggregator, timeout time.Duration, flush func(), logger *zap.Logger) *Invocation {
	if logger == nil {
		logger = zap.NewNop()
	}
	if flush == nil {
		flush = func() {}
	}
	return &Invocation{aggregator: aggregator, timeout: timeout, flush: flush, logger: logger}
}

// Handle runs one aggregation. The returned error is always nil so the
// envelope, not the runtime, carries the outcome.
func (h *Invocation) Handle(ctx context.Context, req meetingUsecase.AggregateRequest) (InvocationResponse, error) {
	ctx, cancel := jobcontext.Begin(ctx, TriggerLambda, req.MeetingID, req.JobName, req.Bucket, h.timeout)
	defer cancel()
	defer h.flush()

	result, err := h.aggregator.Aggregate(ctx, req)
	if err != nil {
		h.logger.Error("❌ Aggregation invocation failed",
			zap.String("meeting_id", req.MeetingID),
			zap.Error(err),
		)
		return envelope(http.StatusInternalServerError, invocationError{Error: err.Error()}), nil
	}
	return envelope(http.StatusOK, result), nil
}

func envelope(status int, v interface{}) InvocationResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(invocationError{Error: err.Error()})
	}
	return InvocationResponse{StatusCode: status, Body: string(body)}
}
