package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingdto "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/meeting"
	meetingUsecase "github.com/johnquangdev/meeting-intelligence/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
)

// Trigger names recorded on each aggregation invocation
const (
	TriggerHTTP    = "http"
	TriggerWebhook = "webhook"
	TriggerLambda  = "lambda"
)

// Aggregator runs the analysis aggregation of one meeting
type Aggregator interface {
	Aggregate(ctx context.Context, req meetingUsecase.AggregateRequest) (*meetingUsecase.AggregateResult, error)
}

// Meeting handles meeting-related HTTP requests
type Meeting struct {
	aggregator Aggregator
	service    meetingUsecase.Service
	logger     *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(aggregator Aggregator, service meetingUsecase.Service, logger *zap.Logger) *Meeting {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Meeting{
		aggregator: aggregator,
		service:    service,
		logger:     logger,
	}
}

// Analyze handles POST /meetings/analyze
func (h *Meeting) Analyze(c echo.Context) error {
	var req meetingdto.AnalyzeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx, cancel := jobcontext.Begin(c.Request().Context(), TriggerHTTP, req.MeetingID, req.JobName, req.Bucket, 0)
	defer cancel()

	result, err := h.aggregator.Aggregate(ctx, meetingUsecase.AggregateRequest{
		MeetingID: req.MeetingID,
		JobName:   req.JobName,
		Bucket:    req.Bucket,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, result)
}

// ListMeetings handles GET /meetings
func (h *Meeting) ListMeetings(c echo.Context) error {
	var req meetingdto.ListMeetingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	meetings, err := h.service.ListMeetings(c.Request().Context(), req.Limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meetingdto.NewListMeetingsResponse(meetings))
}

// GetMeeting handles GET /meetings/:id
func (h *Meeting) GetMeeting(c echo.Context) error {
	var req meetingdto.GetMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.service.GetMeeting(c.Request().Context(), req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, record)
}

// ListActionItems handles GET /action-items
func (h *Meeting) ListActionItems(c echo.Context) error {
	items, err := h.service.ListActionItems(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meetingdto.NewListActionItemsResponse(items))
}

// CompleteActionItem handles POST /action-items/complete
func (h *Meeting) CompleteActionItem(c echo.Context) error {
	var req meetingdto.CompleteActionItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.CompleteActionItem(c.Request().Context(), req.MeetingID, *req.TaskIndex); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meetingdto.CompleteActionItemResponse{
		MeetingID: req.MeetingID,
		TaskIndex: *req.TaskIndex,
		Completed: true,
	})
}
