package handler

import (
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/errors"
	meetingdto "github.com/johnquangdev/meeting-intelligence/internal/adapter/dto/meeting"
	meetingUsecase "github.com/johnquangdev/meeting-intelligence/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
	"github.com/johnquangdev/meeting-intelligence/pkg/validator"
	"github.com/johnquangdev/meeting-intelligence/pkg/webhook"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body
const SignatureHeader = "X-Signature"

// maxWebhookBody bounds the bytes read from a webhook request
const maxWebhookBody = 1 << 20

// TranscriptionWebhook receives "transcription finished" callbacks and runs
// the aggregation for the finished job.
type TranscriptionWebhook struct {
	aggregator Aggregator
	secret     string
	validator  *validator.CustomValidator
	logger     *zap.Logger
}

// NewTranscriptionWebhook creates the webhook handler. An empty secret
// rejects every request.
func NewTranscriptionWebhook(aggregator Aggregator, secret string, logger *zap.Logger) *TranscriptionWebhook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptionWebhook{
		aggregator: aggregator,
		secret:     secret,
		validator:  validator.New(),
		logger:     logger,
	}
}

// Handle handles POST /webhooks/transcription
func (h *TranscriptionWebhook) Handle(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload().WithDetail("reason", err.Error()))
	}

	if !webhook.Verify(h.secret, body, c.Request().Header.Get(SignatureHeader)) {
		h.logger.Warn("⚠️ Rejected transcription webhook with bad signature",
			zap.String("remote_ip", c.RealIP()),
		)
		return HandleError(h.logger, c, errors.ErrInvalidSignature())
	}

	var req meetingdto.AnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload().WithDetail("reason", err.Error()))
	}
	if err := h.validator.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("validation failed").WithDetail("reason", validator.Describe(err)))
	}

	h.logger.Info("🪝 Transcription finished",
		zap.String("meeting_id", req.MeetingID),
		zap.String("job_name", req.JobName),
	)

	ctx, cancel := jobcontext.Begin(c.Request().Context(), TriggerWebhook, req.MeetingID, req.JobName, req.Bucket, 0)
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
