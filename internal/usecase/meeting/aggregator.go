package meeting

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/observability"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
	"github.com/johnquangdev/meeting-intelligence/pkg/validator"
)

const (
	DefaultAnnotationChars = 5000
	DefaultGenerationChars = 4000
)

// AggregateRequest identifies the transcript of one meeting
type AggregateRequest struct {
	MeetingID string `json:"meetingId" validate:"required"`
	JobName   string `json:"jobName" validate:"required"`
	Bucket    string `json:"bucket" validate:"required"`
}

// AggregateResult is the descriptor returned to the caller
type AggregateResult struct {
	MeetingID        string                  `json:"meetingId"`
	Status           entities.MeetingStatus  `json:"status"`
	SummaryLocation  string                  `json:"summaryLocation"`
	ActionItemsCount int                     `json:"actionItemsCount"`
	Record           *entities.MeetingRecord `json:"-"`
}

// Dependencies are the capabilities the aggregator orchestrates. Locker and
// Metrics are optional.
type Dependencies struct {
	Transcripts repositories.TranscriptStore
	Annotator   repositories.Annotator
	Generator   repositories.GenerativeAnalyzer
	Records     repositories.RecordStore
	Summaries   repositories.SummaryStore
	Notifier    repositories.Notifier
	Locker      repositories.MeetingLocker
	Metrics     *observability.Metrics
}

// Options tune the aggregator. Zero values select the defaults.
type Options struct {
	AnnotationChars int
	GenerationChars int
	Clock           func() time.Time
}

// Aggregator turns a transcript reference into a persisted MeetingRecord
type Aggregator struct {
	deps      Dependencies
	parser    *Parser
	validator *validator.CustomValidator
	opts      Options
	logger    *zap.Logger
}

// NewAggregator wires an aggregator
func NewAggregator(deps Dependencies, opts Options, v *validator.CustomValidator, logger *zap.Logger) *Aggregator {
	if v == nil {
		v = validator.New()
	}
	if opts.AnnotationChars <= 0 {
		opts.AnnotationChars = DefaultAnnotationChars
	}
	if opts.GenerationChars <= 0 {
		opts.GenerationChars = DefaultGenerationChars
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Aggregator{
		deps:      deps,
		parser:    NewParser(v),
		validator: v,
		opts:      opts,
		logger:    logger,
	}
}

// Aggregate runs the pipeline for one meeting. Once the record is persisted
// the call succeeds, whatever happens to the notification hand-off.
func (a *Aggregator) Aggregate(ctx context.Context, req AggregateRequest) (*AggregateResult, error) {
	if err := a.validator.Validate(req); err != nil {
		return nil, apperrors.ErrInvalidArgument("meetingId, jobName and bucket are required").
			WithDetail("validation", validator.Describe(err))
	}

	started := time.Now()
	result, err := a.aggregate(ctx, req)
	a.deps.Metrics.ObserveAggregation(outcomeOf(err), time.Since(started))
	return result, err
}

func (a *Aggregator) aggregate(ctx context.Context, req AggregateRequest) (*AggregateResult, error) {
	fields := jobcontext.Fields(ctx)
	if fields == nil {
		fields = []zap.Field{zap.String("meeting_id", req.MeetingID)}
	}
	log := a.logger.With(fields...)

	if a.deps.Locker != nil {
		unlock, err := a.deps.Locker.Lock(ctx, req.MeetingID)
		if err != nil {
			var appErr apperrors.AppError
			if stdErrors.As(err, &appErr) {
				return nil, appErr
			}
			return nil, apperrors.ErrAggregationFailed("acquire meeting lock", err)
		}
		defer unlock()
	}

	log.Info("🔄 Aggregating meeting",
		zap.String("job_name", req.JobName),
		zap.String("bucket", req.Bucket),
	)

	transcript, err := a.deps.Transcripts.FetchTranscript(ctx, req.Bucket, req.JobName)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrorCode_TRANSCRIPT_NOT_FOUND) {
			return nil, err
		}
		return nil, apperrors.ErrAggregationFailed("fetch transcript", err)
	}

	annotation, err := a.deps.Annotator.Annotate(ctx, Excerpt(transcript, a.opts.AnnotationChars))
	if err != nil {
		log.Error("❌ Statistical annotation failed", zap.Error(err))
		return nil, apperrors.ErrAnnotationFailed(err)
	}

	analysis := a.analyze(ctx, log, transcript)

	record := entities.NewMeetingRecord(req.MeetingID, transcript, analysis, annotation, a.opts.Clock())

	if err := a.deps.Records.SaveMeeting(ctx, record); err != nil {
		return nil, apperrors.ErrAggregationFailed("save meeting record", err)
	}

	body, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, apperrors.ErrAggregationFailed("encode summary", err)
	}
	location, err := a.deps.Summaries.PutSummary(ctx, req.Bucket, req.MeetingID, body)
	if err != nil {
		return nil, apperrors.ErrAggregationFailed("write summary", err)
	}

	a.notify(ctx, log, record, location)

	log.Info("✅ Meeting aggregated",
		zap.String("summary_location", location),
		zap.Int("action_items", record.ActionItemsCount()),
	)

	return &AggregateResult{
		MeetingID:        record.MeetingID,
		Status:           record.Status,
		SummaryLocation:  location,
		ActionItemsCount: record.ActionItemsCount(),
		Record:           record,
	}, nil
}

// analyze asks the generative analyzer and falls back to the static analysis
// on any call or parse failure.
func (a *Aggregator) analyze(ctx context.Context, log *zap.Logger, transcript string) entities.AnalysisResult {
	prompt := BuildPrompt(Excerpt(transcript, a.opts.GenerationChars))

	raw, err := a.deps.Generator.Generate(ctx, prompt)
	if err != nil {
		log.Warn("⚠️ Generative analysis unavailable, using fallback analysis", zap.Error(err))
		a.deps.Metrics.IncFallback(ReasonCallFailed)
		return FallbackAnalysis()
	}

	result, err := a.parser.Parse(raw)
	if err != nil {
		reason := ReasonInvalidJSON
		var failure *ParseFailure
		if stdErrors.As(err, &failure) {
			reason = failure.Reason
		}
		log.Warn("⚠️ Generative answer unusable, using fallback analysis",
			zap.String("reason", reason),
			zap.Error(err),
		)
		a.deps.Metrics.IncFallback(reason)
		return FallbackAnalysis()
	}

	return *result
}

func (a *Aggregator) notify(ctx context.Context, log *zap.Logger, record *entities.MeetingRecord, location string) {
	if a.deps.Notifier == nil {
		return
	}
	event := entities.NewMeetingAnalyzedEvent(record, location)
	if err := a.deps.Notifier.NotifyMeetingAnalyzed(ctx, event); err != nil {
		log.Error("❌ Notification hand-off failed",
			zap.String("event_id", event.EventID),
			zap.Error(apperrors.ErrNotificationFailed(err)),
		)
		a.deps.Metrics.IncNotificationFailed()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case apperrors.IsCode(err, apperrors.ErrorCode_TRANSCRIPT_NOT_FOUND):
		return observability.OutcomeTranscriptMissing
	case apperrors.IsCode(err, apperrors.ErrorCode_ANNOTATION_FAILED):
		return observability.OutcomeAnnotationFailed
	default:
		return observability.OutcomeFailed
	}
}
