package handler

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	meetingUsecase "github.com/johnquangdev/meeting-intelligence/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	"github.com/johnquangdev/meeting-intelligence/pkg/jobcontext"
	pkgvalidator "github.com/johnquangdev/meeting-intelligence/pkg/validator"
	"github.com/johnquangdev/meeting-intelligence/pkg/webhook"
)

type aggregatorFunc func(ctx context.Context, req meetingUsecase.AggregateRequest) (*meetingUsecase.AggregateResult, error)

func (f aggregatorFunc) Aggregate(ctx context.Context, req meetingUsecase.AggregateRequest) (*meetingUsecase.AggregateResult, error) {
	return f(ctx, req)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) ListMeetings(ctx context.Context, limit int) ([]entities.MeetingSummary, error) {
	args := m.Called(ctx, limit)
	items, _ := args.Get(0).([]entities.MeetingSummary)
	return items, args.Error(1)
}

func (m *mockService) GetMeeting(ctx context.Context, meetingID string) (*entities.MeetingRecord, error) {
	args := m.Called(ctx, meetingID)
	record, _ := args.Get(0).(*entities.MeetingRecord)
	return record, args.Error(1)
}

func (m *mockService) ListActionItems(ctx context.Context) ([]entities.ActionItemView, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]entities.ActionItemView)
	return items, args.Error(1)
}

func (m *mockService) CompleteActionItem(ctx context.Context, meetingID string, taskIndex int) error {
	return m.Called(ctx, meetingID, taskIndex).Error(0)
}

const webhookSecret = "s3cr3t"

func okAggregator(calls *[]meetingUsecase.AggregateRequest) aggregatorFunc {
	return func(_ context.Context, req meetingUsecase.AggregateRequest) (*meetingUsecase.AggregateResult, error) {
		*calls = append(*calls, req)
		return &meetingUsecase.AggregateResult{
			MeetingID:        req.MeetingID,
			Status:           entities.MeetingStatusCompleted,
			SummaryLocation:  "s3://" + req.Bucket + "/summaries/" + req.MeetingID + "-summary.json",
			ActionItemsCount: 2,
		}, nil
	}
}

func newTestServer(agg Aggregator, svc meetingUsecase.Service) *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	logger := zap.NewNop()
	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	NewRouter(cfg,
		NewMeetingHandler(agg, svc, logger),
		NewTranscriptionWebhook(agg, webhookSecret, logger),
		promhttp.Handler(),
	).Setup(e)
	return e
}

func do(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func sign(body string) string {
	return webhook.Sign(webhookSecret, []byte(body))
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestServer(okAggregator(new([]meetingUsecase.AggregateRequest)), &mockService{})

	rec := do(e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", decode(t, rec)["environment"])

	rec = do(e, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyze(t *testing.T) {
	var calls []meetingUsecase.AggregateRequest
	e := newTestServer(okAggregator(&calls), &mockService{})

	rec := do(e, http.MethodPost, "/v1/meetings/analyze", `{"meetingId":"m1","jobName":"job1","bucket":"b"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "m1", data["meetingId"])
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, "s3://b/summaries/m1-summary.json", data["summaryLocation"])
	assert.Equal(t, float64(2), data["actionItemsCount"])
	assert.Equal(t, []meetingUsecase.AggregateRequest{{MeetingID: "m1", JobName: "job1", Bucket: "b"}}, calls)
}

func TestAnalyze_MissingField(t *testing.T) {
	var calls []meetingUsecase.AggregateRequest
	e := newTestServer(okAggregator(&calls), &mockService{})

	rec := do(e, http.MethodPost, "/v1/meetings/analyze", `{"meetingId":"m1","bucket":"b"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decode(t, rec)["code"])
	assert.Empty(t, calls)
}

func TestAnalyze_TranscriptNotFound(t *testing.T) {
	agg := aggregatorFunc(func(context.Context, meetingUsecase.AggregateRequest) (*meetingUsecase.AggregateResult, error) {
		return nil, apperrors.ErrTranscriptNotFound("b", "transcripts/job1.json")
	})
	e := newTestServer(agg, &mockService{})

	rec := do(e, http.MethodPost, "/v1/meetings/analyze", `{"meetingId":"m1","jobName":"job1","bucket":"b"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "TRANSCRIPT_NOT_FOUND", body["code"])
	assert.Equal(t, "transcripts/job1.json", body["details"].(map[string]interface{})["key"])
}

func TestTranscriptionWebhook(t *testing.T) {
	body := `{"meetingId":"m1","jobName":"job1","bucket":"b"}`

	t.Run("valid signature", func(t *testing.T) {
		var calls []meetingUsecase.AggregateRequest
		e := newTestServer(okAggregator(&calls), &mockService{})

		rec := do(e, http.MethodPost, "/v1/webhooks/transcription", body, map[string]string{SignatureHeader: sign(body)})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, calls, 1)
	})

	t.Run("bad signature", func(t *testing.T) {
		var calls []meetingUsecase.AggregateRequest
		e := newTestServer(okAggregator(&calls), &mockService{})

		rec := do(e, http.MethodPost, "/v1/webhooks/transcription", body, map[string]string{SignatureHeader: sign("other")})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, calls)
	})

	t.Run("missing signature", func(t *testing.T) {
		var calls []meetingUsecase.AggregateRequest
		e := newTestServer(okAggregator(&calls), &mockService{})

		rec := do(e, http.MethodPost, "/v1/webhooks/transcription", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, calls)
	})

	t.Run("signed but incomplete", func(t *testing.T) {
		var calls []meetingUsecase.AggregateRequest
		e := newTestServer(okAggregator(&calls), &mockService{})
		partial := `{"meetingId":"m1"}`

		rec := do(e, http.MethodPost, "/v1/webhooks/transcription", partial, map[string]string{SignatureHeader: sign(partial)})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, calls)
	})
}

func TestListMeetings(t *testing.T) {
	svc := &mockService{}
	created := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	svc.On("ListMeetings", mock.Anything, 10).Return([]entities.MeetingSummary{
		{MeetingID: "m1", CreatedAt: created, Summary: "s", ActionItemsCount: 1, Sentiment: entities.SentimentLabelNeutral},
	}, nil)
	e := newTestServer(okAggregator(new([]meetingUsecase.AggregateRequest)), svc)

	rec := do(e, http.MethodGet, "/v1/meetings?limit=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
	meetings := data["meetings"].([]interface{})
	assert.Equal(t, "m1", meetings[0].(map[string]interface{})["meetingId"])
	svc.AssertExpectations(t)
}

func TestListMeetings_InvalidLimit(t *testing.T) {
	svc := &mockService{}
	e := newTestServer(okAggregator(new([]meetingUsecase.AggregateRequest)), svc)

	rec := do(e, http.MethodGet, "/v1/meetings?limit=-3", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ListMeetings", mock.Anything, mock.Anything)
}

func TestGetMeeting_NotFound(t *testing.T) {
	svc := &mockService{}
	svc.On("GetMeeting", mock.Anything, "nope").Return(nil, apperrors.ErrMeetingNotFound("nope"))
	e := newTestServer(okAggregator(new([]meetingUsecase.AggregateRequest)), svc)

	rec := do(e, http.MethodGet, "/v1/meetings/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MEETING_NOT_FOUND", decode(t, rec)["code"])
}

func TestListActionItems_Empty(t *testing.T) {
	svc := &mockService{}
	svc.On("ListActionItems", mock.Anything).Return(nil, nil)
	e := newTestServer(okAggregator(new([]meetingUsecase.AggregateRequest)), svc)

	rec := do(e, http.MethodGet, "/v1/action-items", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, data["actionItems"])
}

func TestCompleteActionItem(t *testing.T) {
	t.Run("index zero", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CompleteActionItem", mock.Anything, "m1", 0).Return(nil)
		e := newTestServer(okAggregator(new([]meetingUsecase.AggregateRequest)), svc)

		rec := do(e, http.MethodPost, "/v1/action-items/complete", `{"meetingId":"m1","taskIndex":0}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing index", func(t *testing.T) {
		svc := &mockService{}
		e := newTestServer(okAggregator(new([]meetingUsecase.AggregateRequest)), svc)

		rec := do(e, http.MethodPost, "/v1/action-items/complete", `{"meetingId":"m1"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out of range", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CompleteActionItem", mock.Anything, "m1", 9).Return(apperrors.ErrActionItemNotFound("m1", 9))
		e := newTestServer(okAggregator(new([]meetingUsecase.AggregateRequest)), svc)

		rec := do(e, http.MethodPost, "/v1/action-items/complete", `{"meetingId":"m1","taskIndex":9}`, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInvocation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		inv := NewInvocation(okAggregator(new([]meetingUsecase.AggregateRequest)), 0, nil, nil)

		resp, err := inv.Handle(context.Background(), meetingUsecase.AggregateRequest{MeetingID: "m1", JobName: "job1", Bucket: "b"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"meetingId":"m1","status":"completed","summaryLocation":"s3://b/summaries/m1-summary.json","actionItemsCount":2}`, resp.Body)
	})

	t.Run("failure", func(t *testing.T) {
		inv := NewInvocation(aggregatorFunc(func(context.Context, meetingUsecase.AggregateRequest) (*meetingUsecase.AggregateResult, error) {
			return nil, apperrors.ErrAnnotationFailed(stdErrors.New("throttled"))
		}), time.Second, nil, nil)

		resp, err := inv.Handle(context.Background(), meetingUsecase.AggregateRequest{MeetingID: "m1"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, resp.Body, "throttled")
	})
}

func TestInvocation_FlushesBeforeReturning(t *testing.T) {
	for _, fail := range []bool{false, true} {
		var flushed bool
		agg := aggregatorFunc(func(context.Context, meetingUsecase.AggregateRequest) (*meetingUsecase.AggregateResult, error) {
			assert.False(t, flushed)
			if fail {
				return nil, apperrors.ErrAggregationFailed("persist", stdErrors.New("boom"))
			}
			return &meetingUsecase.AggregateResult{MeetingID: "m1"}, nil
		})
		inv := NewInvocation(agg, time.Second, func() { flushed = true }, nil)

		_, err := inv.Handle(context.Background(), meetingUsecase.AggregateRequest{MeetingID: "m1", JobName: "job1", Bucket: "b"})
		require.NoError(t, err)
		assert.True(t, flushed, "fail=%v", fail)
	}
}

func TestAnalyze_AttachesInvocationMetadata(t *testing.T) {
	var md *jobcontext.Metadata
	agg := aggregatorFunc(func(ctx context.Context, req meetingUsecase.AggregateRequest) (*meetingUsecase.AggregateResult, error) {
		md = jobcontext.GetMetadata(ctx)
		return &meetingUsecase.AggregateResult{MeetingID: req.MeetingID}, nil
	})
	e := newTestServer(agg, &mockService{})

	rec := do(e, http.MethodPost, "/v1/meetings/analyze", `{"meetingId":"m1","jobName":"job1","bucket":"b"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, md)
	assert.Equal(t, TriggerHTTP, md.Trigger)
	assert.Equal(t, "job1", md.JobName)
}
