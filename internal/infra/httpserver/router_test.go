package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bryanwahyu/resume-analyzer/internal/application"
	appai "github.com/bryanwahyu/resume-analyzer/internal/application/ai"
	appresume "github.com/bryanwahyu/resume-analyzer/internal/application/resume"
	domai "github.com/bryanwahyu/resume-analyzer/internal/domain/ai"
	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/ai/prompt"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/extract"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/memory"
	"github.com/bryanwahyu/resume-analyzer/internal/middleware"
)

var now = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, reviewer domai.Client, opts Options) http.Handler {
	t.Helper()
	svc := &appresume.Service{
		Store:     memory.NewStore(),
		Extractor: extract.NewPlainText(),
		Clock:     application.FixedClock{T: now},
		NewID:     func(time.Time) domain.AnalysisID { return "resume_1" },
		Log:       zap.NewNop(),
	}
	if reviewer == nil {
		reviewer = prompt.LocalReviewer{}
	}
	return NewRouter(svc, appai.NewService(reviewer, zap.NewNop()), opts)
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHello(t *testing.T) {
	rec := do(t, newTestRouter(t, nil, Options{}), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello from Go Backend!"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t, nil, Options{})

	rec := do(t, h, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"name":"ana"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"user_ana","name":"ana"}`, rec.Body.String())

	rec = do(t, h, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"name":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadThenReadBack(t *testing.T) {
	h := newTestRouter(t, nil, Options{})

	body, ct := multipartBody(t, map[string]string{"userId": "user_ana"}, "cv.txt", "education: degree from university, GPA 3.8")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var up appresume.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	assert.Equal(t, domain.AnalysisID("resume_1"), up.ResumeID)
	assert.Equal(t, "cv.txt", up.Filename)
	assert.Equal(t, 16, up.Score)

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/analyze/resume_1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.EqualValues(t, 16, raw["score"])
	assert.Equal(t, "resume_1", raw["resume_id"])
	created, err := time.Parse(time.RFC3339, raw["created_at"].(string))
	require.NoError(t, err)
	assert.True(t, created.Equal(now))

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/history/user_ana", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 16, list[0].Score)
}

func TestUploadMissingParts(t *testing.T) {
	h := newTestRouter(t, nil, Options{})

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
	}{
		{name: "no file", fields: map[string]string{"userId": "user_ana"}},
		{name: "no user", filename: "cv.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.fields, tt.filename, "skills")
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", ct)
			rec := do(t, h, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"No file uploaded or missing user ID"}`, rec.Body.String())
		})
	}
}

func TestUploadNotMultipart(t *testing.T) {
	rec := do(t, newTestRouter(t, nil, Options{}), httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("{}")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadTooLarge(t *testing.T) {
	h := newTestRouter(t, nil, Options{MaxUploadBytes: 1024})

	body, ct := multipartBody(t, map[string]string{"userId": "u"}, "cv.txt", strings.Repeat("x", 4096))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := do(t, h, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAnalyzeUnknownReturnsPlaceholder(t *testing.T) {
	rec := do(t, newTestRouter(t, nil, Options{}), httptest.NewRequest(http.MethodGet, "/analyze/resume_nope", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, []string{domain.NoAnalysisSuggestion}, got.Improvements)
	assert.Equal(t, domain.AnalysisID("resume_nope"), got.ResumeID)
}

func TestHistoryUnknownUserIsEmptyArray(t *testing.T) {
	rec := do(t, newTestRouter(t, nil, Options{}), httptest.NewRequest(http.MethodGet, "/history/ghost", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestReview(t *testing.T) {
	h := newTestRouter(t, nil, Options{})

	body, ct := multipartBody(t, nil, "cv.txt", "education: degree from university, GPA 3.8")
	req := httptest.NewRequest(http.MethodPost, "/review", body)
	req.Header.Set("Content-Type", ct)
	rec := do(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got domai.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, prompt.SourceLocal, got.Source)
	assert.NotEmpty(t, got.Suggestions)
}

type quotaClient struct{}

func (quotaClient) Review(context.Context, domai.ReviewInput) (domai.Review, error) {
	return domai.Review{}, domai.ErrQuotaExceeded
}

func TestReviewQuota(t *testing.T) {
	h := newTestRouter(t, quotaClient{}, Options{})

	body, ct := multipartBody(t, nil, "cv.txt", "skills")
	req := httptest.NewRequest(http.MethodPost, "/review", body)
	req.Header.Set("Content-Type", ct)

	assert.Equal(t, http.StatusTooManyRequests, do(t, h, req).Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := do(t, newTestRouter(t, nil, Options{}), req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestProbesAndMetrics(t *testing.T) {
	h := newTestRouter(t, nil, Options{
		Metrics: middleware.NewMetrics(),
		Limiter: middleware.NewRateLimiter(100, 10),
		Checks:  map[string]middleware.HealthChecker{},
	})

	assert.Equal(t, http.StatusOK, do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusOK, do(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	assert.Equal(t, http.StatusOK, do(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil)).Code)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume_http_requests_in_flight")
}

// Same option set cmd/api wires: every middleware plus the /metrics route.
func TestRouterFullyWired(t *testing.T) {
	metrics := middleware.NewMetrics()
	store := memory.NewStore()
	metrics.TrackStored(store.Len)
	extractor := extract.NewPlainText()

	svc := &appresume.Service{
		Store:     store,
		Extractor: extractor,
		Clock:     application.FixedClock{T: now},
		NewID:     func(time.Time) domain.AnalysisID { return "resume_1" },
		Log:       zap.NewNop(),
		Observe:   metrics.ObserveAnalysis,
	}

	var h http.Handler
	require.NotPanics(t, func() {
		h = NewRouter(svc, appai.NewService(prompt.LocalReviewer{}, zap.NewNop()), Options{
			Log:            zap.NewNop(),
			Metrics:        metrics,
			Limiter:        middleware.NewRateLimiter(100, 10),
			Checks:         map[string]middleware.HealthChecker{},
			MaxUploadBytes: 1 << 20,
			Extractor:      extractor,
		})
	})

	body, ct := multipartBody(t, map[string]string{"userId": "user_ana"}, "cv.txt", "skills: programming")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	require.Equal(t, http.StatusOK, do(t, h, req).Code)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume_analyses_total 1")
	assert.Contains(t, rec.Body.String(), "resume_analyses_stored 1")
	assert.Contains(t, rec.Body.String(), `resume_http_requests_total{code="200",method="POST"} 1`)
}
