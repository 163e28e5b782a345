package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	domain "github.com/bryanwahyu/resume-analyzer/internal/domain/resume"
)

func teapot(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("short and stout"))
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Logging(zap.New(core))(http.HandlerFunc(teapot))

	req := httptest.NewRequest(http.MethodGet, "/history/user_ana", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "/history/user_ana", ctx["path"])
	assert.EqualValues(t, http.StatusTeapot, ctx["status"])
	assert.EqualValues(t, len("short and stout"), ctx["bytes"])
	assert.Equal(t, "10.0.0.7", ctx["ip"])
}

func TestLoggingServerErrorsAtErrorLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	h := m.Middleware(http.HandlerFunc(teapot))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/upload", nil))
	m.ObserveAnalysis(domain.Analysis{Score: 42})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `resume_http_requests_total{code="418",method="POST"} 1`)
	assert.Contains(t, body, "resume_analyses_total 1")
	assert.Contains(t, body, "resume_analysis_score_sum 42")
}

func TestTokenBucket(t *testing.T) {
	start := time.Unix(0, 0)
	tb := NewTokenBucket(2, 1, start)

	assert.True(t, tb.Allow(start))
	assert.True(t, tb.Allow(start))
	assert.False(t, tb.Allow(start))
	assert.True(t, tb.Allow(start.Add(1500*time.Millisecond)))
	assert.False(t, tb.Allow(start.Add(1500*time.Millisecond)))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Unix(100, 0)
	limiter.now = func() time.Time { return now }
	limited := 0
	h := RateLimit(limiter, func() { limited++ })(http.HandlerFunc(teapot))

	do := func(path, addr string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusTeapot, do("/history/a", "1.1.1.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, do("/history/a", "1.1.1.1:2"))
	assert.Equal(t, http.StatusTeapot, do("/history/a", "2.2.2.2:1"))
	assert.Equal(t, http.StatusTeapot, do("/health", "1.1.1.1:3"))
	assert.Equal(t, 1, limited)

	now = now.Add(time.Hour)
	assert.Equal(t, 2, limiter.Prune(time.Minute))
}

type checkFunc func(context.Context) error

func (f checkFunc) Check(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := checkFunc(func(context.Context) error { return nil })
	bad := checkFunc(func(context.Context) error { return errors.New("no bucket") })

	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"storage": ok})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"storage": ok, "archive": bad})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no bucket")
}

func TestProbeHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	ReadinessHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready"`)

	bad := checkFunc(func(context.Context) error { return errors.New("down") })
	slow := checkFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec = httptest.NewRecorder()
	ReadinessHandler(map[string]HealthChecker{"archive": bad, "storage": slow})(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil).WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not ready","failing":["archive","storage"]}`, rec.Body.String())
}

func TestValidateUserID(t *testing.T) {
	for _, ok := range []string{"user_ana", "user_Ana María", "42", "a@b.c"} {
		assert.NoError(t, ValidateUserID(ok), ok)
	}
	for _, bad := range []string{"", "a/b", "a\\b", "tab\there", strings.Repeat("x", 129)} {
		assert.Error(t, ValidateUserID(bad), bad)
	}
}

func TestValidateResumeID(t *testing.T) {
	assert.NoError(t, ValidateResumeID("resume_1700000000000-abcd1234"))
	assert.Error(t, ValidateResumeID(""))
	assert.Error(t, ValidateResumeID("resume 1"))
	assert.Error(t, ValidateResumeID("../x"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("ana"))
	assert.Error(t, ValidateName("  "))
	assert.Error(t, ValidateName(strings.Repeat("n", 65)))
	assert.Error(t, ValidateName("a/b"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello\tworld", SanitizeString(" hello\x00\tworld\x07 "))
}

func TestLimitBody(t *testing.T) {
	var readErr error
	h := LimitBody(4)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("too long")))

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}

func TestMetricsRateLimited(t *testing.T) {
	m := NewMetrics()
	m.RateLimited()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "resume_http_rate_limited_total 1")
}

func TestMetricsTrackStored(t *testing.T) {
	m := NewMetrics()
	n := 0
	m.TrackStored(func() int { return n })
	n = 3

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "resume_analyses_stored 3")
}
