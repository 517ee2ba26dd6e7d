package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type recordedRequest struct {
	method string
	status int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordUserCreated()         {}
func (f *fakeRecorder) RecordExerciseRecorded(int) {}
func (f *fakeRecorder) RecordLogQuery(bool, int)   {}
func (f *fakeRecorder) RecordHTTPRequest(method string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method, status})
}

func TestLogger_RecordsStatusAndBytes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rec := &fakeRecorder{}

	h := Logger(logger, rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/users", nil))

	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=201")
	assert.Contains(t, out, "bytes=5")
	assert.Contains(t, out, "path=/api/users")
	require.Len(t, rec.requests, 1)
	assert.Equal(t, recordedRequest{http.MethodPost, http.StatusCreated}, rec.requests[0])
}

func TestLogger_DefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	rec := &fakeRecorder{}
	h := Logger(slog.New(slog.NewTextHandler(&buf, nil)), rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.requests[0].status)
	assert.True(t, strings.Contains(buf.String(), "level=INFO"))
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	var logs bytes.Buffer
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Limit(0.001),
		Burst:           2,
		CleanupInterval: time.Hour,
		IdleTTL:         time.Hour,
	}, slog.New(slog.NewTextHandler(&logs, nil)))
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:2222").Code)

	blocked := send("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "too many requests")
	assert.Contains(t, logs.String(), "rate limit exceeded")
	assert.Contains(t, logs.String(), "client=10.0.0.1")

	// a different client has its own budget
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1111").Code)
	assert.Equal(t, 2, rl.ClientCount())
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Limit(1),
		Burst:           1,
		CleanupInterval: time.Hour,
		IdleTTL:         time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer rl.Stop()

	rl.limiter("10.0.0.1")
	require.Equal(t, 1, rl.ClientCount())

	rl.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, rl.ClientCount())
}

func TestPerMinute(t *testing.T) {
	cfg := PerMinute(120)
	assert.Equal(t, rate.Limit(2), cfg.Rate)
	assert.Equal(t, 120, cfg.Burst)
}
