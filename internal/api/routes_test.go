package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zaindgr8/inbound-call-agent/adapters"
	"github.com/zaindgr8/inbound-call-agent/internal/metrics"
	"github.com/zaindgr8/inbound-call-agent/internal/websocket"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	e := echo.New()
	logger := zap.NewNop()
	m := metrics.New()
	handler := websocket.NewHandler(
		adapters.NewMemorySessionRegistry(),
		nil,
		nil,
		m,
		logger,
	)
	InitRoutes(e, handler, m, logger)
	return e
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", rec.Body.String())
	}
}

func TestIncomingCall(t *testing.T) {
	e := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/incoming-call", nil)
			req.Host = "agent.example.com"
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}

			body := rec.Body.String()
			if !strings.Contains(body, `<Stream url="wss://agent.example.com/media-stream" />`) {
				t.Errorf("TwiML missing stream URL for request host:\n%s", body)
			}
			if !strings.Contains(body, "<Connect>") {
				t.Errorf("TwiML missing Connect verb:\n%s", body)
			}
			if !strings.Contains(body, "<Say>") {
				t.Errorf("TwiML missing greeting:\n%s", body)
			}
			if ct := rec.Header().Get(echo.HeaderContentType); !strings.Contains(ct, "xml") {
				t.Errorf("Content-Type = %q, want XML", ct)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "call_agent_calls_started_total") {
		t.Errorf("metrics output missing call counters:\n%s", rec.Body.String())
	}
}
