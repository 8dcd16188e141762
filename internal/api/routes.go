// Package api wires the HTTP surface: call-control webhook, media stream
// endpoint, health check and metrics.
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zaindgr8/inbound-call-agent/internal/metrics"
	"github.com/zaindgr8/inbound-call-agent/internal/websocket"
)

const twimlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
    <Say>Please wait while we connect your call to the A. I. voice assistant, powered by the Open-A I Realtime API</Say>
    <Pause length="1"/>
    <Say>O K, you can start talking!</Say>
    <Connect>
        <Stream url="wss://%s/media-stream" />
    </Connect>
</Response>`

// InitRoutes registers all routes on the echo instance.
func InitRoutes(e *echo.Echo, handler *websocket.Handler, m *metrics.Metrics, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "inbound-call-agent",
		})
	})

	// Call-control webhook: answer with TwiML that speaks a greeting and
	// opens a bidirectional media stream back to this host.
	incomingCall := func(c echo.Context) error {
		host := c.Request().Host
		logger.Info("Incoming call", zap.String("host", host))
		return c.XMLBlob(http.StatusOK, []byte(fmt.Sprintf(twimlTemplate, host)))
	}
	e.GET("/incoming-call", incomingCall)
	e.POST("/incoming-call", incomingCall)

	// Media stream endpoint: one relay per call.
	e.GET("/media-stream", handler.HandleMediaStream)

	// Prometheus metrics
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
}
