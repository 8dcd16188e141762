package websocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/zaindgr8/inbound-call-agent/domain/entities"
	"github.com/zaindgr8/inbound-call-agent/domain/repositories"
	"github.com/zaindgr8/inbound-call-agent/internal/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio frames

	// Buffered outbound frames per call. Overflow is dropped, never
	// backpressured onto the upstream event loop.
	sendBufferSize = 256

	callSIDHeader = "X-Twilio-Call-Sid"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The media stream provider connects from rotating IPs without an
		// Origin header.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler accepts inbound media stream connections and runs one Relay per
// call. It owns the session registry for the process lifetime.
type Handler struct {
	registry   repositories.SessionRegistry
	dialer     repositories.RealtimeDialer
	dispatcher repositories.TranscriptDispatcher
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewHandler creates a media stream handler.
func NewHandler(
	registry repositories.SessionRegistry,
	dialer repositories.RealtimeDialer,
	dispatcher repositories.TranscriptDispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		registry:   registry,
		dialer:     dialer,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
	}
}

// HandleMediaStream upgrades the request, resolves the call id, opens the
// upstream realtime session and starts the relay pumps.
func (h *Handler) HandleMediaStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("Media stream upgrade failed", zap.Error(err))
		return err
	}

	callSID := c.Request().Header.Get(callSIDHeader)
	if callSID == "" {
		callSID = fmt.Sprintf("call-%d", time.Now().UnixMilli())
	}

	relay := &Relay{
		connID:     uuid.New().String(),
		conn:       conn,
		send:       make(chan WriteData, sendBufferSize),
		done:       make(chan struct{}),
		session:    h.registry.GetOrCreate(callSID),
		registry:   h.registry,
		dispatcher: h.dispatcher,
		metrics:    h.metrics,
	}
	relay.logger = h.logger.With(
		zap.String("connID", relay.connID),
		zap.String("callSID", callSID),
	)

	h.metrics.RecordCallStarted()
	relay.logger.Info("Media stream connected")

	// The call outlives this HTTP handler, so the dial is not bound to the
	// request context. A failed dial leaves the call running without AI
	// audio; the telephony leg is not torn down.
	upstream, err := h.dialer.Dial(context.Background(), relay)
	if err != nil {
		relay.logger.Error("Failed to open realtime session", zap.Error(err))
	} else {
		relay.upstream = upstream
	}

	go relay.writePump()
	go relay.readPump()

	return nil
}

// WriteData is one outbound websocket message.
type WriteData struct {
	// Type is websocket.TextMessage or websocket.BinaryMessage.
	Type    int
	Payload []byte
}

// Relay binds one inbound telephony stream to one upstream realtime
// session, forwarding audio frames in both directions and updating the
// call session from observed events.
type Relay struct {
	connID string
	conn   *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData
	done chan struct{}

	session    *entities.CallSession
	registry   repositories.SessionRegistry
	dispatcher repositories.TranscriptDispatcher
	upstream   repositories.RealtimeSession

	metrics *metrics.Metrics
	logger  *zap.Logger

	closeOnce sync.Once
}

// readPump pumps frames from the telephony connection until it closes,
// then runs the call teardown.
func (r *Relay) readPump() {
	defer r.finish()

	r.conn.SetReadLimit(maxMessageSize)

	for {
		_, message, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				r.logger.Error("Media stream error", zap.Error(err))
			}
			break
		}
		r.handleFrame(message)
	}
}

// writePump pumps queued outbound frames onto the telephony connection.
func (r *Relay) writePump() {
	defer r.conn.Close()

	for {
		select {
		case <-r.done:
			r.conn.SetWriteDeadline(time.Now().Add(writeWait))
			r.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-r.send:
			r.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := r.conn.WriteMessage(message.Type, message.Payload); err != nil {
				r.logger.Error("Failed to write media frame", zap.Error(err))
				return
			}
		}
	}
}

// handleFrame dispatches one inbound telephony frame by its event tag.
// Malformed frames are logged per message and never end the connection.
func (r *Relay) handleFrame(data []byte) {
	frame, err := ParseFrame(data)
	if err != nil {
		r.metrics.FrameParseErrors.Inc()
		r.logger.Error("Failed to parse media stream frame", zap.Error(err))
		return
	}

	switch frame.Event {
	case EventMedia:
		if frame.Media == nil {
			r.logger.Error("Media frame missing payload")
			return
		}
		if r.upstream == nil || !r.upstream.IsOpen() {
			// No buffering while upstream is down; the audio is dropped.
			r.metrics.FramesDropped.Inc()
			return
		}
		if err := r.upstream.AppendAudio(frame.Media.Payload); err != nil {
			r.logger.Error("Failed to forward audio upstream", zap.Error(err))
			return
		}
		r.metrics.FramesForwarded.Inc()

	case EventStart:
		if frame.Start == nil {
			r.logger.Error("Start frame missing stream announcement")
			return
		}
		r.session.SetStreamSID(frame.Start.StreamSID)
		r.logger.Info("Media stream started", zap.String("streamSID", frame.Start.StreamSID))

	default:
		r.logger.Debug("Ignoring media stream event", zap.String("event", string(frame.Event)))
	}
}

// OnCallerTranscript appends the caller's recognized utterance.
func (r *Relay) OnCallerTranscript(text string) {
	r.session.AddUtterance(entities.SpeakerCaller, text)
	r.metrics.RecordTranscriptLine("caller")
}

// OnAgentTranscript appends the agent's generated reply.
func (r *Relay) OnAgentTranscript(text string) {
	r.session.AddUtterance(entities.SpeakerAgent, text)
	r.metrics.RecordTranscriptLine("agent")
}

// OnAudioDelta wraps one upstream audio chunk in the telephony media-frame
// envelope, tagged with the current stream SID, and queues it downstream.
func (r *Relay) OnAudioDelta(payload string) {
	frame, err := NewOutboundMedia(r.session.StreamSID(), payload)
	if err != nil {
		r.logger.Error("Failed to encode outbound media frame", zap.Error(err))
		return
	}
	r.enqueue(WriteData{Type: websocket.TextMessage, Payload: frame})
	r.metrics.AudioDeltasRelayed.Inc()
}

// enqueue queues one outbound message, dropping it if the buffer is full.
func (r *Relay) enqueue(message WriteData) {
	select {
	case r.send <- message:
	default:
		r.logger.Warn("Outbound buffer full, dropping media frame")
	}
}

// finish tears down the call: close the upstream session, log the final
// transcript, hand it to the dispatcher as a detached task whose failure
// is only logged, and delete the session from the registry.
func (r *Relay) finish() {
	r.closeOnce.Do(func() {
		close(r.done)
		if r.conn != nil {
			r.conn.Close()
		}

		if r.upstream != nil && r.upstream.IsOpen() {
			if err := r.upstream.Close(); err != nil {
				r.logger.Error("Failed to close realtime session", zap.Error(err))
			}
		}

		transcript := r.session.TranscriptText()
		callSID := r.session.CallSID
		r.logger.Info("Call ended", zap.String("transcript", transcript))

		go func() {
			if err := r.dispatcher.Dispatch(context.Background(), transcript, callSID); err != nil {
				r.metrics.RecordDispatch(false)
				r.logger.Error("Transcript dispatch failed", zap.Error(err))
				return
			}
			r.metrics.RecordDispatch(true)
		}()

		r.registry.Delete(callSID)
		r.metrics.RecordCallCompleted()
	})
}
