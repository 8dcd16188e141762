package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zaindgr8/inbound-call-agent/domain/repositories"
)

const (
	defaultRealtimeURL = "wss://api.openai.com/v1/realtime"
	defaultModel       = "gpt-4o-realtime-preview-2024-10-01"
	defaultVoice       = "alloy"
	defaultTemperature = 0.8

	// The remote session needs a moment to initialize before it accepts a
	// session.update.
	sessionUpdateDelay = 250 * time.Millisecond

	transcriptionModel = "whisper-1"

	// Recorded as the agent line when a response carries no transcript,
	// so the turn is never silently dropped.
	missingAgentMessage = "Agent message not found"
)

// ErrSessionClosed is returned by AppendAudio after the upstream
// connection has ended.
var ErrSessionClosed = errors.New("realtime session is closed")

// RealtimeConfig holds configuration for the realtime dialer.
// Required fields:
// - APIKey: OpenAI API key used as the bearer credential
// Optional fields with defaults:
// - BaseURL: realtime endpoint (default "wss://api.openai.com/v1/realtime")
// - Model: realtime model (default "gpt-4o-realtime-preview-2024-10-01")
// - Voice: agent voice identity (default "alloy")
// - Instructions: system persona text sent with the session configuration
// - Temperature: sampling temperature (default 0.8)
type RealtimeConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Voice        string
	Instructions string
	Temperature  float64
}

// RealtimeDialer opens one realtime session per call.
type RealtimeDialer struct {
	cfg    RealtimeConfig
	logger *zap.Logger
}

var _ repositories.RealtimeDialer = (*RealtimeDialer)(nil)

// NewRealtimeDialer validates the configuration and applies defaults.
func NewRealtimeDialer(cfg RealtimeConfig, logger *zap.Logger) (*RealtimeDialer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultRealtimeURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = defaultVoice
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	return &RealtimeDialer{cfg: cfg, logger: logger}, nil
}

// Dial connects to the realtime endpoint, schedules the session
// configuration after a short fixed delay, and starts the event loop that
// feeds the handler. A dropped connection is logged and marks the session
// closed; no reconnection is attempted.
func (d *RealtimeDialer) Dial(ctx context.Context, handler repositories.RealtimeHandler) (repositories.RealtimeSession, error) {
	endpoint, err := url.Parse(d.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing realtime base URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("model", d.cfg.Model)
	endpoint.RawQuery = query.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+d.cfg.APIKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing realtime endpoint (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dialing realtime endpoint: %w", err)
	}

	session := &realtimeSession{
		conn:   conn,
		cfg:    d.cfg,
		logger: d.logger,
		open:   true,
	}

	d.logger.Info("Realtime session connected", zap.String("model", d.cfg.Model))

	go session.readLoop(handler)
	go session.configureAfterDelay()

	return session, nil
}

// realtimeSession is one live gorilla/websocket connection to the
// realtime API.
type realtimeSession struct {
	conn   *websocket.Conn
	cfg    RealtimeConfig
	logger *zap.Logger

	writeMu sync.Mutex

	mu   sync.RWMutex
	open bool
}

// configureAfterDelay sends the session.update once the remote session has
// had time to initialize.
func (s *realtimeSession) configureAfterDelay() {
	time.Sleep(sessionUpdateDelay)

	update := sessionUpdateEvent{
		Type: ClientEventTypeSessionUpdate,
		Session: sessionConfig{
			TurnDetection:     &turnDetection{Type: "server_vad"},
			InputAudioFormat:  "g711_ulaw",
			OutputAudioFormat: "g711_ulaw",
			Voice:             s.cfg.Voice,
			Instructions:      s.cfg.Instructions,
			Modalities:        []string{"text", "audio"},
			Temperature:       s.cfg.Temperature,
			InputAudioTranscription: &audioTranscription{
				Model: transcriptionModel,
			},
		},
	}

	if err := s.writeEvent(update); err != nil {
		s.logger.Error("Failed to send session update", zap.Error(err))
		return
	}
	s.logger.Info("Session update sent",
		zap.String("voice", s.cfg.Voice),
		zap.Float64("temperature", s.cfg.Temperature))
}

// AppendAudio forwards one base64 payload as an input_audio_buffer.append.
func (s *realtimeSession) AppendAudio(payload string) error {
	if !s.IsOpen() {
		return ErrSessionClosed
	}
	return s.writeEvent(audioAppendEvent{
		Type:  ClientEventTypeInputAudioAppend,
		Audio: payload,
	})
}

// IsOpen reports whether the upstream connection is still usable.
func (s *realtimeSession) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Close marks the session closed and closes the connection.
func (s *realtimeSession) Close() error {
	s.markClosed()
	return s.conn.Close()
}

func (s *realtimeSession) markClosed() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// writeEvent serializes one client event onto the connection. gorilla
// connections allow a single concurrent writer, so writes are serialized.
func (s *realtimeSession) writeEvent(event interface{}) error {
	data, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling client event: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop pumps events from the realtime connection into the handler
// until the connection ends. Errors and close events end the loop; the
// telephony leg of the call is unaffected.
func (s *realtimeSession) readLoop(handler repositories.RealtimeHandler) {
	defer s.markClosed()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Error("Realtime connection error", zap.Error(err))
			} else {
				s.logger.Info("Realtime connection closed", zap.Error(err))
			}
			return
		}
		s.dispatchEvent(data, handler)
	}
}

// dispatchEvent decodes one inbound event and applies it. Malformed
// payloads are logged per message and never terminate the connection.
func (s *realtimeSession) dispatchEvent(data []byte, handler repositories.RealtimeHandler) {
	var event serverEvent
	if err := sonic.Unmarshal(data, &event); err != nil {
		s.logger.Error("Failed to parse realtime event",
			zap.Error(err),
			zap.ByteString("data", data))
		return
	}

	switch event.Type {
	case ServerEventTypeTranscriptionCompleted:
		s.logger.Info("Caller transcript", zap.String("transcript", event.Transcript))
		handler.OnCallerTranscript(event.Transcript)

	case ServerEventTypeResponseDone:
		transcript := agentTranscript(event.Response)
		s.logger.Info("Agent transcript", zap.String("transcript", transcript))
		handler.OnAgentTranscript(transcript)

	case ServerEventTypeResponseAudioDelta:
		if event.Delta != "" {
			handler.OnAudioDelta(event.Delta)
		}

	case ServerEventTypeError:
		s.logger.Warn("Realtime API error event",
			zap.Any("error", event.Error),
			zap.String("event_id", event.EventID))

	default:
		if _, ok := logOnlyEvents[event.Type]; ok {
			s.logger.Debug("Realtime event", zap.String("type", string(event.Type)))
		} else {
			s.logger.Debug("Ignoring unknown realtime event", zap.String("type", string(event.Type)))
		}
	}
}

// agentTranscript extracts the agent's reply from a finished response: the
// first content item bearing a transcript. A response without one still
// produces a line so the turn is visible in the transcript.
func agentTranscript(response *responsePayload) string {
	if response == nil {
		return missingAgentMessage
	}
	for _, item := range response.Output {
		for _, part := range item.Content {
			if part.Transcript != "" {
				return part.Transcript
			}
		}
	}
	return missingAgentMessage
}
