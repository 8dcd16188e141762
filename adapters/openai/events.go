package openai

// Realtime API wire events. Only the subset this service reacts to is
// modeled; everything else falls through to the unknown arm.

// ServerEventType tags an event received from the realtime session.
type ServerEventType string

const (
	ServerEventTypeError                  ServerEventType = "error"
	ServerEventTypeSessionCreated         ServerEventType = "session.created"
	ServerEventTypeSessionUpdated         ServerEventType = "session.updated"
	ServerEventTypeRateLimitsUpdated      ServerEventType = "rate_limits.updated"
	ServerEventTypeInputAudioCommitted    ServerEventType = "input_audio_buffer.committed"
	ServerEventTypeInputSpeechStarted     ServerEventType = "input_audio_buffer.speech_started"
	ServerEventTypeInputSpeechStopped     ServerEventType = "input_audio_buffer.speech_stopped"
	ServerEventTypeTranscriptionCompleted ServerEventType = "conversation.item.input_audio_transcription.completed"
	ServerEventTypeResponseAudioDelta     ServerEventType = "response.audio.delta"
	ServerEventTypeResponseDone           ServerEventType = "response.done"
	ServerEventTypeResponseTextDone       ServerEventType = "response.text.done"
	ServerEventTypeResponseContentDone    ServerEventType = "response.content.done"
)

// ClientEventType tags a message sent to the realtime session.
type ClientEventType string

const (
	ClientEventTypeSessionUpdate    ClientEventType = "session.update"
	ClientEventTypeInputAudioAppend ClientEventType = "input_audio_buffer.append"
)

// logOnlyEvents are observed and logged but carry no state change.
var logOnlyEvents = map[ServerEventType]struct{}{
	ServerEventTypeSessionCreated:      {},
	ServerEventTypeSessionUpdated:      {},
	ServerEventTypeRateLimitsUpdated:   {},
	ServerEventTypeInputAudioCommitted: {},
	ServerEventTypeInputSpeechStarted:  {},
	ServerEventTypeInputSpeechStopped:  {},
	ServerEventTypeResponseTextDone:    {},
	ServerEventTypeResponseContentDone: {},
}

// serverEvent is the decoded shape of one inbound realtime event. Fields
// are populated depending on Type.
type serverEvent struct {
	Type       ServerEventType  `json:"type"`
	EventID    string           `json:"event_id,omitempty"`
	Delta      string           `json:"delta,omitempty"`
	Transcript string           `json:"transcript,omitempty"`
	Response   *responsePayload `json:"response,omitempty"`
	Error      *errorPayload    `json:"error,omitempty"`
}

type responsePayload struct {
	Output []outputItem `json:"output"`
}

type outputItem struct {
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type       string `json:"type,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

type errorPayload struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// sessionUpdateEvent configures the realtime session after connect.
type sessionUpdateEvent struct {
	Type    ClientEventType `json:"type"`
	Session sessionConfig   `json:"session"`
}

type sessionConfig struct {
	TurnDetection           *turnDetection      `json:"turn_detection,omitempty"`
	InputAudioFormat        string              `json:"input_audio_format,omitempty"`
	OutputAudioFormat       string              `json:"output_audio_format,omitempty"`
	Voice                   string              `json:"voice,omitempty"`
	Instructions            string              `json:"instructions,omitempty"`
	Modalities              []string            `json:"modalities,omitempty"`
	Temperature             float64             `json:"temperature,omitempty"`
	InputAudioTranscription *audioTranscription `json:"input_audio_transcription,omitempty"`
}

type turnDetection struct {
	Type string `json:"type"`
}

type audioTranscription struct {
	Model string `json:"model"`
}

// audioAppendEvent carries one base64 audio payload upstream.
type audioAppendEvent struct {
	Type  ClientEventType `json:"type"`
	Audio string          `json:"audio"`
}
