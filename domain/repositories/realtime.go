package repositories

import "context"

// RealtimeHandler receives the per-call effects of upstream speech AI
// events. The media relay implements it: transcript lines go into the call
// session, audio deltas go back down the telephony stream.
type RealtimeHandler interface {
	// OnCallerTranscript is called with the caller's recognized utterance.
	OnCallerTranscript(text string)
	// OnAgentTranscript is called with the agent's generated reply.
	OnAgentTranscript(text string)
	// OnAudioDelta is called with one base64-encoded audio chunk to be
	// forwarded downstream immediately.
	OnAudioDelta(payload string)
}

// RealtimeSession is one live streaming session with the speech AI service.
type RealtimeSession interface {
	// AppendAudio forwards one base64-encoded inbound audio payload as an
	// input-audio-append message.
	AppendAudio(payload string) error
	// IsOpen reports whether the upstream connection is still usable.
	IsOpen() bool
	Close() error
}

// RealtimeDialer opens one realtime session per call. Events observed on
// the session are translated and delivered to the handler.
type RealtimeDialer interface {
	Dial(ctx context.Context, handler RealtimeHandler) (RealtimeSession, error)
}
