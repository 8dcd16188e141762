package entities

import (
	"strings"
	"sync"
)

// Speaker identifies which side of the call produced an utterance.
type Speaker string

const (
	SpeakerCaller Speaker = "User"
	SpeakerAgent  Speaker = "Agent"
)

// Utterance is one recognized line of the call transcript.
type Utterance struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// CallSession holds the lifetime-bounded state for one phone call: the
// accumulated transcript and the media stream SID used to tag outbound
// audio frames. It is created on the first inbound connection for a call
// SID and destroyed when that connection closes.
//
// The telephony read loop and the upstream event loop both touch the
// session, so access is mutex-guarded.
type CallSession struct {
	CallSID string

	mu         sync.RWMutex
	streamSID  string
	utterances []Utterance
}

// NewCallSession creates a session with an empty transcript and no stream SID.
func NewCallSession(callSID string) *CallSession {
	return &CallSession{
		CallSID:    callSID,
		utterances: make([]Utterance, 0),
	}
}

// SetStreamSID records the stream identifier announced by the media stream.
func (s *CallSession) SetStreamSID(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streamSID = sid
}

// StreamSID returns the stream identifier, or "" before the start frame.
func (s *CallSession) StreamSID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streamSID
}

// AddUtterance appends one speaker-tagged line to the transcript.
// Lines are kept in append order; nothing is reordered or deduplicated.
func (s *CallSession) AddUtterance(speaker Speaker, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utterances = append(s.utterances, Utterance{Speaker: speaker, Text: text})
}

// Utterances returns a copy of the transcript lines.
func (s *CallSession) Utterances() []Utterance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Utterance, len(s.utterances))
	copy(out, s.utterances)
	return out
}

// TranscriptText renders the transcript as one line per utterance,
// e.g. "User: hello\nAgent: hi there\n".
func (s *CallSession) TranscriptText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var b strings.Builder
	for _, u := range s.utterances {
		b.WriteString(string(u.Speaker))
		b.WriteString(": ")
		b.WriteString(u.Text)
		b.WriteString("\n")
	}
	return b.String()
}
