package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventKind tags one frame of the telephony media stream protocol.
type EventKind string

// Known inbound event kinds. Anything else is logged and ignored.
const (
	EventConnected EventKind = "connected"
	EventStart     EventKind = "start"
	EventMedia     EventKind = "media"
	EventStop      EventKind = "stop"
	EventMark      EventKind = "mark"
	EventDTMF      EventKind = "dtmf"
)

// MediaStreamFrame is one decoded inbound frame. Start and Media are
// populated depending on Event.
type MediaStreamFrame struct {
	Event     EventKind   `json:"event"`
	StreamSID string      `json:"streamSid,omitempty"`
	Start     *StartFrame `json:"start,omitempty"`
	Media     *MediaFrame `json:"media,omitempty"`
}

// StartFrame announces the media stream and carries its identifiers.
type StartFrame struct {
	StreamSID  string   `json:"streamSid"`
	AccountSID string   `json:"accountSid,omitempty"`
	CallSID    string   `json:"callSid,omitempty"`
	Tracks     []string `json:"tracks,omitempty"`
}

// MediaFrame carries one base64-encoded audio payload in the provider's
// negotiated codec.
type MediaFrame struct {
	Track     string `json:"track,omitempty"`
	Chunk     string `json:"chunk,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   string `json:"payload"`
}

// ParseFrame decodes one inbound telephony frame.
func ParseFrame(data []byte) (*MediaStreamFrame, error) {
	var frame MediaStreamFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decoding media stream frame: %w", err)
	}
	if frame.Event == "" {
		return nil, errors.New("media stream frame missing event tag")
	}
	return &frame, nil
}

type outboundMediaFrame struct {
	Event     EventKind            `json:"event"`
	StreamSID string               `json:"streamSid"`
	Media     outboundMediaPayload `json:"media"`
}

type outboundMediaPayload struct {
	Payload string `json:"payload"`
}

// NewOutboundMedia encodes one outbound audio frame tagged with the call's
// stream SID.
func NewOutboundMedia(streamSID, payload string) ([]byte, error) {
	return json.Marshal(outboundMediaFrame{
		Event:     EventMedia,
		StreamSID: streamSID,
		Media:     outboundMediaPayload{Payload: payload},
	})
}
