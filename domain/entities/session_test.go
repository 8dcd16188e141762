package entities

import (
	"fmt"
	"sync"
	"testing"
)

func TestCallSession_TranscriptText(t *testing.T) {
	tests := []struct {
		name       string
		utterances []Utterance
		want       string
	}{
		{
			name:       "empty transcript",
			utterances: nil,
			want:       "",
		},
		{
			name: "caller then agent",
			utterances: []Utterance{
				{Speaker: SpeakerCaller, Text: "hello"},
				{Speaker: SpeakerAgent, Text: "hi there"},
			},
			want: "User: hello\nAgent: hi there\n",
		},
		{
			name: "append order preserved",
			utterances: []Utterance{
				{Speaker: SpeakerAgent, Text: "welcome"},
				{Speaker: SpeakerCaller, Text: "hi"},
				{Speaker: SpeakerCaller, Text: "hi"},
			},
			want: "Agent: welcome\nUser: hi\nUser: hi\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCallSession("CA123")
			for _, u := range tt.utterances {
				s.AddUtterance(u.Speaker, u.Text)
			}
			if got := s.TranscriptText(); got != tt.want {
				t.Errorf("TranscriptText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCallSession_StreamSID(t *testing.T) {
	s := NewCallSession("CA123")
	if got := s.StreamSID(); got != "" {
		t.Errorf("StreamSID() before start = %q, want empty", got)
	}
	s.SetStreamSID("SID123")
	if got := s.StreamSID(); got != "SID123" {
		t.Errorf("StreamSID() = %q, want %q", got, "SID123")
	}
}

func TestCallSession_UtterancesReturnsCopy(t *testing.T) {
	s := NewCallSession("CA123")
	s.AddUtterance(SpeakerCaller, "hello")

	got := s.Utterances()
	got[0].Text = "mutated"

	if s.Utterances()[0].Text != "hello" {
		t.Errorf("Utterances() did not return a copy")
	}
}

func TestCallSession_ConcurrentAppend(t *testing.T) {
	s := NewCallSession("CA123")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.AddUtterance(SpeakerCaller, fmt.Sprintf("line %d", n))
		}(i)
	}
	wg.Wait()

	if got := len(s.Utterances()); got != 10 {
		t.Errorf("len(Utterances()) = %d, want 10", got)
	}
}
