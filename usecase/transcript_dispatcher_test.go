package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/zaindgr8/inbound-call-agent/domain/entities"
)

// fakeSummarizer returns a fixed record or error.
type fakeSummarizer struct {
	record *entities.CustomerRecord
	err    error

	mu          sync.Mutex
	transcripts []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript string) (*entities.CustomerRecord, error) {
	f.mu.Lock()
	f.transcripts = append(f.transcripts, transcript)
	f.mu.Unlock()
	return f.record, f.err
}

// webhookRecorder captures every POST it receives.
type webhookRecorder struct {
	mu     sync.Mutex
	bodies [][]byte
	status int
}

func (w *webhookRecorder) handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.mu.Lock()
		w.bodies = append(w.bodies, body)
		w.mu.Unlock()
		if w.status != 0 {
			rw.WriteHeader(w.status)
		}
	}
}

func (w *webhookRecorder) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bodies)
}

func TestDispatch_DeliversRecord(t *testing.T) {
	record := &entities.CustomerRecord{
		CustomerName:         "Jamie Doe",
		CustomerAvailability: "2026-08-24",
		SpecialNotes:         "none",
	}
	summarizer := &fakeSummarizer{record: record}
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	dispatcher := NewTranscriptDispatcher(summarizer, server.URL, zap.NewNop())
	if err := dispatcher.Dispatch(context.Background(), "User: hello\n", "CA123"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if recorder.count() != 1 {
		t.Fatalf("webhook POSTs = %d, want 1", recorder.count())
	}

	var delivered entities.CustomerRecord
	if err := json.Unmarshal(recorder.bodies[0], &delivered); err != nil {
		t.Fatalf("unmarshaling delivered body: %v", err)
	}
	if delivered != *record {
		t.Errorf("delivered record = %+v, want %+v", delivered, *record)
	}

	if len(summarizer.transcripts) != 1 || summarizer.transcripts[0] != "User: hello\n" {
		t.Errorf("summarizer transcripts = %v", summarizer.transcripts)
	}
}

func TestDispatch_SummarizerFailure(t *testing.T) {
	summarizer := &fakeSummarizer{err: errors.New("completion unavailable")}
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	dispatcher := NewTranscriptDispatcher(summarizer, server.URL, zap.NewNop())
	if err := dispatcher.Dispatch(context.Background(), "User: hello\n", "CA123"); err == nil {
		t.Error("expected error when summarization fails")
	}

	if recorder.count() != 0 {
		t.Errorf("webhook POSTs = %d, want 0", recorder.count())
	}
}

func TestDispatch_WebhookNonSuccessStatus(t *testing.T) {
	summarizer := &fakeSummarizer{record: &entities.CustomerRecord{
		CustomerName:         "Jamie Doe",
		CustomerAvailability: "2026-08-24",
		SpecialNotes:         "none",
	}}
	recorder := &webhookRecorder{status: http.StatusBadGateway}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	dispatcher := NewTranscriptDispatcher(summarizer, server.URL, zap.NewNop())

	// Fire-and-forget: a rejecting webhook is logged, not escalated.
	if err := dispatcher.Dispatch(context.Background(), "User: hello\n", "CA123"); err != nil {
		t.Errorf("Dispatch() error = %v, want nil", err)
	}
	if recorder.count() != 1 {
		t.Errorf("webhook POSTs = %d, want 1", recorder.count())
	}
}

func TestDispatch_NoWebhookConfigured(t *testing.T) {
	summarizer := &fakeSummarizer{record: &entities.CustomerRecord{
		CustomerName:         "Jamie Doe",
		CustomerAvailability: "2026-08-24",
		SpecialNotes:         "none",
	}}

	dispatcher := NewTranscriptDispatcher(summarizer, "", zap.NewNop())
	if err := dispatcher.Dispatch(context.Background(), "User: hello\n", "CA123"); err != nil {
		t.Errorf("Dispatch() error = %v, want nil", err)
	}

	if len(summarizer.transcripts) != 0 {
		t.Errorf("summarizer called %d times, want 0", len(summarizer.transcripts))
	}
}

func TestDispatch_WebhookUnreachable(t *testing.T) {
	summarizer := &fakeSummarizer{record: &entities.CustomerRecord{
		CustomerName:         "Jamie Doe",
		CustomerAvailability: "2026-08-24",
		SpecialNotes:         "none",
	}}

	dispatcher := NewTranscriptDispatcher(summarizer, "http://127.0.0.1:1/webhook", zap.NewNop())
	if err := dispatcher.Dispatch(context.Background(), "User: hello\n", "CA123"); err == nil {
		t.Error("expected error when webhook is unreachable")
	}
}
