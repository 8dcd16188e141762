package repositories

import (
	"context"

	"github.com/zaindgr8/inbound-call-agent/domain/entities"
)

// TranscriptSummarizer turns a finished call transcript into a structured
// customer record via a text-completion service.
type TranscriptSummarizer interface {
	Summarize(ctx context.Context, transcript string) (*entities.CustomerRecord, error)
}

// TranscriptDispatcher runs the post-call step: summarize the transcript
// and deliver the extracted record to the configured webhook.
type TranscriptDispatcher interface {
	Dispatch(ctx context.Context, transcript, callSID string) error
}
