package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zaindgr8/inbound-call-agent/domain/repositories"
)

const webhookTimeout = 30 * time.Second

// TranscriptDispatcher runs the post-call step: summarize the finished
// transcript into a customer record and POST it to the configured webhook.
// Every failure is log-and-abort; nothing is retried.
type TranscriptDispatcher struct {
	summarizer repositories.TranscriptSummarizer
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ repositories.TranscriptDispatcher = (*TranscriptDispatcher)(nil)

// NewTranscriptDispatcher creates a dispatcher posting to webhookURL. An
// empty URL disables delivery; dispatch then logs and returns.
func NewTranscriptDispatcher(summarizer repositories.TranscriptSummarizer, webhookURL string, logger *zap.Logger) *TranscriptDispatcher {
	return &TranscriptDispatcher{
		summarizer: summarizer,
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: webhookTimeout},
		logger:     logger,
	}
}

// Dispatch summarizes the transcript and delivers the extracted record.
// The record is sent at most once; a non-success webhook status is logged
// but not escalated.
func (d *TranscriptDispatcher) Dispatch(ctx context.Context, transcript, callSID string) error {
	if d.webhookURL == "" {
		d.logger.Warn("No webhook URL configured, skipping transcript dispatch",
			zap.String("callSID", callSID))
		return nil
	}

	record, err := d.summarizer.Summarize(ctx, transcript)
	if err != nil {
		d.logger.Error("Transcript summarization failed",
			zap.String("callSID", callSID),
			zap.Error(err))
		return fmt.Errorf("summarizing transcript: %w", err)
	}

	d.logger.Info("Extracted customer record",
		zap.String("callSID", callSID),
		zap.String("customerName", record.CustomerName),
		zap.String("customerAvailability", record.CustomerAvailability))

	body, err := json.Marshal(record)
	if err != nil {
		d.logger.Error("Failed to marshal customer record",
			zap.String("callSID", callSID),
			zap.Error(err))
		return fmt.Errorf("marshaling customer record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		d.logger.Error("Failed to build webhook request",
			zap.String("callSID", callSID),
			zap.Error(err))
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error("Webhook delivery failed",
			zap.String("callSID", callSID),
			zap.Error(err))
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Delivery is best effort; a rejecting webhook is not escalated.
		d.logger.Warn("Webhook returned non-success status",
			zap.String("callSID", callSID),
			zap.Int("status", resp.StatusCode))
		return nil
	}

	d.logger.Info("Customer record delivered to webhook",
		zap.String("callSID", callSID),
		zap.Int("status", resp.StatusCode))
	return nil
}
