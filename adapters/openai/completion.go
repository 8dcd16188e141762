package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/zaindgr8/inbound-call-agent/domain/entities"
	"github.com/zaindgr8/inbound-call-agent/domain/repositories"
)

const defaultSummaryModel = "gpt-4o"

const summarySystemPrompt = "You are given the transcript of a phone call between a customer and an " +
	"AI voice agent. Extract the customer's details from the transcript. " +
	"Interpret relative dates (such as \"tomorrow\" or \"next Tuesday\") " +
	"against today's date, %s, and express availability as an ISO 8601 date. " +
	"If a detail was never mentioned, say so in words rather than leaving the field empty."

// SummaryConfig holds configuration for the completion client.
// Required fields:
// - APIKey: OpenAI API key
// Optional fields with defaults:
// - BaseURL: API base URL, used by tests to point at a local server
// - Model: completion model (default "gpt-4o")
type SummaryConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// SummaryClient extracts a structured customer record from a finished
// call transcript using a JSON-schema-constrained chat completion.
type SummaryClient struct {
	client oai.Client
	model  string
	logger *zap.Logger
	now    func() time.Time
}

var _ repositories.TranscriptSummarizer = (*SummaryClient)(nil)

// NewSummaryClient validates the configuration and applies defaults.
func NewSummaryClient(cfg SummaryConfig, logger *zap.Logger) (*SummaryClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultSummaryModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &SummaryClient{
		client: oai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
		now:    time.Now,
	}, nil
}

// customerRecordSchema constrains the completion to exactly the three
// required string fields.
func customerRecordSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"customerName": map[string]interface{}{
				"type":        "string",
				"description": "The customer's name",
			},
			"customerAvailability": map[string]interface{}{
				"type":        "string",
				"description": "When the customer is available, as an ISO 8601 date",
			},
			"specialNotes": map[string]interface{}{
				"type":        "string",
				"description": "Any special requests or notes from the call",
			},
		},
		"required":             []string{"customerName", "customerAvailability", "specialNotes"},
		"additionalProperties": false,
	}
}

// Summarize sends the transcript to the completion service and parses the
// returned JSON content into a validated customer record.
func (c *SummaryClient) Summarize(ctx context.Context, transcript string) (*entities.CustomerRecord, error) {
	systemPrompt := fmt.Sprintf(summarySystemPrompt, c.now().Format("2006-01-02"))

	completion, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(transcript),
		},
		ResponseFormat: oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "customer_details_extraction",
					Schema: customerRecordSchema(),
					Strict: oai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("requesting transcript summary: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("summary completion returned no choices")
	}

	content := completion.Choices[0].Message.Content
	c.logger.Debug("Summary completion received", zap.String("content", content))

	var record entities.CustomerRecord
	if err := json.Unmarshal([]byte(content), &record); err != nil {
		return nil, fmt.Errorf("parsing summary content: %w", err)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("incomplete customer record: %w", err)
	}
	return &record, nil
}
