package config

import "testing"

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when OPENAI_API_KEY is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("REALTIME_MODEL", "")
	t.Setenv("SUMMARY_MODEL", "")
	t.Setenv("VOICE", "")
	t.Setenv("SYSTEM_MESSAGE", "")
	t.Setenv("TEMPERATURE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != defaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, defaultPort)
	}
	if cfg.RealtimeModel != defaultRealtimeModel {
		t.Errorf("RealtimeModel = %q, want %q", cfg.RealtimeModel, defaultRealtimeModel)
	}
	if cfg.SummaryModel != defaultSummaryModel {
		t.Errorf("SummaryModel = %q, want %q", cfg.SummaryModel, defaultSummaryModel)
	}
	if cfg.Voice != defaultVoice {
		t.Errorf("Voice = %q, want %q", cfg.Voice, defaultVoice)
	}
	if cfg.SystemMessage == "" {
		t.Error("SystemMessage default is empty")
	}
	if cfg.Temperature != defaultTemperature {
		t.Errorf("Temperature = %v, want %v", cfg.Temperature, defaultTemperature)
	}
	if cfg.WebhookURL != "" {
		t.Errorf("WebhookURL = %q, want empty", cfg.WebhookURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WEBHOOK_URL", "https://example.com/hook")
	t.Setenv("PORT", "8080")
	t.Setenv("VOICE", "echo")
	t.Setenv("TEMPERATURE", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WebhookURL != "https://example.com/hook" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Voice != "echo" {
		t.Errorf("Voice = %q, want echo", cfg.Voice)
	}
	if cfg.Temperature != 0.5 {
		t.Errorf("Temperature = %v, want 0.5", cfg.Temperature)
	}
}

func TestLoad_InvalidTemperature(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TEMPERATURE", "warm")

	if _, err := Load(); err == nil {
		t.Error("expected error for unparsable TEMPERATURE")
	}
}
