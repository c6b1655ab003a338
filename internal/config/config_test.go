package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathReadsAgencySection(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".emily.yaml")
	content := `agency:
  name: "Test Agency"
  assistant_name: "Robin"
  submission_email: "apply@test.example"
storage:
  retention_days: 7
ai:
  provider: "openai"
  model: "gpt-4o-mini"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Agency.Name != "Test Agency" {
		t.Fatalf("unexpected agency name: %q", cfg.Agency.Name)
	}
	if cfg.Agency.AssistantName != "Robin" {
		t.Fatalf("unexpected assistant name: %q", cfg.Agency.AssistantName)
	}
	if cfg.Agency.SubmissionEmail != "apply@test.example" {
		t.Fatalf("unexpected submission email: %q", cfg.Agency.SubmissionEmail)
	}
	if cfg.Storage.RetentionDays != 7 {
		t.Fatalf("unexpected retention: %d", cfg.Storage.RetentionDays)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected ai config: %#v", cfg.AI)
	}
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Agency.AssistantName != "Emily" {
		t.Fatalf("expected default assistant name, got %q", cfg.Agency.AssistantName)
	}
	if cfg.Agency.SubmissionEmail != "info@tdhagency.com" {
		t.Fatalf("expected default submission email, got %q", cfg.Agency.SubmissionEmail)
	}
	if cfg.Storage.RetentionDays != 30 {
		t.Fatalf("expected default retention, got %d", cfg.Storage.RetentionDays)
	}
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".emily.yaml")
	content := `ai:
  provider: "openai"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Fatalf("expected key from env, got %q", cfg.AI.APIKey)
	}
}
