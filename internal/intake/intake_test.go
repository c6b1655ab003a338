package intake

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdh/emily/internal/config"
	"github.com/tdh/emily/internal/flow"
	"github.com/tdh/emily/internal/persist"
	"github.com/tdh/emily/internal/router"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	f.calls++
	if f.err != nil {
		return ChatResponse{}, f.err
	}
	return ChatResponse{Content: f.reply}, nil
}

func newTestAgent(t *testing.T, provider Provider) (*Agent, *persist.Store) {
	t.Helper()
	store, err := persist.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	agent := NewAgent(store, Config{
		Agency: config.AgencyConfig{
			Name:            "TDH Agency",
			AssistantName:   "Emily",
			SubmissionEmail: "info@tdhagency.com",
		},
		Provider:   provider,
		MaxRetries: 2,
	})
	return agent, store
}

func testMessage(text string) router.Message {
	return router.Message{
		Platform:  "test",
		ChannelID: "chan",
		UserID:    "user",
		Text:      text,
	}
}

func TestHandleMessagePersistsProgress(t *testing.T) {
	agent, store := newTestAgent(t, nil)
	ctx := context.Background()

	resp, err := agent.HandleMessage(ctx, testMessage(""))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(resp.Text, "Emily") {
		t.Fatalf("greeting = %q, want assistant name", resp.Text)
	}

	if _, err := agent.HandleMessage(ctx, testMessage("My name is Jane Smith, email jane@example.com, phone 07123456789")); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	app, err := store.GetApplication("test", "chan", "user")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if flow.Stage(app.Stage) != flow.StageRole {
		t.Fatalf("stage = %q, want %q", app.Stage, flow.StageRole)
	}
	if app.Name != "Jane Smith" {
		t.Fatalf("name = %q", app.Name)
	}
	if len(app.Messages) < 3 {
		t.Fatalf("messages = %d, want user and assistant turns recorded", len(app.Messages))
	}
}

func TestProviderRewordsReply(t *testing.T) {
	provider := &fakeProvider{reply: "Hello there, wonderful to meet you!"}
	agent, _ := newTestAgent(t, provider)

	resp, err := agent.HandleMessage(context.Background(), testMessage(""))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if resp.Text != provider.reply {
		t.Fatalf("reply = %q, want provider output", resp.Text)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}
}

func TestProviderFailureFallsBackToScripted(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model unavailable")}
	agent, _ := newTestAgent(t, provider)

	resp, err := agent.HandleMessage(context.Background(), testMessage(""))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(resp.Text, "Emily") || !strings.Contains(resp.Text, "TDH Agency") {
		t.Fatalf("fallback reply = %q, want scripted greeting", resp.Text)
	}
	if provider.calls != 2 {
		t.Fatalf("provider calls = %d, want one per retry", provider.calls)
	}
}

func TestRestartDiscardsApplication(t *testing.T) {
	agent, store := newTestAgent(t, nil)
	ctx := context.Background()

	if _, err := agent.HandleMessage(ctx, testMessage("")); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if _, err := agent.HandleMessage(ctx, testMessage("My name is Jane Smith, email jane@example.com, phone 07123456789")); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	resp, err := agent.HandleMessage(ctx, testMessage("restart"))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(resp.Text, "Emily") {
		t.Fatalf("restart reply = %q, want fresh greeting", resp.Text)
	}

	app, err := store.GetApplication("test", "chan", "user")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if app.Name != "" {
		t.Fatalf("name = %q, want cleared after restart", app.Name)
	}
	if flow.Stage(app.Stage) != flow.StageBasicInfo {
		t.Fatalf("stage = %q, want %q", app.Stage, flow.StageBasicInfo)
	}
}
