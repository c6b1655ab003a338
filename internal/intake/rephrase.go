package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/tdh/emily/internal/logger"
	"github.com/tdh/emily/internal/persist"
)

const rephraseMaxTokens = 1024

// rephrase asks the model to reword a scripted reply in the assistant's
// voice. Every fact, link, question and list item must survive the
// rewrite, so the model is given no room to invent. On any failure the
// scripted text is returned unchanged.
func (a *Agent) rephrase(ctx context.Context, app *persist.Application, userText, scripted string) string {
	if a.provider == nil || scripted == "" {
		return scripted
	}

	req := ChatRequest{
		SystemPrompt: a.rephraseSystemPrompt(),
		MaxTokens:    rephraseMaxTokens,
		Messages: []ChatMessage{
			{Role: "user", Content: rephraseUserPrompt(userText, scripted)},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		resp, err := a.provider.Chat(ctx, req)
		if err != nil {
			lastErr = err
			logger.Debug("[INTAKE] Rephrase attempt %d/%d failed: %v", attempt, a.maxRetries, err)
			continue
		}
		out := strings.TrimSpace(resp.Content)
		if out == "" {
			lastErr = fmt.Errorf("empty completion")
			continue
		}
		return out
	}

	logger.Warn("[INTAKE] Rephrasing via %s failed, using scripted reply: %v",
		a.provider.Name(), lastErr)
	return scripted
}

func (a *Agent) rephraseSystemPrompt() string {
	return fmt.Sprintf(
		"You are %s, the friendly application assistant at %s, a performing arts "+
			"talent agency. You will be given the exact reply the application system "+
			"produced. Reword it in your own warm, professional voice. You must keep "+
			"every fact, every URL, every email address, every list item and every "+
			"question exactly as given. Never add information, never drop a question, "+
			"never change requirements. Reply with the reworded text only.",
		a.identity.AssistantName, a.identity.AgencyName)
}

func rephraseUserPrompt(userText, scripted string) string {
	var b strings.Builder
	if userText != "" {
		fmt.Fprintf(&b, "The applicant wrote:\n%s\n\n", userText)
	}
	fmt.Fprintf(&b, "Reply to send:\n%s", scripted)
	return b.String()
}
