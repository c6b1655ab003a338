// Package intake wires the stage machine, the application store and an
// optional language model into the assistant that platforms talk to.
// The machine always produces the authoritative scripted reply; the
// model, when configured, only rewords it. Any model failure falls back
// to the scripted text, so the conversation never stalls on an API.
package intake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tdh/emily/internal/config"
	"github.com/tdh/emily/internal/flow"
	"github.com/tdh/emily/internal/logger"
	"github.com/tdh/emily/internal/persist"
	"github.com/tdh/emily/internal/router"
)

// Agent handles intake conversations across all platforms
type Agent struct {
	machine    *flow.Machine
	store      *persist.Store
	provider   Provider
	maxRetries int
	exportDir  string
	identity   flow.Identity
}

// Config holds agent configuration
type Config struct {
	Agency config.AgencyConfig
	// Provider may be nil for a fully scripted assistant
	Provider   Provider
	MaxRetries int
	// ExportDir, when set, receives a JSON snapshot of every completed
	// application
	ExportDir string
}

// NewAgent creates the intake agent on top of an application store
func NewAgent(store *persist.Store, cfg Config) *Agent {
	identity := flow.Identity{
		AgencyName:      cfg.Agency.Name,
		AssistantName:   cfg.Agency.AssistantName,
		SubmissionEmail: cfg.Agency.SubmissionEmail,
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}
	return &Agent{
		machine:    flow.NewMachine(identity),
		store:      store,
		provider:   cfg.Provider,
		maxRetries: retries,
		exportDir:  cfg.ExportDir,
		identity:   identity,
	}
}

// HandleMessage processes one user message and returns the reply
func (a *Agent) HandleMessage(ctx context.Context, msg router.Message) (router.Response, error) {
	text := strings.TrimSpace(msg.Text)

	if isRestartCommand(text) {
		if err := a.resetConversation(msg); err != nil {
			return router.Response{}, err
		}
		text = ""
	} else if isStartCommand(text) {
		text = ""
	}

	app, err := a.store.GetOrCreateApplication(
		msg.Platform, msg.ChannelID, msg.UserID, string(flow.InitialStage()))
	if err != nil {
		return router.Response{}, fmt.Errorf("load application: %w", err)
	}

	wasReady := app.Ready

	scripted, err := a.machine.Step(app, text)
	if err != nil {
		return router.Response{}, fmt.Errorf("process message: %w", err)
	}

	reply := a.rephrase(ctx, app, text, scripted)

	if text != "" {
		if err := a.store.AddMessage(app.ID, persist.Message{Role: "user", Content: text}); err != nil {
			logger.Warn("[INTAKE] Failed to record user message: %v", err)
		}
	}
	if err := a.store.AddMessage(app.ID, persist.Message{Role: "assistant", Content: reply}); err != nil {
		logger.Warn("[INTAKE] Failed to record assistant message: %v", err)
	}
	if err := a.store.SaveApplication(app); err != nil {
		return router.Response{}, fmt.Errorf("save application: %w", err)
	}

	if app.Ready && !wasReady && a.exportDir != "" {
		path, err := a.store.ExportJSON(app, a.exportDir)
		if err != nil {
			logger.Warn("[INTAKE] Failed to export application %d: %v", app.ID, err)
		} else {
			logger.Info("[INTAKE] Application %d exported to %s", app.ID, path)
		}
	}

	return router.Response{Text: reply, ThreadID: msg.ThreadID}, nil
}

// resetConversation discards any existing application so the user can
// start over
func (a *Agent) resetConversation(msg router.Message) error {
	app, err := a.store.GetApplication(msg.Platform, msg.ChannelID, msg.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load application: %w", err)
	}
	logger.Info("[INTAKE] Restarting application %d for %s", app.ID,
		router.ConversationKey(msg.Platform, msg.ChannelID, msg.UserID))
	return a.store.DeleteApplication(app.ID)
}

func isRestartCommand(text string) bool {
	t := strings.ToLower(text)
	return t == "/restart" || t == "restart" || t == "start over" || t == "start again"
}

func isStartCommand(text string) bool {
	t := strings.ToLower(text)
	return t == "/start" || t == "hi" || t == "hello" || t == "hey"
}
