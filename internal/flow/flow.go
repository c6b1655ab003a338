// Package flow implements the staged intake conversation as an explicit
// state machine. Every conversation lives on exactly one stage; a user
// message is routed to the current stage's handler, which either keeps
// the conversation where it is (re-prompt) or advances it along a fixed
// transition table. Stages that need no user input run back to back
// inside a bounded loop, so a single message can carry the conversation
// across several stages without recursion.
package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdh/emily/internal/persist"
)

// Stage names a step of the intake pipeline
type Stage string

const (
	StageWelcome        Stage = "welcome"
	StageBasicInfo      Stage = "basic_info"
	StageRole           Stage = "role_classification"
	StageRequirements   Stage = "explain_requirements"
	StageSpotlight      Stage = "spotlight_check"
	StageRepresentation Stage = "representation_check"
	StagePreferences    Stage = "work_preferences"
	StageMaterials      Stage = "materials_collection"
	StageResearch       Stage = "research_questions"
	StageSummary        Stage = "final_summary"
	StageDone           Stage = "done"
)

// maxHops bounds how many stage transitions a single message may cause.
// The pipeline is linear, so anything near this limit is a routing bug,
// not a long conversation.
const maxHops = 16

// ErrHopBudget is returned when a single message causes more stage
// transitions than the pipeline allows
var ErrHopBudget = errors.New("stage transition budget exceeded")

// Identity carries the agency naming used in scripted replies
type Identity struct {
	AgencyName      string
	AssistantName   string
	SubmissionEmail string
}

type stepResult struct {
	reply string
	// advance moves the conversation to the stage's successor
	advance bool
	// reprompt re-emits the stage's own prompt after the reply
	reprompt bool
}

type stageDef struct {
	next Stage
	// skip short-circuits an input stage whose answer is already on
	// the record
	skip func(*Machine, *persist.Application) bool
	// prompt is set for stages that wait on user input; nil marks an
	// auto stage that runs as soon as the conversation reaches it
	prompt func(*Machine, *persist.Application) string
	handle func(*Machine, *persist.Application, string) stepResult
}

// Machine routes intake conversations through the stage pipeline
type Machine struct {
	identity Identity
	stages   map[Stage]stageDef
}

// NewMachine creates a stage machine with the given agency identity
func NewMachine(id Identity) *Machine {
	if id.AgencyName == "" {
		id.AgencyName = "TDH Agency"
	}
	if id.AssistantName == "" {
		id.AssistantName = "Emily"
	}
	if id.SubmissionEmail == "" {
		id.SubmissionEmail = "info@tdhagency.com"
	}

	m := &Machine{identity: id}
	m.stages = map[Stage]stageDef{
		StageWelcome: {
			next:   StageBasicInfo,
			handle: (*Machine).handleWelcome,
		},
		StageBasicInfo: {
			next:   StageRole,
			prompt: (*Machine).promptBasicInfo,
			handle: (*Machine).handleBasicInfo,
		},
		StageRole: {
			next:   StageRequirements,
			prompt: (*Machine).promptRole,
			handle: (*Machine).handleRole,
		},
		StageRequirements: {
			next:   StageSpotlight,
			handle: (*Machine).handleRequirements,
		},
		StageSpotlight: {
			next:   StageRepresentation,
			skip:   (*Machine).skipSpotlight,
			prompt: (*Machine).promptSpotlight,
			handle: (*Machine).handleSpotlight,
		},
		StageRepresentation: {
			next:   StagePreferences,
			prompt: (*Machine).promptRepresentation,
			handle: (*Machine).handleRepresentation,
		},
		StagePreferences: {
			next:   StageMaterials,
			prompt: (*Machine).promptPreferences,
			handle: (*Machine).handlePreferences,
		},
		StageMaterials: {
			next:   StageResearch,
			prompt: (*Machine).promptMaterials,
			handle: (*Machine).handleMaterials,
		},
		StageResearch: {
			next:   StageSummary,
			prompt: (*Machine).promptResearch,
			handle: (*Machine).handleResearch,
		},
		StageSummary: {
			next:   StageDone,
			handle: (*Machine).handleSummary,
		},
		StageDone: {
			next:   StageDone,
			handle: (*Machine).handleDone,
		},
	}
	return m
}

// InitialStage is where new conversations start
func InitialStage() Stage {
	return StageWelcome
}

// Step routes one user message through the pipeline and returns the
// assistant's reply. An empty input starts or resumes the conversation
// at the current stage's prompt. The application record is mutated in
// place; the caller persists it.
func (m *Machine) Step(app *persist.Application, input string) (string, error) {
	input = strings.TrimSpace(input)
	entryStage := app.Stage
	var replies []string

	for hops := 0; hops < maxHops; hops++ {
		def, ok := m.stages[Stage(app.Stage)]
		if !ok {
			return "", fmt.Errorf("unknown stage: %q", app.Stage)
		}

		if def.skip != nil && def.skip(m, app) {
			app.Stage = string(def.next)
			continue
		}

		if def.prompt != nil && input == "" {
			replies = append(replies, def.prompt(m, app))
			return joinReplies(replies), nil
		}

		res := def.handle(m, app, input)
		input = ""

		if res.reply != "" {
			replies = append(replies, res.reply)
		}

		if res.reprompt {
			replies = append(replies, def.prompt(m, app))
			return joinReplies(replies), nil
		}

		if !res.advance {
			return joinReplies(replies), nil
		}

		app.Stage = string(def.next)
		if Stage(app.Stage) == StageDone {
			return joinReplies(replies), nil
		}
	}

	// A budget overrun is a routing bug; leave the record at the stage
	// it entered with so the conversation can continue
	app.Stage = entryStage
	return "", ErrHopBudget
}

func joinReplies(replies []string) string {
	return strings.Join(replies, "\n\n")
}
