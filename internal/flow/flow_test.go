package flow

import (
	"strings"
	"testing"

	"github.com/tdh/emily/internal/persist"
)

func newMachine() *Machine {
	return NewMachine(Identity{
		AgencyName:      "TDH Agency",
		AssistantName:   "Emily",
		SubmissionEmail: "info@tdhagency.com",
	})
}

func newApp(stage Stage) *persist.Application {
	return &persist.Application{
		Platform:  "cli",
		ChannelID: "test",
		UserID:    "user",
		Stage:     string(stage),
	}
}

func step(t *testing.T, m *Machine, app *persist.Application, input string) string {
	t.Helper()
	reply, err := m.Step(app, input)
	if err != nil {
		t.Fatalf("Step(%q) error: %v", input, err)
	}
	return reply
}

func wantContains(t *testing.T, reply, substr string) {
	t.Helper()
	if !strings.Contains(strings.ToLower(reply), strings.ToLower(substr)) {
		t.Fatalf("reply %q does not contain %q", reply, substr)
	}
}

func TestFullDancerConversation(t *testing.T) {
	m := newMachine()
	app := newApp(InitialStage())

	reply := step(t, m, app, "")
	wantContains(t, reply, "Emily")
	wantContains(t, reply, "full name")

	reply = step(t, m, app, "Hi, my name is Jane Smith and my email is jane@example.com")
	wantContains(t, reply, "phone")
	if app.Name != "Jane Smith" || app.Email != "jane@example.com" {
		t.Fatalf("contact not extracted: name=%q email=%q", app.Name, app.Email)
	}

	reply = step(t, m, app, "07123 456789")
	wantContains(t, reply, "Jane")
	wantContains(t, reply, "Dancer Who Sings")

	reply = step(t, m, app, "I'm a dancer")
	if app.Role != RoleDancer {
		t.Fatalf("role = %q, want %q", app.Role, RoleDancer)
	}
	wantContains(t, reply, "Dancer application")
	wantContains(t, reply, "Spotlight")

	reply = step(t, m, app, "no")
	if app.HasSpotlight == nil || *app.HasSpotlight {
		t.Fatalf("HasSpotlight = %v, want false", app.HasSpotlight)
	}
	wantContains(t, reply, "agency")

	reply = step(t, m, app, "no")
	wantContains(t, reply, "musical theatre")

	for i := 0; i < 4; i++ {
		reply = step(t, m, app, "yes")
	}
	if len(app.Preferences) != 4 {
		t.Fatalf("preferences = %d, want 4 answered so far", len(app.Preferences))
	}

	reply = step(t, m, app, "no")
	wantContains(t, reply, "CV")
	if app.Preferences["commercial_dance"] {
		t.Fatal("commercial_dance should be false")
	}

	reply = step(t, m, app, "I've attached my CV as a PDF")
	wantContains(t, reply, "dance reel")

	reply = step(t, m, app, "https://youtube.com/watch?v=abc123")
	wantContains(t, reply, "vocal reel")

	reply = step(t, m, app, "https://vimeo.com/123456")
	wantContains(t, reply, "acting reel")

	reply = step(t, m, app, "https://youtu.be/xyz987")
	wantContains(t, reply, "questions")

	reply = step(t, m, app, "done")
	wantContains(t, reply, "application summary")
	wantContains(t, reply, "info@tdhagency.com")

	if Stage(app.Stage) != StageDone {
		t.Fatalf("stage = %q, want done", app.Stage)
	}
	if !app.Ready {
		t.Fatal("application should be marked ready")
	}
	if len(app.Materials) != 4 {
		t.Fatalf("materials = %d, want 4", len(app.Materials))
	}
}

func TestSingerActorSkipsOptionalReel(t *testing.T) {
	m := newMachine()
	app := newApp(StageMaterials)
	app.Role = RoleSingerActor
	app.SetMaterial("cv", "cv.pdf")
	app.SetMaterial("vocal_reel", "https://youtu.be/v1")
	app.SetMaterial("acting_reel", "https://youtu.be/v2")

	reply := step(t, m, app, "skip")
	wantContains(t, reply, "skip")
	wantContains(t, reply, "checklist")

	content, ok := app.Materials["movement_reel"]
	if !ok || content != "" {
		t.Fatalf("movement_reel = (%q, %v), want recorded as skipped", content, ok)
	}
	if Stage(app.Stage) != StageResearch {
		t.Fatalf("stage = %q, want %q", app.Stage, StageResearch)
	}
}

func TestInvalidInputsReprompt(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		setup func(*persist.Application)
		input string
		want  string
	}{
		{
			name:  "bad email",
			stage: StageBasicInfo,
			setup: func(a *persist.Application) { a.Name = "Jane Smith" },
			input: "jane-at-example",
			want:  "valid email",
		},
		{
			name:  "unknown role",
			stage: StageRole,
			input: "I juggle",
			want:  "Dancer, Dancer Who Sings",
		},
		{
			name:  "reel as attachment",
			stage: StageMaterials,
			setup: func(a *persist.Application) {
				a.Role = RoleDancer
				a.SetMaterial("cv", "cv.pdf")
			},
			input: "here's my dance reel as an mp4",
			want:  "YouTube or Vimeo",
		},
		{
			name:  "vague preference answer",
			stage: StagePreferences,
			input: "maybe",
			want:  "yes or no",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine()
			app := newApp(tt.stage)
			if tt.setup != nil {
				tt.setup(app)
			}
			reply := step(t, m, app, tt.input)
			wantContains(t, reply, tt.want)
			if Stage(app.Stage) != tt.stage {
				t.Fatalf("stage advanced to %q on invalid input", app.Stage)
			}
		})
	}
}

func TestDetectRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"I'm a dancer who sings", RoleDancerWhoSings},
		{"I dance and sing a bit", RoleDancerWhoSings},
		{"dancer", RoleDancer},
		{"I'm primarily an actor", RoleSingerActor},
		{"singer", RoleSingerActor},
		{"I'd say I'm a mover", RoleSingerActor},
		{"I juggle", ""},
	}

	for _, tt := range tests {
		if got := DetectRole(tt.input); got != tt.want {
			t.Errorf("DetectRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRepresentationFollowUp(t *testing.T) {
	m := newMachine()
	app := newApp(StageRepresentation)

	reply := step(t, m, app, "yes")
	wantContains(t, reply, "which agency")
	if app.HasRepresentation == nil || !*app.HasRepresentation {
		t.Fatalf("HasRepresentation = %v, want true", app.HasRepresentation)
	}
	if Stage(app.Stage) != StageRepresentation {
		t.Fatalf("stage = %q, should wait for agency name", app.Stage)
	}

	reply = step(t, m, app, "Marvellous Talent Ltd")
	if app.Agency != "Marvellous Talent Ltd" {
		t.Fatalf("agency = %q", app.Agency)
	}
	wantContains(t, reply, "musical theatre")
	if Stage(app.Stage) != StagePreferences {
		t.Fatalf("stage = %q, want %q", app.Stage, StagePreferences)
	}
}

func TestSpotlightSkippedWhenAlreadyAnswered(t *testing.T) {
	m := newMachine()
	app := newApp(StageSpotlight)
	yes := true
	app.HasSpotlight = &yes
	app.Spotlight = "https://www.spotlight.com/1234-5678"

	reply := step(t, m, app, "")
	wantContains(t, reply, "another agency")
	if Stage(app.Stage) != StageRepresentation {
		t.Fatalf("stage = %q, want %q", app.Stage, StageRepresentation)
	}
}

func TestResearchQuestions(t *testing.T) {
	m := newMachine()
	app := newApp(StageResearch)
	app.Name = "Jane Smith"
	app.Role = RoleDancer

	reply := step(t, m, app, "How should I format the email?")
	wantContains(t, reply, "info@tdhagency.com")
	wantContains(t, reply, "Jane Smith - Dancer")
	if Stage(app.Stage) != StageResearch {
		t.Fatalf("stage = %q, FAQ answers should not advance", app.Stage)
	}

	reply = step(t, m, app, "when will I hear back?")
	wantContains(t, reply, "few weeks")

	reply = step(t, m, app, "that's all")
	wantContains(t, reply, "application summary")
	if Stage(app.Stage) != StageDone {
		t.Fatalf("stage = %q, want done", app.Stage)
	}
}

func TestUnknownStage(t *testing.T) {
	m := newMachine()
	app := newApp(Stage("bogus"))
	if _, err := m.Step(app, "hello"); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}
