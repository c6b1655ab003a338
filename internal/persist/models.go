package persist

import (
	"encoding/json"
	"time"
)

// Application is the form-fill record for one intake conversation.
// One row exists per (platform, channel, user) thread.
type Application struct {
	ID        int64
	Platform  string
	ChannelID string
	UserID    string

	Stage string
	Role  string

	Name      string
	Email     string
	Phone     string
	Spotlight string

	HasSpotlight      *bool
	HasRepresentation *bool
	Agency            string

	// Preferences records yes/no answers keyed by preference name.
	// A missing key means the question has not been answered yet.
	Preferences map[string]bool

	// Materials maps material name to the submitted link or reference.
	// A present key with an empty value means an optional material was
	// explicitly skipped.
	Materials map[string]string

	Ready     bool
	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []Message
}

// Message is a single conversation turn
type Message struct {
	ID        int64
	Role      string // "user" | "assistant"
	Content   string
	CreatedAt time.Time
}

// HasMaterial reports whether a material has been collected or skipped
func (a *Application) HasMaterial(name string) bool {
	_, ok := a.Materials[name]
	return ok
}

// SetMaterial records a submitted material, overwriting any previous value
func (a *Application) SetMaterial(name, content string) {
	if a.Materials == nil {
		a.Materials = make(map[string]string)
	}
	a.Materials[name] = content
}

// SetPreference records a yes/no work preference answer
func (a *Application) SetPreference(name string, value bool) {
	if a.Preferences == nil {
		a.Preferences = make(map[string]bool)
	}
	a.Preferences[name] = value
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func fromJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
