package flow

import "strings"

// Performer roles the agency accepts
const (
	RoleDancer         = "Dancer"
	RoleDancerWhoSings = "Dancer Who Sings"
	RoleSingerActor    = "Singer/Actor"
)

// Material describes one submission item a role requires
type Material struct {
	Name     string
	Label    string
	Optional bool
	// Reel materials are video links; the only non-reel material is
	// the CV document
	Reel bool
}

var dancerMaterials = []Material{
	{Name: "cv", Label: "CV"},
	{Name: "dance_reel", Label: "dance reel", Reel: true},
	{Name: "vocal_reel", Label: "vocal reel", Reel: true},
	{Name: "acting_reel", Label: "acting reel", Reel: true},
}

var singerActorMaterials = []Material{
	{Name: "cv", Label: "CV"},
	{Name: "vocal_reel", Label: "vocal reel", Reel: true},
	{Name: "acting_reel", Label: "acting reel", Reel: true},
	{Name: "movement_reel", Label: "movement reel", Reel: true, Optional: true},
}

// RequiredMaterials returns the ordered submission checklist for a role.
// Unknown roles get the dancer checklist, the strictest one.
func RequiredMaterials(role string) []Material {
	if role == RoleSingerActor {
		return singerActorMaterials
	}
	return dancerMaterials
}

// DetectRole classifies free-form text into one of the agency's roles.
// "Dancer who sings" must win over plain "dancer", so the longer phrase
// is checked first. Returns "" when nothing matches.
func DetectRole(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "dancer who sings") || strings.Contains(t, "dancer that sings"):
		return RoleDancerWhoSings
	case strings.Contains(t, "sing") && strings.Contains(t, "danc"):
		return RoleDancerWhoSings
	case strings.Contains(t, "danc"):
		return RoleDancer
	case strings.Contains(t, "sing"), strings.Contains(t, "actor"),
		strings.Contains(t, "actress"), strings.Contains(t, "acting"),
		strings.Contains(t, "mover"):
		return RoleSingerActor
	}
	return ""
}

// Preference keys in the order they are asked
var preferenceOrder = []string{
	"musical_theatre",
	"work_abroad",
	"cruises",
	"tv_film",
	"commercial_dance",
}

var preferenceLabels = map[string]string{
	"musical_theatre":  "musical theatre",
	"work_abroad":      "work abroad",
	"cruises":          "cruise ship contracts",
	"tv_film":          "TV and film",
	"commercial_dance": "commercial dance",
}

// PreferenceOrder returns the work preference keys in asking order
func PreferenceOrder() []string {
	return preferenceOrder
}

// PreferenceLabel returns the human label for a work preference key
func PreferenceLabel(key string) string {
	if l, ok := preferenceLabels[key]; ok {
		return l
	}
	return key
}
