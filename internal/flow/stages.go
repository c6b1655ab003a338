package flow

import (
	"fmt"
	"strings"

	"github.com/tdh/emily/internal/persist"
	"github.com/tdh/emily/internal/validate"
)

func (m *Machine) handleWelcome(app *persist.Application, input string) stepResult {
	return stepResult{
		reply: fmt.Sprintf(
			"Hi! I'm %s from %s. I'll walk you through your application step by step: "+
				"first a few contact details, then your performer category, and finally "+
				"the materials we need from you.",
			m.identity.AssistantName, m.identity.AgencyName),
		advance: true,
	}
}

// firstMissingContact returns which contact field to ask for next
func firstMissingContact(app *persist.Application) string {
	switch {
	case app.Name == "":
		return "name"
	case app.Email == "":
		return "email"
	case app.Phone == "":
		return "phone"
	}
	return ""
}

func (m *Machine) promptBasicInfo(app *persist.Application) string {
	switch firstMissingContact(app) {
	case "name":
		return "Could I start with your full name?"
	case "email":
		return "Thanks! What's the best email address to reach you on?"
	case "phone":
		return "And a phone number, please?"
	}
	return "Could I start with your full name?"
}

func (m *Machine) handleBasicInfo(app *persist.Application, input string) stepResult {
	missing := firstMissingContact(app)

	contact := validate.ExtractContact(input, validate.Contact{
		Name:      app.Name,
		Email:     app.Email,
		Phone:     app.Phone,
		Spotlight: app.Spotlight,
	})

	// People often answer the question with the bare value, which the
	// sentence patterns won't catch. Try the raw input against the
	// field we just asked for.
	if missing != "" && contactField(contact, missing) == "" {
		answer := strings.TrimSpace(input)
		switch missing {
		case "name":
			if ok, _ := validate.Name(answer); ok && strings.Contains(answer, " ") {
				contact.Name = answer
			}
		case "email":
			if ok, _ := validate.Email(answer); ok {
				contact.Email = answer
			}
		case "phone":
			if ok, _ := validate.Phone(answer); ok {
				contact.Phone = answer
			}
		}
	}

	progressed := contact.Name != app.Name || contact.Email != app.Email ||
		contact.Phone != app.Phone || contact.Spotlight != app.Spotlight
	app.Name = contact.Name
	app.Email = contact.Email
	app.Phone = contact.Phone
	app.Spotlight = contact.Spotlight

	if next := firstMissingContact(app); next != "" {
		if !progressed {
			return stepResult{reply: contactFeedback(next, input)}
		}
		return stepResult{reprompt: true}
	}

	if app.Spotlight != "" && app.HasSpotlight == nil {
		yes := true
		app.HasSpotlight = &yes
	}

	first := app.Name
	if i := strings.Index(first, " "); i > 0 {
		first = first[:i]
	}
	return stepResult{
		reply:   fmt.Sprintf("Perfect, thanks %s! I've got all your contact details.", first),
		advance: true,
	}
}

func contactField(c validate.Contact, field string) string {
	switch field {
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "phone":
		return c.Phone
	}
	return ""
}

func contactFeedback(field, input string) string {
	switch field {
	case "name":
		if ok, msg := validate.Name(input); !ok {
			return msg
		}
		return "I didn't catch your name there. Could you give me your full name, first and last?"
	case "email":
		if ok, msg := validate.Email(strings.TrimSpace(input)); !ok {
			return msg
		}
		return "That doesn't look like a valid email address. Could you check it?"
	case "phone":
		if ok, msg := validate.Phone(strings.TrimSpace(input)); !ok {
			return msg
		}
		return "That doesn't look like a valid phone number. Could you check it?"
	}
	return "Sorry, could you try that again?"
}

func (m *Machine) promptRole(app *persist.Application) string {
	return "Which of these best describes you: Dancer, Dancer Who Sings, or Singer/Actor?"
}

func (m *Machine) handleRole(app *persist.Application, input string) stepResult {
	role := DetectRole(input)
	if role == "" {
		return stepResult{reply: "Sorry, I need one of our three categories: " +
			"Dancer, Dancer Who Sings, or Singer/Actor. Which fits you best?"}
	}
	app.Role = role
	return stepResult{
		reply:   fmt.Sprintf("Great, I've got you down as a %s.", role),
		advance: true,
	}
}

func (m *Machine) skipSpotlight(app *persist.Application) bool {
	return app.HasSpotlight != nil
}

func (m *Machine) promptSpotlight(app *persist.Application) string {
	return "Do you have a Spotlight profile? If so, send me the link. " +
		"If not, just say no, it isn't required."
}

func (m *Machine) handleSpotlight(app *persist.Application, input string) stepResult {
	if ok, _ := validate.SpotlightLink(input); ok {
		app.Spotlight = strings.TrimSpace(input)
		yes := true
		app.HasSpotlight = &yes
		return stepResult{reply: "Lovely, Spotlight link saved.", advance: true}
	}
	if validate.Negative(input) {
		no := false
		app.HasSpotlight = &no
		return stepResult{reply: "No problem at all, Spotlight isn't required.", advance: true}
	}
	return stepResult{reply: "Please send a spotlight.com profile link, or say no if you don't have one."}
}

func (m *Machine) promptRepresentation(app *persist.Application) string {
	return "Are you currently represented by another agency?"
}

func (m *Machine) handleRepresentation(app *persist.Application, input string) stepResult {
	// Follow-up turn: they said yes, now we need the agency name
	if app.HasRepresentation != nil && *app.HasRepresentation && app.Agency == "" {
		name := strings.TrimSpace(input)
		if len(name) < 2 {
			return stepResult{reply: "Which agency is that?"}
		}
		app.Agency = name
		return stepResult{
			reply:   fmt.Sprintf("Noted, currently with %s.", name),
			advance: true,
		}
	}

	switch {
	case validate.Negative(input):
		no := false
		app.HasRepresentation = &no
		return stepResult{reply: "Got it, no current representation.", advance: true}
	case validate.Affirmative(input):
		yes := true
		app.HasRepresentation = &yes
		return stepResult{reply: "Okay. Which agency represents you at the moment?"}
	}
	return stepResult{reply: "A simple yes or no is fine: are you with another agency right now?"}
}

// firstUnansweredPreference returns the next preference key to ask, or ""
func firstUnansweredPreference(app *persist.Application) string {
	for _, key := range preferenceOrder {
		if _, ok := app.Preferences[key]; !ok {
			return key
		}
	}
	return ""
}

func (m *Machine) promptPreferences(app *persist.Application) string {
	key := firstUnansweredPreference(app)
	if key == "" {
		return "Any other work preferences you'd like to mention?"
	}
	if key == preferenceOrder[0] {
		return fmt.Sprintf("Now a few quick yes/no questions about the work you're open to. "+
			"First: would you consider %s work?", PreferenceLabel(key))
	}
	return fmt.Sprintf("Would you consider %s work?", PreferenceLabel(key))
}

func (m *Machine) handlePreferences(app *persist.Application, input string) stepResult {
	key := firstUnansweredPreference(app)
	if key == "" {
		return stepResult{advance: true}
	}

	switch {
	case validate.Affirmative(input):
		app.SetPreference(key, true)
	case validate.Negative(input):
		app.SetPreference(key, false)
	default:
		return stepResult{reply: fmt.Sprintf("Just a yes or no: open to %s work?", PreferenceLabel(key))}
	}

	if firstUnansweredPreference(app) != "" {
		return stepResult{reprompt: true}
	}
	return stepResult{reply: "That's all the work preference questions done.", advance: true}
}

func (m *Machine) handleRequirements(app *persist.Application, input string) stepResult {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's what we need for a %s application:\n", app.Role)
	for _, mat := range RequiredMaterials(app.Role) {
		line := "- " + materialRequirement(mat)
		if mat.Optional {
			line += " (optional)"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\nAll video material must be direct YouTube or Vimeo links, " +
		"not file attachments. I'll collect each one after a few quick questions.")
	return stepResult{reply: b.String(), advance: true}
}

func materialRequirement(mat Material) string {
	if !mat.Reel {
		return "Your CV, in PDF or Word format only"
	}
	return fmt.Sprintf("A %s as a YouTube or Vimeo link", mat.Label)
}

// firstPendingMaterial returns the next material still to collect
func firstPendingMaterial(app *persist.Application) (Material, bool) {
	for _, mat := range RequiredMaterials(app.Role) {
		if !app.HasMaterial(mat.Name) {
			return mat, true
		}
	}
	return Material{}, false
}

func (m *Machine) promptMaterials(app *persist.Application) string {
	mat, ok := firstPendingMaterial(app)
	if !ok {
		return "I have all your materials already."
	}
	if !mat.Reel {
		return "First up: please send your CV. PDF or Word format only."
	}
	p := fmt.Sprintf("Next: a link to your %s, please. YouTube or Vimeo only.", mat.Label)
	if mat.Optional {
		p += " This one is optional, say skip if you'd rather move on."
	}
	return p
}

func (m *Machine) handleMaterials(app *persist.Application, input string) stepResult {
	mat, pending := firstPendingMaterial(app)
	if !pending {
		return stepResult{advance: true}
	}

	if mat.Optional && validate.Skip(input) {
		app.SetMaterial(mat.Name, "")
		feedback := fmt.Sprintf("No problem, we'll skip the %s.", mat.Label)
		return m.afterMaterial(app, feedback)
	}

	var ok bool
	var msg string
	if mat.Reel {
		ok, msg = validate.ReelLink(input, mat.Label)
	} else {
		ok, msg = validate.CV(input)
	}
	if !ok {
		return stepResult{reply: msg}
	}

	app.SetMaterial(mat.Name, strings.TrimSpace(input))
	return m.afterMaterial(app, msg)
}

func (m *Machine) afterMaterial(app *persist.Application, feedback string) stepResult {
	if _, pending := firstPendingMaterial(app); pending {
		return stepResult{reply: feedback, reprompt: true}
	}
	return stepResult{
		reply:   feedback + "\n\nThat's every material on your checklist collected.",
		advance: true,
	}
}

func (m *Machine) promptResearch(app *persist.Application) string {
	return "Before we wrap up: any questions about the submission process? " +
		"I can explain how to format the email, what happens after you apply, " +
		"or how long a response takes. If not, just say done."
}

func (m *Machine) handleResearch(app *persist.Application, input string) stepResult {
	t := strings.ToLower(input)
	switch {
	case validate.CompletionIntent(input) || validate.Negative(input):
		return stepResult{advance: true}
	case strings.Contains(t, "email") || strings.Contains(t, "subject") ||
		strings.Contains(t, "format"):
		return stepResult{reply: m.emailInstructions(app)}
	case strings.Contains(t, "after") || strings.Contains(t, "next") ||
		strings.Contains(t, "happen"):
		return stepResult{reply: "Once your email is in, our casting team reviews every " +
			"application personally. If your profile fits what we're looking for, " +
			"we'll invite you to an audition or a call."}
	case strings.Contains(t, "when") || strings.Contains(t, "hear") ||
		strings.Contains(t, "long") || strings.Contains(t, "timeline"):
		return stepResult{reply: "Reviews usually take a few weeks. We only contact " +
			"successful applicants, so no news after a month or so means this round " +
			"wasn't a match."}
	}
	return stepResult{reply: "I can help with the email format, what happens after you " +
		"submit, or response timelines. Anything else, just say done."}
}

func (m *Machine) emailInstructions(app *persist.Application) string {
	subjectName := app.Name
	if subjectName == "" {
		subjectName = "Your Name"
	}
	subjectRole := app.Role
	if subjectRole == "" {
		subjectRole = "Your Category"
	}
	return fmt.Sprintf(
		"Send everything to %s with the subject line \"%s - %s\". "+
			"In the body include your contact details, your work preference answers, "+
			"your representation status, and all your reel links. Attach your CV to the email.",
		m.identity.SubmissionEmail, subjectName, subjectRole)
}

func (m *Machine) handleSummary(app *persist.Application, input string) stepResult {
	app.Ready = true

	var b strings.Builder
	b.WriteString("Here's your complete application summary:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", orNotProvided(app.Name))
	fmt.Fprintf(&b, "Email: %s\n", orNotProvided(app.Email))
	fmt.Fprintf(&b, "Phone: %s\n", orNotProvided(app.Phone))
	fmt.Fprintf(&b, "Spotlight: %s\n", orNotProvided(app.Spotlight))
	fmt.Fprintf(&b, "Category: %s\n", orNotProvided(app.Role))

	if app.HasRepresentation != nil {
		if *app.HasRepresentation {
			fmt.Fprintf(&b, "Representation: %s\n", app.Agency)
		} else {
			b.WriteString("Representation: none\n")
		}
	}

	b.WriteString("\nMaterials:\n")
	for _, mat := range RequiredMaterials(app.Role) {
		content, ok := app.Materials[mat.Name]
		switch {
		case ok && content != "":
			fmt.Fprintf(&b, "- %s: provided\n", mat.Label)
		case ok:
			fmt.Fprintf(&b, "- %s: skipped\n", mat.Label)
		default:
			fmt.Fprintf(&b, "- %s: missing\n", mat.Label)
		}
	}

	if len(app.Preferences) > 0 {
		b.WriteString("\nWork preferences:\n")
		for _, key := range preferenceOrder {
			v, ok := app.Preferences[key]
			if !ok {
				continue
			}
			answer := "no"
			if v {
				answer = "yes"
			}
			fmt.Fprintf(&b, "- %s: %s\n", PreferenceLabel(key), answer)
		}
	}

	b.WriteString("\n" + m.emailInstructions(app))
	b.WriteString("\n\nThank you for applying to " + m.identity.AgencyName + ". Good luck!")
	return stepResult{reply: b.String(), advance: true}
}

func orNotProvided(s string) string {
	if s == "" {
		return "not provided"
	}
	return s
}

func (m *Machine) handleDone(app *persist.Application, input string) stepResult {
	return stepResult{reply: fmt.Sprintf(
		"Your application is complete. Send it to %s and good luck!",
		m.identity.SubmissionEmail)}
}
