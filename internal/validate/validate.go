// Package validate holds the input and material validators for the
// application intake conversation. Every check returns the verdict plus
// the user-facing feedback line, so stage handlers can re-prompt without
// composing messages themselves.
package validate

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneClean   = regexp.MustCompile(`[\s\-\(\)\.]`)
	phonePattern = regexp.MustCompile(`^\+?\d{8,15}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s\-'\.]+$`)

	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)`),
		regexp.MustCompile(`youtube\.com`),
		regexp.MustCompile(`youtu\.be`),
	}
	vimeoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`vimeo\.com/\d+`),
		regexp.MustCompile(`vimeo\.com`),
	}
	spotlightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`spotlight\.com`),
		regexp.MustCompile(`portal\.spotlight\.com`),
	}
)

var cvFormats = []string{"pdf", "doc", "docx", "word", ".pdf", ".doc", ".docx"}

var cvAttachmentKeywords = []string{"attachment", "attached", "file", "document", "resume", "cv"}

var reelKeywords = []string{"reel", "video", "demo", "showreel", "footage"}

var completionPhrases = []string{
	"that's all", "that's everything", "all done", "finished",
	"complete", "nothing else", "no more", "done",
	"submitted everything", "all materials", "ready to submit",
}

// Email validates an email address
func Email(email string) (bool, string) {
	if email == "" {
		return false, "Email is required"
	}
	if emailPattern.MatchString(email) {
		return true, "Email format is valid"
	}
	return false, "Please provide a valid email address"
}

// Phone validates a phone number, tolerating common separators
func Phone(phone string) (bool, string) {
	if phone == "" {
		return false, "Phone number is required"
	}
	clean := phoneClean.ReplaceAllString(phone, "")
	if phonePattern.MatchString(clean) {
		return true, "Phone number format is valid"
	}
	return false, "Please provide a valid phone number"
}

// Name validates a person's name
func Name(name string) (bool, string) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return false, "Please provide your full name"
	}
	if namePattern.MatchString(trimmed) {
		return true, "Name format is valid"
	}
	return false, "Please provide a valid name using only letters"
}

// SpotlightLink validates a Spotlight profile reference
func SpotlightLink(content string) (bool, string) {
	lower := strings.ToLower(content)
	for _, p := range spotlightPatterns {
		if p.MatchString(lower) {
			return true, "Spotlight link accepted"
		}
	}
	return false, "Please provide a valid Spotlight profile URL"
}

// CV validates a CV submission. Only PDF and Word formats are accepted;
// a plain mention of an attachment is taken at its word.
func CV(content string) (bool, string) {
	lower := strings.ToLower(content)
	for _, f := range cvFormats {
		if strings.Contains(lower, f) {
			return true, "CV format accepted"
		}
	}
	for _, kw := range cvAttachmentKeywords {
		if strings.Contains(lower, kw) {
			return true, "CV submission noted"
		}
	}
	return false, "CV must be in PDF or Word format"
}

// ReelLink validates a video reel submission. Only direct YouTube or
// Vimeo links are accepted; downloadable file services are not.
func ReelLink(content, materialLabel string) (bool, string) {
	lower := strings.ToLower(content)
	for _, p := range youtubePatterns {
		if p.MatchString(lower) {
			return true, materialLabel + " link accepted (YouTube)"
		}
	}
	for _, p := range vimeoPatterns {
		if p.MatchString(lower) {
			return true, materialLabel + " link accepted (Vimeo)"
		}
	}
	for _, kw := range reelKeywords {
		if strings.Contains(lower, kw) {
			return false, "Please provide a direct YouTube or Vimeo link for your " + materialLabel
		}
	}
	return false, materialLabel + " must be a YouTube or Vimeo link"
}

// CompletionIntent reports whether the user indicates they are done
// providing materials or have no further questions.
func CompletionIntent(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range completionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Affirmative reports whether the message reads as a yes
func Affirmative(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	for _, w := range []string{"yes", "yeah", "yep", "yup", "sure", "i do", "i have", "i am", "correct", "definitely", "absolutely"} {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+",") || strings.HasPrefix(lower, w+".") || strings.HasPrefix(lower, w+"!") {
			return true
		}
	}
	return false
}

// Negative reports whether the message reads as a no
func Negative(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	for _, w := range []string{"no", "nope", "nah", "not yet", "i don't", "i do not", "i haven't", "i have not", "none"} {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+",") || strings.HasPrefix(lower, w+".") || strings.HasPrefix(lower, w+"!") {
			return true
		}
	}
	return false
}

// Skip reports whether the user wants to skip an optional item
func Skip(content string) bool {
	if Negative(content) || CompletionIntent(content) {
		return true
	}
	lower := strings.ToLower(strings.TrimSpace(content))
	return lower == "skip" || strings.HasPrefix(lower, "skip ")
}
