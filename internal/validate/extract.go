package validate

import "regexp"

// Contact holds the details extracted from free-form messages
type Contact struct {
	Name      string
	Email     string
	Phone     string
	Spotlight string
}

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:my|full)?\s*[nN]ame\s*(?:is|:)?\s*([A-Z][a-z]+\s+[A-Z][a-z]+)`),
		regexp.MustCompile(`I(?:'m| am)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
	}
	emailFind     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneFindList = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:phone|number|contact)(?:\s*(?:is|:))?\s*(\+?\d[\d\s-]{8,})`),
		regexp.MustCompile(`(\+?\d[\d\s-]{8,})`),
	}
	spotlightFind = regexp.MustCompile(`(?i)(?:spotlight|profile)(?:\s*(?:is|:))?\s*(https?://(?:www\.)?spotlight\.com\S+)`)
)

// ExtractContact scans a message for contact details and fills in any
// field of cur that is still empty. Fields already set are never
// overwritten; the conversation corrects them explicitly instead.
func ExtractContact(message string, cur Contact) Contact {
	out := cur

	if out.Name == "" {
		for _, p := range namePatterns {
			if m := p.FindStringSubmatch(message); m != nil {
				if ok, _ := Name(m[1]); ok {
					out.Name = m[1]
					break
				}
			}
		}
	}

	if out.Email == "" {
		if m := emailFind.FindString(message); m != "" {
			out.Email = m
		}
	}

	if out.Phone == "" {
		for _, p := range phoneFindList {
			if m := p.FindStringSubmatch(message); m != nil {
				if ok, _ := Phone(m[1]); ok {
					out.Phone = m[1]
					break
				}
			}
		}
	}

	if out.Spotlight == "" {
		if m := spotlightFind.FindStringSubmatch(message); m != nil {
			out.Spotlight = m[1]
		}
	}

	return out
}
