package validate

import "testing"

func TestEmail(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"test@example.com", true},
		{"user.name@domain.co.uk", true},
		{"user+tag@example.org", true},
		{"", false},
		{"invalid", false},
		{"@example.com", false},
		{"user@", false},
		{"user@domain", false},
		{"user @example.com", false},
	}

	for _, tc := range cases {
		valid, _ := Email(tc.in)
		if valid != tc.valid {
			t.Errorf("Email(%q) = %v, want %v", tc.in, valid, tc.valid)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"+447700900123", true},
		{"07700 900123", true},
		{"(020) 7946-0958", true},
		{"020.7946.0958", true},
		{"", false},
		{"12345", false},
		{"not a number", false},
		{"+12345678901234567890", false},
	}

	for _, tc := range cases {
		valid, _ := Phone(tc.in)
		if valid != tc.valid {
			t.Errorf("Phone(%q) = %v, want %v", tc.in, valid, tc.valid)
		}
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"Jane Doe", true},
		{"Mary-Jane O'Brien", true},
		{"J. Smith", true},
		{"", false},
		{"A", false},
		{"Jane123", false},
	}

	for _, tc := range cases {
		valid, _ := Name(tc.in)
		if valid != tc.valid {
			t.Errorf("Name(%q) = %v, want %v", tc.in, valid, tc.valid)
		}
	}
}

func TestCV(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"Here's my CV in PDF format", true},
		{"I have a Word document ready", true},
		{"my-cv.docx", true},
		{"I've attached my resume", true},
		{"here's a google doc link", true},
		{"I'll sing it to you", false},
		{"https://youtube.com/watch?v=abc", false},
	}

	for _, tc := range cases {
		valid, msg := CV(tc.in)
		if valid != tc.valid {
			t.Errorf("CV(%q) = %v (%q), want %v", tc.in, valid, msg, tc.valid)
		}
	}
}

func TestReelLink(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://vimeo.com/123456789", true},
		{"check vimeo.com/987654", true},
		{"https://www.dropbox.com/s/abc/reel.mp4", false},
		{"I have a great showreel", false},
		{"hello", false},
	}

	for _, tc := range cases {
		valid, _ := ReelLink(tc.in, "Dance Reel")
		if valid != tc.valid {
			t.Errorf("ReelLink(%q) = %v, want %v", tc.in, valid, tc.valid)
		}
	}
}

func TestReelLinkFeedbackMentionsMaterial(t *testing.T) {
	_, msg := ReelLink("I have a showreel", "Vocal Reel")
	if msg != "Please provide a direct YouTube or Vimeo link for your Vocal Reel" {
		t.Fatalf("unexpected feedback: %q", msg)
	}
}

func TestSpotlightLink(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"https://www.spotlight.com/1234-5678-9012", true},
		{"https://portal.spotlight.com/profile/me", true},
		{"https://example.com/profile", false},
		{"no I don't have one", false},
	}

	for _, tc := range cases {
		valid, _ := SpotlightLink(tc.in)
		if valid != tc.valid {
			t.Errorf("SpotlightLink(%q) = %v, want %v", tc.in, valid, tc.valid)
		}
	}
}

func TestCompletionIntent(t *testing.T) {
	positives := []string{
		"that's all",
		"I'm all done now",
		"nothing else from me",
		"That's everything!",
	}
	for _, in := range positives {
		if !CompletionIntent(in) {
			t.Errorf("CompletionIntent(%q) = false, want true", in)
		}
	}

	negatives := []string{
		"here's my vocal reel",
		"what happens next?",
	}
	for _, in := range negatives {
		if CompletionIntent(in) {
			t.Errorf("CompletionIntent(%q) = true, want false", in)
		}
	}
}

func TestAffirmativeNegative(t *testing.T) {
	if !Affirmative("Yes, I do") {
		t.Error("expected affirmative")
	}
	if !Affirmative("yep") {
		t.Error("expected affirmative")
	}
	if Affirmative("not really") {
		t.Error("unexpected affirmative")
	}
	if !Negative("No, I'm not represented") {
		t.Error("expected negative")
	}
	if !Negative("nope") {
		t.Error("expected negative")
	}
	if Negative("yes") {
		t.Error("unexpected negative")
	}
}

func TestExtractContact(t *testing.T) {
	c := ExtractContact("Hi, my name is Jane Doe and my email is jane@example.com", Contact{})
	if c.Name != "Jane Doe" {
		t.Errorf("name = %q, want Jane Doe", c.Name)
	}
	if c.Email != "jane@example.com" {
		t.Errorf("email = %q", c.Email)
	}

	c = ExtractContact("my phone number is +44 7700 900123", c)
	if c.Phone == "" {
		t.Error("expected a phone number")
	}

	c = ExtractContact("spotlight: https://www.spotlight.com/1234-5678", c)
	if c.Spotlight == "" {
		t.Error("expected a spotlight link")
	}
}

func TestExtractContactDoesNotOverwrite(t *testing.T) {
	cur := Contact{Name: "Jane Doe", Email: "jane@example.com"}
	got := ExtractContact("I'm John Smith, john@other.org", cur)
	if got.Name != "Jane Doe" || got.Email != "jane@example.com" {
		t.Fatalf("existing fields were overwritten: %#v", got)
	}
}
