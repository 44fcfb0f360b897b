package services

import "testing"

func TestFilterContent(t *testing.T) {
	ms := NewModerationService(nil)

	tests := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{"clean tip", "Free parking behind the library after 6pm", true, ""},
		{"empty", "", true, ""},
		{"banned word", "this place is shit", false, "inappropriate_language"},
		{"banned word is whole-word", "the class schedule is posted", true, ""},
		{"url", "check out https://example.com/deals", false, "url_not_allowed"},
		{"www url", "see www.example.com for more", false, "url_not_allowed"},
		{"email", "contact me at someone@example.com", false, "contact_info_not_allowed"},
		{"phone", "call 555-123-4567 for info", false, "contact_info_not_allowed"},
		{"repeated chars", "soooooo good", false, "spam_detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ms.FilterContent(tt.text)
			if ok != tt.ok || reason != tt.reason {
				t.Fatalf("FilterContent(%q) = (%v, %q), want (%v, %q)", tt.text, ok, reason, tt.ok, tt.reason)
			}
		})
	}
}

func TestRejectionMessages(t *testing.T) {
	ms := NewModerationService(nil)

	if msg := ms.GetRejectionMessage("url_not_allowed"); msg == "" {
		t.Fatal("expected a message for a known reason")
	}
	if msg := ms.GetRejectionMessage("something_else"); msg == "" {
		t.Fatal("expected the fallback message for an unknown reason")
	}
}
