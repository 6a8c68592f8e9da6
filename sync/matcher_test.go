// ABOUTME: Tests for email deduplication during lead import
// ABOUTME: Covers case and whitespace normalization
package sync

import "testing"

func TestEmailMatcher(t *testing.T) {
	matcher := NewEmailMatcher(map[string]bool{"alice@example.com": true})

	if !matcher.Seen("Alice@Example.com ") {
		t.Error("expected alice@example.com to be seen")
	}
	if matcher.Seen("bob@example.com") {
		t.Error("expected bob@example.com to be unseen")
	}

	matcher.Add("BOB@example.com")
	if !matcher.Seen("bob@example.com") {
		t.Error("expected bob@example.com after Add")
	}

	matcher.Add("  ")
	if matcher.Seen("") {
		t.Error("blank addresses must never match")
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Alice@Example.com", "alice@example.com"},
		{"alice.smith@example.com", "alice.smith@example.com"},
		{" ALICE@EXAMPLE.COM ", "alice@example.com"},
	}

	for _, tt := range tests {
		result := normalizeEmail(tt.input)
		if result != tt.expected {
			t.Errorf("normalizeEmail(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
