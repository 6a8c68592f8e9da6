// ABOUTME: Email-based deduplication for imported leads
// ABOUTME: Tracks addresses already present as leads or contacts for one user
package sync

import "strings"

type EmailMatcher struct {
	seen map[string]bool
}

// NewEmailMatcher starts from a set of already-normalized addresses.
func NewEmailMatcher(known map[string]bool) *EmailMatcher {
	m := &EmailMatcher{seen: make(map[string]bool, len(known))}
	for email := range known {
		m.seen[normalizeEmail(email)] = true
	}
	return m
}

func (m *EmailMatcher) Seen(email string) bool {
	return m.seen[normalizeEmail(email)]
}

// Add records email so later rows in the same import are treated as duplicates.
func (m *EmailMatcher) Add(email string) {
	if e := normalizeEmail(email); e != "" {
		m.seen[e] = true
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
