package faq

import (
	"context"
	"log"
	"strings"
)

// Matcher resolves user messages against stored FAQ entries.
//
// Matching is a case-insensitive literal containment check of the user's
// message within an entry's question text. Untrusted input is never compiled
// into a pattern. The first entry in stable store order wins.
type Matcher struct {
	repo *Repo
}

func NewMatcher(repo *Repo) *Matcher {
	return &Matcher{repo: repo}
}

// Match returns the canned answer for text, if any. It never fails: a store
// error is logged and reported as no match.
func (m *Matcher) Match(ctx context.Context, text string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return "", false
	}

	entries, err := m.repo.ListEntries(ctx)
	if err != nil {
		log.Printf("[faq] entry lookup failed: %v", err)
		return "", false
	}

	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Question), needle) {
			return e.Answer, true
		}
	}
	return "", false
}
