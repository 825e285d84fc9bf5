package faq

import "strings"

// ParseEntries splits extracted document text into question/answer records.
//
// Documents may structure their content as repeated "Q:" / "A:" blocks, with
// the answer running until the next "Q:". A document without markers
// contributes a single entry whose question and answer are both the full
// text, so plain-prose uploads are still matchable by their own wording.
func ParseEntries(content string) []Entry {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var entries []Entry
	var question, answer []string
	inAnswer := false

	flush := func() {
		q := strings.TrimSpace(strings.Join(question, "\n"))
		a := strings.TrimSpace(strings.Join(answer, "\n"))
		if q != "" && a != "" {
			entries = append(entries, Entry{Question: q, Answer: a})
		}
		question, answer = nil, nil
		inAnswer = false
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case hasMarker(trimmed, "Q:"):
			flush()
			question = append(question, strings.TrimSpace(trimmed[2:]))
		case hasMarker(trimmed, "A:"):
			inAnswer = true
			answer = append(answer, strings.TrimSpace(trimmed[2:]))
		case inAnswer:
			answer = append(answer, line)
		case len(question) > 0:
			question = append(question, trimmed)
		}
	}
	flush()

	if len(entries) == 0 {
		entries = append(entries, Entry{Question: content, Answer: content})
	}
	return entries
}

func hasMarker(line, marker string) bool {
	return len(line) >= len(marker) && strings.EqualFold(line[:len(marker)], marker)
}
