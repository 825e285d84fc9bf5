package faq

import "testing"

func TestParseEntries_QABlocks(t *testing.T) {
	content := `Q: How do I track my order?
A: Use the tracking link in your confirmation email.

Q: Can I change my delivery address?
A: Yes, before the order ships.
Contact support with your order number.`

	entries := ParseEntries(content)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Question != "How do I track my order?" {
		t.Fatalf("unexpected question %q", entries[0].Question)
	}
	if entries[1].Answer != "Yes, before the order ships.\nContact support with your order number." {
		t.Fatalf("unexpected multiline answer %q", entries[1].Answer)
	}
}

func TestParseEntries_PlainDocumentIsOneEntry(t *testing.T) {
	content := "Our store is open Monday to Friday, 9am to 5pm."
	entries := ParseEntries(content)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Question != content || entries[0].Answer != content {
		t.Fatalf("plain document should self-describe, got %+v", entries[0])
	}
}

func TestParseEntries_Empty(t *testing.T) {
	if got := ParseEntries("   \n  "); got != nil {
		t.Fatalf("expected nil for blank content, got %+v", got)
	}
}

func TestParseEntries_LowercaseMarkers(t *testing.T) {
	entries := ParseEntries("q: where is my invoice?\na: under account settings")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Question != "where is my invoice?" || entries[0].Answer != "under account settings" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}
