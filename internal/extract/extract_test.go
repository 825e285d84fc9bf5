package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAllowed(t *testing.T) {
	for _, name := range []string{"faq.txt", "FAQ.PDF", "policies.doc", "handbook.docx"} {
		if !Allowed(name) {
			t.Errorf("expected %q to be allowed", name)
		}
	}
	for _, name := range []string{"image.png", "archive.zip", "noext", "run.sh"} {
		if Allowed(name) {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestText_PlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faq.txt")
	if err := os.WriteFile(path, []byte("Q: hours?\nA: 9-5"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Text(path, "faq.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "Q: hours?\nA: 9-5" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestText_UnsupportedExtension(t *testing.T) {
	if _, err := Text("/tmp/whatever.exe", "whatever.exe"); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
