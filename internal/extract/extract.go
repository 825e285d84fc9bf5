package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var allowed = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Allowed reports whether the filename carries an accepted upload extension.
func Allowed(filename string) bool {
	return allowed[strings.ToLower(filepath.Ext(filename))]
}

// Text extracts plain text from the file at path. PDFs are parsed; every
// other accepted extension is read as UTF-8, matching the upload contract.
func Text(path, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowed[ext] {
		return "", fmt.Errorf("extract: unsupported file type %q", ext)
	}

	if ext == ".pdf" {
		return pdfText(path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("extract: open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract: read pdf: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("extract: read pdf: %w", err)
	}
	return buf.String(), nil
}
