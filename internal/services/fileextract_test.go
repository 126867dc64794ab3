package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExtractText_Plain(t *testing.T) {
	s := NewFileExtractService()

	tests := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		{"txt", "notes.txt", "Line one\r\n\r\n\r\nLine two\n", "Line one\n\nLine two"},
		{"md", "notes.md", "# Heading\n\nBody text", "# Heading\n\nBody text"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ExtractText(tc.filename, strings.NewReader(tc.content))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractText_EmptyFile(t *testing.T) {
	s := NewFileExtractService()

	if _, err := s.ExtractText("empty.txt", strings.NewReader("  \n \n")); err == nil {
		t.Error("Expected an error for an empty file")
	}
}

func TestExtractText_UnsupportedType(t *testing.T) {
	s := NewFileExtractService()

	_, err := s.ExtractText("lecture.mp4", strings.NewReader("binary"))

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestExtractText_DOCX(t *testing.T) {
	s := NewFileExtractService()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Hello &amp; welcome</w:t></w:r></w:p><w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p></w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := s.ExtractText("doc.docx", &buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(got, "Hello & welcome") || !strings.Contains(got, "Second paragraph") {
		t.Errorf("Unexpected extraction: %q", got)
	}
}

func TestNormalizeExtractedText_CollapsesBlankRuns(t *testing.T) {
	got := normalizeExtractedText("a\n\n\n\nb")
	if got != "a\n\nb" {
		t.Errorf("Expected collapsed blanks, got %q", got)
	}
}
