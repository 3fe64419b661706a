package document

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExtractText_PlainText(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
		wantErr  bool
	}{
		{"txt", "resume.txt", []byte("Go developer"), "Go developer", false},
		{"markdown", "resume.md", []byte("# Skills\n- Go"), "# Skills\n- Go", false},
		{"no extension", "resume", []byte("plain content"), "plain content", false},
		{"uppercase extension", "RESUME.TXT", []byte("shouting"), "shouting", false},
		{"empty", "resume.txt", nil, "", true},
		{"binary as txt", "resume.txt", []byte{0xff, 0xfe, 0x00, 0x01}, "", true},
		{"unknown extension", "resume.exe", []byte("whatever"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.filename, tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractText: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractText_UnsupportedError(t *testing.T) {
	_, err := ExtractText("slides.pptx", []byte("x"))
	var ue *ErrUnsupported
	if !errors.As(err, &ue) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if !strings.Contains(ue.Error(), "slides.pptx") {
		t.Errorf("error should name the file: %s", ue.Error())
	}
}

func TestExtractText_CorruptPDF(t *testing.T) {
	if _, err := ExtractText("resume.pdf", []byte("not a pdf")); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestExtractText_CorruptDocx(t *testing.T) {
	if _, err := ExtractText("resume.docx", []byte("not a zip")); err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(bytes.NewReader([]byte("hello")), 10)
	if err != nil {
		t.Fatalf("ReadLimited: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q", data)
	}

	if _, err := ReadLimited(bytes.NewReader([]byte("too long input")), 5); err == nil {
		t.Fatal("expected error past the limit")
	}
}
