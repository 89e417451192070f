package handlers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeDeleteUploadRemovesStoredFile(t *testing.T) {
	uploadDir := t.TempDir()
	imageDir := filepath.Join(uploadDir, "images")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(imageDir, "abc.jpg")
	if err := os.WriteFile(target, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := safeDeleteUpload(uploadDir, "uploads/images/abc.jpg"); err != nil {
		t.Fatalf("safeDeleteUpload returned error: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}
}

func TestSafeDeleteUploadIgnoresMissingFile(t *testing.T) {
	if err := safeDeleteUpload(t.TempDir(), "uploads/images/gone.jpg"); err != nil {
		t.Fatalf("expected missing file to be a no-op, got %v", err)
	}
}

func TestSafeDeleteUploadRefusesEscapes(t *testing.T) {
	uploadDir := t.TempDir()

	tests := []string{
		"uploads/../../etc/passwd",
		"/etc/passwd",
		"images/abc.jpg",
	}
	for _, relPath := range tests {
		if err := safeDeleteUpload(uploadDir, relPath); err == nil {
			t.Fatalf("expected refusal for path %q", relPath)
		}
	}
}

func TestSafeDeleteUploadEmptyPathIsNoop(t *testing.T) {
	if err := safeDeleteUpload(t.TempDir(), "   "); err != nil {
		t.Fatalf("expected no-op for blank path, got %v", err)
	}
}
