package vault

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMemoryVault_PutAndGetDocument(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	tests := []struct {
		name     string
		checksum string
		content  string
	}{
		{name: "store and retrieve", checksum: "abc123", content: "packed document"},
		{name: "empty document", checksum: "e0", content: ""},
		{name: "large document", checksum: "ff00ff", content: strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := vault.PutDocument(tt.checksum, strings.NewReader(tt.content), int64(len(tt.content))); err != nil {
				t.Fatalf("PutDocument() error = %v", err)
			}

			var buf bytes.Buffer
			if err := vault.GetDocument(tt.checksum, &buf); err != nil {
				t.Fatalf("GetDocument() error = %v", err)
			}
			if got := buf.String(); got != tt.content {
				t.Errorf("GetDocument() = %q, want %q", got, tt.content)
			}
		})
	}

	if got := vault.Len(); got != len(tests) {
		t.Errorf("Len() = %d, want %d", got, len(tests))
	}
}

func TestMemoryVault_PutDocument_Errors(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	t.Run("size mismatch", func(t *testing.T) {
		if err := vault.PutDocument("abc", strings.NewReader("hello"), 100); err == nil {
			t.Error("PutDocument() expected size mismatch error")
		}
	})

	t.Run("invalid checksum", func(t *testing.T) {
		for _, sum := range []string{"", "../etc/passwd", "ABC", "xyz"} {
			if err := vault.PutDocument(sum, strings.NewReader("x"), 1); err == nil {
				t.Errorf("PutDocument(%q) expected error", sum)
			}
		}
	})
}

func TestMemoryVault_GetDocument_NotFound(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	var buf bytes.Buffer
	err := vault.GetDocument("deadbeef", &buf)
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("GetDocument() error = %v, want ErrDocumentNotFound", err)
	}
}

func TestMemoryVault_ValidateSetup(t *testing.T) {
	if err := NewMemoryVault("test").ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
}
