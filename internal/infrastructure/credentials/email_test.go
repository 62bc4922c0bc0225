package credentials

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveEmailFromUsername(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "email.txt")

	email, err := ResolveEmail(path, "alice", "example.com", strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ResolveEmail error: %v", err)
	}
	if email != "alice@example.com" {
		t.Fatalf("unexpected email: %q", email)
	}

	// The command-line username must not be persisted.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("email file should not exist, stat err: %v", err)
	}
}

func TestResolveEmailFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "email.txt")
	if err := os.WriteFile(path, []byte("bob@example.org\n"), 0o644); err != nil {
		t.Fatalf("seed email file: %v", err)
	}

	email, err := ResolveEmail(path, "", "example.com", strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ResolveEmail error: %v", err)
	}
	if email != "bob@example.org" {
		t.Fatalf("unexpected email: %q", email)
	}
}

func TestResolveEmailPromptsAndPersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "email.txt")
	var out bytes.Buffer

	email, err := ResolveEmail(path, "", "example.com", strings.NewReader("carol@example.net\n"), &out)
	if err != nil {
		t.Fatalf("ResolveEmail error: %v", err)
	}
	if email != "carol@example.net" {
		t.Fatalf("unexpected email: %q", email)
	}
	if !strings.Contains(out.String(), "Email address") {
		t.Fatalf("prompt not written, got %q", out.String())
	}

	persisted, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read persisted email: %v", err)
	}
	if string(persisted) != "carol@example.net" {
		t.Fatalf("unexpected persisted value: %q", persisted)
	}
}

func TestResolveEmailNoInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "email.txt")

	if _, err := ResolveEmail(path, "", "example.com", strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error when no email can be resolved")
	}
}
