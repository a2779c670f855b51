package testsupport_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formguard/pkg/testsupport"
)

func TestParseDocumentFromPath(t *testing.T) {
	if _, err := testsupport.ParseDocumentFromPath(""); err == nil {
		t.Fatalf("expected error for empty path")
	}

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(`<form id="f"><input name="a"></form>`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	doc := testsupport.MustParseDocument(t, path)
	if got := testsupport.MustQuery(t, doc, "#f input").Name(); got != "a" {
		t.Fatalf("expected input a, got %q", got)
	}
}

func TestAssertGoldenUpdatesWhenRequested(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "out.txt")
	t.Setenv("UPDATE_GOLDENS", "1")
	testsupport.AssertGolden(t, path, []byte("hello\n"))

	t.Setenv("UPDATE_GOLDENS", "")
	testsupport.AssertGolden(t, path, []byte("hello\n"))
}
