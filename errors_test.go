package linkpage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidationErrorFormatting(t *testing.T) {
	err := NewValidationError("page.yaml", "sections[2].layout", "unknown layout \"masonry\"").
		WithHint("valid layouts are \"list\" and \"row\"")

	if got := err.Error(); !strings.Contains(got, "page.yaml") || !strings.Contains(got, "sections[2].layout") {
		t.Errorf("Error() missing context: %q", got)
	}

	formatted := err.Format()
	if !strings.Contains(formatted, "❌ Error in page.yaml") {
		t.Errorf("Format() should start with the file banner, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, "sections[2].layout") {
		t.Errorf("Format() should name the field, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, "💡 Tip:") {
		t.Errorf("Format() should include the hint, got:\n%s", formatted)
	}
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := NewValidationError("page.yaml", "", "page id is required")
	if got := err.Error(); got != "page.yaml: page id is required" {
		t.Errorf("Error() = %q", got)
	}
	if formatted := err.Format(); strings.Contains(formatted, "Field") {
		t.Errorf("Format() should not mention a field, got:\n%s", formatted)
	}
}

func TestParseFileReturnsValidationError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	// Missing required id
	content := "display_name: Nobody\nsections: []\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := ParseFile(path)
	if err == nil {
		t.Fatal("expected error for page without id")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if vErr.File != path {
		t.Errorf("File = %q, want %q", vErr.File, path)
	}
}

func TestParseWarningString(t *testing.T) {
	w := ParseWarning{Field: "sections[0].type", Message: "unknown section type \"carousel\""}
	if got := w.String(); !strings.Contains(got, "sections[0].type") {
		t.Errorf("String() = %q", got)
	}
	bare := ParseWarning{Message: "something odd"}
	if got := bare.String(); got != "something odd" {
		t.Errorf("String() = %q", got)
	}
}
