package schema

import (
	"path/filepath"
	"testing"
)

func TestLintAcceptsWellFormedDeclaration(t *testing.T) {
	issues, err := LintFile(filepath.Join("testdata", "theme.json"))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}

	issues, err = LintFile(filepath.Join("testdata", "theme.toml"))
	if err != nil {
		t.Fatalf("lint toml: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no toml issues, got %v", issues)
	}
}

func TestLintReportsStructuralProblems(t *testing.T) {
	issues, err := LintFile(filepath.Join("testdata", "invalid.json"))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(issues) < 3 {
		t.Fatalf("expected missing type, bad operator and bad condition, got %v", issues)
	}
}

func TestLintFlagsEmptySettingID(t *testing.T) {
	issues, err := LintFile(filepath.Join("testdata", "theme.yaml"))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected a single issue for the empty id, got %v", issues)
	}
}

func TestDeclarationSchemaIsCopied(t *testing.T) {
	first := DeclarationSchema()
	first[0] = 'x'
	if DeclarationSchema()[0] == 'x' {
		t.Fatalf("expected a defensive copy")
	}
}
