package stylesheet

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-optionbuilder/schema"
)

func TestInjectorUpsertExpandsTokens(t *testing.T) {
	path := writeCSS(t, "")
	inj := NewInjector(WithLogger(zaptest.NewLogger(t)))
	values := schema.ValueSet{"brand": "#336699"}
	types := typesOf(map[string]schema.TypeTag{"brand": schema.TypeColorpicker})

	if err := inj.Upsert(path, "header_css", ".site { color: {{brand}}; }", values, types); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	want := "/* BEGIN header_css */\n.site { color: #336699; }\n/* END header_css */\n"
	if got := readCSS(t, path); got != want {
		t.Fatalf("unexpected content %q", got)
	}

	if err := inj.Delete(path, "header_css"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := readCSS(t, path); got != "/* BEGIN header_css */\n/* END header_css */\n" {
		t.Fatalf("unexpected content after delete %q", got)
	}
}

func TestInjectorEmptyBodyIsNoop(t *testing.T) {
	path := writeCSS(t, "a {}\n")
	if err := NewInjector().Upsert(path, "x", "", nil, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := readCSS(t, path); got != "a {}\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestInjectorStrictLint(t *testing.T) {
	path := writeCSS(t, "")
	inj := NewInjector(WithLint(LintStrict))
	err := inj.Upsert(path, "broken", "a { : red; }", nil, nil)
	var lintErr *LintError
	if !errors.As(err, &lintErr) {
		t.Fatalf("expected LintError, got %v", err)
	}
	if readCSS(t, path) != "" {
		t.Fatalf("strict lint must not write")
	}

	if err := NewInjector(WithLint(LintWarn)).Upsert(path, "broken", "a { : red; }", nil, nil); err != nil {
		t.Fatalf("warn mode must write, got %v", err)
	}
	if !strings.Contains(readCSS(t, path), "/* BEGIN broken */") {
		t.Fatalf("expected block to be written in warn mode")
	}
}

func TestLintCleanCSS(t *testing.T) {
	if issues := Lint("body {\n  color: #fff;\n  margin: 0 auto;\n}\n@media (max-width: 600px) { a { color: red; } }"); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestPaths(t *testing.T) {
	paths := Paths{}
	if !paths.Record("a", "one.css") {
		t.Fatalf("expected change")
	}
	if paths.Record("a", "one.css") {
		t.Fatalf("expected no change")
	}
	if paths.Lookup("a", "x.css") != "one.css" || paths.Lookup("b", "x.css") != "x.css" {
		t.Fatalf("unexpected lookup")
	}
}
