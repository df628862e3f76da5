package stylesheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCSS(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dynamic.css")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func readCSS(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestUpsertBlockReplacesOnlyInnerLines(t *testing.T) {
	path := writeCSS(t, "/* BEGIN x */\nold\n/* END x */\n")
	if err := UpsertBlock(path, "x", "new"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := readCSS(t, path); got != "/* BEGIN x */\nnew\n/* END x */\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestUpsertBlockAppendsMissingMarker(t *testing.T) {
	original := "body { margin: 0; }\n/* BEGIN x */\nold\n/* END x */\n"
	path := writeCSS(t, original)
	if err := UpsertBlock(path, "y", "a { color: red; }"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	want := original + "/* BEGIN y */\na { color: red; }\n/* END y */\n"
	if got := readCSS(t, path); got != want {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestUpsertBlockPreservesSurroundingLines(t *testing.T) {
	path := writeCSS(t, "top\n/* BEGIN x */\none\ntwo\n/* END x */\nbottom")
	if err := UpsertBlock(path, "x", "three\r\n\r\n\r\n\r\nfour"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	want := "top\n/* BEGIN x */\nthree\n\nfour\n/* END x */\nbottom"
	if got := readCSS(t, path); got != want {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestUpsertBlockSeparatesFromUnterminatedLastLine(t *testing.T) {
	path := writeCSS(t, "body {}")
	if err := UpsertBlock(path, "x", "a {}"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := readCSS(t, path); got != "body {}\n/* BEGIN x */\na {}\n/* END x */\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestUpsertBlockIntoEmptyFile(t *testing.T) {
	path := writeCSS(t, "")
	if err := UpsertBlock(path, "x", "a {}"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := readCSS(t, path); got != "/* BEGIN x */\na {}\n/* END x */\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestDeleteBlockKeepsMarkers(t *testing.T) {
	path := writeCSS(t, "a\n/* BEGIN x */\nold\n/* END x */\nb\n")
	if err := DeleteBlock(path, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := readCSS(t, path); got != "a\n/* BEGIN x */\n/* END x */\nb\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if err := UpsertBlock(path, "x", "new"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := readCSS(t, path); got != "a\n/* BEGIN x */\nnew\n/* END x */\nb\n" {
		t.Fatalf("unexpected content after re-upsert %q", got)
	}
}

func TestDeleteBlockWithoutMarkerIsNoop(t *testing.T) {
	path := writeCSS(t, "a\n")
	if err := DeleteBlock(path, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := readCSS(t, path); got != "a\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestUnterminatedMarkerLeavesFileUntouched(t *testing.T) {
	original := "/* BEGIN x */\nold\n"
	path := writeCSS(t, original)
	err := UpsertBlock(path, "x", "new")
	if !errors.Is(err, ErrUnterminatedMarker) {
		t.Fatalf("expected ErrUnterminatedMarker, got %v", err)
	}
	if !IsIOError(err) {
		t.Fatalf("expected IOError, got %T", err)
	}
	if got := readCSS(t, path); got != original {
		t.Fatalf("file changed: %q", got)
	}
}

func TestTargetChecks(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "dynamic.txt")
	if err := os.WriteFile(txt, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := UpsertBlock(txt, "x", "a"); !errors.Is(err, ErrNotCSS) {
		t.Fatalf("expected ErrNotCSS, got %v", err)
	}
	missing := filepath.Join(dir, "missing.css")
	if err := UpsertBlock(missing, "x", "a"); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("expected ErrNotWritable, got %v", err)
	}
	if err := CheckTarget(missing); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("expected ErrNotWritable from CheckTarget, got %v", err)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("missing target must not be created")
	}
}

func TestNormalizeBody(t *testing.T) {
	cases := map[string]string{
		"a\r\nb":        "a\nb",
		"a\rb":          "a\nb",
		"a\n\n\n\nb":    "a\n\nb",
		"a\r\n\r\n\r\n": "a\n\n",
	}
	for input, want := range cases {
		if got := NormalizeBody(input); got != want {
			t.Fatalf("NormalizeBody(%q) = %q, want %q", input, got, want)
		}
	}
}
