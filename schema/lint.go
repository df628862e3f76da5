package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed settings.schema.json
var declarationSchema []byte

// DeclarationSchema returns the JSON schema every group declaration must
// satisfy.
func DeclarationSchema() []byte {
	return append([]byte(nil), declarationSchema...)
}

// LintIssue is one structural problem found in a declaration document.
type LintIssue struct {
	Field       string
	Description string
}

func (i LintIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Description)
}

// Lint validates a decoded declaration document against the declaration
// schema. An empty result means the document is structurally valid.
func Lint(doc map[string]any) ([]LintIssue, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(declarationSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("schema: lint: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	issues := make([]LintIssue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, LintIssue{Field: desc.Field(), Description: desc.Description()})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues, nil
}

// LintFile decodes path by extension and lints it.
func LintFile(path string) ([]LintIssue, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %q: %w", path, err)
	}
	doc, err := DecodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	return Lint(doc)
}
