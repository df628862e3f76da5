package stylesheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

const maxLintIssues = 20

// LintError carries the syntax problems found in an expanded body.
type LintError struct {
	Marker string
	Issues []string
}

func (e *LintError) Error() string {
	return fmt.Sprintf("stylesheet: %s: invalid css: %s", e.Marker, strings.Join(e.Issues, "; "))
}

// Lint tokenizes body as a stylesheet and returns its parse errors.
func Lint(body string) []string {
	input := parse.NewInput(bytes.NewReader([]byte(body)))
	parser := css.NewParser(input, false)

	var issues []string
	for len(issues) < maxLintIssues {
		gt, _, _ := parser.Next()
		if gt != css.ErrorGrammar {
			continue
		}
		if parser.HasParseError() {
			issues = append(issues, parser.Err().Error())
			continue
		}
		if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
			issues = append(issues, err.Error())
		}
		break
	}
	return issues
}
